package cachestore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSnapshot is returned by Persister.Load when nothing is saved under
// the key.
var ErrNoSnapshot = errors.New("cachestore: no snapshot")

// Persister saves and loads encoded store snapshots.
type Persister interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

const redisKeyPrefix = "skprofiles:cache:"

// RedisPersister keeps snapshots in Redis with a TTL.
type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPersister returns a persister on client. A zero ttl keeps
// snapshots until overwritten.
func NewRedisPersister(client *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, ttl: ttl}
}

func (p *RedisPersister) Save(ctx context.Context, key string, data []byte) error {
	return p.client.Set(ctx, redisKeyPrefix+key, data, p.ttl).Err()
}

func (p *RedisPersister) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := p.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	return data, err
}

// MemoryPersister keeps snapshots in process memory.
type MemoryPersister struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string][]byte)}
}

func (p *MemoryPersister) Save(_ context.Context, key string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = append([]byte(nil), data...)
	return nil
}

func (p *MemoryPersister) Load(_ context.Context, key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.data[key]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return append([]byte(nil), data...), nil
}
