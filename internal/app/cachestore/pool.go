package cachestore

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Pool hands out one Store per scope, created on first use. Each store's
// snapshot key is the pool's entity name plus the scope.
type Pool[T any] struct {
	entity string
	idOf   func(T) string
	fetch  FetchFunc[T]
	cfg    Config
	less   func(a, b T) bool

	mu     sync.Mutex
	stores map[string]*Store[T]
}

func NewPool[T any](entity string, idOf func(T) string, fetch FetchFunc[T], cfg Config) *Pool[T] {
	return &Pool[T]{
		entity: entity,
		idOf:   idOf,
		fetch:  fetch,
		cfg:    cfg,
		stores: make(map[string]*Store[T]),
	}
}

// SortBy sets the record order of every store the pool creates.
func (p *Pool[T]) SortBy(less func(a, b T) bool) *Pool[T] {
	p.mu.Lock()
	p.less = less
	p.mu.Unlock()
	return p
}

// For returns the store of scope. A new store first tries to restore its
// last snapshot, which stays stale until fetched again.
func (p *Pool[T]) For(ctx context.Context, scope string) *Store[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.stores[scope]; ok {
		return s
	}
	s := New(p.entity+":"+scope, p.idOf, p.fetch, p.cfg)
	if p.less != nil {
		s.SortBy(p.less)
	}
	if _, err := s.Restore(ctx); err != nil && p.cfg.Logger != nil {
		p.cfg.Logger.Warn("cache snapshot not restored",
			zap.String("entity", p.entity),
			zap.String("scope", scope),
			zap.Error(err))
	}
	p.stores[scope] = s
	return s
}

// Lookup returns the store of scope if one exists.
func (p *Pool[T]) Lookup(scope string) (*Store[T], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.stores[scope]
	return s, ok
}
