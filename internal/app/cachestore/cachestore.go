// Package cachestore keeps the last-fetched collection of an entity type
// in memory, together with its loading and error flags, so list views can be
// served without going back to the database on every request.
//
// Records change only through Fetch, Add, Update and Delete. Add, Update and
// Delete are local: they trust the record the repository returned and do
// not refetch. Snapshots of the state are written to a Persister after every
// change and can be read back with Restore. A restored snapshot is never
// trusted as fresh: writes made while no store held it never reached it.
package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxAge is how long a fetched collection is trusted when Config
// leaves MaxAge unset.
const DefaultMaxAge = 5 * time.Minute

// FetchFunc lists the records of one scope (a locality id, for example).
type FetchFunc[T any] func(ctx context.Context, scope string) ([]T, error)

// State is a read-only copy of a store's contents.
type State[T any] struct {
	Scope     string    `json:"scope"`
	Records   []T       `json:"records"`
	IsLoading bool      `json:"is_loading"`
	Error     string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Config holds the optional collaborators of a Store.
type Config struct {
	Persister Persister
	MaxAge    time.Duration
	Logger    *zap.Logger
	Now       func() time.Time
}

// Store mirrors one entity collection. It is safe for concurrent use.
type Store[T any] struct {
	key   string
	idOf  func(T) string
	fetch FetchFunc[T]

	persister Persister
	maxAge    time.Duration
	log       *zap.Logger
	now       func() time.Time
	less      func(a, b T) bool

	mu    sync.RWMutex
	state State[T]
	gen   uint64 // bumped by every local mutation
}

// New returns an empty store. key names the snapshot in the persister, idOf
// extracts a record's id, and fetch loads a scope.
func New[T any](key string, idOf func(T) string, fetch FetchFunc[T], cfg Config) *Store[T] {
	s := &Store[T]{
		key:       key,
		idOf:      idOf,
		fetch:     fetch,
		persister: cfg.Persister,
		maxAge:    cfg.MaxAge,
		log:       cfg.Logger,
		now:       cfg.Now,
	}
	if s.maxAge <= 0 {
		s.maxAge = DefaultMaxAge
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.state.Records = []T{}
	return s
}

// SortBy keeps records ordered by less when Add or Update places them.
// Fetched listings are assumed to be in that order already.
func (s *Store[T]) SortBy(less func(a, b T) bool) *Store[T] {
	s.mu.Lock()
	s.less = less
	s.mu.Unlock()
	return s
}

// State returns a copy of the current state.
func (s *Store[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	out.Records = clone(s.state.Records)
	return out
}

// Fetch replaces the cached collection with a fresh listing of scope. On
// failure the previous records are kept and the error is recorded in the
// state as well as returned.
func (s *Store[T]) Fetch(ctx context.Context, scope string) error {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	gen := s.gen
	s.mu.Unlock()

	recs, err := s.fetch(ctx, scope)

	s.mu.Lock()
	s.state.IsLoading = false
	if err != nil {
		s.state.Error = err.Error()
		s.mu.Unlock()
		return err
	}
	if s.gen != gen && s.state.Scope == scope {
		// A local mutation landed while we were fetching and may not be in
		// recs. Keep the fetch but mark it stale so the next read refetches.
		s.state.FetchedAt = time.Time{}
	} else {
		s.state.FetchedAt = s.now()
	}
	if recs == nil {
		recs = []T{}
	}
	s.state.Scope = scope
	s.state.Records = recs
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}

// FetchIfStale fetches scope unless the cached collection is for the same
// scope, error free and younger than MaxAge. It reports whether a fetch ran.
func (s *Store[T]) FetchIfStale(ctx context.Context, scope string) (bool, error) {
	if s.Fresh(scope) {
		return false, nil
	}
	return true, s.Fetch(ctx, scope)
}

// Fresh reports whether the cached collection can be trusted for scope.
func (s *Store[T]) Fresh(scope string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.Scope != scope || st.Error != "" || st.FetchedAt.IsZero() {
		return false
	}
	return s.now().Sub(st.FetchedAt) < s.maxAge
}

// Add inserts rec, or replaces the cached record with the same id. With an
// order set the record goes to its sorted position, else to the end.
func (s *Store[T]) Add(ctx context.Context, rec T) {
	s.mutate(ctx, func(recs []T) []T {
		if i := s.index(recs, s.idOf(rec)); i >= 0 {
			if s.less == nil {
				recs[i] = rec
				return recs
			}
			recs = append(recs[:i], recs[i+1:]...)
		}
		return s.place(recs, rec)
	})
}

// Update replaces the cached record with id by rec. It reports false when
// no such record is cached.
func (s *Store[T]) Update(ctx context.Context, id string, rec T) bool {
	found := false
	s.mutate(ctx, func(recs []T) []T {
		if i := s.index(recs, id); i >= 0 {
			found = true
			if s.less == nil {
				recs[i] = rec
				return recs
			}
			return s.place(append(recs[:i], recs[i+1:]...), rec)
		}
		return recs
	})
	return found
}

// Delete drops the cached record with id. It reports false when no such
// record is cached.
func (s *Store[T]) Delete(ctx context.Context, id string) bool {
	found := false
	s.mutate(ctx, func(recs []T) []T {
		if i := s.index(recs, id); i >= 0 {
			found = true
			return append(recs[:i], recs[i+1:]...)
		}
		return recs
	})
	return found
}

// Invalidate marks the cached collection stale without dropping it.
func (s *Store[T]) Invalidate() {
	s.mu.Lock()
	s.state.FetchedAt = time.Time{}
	s.mu.Unlock()
}

func (s *Store[T]) mutate(ctx context.Context, fn func([]T) []T) {
	s.mu.Lock()
	s.state.Records = fn(clone(s.state.Records))
	s.gen++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
}

// place inserts rec after every record that does not sort after it.
func (s *Store[T]) place(recs []T, rec T) []T {
	if s.less == nil {
		return append(recs, rec)
	}
	i := sort.Search(len(recs), func(i int) bool { return s.less(rec, recs[i]) })
	recs = append(recs, rec)
	copy(recs[i+1:], recs[i:])
	recs[i] = rec
	return recs
}

func (s *Store[T]) index(recs []T, id string) int {
	for i, r := range recs {
		if s.idOf(r) == id {
			return i
		}
	}
	return -1
}

func clone[T any](recs []T) []T {
	out := make([]T, len(recs))
	copy(out, recs)
	return out
}

func (s *Store[T]) snapshotLocked() State[T] {
	snap := s.state
	snap.Records = clone(s.state.Records)
	snap.IsLoading = false
	return snap
}

func (s *Store[T]) persist(ctx context.Context, snap State[T]) {
	if s.persister == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err == nil {
		err = s.persister.Save(ctx, s.key, data)
	}
	if err != nil {
		// The in-memory state is still correct; only a restart loses it.
		s.log.Warn("cache snapshot not saved", zap.String("key", s.key), zap.Error(err))
	}
}

// Restore loads the last saved snapshot as stale records: they are served
// only until the next FetchIfStale replaces them. It reports false when
// there was none.
func (s *Store[T]) Restore(ctx context.Context) (bool, error) {
	if s.persister == nil {
		return false, nil
	}
	data, err := s.persister.Load(ctx, s.key)
	if errors.Is(err, ErrNoSnapshot) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var snap State[T]
	if err := json.Unmarshal(data, &snap); err != nil {
		return false, err
	}
	if snap.Records == nil {
		snap.Records = []T{}
	}
	snap.FetchedAt = time.Time{}
	snap.IsLoading = false
	s.mu.Lock()
	s.state = snap
	s.mu.Unlock()
	return true, nil
}
