package cache

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Store holds the cached query results of one repository.
//
// Concurrent loads of the same key share a single fetch. Invalidating a key
// bumps its generation: a fetch that started before the invalidation still
// answers the callers waiting on it, but its result is not kept.
type Store struct {
	registry *Registry

	mu      sync.Mutex
	entries map[Key]any
	gens    map[Key]uint64
	closed  bool
	hits    int
	misses  int

	group singleflight.Group

	afterMiss func() // test hook, runs between a miss and joining the flight
}

// NewStore creates an empty store for the keys of r.
func NewStore(r *Registry) *Store {
	return &Store{
		registry: r,
		entries:  make(map[Key]any),
		gens:     make(map[Key]uint64),
	}
}

// Load returns the cached value for key or runs fetch to populate it.
//
// fetch runs detached from ctx's cancellation so that one impatient caller
// does not fail everyone sharing the fetch; a cancelled caller returns
// ctx.Err() right away. Failed fetches are not cached. A key must always be
// loaded with the same T.
func Load[T any](ctx context.Context, s *Store, key Key, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	s.mu.Lock()
	if v, ok := s.entries[key]; ok {
		if typed, ok := v.(T); ok {
			s.hits++
			s.mu.Unlock()
			return typed, nil
		}
	}
	s.misses++
	gen := s.gens[key]
	s.mu.Unlock()

	if s.afterMiss != nil {
		s.afterMiss()
	}

	ch := s.group.DoChan(flightKey(key, gen), func() (any, error) {
		// an earlier flight may have stored the value after the miss above
		s.mu.Lock()
		if v, ok := s.entries[key]; ok && s.gens[key] == gen {
			s.mu.Unlock()
			return v, nil
		}
		s.mu.Unlock()

		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if !s.closed && s.gens[key] == gen {
			s.entries[key] = v
		}
		s.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

func flightKey(key Key, gen uint64) string {
	return string(key) + "#" + strconv.FormatUint(gen, 10)
}

// Invalidate drops the given keys. Unknown keys are ignored.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if s.registry != nil && !s.registry.Valid(k) {
			continue
		}
		delete(s.entries, k)
		s.gens[k]++
	}
}

// InvalidateScope drops every key of scope sc.
func (s *Store) InvalidateScope(sc Scope) {
	if s.registry == nil {
		return
	}
	var keys []Key
	for _, k := range s.registry.Keys() {
		if got, _ := s.registry.Scope(k); got == sc {
			keys = append(keys, k)
		}
	}
	s.Invalidate(keys...)
}

// Clear drops every key.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		delete(s.entries, k)
	}
	for _, k := range s.allKeys() {
		s.gens[k]++
	}
}

func (s *Store) allKeys() []Key {
	if s.registry != nil {
		return s.registry.Keys()
	}
	keys := make([]Key, 0, len(s.gens))
	for k := range s.gens {
		keys = append(keys, k)
	}
	return keys
}

// Close clears the store and stops it from keeping new results.
func (s *Store) Close() {
	s.Clear()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Cached reports whether key currently holds a value.
func (s *Store) Cached(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Stats reports cache hits and misses since creation.
func (s *Store) Stats() (hits, misses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits, s.misses
}
