// pkg/memcache/view_sessions.go
package mem

import (
	"sync"
	"time"
)

type SessionStore[T any] interface {
	Get(id string) (T, bool)
	Set(id string, value T, ttl time.Duration)

	// Delete removes the session and runs the eviction callback.
	Delete(id string)

	// Sweep evicts expired sessions and reports how many were removed.
	Sweep() int
	Len() int
}

type entry[T any] struct {
	value     T
	ttl       time.Duration
	expiresAt time.Time
}

// ViewSessions is an in-memory TTL store. Every read slides the expiry, and
// onEvict runs outside the lock for each value that leaves the store.
type ViewSessions[T any] struct {
	mu      sync.RWMutex
	data    map[string]entry[T]
	onEvict func(id string, value T)
	now     func() time.Time
}

func NewViewSessions[T any](onEvict func(id string, value T)) *ViewSessions[T] {
	return &ViewSessions[T]{
		data:    make(map[string]entry[T]),
		onEvict: onEvict,
		now:     time.Now,
	}
}

func (s *ViewSessions[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	e, ok := s.data[id]
	if !ok {
		s.mu.Unlock()
		var zero T
		return zero, false
	}
	now := s.now()
	if now.After(e.expiresAt) {
		delete(s.data, id)
		s.mu.Unlock()
		s.evict(id, e.value)
		var zero T
		return zero, false
	}
	e.expiresAt = now.Add(e.ttl)
	s.data[id] = e
	s.mu.Unlock()
	return e.value, true
}

func (s *ViewSessions[T]) Set(id string, value T, ttl time.Duration) {
	s.mu.Lock()
	old, existed := s.data[id]
	s.data[id] = entry[T]{
		value:     value,
		ttl:       ttl,
		expiresAt: s.now().Add(ttl),
	}
	s.mu.Unlock()

	if existed {
		s.evict(id, old.value)
	}
}

func (s *ViewSessions[T]) Delete(id string) {
	s.mu.Lock()
	e, ok := s.data[id]
	delete(s.data, id)
	s.mu.Unlock()

	if ok {
		s.evict(id, e.value)
	}
}

func (s *ViewSessions[T]) Sweep() int {
	now := s.now()
	expired := make(map[string]T)

	s.mu.Lock()
	for id, e := range s.data {
		if now.After(e.expiresAt) {
			expired[id] = e.value
			delete(s.data, id)
		}
	}
	s.mu.Unlock()

	for id, v := range expired {
		s.evict(id, v)
	}
	return len(expired)
}

func (s *ViewSessions[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *ViewSessions[T]) evict(id string, value T) {
	if s.onEvict != nil {
		s.onEvict(id, value)
	}
}
