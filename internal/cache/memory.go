package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// Memory is a process-local cache.
type Memory[V any] struct {
	entries map[Key]entry[V]
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemory returns an empty in-memory cache. A zero ttl keeps entries until
// they are invalidated.
func NewMemory[V any](ttl time.Duration) *Memory[V] {
	return &Memory[V]{
		entries: make(map[Key]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory[V]) Get(_ context.Context, key Key) (V, bool, error) {
	m.mu.RLock()
	e, exists := m.entries[key]
	m.mu.RUnlock()

	var zero V
	if !exists {
		return zero, false, nil
	}
	if m.expired(e) {
		m.evict(key)
		return zero, false, nil
	}
	return e.value, true, nil
}

func (m *Memory[V]) expired(e entry[V]) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}

// evict removes key only if the stored entry is still expired, so a Set
// racing with Get is not lost.
func (m *Memory[V]) evict(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && m.expired(e) {
		delete(m.entries, key)
	}
}

func (m *Memory[V]) Set(_ context.Context, key Key, value V) error {
	e := entry[V]{value: value}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = e
	return nil
}

func (m *Memory[V]) Invalidate(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[Key]entry[V])
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
