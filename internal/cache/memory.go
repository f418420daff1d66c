package cache

import (
	"context"
	"sync"
	"time"
)

type memItem struct {
	val     []byte
	expires time.Time
}

// Memory is an in-process Cache for single-instance deployments without
// Redis. When full, expired entries are dropped first, then an arbitrary one.
type Memory struct {
	mu    sync.Mutex
	items map[string]memItem
	max   int
	now   func() time.Time
}

// NewMemory keeps at most maxEntries values; <= 0 means unbounded.
func NewMemory(maxEntries int) *Memory {
	return &Memory{items: map[string]memItem{}, max: maxEntries, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if !it.expires.IsZero() && !m.now().Before(it.expires) {
		delete(m.items, key)
		return nil, false, nil
	}
	return it.val, true, nil
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists && m.max > 0 && len(m.items) >= m.max {
		m.evictLocked()
	}
	it := memItem{val: append([]byte(nil), val...)}
	if ttl > 0 {
		it.expires = m.now().Add(ttl)
	}
	m.items[key] = it
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Memory) evictLocked() {
	now := m.now()
	for k, it := range m.items {
		if !it.expires.IsZero() && !now.Before(it.expires) {
			delete(m.items, k)
		}
	}
	if len(m.items) < m.max {
		return
	}
	for k := range m.items {
		delete(m.items, k)
		return
	}
}
