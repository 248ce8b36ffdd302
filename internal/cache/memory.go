package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memoryCache is the single-process RouteCache used when no Redis address is
// configured.
type memoryCache struct {
	mu     sync.Mutex
	routes map[string]map[string]memoryEntry
	now    func() time.Time
}

func NewMemoryCache() RouteCache {
	return newMemoryCache(time.Now)
}

func newMemoryCache(now func() time.Time) *memoryCache {
	return &memoryCache{routes: map[string]map[string]memoryEntry{}, now: now}
}

func (m *memoryCache) Get(_ context.Context, path, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.routes[path][key]
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.routes[path], key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *memoryCache) Set(_ context.Context, path, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	if m.routes[path] == nil {
		m.routes[path] = map[string]memoryEntry{}
	}
	m.routes[path][key] = entry
	return nil
}

func (m *memoryCache) Invalidate(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.routes, path)
	return nil
}
