package core

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is the in-memory implementation of the Cache interface.
// Entries are whole-value overwrites; an entry past its TTL is treated as
// absent on read and left in place until overwritten or cleared.
type MemoryCache struct {
	mu     sync.RWMutex
	store  map[string]cacheEntry
	logger Logger
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory response cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store:  make(map[string]cacheEntry),
		logger: &NoOpLogger{},
	}
}

// SetLogger configures the logger for this cache
func (m *MemoryCache) SetLogger(logger Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Get retrieves a cached payload. The second return is false on miss or
// when the entry has outlived its TTL.
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.store[key]
	if !exists {
		m.logger.Debug("Cache miss", map[string]interface{}{
			"operation": "cache_get",
			"key":       key,
			"result":    "miss",
		})
		return nil, false, nil
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.logger.Debug("Cache entry expired", map[string]interface{}{
			"operation":  "cache_get",
			"key":        key,
			"result":     "expired",
			"expired_at": entry.expiresAt.Format(time.RFC3339),
		})
		return nil, false, nil
	}

	m.logger.Debug("Cache hit", map[string]interface{}{
		"operation": "cache_get",
		"key":       key,
		"result":    "hit",
	})
	return entry.value, true, nil
}

// Set stores a payload with optional TTL. A ttl of 0 stores forever.
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.store[key] = entry

	m.logger.Debug("Cache set", map[string]interface{}{
		"operation":  "cache_set",
		"key":        key,
		"value_size": len(value),
		"has_ttl":    ttl > 0,
	})
	return nil
}

// Delete removes a single entry
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, existed := m.store[key]
	delete(m.store, key)

	m.logger.Debug("Cache delete", map[string]interface{}{
		"operation": "cache_delete",
		"key":       key,
		"existed":   existed,
	})
	return nil
}

// Clear removes all entries wholesale
func (m *MemoryCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cleared := len(m.store)
	m.store = make(map[string]cacheEntry)

	m.logger.Debug("Cache cleared", map[string]interface{}{
		"operation": "cache_clear",
		"cleared":   cleared,
	})
	return nil
}

// Len reports the number of stored entries, expired or not
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}
