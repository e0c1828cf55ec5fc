package session

import (
	"context"
	"sync"
)

// PreferenceStore persists small user preferences (currently only the
// remember-me flag) across restarts. Get returns "" without error when
// the key is absent.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryPreferenceStore is the in-process default. Preferences do not
// survive a restart; use the Redis store when they must.
type MemoryPreferenceStore struct {
	mu    sync.RWMutex
	store map[string]string
}

// NewMemoryPreferenceStore creates an empty in-memory store
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{store: make(map[string]string)}
}

// Get retrieves a preference value
func (m *MemoryPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store[key], nil
}

// Set stores a preference value
func (m *MemoryPreferenceStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = value
	return nil
}

// Delete removes a preference
func (m *MemoryPreferenceStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key)
	return nil
}
