package snapshot

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store. Snapshots are kept in encoded form so
// callers cannot mutate stored state.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, s *Snapshot) error {
	data, err := marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items[s.Mount] = data
	m.mu.Unlock()
	return nil
}

// Load implements Store.
func (m *Memory) Load(_ context.Context, mount string) (*Snapshot, error) {
	m.mu.RLock()
	data, ok := m.items[mount]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return unmarshal(data)
}

// List implements Store. Mount ids are returned sorted.
func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.items))
	for k := range m.items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, mount string) error {
	m.mu.Lock()
	delete(m.items, mount)
	m.mu.Unlock()
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
