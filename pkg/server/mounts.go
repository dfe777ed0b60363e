package server

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
)

var errInvalidMountID = errors.New("server: invalid mount id")

var mountIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// mounts is the registry of live mounts.
type mounts struct {
	mu     sync.RWMutex
	byID   map[string]*Mount
	create func(id string) (*Mount, error)
	onAdd  func()
}

func newMounts(create func(id string) (*Mount, error), onAdd func()) *mounts {
	return &mounts{
		byID:   make(map[string]*Mount),
		create: create,
		onAdd:  onAdd,
	}
}

// Ensure returns the mount with id, creating it if needed. created reports
// whether this call created it.
func (ms *mounts) Ensure(id string) (m *Mount, created bool, err error) {
	if !mountIDPattern.MatchString(id) {
		return nil, false, fmt.Errorf("%w: %q", errInvalidMountID, id)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if m, ok := ms.byID[id]; ok {
		return m, false, nil
	}
	m, err = ms.create(id)
	if err != nil {
		return nil, false, err
	}
	ms.byID[id] = m
	if ms.onAdd != nil {
		ms.onAdd()
	}
	return m, true, nil
}

// Get returns the mount with id.
func (ms *mounts) Get(id string) (*Mount, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	m, ok := ms.byID[id]
	return m, ok
}

// List returns every mount ordered by id.
func (ms *mounts) List() []*Mount {
	ms.mu.RLock()
	out := make([]*Mount, 0, len(ms.byID))
	for _, m := range ms.byID {
		out = append(out, m)
	}
	ms.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Len returns the number of mounts.
func (ms *mounts) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.byID)
}

// closeAll disconnects every subscriber of every mount.
func (ms *mounts) closeAll() {
	for _, m := range ms.List() {
		m.close()
	}
}
