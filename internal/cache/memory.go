package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memory is an in-process Store. Single-flight semantics come from
// golang.org/x/sync/singleflight: while one caller is computing a key,
// every other caller for that key blocks and receives the same result
// instead of triggering its own compute.
//
// Its consistency scope is the process — separate processes each see
// their own Memory store. Use Redis when several processes must share
// one cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
	group   singleflight.Group
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// Get implements Store.
func (m *Memory) Get(key string, compute func() ([]byte, error)) ([]byte, bool, error) {
	m.mu.RLock()
	value, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		return value, true, nil
	}

	// Miss: collapse concurrent computes for this key into one.
	// The double-check inside the flight covers the window between the
	// read lock above and the flight starting — another flight may have
	// stored the value in the meantime.
	type outcome struct {
		value  []byte
		cached bool
	}
	v, err, _ := m.group.Do(key, func() (any, error) {
		m.mu.RLock()
		value, ok := m.entries[key]
		m.mu.RUnlock()
		if ok {
			return outcome{value: value, cached: true}, nil
		}

		value, err := compute()
		if err != nil {
			// Nothing stored: the next Get for this key computes again.
			return nil, err
		}
		m.mu.Lock()
		m.entries[key] = value
		m.mu.Unlock()
		return outcome{value: value, cached: false}, nil
	})
	if err != nil {
		return nil, false, err
	}
	o := v.(outcome)
	return o.value, o.cached, nil
}

// Len reports how many entries the store holds. Used by tests and the
// health endpoint.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
