// internal/prefs/memory.go
//
// In-memory Backend.
// Used for tests and development, or when durability is not required.
//
// Characteristics:
//   - Concurrency-safe via RWMutex.
//   - State is lost when the process restarts.

package prefs

import (
	"context"
	"sync"
)

// Memory is a map-based Backend.
type Memory struct {
	mu      sync.RWMutex      // guards entries
	entries map[string]string // last persisted snapshot
	saves   int               // number of Persist calls, for diagnostics
}

// NewMemory constructs an empty in-memory Backend.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

// Load returns a copy of the last persisted snapshot.
func (m *Memory) Load(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out, nil
}

// Persist replaces the snapshot.
func (m *Memory) Persist(ctx context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
	m.saves++
	return nil
}

// Saves reports how many times Persist has been called.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *Memory) Close() error { return nil }

// NewMemoryStore is a shortcut for a Store over a fresh Memory backend.
func NewMemoryStore(secret string) (*Store, *Memory) {
	m := NewMemory()
	s, err := Open(context.Background(), m, secret)
	if err != nil {
		// Memory.Load never fails; only a broken secret derivation gets here.
		panic(err)
	}
	return s, m
}
