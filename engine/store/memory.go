// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/action-ledger/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries []engine.Entry
}

func NewMemory() *Memory {
	return &Memory{}
}

// Append adds a single entry. Append-only: entries are never reordered,
// mutated, or removed. Insertion order is commit order.
func (m *Memory) Append(_ context.Context, entry engine.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// List returns a fresh snapshot of matching entries in insertion order.
// The lock guarantees readers see a consistent prefix, never a partial write.
func (m *Memory) List(_ context.Context, filter engine.Filter) ([]engine.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if filter.Matches(e) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Reset clears all entries. Test isolation only.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}
