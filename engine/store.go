/*
store.go - Persistence interface for ledger entries

PURPOSE:
  Defines the interface between the ledger and its backing storage while
  maintaining append-only semantics. Different implementations can use
  SQLite or in-memory storage.

APPEND-ONLY CONTRACT:
  - Append(): Single entry write, O(1) amortized
  - NO Update() or Delete() methods exist
  - Reset() exists ONLY for test/dev isolation and is outside the
    production contract

ORDERING:
  List returns entries in insertion (commit) order. Implementations must
  never expose a partially-written entry: readers observe a consistent
  prefix of the history.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Durable SQLite store
  - engine/store/memory.go: In-memory store for tests and dev

SEE ALSO:
  - ledger.go: Higher-level interface using Store
*/
package engine

import "context"

// =============================================================================
// STORE - Interface for entry persistence (append-only)
// =============================================================================

// Store persists ledger entries. APPEND-ONLY: no update, no delete.
type Store interface {
	// Append persists one entry. This is the only production write.
	Append(ctx context.Context, entry Entry) error

	// List returns entries matching filter, in insertion order.
	List(ctx context.Context, filter Filter) ([]Entry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Reset removes all entries. Test/dev isolation only; never part of
	// the production contract.
	Reset(ctx context.Context) error
}

// Filter narrows List results. Zero value matches everything.
type Filter struct {
	Variant   string  // exact discriminator match, "" = any
	Domain    string  // exact domain match, "" = any
	MinAmount *Amount // inclusive, nil = unbounded
	MaxAmount *Amount // inclusive, nil = unbounded
}

// Matches reports whether entry passes the filter.
func (f Filter) Matches(entry Entry) bool {
	if f.Variant != "" && entry.Variant != f.Variant {
		return false
	}
	if f.Domain != "" && entry.Domain != f.Domain {
		return false
	}
	if f.MinAmount != nil && entry.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && entry.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}
