/*
ledger.go - Append-only history of successful commits

PURPOSE:
  The Ledger is the immutable record of every action that committed.
  Nothing else is ever written to it: failed verifications and double
  commits never touch the ledger.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete. EVER.
  2. IMMUTABLE: Once appended, an entry's fields never change
  3. ORDERED: Entries come back in commit order
  4. CONSISTENT: Readers never observe a partially-written entry

LIFECYCLE:
  The ledger is process-wide shared state with unbounded append-only
  growth, initialized at process start. Reset exists only for test
  isolation and is explicitly outside the production contract.

CONCURRENCY:
  Append must be safe under concurrent commit flows targeting distinct
  records. The Store implementations provide the mutual exclusion.

SEE ALSO:
  - store.go: Low-level persistence interface
  - orchestrator.go: The only component permitted to append
*/
package engine

import (
	"context"
	"fmt"
)

// =============================================================================
// LEDGER - Append-only entry log
// =============================================================================

// Ledger is the history of completed commits.
//
// INVARIANTS:
//   - Append-only: No Update, No Delete. EVER.
//   - Immutable: Entries are snapshots; nothing mutates them after append.
//   - Ordered: List returns entries in insertion order.
type Ledger interface {
	// Append adds an entry. This is the ONLY write operation and never
	// rejects a well-formed entry.
	Append(ctx context.Context, entry Entry) error

	// List returns entries matching filter, in insertion order.
	// Restartable: each call produces a fresh, consistent snapshot.
	List(ctx context.Context, filter Filter) ([]Entry, error)

	// Count returns the number of entries appended so far.
	Count(ctx context.Context) (int, error)
}

// =============================================================================
// DEFAULT LEDGER - Implementation using Store
// =============================================================================

type DefaultLedger struct {
	Store Store
}

func NewLedger(store Store) *DefaultLedger {
	return &DefaultLedger{Store: store}
}

func (l *DefaultLedger) Append(ctx context.Context, entry Entry) error {
	if err := l.Store.Append(ctx, entry); err != nil {
		return fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}
	return nil
}

func (l *DefaultLedger) List(ctx context.Context, filter Filter) ([]Entry, error) {
	return l.Store.List(ctx, filter)
}

func (l *DefaultLedger) Count(ctx context.Context) (int, error) {
	return l.Store.Count(ctx)
}

// Reset clears the backing store. Test/dev isolation only.
func (l *DefaultLedger) Reset(ctx context.Context) error {
	return l.Store.Reset(ctx)
}

// =============================================================================
// REPORTING - Derived views over the history
// =============================================================================

// VariantTotal aggregates committed amounts for one discriminator.
type VariantTotal struct {
	Variant string
	Domain  string
	Count   int
	Total   Amount
}

// Summarize folds the ledger into per-variant totals, in first-seen order.
func Summarize(ctx context.Context, ledger Ledger) ([]VariantTotal, error) {
	entries, err := ledger.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var totals []VariantTotal
	for _, e := range entries {
		i, ok := index[e.Variant]
		if !ok {
			i = len(totals)
			index[e.Variant] = i
			totals = append(totals, VariantTotal{
				Variant: e.Variant,
				Domain:  e.Domain,
				Total:   e.Amount.Zero(),
			})
		}
		totals[i].Count++
		totals[i].Total = totals[i].Total.Add(e.Amount)
	}
	return totals, nil
}
