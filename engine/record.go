/*
record.go - Stateful record with at-most-once commit

PURPOSE:
  A Record binds one Policy instance (exclusively owned) and enforces the
  one-time state transition at the heart of the engine: committed flips
  false -> true exactly once, and only after a fully successful execution.

COMMIT SEQUENCE (atomic per record):
  1. committed already true?     -> AlreadyCommittedError, policy untouched
  2. Verify declines the amount? -> VerificationError, record stays open
  3. Execute fails?              -> error propagates, flag NOT set, retryable
  4. Execute succeeds            -> flag set, transition timestamped,
                                    outcome stored

  The committed flag flips only AFTER successful execution, never before.
  Other callers observe either the full sequence or none of it.

CONCURRENCY:
  Records are independent: no shared mutable state across distinct records,
  so concurrent commits on different records never contend. A per-record
  mutex serializes racing commits on the SAME record so exactly one wins.

SEE ALSO:
  - policy.go: The contract a record drives
  - orchestrator.go: Appends to the ledger after a successful commit
*/
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RECORD - Binds one policy, commits at most once
// =============================================================================

type Record struct {
	id        RecordID
	policy    Policy
	createdAt time.Time

	mu          sync.Mutex
	committed   bool
	committedAt time.Time
	outcome     *Outcome
}

// NewRecord creates an open record bound to policy.
func NewRecord(policy Policy) *Record {
	return &Record{
		id:        RecordID(uuid.NewString()),
		policy:    policy,
		createdAt: time.Now().UTC(),
	}
}

func (r *Record) ID() RecordID        { return r.id }
func (r *Record) Policy() Policy      { return r.policy }
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// Committed reports whether the record has been committed.
func (r *Record) Committed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committed
}

// CommittedAt returns the transition timestamp, zero if still open.
func (r *Record) CommittedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committedAt
}

// Outcome returns the stored outcome, nil until a successful commit.
func (r *Record) Outcome() *Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome
}

// Commit runs the verify -> execute -> flag -> outcome sequence.
//
// Failure modes, in order of checking:
//   - AlreadyCommittedError: second commit attempt. Side-effect free;
//     the policy is not invoked.
//   - VerificationError: the policy declined the amount. Not a fault;
//     the record stays open and can be retried.
//   - any Execute error: propagates unwrapped in meaning (wrapped for
//     context); the flag is NOT set and the record stays retryable.
func (r *Record) Commit(amount Amount) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.committed {
		return Outcome{}, &AlreadyCommittedError{
			RecordID:    r.id,
			CommittedAt: r.committedAt,
		}
	}

	if !r.policy.Verify(amount) {
		return Outcome{}, &VerificationError{
			RecordID:  r.id,
			Variant:   r.policy.Variant().VariantID(),
			Requested: amount,
		}
	}

	outcome, err := r.policy.Execute(amount)
	if err != nil {
		// Execute is atomic: it failed, so it had no effect. The record
		// stays open.
		return Outcome{}, fmt.Errorf("execute %s: %w", r.policy.Variant().VariantID(), err)
	}

	r.committed = true
	r.committedAt = time.Now().UTC()
	r.outcome = &outcome
	return outcome, nil
}
