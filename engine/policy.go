/*
policy.go - The capability contract every variant implements

PURPOSE:
  Defines the two-operation contract that makes variants interchangeable:
  Verify decides admissibility, Execute performs the action. A Record binds
  exactly one Policy and drives it through a one-time commit.

CONTRACT:
  Verify(amount) bool
    - Pure predicate. No side effects beyond internal read-only checks.
    - Idempotent: repeated calls with the same amount against the same
      state return the same answer.

  Execute(amount) (Outcome, error)
    - Performs the action. Must re-check admissibility before doing
      observable work (callers also gate on Verify, but Execute owns
      its own atomicity).
    - Atomic: either fully succeeds and returns a confirmed Outcome,
      or returns an error and has no effect.

OPEN/CLOSED DISCIPLINE:
  New variants are added by implementing this interface and registering
  their discriminator, never by modifying existing variants. No variant
  may assume properties of another.

SEE ALSO:
  - record.go: Drives Verify then Execute under the commit lock
  - registry.go: The closed set of known discriminators
  - payments/, lending/: Concrete variant sets
*/
package engine

// Policy is the capability contract for one action variant.
type Policy interface {
	// Variant returns the immutable discriminator set at construction.
	// Dispatch and reporting use this, never runtime type inspection.
	Variant() Variant

	// Verify reports whether the action is admissible for amount.
	Verify(amount Amount) bool

	// Execute performs the action and returns its Outcome.
	// An error means the action had no effect.
	Execute(amount Amount) (Outcome, error)
}
