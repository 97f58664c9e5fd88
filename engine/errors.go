/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages should wrap these errors with additional context.

ERROR CATEGORIES:
  1. Construction errors - Invalid variant parameters
  2. Commit errors - Double commits and failed verification
  3. Ledger errors - Append/store failures

THE THREE EXPECTED KINDS:
  InvalidParameters  Variant construction rejected. Caller fixes inputs.
  VerificationFailed A legitimate negative business outcome, not a fault.
                     The record stays open and can be retried.
  AlreadyCommitted   A usage error: commit was called twice. No side
                     effects; never silently ignored.

  All three are recoverable by the caller. Nothing in this package
  terminates the process.

USAGE:
  outcome, err := orchestrator.Run(ctx, record, amount)
  switch {
  case errors.Is(err, engine.ErrVerificationFailed):
      // not admissible - retry later with different inputs
  case errors.Is(err, engine.ErrAlreadyCommitted):
      // caller bug - the record was already used
  }

SEE ALSO:
  - record.go: Produces commit errors
  - params.go: Produces InvalidParametersError
*/
package engine

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidParameters is returned when variant construction rejects
	// its parameters. The caller must fix inputs; never retried as-is.
	ErrInvalidParameters = errors.New("invalid variant parameters")

	// ErrVerificationFailed is returned when a policy's Verify declines
	// the amount. The record remains uncommitted and retryable.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrAlreadyCommitted is returned on a second commit attempt against
	// the same record. The policy is NOT re-invoked.
	ErrAlreadyCommitted = errors.New("record already committed")

	// ErrAppendFailed is returned when the ledger store cannot persist
	// an entry.
	ErrAppendFailed = errors.New("ledger append failed")

	// ErrVariantNotRegistered is returned when a discriminator does not
	// match any registered variant.
	ErrVariantNotRegistered = errors.New("variant not registered")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidParametersError reports which construction parameter was rejected.
type InvalidParametersError struct {
	Variant string
	Field   string
	Reason  string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("invalid parameters for %s: %s %s", e.Variant, e.Field, e.Reason)
}

func (e *InvalidParametersError) Unwrap() error {
	return ErrInvalidParameters
}

// VerificationError reports a declined verification. This is a negative
// business result, distinct from the AlreadyCommitted usage error: the
// record stays open for a later retry.
type VerificationError struct {
	RecordID  RecordID
	Variant   string
	Requested Amount
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification failed: %s declined %v for record %s",
		e.Variant, e.Requested.Value, e.RecordID)
}

func (e *VerificationError) Unwrap() error {
	return ErrVerificationFailed
}

// AlreadyCommittedError reports a double-commit attempt.
type AlreadyCommittedError struct {
	RecordID    RecordID
	CommittedAt time.Time
}

func (e *AlreadyCommittedError) Error() string {
	return fmt.Sprintf("record %s already committed at %s",
		e.RecordID, e.CommittedAt.Format(time.RFC3339))
}

func (e *AlreadyCommittedError) Unwrap() error {
	return ErrAlreadyCommitted
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the same record may be committed again later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrVerificationFailed)
}

// IsUsageError returns true if the error indicates incorrect caller behavior
// rather than a negative business outcome.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrAlreadyCommitted) ||
		errors.Is(err, ErrInvalidParameters)
}

// IsClientError returns true if the error is due to caller input and should
// not be reported as a system fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidParameters) ||
		errors.Is(err, ErrVerificationFailed) ||
		errors.Is(err, ErrAlreadyCommitted) ||
		errors.Is(err, ErrVariantNotRegistered)
}
