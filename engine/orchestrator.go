/*
orchestrator.go - The single integration point for running actions

PURPOSE:
  Binds the pieces together: delegates to Record.Commit, and on success
  snapshots the result into a ledger Entry. This is the only component
  permitted to mutate the Ledger.

FLOW:
  Run -> Record.Commit -> Policy (verify, execute) -> Record (flag, outcome)
      -> Ledger.Append(snapshot) -> caller

FAILURE HANDLING:
  On VerificationFailed or AlreadyCommitted the ledger is untouched.
  On an append failure after a successful commit, the commit stands (the
  record is committed) and the append error is surfaced to the caller;
  the orchestrator logs the discrepancy for reconciliation.

SEE ALSO:
  - record.go: Commit semantics
  - ledger.go: Entry history
*/
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// =============================================================================
// ORCHESTRATOR
// =============================================================================

type Orchestrator struct {
	Ledger Ledger
	Log    zerolog.Logger

	// Now is the clock used to timestamp entries. Defaults to time.Now.
	Now func() time.Time
}

func NewOrchestrator(ledger Ledger, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{Ledger: ledger, Log: log}
}

// Run commits the record for amount and appends an entry on success.
// Errors from Commit pass through unchanged so callers can classify them
// with errors.Is (ErrVerificationFailed, ErrAlreadyCommitted).
func (o *Orchestrator) Run(ctx context.Context, record *Record, amount Amount) (Outcome, error) {
	variant := record.Policy().Variant()

	outcome, err := record.Commit(amount)
	if err != nil {
		o.Log.Debug().
			Str("record", string(record.ID())).
			Str("variant", variant.VariantID()).
			Str("amount", amount.Value.String()).
			Err(err).
			Msg("commit declined")
		return Outcome{}, err
	}

	entry := Entry{
		ID:          EntryID(uuid.NewString()),
		RecordID:    record.ID(),
		Variant:     variant.VariantID(),
		Domain:      variant.VariantDomain(),
		Amount:      amount,
		Outcome:     outcome,
		CommittedAt: o.now(),
	}

	if err := o.Ledger.Append(ctx, entry); err != nil {
		// The commit already happened; the record is committed. Surface
		// the append failure so the caller can reconcile.
		o.Log.Error().
			Str("record", string(record.ID())).
			Str("variant", variant.VariantID()).
			Err(err).
			Msg("committed but not recorded")
		return outcome, err
	}

	o.Log.Info().
		Str("record", string(record.ID())).
		Str("variant", variant.VariantID()).
		Str("amount", amount.Value.String()).
		Str("reference", outcome.Reference).
		Msg("committed")

	return outcome, nil
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}
