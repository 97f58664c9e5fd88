/*
Package engine provides the core polymorphic action ledger.

PURPOSE:
  This package contains domain-agnostic types and algorithms for running
  interchangeable action policies and recording their outcomes. Whether
  charging a payment method or lending a library item, the same engine
  handles verification, one-time commits, and append-only history.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., $100, 1 item)
  - Variant: The discriminator identifying a policy implementation
  - Outcome: Structured result of a successful execution
  - Entry: An immutable ledger snapshot of a completed commit

DESIGN PRINCIPLES:
  1. Immutability: Entries are never modified or removed after append
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Explicit dispatch: Variants carry their discriminator; no reflection
  4. Auditability: Every entry records variant, amount, outcome, timestamp

USAGE:
  amount := engine.NewAmount(100, engine.UnitCurrency)
  record := engine.NewRecord(policy)
  outcome, err := orchestrator.Run(ctx, record, amount)

SEE ALSO:
  - policy.go: The capability contract variants implement
  - record.go: At-most-once commit semantics
  - ledger.go: Append-only entry history
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitCurrency Unit = "currency"
	UnitItems    Unit = "items"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func (a Amount) Zero() Amount              { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Neg() Amount               { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsPositive() bool          { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool    { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool       { return a.Value.Equal(b.Value) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type RecordID string
type EntryID string

// Variant identifies which concrete policy implementation an action uses.
// This is an interface so domain packages define their own concrete types.
// The engine package has NO knowledge of specific variants.
//
// Domain packages implement this:
//
//	// In payments/types.go
//	type Method string
//	func (m Method) VariantID() string     { return string(m) }
//	func (m Method) VariantDomain() string { return "payments" }
//	const MethodCard Method = "card"
type Variant interface {
	// VariantID returns the unique discriminator for this variant.
	VariantID() string

	// VariantDomain returns which domain this variant belongs to.
	VariantDomain() string
}

// =============================================================================
// OUTCOME - Structured result of a successful execution
// =============================================================================

// Outcome is what Execute produces. Confirmed is true for every successful
// execution; the remaining fields are variant-specific derived values.
type Outcome struct {
	Confirmed bool

	// Reference is a variant-issued confirmation token (e.g., a charge
	// confirmation code). Empty when the variant issues none.
	Reference string

	// DueAt is set by variants whose action implies a return deadline
	// (e.g., a lending due date). Nil otherwise.
	DueAt *time.Time

	// Detail carries a short human-readable note about the execution.
	Detail string
}

// =============================================================================
// ENTRY - Immutable ledger snapshot of a completed commit
// =============================================================================

// Entry is appended to the Ledger after a successful commit. It references
// the producing record by value: mutating the record later (impossible by
// contract, but also by construction) cannot change an entry.
type Entry struct {
	ID          EntryID
	RecordID    RecordID
	Variant     string // discriminator, set at construction time
	Domain      string
	Amount      Amount
	Outcome     Outcome
	CommittedAt time.Time
}
