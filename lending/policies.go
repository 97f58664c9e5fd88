/*
policies.go - Concrete material policies

PURPOSE:
  Implements the engine.Policy contract for each material type. Verify
  checks copy availability; Execute checks out the copies and computes the
  variant's due date. A successful checkout flips the record to committed
  (unavailable for re-commit) exactly once - the engine owns that flag.

AMOUNTS:
  Lending amounts are whole copy counts (engine.UnitItems). A non-integer
  or non-positive quantity never verifies.

CLOCK:
  Each policy carries a Clock used for due-date computation. It defaults
  to time.Now and is overridable in tests. Real calendar rules (holidays,
  renewals) are out of scope.

SEE ALSO:
  - engine/policy.go: The contract
  - payments/policies.go: The sibling variant set
*/
package lending

import (
	"fmt"
	"time"

	"github.com/warp/action-ledger/engine"
)

// =============================================================================
// MATERIAL POLICY - Shared mechanics for all lendable materials
// =============================================================================

// materialPolicy carries what every material variant needs: identity,
// remaining copies, and its loan period. The exported wrappers exist so
// each variant keeps its own constructor validation and discriminator.
type materialPolicy struct {
	variant  Material
	title    string
	catalog  string
	copies   int
	loanDays int

	clock func() time.Time
}

func (p *materialPolicy) Variant() engine.Variant { return p.variant }

func (p *materialPolicy) Verify(amount engine.Amount) bool {
	if !amount.IsPositive() || !amount.Value.IsInteger() {
		return false
	}
	return amount.Value.IntPart() <= int64(p.copies)
}

func (p *materialPolicy) Execute(amount engine.Amount) (engine.Outcome, error) {
	if !p.Verify(amount) {
		return engine.Outcome{}, fmt.Errorf("%s %q: %v copies not available", p.variant, p.title, amount.Value)
	}
	p.copies -= int(amount.Value.IntPart())

	due := p.now().AddDate(0, 0, p.loanDays)
	return engine.Outcome{
		Confirmed: true,
		Reference: p.catalog,
		DueAt:     &due,
		Detail:    fmt.Sprintf("%s %q due in %d days", p.variant, p.title, p.loanDays),
	}, nil
}

// CopiesAvailable returns the remaining copy count.
func (p *materialPolicy) CopiesAvailable() int { return p.copies }

// SetClock overrides the due-date clock. Tests only.
func (p *materialPolicy) SetClock(clock func() time.Time) { p.clock = clock }

func (p *materialPolicy) now() time.Time {
	if p.clock != nil {
		return p.clock()
	}
	return time.Now().UTC()
}

type materialParams struct {
	Title   string `validate:"required"`
	Catalog string `validate:"required,alphanum"`
	Copies  int    `validate:"gte=0"`
}

// =============================================================================
// CONCRETE MATERIALS
// =============================================================================

// BookPolicy lends books on a 21-day period.
type BookPolicy struct{ materialPolicy }

func NewBook(title, catalog string, copies int) (*BookPolicy, error) {
	if err := engine.ValidateParams(MaterialBook, materialParams{Title: title, Catalog: catalog, Copies: copies}); err != nil {
		return nil, err
	}
	return &BookPolicy{materialPolicy{
		variant: MaterialBook, title: title, catalog: catalog,
		copies: copies, loanDays: BookLoanDays,
	}}, nil
}

// MagazinePolicy lends magazines on a 7-day period.
type MagazinePolicy struct{ materialPolicy }

func NewMagazine(title, catalog string, copies int) (*MagazinePolicy, error) {
	if err := engine.ValidateParams(MaterialMagazine, materialParams{Title: title, Catalog: catalog, Copies: copies}); err != nil {
		return nil, err
	}
	return &MagazinePolicy{materialPolicy{
		variant: MaterialMagazine, title: title, catalog: catalog,
		copies: copies, loanDays: MagazineLoanDays,
	}}, nil
}

// DVDPolicy lends DVDs on a 3-day period.
type DVDPolicy struct{ materialPolicy }

func NewDVD(title, catalog string, copies int) (*DVDPolicy, error) {
	if err := engine.ValidateParams(MaterialDVD, materialParams{Title: title, Catalog: catalog, Copies: copies}); err != nil {
		return nil, err
	}
	return &DVDPolicy{materialPolicy{
		variant: MaterialDVD, title: title, catalog: catalog,
		copies: copies, loanDays: DVDLoanDays,
	}}, nil
}
