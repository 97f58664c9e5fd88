// Package lending implements library material action policies.
// It uses the engine with material-specific variants: each material type
// verifies copy availability and executes a one-time checkout with a
// variant-specific due date.
package lending

import "github.com/warp/action-ledger/engine"

// =============================================================================
// MATERIAL VARIANTS
// =============================================================================

// Material is the concrete variant type for the lending domain.
// Implements engine.Variant.
type Material string

func (m Material) VariantID() string     { return string(m) }
func (m Material) VariantDomain() string { return "lending" }

// Compile-time check that Material implements engine.Variant
var _ engine.Variant = Material("")

// The closed set of lendable materials
const (
	MaterialBook     Material = "book"
	MaterialMagazine Material = "magazine"
	MaterialDVD      Material = "dvd"
)

// Loan periods per material, in days. Due-date computation is owned by
// the variant; the engine treats it as opaque.
const (
	BookLoanDays     = 21
	MagazineLoanDays = 7
	DVDLoanDays      = 3
)

// Register all material variants with the engine registry
func init() {
	engine.RegisterVariant(MaterialBook)
	engine.RegisterVariant(MaterialMagazine)
	engine.RegisterVariant(MaterialDVD)
}

// Copies returns a checkout quantity in the domain unit.
func Copies(n int) engine.Amount {
	return engine.NewAmountFromInt(n, engine.UnitItems)
}
