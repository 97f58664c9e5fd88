// Package payments implements payment-method action policies.
// It uses the engine with payment-specific variants: each method verifies
// available funds and executes a one-time charge.
package payments

import "github.com/warp/action-ledger/engine"

// =============================================================================
// PAYMENT VARIANTS
// =============================================================================

// Method is the concrete variant type for the payments domain.
// Implements engine.Variant.
type Method string

func (m Method) VariantID() string     { return string(m) }
func (m Method) VariantDomain() string { return "payments" }

// Compile-time check that Method implements engine.Variant
var _ engine.Variant = Method("")

// The closed set of payment variants
const (
	MethodCard         Method = "card"
	MethodWallet       Method = "wallet"
	MethodBankTransfer Method = "bank_transfer"
)

// Register all payment variants with the engine registry
func init() {
	engine.RegisterVariant(MethodCard)
	engine.RegisterVariant(MethodWallet)
	engine.RegisterVariant(MethodBankTransfer)
}

// Currency returns a payment amount in the domain unit.
func Currency(value float64) engine.Amount {
	return engine.NewAmount(value, engine.UnitCurrency)
}
