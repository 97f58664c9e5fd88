/*
policies.go - Concrete payment-method policies

PURPOSE:
  Implements the engine.Policy contract for each payment variant. All three
  follow the same shape: validated construction, a funds check in Verify,
  and an atomic debit-and-confirm in Execute.

EXCLUSIVE OWNERSHIP:
  A policy instance is bound to exactly one record and is not shared, so
  Verify stays a pure read and Execute is the only mutation. There is no
  shared mutable state between variant instances.

ADDING A VARIANT:
  Implement engine.Policy, validate construction parameters, and register
  the discriminator in types.go. Existing variants are never modified.

SEE ALSO:
  - engine/policy.go: The contract
  - engine/params.go: Construction validation
*/
package payments

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/warp/action-ledger/engine"
)

// =============================================================================
// CARD - Credit/debit card with an authorization limit
// =============================================================================

type CardPolicy struct {
	Holder string
	last4  string
	expiry string

	available engine.Amount
}

type cardParams struct {
	Holder    string  `validate:"required"`
	Number    string  `validate:"required,len=16,numeric"`
	Expiry    string  `validate:"required,len=5"` // MM/YY
	Available float64 `validate:"gte=0"`
}

// NewCard builds a card policy. The full number is never retained; only
// the last four digits survive construction.
func NewCard(holder, number, expiry string, available float64) (*CardPolicy, error) {
	params := cardParams{Holder: holder, Number: number, Expiry: expiry, Available: available}
	if err := engine.ValidateParams(MethodCard, params); err != nil {
		return nil, err
	}
	return &CardPolicy{
		Holder:    holder,
		last4:     number[len(number)-4:],
		expiry:    expiry,
		available: Currency(available),
	}, nil
}

func (p *CardPolicy) Variant() engine.Variant { return MethodCard }

func (p *CardPolicy) Verify(amount engine.Amount) bool {
	return amount.IsPositive() && !amount.GreaterThan(p.available)
}

func (p *CardPolicy) Execute(amount engine.Amount) (engine.Outcome, error) {
	if !p.Verify(amount) {
		return engine.Outcome{}, fmt.Errorf("card charge of %v exceeds authorization", amount.Value)
	}
	p.available = p.available.Sub(amount)
	return engine.Outcome{
		Confirmed: true,
		Reference: confirmation("CARD"),
		Detail:    fmt.Sprintf("charged card ending %s", p.last4),
	}, nil
}

// Available returns the remaining authorization.
func (p *CardPolicy) Available() engine.Amount { return p.available }

// =============================================================================
// WALLET - Prepaid wallet tied to an account email
// =============================================================================

type WalletPolicy struct {
	Email string

	balance engine.Amount
}

type walletParams struct {
	Email   string  `validate:"required,email"`
	Balance float64 `validate:"gte=0"`
}

func NewWallet(email string, balance float64) (*WalletPolicy, error) {
	params := walletParams{Email: email, Balance: balance}
	if err := engine.ValidateParams(MethodWallet, params); err != nil {
		return nil, err
	}
	return &WalletPolicy{Email: email, balance: Currency(balance)}, nil
}

func (p *WalletPolicy) Variant() engine.Variant { return MethodWallet }

func (p *WalletPolicy) Verify(amount engine.Amount) bool {
	return amount.IsPositive() && !amount.GreaterThan(p.balance)
}

func (p *WalletPolicy) Execute(amount engine.Amount) (engine.Outcome, error) {
	if !p.Verify(amount) {
		return engine.Outcome{}, fmt.Errorf("wallet balance %v below %v", p.balance.Value, amount.Value)
	}
	p.balance = p.balance.Sub(amount)
	return engine.Outcome{
		Confirmed: true,
		Reference: confirmation("WLT"),
		Detail:    fmt.Sprintf("debited wallet %s", p.Email),
	}, nil
}

func (p *WalletPolicy) Balance() engine.Amount { return p.balance }

// =============================================================================
// BANK TRANSFER - Account transfer with a per-transfer cap
// =============================================================================

type BankTransferPolicy struct {
	account string

	balance     engine.Amount
	transferCap engine.Amount
}

type bankTransferParams struct {
	Account     string  `validate:"required,alphanum,min=8"`
	Balance     float64 `validate:"gte=0"`
	TransferCap float64 `validate:"gt=0"`
}

func NewBankTransfer(account string, balance, transferCap float64) (*BankTransferPolicy, error) {
	params := bankTransferParams{Account: account, Balance: balance, TransferCap: transferCap}
	if err := engine.ValidateParams(MethodBankTransfer, params); err != nil {
		return nil, err
	}
	return &BankTransferPolicy{
		account:     account,
		balance:     Currency(balance),
		transferCap: Currency(transferCap),
	}, nil
}

func (p *BankTransferPolicy) Variant() engine.Variant { return MethodBankTransfer }

func (p *BankTransferPolicy) Verify(amount engine.Amount) bool {
	return amount.IsPositive() &&
		!amount.GreaterThan(p.balance) &&
		!amount.GreaterThan(p.transferCap)
}

func (p *BankTransferPolicy) Execute(amount engine.Amount) (engine.Outcome, error) {
	if !p.Verify(amount) {
		return engine.Outcome{}, fmt.Errorf("transfer of %v not admissible", amount.Value)
	}
	p.balance = p.balance.Sub(amount)
	return engine.Outcome{
		Confirmed: true,
		Reference: confirmation("XFER"),
		Detail:    fmt.Sprintf("transferred from account %s****", p.account[:4]),
	}, nil
}

func (p *BankTransferPolicy) Balance() engine.Amount { return p.balance }

// =============================================================================
// HELPERS
// =============================================================================

func confirmation(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}
