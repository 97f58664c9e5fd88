/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal engine model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (required fields, formats) happens in the domain
  constructors via engine.ValidateParams; DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/action-ledger/engine"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChargeRequest creates a payment record and commits it.
type ChargeRequest struct {
	Method string  `json:"method"` // card, wallet, bank_transfer
	Amount float64 `json:"amount"`

	// Card parameters
	Holder string `json:"holder,omitempty"`
	Number string `json:"number,omitempty"`
	Expiry string `json:"expiry,omitempty"`

	// Wallet parameters
	Email string `json:"email,omitempty"`

	// Bank transfer parameters
	Account     string  `json:"account,omitempty"`
	TransferCap float64 `json:"transfer_cap,omitempty"`

	// Funds backing the method (shared by all variants)
	Available float64 `json:"available"`
}

// LoanRequest creates a lending record and commits it.
type LoanRequest struct {
	Material        string `json:"material"` // book, magazine, dvd
	Title           string `json:"title"`
	Catalog         string `json:"catalog"`
	CopiesAvailable int    `json:"copies_available"`
	Quantity        int    `json:"quantity"`
}

// CommitRequest retries a still-open record.
type CommitRequest struct {
	Amount float64 `json:"amount"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// OutcomeDTO is returned after a commit attempt.
type OutcomeDTO struct {
	RecordID  string  `json:"record_id"`
	Variant   string  `json:"variant"`
	Committed bool    `json:"committed"`
	Confirmed bool    `json:"confirmed"`
	Reference string  `json:"reference,omitempty"`
	DueAt     *string `json:"due_at,omitempty"`
	Detail    string  `json:"detail,omitempty"`
}

// EntryDTO represents one ledger entry.
type EntryDTO struct {
	ID          string  `json:"id"`
	RecordID    string  `json:"record_id"`
	Variant     string  `json:"variant"`
	Domain      string  `json:"domain"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit"`
	Confirmed   bool    `json:"confirmed"`
	Reference   string  `json:"reference,omitempty"`
	DueAt       *string `json:"due_at,omitempty"`
	Detail      string  `json:"detail,omitempty"`
	CommittedAt string  `json:"committed_at"`
}

// VariantDTO describes one registered variant.
type VariantDTO struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
}

// SummaryDTO aggregates committed amounts per variant.
type SummaryDTO struct {
	Variant string  `json:"variant"`
	Domain  string  `json:"domain"`
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toOutcomeDTO(record *engine.Record, outcome engine.Outcome) OutcomeDTO {
	dto := OutcomeDTO{
		RecordID:  string(record.ID()),
		Variant:   record.Policy().Variant().VariantID(),
		Committed: record.Committed(),
		Confirmed: outcome.Confirmed,
		Reference: outcome.Reference,
		Detail:    outcome.Detail,
	}
	if outcome.DueAt != nil {
		due := outcome.DueAt.Format(time.RFC3339)
		dto.DueAt = &due
	}
	return dto
}

func toEntryDTO(entry engine.Entry) EntryDTO {
	amount, _ := entry.Amount.Value.Float64()
	dto := EntryDTO{
		ID:          string(entry.ID),
		RecordID:    string(entry.RecordID),
		Variant:     entry.Variant,
		Domain:      entry.Domain,
		Amount:      amount,
		Unit:        string(entry.Amount.Unit),
		Confirmed:   entry.Outcome.Confirmed,
		Reference:   entry.Outcome.Reference,
		Detail:      entry.Outcome.Detail,
		CommittedAt: entry.CommittedAt.Format(time.RFC3339),
	}
	if entry.Outcome.DueAt != nil {
		due := entry.Outcome.DueAt.Format(time.RFC3339)
		dto.DueAt = &due
	}
	return dto
}

func toEntryDTOs(entries []engine.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	return dtos
}
