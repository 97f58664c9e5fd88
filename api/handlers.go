/*
handlers.go - HTTP API handlers for the action ledger

PURPOSE:
  Exposes the engine via REST. Handles HTTP request/response, JSON
  serialization, and delegates to the orchestrator and ledger. This layer
  is a consumer of the programmatic API, not part of the core contract.

ENDPOINTS:
  Payments:
    POST   /api/payments/charges    Construct a method + record, commit

  Lending:
    POST   /api/lending/loans       Construct a material + record, commit

  Records:
    POST   /api/records/{id}/commit Retry an open (verification-failed) record

  Ledger:
    GET    /api/ledger              List entries (variant/domain/amount filters)
    GET    /api/ledger/summary      Per-variant totals
    POST   /api/ledger/reset        Clear entries (dev only)

  Variants:
    GET    /api/variants            Registered variant discriminators

ERROR HANDLING:
  Errors map to HTTP status by kind:
  - 400: InvalidParameters, unknown variant, malformed body
  - 404: Unknown record
  - 409: AlreadyCommitted
  - 422: VerificationFailed (a negative result, not a fault)
  - 500: Everything else

RECORD RETENTION:
  Records that fail verification stay open and retryable, so the handler
  retains them in memory keyed by ID until they commit. Committed records
  are dropped; their history lives in the ledger.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/action-ledger/engine"
	"github.com/warp/action-ledger/lending"
	"github.com/warp/action-ledger/payments"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger       *engine.DefaultLedger
	Orchestrator *engine.Orchestrator
	Log          zerolog.Logger

	// Open records awaiting a retry after verification failure
	mu   sync.Mutex
	open map[engine.RecordID]*engine.Record
}

// NewHandler creates a handler over the given store.
func NewHandler(store engine.Store, log zerolog.Logger) *Handler {
	ledger := engine.NewLedger(store)
	return &Handler{
		Ledger:       ledger,
		Orchestrator: engine.NewOrchestrator(ledger, log),
		Log:          log,
		open:         make(map[engine.RecordID]*engine.Record),
	}
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// CreateCharge constructs a payment policy, binds a record, and commits it.
func (h *Handler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy, err := buildPaymentPolicy(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.runNewRecord(w, r, policy, payments.Currency(req.Amount))
}

func buildPaymentPolicy(req ChargeRequest) (engine.Policy, error) {
	switch payments.Method(req.Method) {
	case payments.MethodCard:
		return payments.NewCard(req.Holder, req.Number, req.Expiry, req.Available)
	case payments.MethodWallet:
		return payments.NewWallet(req.Email, req.Available)
	case payments.MethodBankTransfer:
		return payments.NewBankTransfer(req.Account, req.Available, req.TransferCap)
	default:
		return nil, engine.ErrVariantNotRegistered
	}
}

// =============================================================================
// LENDING HANDLERS
// =============================================================================

// CreateLoan constructs a material policy, binds a record, and commits it.
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy, err := buildMaterialPolicy(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.runNewRecord(w, r, policy, lending.Copies(req.Quantity))
}

func buildMaterialPolicy(req LoanRequest) (engine.Policy, error) {
	switch lending.Material(req.Material) {
	case lending.MaterialBook:
		return lending.NewBook(req.Title, req.Catalog, req.CopiesAvailable)
	case lending.MaterialMagazine:
		return lending.NewMagazine(req.Title, req.Catalog, req.CopiesAvailable)
	case lending.MaterialDVD:
		return lending.NewDVD(req.Title, req.Catalog, req.CopiesAvailable)
	default:
		return nil, engine.ErrVariantNotRegistered
	}
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// CommitRecord retries a record that previously failed verification.
func (h *Handler) CommitRecord(w http.ResponseWriter, r *http.Request) {
	id := engine.RecordID(chi.URLParam(r, "id"))

	h.mu.Lock()
	record, ok := h.open[id]
	h.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Record not found or already committed", nil)
		return
	}

	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	unit := engine.UnitCurrency
	if record.Policy().Variant().VariantDomain() == "lending" {
		unit = engine.UnitItems
	}
	h.runRecord(w, r, record, engine.NewAmount(req.Amount, unit))
}

// OpenRecordIDs lists records still awaiting a retry.
func (h *Handler) OpenRecordIDs() []engine.RecordID {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]engine.RecordID, 0, len(h.open))
	for id := range h.open {
		ids = append(ids, id)
	}
	return ids
}

// runNewRecord binds a fresh record to policy and drives it.
func (h *Handler) runNewRecord(w http.ResponseWriter, r *http.Request, policy engine.Policy, amount engine.Amount) {
	h.runRecord(w, r, engine.NewRecord(policy), amount)
}

func (h *Handler) runRecord(w http.ResponseWriter, r *http.Request, record *engine.Record, amount engine.Amount) {
	outcome, err := h.Orchestrator.Run(r.Context(), record, amount)
	if err != nil {
		if errors.Is(err, engine.ErrVerificationFailed) {
			// Legitimate negative result. The record stays open for retry.
			h.mu.Lock()
			h.open[record.ID()] = record
			h.mu.Unlock()
		}
		writeDomainError(w, err)
		return
	}

	h.mu.Lock()
	delete(h.open, record.ID())
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, toOutcomeDTO(record, outcome))
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// ListLedger returns entries in commit order, optionally filtered.
func (h *Handler) ListLedger(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	entries, err := h.Ledger.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// GetSummary returns per-variant totals.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	totals, err := engine.Summarize(r.Context(), h.Ledger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize ledger", err)
		return
	}

	dtos := make([]SummaryDTO, len(totals))
	for i, t := range totals {
		total, _ := t.Total.Value.Float64()
		dtos[i] = SummaryDTO{Variant: t.Variant, Domain: t.Domain, Count: t.Count, Total: total}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResetLedger clears the ledger. Dev/test only.
func (h *Handler) ResetLedger(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset ledger", err)
		return
	}
	h.mu.Lock()
	h.open = make(map[engine.RecordID]*engine.Record)
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// VARIANT HANDLERS
// =============================================================================

// ListVariants returns the registered variant discriminators.
func (h *Handler) ListVariants(w http.ResponseWriter, r *http.Request) {
	variants := engine.ListVariants()
	dtos := make([]VariantDTO, len(variants))
	for i, v := range variants {
		dtos[i] = VariantDTO{ID: v.VariantID(), Domain: v.VariantDomain()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func parseFilter(r *http.Request) (engine.Filter, error) {
	q := r.URL.Query()
	filter := engine.Filter{
		Variant: q.Get("variant"),
		Domain:  q.Get("domain"),
	}

	if s := q.Get("min_amount"); s != "" {
		amount, err := parseAmount(s)
		if err != nil {
			return engine.Filter{}, err
		}
		filter.MinAmount = &amount
	}
	if s := q.Get("max_amount"); s != "" {
		amount, err := parseAmount(s)
		if err != nil {
			return engine.Filter{}, err
		}
		filter.MaxAmount = &amount
	}
	return filter, nil
}

// parseAmount decodes a filter bound. Filters compare values only, so the
// unit is left unset.
func parseAmount(s string) (engine.Amount, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return engine.Amount{}, fmt.Errorf("bad amount %q: %w", s, err)
	}
	return engine.Amount{Value: value}, nil
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidParameters):
		writeErrorCode(w, http.StatusBadRequest, err, "invalid_parameters")
	case errors.Is(err, engine.ErrVariantNotRegistered):
		writeErrorCode(w, http.StatusBadRequest, err, "unknown_variant")
	case errors.Is(err, engine.ErrVerificationFailed):
		writeErrorCode(w, http.StatusUnprocessableEntity, err, "verification_failed")
	case errors.Is(err, engine.ErrAlreadyCommitted):
		writeErrorCode(w, http.StatusConflict, err, "already_committed")
	default:
		writeErrorCode(w, http.StatusInternalServerError, err, "internal")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Error = msg + ": " + err.Error()
	}
	writeJSON(w, status, resp)
}

func writeErrorCode(w http.ResponseWriter, status int, err error, code string) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}
