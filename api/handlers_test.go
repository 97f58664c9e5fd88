package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/action-ledger/api"
	"github.com/warp/action-ledger/engine/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer() http.Handler {
	handler := api.NewHandler(store.NewMemory(), zerolog.Nop())
	return api.NewRouter(handler)
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func cardCharge(amount, available float64) api.ChargeRequest {
	return api.ChargeRequest{
		Method:    "card",
		Amount:    amount,
		Holder:    "Ada Lovelace",
		Number:    "4111111111111111",
		Expiry:    "12/27",
		Available: available,
	}
}

// =============================================================================
// CHARGE TESTS
// =============================================================================

func TestCreateCharge_Success(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, "POST", "/api/payments/charges", cardCharge(100, 500))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	outcome := decodeJSON[api.OutcomeDTO](t, rec)
	assert.True(t, outcome.Committed)
	assert.True(t, outcome.Confirmed)
	assert.Equal(t, "card", outcome.Variant)
	assert.NotEmpty(t, outcome.RecordID)
	assert.NotEmpty(t, outcome.Reference)

	// The commit shows up in the ledger
	rec = doJSON(t, srv, "GET", "/api/ledger", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decodeJSON[[]api.EntryDTO](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, outcome.RecordID, entries[0].RecordID)
	assert.Equal(t, 100.0, entries[0].Amount)
	assert.Equal(t, "currency", entries[0].Unit)
}

func TestCreateCharge_InvalidParameters(t *testing.T) {
	srv := newTestServer()

	req := cardCharge(100, 500)
	req.Number = "4111" // too short

	rec := doJSON(t, srv, "POST", "/api/payments/charges", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeJSON[api.ErrorResponse](t, rec)
	assert.Equal(t, "invalid_parameters", resp.Code)

	// Nothing reaches the ledger
	rec = doJSON(t, srv, "GET", "/api/ledger", nil)
	entries := decodeJSON[[]api.EntryDTO](t, rec)
	assert.Empty(t, entries)
}

func TestCreateCharge_UnknownMethod(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, "POST", "/api/payments/charges", api.ChargeRequest{Method: "crypto", Amount: 10})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeJSON[api.ErrorResponse](t, rec)
	assert.Equal(t, "unknown_variant", resp.Code)
}

func TestCreateCharge_VerificationFailed_ThenRetry(t *testing.T) {
	srv := newTestServer()

	// First attempt exceeds available funds
	rec := doJSON(t, srv, "POST", "/api/payments/charges", api.ChargeRequest{
		Method:    "wallet",
		Amount:    100,
		Email:     "ada@example.com",
		Available: 40,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decodeJSON[api.ErrorResponse](t, rec)
	assert.Equal(t, "verification_failed", resp.Code)

	rec = doJSON(t, srv, "GET", "/api/ledger", nil)
	entries := decodeJSON[[]api.EntryDTO](t, rec)
	require.Empty(t, entries, "declined charge must not reach the ledger")
}

func TestCommitRecord_RetryAfterVerificationFailure(t *testing.T) {
	handler := api.NewHandler(store.NewMemory(), zerolog.Nop())
	srv := api.NewRouter(handler)

	rec := doJSON(t, srv, "POST", "/api/payments/charges", api.ChargeRequest{
		Method:    "wallet",
		Amount:    100,
		Email:     "ada@example.com",
		Available: 40,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	id := handler.OpenRecordIDs()
	require.Len(t, id, 1)

	// Retry within funds succeeds
	rec = doJSON(t, srv, "POST", fmt.Sprintf("/api/records/%s/commit", id[0]), api.CommitRequest{Amount: 30})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	outcome := decodeJSON[api.OutcomeDTO](t, rec)
	assert.True(t, outcome.Committed)

	// A second commit of the same record conflicts, but the record is no
	// longer retained once committed, so the handler reports not found.
	rec = doJSON(t, srv, "POST", fmt.Sprintf("/api/records/%s/commit", id[0]), api.CommitRequest{Amount: 5})
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Exactly one ledger entry for the whole exchange
	rec = doJSON(t, srv, "GET", "/api/ledger", nil)
	entries := decodeJSON[[]api.EntryDTO](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, 30.0, entries[0].Amount)
}

// =============================================================================
// LOAN TESTS
// =============================================================================

func TestCreateLoan_Success(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, "POST", "/api/lending/loans", api.LoanRequest{
		Material:        "book",
		Title:           "The Go Programming Language",
		Catalog:         "QA76",
		CopiesAvailable: 3,
		Quantity:        1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	outcome := decodeJSON[api.OutcomeDTO](t, rec)
	assert.True(t, outcome.Confirmed)
	assert.Equal(t, "book", outcome.Variant)
	assert.Equal(t, "QA76", outcome.Reference)
	require.NotNil(t, outcome.DueAt, "loans carry a due date")
}

func TestCreateLoan_NoCopies(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, "POST", "/api/lending/loans", api.LoanRequest{
		Material:        "dvd",
		Title:           "Koyaanisqatsi",
		Catalog:         "PN1997",
		CopiesAvailable: 0,
		Quantity:        1,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// =============================================================================
// LEDGER / FILTER TESTS
// =============================================================================

func TestListLedger_Filters(t *testing.T) {
	srv := newTestServer()

	require.Equal(t, http.StatusCreated, doJSON(t, srv, "POST", "/api/payments/charges", cardCharge(100, 500)).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, srv, "POST", "/api/payments/charges", api.ChargeRequest{
		Method: "wallet", Amount: 50, Email: "ada@example.com", Available: 80,
	}).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, srv, "POST", "/api/lending/loans", api.LoanRequest{
		Material: "book", Title: "The Go Programming Language", Catalog: "QA76",
		CopiesAvailable: 3, Quantity: 2,
	}).Code)

	// Unfiltered: all three, in commit order
	entries := decodeJSON[[]api.EntryDTO](t, doJSON(t, srv, "GET", "/api/ledger", nil))
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"card", "wallet", "book"},
		[]string{entries[0].Variant, entries[1].Variant, entries[2].Variant})

	// By domain
	entries = decodeJSON[[]api.EntryDTO](t, doJSON(t, srv, "GET", "/api/ledger?domain=payments", nil))
	require.Len(t, entries, 2)

	// By variant
	entries = decodeJSON[[]api.EntryDTO](t, doJSON(t, srv, "GET", "/api/ledger?variant=wallet", nil))
	require.Len(t, entries, 1)
	assert.Equal(t, 50.0, entries[0].Amount)

	// By amount range (inclusive)
	entries = decodeJSON[[]api.EntryDTO](t, doJSON(t, srv, "GET", "/api/ledger?min_amount=50&max_amount=100", nil))
	require.Len(t, entries, 2)

	// Bad bound
	rec := doJSON(t, srv, "GET", "/api/ledger?min_amount=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummary(t *testing.T) {
	srv := newTestServer()

	doJSON(t, srv, "POST", "/api/payments/charges", cardCharge(100, 500))
	doJSON(t, srv, "POST", "/api/payments/charges", cardCharge(25, 500))

	totals := decodeJSON[[]api.SummaryDTO](t, doJSON(t, srv, "GET", "/api/ledger/summary", nil))
	require.Len(t, totals, 1)
	assert.Equal(t, "card", totals[0].Variant)
	assert.Equal(t, 2, totals[0].Count)
	assert.Equal(t, 125.0, totals[0].Total)
}

func TestResetLedger(t *testing.T) {
	srv := newTestServer()

	doJSON(t, srv, "POST", "/api/payments/charges", cardCharge(100, 500))

	rec := doJSON(t, srv, "POST", "/api/ledger/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decodeJSON[[]api.EntryDTO](t, doJSON(t, srv, "GET", "/api/ledger", nil))
	assert.Empty(t, entries)
}

// =============================================================================
// VARIANT TESTS
// =============================================================================

func TestListVariants(t *testing.T) {
	srv := newTestServer()

	variants := decodeJSON[[]api.VariantDTO](t, doJSON(t, srv, "GET", "/api/variants", nil))

	ids := make([]string, len(variants))
	for i, v := range variants {
		ids[i] = v.ID
	}
	assert.ElementsMatch(t, []string{"card", "wallet", "bank_transfer", "book", "magazine", "dvd"}, ids)
}
