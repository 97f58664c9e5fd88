package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/warp/action-ledger/engine"
)

func newTestOrchestrator() (*engine.Orchestrator, *engine.DefaultLedger) {
	ledger := newTestLedger()
	return engine.NewOrchestrator(ledger, zerolog.Nop()), ledger
}

// =============================================================================
// LEDGER GATE TESTS
// =============================================================================

func TestOrchestrator_Run_Success_AppendsSnapshot(t *testing.T) {
	ctx := context.Background()
	orch, ledger := newTestOrchestrator()

	record := engine.NewRecord(newStub(1000))
	outcome, err := orch.Run(ctx, record, currency(100))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !outcome.Confirmed {
		t.Error("expected confirmed outcome")
	}

	entries, _ := ledger.List(ctx, engine.Filter{})
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.RecordID != record.ID() {
		t.Errorf("entry references record %s, want %s", e.RecordID, record.ID())
	}
	if e.Variant != "stub" || e.Domain != "test" {
		t.Errorf("entry discriminator %s/%s, want stub/test", e.Variant, e.Domain)
	}
	if !e.Amount.Equal(currency(100)) {
		t.Errorf("entry amount %v, want 100", e.Amount.Value)
	}
	if e.CommittedAt.IsZero() {
		t.Error("entry must carry a commit timestamp")
	}
}

func TestOrchestrator_Run_VerificationFailure_NoAppend(t *testing.T) {
	ctx := context.Background()
	orch, ledger := newTestOrchestrator()

	record := engine.NewRecord(newStub(10))
	_, err := orch.Run(ctx, record, currency(100))
	if !errors.Is(err, engine.ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}

	n, _ := ledger.Count(ctx)
	if n != 0 {
		t.Errorf("ledger has %d entries after failed verification, want 0", n)
	}
	if record.Committed() {
		t.Error("record must stay open")
	}
}

func TestOrchestrator_Run_AlreadyCommitted_NoAppend(t *testing.T) {
	ctx := context.Background()
	orch, ledger := newTestOrchestrator()

	record := engine.NewRecord(newStub(1000))
	if _, err := orch.Run(ctx, record, currency(100)); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	_, err := orch.Run(ctx, record, currency(200))
	if !errors.Is(err, engine.ErrAlreadyCommitted) {
		t.Fatalf("expected ErrAlreadyCommitted, got %v", err)
	}

	n, _ := ledger.Count(ctx)
	if n != 1 {
		t.Errorf("ledger has %d entries, want exactly 1 for the record", n)
	}
}

func TestOrchestrator_Run_ExecuteFault_NoAppend(t *testing.T) {
	ctx := context.Background()
	orch, ledger := newTestOrchestrator()

	policy := newStub(1000)
	policy.execErr = errors.New("boom")
	record := engine.NewRecord(policy)

	if _, err := orch.Run(ctx, record, currency(100)); err == nil {
		t.Fatal("expected execute fault to propagate")
	}

	n, _ := ledger.Count(ctx)
	if n != 0 {
		t.Errorf("ledger has %d entries after execute fault, want 0", n)
	}
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

func TestOrchestrator_Run_ConcurrentDistinctRecords(t *testing.T) {
	// GIVEN: M records, each with passing verification
	// WHEN: Committed concurrently
	// THEN: Exactly M ledger entries, no lost or duplicated appends

	ctx := context.Background()
	orch, ledger := newTestOrchestrator()

	const m = 64
	records := make([]*engine.Record, m)
	for i := range records {
		records[i] = engine.NewRecord(newStub(1000))
	}

	var wg sync.WaitGroup
	errs := make(chan error, m)
	for i := 0; i < m; i++ {
		wg.Add(1)
		go func(rec *engine.Record, amount float64) {
			defer wg.Done()
			if _, err := orch.Run(ctx, rec, currency(amount)); err != nil {
				errs <- err
			}
		}(records[i], float64(i+1))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent run failed: %v", err)
	}

	entries, err := ledger.List(ctx, engine.Filter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != m {
		t.Fatalf("got %d entries, want %d", len(entries), m)
	}

	seen := make(map[engine.RecordID]bool, m)
	for _, e := range entries {
		if seen[e.RecordID] {
			t.Errorf("duplicate entry for record %s", e.RecordID)
		}
		seen[e.RecordID] = true
	}
}

// =============================================================================
// SCENARIO FLOW
// =============================================================================

func TestOrchestrator_CommitFlow(t *testing.T) {
	// Two records commit, a re-commit is rejected, and the history holds
	// exactly the two successful commits in order.

	ctx := context.Background()
	orch, ledger := newTestOrchestrator()

	first := engine.NewRecord(newStub(500))
	second := engine.NewRecord(newStub(500))

	if _, err := orch.Run(ctx, first, currency(100)); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	if _, err := orch.Run(ctx, second, currency(50)); err != nil {
		t.Fatalf("second commit failed: %v", err)
	}

	if _, err := orch.Run(ctx, first, currency(200)); !errors.Is(err, engine.ErrAlreadyCommitted) {
		t.Fatalf("re-commit should fail with ErrAlreadyCommitted, got %v", err)
	}

	entries, _ := ledger.List(ctx, engine.Filter{})
	if len(entries) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(entries))
	}
	want := []string{"100", "50"}
	for i, e := range entries {
		if e.Amount.Value.String() != want[i] {
			t.Errorf("entry %d amount %s, want %s", i, e.Amount.Value, want[i])
		}
	}
}
