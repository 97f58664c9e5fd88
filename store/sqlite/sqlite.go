/*
Package sqlite provides a SQLite-backed implementation of engine.Store.

PURPOSE:
  Durable append-only persistence for ledger entries. In production, the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the ledger_entries table
  - No DELETE statements outside Reset (test/dev only)
  - Insertion order is preserved by a monotonic seq column

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Readers observe a consistent prefix of the history

USAGE:
  store, err := sqlite.New("./data/ledger.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := engine.NewLedger(store)

SEE ALSO:
  - engine/store.go: Interface definition
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/action-ledger/engine"
)

// Store implements engine.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Ledger entries (append-only)
	CREATE TABLE IF NOT EXISTS ledger_entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		record_id TEXT NOT NULL,
		variant TEXT NOT NULL,
		domain TEXT NOT NULL,
		amount_value TEXT NOT NULL,
		amount_unit TEXT NOT NULL,
		confirmed BOOLEAN NOT NULL,
		reference TEXT,
		due_at TEXT,
		detail TEXT,
		committed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_variant
		ON ledger_entries(variant);
	CREATE INDEX IF NOT EXISTS idx_entries_domain
		ON ledger_entries(domain);
	CREATE INDEX IF NOT EXISTS idx_entries_record
		ON ledger_entries(record_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Append persists one entry. The only production write.
func (s *Store) Append(ctx context.Context, entry engine.Entry) error {
	var dueAt sql.NullString
	if entry.Outcome.DueAt != nil {
		dueAt = sql.NullString{String: entry.Outcome.DueAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_entries
			(id, record_id, variant, domain, amount_value, amount_unit,
			 confirmed, reference, due_at, detail, committed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(entry.ID),
		string(entry.RecordID),
		entry.Variant,
		entry.Domain,
		entry.Amount.Value.String(),
		string(entry.Amount.Unit),
		entry.Outcome.Confirmed,
		entry.Outcome.Reference,
		dueAt,
		entry.Outcome.Detail,
		entry.CommittedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// List returns matching entries ordered by seq (insertion order).
// Variant/domain narrow in SQL; the amount range is applied on the decoded
// decimal values so TEXT-stored amounts compare numerically.
func (s *Store) List(ctx context.Context, filter engine.Filter) ([]engine.Entry, error) {
	query := `
		SELECT id, record_id, variant, domain, amount_value, amount_unit,
		       confirmed, reference, due_at, detail, committed_at
		FROM ledger_entries`
	var args []any
	var where []string

	if filter.Variant != "" {
		where = append(where, "variant = ?")
		args = append(args, filter.Variant)
	}
	if filter.Domain != "" {
		where = append(where, "domain = ?")
		args = append(args, filter.Domain)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []engine.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if filter.Matches(entry) {
			entries = append(entries, entry)
		}
	}
	return entries, rows.Err()
}

// Count returns the total number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_entries`).Scan(&n)
	return n, err
}

// Reset removes all entries. Test/dev isolation only - the single place
// the table is ever deleted from.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ledger_entries`)
	return err
}

// =============================================================================
// ROW DECODING
// =============================================================================

func scanEntry(rows *sql.Rows) (engine.Entry, error) {
	var (
		entry       engine.Entry
		id, recID   string
		amountValue string
		amountUnit  string
		reference   sql.NullString
		dueAt       sql.NullString
		detail      sql.NullString
		committedAt string
	)

	err := rows.Scan(&id, &recID, &entry.Variant, &entry.Domain,
		&amountValue, &amountUnit, &entry.Outcome.Confirmed,
		&reference, &dueAt, &detail, &committedAt)
	if err != nil {
		return engine.Entry{}, err
	}

	entry.ID = engine.EntryID(id)
	entry.RecordID = engine.RecordID(recID)

	value, err := decimal.NewFromString(amountValue)
	if err != nil {
		return engine.Entry{}, fmt.Errorf("corrupt amount %q: %w", amountValue, err)
	}
	entry.Amount = engine.Amount{Value: value, Unit: engine.Unit(amountUnit)}

	entry.Outcome.Reference = reference.String
	entry.Outcome.Detail = detail.String
	if dueAt.Valid {
		due, err := time.Parse(time.RFC3339, dueAt.String)
		if err != nil {
			return engine.Entry{}, fmt.Errorf("corrupt due_at %q: %w", dueAt.String, err)
		}
		entry.Outcome.DueAt = &due
	}

	entry.CommittedAt, err = time.Parse(time.RFC3339Nano, committedAt)
	if err != nil {
		return engine.Entry{}, fmt.Errorf("corrupt committed_at %q: %w", committedAt, err)
	}

	return entry, nil
}
