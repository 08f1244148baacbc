// Package sqlite persists run history in a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/aretw0/espalier/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    definition TEXT NOT NULL,
    source TEXT,
    input TEXT NOT NULL,
    mode TEXT NOT NULL,
    verdict TEXT NOT NULL,
    reason TEXT,
    expanded INTEGER NOT NULL DEFAULT 0,
    elapsed_ns INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    seq INTEGER  -- insertion order; created_at alone is too coarse to sort on
);
CREATE INDEX IF NOT EXISTS idx_runs_seq ON runs(seq);
`

// RunStore implements ports.RunStore on SQLite.
type RunStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &RunStore{db: db}, nil
}

// Append records one finished run. A missing ID is filled in.
func (s *RunStore) Append(ctx context.Context, rec *domain.RunRecord) error {
	if rec == nil {
		return fmt.Errorf("run record is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, definition, source, input, mode, verdict, reason,
			expanded, elapsed_ns, created_at, seq
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM runs))
	`, rec.ID, rec.Definition, nullString(rec.Source), rec.Input,
		string(rec.Mode), rec.Verdict.String(), nullString(rec.Reason),
		rec.Expanded, rec.Elapsed.Nanoseconds(), rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first. limit <= 0 returns all.
func (s *RunStore) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	query := selectColumns + ` FROM runs ORDER BY seq DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []domain.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Get retrieves one record by ID.
func (s *RunStore) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %q: %w", id, domain.ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT id, definition, source, input, mode, verdict, reason, expanded, elapsed_ns, created_at`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*domain.RunRecord, error) {
	var (
		rec            domain.RunRecord
		source, reason sql.NullString
		mode, verdict  string
		elapsedNS      int64
		createdAt      string
	)
	if err := row.Scan(&rec.ID, &rec.Definition, &source, &rec.Input,
		&mode, &verdict, &reason, &rec.Expanded, &elapsedNS, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	rec.Source = source.String
	rec.Reason = reason.String
	rec.Elapsed = time.Duration(elapsedNS)

	parsedMode, err := domain.ParseAcceptanceMode(mode)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", rec.ID, err)
	}
	rec.Mode = parsedMode

	parsedVerdict, err := domain.ParseVerdict(verdict)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", rec.ID, err)
	}
	rec.Verdict = parsedVerdict

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("run %s: invalid created_at: %w", rec.ID, err)
	}
	rec.CreatedAt = ts

	return &rec, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
