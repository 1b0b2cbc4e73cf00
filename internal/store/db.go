package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-etl-pipeline/internal/model"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned by GetRun for an unknown id
var ErrRunNotFound = errors.New("run not found")

// DB is the run history backed by SQLite
type DB struct {
	db *sql.DB
}

// Open connects to the SQLite file at dbPath and creates tables if needed.
// Use ":memory:" for a throwaway store.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; ":memory:" is also per-connection
	db.SetMaxOpenConns(1)

	// Create tables if not exists
	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		output_path TEXT NOT NULL,
		status TEXT NOT NULL,
		fetched INTEGER NOT NULL DEFAULT 0,
		kept INTEGER NOT NULL DEFAULT 0,
		written BOOLEAN NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	if _, err := db.Exec(runTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}

	return &DB{db: db}, nil
}

// Close releases the database handle
func (s *DB) Close() error {
	return s.db.Close()
}

// CreateRun stores a new run
func (s *DB) CreateRun(ctx context.Context, run model.Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.UpdatedAt.IsZero() {
		run.UpdatedAt = run.CreatedAt
	}
	if run.Status == "" {
		run.Status = model.RunPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source_url, output_path, status, fetched, kept, written, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		run.ID, run.SourceURL, run.OutputPath, string(run.Status),
		run.Fetched, run.Kept, run.Written, run.Error,
		run.CreatedAt, run.UpdatedAt)
	return err
}

// FinishRun records the outcome of a run
func (s *DB) FinishRun(ctx context.Context, result model.RunResult) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, fetched = ?, kept = ?, written = ?, error_message = ?, updated_at = ?
		WHERE id = ?`,
		string(result.Status), result.Fetched, result.Kept, result.Written, result.ErrorText(),
		time.Now().UTC(), result.RunID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", result.RunID, ErrRunNotFound)
	}
	return nil
}

const runColumns = `id, source_url, output_path, status, fetched, kept, written, error_message, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (model.Run, error) {
	var run model.Run
	var status string
	err := row.Scan(&run.ID, &run.SourceURL, &run.OutputPath, &status,
		&run.Fetched, &run.Kept, &run.Written, &run.Error,
		&run.CreatedAt, &run.UpdatedAt)
	run.Status = model.RunStatus(status)
	return run, err
}

// GetRun fetches a single run
func (s *DB) GetRun(ctx context.Context, runID string) (model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return model.Run{}, err
	}
	return run, nil
}

// ListRuns returns all runs, newest first
func (s *DB) ListRuns(ctx context.Context) ([]model.Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]model.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
