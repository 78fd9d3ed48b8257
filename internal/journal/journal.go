package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Run is one invocation of the pipeline on a document.
type Run struct {
	ID          string
	Document    string
	StartStage  string
	Status      string
	FailedStage string
	Reason      string
	Chunks      int
	Segments    int
	StartedAt   time.Time
	FinishedAt  *time.Time
}

// Outcome is recorded when a run ends.
type Outcome struct {
	Status      string
	FailedStage string
	Reason      string
	Chunks      int
	Segments    int
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	document TEXT NOT NULL,
	start_stage TEXT NOT NULL,
	status TEXT NOT NULL,
	failed_stage TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT '',
	chunks INTEGER NOT NULL DEFAULT 0,
	segments INTEGER NOT NULL DEFAULT 0,
	started_at REAL NOT NULL,
	finished_at REAL
);
CREATE INDEX IF NOT EXISTS runs_document ON runs(document, started_at);
`

// Store records pipeline runs in SQLite. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin records a new running run and returns its id.
func (s *Store) Begin(ctx context.Context, document, startStage string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, document, start_stage, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, document, startStage, StatusRunning, unixFromTime(s.now()))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// Finish records the outcome of run id.
func (s *Store) Finish(ctx context.Context, id string, out Outcome) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, failed_stage = ?, reason = ?, chunks = ?, segments = ?, finished_at = ?
		WHERE id = ?
	`, out.Status, out.FailedStage, out.Reason, out.Chunks, out.Segments, unixFromTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

const runColumns = `id, document, start_stage, status, failed_stage, reason, chunks, segments, started_at, finished_at`

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Recent returns up to limit runs, newest first. An empty document matches every document.
func (s *Store) Recent(ctx context.Context, document string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE ? = '' OR document = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, document, document, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns run id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return r, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r          Run
		startedAt  float64
		finishedAt sql.NullFloat64
	)
	if err := sc.Scan(&r.ID, &r.Document, &r.StartStage, &r.Status, &r.FailedStage, &r.Reason,
		&r.Chunks, &r.Segments, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	r.StartedAt = timeFromUnix(startedAt)
	if finishedAt.Valid {
		t := timeFromUnix(finishedAt.Float64)
		r.FinishedAt = &t
	}
	return r, nil
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
