// SPDX-License-Identifier: MIT

// Package store keeps a ledger of sieve runs in a SQLite database: the run
// parameters and outcome, every record with its kept/removed state, and the
// RBH edges the decision was based on.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("store: run not found")

// Run statuses.
const (
	StatusVerified = "VERIFIED"
	StatusFailed   = "FAILED"
)

// Node is one record's outcome within a run.
type Node struct {
	ID   string
	Kept bool
	// Step is the 1-based removal step, 0 when kept.
	Step int
}

// Edge is one RBH similarity within a run.
type Edge struct {
	A, B  string
	Score float64
}

// Run is a persisted sieve run.
type Run struct {
	ID                 string
	StartedAt          time.Time
	FinishedAt         time.Time
	Status             string
	Error              string
	GenbankFolder      string
	ResultsDir         string
	SimilarityFilter   float64
	EValue             float64
	MinPercentIdentity float64
	Total              int
	Kept               int
	Nodes              []Node
	Edges              []Edge
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                   TEXT PRIMARY KEY,
	started_at           TEXT NOT NULL,
	finished_at          TEXT NOT NULL,
	status               TEXT NOT NULL,
	error                TEXT NOT NULL DEFAULT '',
	genbank_folder       TEXT NOT NULL,
	results_dir          TEXT NOT NULL,
	similarity_filter    REAL NOT NULL,
	e_value              REAL NOT NULL,
	min_percent_identity REAL NOT NULL,
	total                INTEGER NOT NULL,
	kept                 INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	record_id    TEXT NOT NULL,
	kept         INTEGER NOT NULL,
	removal_step INTEGER NOT NULL,
	PRIMARY KEY (run_id, record_id)
);
CREATE TABLE IF NOT EXISTS edges (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	a      TEXT NOT NULL,
	b      TEXT NOT NULL,
	score  REAL NOT NULL,
	PRIMARY KEY (run_id, a, b)
);
`

// Store is a SQLite-backed run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// A single connection serializes writers.
	db.SetMaxOpenConns(1)
	if _, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: configure: %w", err)
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun inserts r with its nodes and edges in one transaction. An empty
// r.ID is replaced with a fresh UUID; the ID used is returned.
func (s *Store) SaveRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, started_at, finished_at, status, error, genbank_folder, results_dir,
		 similarity_filter, e_value, min_percent_identity, total, kept)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, formatTime(r.StartedAt), formatTime(r.FinishedAt), r.Status, r.Error,
		r.GenbankFolder, r.ResultsDir, r.SimilarityFilter, r.EValue, r.MinPercentIdentity,
		r.Total, r.Kept)
	if err != nil {
		return "", fmt.Errorf("store: insert run: %w", err)
	}
	for _, n := range r.Nodes {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO nodes (run_id, record_id, kept, removal_step) VALUES (?, ?, ?, ?)`,
			r.ID, n.ID, n.Kept, n.Step); err != nil {
			return "", fmt.Errorf("store: insert node %s: %w", n.ID, err)
		}
	}
	for _, e := range r.Edges {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO edges (run_id, a, b, score) VALUES (?, ?, ?, ?)`,
			r.ID, e.A, e.B, e.Score); err != nil {
			return "", fmt.Errorf("store: insert edge %s–%s: %w", e.A, e.B, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}

	return r.ID, nil
}

const runColumns = `id, started_at, finished_at, status, error, genbank_folder, results_dir,
	similarity_filter, e_value, min_percent_identity, total, kept`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var started, finished string
	err := row.Scan(&r.ID, &started, &finished, &r.Status, &r.Error, &r.GenbankFolder, &r.ResultsDir,
		&r.SimilarityFilter, &r.EValue, &r.MinPercentIdentity, &r.Total, &r.Kept)
	if err != nil {
		return r, err
	}
	if r.StartedAt, err = parseTime(started); err != nil {
		return r, err
	}
	r.FinishedAt, err = parseTime(finished)

	return r, err
}

// GetRun loads a run with its nodes (sorted by ID) and edges (sorted by pair).
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, kept, removal_step FROM nodes WHERE run_id = ? ORDER BY record_id`, id)
	if err != nil {
		return Run{}, fmt.Errorf("store: get nodes: %w", err)
	}
	for rows.Next() {
		var n Node
		if err = rows.Scan(&n.ID, &n.Kept, &n.Step); err != nil {
			rows.Close()
			return Run{}, fmt.Errorf("store: scan node: %w", err)
		}
		r.Nodes = append(r.Nodes, n)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return Run{}, fmt.Errorf("store: get nodes: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT a, b, score FROM edges WHERE run_id = ? ORDER BY a, b`, id)
	if err != nil {
		return Run{}, fmt.Errorf("store: get edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e Edge
		if err = rows.Scan(&e.A, &e.B, &e.Score); err != nil {
			return Run{}, fmt.Errorf("store: scan edge: %w", err)
		}
		r.Edges = append(r.Edges, e)
	}
	if err = rows.Err(); err != nil {
		return Run{}, fmt.Errorf("store: get edges: %w", err)
	}

	return r, nil
}

// ListRuns returns run summaries, newest first. Nodes and Edges are not loaded.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}

	return out, nil
}

// timeLayout has fixed width so timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: bad timestamp %q: %w", s, err)
	}

	return t, nil
}
