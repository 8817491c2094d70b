// Package runstore keeps a SQLite ledger of harness runs. The ledger also
// hands out the train rank: a per-workspace counter starting at 0.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ErrRunNotFound is returned by Finish for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one train or predict invocation.
type Run struct {
	ID         string
	Command    string
	Algo       string
	Models     []string
	Rank       int
	DryRun     bool
	Status     Status
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store is a run ledger backed by a single SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Migrations returns the schema statements, one statement per entry.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			command     TEXT NOT NULL,
			algo        TEXT NOT NULL DEFAULT '',
			models      TEXT NOT NULL DEFAULT '[]',
			rank        INTEGER NOT NULL DEFAULT 0,
			dry_run     INTEGER NOT NULL DEFAULT 0,
			status      TEXT NOT NULL,
			error       TEXT NOT NULL DEFAULT '',
			started_at  TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_command_rank ON runs(command, rank)`,
	}
}

// Open opens the ledger at path, creating the file and schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	stmts := append([]string{`PRAGMA busy_timeout = 5000`}, Migrations()...)
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate ledger %s: %w", path, err)
		}
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin records r as running. ID, Status and StartedAt are assigned here.
func (s *Store) Begin(ctx context.Context, r Run) (Run, error) {
	r.ID = uuid.NewString()
	r.Status = StatusRunning
	r.StartedAt = s.now().UTC()
	r.FinishedAt = time.Time{}
	if r.Models == nil {
		r.Models = []string{}
	}

	models, err := json.Marshal(r.Models)
	if err != nil {
		return Run{}, fmt.Errorf("encode models: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, command, algo, models, rank, dry_run, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Command, r.Algo, string(models), r.Rank, boolInt(r.DryRun), string(r.Status), r.StartedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return r, nil
}

// Finish marks the run as succeeded when runErr is nil, failed otherwise.
func (s *Store) Finish(ctx context.Context, id string, runErr error) error {
	status, msg := StatusSucceeded, ""
	if runErr != nil {
		status, msg = StatusFailed, runErr.Error()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?
	`, string(status), msg, s.now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// NextRank returns one more than the highest recorded train rank, or 0.
func (s *Store) NextRank(ctx context.Context) (int, error) {
	var rank int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(rank), -1) + 1 FROM runs WHERE command = 'train'
	`).Scan(&rank)
	if err != nil {
		return 0, fmt.Errorf("next rank: %w", err)
	}
	return rank, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, command, algo, models, rank, dry_run, status, error, started_at, finished_at
		FROM runs ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r              Run
			models, status string
			dryRun         int
			started        string
			finished       sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Command, &r.Algo, &models, &r.Rank, &dryRun, &status, &r.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(models), &r.Models); err != nil {
			return nil, fmt.Errorf("decode models of run %s: %w", r.ID, err)
		}
		r.DryRun = dryRun == 1
		r.Status = Status(status)
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
