// Package sqlite persists batch run history so past scans can be reviewed
// without re-reading their logs.
package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// RunRecord is one batch run over a source root.
type RunRecord struct {
	RunID      string `json:"runId"`
	Source     string `json:"source"`
	CSV        string `json:"csv"`
	Mode       string `json:"mode"`
	StartedAt  string `json:"startedAt"`
	EndedAt    string `json:"endedAt,omitempty"`
	Total      int    `json:"total"`
	Dispatched int    `json:"dispatched"`
	Skipped    int    `json:"skipped"`
	Problems   int    `json:"problems"`
}

// OutcomeRecord is the per-project result within a run.
type OutcomeRecord struct {
	RunID   string `json:"runId"`
	Project string `json:"project"`
	Layout  string `json:"layout,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func Open(stateDir string) (*Store, error) {
	if stateDir == "" {
		stateDir = ".resweep"
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(stateDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			csv TEXT NOT NULL,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			total INTEGER NOT NULL DEFAULT 0,
			dispatched INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			problems INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id TEXT NOT NULL,
			project TEXT NOT NULL,
			layout TEXT,
			status TEXT NOT NULL,
			message TEXT,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// BeginRun records a run as started.
func (s *Store) BeginRun(r RunRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, source, csv, mode, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		r.RunID, r.Source, r.CSV, r.Mode, now(),
	)
	return err
}

// FinishRun closes out a run with its final counters.
func (s *Store) FinishRun(runID string, total, dispatched, skipped, problems int) error {
	_, err := s.db.Exec(
		`UPDATE runs SET ended_at = ?, total = ?, dispatched = ?, skipped = ?, problems = ? WHERE run_id = ?`,
		now(), total, dispatched, skipped, problems, runID,
	)
	return err
}

// InsertOutcome records one per-project outcome.
func (s *Store) InsertOutcome(o OutcomeRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO outcomes (run_id, project, layout, status, message)
		 VALUES (?, ?, ?, ?, ?)`,
		o.RunID, o.Project, nullableString(o.Layout), o.Status, nullableString(o.Message),
	)
	return err
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT run_id, source, csv, mode, started_at, ended_at, total, dispatched, skipped, problems
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var ended sql.NullString
		if err := rows.Scan(&r.RunID, &r.Source, &r.CSV, &r.Mode, &r.StartedAt, &ended,
			&r.Total, &r.Dispatched, &r.Skipped, &r.Problems); err != nil {
			return nil, err
		}
		r.EndedAt = ended.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListOutcomes returns the per-project outcomes of one run in insertion
// order.
func (s *Store) ListOutcomes(runID string) ([]OutcomeRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, project, layout, status, message FROM outcomes WHERE run_id = ? ORDER BY rowid`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutcomeRecord
	for rows.Next() {
		var o OutcomeRecord
		var layout, message sql.NullString
		if err := rows.Scan(&o.RunID, &o.Project, &layout, &o.Status, &message); err != nil {
			return nil, err
		}
		o.Layout = layout.String
		o.Message = message.String
		out = append(out, o)
	}
	return out, rows.Err()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
