// Package store keeps a SQLite history of analysis runs
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/archscan/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	diagram          TEXT NOT NULL,
	generated_at     TEXT NOT NULL,
	version          TEXT NOT NULL DEFAULT '',
	threshold_source TEXT NOT NULL,
	thresholds       TEXT NOT NULL,
	classes          INTEGER NOT NULL,
	edges            INTEGER NOT NULL,
	god_classes      INTEGER NOT NULL,
	suspicious       INTEGER NOT NULL,
	hubs             INTEGER NOT NULL,
	duration_ms      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_diagram ON runs(diagram);
CREATE TABLE IF NOT EXISTS findings (
	run_id   INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	class    TEXT NOT NULL,
	label    TEXT NOT NULL,
	score    REAL NOT NULL,
	wmc      INTEGER NOT NULL,
	atfd     INTEGER NOT NULL,
	tcc      REAL NOT NULL,
	fan_in   INTEGER NOT NULL,
	fan_out  INTEGER NOT NULL,
	lrc      INTEGER NOT NULL,
	PRIMARY KEY (run_id, position)
);
CREATE TABLE IF NOT EXISTS hubs (
	run_id     INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	class      TEXT NOT NULL,
	rank       REAL NOT NULL,
	degree     INTEGER NOT NULL,
	in_degree  INTEGER NOT NULL,
	out_degree INTEGER NOT NULL,
	PRIMARY KEY (run_id, position)
);
`

// Store wraps the history database
type Store struct {
	conn *sql.DB
	Path string
}

// Run is one recorded analysis
type Run struct {
	ID              int64
	Diagram         string
	GeneratedAt     string
	Version         string
	ThresholdSource domain.ThresholdSource
	Thresholds      domain.Thresholds
	Summary         domain.AnalysisSummary
	DurationMs      int64
}

// Open opens or creates the history database at path with WAL mode and
// foreign keys enabled
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps the pragmas in effect for every statement
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{conn: conn, Path: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// RecordRun stores the response with its findings and hubs and returns
// the new run id
func (s *Store) RecordRun(ctx context.Context, resp *domain.AnalysisResponse) (int64, error) {
	if resp == nil {
		return 0, fmt.Errorf("recording run: nil response")
	}
	thresholds, err := json.Marshal(resp.Thresholds)
	if err != nil {
		return 0, fmt.Errorf("encoding thresholds: %w", err)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (diagram, generated_at, version, threshold_source, thresholds,
			classes, edges, god_classes, suspicious, hubs, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		resp.Diagram, resp.GeneratedAt, resp.Version, string(resp.ThresholdSource), string(thresholds),
		resp.Summary.Classes, resp.Summary.Edges, resp.Summary.GodClasses, resp.Summary.Suspicious,
		resp.Summary.Hubs, resp.DurationMs,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, f := range resp.GodClasses {
		m := f.Metrics
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO findings (run_id, position, class, label, score, wmc, atfd, tcc, fan_in, fan_out, lrc)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, f.Class, string(f.Label), f.Score, m.WMC, m.ATFD, m.TCC, m.FanIn, m.FanOut, m.LRC,
		); err != nil {
			return 0, fmt.Errorf("inserting finding %s: %w", f.Class, err)
		}
	}

	for i, h := range resp.Hubs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hubs (run_id, position, class, rank, degree, in_degree, out_degree)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, h.Class, h.Rank, h.Degree, h.InDegree, h.OutDegree,
		); err != nil {
			return 0, fmt.Errorf("inserting hub %s: %w", h.Class, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs first. An empty diagram matches
// every run; limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, diagram string, limit int) ([]Run, error) {
	query := `SELECT id, diagram, generated_at, version, threshold_source, thresholds,
		classes, edges, god_classes, suspicious, hubs, duration_ms FROM runs`
	var args []any
	if diagram != "" {
		query += " WHERE diagram = ?"
		args = append(args, diagram)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var r Run
		var source, thresholds string
		if err := rows.Scan(&r.ID, &r.Diagram, &r.GeneratedAt, &r.Version, &source, &thresholds,
			&r.Summary.Classes, &r.Summary.Edges, &r.Summary.GodClasses, &r.Summary.Suspicious,
			&r.Summary.Hubs, &r.DurationMs); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.ThresholdSource = domain.ThresholdSource(source)
		if err := json.Unmarshal([]byte(thresholds), &r.Thresholds); err != nil {
			return nil, fmt.Errorf("decoding thresholds of run %d: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Findings returns the god-class findings of a run in report order
func (s *Store) Findings(ctx context.Context, runID int64) ([]domain.GodClassFinding, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT class, label, score, wmc, atfd, tcc, fan_in, fan_out, lrc
		FROM findings WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	findings := make([]domain.GodClassFinding, 0)
	for rows.Next() {
		var f domain.GodClassFinding
		var label string
		m := &f.Metrics
		if err := rows.Scan(&f.Class, &label, &f.Score, &m.WMC, &m.ATFD, &m.TCC, &m.FanIn, &m.FanOut, &m.LRC); err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		f.Label = domain.GodClassLabel(label)
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// Hubs returns the hub candidates of a run in report order
func (s *Store) Hubs(ctx context.Context, runID int64) ([]domain.HubCandidate, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT class, rank, degree, in_degree, out_degree
		FROM hubs WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying hubs: %w", err)
	}
	defer rows.Close()

	hubs := make([]domain.HubCandidate, 0)
	for rows.Next() {
		var h domain.HubCandidate
		if err := rows.Scan(&h.Class, &h.Rank, &h.Degree, &h.InDegree, &h.OutDegree); err != nil {
			return nil, fmt.Errorf("scanning hub: %w", err)
		}
		hubs = append(hubs, h)
	}
	return hubs, rows.Err()
}

// DeleteRun removes a run together with its findings and hubs
func (s *Store) DeleteRun(ctx context.Context, runID int64) error {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", runID)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}
