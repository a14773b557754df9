package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result statuses stored in run_results.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// Run represents one extract invocation.
type Run struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	DocsDir      string
	OutputPath   string
	Backend      string
	WorkerCount  int
	TotalCount   int
	SuccessCount int
	FailedCount  int
	Duration     time.Duration
}

// RunResult is the stored outcome for one document of a run.
type RunResult struct {
	Document     string
	Status       string
	Keywords     []string
	Stage        string
	ErrorMessage string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// CreateRun inserts a run row. RunID and StartedAt are filled in when empty.
func (db *DB) CreateRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = NewRunID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := db.Exec(`
		INSERT INTO runs (run_id, started_at, docs_dir, output_path, backend, worker_count, total_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.StartedAt, run.DocsDir, run.OutputPath, run.Backend, run.WorkerCount, run.TotalCount)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun records the final counts of a run.
func (db *DB) FinishRun(runID string, total, succeeded, failed int, duration time.Duration) error {
	res, err := db.Exec(`
		UPDATE runs
		SET finished_at = ?, total_count = ?, success_count = ?, failed_count = ?, duration_ms = ?
		WHERE run_id = ?
	`, time.Now().UTC(), total, succeeded, failed, duration.Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// InsertRunResult stores one document outcome for a run.
func (db *DB) InsertRunResult(runID string, r RunResult) error {
	var keywords sql.NullString
	if len(r.Keywords) > 0 {
		data, err := json.Marshal(r.Keywords)
		if err != nil {
			return fmt.Errorf("failed to encode keywords: %w", err)
		}
		keywords = sql.NullString{String: string(data), Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO run_results (run_id, document, status, keywords, stage, error_message)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, r.Document, r.Status, keywords, NewNullString(r.Stage), NewNullString(r.ErrorMessage))
	if err != nil {
		return fmt.Errorf("failed to insert run result: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, started_at, finished_at, docs_dir, output_path, COALESCE(backend, ''),
		       worker_count, total_count, success_count, failed_count, duration_ms
		FROM runs
		ORDER BY started_at DESC, rowid DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a single run by ID.
func (db *DB) GetRun(runID string) (*Run, error) {
	row := db.QueryRow(`
		SELECT run_id, started_at, finished_at, docs_dir, output_path, COALESCE(backend, ''),
		       worker_count, total_count, success_count, failed_count, duration_ms
		FROM runs
		WHERE run_id = ?
	`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// GetRunResults returns the per-document outcomes of a run ordered by document.
func (db *DB) GetRunResults(runID string) ([]RunResult, error) {
	rows, err := db.Query(`
		SELECT document, status, keywords, stage, error_message
		FROM run_results
		WHERE run_id = ?
		ORDER BY document
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run results: %w", err)
	}
	defer rows.Close()

	var results []RunResult
	for rows.Next() {
		var r RunResult
		var keywords, stage, errMsg sql.NullString
		if err := rows.Scan(&r.Document, &r.Status, &keywords, &stage, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan run result: %w", err)
		}
		if keywords.Valid {
			if err := json.Unmarshal([]byte(keywords.String), &r.Keywords); err != nil {
				return nil, fmt.Errorf("failed to decode keywords for %s: %w", r.Document, err)
			}
		}
		r.Stage = stage.String
		r.ErrorMessage = errMsg.String
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run results: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var durationMS int64
	err := s.Scan(&run.RunID, &run.StartedAt, &run.FinishedAt, &run.DocsDir, &run.OutputPath, &run.Backend,
		&run.WorkerCount, &run.TotalCount, &run.SuccessCount, &run.FailedCount, &durationMS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

// NewNullString returns a NullString that is NULL for the empty string.
func NewNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
