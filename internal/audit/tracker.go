// Package audit persists per-run processing counts so monthly runs can be
// compared and exclusions are never lost silently.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rva-directmail/internal/debug"
)

// Counts holds the totals one region run produces. Every exclusion path
// in the pipeline lands in a field here.
type Counts struct {
	Processed         int            `json:"processed"`
	RecentSalesAdded  int            `json:"recent_sales_added"`
	NicheUpdates      int            `json:"niche_updates"`
	NicheInserts      int            `json:"niche_inserts"`
	ExcludedAddresses int            `json:"excluded_addresses"`
	SkipTraceMatches  int            `json:"skip_trace_matches"`
	Inserts           int            `json:"inserts"`
	Updates           int            `json:"updates"`
	Frozen            int            `json:"frozen"`
	ByPriority        map[string]int `json:"by_priority"`
}

// Run is one region processing run.
type Run struct {
	ID         uuid.UUID
	Region     string
	StartedAt  time.Time
	FinishedAt time.Time
	Counts     Counts
}

// Tracker records runs in the store.
type Tracker struct {
	db *sql.DB
}

// NewTracker creates a new run tracker
func NewTracker(db *sql.DB) *Tracker {
	return &Tracker{db: db}
}

// RecordRun saves a completed run's counts.
func (t *Tracker) RecordRun(run Run) error {
	debug.Printf("Recording run %s for region %s", run.ID, run.Region)

	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS processing_run (
			run_id       uuid PRIMARY KEY,
			region       text NOT NULL,
			started_at   timestamptz NOT NULL,
			finished_at  timestamptz NOT NULL,
			counts_json  jsonb NOT NULL,
			created_at   timestamptz DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create run table: %w", err)
	}

	countsJSON, err := json.Marshal(run.Counts)
	if err != nil {
		return fmt.Errorf("failed to marshal run counts: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO processing_run (run_id, region, started_at, finished_at, counts_json)
		VALUES ($1, $2, $3, $4, $5)
	`, run.ID, run.Region, run.StartedAt, run.FinishedAt, countsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	debug.Printf("Recorded run %s", run.ID)
	return nil
}

// GetRuns retrieves the most recent runs, newest first.
func (t *Tracker) GetRuns(limit int) ([]Run, error) {
	rows, err := t.db.Query(`
		SELECT run_id, region, started_at, finished_at, counts_json
		FROM processing_run
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var countsJSON []byte
		if err := rows.Scan(&run.ID, &run.Region, &run.StartedAt, &run.FinishedAt, &countsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if err := json.Unmarshal(countsJSON, &run.Counts); err != nil {
			debug.Printf("Warning: bad counts json for run %s: %v", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun retrieves one run by id.
func (t *Tracker) GetRun(id uuid.UUID) (Run, error) {
	var run Run
	var countsJSON []byte
	err := t.db.QueryRow(`
		SELECT run_id, region, started_at, finished_at, counts_json
		FROM processing_run
		WHERE run_id = $1
	`, id).Scan(&run.ID, &run.Region, &run.StartedAt, &run.FinishedAt, &countsJSON)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to query run: %w", err)
	}
	if err := json.Unmarshal(countsJSON, &run.Counts); err != nil {
		return Run{}, fmt.Errorf("failed to unmarshal run counts: %w", err)
	}
	return run, nil
}
