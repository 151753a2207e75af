// Package results persists stress-test runs and their result rows to SQLite
// so the summariser layer can read them back later.
package results

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"battery-stress/internal/model"
)

// RunRecord describes one persisted sweep.
type RunRecord struct {
	RunID     string
	CreatedAt time.Time
	Periods   int
	Scenarios int
	Seed      int64
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) RecordRun(rec RunRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (run_id, created_at, periods, scenarios, seed)
		VALUES (?, ?, ?, ?, ?)`,
		rec.RunID, rec.CreatedAt.UTC(), rec.Periods, rec.Scenarios, rec.Seed,
	)
	return err
}

// RecordRows stores rows keyed by (run, regime); seq preserves sweep order.
func (s *Store) RecordRows(runID string, rows []model.StressResultRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for i, r := range rows {
		if _, err := tx.Exec(`
			INSERT INTO stress_rows
			(run_id, regime_id, da_volatility, rt_noise_scale, spike_probability,
			 da_only_pnl, expected_two_stage_pnl, p5, p50, p95, worst, best, option_value, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.RegimeID, r.DAVolatility, r.RTNoiseScale, r.SpikeProbability,
			r.DAOnlyPnL, r.ExpectedTwoStagePnL, r.P5, r.P50, r.P95, r.Worst, r.Best, r.OptionValue, i,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord
	err := s.db.QueryRow(`
		SELECT run_id, created_at, periods, scenarios, seed
		FROM runs WHERE run_id = ?`, runID,
	).Scan(&rec.RunID, &rec.CreatedAt, &rec.Periods, &rec.Scenarios, &rec.Seed)
	if err == sql.ErrNoRows {
		return RunRecord{}, fmt.Errorf("results: run %s not found", runID)
	}
	return rec, err
}

// ListRows returns a run's rows in sweep order.
func (s *Store) ListRows(runID string) ([]model.StressResultRow, error) {
	rows, err := s.db.Query(`
		SELECT regime_id, da_volatility, rt_noise_scale, spike_probability,
		       da_only_pnl, expected_two_stage_pnl, p5, p50, p95, worst, best, option_value
		FROM stress_rows WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.StressResultRow
	for rows.Next() {
		var r model.StressResultRow
		if err := rows.Scan(
			&r.RegimeID, &r.DAVolatility, &r.RTNoiseScale, &r.SpikeProbability,
			&r.DAOnlyPnL, &r.ExpectedTwoStagePnL, &r.P5, &r.P50, &r.P95, &r.Worst, &r.Best, &r.OptionValue,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
