package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"splashgate/internal/startup"
)

// LaunchRecord is one stored splash-to-main handoff.
type LaunchRecord struct {
	ID        int64 `json:"id"`
	StartedAt int64 `json:"startedAt"`
	ElapsedMs int64 `json:"elapsedMs"`
	WaitedMs  int64 `json:"waitedMs"`
	TotalMs   int64 `json:"totalMs"`
}

// LaunchHistory persists handoff timings in a local sqlite database.
type LaunchHistory struct {
	db   *sql.DB
	keep int
}

// OpenLaunchHistory opens (or creates) the history database at path and keeps
// at most keep rows.
func OpenLaunchHistory(path string, keep int) (*LaunchHistory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open launch history: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS launches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			waited_ms INTEGER NOT NULL,
			total_ms INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_launches_started ON launches(started_at DESC);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create launches table: %w", err)
	}

	if keep <= 0 {
		keep = defaultHistoryKeep
	}
	return &LaunchHistory{db: db, keep: keep}, nil
}

// Record stores h and prunes rows beyond the retention limit.
func (lh *LaunchHistory) Record(h startup.Handoff) error {
	_, err := lh.db.Exec(
		`INSERT INTO launches (started_at, elapsed_ms, waited_ms, total_ms) VALUES (?, ?, ?, ?)`,
		h.Started.UnixMilli(), h.Elapsed.Milliseconds(), h.Waited.Milliseconds(), h.Total.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert launch: %w", err)
	}

	_, err = lh.db.Exec(
		`DELETE FROM launches WHERE id NOT IN (SELECT id FROM launches ORDER BY id DESC LIMIT ?)`,
		lh.keep,
	)
	if err != nil {
		return fmt.Errorf("prune launches: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. The table never holds
// more than keep rows, so limit is clamped to keep.
func (lh *LaunchHistory) Recent(limit int) ([]LaunchRecord, error) {
	if limit <= 0 || limit > lh.keep {
		limit = lh.keep
	}
	rows, err := lh.db.Query(
		`SELECT id, started_at, elapsed_ms, waited_ms, total_ms FROM launches ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query launches: %w", err)
	}
	defer rows.Close()

	records := make([]LaunchRecord, 0, limit)
	for rows.Next() {
		var r LaunchRecord
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.ElapsedMs, &r.WaitedMs, &r.TotalMs); err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// AverageTotal returns the mean time-to-main-window over stored launches.
func (lh *LaunchHistory) AverageTotal() (time.Duration, error) {
	var avg sql.NullFloat64
	if err := lh.db.QueryRow(`SELECT AVG(total_ms) FROM launches`).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average launch time: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return time.Duration(avg.Float64 * float64(time.Millisecond)), nil
}

// Clear removes all stored launches.
func (lh *LaunchHistory) Clear() error {
	_, err := lh.db.Exec("DELETE FROM launches")
	return err
}

// Close closes the database.
func (lh *LaunchHistory) Close() error {
	return lh.db.Close()
}
