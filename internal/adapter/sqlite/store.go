// Package sqlite persists day snapshots and the record-id ledger in an
// embedded database on the device.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"healthsync/internal/domain"
)

// Store wraps a *sql.DB and implements the local persistence ports.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS day_snapshots (
		metric     TEXT NOT NULL,
		day        TEXT NOT NULL,
		value      REAL NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (metric, day)
	);

	CREATE TABLE IF NOT EXISTS record_ledger (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		metric      TEXT NOT NULL,
		external_id TEXT NOT NULL,
		created_at  DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_record_ledger_metric ON record_ledger(metric);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Ensure interfaces are met.
var _ domain.SnapshotRepository = (*Store)(nil)
var _ domain.LedgerRepository = (*Store)(nil)

// SaveSnapshot inserts or overwrites the snapshot for its metric and day.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.LocalDailySnapshot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO day_snapshots(metric, day, value, updated_at) VALUES(?, ?, ?, ?)
		 ON CONFLICT(metric, day) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(snap.MetricType), snap.DayKey, snap.LatestValue, time.Now().UTC())
	return err
}

// Snapshot returns the stored snapshot, or nil when the day has none.
func (s *Store) Snapshot(ctx context.Context, m domain.MetricType, dayKey string) (*domain.LocalDailySnapshot, error) {
	var value float64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM day_snapshots WHERE metric = ? AND day = ?`,
		string(m), dayKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.LocalDailySnapshot{DayKey: dayKey, MetricType: m, LatestValue: value}, nil
}

// AppendRecordID appends an external id to the metric's ledger.
func (s *Store) AppendRecordID(ctx context.Context, m domain.MetricType, externalID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO record_ledger(metric, external_id, created_at) VALUES(?, ?, ?)`,
		string(m), externalID, time.Now().UTC())
	return err
}

// PopRecordID removes and returns the most recently appended id.
func (s *Store) PopRecordID(ctx context.Context, m domain.MetricType) (string, bool, error) {
	var rowID int64
	var externalID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, external_id FROM record_ledger WHERE metric = ? ORDER BY id DESC LIMIT 1`,
		string(m)).Scan(&rowID, &externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM record_ledger WHERE id = ?`, rowID); err != nil {
		return "", false, err
	}
	return externalID, true, nil
}

// RecordIDs returns the metric's ledger, oldest first.
func (s *Store) RecordIDs(ctx context.Context, m domain.MetricType) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT external_id FROM record_ledger WHERE metric = ? ORDER BY id ASC`, string(m))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
