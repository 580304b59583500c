// Package memory implements in-memory repositories and a simulated health
// platform for development and testing.
package memory

import (
	"context"
	"sync"

	"healthsync/internal/domain"
)

// Store keeps day snapshots and the record-id ledger in memory.
type Store struct {
	mu        sync.Mutex
	snapshots map[snapshotKey]domain.LocalDailySnapshot
	ledgers   map[domain.MetricType][]string
}

type snapshotKey struct {
	metric domain.MetricType
	day    string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		snapshots: make(map[snapshotKey]domain.LocalDailySnapshot),
		ledgers:   make(map[domain.MetricType][]string),
	}
}

// Ensure interfaces are met.
var _ domain.SnapshotRepository = (*Store)(nil)
var _ domain.LedgerRepository = (*Store)(nil)

// SaveSnapshot stores or overwrites the snapshot for its metric and day.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.LocalDailySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshotKey{snap.MetricType, snap.DayKey}] = snap
	return nil
}

// Snapshot returns the stored snapshot, or nil when the day has none.
func (s *Store) Snapshot(ctx context.Context, m domain.MetricType, dayKey string) (*domain.LocalDailySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.snapshots[snapshotKey{m, dayKey}]; ok {
		ret := snap
		return &ret, nil
	}
	return nil, nil
}

// AppendRecordID appends an external id to the metric's ledger.
func (s *Store) AppendRecordID(ctx context.Context, m domain.MetricType, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[m] = append(s.ledgers[m], externalID)
	return nil
}

// PopRecordID removes and returns the most recently appended id.
func (s *Store) PopRecordID(ctx context.Context, m domain.MetricType) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.ledgers[m]
	if len(ids) == 0 {
		return "", false, nil
	}
	id := ids[len(ids)-1]
	s.ledgers[m] = ids[:len(ids)-1]
	return id, true, nil
}

// RecordIDs returns a copy of the metric's ledger, oldest first.
func (s *Store) RecordIDs(ctx context.Context, m domain.MetricType) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.ledgers[m]))
	copy(ids, s.ledgers[m])
	return ids, nil
}
