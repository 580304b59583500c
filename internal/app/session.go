package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"healthsync/internal/domain"
)

// AddResult reports the outcome of recording a reading.
type AddResult struct {
	Snapshot domain.LocalDailySnapshot `json:"snapshot"`
	Synced   bool                      `json:"synced"`
	Notice   string                    `json:"notice,omitempty"`
}

// RefreshResult carries the weekly series after a refresh attempt. When
// SyncFailed is set, Week is the previously computed series, untouched.
type RefreshResult struct {
	Week       []domain.DayAggregate `json:"week"`
	SyncFailed bool                  `json:"syncFailed"`
	Notice     string                `json:"notice,omitempty"`
}

// UndoResult reports the outcome of undoing the last synced entry.
type UndoResult struct {
	Undone     bool    `json:"undone"`
	ExternalID string  `json:"externalId,omitempty"`
	NewValue   float64 `json:"newValue"`
	Notice     string  `json:"notice,omitempty"`
}

// SyncSession sequences permission checks, external writes and reads, local
// persistence and aggregation for every metric type. Platform trouble never
// escapes it: permission absence, unavailability, and call failures all
// degrade to local-only behavior with a notice in the result.
//
// Each metric type has its own lock, so an add, a refresh and an undo for
// the same metric serialize instead of interleaving at await points. That
// closes the add/undo ledger race.
type SyncSession struct {
	gate      *PermissionGate
	adapter   *SyncAdapter
	snapshots domain.SnapshotRepository
	ledger    domain.LedgerRepository
	log       zerolog.Logger
	now       func() time.Time

	mu       sync.Mutex
	locks    map[domain.MetricType]*sync.Mutex
	lastWeek map[domain.MetricType][]domain.DayAggregate
}

// NewSyncSession wires a session over the given gate, adapter and stores.
func NewSyncSession(gate *PermissionGate, adapter *SyncAdapter, snapshots domain.SnapshotRepository, ledger domain.LedgerRepository, log zerolog.Logger) *SyncSession {
	return &SyncSession{
		gate:      gate,
		adapter:   adapter,
		snapshots: snapshots,
		ledger:    ledger,
		log:       log,
		now:       time.Now,
		locks:     make(map[domain.MetricType]*sync.Mutex),
		lastWeek:  make(map[domain.MetricType][]domain.DayAggregate),
	}
}

func (s *SyncSession) metricLock(m domain.MetricType) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lk, ok := s.locks[m]
	if !ok {
		lk = &sync.Mutex{}
		s.locks[m] = lk
	}
	return lk
}

// CheckPermissions re-queries the platform for current grants.
func (s *SyncSession) CheckPermissions(ctx context.Context) []domain.PermissionState {
	return s.gate.CheckStatus(ctx)
}

// RequestPermissions runs the consent flow, then re-checks, since the flow
// itself reports nothing.
func (s *SyncSession) RequestPermissions(ctx context.Context, metrics ...domain.MetricType) []domain.PermissionState {
	s.gate.RequestAccess(ctx, metrics...)
	return s.gate.CheckStatus(ctx)
}

// AddReading records a new value. The local snapshot always updates; the
// external write is attempted only with write access, and its failure
// becomes a notice, never a lost reading.
func (s *SyncSession) AddReading(ctx context.Context, m domain.MetricType, value float64) (AddResult, error) {
	if !m.Valid() {
		return AddResult{}, fmt.Errorf("unknown metric type %q", m)
	}
	if value <= 0 {
		return AddResult{}, errors.New("value must be > 0")
	}
	lk := s.metricLock(m)
	lk.Lock()
	defer lk.Unlock()

	now := s.now()
	value = domain.Round(m, value)
	res := AddResult{Snapshot: domain.LocalDailySnapshot{
		DayKey:      domain.DayKey(now),
		MetricType:  m,
		LatestValue: value,
	}}

	if s.gate.CanWrite(m) {
		id, err := s.adapter.Write(ctx, m, value, now)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("metric", string(m)).Msg("external write failed, keeping local value")
			res.Notice = "saved locally; sync to health platform failed"
		default:
			// The id must reach the ledger before any other ledger
			// operation runs; the metric lock guarantees that.
			if lerr := s.ledger.AppendRecordID(ctx, m, id); lerr != nil {
				s.log.Error().Err(lerr).Str("metric", string(m)).Str("externalId", id).Msg("ledger append failed; record orphaned from undo")
				res.Notice = "synced, but undo will not cover this entry"
			} else {
				res.Synced = true
			}
		}
	}

	if err := s.snapshots.SaveSnapshot(ctx, res.Snapshot); err != nil {
		return AddResult{}, fmt.Errorf("save snapshot: %w", err)
	}
	if res.Synced {
		s.weekLocked(ctx, m)
	}
	return res, nil
}

// Refresh re-reads today's readings from the platform, rewrites the local
// snapshot from the authoritative external average, and rebuilds the weekly
// series. A failed or unpermitted read reports a sync failure and leaves
// all previously derived state untouched.
func (s *SyncSession) Refresh(ctx context.Context, m domain.MetricType) (RefreshResult, error) {
	if !m.Valid() {
		return RefreshResult{}, fmt.Errorf("unknown metric type %q", m)
	}
	lk := s.metricLock(m)
	lk.Lock()
	defer lk.Unlock()

	if !s.gate.CanRead(m) {
		return s.failedRefresh(m, "read access to the health platform is not granted"), nil
	}

	today := domain.DayKey(s.now())
	start, end, err := domain.DayBounds(today)
	if err != nil {
		return RefreshResult{}, err
	}
	readings, err := s.adapter.ReadRange(ctx, m, start, end)
	if err != nil {
		s.log.Warn().Err(err).Str("metric", string(m)).Msg("refresh read failed")
		return s.failedRefresh(m, "sync failed; showing last known data"), nil
	}

	if agg := DailyAggregate(m, readings, today); agg.Average > 0 {
		snap := domain.LocalDailySnapshot{DayKey: today, MetricType: m, LatestValue: agg.Average}
		if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
			return RefreshResult{}, fmt.Errorf("save snapshot: %w", err)
		}
	}
	return RefreshResult{Week: s.weekLocked(ctx, m)}, nil
}

func (s *SyncSession) failedRefresh(m domain.MetricType, notice string) RefreshResult {
	s.mu.Lock()
	week := s.lastWeek[m]
	s.mu.Unlock()
	return RefreshResult{Week: week, SyncFailed: true, Notice: notice}
}

// UndoLast removes the most recently synced entry, last-in-first-out. The
// pop is optimistic: if the platform delete then fails, the id is not
// re-pushed and the local snapshot still steps down by the metric's fixed
// per-entry amount.
func (s *SyncSession) UndoLast(ctx context.Context, m domain.MetricType) (UndoResult, error) {
	if !m.Valid() {
		return UndoResult{}, fmt.Errorf("unknown metric type %q", m)
	}
	lk := s.metricLock(m)
	lk.Lock()
	defer lk.Unlock()

	id, ok, err := s.ledger.PopRecordID(ctx, m)
	if err != nil {
		return UndoResult{}, fmt.Errorf("ledger pop: %w", err)
	}
	if !ok {
		return UndoResult{}, nil
	}

	res := UndoResult{Undone: true, ExternalID: id}
	if err := s.adapter.Delete(ctx, m, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Err(err).Str("metric", string(m)).Str("externalId", id).Msg("platform delete failed after ledger pop")
		res.Notice = "entry removed locally; the platform copy could not be deleted"
	}

	today := domain.DayKey(s.now())
	snap, serr := s.snapshots.Snapshot(ctx, m, today)
	if serr == nil && snap != nil {
		if step := domain.UndoDecrement(m); step > 0 {
			v := snap.LatestValue - step
			if v < 0 {
				v = 0
			}
			snap.LatestValue = v
			if err := s.snapshots.SaveSnapshot(ctx, *snap); err != nil {
				s.log.Warn().Err(err).Str("metric", string(m)).Msg("snapshot decrement failed")
			}
		}
		res.NewValue = snap.LatestValue
	}
	return res, nil
}

// WeeklySeries returns the rolling seven-day view, oldest first, today
// last. Days the platform cannot answer for come back as zero placeholders;
// today falls back to the local snapshot when read access is absent.
func (s *SyncSession) WeeklySeries(ctx context.Context, m domain.MetricType) ([]domain.DayAggregate, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown metric type %q", m)
	}
	lk := s.metricLock(m)
	lk.Lock()
	defer lk.Unlock()
	return s.weekLocked(ctx, m), nil
}

// weekLocked rebuilds and caches the weekly series. Callers hold the metric
// lock.
func (s *SyncSession) weekLocked(ctx context.Context, m domain.MetricType) []domain.DayAggregate {
	today := s.now()
	todayKey := domain.DayKey(today)

	var readings []domain.Reading
	haveExternal := false
	if s.gate.CanRead(m) {
		start, _, _ := domain.DayBounds(domain.DayKey(today.AddDate(0, 0, -6)))
		_, end, _ := domain.DayBounds(todayKey)
		if rs, err := s.adapter.ReadRange(ctx, m, start, end); err == nil {
			readings = rs
			haveExternal = true
		} else {
			s.log.Debug().Err(err).Str("metric", string(m)).Msg("weekly read failed, deriving from local state")
		}
	}

	week := WeeklySeries(today, func(day string) domain.DayAggregate {
		if haveExternal {
			return DailyAggregate(m, readings, day)
		}
		if day == todayKey {
			if snap, err := s.snapshots.Snapshot(ctx, m, day); err == nil && snap != nil {
				v := snap.LatestValue
				return domain.DayAggregate{Average: v, Max: v, Min: v}
			}
		}
		return domain.DayAggregate{}
	})

	s.mu.Lock()
	s.lastWeek[m] = week
	s.mu.Unlock()
	return week
}

// DayDetail builds the hour-by-hour view of one day. It requires read
// access; without it the detail is withheld rather than fabricated, and the
// returned notice says why.
func (s *SyncSession) DayDetail(ctx context.Context, m domain.MetricType, dayKey string) (*domain.DayDetail, string, error) {
	if !m.Valid() {
		return nil, "", fmt.Errorf("unknown metric type %q", m)
	}
	start, end, err := domain.DayBounds(dayKey)
	if err != nil {
		return nil, "", err
	}
	lk := s.metricLock(m)
	lk.Lock()
	defer lk.Unlock()

	if !s.gate.CanRead(m) {
		return nil, "health platform permissions required", nil
	}
	readings, err := s.adapter.ReadRange(ctx, m, start, end)
	if err != nil {
		s.log.Warn().Err(err).Str("metric", string(m)).Str("day", dayKey).Msg("day detail read failed")
		return nil, "sync failed; day detail unavailable", nil
	}

	agg := DailyAggregate(m, readings, dayKey)
	detail := &domain.DayDetail{
		DayKey:   dayKey,
		Average:  agg.Average,
		Max:      agg.Max,
		Min:      agg.Min,
		Category: domain.Categorize(m, agg.Average),
		Hours:    HourlyBreakdown(m, readings, dayKey),
	}
	return detail, "", nil
}
