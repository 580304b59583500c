package domain

import (
	"context"
	"time"
)

// SnapshotRepository is the port for per-day local value persistence.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snap LocalDailySnapshot) error
	// Snapshot returns nil with no error when the day has no stored value.
	Snapshot(ctx context.Context, m MetricType, dayKey string) (*LocalDailySnapshot, error)
}

// LedgerRepository is the port for the ordered list of external record ids
// this device has written. Append-only except for pop-from-tail on undo.
type LedgerRepository interface {
	AppendRecordID(ctx context.Context, m MetricType, externalID string) error
	// PopRecordID removes and returns the most recently appended id.
	// ok is false when the ledger is empty.
	PopRecordID(ctx context.Context, m MetricType) (id string, ok bool, err error)
	RecordIDs(ctx context.Context, m MetricType) ([]string, error)
}

// HealthPlatform is the port to the external permissioned health store.
type HealthPlatform interface {
	Available(ctx context.Context) bool
	Grants(ctx context.Context) (map[MetricType]PermissionState, error)
	// RequestConsent runs the platform consent flow. Its return carries no
	// outcome information; callers must re-query Grants afterwards.
	RequestConsent(ctx context.Context, metrics []MetricType) error
	WriteRecord(ctx context.Context, m MetricType, value float64, ts time.Time, device DeviceInfo) (string, error)
	DeleteRecord(ctx context.Context, m MetricType, externalID string) error
	// ReadRecords returns raw records overlapping [start, end) in no
	// particular order.
	ReadRecords(ctx context.Context, m MetricType, start, end time.Time) ([]RawExternalRecord, error)
}
