package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthsync/internal/domain"
)

// SyncAdapter performs permissioned reads and writes against the external
// health platform and normalizes its heterogeneous record shapes.
type SyncAdapter struct {
	gate     *PermissionGate
	platform domain.HealthPlatform
	device   domain.DeviceInfo
}

// NewSyncAdapter creates an adapter writing records attributed to device.
func NewSyncAdapter(gate *PermissionGate, platform domain.HealthPlatform, device domain.DeviceInfo) *SyncAdapter {
	return &SyncAdapter{gate: gate, platform: platform, device: device}
}

// Write persists one value to the platform and returns its external id.
// The caller must append the id to the record ledger before performing any
// other ledger operation.
func (a *SyncAdapter) Write(ctx context.Context, m domain.MetricType, value float64, ts time.Time) (string, error) {
	if !a.gate.CanWrite(m) {
		return "", domain.ErrPermissionDenied
	}
	id, err := a.platform.WriteRecord(ctx, m, value, ts, a.device)
	if err != nil {
		if errors.Is(err, domain.ErrPlatformUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	return id, nil
}

// Delete removes a previously written record. A record the platform no
// longer has reports domain.ErrNotFound, which callers treat as already
// deleted.
func (a *SyncAdapter) Delete(ctx context.Context, m domain.MetricType, externalID string) error {
	if !a.gate.CanWrite(m) {
		return domain.ErrPermissionDenied
	}
	err := a.platform.DeleteRecord(ctx, m, externalID)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if errors.Is(err, domain.ErrPlatformUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
}

// ReadRange returns a flat, unordered list of readings in [start, end).
// Both record shapes flatten through one exhaustive switch. Records or
// samples with a non-positive value are dropped: the instrument produced no
// reading, which is not the same as zero.
func (a *SyncAdapter) ReadRange(ctx context.Context, m domain.MetricType, start, end time.Time) ([]domain.Reading, error) {
	if !a.gate.CanRead(m) {
		return nil, domain.ErrPermissionDenied
	}
	raws, err := a.platform.ReadRecords(ctx, m, start, end)
	if err != nil {
		if errors.Is(err, domain.ErrPlatformUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrReadFailed, err)
	}

	readings := make([]domain.Reading, 0, len(raws))
	for _, r := range raws {
		switch r.Kind {
		case domain.RawSingleValue:
			if r.Value <= 0 {
				continue
			}
			readings = append(readings, domain.Reading{
				ExternalID: r.ID,
				MetricType: m,
				Value:      r.Value,
				Timestamp:  r.Timestamp,
				Device:     r.Device,
			})
		case domain.RawSampleList:
			for _, s := range r.Samples {
				if s.Value <= 0 {
					continue
				}
				readings = append(readings, domain.Reading{
					ExternalID: r.ID,
					MetricType: m,
					Value:      s.Value,
					Timestamp:  s.Timestamp,
					Device:     r.Device,
				})
			}
		}
	}
	return readings, nil
}
