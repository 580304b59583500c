package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthsync/internal/domain"
)

// Platform simulates the external health platform: per-metric grants, an
// availability switch, and typed record storage. The simulated consent flow
// grants whatever is requested unless DenyConsent is set, mirroring a user
// who accepts every prompt.
type Platform struct {
	mu          sync.Mutex
	available   bool
	denyConsent bool
	grants      map[domain.MetricType]domain.PermissionState
	records     map[domain.MetricType][]domain.RawExternalRecord

	writeErr  error
	readErr   error
	deleteErr error
}

// NewPlatform creates an available platform with no grants.
func NewPlatform() *Platform {
	return &Platform{
		available: true,
		grants:    make(map[domain.MetricType]domain.PermissionState),
		records:   make(map[domain.MetricType][]domain.RawExternalRecord),
	}
}

var _ domain.HealthPlatform = (*Platform)(nil)

// SetAvailable toggles the availability switch.
func (p *Platform) SetAvailable(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.available = v
}

// DenyConsent makes subsequent consent requests change nothing.
func (p *Platform) DenyConsent(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.denyConsent = v
}

// Grant sets the read/write grant for one metric directly.
func (p *Platform) Grant(m domain.MetricType, read, write bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grants[m] = domain.PermissionState{MetricType: m, CanRead: read, CanWrite: write}
}

// SetWriteError makes writes fail with err until cleared.
func (p *Platform) SetWriteError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writeErr = err
}

// SetReadError makes range reads fail with err until cleared.
func (p *Platform) SetReadError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readErr = err
}

// SetDeleteError makes deletes fail with err until cleared.
func (p *Platform) SetDeleteError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleteErr = err
}

// AddRawRecord seeds a record directly, bypassing grants. Tests use it to
// inject sample-list shapes the write path never produces.
func (p *Platform) AddRawRecord(m domain.MetricType, rec domain.RawExternalRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	p.records[m] = append(p.records[m], rec)
}

// Available reports the availability switch.
func (p *Platform) Available(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

// Grants returns the current grant map.
func (p *Platform) Grants(ctx context.Context) (map[domain.MetricType]domain.PermissionState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.available {
		return nil, domain.ErrPlatformUnavailable
	}
	out := make(map[domain.MetricType]domain.PermissionState, len(p.grants))
	for m, st := range p.grants {
		out[m] = st
	}
	return out, nil
}

// RequestConsent grants read and write for the requested metrics, unless
// consent is being denied.
func (p *Platform) RequestConsent(ctx context.Context, metrics []domain.MetricType) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.available {
		return domain.ErrPlatformUnavailable
	}
	if p.denyConsent {
		return nil
	}
	for _, m := range metrics {
		p.grants[m] = domain.PermissionState{MetricType: m, CanRead: true, CanWrite: true}
	}
	return nil
}

// WriteRecord stores a single-value record and returns its new id.
func (p *Platform) WriteRecord(ctx context.Context, m domain.MetricType, value float64, ts time.Time, device domain.DeviceInfo) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.available {
		return "", domain.ErrPlatformUnavailable
	}
	if p.writeErr != nil {
		return "", p.writeErr
	}
	if !p.grants[m].CanWrite {
		return "", domain.ErrPermissionDenied
	}
	rec := domain.RawExternalRecord{
		Kind:      domain.RawSingleValue,
		ID:        uuid.NewString(),
		Value:     value,
		Timestamp: ts,
		Device:    device,
	}
	p.records[m] = append(p.records[m], rec)
	return rec.ID, nil
}

// DeleteRecord removes a record by id.
func (p *Platform) DeleteRecord(ctx context.Context, m domain.MetricType, externalID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.available {
		return domain.ErrPlatformUnavailable
	}
	if p.deleteErr != nil {
		return p.deleteErr
	}
	if !p.grants[m].CanWrite {
		return domain.ErrPermissionDenied
	}
	for i, rec := range p.records[m] {
		if rec.ID == externalID {
			p.records[m] = append(p.records[m][:i], p.records[m][i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ReadRecords returns records overlapping [start, end). Sample-list records
// come back with only their in-range samples.
func (p *Platform) ReadRecords(ctx context.Context, m domain.MetricType, start, end time.Time) ([]domain.RawExternalRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.available {
		return nil, domain.ErrPlatformUnavailable
	}
	if p.readErr != nil {
		return nil, p.readErr
	}
	if !p.grants[m].CanRead {
		return nil, domain.ErrPermissionDenied
	}

	var out []domain.RawExternalRecord
	for _, rec := range p.records[m] {
		switch rec.Kind {
		case domain.RawSingleValue:
			if inRange(rec.Timestamp, start, end) {
				out = append(out, rec)
			}
		case domain.RawSampleList:
			var samples []domain.RawSample
			for _, s := range rec.Samples {
				if inRange(s.Timestamp, start, end) {
					samples = append(samples, s)
				}
			}
			if len(samples) > 0 {
				clone := rec
				clone.Samples = samples
				out = append(out, clone)
			}
		}
	}
	return out, nil
}

func inRange(ts, start, end time.Time) bool {
	return !ts.Before(start) && ts.Before(end)
}
