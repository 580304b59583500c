package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"healthsync/internal/app"
	"healthsync/internal/domain"
)

func newAdapter(t *testing.T, platform *fakePlatform, read, write bool) *app.SyncAdapter {
	t.Helper()
	if platform.grantsFn == nil {
		platform.grantsFn = grantAll(read, write)
	}
	gate := app.NewPermissionGate(platform)
	gate.CheckStatus(context.Background())
	return app.NewSyncAdapter(gate, platform, domain.DeviceInfo{Name: "test", Model: "go-test"})
}

func TestWrite_NoPermission(t *testing.T) {
	a := newAdapter(t, &fakePlatform{}, true, false)
	_, err := a.Write(context.Background(), domain.HeartRate, 72, time.Now())
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestWrite_PlatformFault(t *testing.T) {
	a := newAdapter(t, &fakePlatform{
		writeFn: func(context.Context, domain.MetricType, float64, time.Time, domain.DeviceInfo) (string, error) {
			return "", errors.New("driver fault")
		},
	}, true, true)
	_, err := a.Write(context.Background(), domain.HeartRate, 72, time.Now())
	if !errors.Is(err, domain.ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
}

func TestDelete_NotFoundPassthrough(t *testing.T) {
	a := newAdapter(t, &fakePlatform{
		deleteFn: func(context.Context, domain.MetricType, string) error {
			return domain.ErrNotFound
		},
	}, true, true)
	err := a.Delete(context.Background(), domain.Hydration, "gone")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadRange_NoPermission(t *testing.T) {
	a := newAdapter(t, &fakePlatform{}, false, true)
	_, err := a.ReadRange(context.Background(), domain.HeartRate, time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestReadRange_NormalizesBothShapes(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	a := newAdapter(t, &fakePlatform{
		readFn: func(context.Context, domain.MetricType, time.Time, time.Time) ([]domain.RawExternalRecord, error) {
			return []domain.RawExternalRecord{
				{Kind: domain.RawSingleValue, ID: "s1", Value: 72, Timestamp: base},
				{Kind: domain.RawSingleValue, ID: "s2", Value: 0, Timestamp: base}, // no reading, dropped
				{Kind: domain.RawSampleList, ID: "l1", Samples: []domain.RawSample{
					{Timestamp: base.Add(time.Minute), Value: 80},
					{Timestamp: base.Add(2 * time.Minute), Value: -1}, // dropped
					{Timestamp: base.Add(3 * time.Minute), Value: 90},
				}},
			}, nil
		},
	}, true, false)

	readings, err := a.ReadRange(context.Background(), domain.HeartRate, base.Add(-time.Hour), base.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("expected 3 readings after normalization, got %d", len(readings))
	}
	values := map[float64]bool{}
	for _, r := range readings {
		if r.MetricType != domain.HeartRate {
			t.Errorf("expected metric type heart_rate, got %s", r.MetricType)
		}
		values[r.Value] = true
	}
	for _, want := range []float64{72, 80, 90} {
		if !values[want] {
			t.Errorf("expected value %v in normalized readings", want)
		}
	}
}

func TestReadRange_PlatformFault(t *testing.T) {
	a := newAdapter(t, &fakePlatform{
		readFn: func(context.Context, domain.MetricType, time.Time, time.Time) ([]domain.RawExternalRecord, error) {
			return nil, errors.New("timeout")
		},
	}, true, false)
	_, err := a.ReadRange(context.Background(), domain.HeartRate, time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, domain.ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}
}
