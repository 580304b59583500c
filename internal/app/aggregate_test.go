package app_test

import (
	"testing"
	"time"

	"healthsync/internal/app"
	"healthsync/internal/domain"
)

func readingAt(t time.Time, value float64) domain.Reading {
	return domain.Reading{MetricType: domain.HeartRate, Value: value, Timestamp: t}
}

func TestDailyAggregate(t *testing.T) {
	day := "2026-03-14"
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local)
	readings := []domain.Reading{
		readingAt(base, 60),
		readingAt(base.Add(2*time.Hour), 90),
		readingAt(base.Add(4*time.Hour), 75),
		readingAt(base.AddDate(0, 0, -1), 200), // previous day, excluded
		readingAt(base.AddDate(0, 0, 1), 10),   // next day, excluded
	}

	agg := app.DailyAggregate(domain.HeartRate, readings, day)
	if agg.Min != 60 || agg.Max != 90 {
		t.Fatalf("expected min 60 max 90, got min %v max %v", agg.Min, agg.Max)
	}
	if agg.Average != 75 {
		t.Fatalf("expected average 75, got %v", agg.Average)
	}
	if agg.Average < agg.Min || agg.Average > agg.Max {
		t.Fatal("average must lie between min and max")
	}
}

func TestDailyAggregate_Empty(t *testing.T) {
	agg := app.DailyAggregate(domain.Hydration, nil, "2026-03-14")
	if agg.Average != 0 || agg.Min != 0 || agg.Max != 0 {
		t.Fatalf("expected zero aggregate for empty day, got %+v", agg)
	}
	if agg.DayKey != "2026-03-14" {
		t.Fatalf("expected day key preserved, got %q", agg.DayKey)
	}
}

func TestDailyAggregate_RoundingKeepsOrdering(t *testing.T) {
	day := "2026-03-14"
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local)
	readings := []domain.Reading{
		{MetricType: domain.BodyTemperature, Value: 36.64, Timestamp: base},
		{MetricType: domain.BodyTemperature, Value: 36.66, Timestamp: base.Add(time.Hour)},
	}
	agg := app.DailyAggregate(domain.BodyTemperature, readings, day)
	if agg.Min > agg.Average || agg.Average > agg.Max {
		t.Fatalf("rounding broke min <= average <= max: %+v", agg)
	}
}

func TestHourlyBreakdown_Shape(t *testing.T) {
	for _, readings := range [][]domain.Reading{nil, {
		readingAt(time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local), 70),
	}} {
		buckets := app.HourlyBreakdown(domain.HeartRate, readings, "2026-03-14")
		if len(buckets) != 24 {
			t.Fatalf("expected 24 buckets, got %d", len(buckets))
		}
		for h, b := range buckets {
			if b.Hour != h {
				t.Fatalf("expected bucket %d hour %d, got %d", h, h, b.Hour)
			}
		}
	}
}

func TestHourlyBreakdown_Averages(t *testing.T) {
	day := "2026-03-14"
	nine := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	readings := []domain.Reading{
		readingAt(nine.Add(5*time.Minute), 60),
		readingAt(nine.Add(40*time.Minute), 80),
		readingAt(nine.Add(3*time.Hour), 100),
	}

	buckets := app.HourlyBreakdown(domain.HeartRate, readings, day)
	if !buckets[9].HasData || buckets[9].Value != 70 {
		t.Errorf("expected hour 9 average 70, got %+v", buckets[9])
	}
	if !buckets[12].HasData || buckets[12].Value != 100 {
		t.Errorf("expected hour 12 value 100, got %+v", buckets[12])
	}
	if buckets[0].HasData || buckets[0].Value != 0 {
		t.Errorf("expected empty hour 0, got %+v", buckets[0])
	}
}

func TestWeeklySeries_Shape(t *testing.T) {
	today := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	var asked []string
	week := app.WeeklySeries(today, func(day string) domain.DayAggregate {
		asked = append(asked, day)
		return domain.DayAggregate{}
	})

	if len(week) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(week))
	}
	if len(asked) != 7 {
		t.Fatalf("expected 7 lookups, got %d", len(asked))
	}
	for i := 1; i < 7; i++ {
		if week[i].DayKey <= week[i-1].DayKey {
			t.Fatalf("series not oldest to newest at %d: %s <= %s", i, week[i].DayKey, week[i-1].DayKey)
		}
	}
	for i, d := range week {
		if d.IsToday != (i == 6) {
			t.Errorf("IsToday wrong at index %d: %v", i, d.IsToday)
		}
	}
	if week[6].DayKey != "2026-03-14" {
		t.Errorf("expected today last, got %s", week[6].DayKey)
	}
}
