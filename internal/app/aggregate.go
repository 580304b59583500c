package app

import (
	"time"

	"healthsync/internal/domain"
)

// DailyAggregate computes average, max and min over the readings that fall
// on dayKey (local midnight to the next local midnight). An empty day
// yields the zero aggregate, which is a valid empty state, not an error.
// All three values are rounded to the metric's precision so that
// min <= average <= max holds after rounding.
func DailyAggregate(m domain.MetricType, readings []domain.Reading, dayKey string) domain.DayAggregate {
	agg := domain.DayAggregate{DayKey: dayKey}
	start, end, err := domain.DayBounds(dayKey)
	if err != nil {
		return agg
	}

	var sum float64
	var n int
	for _, r := range readings {
		if r.Timestamp.Before(start) || !r.Timestamp.Before(end) {
			continue
		}
		if n == 0 || r.Value > agg.Max {
			agg.Max = r.Value
		}
		if n == 0 || r.Value < agg.Min {
			agg.Min = r.Value
		}
		sum += r.Value
		n++
	}
	if n > 0 {
		agg.Average = domain.Round(m, sum/float64(n))
		agg.Max = domain.Round(m, agg.Max)
		agg.Min = domain.Round(m, agg.Min)
	}
	return agg
}

// HourlyBreakdown buckets dayKey's readings into its 24 local hours in a
// single pass. Hours with no readings keep HasData false and value zero.
func HourlyBreakdown(m domain.MetricType, readings []domain.Reading, dayKey string) [24]domain.HourBucket {
	var buckets [24]domain.HourBucket
	for h := range buckets {
		buckets[h].Hour = h
	}

	var sums [24]float64
	var counts [24]int
	for _, r := range readings {
		ts := r.Timestamp.In(time.Local)
		if domain.DayKey(ts) != dayKey {
			continue
		}
		h := ts.Hour()
		sums[h] += r.Value
		counts[h]++
	}
	for h := range buckets {
		if counts[h] > 0 {
			buckets[h].Value = domain.Round(m, sums[h]/float64(counts[h]))
			buckets[h].HasData = true
		}
	}
	return buckets
}

// WeeklySeries returns the last seven days oldest to newest, today last.
// The shape is fixed: always seven entries, with IsToday set only on the
// final one, regardless of how much data lookup finds.
func WeeklySeries(today time.Time, lookup func(dayKey string) domain.DayAggregate) []domain.DayAggregate {
	days := domain.PreviousDays(today, 7)
	series := make([]domain.DayAggregate, 0, len(days))
	for i, day := range days {
		agg := lookup(day)
		agg.DayKey = day
		agg.IsToday = i == len(days)-1
		series = append(series, agg)
	}
	return series
}
