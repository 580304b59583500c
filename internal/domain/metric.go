// Package domain contains the core entities, ports and pure functions of the
// metric sync engine.
package domain

import (
	"fmt"
	"time"
)

// MetricType identifies one of the tracked health metrics.
type MetricType string

const (
	HeartRate       MetricType = "heart_rate"
	BodyTemperature MetricType = "body_temperature"
	Hydration       MetricType = "hydration"
)

// Metrics lists every supported metric type.
func Metrics() []MetricType {
	return []MetricType{HeartRate, BodyTemperature, Hydration}
}

// Valid reports whether m is a known metric type.
func (m MetricType) Valid() bool {
	switch m {
	case HeartRate, BodyTemperature, Hydration:
		return true
	}
	return false
}

// Unit returns the canonical unit for the metric.
func (m MetricType) Unit() string {
	switch m {
	case HeartRate:
		return "bpm"
	case BodyTemperature:
		return "°C"
	case Hydration:
		return "mL"
	}
	return ""
}

// ParseMetric converts a user-supplied name into a MetricType.
func ParseMetric(s string) (MetricType, error) {
	m := MetricType(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown metric type %q", s)
	}
	return m, nil
}

// UndoDecrement returns the fixed amount subtracted from today's snapshot
// when an entry is undone. Only hydration accumulates, so only hydration has
// a non-zero step (one glass).
func UndoDecrement(m MetricType) float64 {
	if m == Hydration {
		return 250
	}
	return 0
}

// DeviceInfo identifies the device that produced a reading.
type DeviceInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// Reading is a single externally persisted record. Readings are immutable
// once written and are removed only by external id.
type Reading struct {
	ExternalID string     `json:"externalId"`
	MetricType MetricType `json:"metricType"`
	Value      float64    `json:"value"`
	Timestamp  time.Time  `json:"timestamp"`
	Device     DeviceInfo `json:"sourceDevice"`
}

// LocalDailySnapshot is the latest locally-known value for one metric on one
// local calendar day. It is overwritten on every successful add.
type LocalDailySnapshot struct {
	DayKey      string     `json:"day"`
	MetricType  MetricType `json:"metricType"`
	LatestValue float64    `json:"latestValue"`
}

// PermissionState is the last-checked read/write grant for one metric.
// It is recomputed on every explicit check, never patched incrementally.
type PermissionState struct {
	MetricType MetricType `json:"metricType"`
	CanRead    bool       `json:"canRead"`
	CanWrite   bool       `json:"canWrite"`
}

// DayAggregate is the derived rollup for one local calendar day.
type DayAggregate struct {
	DayKey  string  `json:"day"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	IsToday bool    `json:"isToday"`
}

// HourBucket is one local-hour slot of a day detail. HasData distinguishes
// an hour with no readings from a true zero value.
type HourBucket struct {
	Hour    int     `json:"hour"`
	Value   float64 `json:"value"`
	HasData bool    `json:"hasData"`
}

// DayDetail is the hour-by-hour view of one day. Hours always holds exactly
// 24 entries, hour 0 through 23.
type DayDetail struct {
	DayKey   string         `json:"day"`
	Average  float64        `json:"average"`
	Max      float64        `json:"max"`
	Min      float64        `json:"min"`
	Category Category       `json:"category"`
	Hours    [24]HourBucket `json:"hourlyBuckets"`
}
