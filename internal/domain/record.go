package domain

import "time"

// RawRecordKind tags the two shapes the external platform stores a record
// in: a single timestamped value, or one record carrying a list of samples.
type RawRecordKind int

const (
	RawSingleValue RawRecordKind = iota
	RawSampleList
)

// RawSample is one timestamped value inside a sample-list record.
type RawSample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// RawExternalRecord is the tagged union of both external record shapes.
// Kind selects which fields are meaningful: Value/Timestamp for
// RawSingleValue, Samples for RawSampleList. ID and Device apply to both.
type RawExternalRecord struct {
	Kind      RawRecordKind `json:"kind"`
	ID        string        `json:"id"`
	Value     float64       `json:"value,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Samples   []RawSample   `json:"samples,omitempty"`
	Device    DeviceInfo    `json:"device"`
}
