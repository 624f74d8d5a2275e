// Package model defines domain types for call records and derived call metrics.
package model

import (
	"fmt"
	"time"
)

// Direction is the call direction as reported by the telephony provider.
type Direction string

// Known call directions.
const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Timestamp is an instant as received from a call-log payload.
// A nil *Timestamp means the field was absent. Raw keeps the original text so
// an unparsable value still counts as "present"; Time is zero in that case.
type Timestamp struct {
	Raw  string
	Time time.Time
}

// Valid reports whether the timestamp is present and parsed.
func (t *Timestamp) Valid() bool {
	return t != nil && !t.Time.IsZero()
}

// TranscriptTurn is one entry of a transcript with tool calls.
type TranscriptTurn struct {
	Role     string `json:"role"`
	Content  string `json:"content,omitempty"`
	ToolName string `json:"tool_name,omitempty"`
}

// CallRecord is one logged phone interaction, normalized at the system boundary.
// Records are treated as read-only once constructed.
type CallRecord struct {
	CallID     string
	FromNumber string
	ToNumber   string
	Direction  Direction

	StartTimestamp *Timestamp
	EndTimestamp   *Timestamp
	DurationMs     *int64

	CallSummary       string
	Sentiment         string
	LinkedAppointment bool

	Transcript              string
	TranscriptWithToolCalls []TranscriptTurn
	RecordingURL            string

	// SourceFile is the export the record was read from; empty for API records.
	SourceFile string
}

// StartTime returns the parsed start instant, or the zero time.
func (c *CallRecord) StartTime() time.Time {
	if c.StartTimestamp.Valid() {
		return c.StartTimestamp.Time
	}
	return time.Time{}
}

// Fields exposes the record as a flat key/value view for search and filters.
func (c CallRecord) Fields() map[string]any {
	f := map[string]any{
		"call_id":            c.CallID,
		"from_number":        c.FromNumber,
		"to_number":          c.ToNumber,
		"direction":          string(c.Direction),
		"call_summary":       c.CallSummary,
		"sentiment":          c.Sentiment,
		"linked_appointment": c.LinkedAppointment,
		"transcript":         c.Transcript,
	}
	if c.StartTimestamp != nil {
		f["start_timestamp"] = c.StartTimestamp.Raw
	}
	if c.EndTimestamp != nil {
		f["end_timestamp"] = c.EndTimestamp.Raw
	}
	if c.DurationMs != nil {
		f["duration_ms"] = *c.DurationMs
	}
	return f
}

// CallStatus is the derived outcome of a call. It is never stored.
type CallStatus int

// Call statuses. Unknown is the zero value and only applies to a nil record.
const (
	StatusUnknown CallStatus = iota
	StatusCompleted
	StatusMissed
	StatusInProgress
)

// AllStatuses lists statuses in display order.
var AllStatuses = []CallStatus{StatusCompleted, StatusMissed, StatusInProgress, StatusUnknown}

func (s CallStatus) String() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusMissed:
		return "Missed"
	case StatusInProgress:
		return "In Progress"
	default:
		return "Unknown"
	}
}

// MarshalText renders the status label, so JSON payloads carry "Missed" rather than 2.
func (s CallStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status label produced by MarshalText.
func (s *CallStatus) UnmarshalText(text []byte) error {
	for _, st := range AllStatuses {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown call status %q", text)
}
