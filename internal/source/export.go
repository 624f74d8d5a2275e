package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/callboard/internal/model"
)

// exportRecord is the canonical snake_case payload written by WriteJSONL.
// Normalize reads it back unchanged.
type exportRecord struct {
	CallID            string                 `json:"call_id"`
	FromNumber        string                 `json:"from_number,omitempty"`
	ToNumber          string                 `json:"to_number,omitempty"`
	Direction         string                 `json:"direction,omitempty"`
	StartTimestamp    *string                `json:"start_timestamp,omitempty"`
	EndTimestamp      *string                `json:"end_timestamp,omitempty"`
	DurationMs        *int64                 `json:"duration_ms,omitempty"`
	CallSummary       string                 `json:"call_summary,omitempty"`
	Sentiment         string                 `json:"user_sentiment,omitempty"`
	LinkedAppointment bool                   `json:"linked_appointment,omitempty"`
	Transcript        string                 `json:"transcript,omitempty"`
	Turns             []model.TranscriptTurn `json:"transcript_with_tool_calls,omitempty"`
	RecordingURL      string                 `json:"recording_url,omitempty"`
}

func toExport(r *model.CallRecord) exportRecord {
	return exportRecord{
		CallID:            r.CallID,
		FromNumber:        r.FromNumber,
		ToNumber:          r.ToNumber,
		Direction:         string(r.Direction),
		StartTimestamp:    rawTimestamp(r.StartTimestamp),
		EndTimestamp:      rawTimestamp(r.EndTimestamp),
		DurationMs:        r.DurationMs,
		CallSummary:       r.CallSummary,
		Sentiment:         r.Sentiment,
		LinkedAppointment: r.LinkedAppointment,
		Transcript:        r.Transcript,
		Turns:             r.TranscriptWithToolCalls,
		RecordingURL:      r.RecordingURL,
	}
}

func rawTimestamp(ts *model.Timestamp) *string {
	if ts == nil {
		return nil
	}
	s := ts.Raw
	if s == "" && !ts.Time.IsZero() {
		s = ts.Time.Format(time.RFC3339Nano)
	}
	return &s
}

// WriteJSONL writes records as a JSONL export at path, replacing any previous
// file atomically so a concurrent scan never sees a partial export.
func WriteJSONL(path string, records []model.CallRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(toExport(&records[i])); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("encoding call %s: %w", records[i].CallID, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing export: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
