package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/callboard/internal/model"
)

// ErrNotObject is returned when a payload is valid JSON but not an object.
var ErrNotObject = errors.New("source: payload is not a JSON object")

// recordNamespace seeds name-based ids for payloads that carry none, so the
// same payload always maps to the same id across reloads.
var recordNamespace = uuid.MustParse("6f1c2b8e-3f0a-4d5e-9a77-0c2e5b1d4a90")

var (
	keysID         = []string{"call_id", "callId", "id"}
	keysFrom       = []string{"from_number", "fromNumber", "from"}
	keysTo         = []string{"to_number", "toNumber", "to"}
	keysDirection  = []string{"direction", "call_direction"}
	keysStart      = []string{"start_timestamp", "startTimestamp", "started_at"}
	keysEnd        = []string{"end_timestamp", "endTimestamp", "ended_at"}
	keysDuration   = []string{"duration_ms", "durationMs", "call_duration_ms"}
	keysSummary    = []string{"call_summary", "callSummary", "summary"}
	keysSentiment  = []string{"user_sentiment", "sentiment", "userSentiment"}
	keysLinked     = []string{"linked_appointment", "linkedAppointment", "appointment_id"}
	keysTranscript = []string{"transcript"}
	keysTurns      = []string{"transcript_with_tool_calls", "transcriptWithToolCalls"}
	keysRecording  = []string{"recording_url", "recordingUrl"}
)

// timestampLayouts are tried in order for string timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalize converts one wire payload into a CallRecord. Only structurally
// invalid input is an error; odd field values degrade to "absent" instead.
func Normalize(raw []byte) (model.CallRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] != '{' && json.Valid(trimmed) {
		return model.CallRecord{}, ErrNotObject
	}

	var p payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return model.CallRecord{}, fmt.Errorf("decoding call payload: %w", err)
	}
	if p == nil {
		return model.CallRecord{}, ErrNotObject
	}

	var nested payload
	if v, ok := p["raw_call"]; ok {
		_ = json.Unmarshal(v, &nested)
	}

	rec := model.CallRecord{
		CallID:            p.str(keysID...),
		FromNumber:        p.str(keysFrom...),
		ToNumber:          p.str(keysTo...),
		Direction:         model.Direction(strings.ToLower(p.str(keysDirection...))),
		StartTimestamp:    parseTimestamp(p.pick(keysStart...)),
		EndTimestamp:      parseTimestamp(p.pick(keysEnd...)),
		DurationMs:        parseDuration(p.pick(keysDuration...)),
		CallSummary:       p.str(keysSummary...),
		Sentiment:         p.str(keysSentiment...),
		LinkedAppointment: parseLinked(p.pick(keysLinked...)),
		Transcript:        p.str(keysTranscript...),
		RecordingURL:      p.str(keysRecording...),
	}
	rec.TranscriptWithToolCalls = parseTurns(p.pick(keysTurns...))

	if nested != nil {
		fillFrom(&rec, nested)
	}

	if rec.CallID == "" {
		rec.CallID = uuid.NewSHA1(recordNamespace, trimmed).String()
	}
	return rec, nil
}

// fillFrom copies fields the top level left empty from the provider's
// original call object.
func fillFrom(rec *model.CallRecord, n payload) {
	if rec.CallID == "" {
		rec.CallID = n.str(keysID...)
	}
	if rec.FromNumber == "" {
		rec.FromNumber = n.str(keysFrom...)
	}
	if rec.ToNumber == "" {
		rec.ToNumber = n.str(keysTo...)
	}
	if rec.Direction == "" {
		rec.Direction = model.Direction(strings.ToLower(n.str(keysDirection...)))
	}
	if rec.Transcript == "" {
		rec.Transcript = n.str(keysTranscript...)
	}
	if len(rec.TranscriptWithToolCalls) == 0 {
		rec.TranscriptWithToolCalls = parseTurns(n.pick(keysTurns...))
	}
	if rec.RecordingURL == "" {
		rec.RecordingURL = n.str(keysRecording...)
	}
	if rec.CallSummary == "" {
		if analysis := n.object("call_analysis"); analysis != nil {
			rec.CallSummary = analysis.str("call_summary")
			if rec.Sentiment == "" {
				rec.Sentiment = analysis.str(keysSentiment...)
			}
		}
	}
}

// pick returns the first present, non-null value among keys.
func (p payload) pick(keys ...string) json.RawMessage {
	for _, k := range keys {
		v, ok := p[k]
		if !ok || isNull(v) {
			continue
		}
		return v
	}
	return nil
}

// str returns the first key holding a string or number, as text.
func (p payload) str(keys ...string) string {
	for _, k := range keys {
		v, ok := p[k]
		if !ok || isNull(v) {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

func (p payload) object(key string) payload {
	v, ok := p[key]
	if !ok {
		return nil
	}
	var out payload
	if err := json.Unmarshal(v, &out); err != nil {
		return nil
	}
	return out
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// parseTimestamp accepts an RFC 3339 string or epoch milliseconds. A present
// but unparsable value keeps its raw text with a zero Time.
func parseTimestamp(v json.RawMessage) *model.Timestamp {
	if v == nil {
		return nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if s == "" {
			return nil
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &model.Timestamp{Raw: s, Time: t}
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &model.Timestamp{Raw: s, Time: time.UnixMilli(ms).UTC()}
		}
		return &model.Timestamp{Raw: s}
	}

	var f float64
	if err := json.Unmarshal(v, &f); err == nil && !math.IsNaN(f) {
		return &model.Timestamp{Raw: string(v), Time: time.UnixMilli(int64(f)).UTC()}
	}
	return &model.Timestamp{Raw: string(v)}
}

// parseDuration accepts a number or a numeric string. Anything else is absent.
func parseDuration(v json.RawMessage) *int64 {
	if v == nil {
		return nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	ms := int64(math.Round(f))
	return &ms
}

// parseLinked reports whether an appointment is attached. Providers send a
// bool, an appointment id, or the appointment object itself.
func parseLinked(v json.RawMessage) bool {
	if v == nil {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s != ""
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f != 0
	}
	trimmed := bytes.TrimSpace(v)
	return len(trimmed) > 0 && (trimmed[0] == '{' || (trimmed[0] == '[' && !bytes.Equal(trimmed, []byte("[]"))))
}

func parseTurns(v json.RawMessage) []model.TranscriptTurn {
	if v == nil {
		return nil
	}
	var wire []wireTurn
	if err := json.Unmarshal(v, &wire); err != nil {
		return nil
	}
	turns := make([]model.TranscriptTurn, 0, len(wire))
	for _, w := range wire {
		t := model.TranscriptTurn{Role: w.Role, Content: w.Content, ToolName: w.ToolName}
		if t.ToolName == "" {
			t.ToolName = w.Name
		}
		turns = append(turns, t)
	}
	return turns
}
