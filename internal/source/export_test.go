package source

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteJSONL_ReadsBackUnchanged(t *testing.T) {
	in := writeExport(t, "in.jsonl",
		`{"call_id":"c1","from_number":"5551234567","direction":"inbound","start_timestamp":"2025-06-04T10:15:00Z","end_timestamp":"2025-06-04T10:16:05Z","duration_ms":65000,"call_summary":"Booked a cleaning","user_sentiment":"Positive","linked_appointment":"appt-9"}`,
		`{"callId":"c2","startTimestamp":"not a time","durationMs":"0","transcript_with_tool_calls":[{"role":"agent","name":"book"}]}`,
		`{"from":"555"}`,
	)
	first := ParseFile(in)
	if first.Err != nil || first.ParseErrors != 0 {
		t.Fatalf("parse: err=%v parseErrors=%d", first.Err, first.ParseErrors)
	}

	out := filepath.Join(t.TempDir(), "nested", "out.jsonl")
	if err := WriteJSONL(out, first.Records); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}

	second := ParseFile(DiscoveredFile{Path: out, Format: FormatJSONL})
	if second.Err != nil || second.ParseErrors != 0 {
		t.Fatalf("reparse: err=%v parseErrors=%d", second.Err, second.ParseErrors)
	}
	if len(second.Records) != len(first.Records) {
		t.Fatalf("got %d records, want %d", len(second.Records), len(first.Records))
	}
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		a.SourceFile, b.SourceFile = "", ""
		if !reflect.DeepEqual(a, b) {
			t.Errorf("record %d changed:\n got  %+v\n want %+v", i, b, a)
		}
	}
}
