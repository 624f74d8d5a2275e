package pipeline

import (
	"time"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/table"
)

// Filter names exposed by the call table.
const (
	FilterStatus    = "Status"
	FilterDirection = "Direction"
)

// CallFields is the search/filter view of a record: its raw fields plus the
// derived status label.
func CallFields(r model.CallRecord) map[string]any {
	f := r.Fields()
	f["status"] = ResolveStatus(&r).String()
	return f
}

// CallColumns are the display columns of the call table. Times render in loc.
func CallColumns(loc *time.Location) []table.Column[model.CallRecord] {
	return []table.Column[model.CallRecord]{
		{Key: "start_timestamp", Label: "Time", Render: func(_ any, r model.CallRecord) string {
			return cli.FormatTimestamp(r.StartTimestamp, loc)
		}},
		{Key: "from_number", Label: "Caller", Render: func(_ any, r model.CallRecord) string {
			return cli.FormatPhone(r.FromNumber)
		}},
		{Key: "status", Label: "Status"},
		{Key: "duration_ms", Label: "Duration", Render: func(_ any, r model.CallRecord) string {
			return cli.FormatDurationPtr(r.DurationMs)
		}},
		{Key: "direction", Label: "Dir"},
		{Key: "linked_appointment", Label: "Booked", Render: func(v any, _ model.CallRecord) string {
			if b, _ := v.(bool); b {
				return "yes"
			}
			return ""
		}},
		{Key: "call_summary", Label: "Summary", Render: func(v any, _ model.CallRecord) string {
			s, _ := v.(string)
			return truncate(s, 48)
		}},
	}
}

// NewCallTable builds a table engine over call records. Pass manual to let
// the caller own pagination (for server-paginated sources).
func NewCallTable(records []model.CallRecord, pageSize int, loc *time.Location, manual *table.Manual) (*table.Engine[model.CallRecord], error) {
	return table.New(records, table.Options[model.CallRecord]{
		Columns: CallColumns(loc),
		Fields:  CallFields,
		Filters: []table.Filter{
			{Name: FilterStatus, Key: "status"},
			{Name: FilterDirection, Key: "direction"},
		},
		PageSize: pageSize,
		Manual:   manual,
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
