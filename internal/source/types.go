package source

import "encoding/json"

// Format is the on-disk layout of a call-log export.
type Format int

// Supported export layouts.
const (
	FormatJSONL Format = iota // one payload per line
	FormatJSON                // array of payloads or {"calls": [...]} envelope
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "jsonl"
}

// DiscoveredFile represents an export file found during directory scanning.
type DiscoveredFile struct {
	Path    string
	Account string // first directory under the data dir, "" for top-level files
	Format  Format
}

// payload is a single call as received from a provider. Providers disagree on
// key spelling, so values stay raw until Normalize picks the first key present.
type payload map[string]json.RawMessage

// envelope is the paginated wrapper some exports and the API use.
type envelope struct {
	Calls []json.RawMessage `json:"calls"`
	Data  []json.RawMessage `json:"data"`
	Total *int              `json:"total,omitempty"`
}

func (e envelope) items() []json.RawMessage {
	if e.Calls != nil {
		return e.Calls
	}
	return e.Data
}

// wireTurn is a transcript entry; the tool name appears under two spellings.
type wireTurn struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	ToolName string `json:"tool_name"`
	Name     string `json:"name"`
}
