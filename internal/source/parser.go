// Package source discovers call-log exports on disk and normalises the
// provider payloads they contain.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/theirongolddev/callboard/internal/model"
)

// ParseResult holds the output of parsing a single export file.
type ParseResult struct {
	Records     []model.CallRecord
	ParseErrors int
	Err         error
}

// ParseFile reads an export and normalises every payload in it. Malformed
// payloads are counted in ParseErrors and skipped; only I/O failures and an
// unreadable top-level JSON document set Err.
func ParseFile(df DiscoveredFile) ParseResult {
	var res ParseResult
	if df.Format == FormatJSON {
		res = parseJSON(df.Path)
	} else {
		res = parseJSONL(df.Path)
	}
	for i := range res.Records {
		res.Records[i].SourceFile = df.Path
	}
	return res
}

func parseJSONL(path string) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	var res ParseResult

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 4*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			if len(line) > 0 {
				res.ParseErrors++
			}
			continue
		}
		rec, err := Normalize(line)
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}
	return res
}

func parseJSON(path string) ParseResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParseResult{Err: err}
	}
	items, err := SplitPayloads(data)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("%s: %w", path, err)}
	}

	var res ParseResult
	for _, raw := range items {
		rec, err := Normalize(raw)
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// SplitPayloads breaks a JSON document into individual call payloads. It
// accepts an array, a {"calls": [...]} or {"data": [...]} envelope, or a
// single call object.
func SplitPayloads(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decoding call array: %w", err)
		}
		return items, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decoding call envelope: %w", err)
		}
		if items := env.items(); items != nil {
			return items, nil
		}
		return []json.RawMessage{data}, nil
	default:
		return nil, ErrNotObject
	}
}
