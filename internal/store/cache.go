// Package store provides a SQLite-backed cache of normalised call records,
// keyed by the export file they came from.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/callboard/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed call record caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFile replaces every cached record of an export file and updates its
// tracking info in a single transaction.
func (c *Cache) SaveFile(path string, records []model.CallRecord, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT INTO file_tracker (file_path, mtime_ns, size_bytes, parsed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			mtime_ns = excluded.mtime_ns,
			size_bytes = excluded.size_bytes,
			parsed_at = excluded.parsed_at`,
		path, mtimeNs, sizeBytes, now)
	if err != nil {
		return fmt.Errorf("tracking %s: %w", path, err)
	}

	if _, err := tx.Exec("DELETE FROM calls WHERE source_file = ?", path); err != nil {
		return err
	}

	callStmt, err := tx.Prepare(`INSERT INTO calls
		(source_file, seq, call_id, from_number, to_number, direction,
		 start_raw, start_unix_ns, end_raw, end_unix_ns, duration_ms,
		 call_summary, sentiment, linked_appointment, transcript, recording_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = callStmt.Close() }()

	turnStmt, err := tx.Prepare(`INSERT INTO call_turns (call_row, seq, role, content, tool_name)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = turnStmt.Close() }()

	for i := range records {
		r := &records[i]
		startRaw, startNs := tsColumns(r.StartTimestamp)
		endRaw, endNs := tsColumns(r.EndTimestamp)
		var duration sql.NullInt64
		if r.DurationMs != nil {
			duration = sql.NullInt64{Int64: *r.DurationMs, Valid: true}
		}

		res, err := callStmt.Exec(
			path, i, r.CallID, r.FromNumber, r.ToNumber, string(r.Direction),
			startRaw, startNs, endRaw, endNs, duration,
			r.CallSummary, r.Sentiment, boolInt(r.LinkedAppointment), r.Transcript, r.RecordingURL,
		)
		if err != nil {
			return fmt.Errorf("inserting call %s: %w", r.CallID, err)
		}
		if len(r.TranscriptWithToolCalls) == 0 {
			continue
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for j, t := range r.TranscriptWithToolCalls {
			if _, err := turnStmt.Exec(rowID, j, t.Role, t.Content, t.ToolName); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadAllCalls reads every cached record, grouped by file in original order.
func (c *Cache) LoadAllCalls() ([]model.CallRecord, error) {
	rows, err := c.db.Query(`SELECT
		id, source_file, call_id, from_number, to_number, direction,
		start_raw, start_unix_ns, end_raw, end_unix_ns, duration_ms,
		call_summary, sentiment, linked_appointment, transcript, recording_url
		FROM calls ORDER BY source_file, seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var (
		calls  []model.CallRecord
		rowIdx = make(map[int64]int)
	)
	for rows.Next() {
		var (
			r                              model.CallRecord
			id                             int64
			from, to, direction            sql.NullString
			startRaw, endRaw               sql.NullString
			startNs, endNs, duration       sql.NullInt64
			summary, sentiment, transcript sql.NullString
			recording                      sql.NullString
			linked                         int
		)
		err := rows.Scan(
			&id, &r.SourceFile, &r.CallID, &from, &to, &direction,
			&startRaw, &startNs, &endRaw, &endNs, &duration,
			&summary, &sentiment, &linked, &transcript, &recording,
		)
		if err != nil {
			return nil, err
		}

		r.FromNumber = from.String
		r.ToNumber = to.String
		r.Direction = model.Direction(direction.String)
		r.StartTimestamp = tsFromColumns(startRaw, startNs)
		r.EndTimestamp = tsFromColumns(endRaw, endNs)
		if duration.Valid {
			d := duration.Int64
			r.DurationMs = &d
		}
		r.CallSummary = summary.String
		r.Sentiment = sentiment.String
		r.LinkedAppointment = linked != 0
		r.Transcript = transcript.String
		r.RecordingURL = recording.String

		rowIdx[id] = len(calls)
		calls = append(calls, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Batch-load transcript turns
	turnRows, err := c.db.Query("SELECT call_row, role, content, tool_name FROM call_turns ORDER BY call_row, seq")
	if err != nil {
		return nil, err
	}
	defer func() { _ = turnRows.Close() }()

	for turnRows.Next() {
		var (
			callRow             int64
			role, content, tool sql.NullString
		)
		if err := turnRows.Scan(&callRow, &role, &content, &tool); err != nil {
			return nil, err
		}
		if idx, ok := rowIdx[callRow]; ok {
			calls[idx].TranscriptWithToolCalls = append(calls[idx].TranscriptWithToolCalls, model.TranscriptTurn{
				Role:     role.String,
				Content:  content.String,
				ToolName: tool.String,
			})
		}
	}

	return calls, turnRows.Err()
}

// DeleteFile removes a file's tracking entry and all records read from it.
func (c *Cache) DeleteFile(path string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM calls WHERE source_file = ?", path); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}

// CallCount returns the number of cached call records.
func (c *Cache) CallCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM calls").Scan(&count)
	return count, err
}

// tsColumns splits a timestamp into its raw text and parsed instant. A nil
// timestamp stores NULL for both; an unparsable one stores only the text.
func tsColumns(ts *model.Timestamp) (sql.NullString, sql.NullInt64) {
	if ts == nil {
		return sql.NullString{}, sql.NullInt64{}
	}
	raw := sql.NullString{String: ts.Raw, Valid: true}
	if ts.Time.IsZero() {
		return raw, sql.NullInt64{}
	}
	return raw, sql.NullInt64{Int64: ts.Time.UnixNano(), Valid: true}
}

func tsFromColumns(raw sql.NullString, ns sql.NullInt64) *model.Timestamp {
	if !raw.Valid {
		return nil
	}
	ts := &model.Timestamp{Raw: raw.String}
	if ns.Valid {
		ts.Time = time.Unix(0, ns.Int64).UTC()
	}
	return ts
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
