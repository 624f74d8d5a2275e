package pipeline

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/store"
	"github.com/theirongolddev/callboard/internal/table"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jsonl"), `{"call_id":"1","duration_ms":1000}
{"call_id":"2","duration_ms":0}
oops
`)
	writeFile(t, filepath.Join(dir, "clinic", "b.json"), `{"calls":[{"call_id":"3"}]}`)
	writeFile(t, filepath.Join(dir, "clinic", "broken.json"), `[{"call_id":`)

	var last atomic.Int64
	res, err := Load(dir, func(current, total int) {
		assert.Equal(t, 3, total)
		last.Store(int64(current))
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalFiles)
	assert.Equal(t, 2, res.ParsedFiles)
	assert.Equal(t, 1, res.FileErrors)
	assert.Equal(t, 1, res.ParseErrors)
	assert.Equal(t, 2, res.AccountCount)
	assert.Len(t, res.Calls, 3)
	assert.Equal(t, int64(3), last.Load())
}

func TestLoad_MissingDir(t *testing.T) {
	res, err := Load(filepath.Join(t.TempDir(), "absent"), nil)
	require.NoError(t, err)
	assert.Zero(t, res.TotalFiles)
	assert.Empty(t, res.Calls)
}

func TestLoadWithCache(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jsonl")
	b := filepath.Join(dir, "b.jsonl")
	writeFile(t, a, `{"call_id":"1","duration_ms":1000}`+"\n")
	writeFile(t, b, `{"call_id":"2"}`+"\n")

	cache, err := store.Open(filepath.Join(t.TempDir(), "calls.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	first, err := LoadWithCache(dir, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Reparsed)
	assert.Zero(t, first.CacheHits)
	assert.Len(t, first.Calls, 2)

	second, err := LoadWithCache(dir, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)
	assert.Zero(t, second.Reparsed)
	assert.Len(t, second.Calls, 2)

	// grow one file, delete the other
	writeFile(t, a, `{"call_id":"1","duration_ms":1000}`+"\n"+`{"call_id":"4","duration_ms":0}`+"\n")
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(a, future, future))
	require.NoError(t, os.Remove(b))

	third, err := LoadWithCache(dir, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Reparsed)
	assert.Equal(t, 1, third.Pruned)
	assert.Len(t, third.Calls, 2)

	n, err := cache.CallCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCallTable(t *testing.T) {
	records := []model.CallRecord{
		{CallID: "1", FromNumber: "5551234567", Direction: model.DirectionInbound, DurationMs: ms(65_000), StartTimestamp: at(4, 9)},
		{CallID: "2", FromNumber: "5559876543", Direction: model.DirectionOutbound, DurationMs: ms(0)},
		{CallID: "3", Direction: model.DirectionInbound},
	}
	e, err := NewCallTable(records, 10, time.UTC, nil)
	require.NoError(t, err)

	e.SetFilter(FilterStatus, "Missed")
	v := e.View()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "2", v.Rows[0].CallID)

	e.SetFilter(FilterStatus, table.AllValues)
	e.SetFilter(FilterDirection, "inbound")
	assert.Equal(t, 2, e.View().Total)

	e.ClearFilters()
	e.SetSearch("in progress")
	v = e.View()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "3", v.Rows[0].CallID)

	cells := e.Cells(records[:1])
	assert.Equal(t, []string{"Jun 4, 9:15 AM", "(555) 123-4567", "Completed", "1m 05s", "inbound", "", ""}, cells[0])
}
