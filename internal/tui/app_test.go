package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/callboard/internal/callapi"
	"github.com/theirongolddev/callboard/internal/config"
	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/pipeline"
	"github.com/theirongolddev/callboard/internal/tui/components"
)

func ms(v int64) *int64 { return &v }

// makeCalls returns n calls one minute apart ending just before now.
// Odd calls are missed.
func makeCalls(n int) []model.CallRecord {
	base := time.Now().UTC().Add(-time.Duration(n+1) * time.Minute)
	out := make([]model.CallRecord, n)
	for i := range out {
		start := base.Add(time.Duration(i) * time.Minute)
		out[i] = model.CallRecord{
			CallID:         fmt.Sprintf("call-%02d", i),
			FromNumber:     "5551234567",
			Direction:      model.DirectionInbound,
			StartTimestamp: &model.Timestamp{Raw: start.Format(time.RFC3339), Time: start},
			DurationMs:     ms(int64((i+1)%2) * 45_000),
			CallSummary:    fmt.Sprintf("summary %d", i),
		}
	}
	return out
}

func loadedApp(records []model.CallRecord, pageSize int) App {
	a := App{
		loaded:    true,
		width:     140,
		height:    40,
		loc:       time.UTC,
		days:      30,
		activeTab: components.TabCalls,
		calls:     newCallsState(nil, pageSize, time.UTC),
		records:   records,
	}
	a.recompute()
	return a
}

func press(t *testing.T, a App, keys ...string) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, c := a.Update(msg)
		var ok bool
		a, ok = m.(App)
		require.True(t, ok)
		cmd = c
	}
	return a, cmd
}

func TestRecomputeFeedsStatsAndCallTable(t *testing.T) {
	a := loadedApp(makeCalls(7), 3)

	assert.Equal(t, 7, a.stats.Total)
	assert.Equal(t, 4, a.stats.Answered)
	assert.Equal(t, 3, a.stats.Missed)

	v := a.calls.engine.View()
	assert.Equal(t, 7, v.Total)
	assert.Equal(t, 3, v.TotalPages)
	require.Len(t, a.calls.rows, 3)
	assert.Equal(t, "call-06", a.calls.rows[0].CallID, "newest first")
}

func TestCallsTabPagingKeys(t *testing.T) {
	a := loadedApp(makeCalls(7), 3)

	a, _ = press(t, a, "]", "]", "]")
	assert.Equal(t, 3, a.calls.engine.Page(), "clamped to last page")
	require.Len(t, a.calls.rows, 1)
	assert.Equal(t, "call-00", a.calls.rows[0].CallID)

	a, _ = press(t, a, "[")
	assert.Equal(t, 2, a.calls.engine.Page())

	a, _ = press(t, a, "+")
	assert.Equal(t, 8, a.calls.engine.PageSize())
	assert.Equal(t, 1, a.calls.engine.Page(), "page size change returns to page 1")
}

func TestCallsTabStatusFilterCycles(t *testing.T) {
	a := loadedApp(makeCalls(7), 10)

	a, _ = press(t, a, "f")
	assert.Equal(t, "Completed", a.calls.engine.FilterValue(pipeline.FilterStatus))
	assert.Equal(t, 4, a.calls.engine.View().Total)

	a, _ = press(t, a, "f")
	assert.Equal(t, 3, a.calls.engine.View().Total)

	a, _ = press(t, a, "f", "f", "f")
	assert.Empty(t, a.calls.engine.FilterValue(pipeline.FilterStatus), "wraps back to All")
	assert.Equal(t, 7, a.calls.engine.View().Total)
}

func TestCallsTabSearch(t *testing.T) {
	a := loadedApp(makeCalls(7), 3)
	a, _ = press(t, a, "]")

	a, _ = press(t, a, "/")
	require.True(t, a.calls.searching)
	a, _ = press(t, a, "summary 5", "enter")

	assert.False(t, a.calls.searching)
	assert.Equal(t, "summary 5", a.calls.engine.Search())
	assert.Equal(t, 1, a.calls.engine.Page())
	require.Len(t, a.calls.rows, 1)
	assert.Equal(t, "call-05", a.calls.rows[0].CallID)

	a, _ = press(t, a, "esc")
	assert.Empty(t, a.calls.engine.Search())
}

func TestCallsTabDetailToggle(t *testing.T) {
	a := loadedApp(makeCalls(2), 10)

	a, _ = press(t, a, "enter")
	assert.True(t, a.calls.detail)
	assert.Contains(t, a.View(), "call-01")

	a, _ = press(t, a, "esc")
	assert.False(t, a.calls.detail)
}

func TestTabKeysSwitchTabs(t *testing.T) {
	a := loadedApp(makeCalls(1), 10)
	a.activeTab = components.TabOverview

	a, _ = press(t, a, "t")
	assert.Equal(t, components.TabTrends, a.activeTab)
	a, _ = press(t, a, "x")
	assert.Equal(t, components.TabSettings, a.activeTab)
	a, _ = press(t, a, "o")
	assert.Equal(t, components.TabOverview, a.activeTab)
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(makeCalls(5), 10)
	for i := range components.Tabs {
		a.activeTab = i
		out := a.View()
		assert.NotEmpty(t, out)
	}
}

func remoteApp(t *testing.T) App {
	t.Helper()
	client := callapi.NewClient("http://calls.example.invalid", "")
	require.NotNil(t, client)
	a := App{
		loaded:    true,
		width:     140,
		height:    40,
		loc:       time.UTC,
		activeTab: components.TabCalls,
		calls:     newCallsState(client, 5, time.UTC),
	}
	require.True(t, a.calls.engine.IsManual())
	return a
}

func TestRemoteCallsPageFlow(t *testing.T) {
	a := remoteApp(t)
	require.NotNil(t, a.calls.initialFetch())

	m, _ := a.Update(CallsPageMsg{
		Seq:  1,
		Size: 5,
		Page: &callapi.Page{Calls: makeCalls(5), Page: 1, Limit: 5, Total: 12},
	})
	a = m.(App)
	assert.False(t, a.calls.isFetching())
	assert.Equal(t, 3, a.calls.engine.TotalPages())
	assert.Len(t, a.calls.rows, 5)

	// Moving pages asks the server instead of slicing locally.
	a, cmd := press(t, a, "]")
	require.NotNil(t, cmd)
	assert.True(t, a.calls.isFetching())
	assert.Equal(t, 2, a.calls.remote.page)
	assert.Equal(t, 1, a.calls.engine.Page(), "page moves once the fetch lands")

	m, _ = a.Update(CallsPageMsg{
		Seq:  a.calls.remote.seq,
		Size: 5,
		Page: &callapi.Page{Calls: makeCalls(5), Page: 2, Limit: 5, Total: 12},
	})
	a = m.(App)
	assert.Equal(t, 2, a.calls.engine.Page())
}

func TestRemoteCallsDropsStaleResponses(t *testing.T) {
	a := remoteApp(t)
	a.calls.initialFetch()
	a.calls.refetch() // supersedes the first request

	a.calls.applyPage(CallsPageMsg{Seq: 1, Size: 5, Page: &callapi.Page{Calls: makeCalls(5), Page: 3, Total: 50}})
	assert.True(t, a.calls.isFetching())
	assert.Zero(t, a.calls.engine.TotalPages())

	a.calls.applyPage(CallsPageMsg{Seq: 2, Err: callapi.ErrUnauthorized})
	assert.False(t, a.calls.isFetching())
	assert.ErrorIs(t, a.calls.fetchErr(), callapi.ErrUnauthorized)
}

func TestRemotePageSizeChangeRefetchesFirstPage(t *testing.T) {
	a := remoteApp(t)
	a.calls.initialFetch()
	a.calls.applyPage(CallsPageMsg{Seq: 1, Size: 5, Page: &callapi.Page{Calls: makeCalls(5), Page: 1, Total: 40}})

	a, cmd := press(t, a, "+")
	require.NotNil(t, cmd)
	assert.Equal(t, 10, a.calls.remote.size)
	assert.Equal(t, 1, a.calls.remote.page)
}

func TestApplySetupKeepsTokenWhenEmpty(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.API.Token = "existing"

	got := ApplySetup(cfg, SetupValues{BaseURL: " https://calls.example.com ", Days: 7, Theme: "tokyo-night"})
	assert.Equal(t, "existing", got.API.Token)
	assert.Equal(t, "https://calls.example.com", got.API.BaseURL)
	assert.Equal(t, 7, got.General.DefaultDays)
	assert.Equal(t, "tokyo-night", got.Appearance.Theme)

	got = ApplySetup(cfg, SetupValues{Token: "new"})
	assert.Equal(t, "new", got.API.Token)
}

func TestValidateBaseURL(t *testing.T) {
	assert.NoError(t, validateBaseURL(""))
	assert.NoError(t, validateBaseURL("https://calls.example.com/api"))
	assert.Error(t, validateBaseURL("calls.example.com"))
}
