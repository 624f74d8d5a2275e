package components

import (
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/callboard/internal/tui/theme"
)

func TestRenderStatusBar(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

	bar := RenderStatusBar(100, StatusInfo{
		LastRefresh: now.Add(-3 * time.Minute),
		AutoRefresh: true,
		Source:      "local",
	}, now)
	assert.Equal(t, 100, lipgloss.Width(bar))
	assert.Contains(t, bar, "updated 3 minutes ago")
	assert.Contains(t, bar, "auto")

	bar = RenderStatusBar(100, StatusInfo{Refreshing: true, Err: errors.New("timeout")}, now)
	assert.Contains(t, bar, "refreshing")
	assert.Contains(t, bar, "timeout")
}

func TestRenderStatusBarNarrowDropsRightSide(t *testing.T) {
	now := time.Now()
	bar := RenderStatusBar(20, StatusInfo{LastRefresh: now, Source: "api.example.com"}, now)
	assert.LessOrEqual(t, lipgloss.Width(bar), 20)
	assert.NotContains(t, bar, "api.example.com")
}

func TestBarListHighlightsAndScales(t *testing.T) {
	out := BarList([]Bar{
		{Label: "Mon", Value: 10},
		{Label: "Tue", Value: 20, Note: "4.5/5", Highlight: true},
	}, theme.Active.Accent, 40)

	assert.Contains(t, out, "★")
	assert.Contains(t, out, "4.5/5")
	assert.Empty(t, BarList(nil, theme.Active.Accent, 40))
}

func TestLineChartPlaceholderForZeros(t *testing.T) {
	assert.Contains(t, LineChart([]float64{0, 0, 0}, 40, 5, ""), "no data")
	assert.NotContains(t, LineChart([]float64{1, 3, 2}, 40, 5, "calls"), "no data")
}
