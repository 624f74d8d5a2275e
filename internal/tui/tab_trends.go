package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/tui/components"
	"github.com/theirongolddev/callboard/internal/tui/theme"
)

func (a App) renderTrendsTab(cw int) string {
	var b strings.Builder

	if a.isCompactLayout() {
		b.WriteString(a.renderHourlyCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderWeeklyCard(cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderHourlyCard(halves[0]),
		a.renderWeeklyCard(halves[1]),
	}))
	return b.String()
}

func (a App) renderHourlyCard(w int) string {
	t := theme.Active
	hours := a.stats.HourlyData
	if len(hours) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Calls by Hour", muted.Render("No timed calls in this window"), w)
	}

	peak := 0
	for i, h := range hours {
		if h.Calls > hours[peak].Calls {
			peak = i
		}
	}

	bars := make([]components.Bar, len(hours))
	values := make([]float64, len(hours))
	for i, h := range hours {
		bars[i] = components.Bar{Label: h.Label, Value: h.Calls, Highlight: i == peak}
		if h.Bookings > 0 {
			bars[i].Note = fmt.Sprintf("%d booked", h.Bookings)
		}
		values[i] = float64(h.Calls)
	}

	inner := components.CardInnerWidth(w)
	body := components.BarList(bars, t.Blue, inner) + "\n\n" +
		components.Sparkline(values, t.Accent)
	title := fmt.Sprintf("Calls by Hour · peak %s", hours[peak].Label)
	return components.ContentCard(title, body, w)
}

func (a App) renderWeeklyCard(w int) string {
	t := theme.Active
	weekly := a.stats.WeeklyData
	inner := components.CardInnerWidth(w)

	values := make([]float64, len(weekly))
	bars := make([]components.Bar, len(weekly))
	for i, d := range weekly {
		values[i] = float64(d.Calls)
		bars[i] = components.Bar{Label: d.Label, Value: d.Calls, Highlight: d.Highlight}
		note := fmt.Sprintf("%d booked", d.Bookings)
		if d.Satisfaction != nil {
			note += fmt.Sprintf(" · %.1f/5", *d.Satisfaction)
		}
		bars[i].Note = note
	}

	var b strings.Builder
	b.WriteString(components.LineChart(values, inner, 6, "Sun → Sat"))
	b.WriteString("\n\n")
	b.WriteString(components.BarList(bars, t.Accent, inner))

	title := "Calls by Weekday"
	if a.stats.Total > 0 {
		title += " · " + cli.FormatNumber(int64(a.stats.Total)) + " calls"
	}
	return components.ContentCard(title, b.String(), w)
}
