package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/tui/components"
	"github.com/theirongolddev/callboard/internal/tui/theme"
)

func (a App) overviewMetrics() []components.Metric {
	t := theme.Active
	s := a.stats

	sentiment := components.Metric{Label: "Positive Sentiment", Value: cli.Placeholder, Detail: "no labelled calls"}
	if s.PositiveSentiment != nil {
		sentiment.Value = fmt.Sprintf("%.0f%%", *s.PositiveSentiment)
		sentiment.Detail = "of labelled calls"
		sentiment.Accent = t.Rate(*s.PositiveSentiment)
	}

	answer := components.Metric{
		Label:  "Answer Rate",
		Value:  cli.FormatPercent(s.AnswerRate),
		Detail: fmt.Sprintf("%s answered · %s missed", cli.FormatNumber(int64(s.Answered)), cli.FormatNumber(int64(s.Missed))),
	}
	if s.Total > 0 {
		answer.Accent = t.Rate(s.AnswerRate)
	}

	return []components.Metric{
		{
			Label:  "Total Calls",
			Value:  cli.FormatNumber(int64(s.Total)),
			Detail: fmt.Sprintf("%d in progress", s.InProgress),
			Accent: t.AccentBright,
		},
		answer,
		{
			Label:  "Avg Duration",
			Value:  cli.FormatDuration(s.AvgDurationMs),
			Detail: cli.FormatDuration(float64(s.DurationMs)) + " talk time",
		},
		sentiment,
		{
			Label:  "Today",
			Value:  cli.FormatNumber(int64(s.CallsToday)),
			Detail: fmt.Sprintf("%d answered · %d missed", s.AnsweredToday, s.MissedToday),
			Accent: t.Blue,
		},
	}
}

func (a App) renderOverviewTab(cw int) string {
	var b strings.Builder

	metrics := a.overviewMetrics()
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(metrics[:3], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(metrics[3:], cw))
	} else {
		b.WriteString(components.MetricCardRow(metrics, cw))
	}
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(a.renderDistributionCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderRecentCard(cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderDistributionCard(halves[0]),
		a.renderRecentCard(halves[1]),
	}))
	return b.String()
}

func (a App) renderDistributionCard(w int) string {
	t := theme.Active
	dist := a.stats.StatusDistribution
	if len(dist) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Call Status", muted.Render("No calls in this window"), w)
	}

	labelW := 0
	for _, d := range dist {
		labelW = max(labelW, len(d.Label))
	}
	inner := components.CardInnerWidth(w)
	// label + space + bar + " 100% " + "(count)"
	barW := max(inner-labelW-16, 8)

	lines := make([]string, 0, len(dist))
	for _, d := range dist {
		lines = append(lines, components.ShareBar(
			d.Label, t.Status(d.Label), d.Percentage, cli.FormatNumber(int64(d.Count)), labelW, barW))
	}
	return components.ContentCard("Call Status", strings.Join(lines, "\n"), w)
}

func (a App) renderRecentCard(w int) string {
	t := theme.Active
	rows := a.stats.RecentActivity
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(rows) == 0 {
		return components.ContentCard("Recent Activity", muted.Render("No recent calls"), w)
	}

	inner := components.CardInnerWidth(w)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	for i, r := range rows {
		status := lipgloss.NewStyle().Foreground(t.Status(r.Status.String())).Background(t.Surface)
		line := muted.Render(fmt.Sprintf("%-16s ", r.Time)) +
			text.Render(fmt.Sprintf("%-15s ", r.Caller)) +
			status.Render(fmt.Sprintf("%-11s ", r.Status.String())) +
			dim.Render(r.Duration)
		b.WriteString(line)
		if summary := recentSummary(r, inner-2); summary != "" {
			b.WriteString("\n")
			b.WriteString(dim.Render("  " + summary))
		}
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return components.ContentCard("Recent Activity", b.String(), w)
}

func recentSummary(r model.ActivityRow, width int) string {
	s := strings.Join(strings.Fields(r.Summary), " ")
	return truncStr(s, width)
}
