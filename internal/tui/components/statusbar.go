package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/callboard/internal/tui/theme"
)

// StatusInfo is what the bottom status bar reports.
type StatusInfo struct {
	LastRefresh time.Time
	Refreshing  bool
	AutoRefresh bool
	Source      string // "local" or the API host
	Err         error
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo, now time.Time) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := keyStyle.Render(" [?]") + base.Render("help  ") +
		keyStyle.Render("[r]") + base.Render("efresh  ") +
		keyStyle.Render("[q]") + base.Render("uit")

	var right []string
	if info.Err != nil {
		right = append(right, warnStyle.Render("⚠ "+info.Err.Error()))
	}
	if info.Source != "" {
		right = append(right, base.Render(info.Source))
	}
	switch {
	case info.Refreshing:
		right = append(right, keyStyle.Render("refreshing…"))
	case !info.LastRefresh.IsZero():
		right = append(right, base.Render("updated "+humanize.RelTime(info.LastRefresh, now, "ago", "from now")))
	}
	if info.AutoRefresh {
		right = append(right, keyStyle.Render("auto"))
	}
	rightStr := strings.Join(right, base.Render(" · ")) + base.Render(" ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if gap < 1 {
		// Too narrow: drop the right side rather than wrap.
		return base.Width(width).MaxWidth(width).Render(left)
	}
	return left + base.Render(strings.Repeat(" ", gap)) + rightStr
}
