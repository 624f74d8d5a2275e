package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/theirongolddev/callboard/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Bar is one row of a horizontal bar list.
type Bar struct {
	Label     string
	Value     int
	Note      string // rendered dim after the value
	Highlight bool
}

// BarList renders labeled horizontal bars scaled to the largest value.
// Highlighted rows use the accent color and a star.
func BarList(bars []Bar, color lipgloss.Color, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, valueW, maxVal := 0, 1, 0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		valueW = max(valueW, len(fmt.Sprint(b.Value)))
		maxVal = max(maxVal, b.Value)
	}
	noteW := 0
	for _, b := range bars {
		noteW = max(noteW, lipgloss.Width(b.Note))
	}
	barMax := width - labelW - valueW - noteW - 6
	if barMax < 1 {
		barMax = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		n := 0
		if maxVal > 0 {
			n = b.Value * barMax / maxVal
		}
		barColor, mark := color, " "
		if b.Highlight {
			barColor, mark = t.Yellow, "★"
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		line := labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label)) +
			space.Render(" ") +
			valueStyle.Render(fmt.Sprintf("%*d", valueW, b.Value)) +
			space.Render(" ") +
			barStyle.Render(strings.Repeat("█", n)+" "+mark)
		if b.Note != "" {
			line += space.Render(" ") + noteStyle.Render(b.Note)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// LineChart plots values with asciigraph inside a card of the given inner
// width. Empty or all-zero input yields a placeholder line.
func LineChart(values []float64, width, height int, caption string) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	nonZero := false
	for _, v := range values {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		return dim.Render("no data")
	}

	// Leave room for the y-axis labels asciigraph prepends.
	plotW := width - 8
	if plotW < 10 {
		plotW = 10
	}
	if height < 3 {
		height = 3
	}
	plot := asciigraph.Plot(values,
		asciigraph.Width(plotW),
		asciigraph.Height(height),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
	)

	style := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	lines := strings.Split(plot, "\n")
	for i, l := range lines {
		lines[i] = style.Render(l)
	}
	return strings.Join(lines, "\n")
}
