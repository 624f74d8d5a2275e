// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/callboard/internal/model"
)

// Placeholder is shown wherever a value is absent or unusable.
const Placeholder = "—"

// FormatPhone renders a North American number for display.
// e.g., "5551234567" -> "(555) 123-4567", "+1 555 123 4567" -> "+1 (555) 123-4567"
// Anything else is returned as given; an empty input yields "Unknown".
func FormatPhone(raw string) string {
	if raw == "" {
		return "Unknown"
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()

	switch {
	case len(d) == 10:
		return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
	case len(d) == 11 && d[0] == '1':
		return fmt.Sprintf("+1 (%s) %s-%s", d[1:4], d[4:7], d[7:])
	default:
		return raw
	}
}

// FormatDuration formats milliseconds as minutes and zero-padded seconds.
// e.g., 125000 -> "2m 05s", 42000 -> "42s". NaN yields the placeholder.
func FormatDuration(ms float64) string {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return Placeholder
	}
	if ms < 0 {
		ms = 0
	}

	secs := int64(ms / 1000)
	mins := secs / 60
	rem := secs % 60

	if mins == 0 {
		return fmt.Sprintf("%ds", rem)
	}
	return fmt.Sprintf("%dm %02ds", mins, rem)
}

// FormatDurationPtr is FormatDuration for an optional duration field.
func FormatDurationPtr(ms *int64) string {
	if ms == nil {
		return Placeholder
	}
	return FormatDuration(float64(*ms))
}

// FormatTime renders an instant as "Jan 2, 3:04 PM" in its own location.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format("Jan 2, 3:04 PM")
}

// FormatTimestamp renders an optional payload timestamp. Absent and
// unparsable values both yield the placeholder.
func FormatTimestamp(ts *model.Timestamp, loc *time.Location) string {
	if !ts.Valid() {
		return Placeholder
	}
	if loc != nil {
		return FormatTime(ts.Time.In(loc))
	}
	return FormatTime(ts.Time)
}

// FormatCurrency formats a USD amount.
// e.g., 12345.6 -> "$12,346", 12.3 -> "$12.30"
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) {
		return "$0"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	if amount >= 1000 {
		return sign + "$" + humanize.Comma(int64(math.Round(amount)))
	}
	return fmt.Sprintf("%s$%.2f", sign, amount)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-100 value as a percentage string.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatHour returns a 12-hour clock label for an hour of the day.
// e.g., 0 -> "12 AM", 13 -> "1 PM"
func FormatHour(hour int) string {
	if hour < 0 || hour > 23 {
		return "??"
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d %s", h, suffix)
}
