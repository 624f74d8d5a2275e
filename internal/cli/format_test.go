package cli

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/callboard/internal/model"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Unknown"},
		{"5551234567", "(555) 123-4567"},
		{"555-123-4567", "(555) 123-4567"},
		{"15551234567", "+1 (555) 123-4567"},
		{"+1 (555) 123-4567", "+1 (555) 123-4567"},
		{"25551234567", "25551234567"},
		{"+44 20 7946 0958", "+44 20 7946 0958"},
		{"anonymous", "anonymous"},
	}
	for _, tt := range tests {
		if got := FormatPhone(tt.in); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   float64
		want string
	}{
		{math.NaN(), "—"},
		{-5000, "0s"},
		{0, "0s"},
		{42_000, "42s"},
		{59_999, "59s"},
		{60_000, "1m 00s"},
		{125_000, "2m 05s"},
		{3_725_000, "62m 05s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.ms, got, tt.want)
		}
	}

	if got := FormatDurationPtr(nil); got != "—" {
		t.Errorf("FormatDurationPtr(nil) = %q, want —", got)
	}
	d := int64(125_000)
	if got := FormatDurationPtr(&d); got != "2m 05s" {
		t.Errorf("FormatDurationPtr(125000) = %q, want 2m 05s", got)
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(time.Time{}); got != "—" {
		t.Errorf("FormatTime(zero) = %q, want —", got)
	}
	ts := time.Date(2025, 3, 7, 14, 5, 0, 0, time.UTC)
	if got := FormatTime(ts); got != "Mar 7, 2:05 PM" {
		t.Errorf("FormatTime = %q, want %q", got, "Mar 7, 2:05 PM")
	}

	if got := FormatTimestamp(nil, nil); got != "—" {
		t.Errorf("FormatTimestamp(nil) = %q, want —", got)
	}
	if got := FormatTimestamp(&model.Timestamp{Raw: "yesterday-ish"}, nil); got != "—" {
		t.Errorf("FormatTimestamp(unparsable) = %q, want —", got)
	}
	if got := FormatTimestamp(&model.Timestamp{Raw: "x", Time: ts}, time.UTC); got != "Mar 7, 2:05 PM" {
		t.Errorf("FormatTimestamp = %q", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{math.NaN(), "$0"},
		{0, "$0.00"},
		{12.3, "$12.30"},
		{999.99, "$999.99"},
		{1000, "$1,000"},
		{12345.4, "$12,345"},
		{-1500, "-$1,500"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.amount); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatHour(t *testing.T) {
	for hour, want := range map[int]string{0: "12 AM", 9: "9 AM", 12: "12 PM", 23: "11 PM", 24: "??"} {
		if got := FormatHour(hour); got != want {
			t.Errorf("FormatHour(%d) = %q, want %q", hour, got, want)
		}
	}
}
