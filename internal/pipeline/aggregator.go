// Package pipeline orchestrates call-log loading, caching, and metric aggregation.
package pipeline

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/model"
)

// RecentActivityLimit is the number of records projected into RecentActivity.
const RecentActivityLimit = 5

type weekdayAcc struct {
	calls    int
	bookings int
	scoreSum int
	samples  int
}

// Aggregate reduces call records into KPIs and chart-ready series.
//
// Hour-of-day, weekday and "today" are evaluated in now's location. Records
// whose start timestamp is missing or unparsable count toward the scalar
// totals but are left out of every time-bucketed output. RecentActivity keeps
// input order; callers sort beforehand (see SortNewestFirst).
func Aggregate(records []model.CallRecord, now time.Time) model.AggregateStats {
	loc := now.Location()
	ty, tm, td := now.Date()

	var (
		stats    model.AggregateStats
		hours    [24]model.HourlyBucket
		weekdays [7]weekdayAcc
		labelled int
		positive int
	)

	for i := range records {
		r := &records[i]
		status := ResolveStatus(r)

		stats.Total++
		switch status {
		case model.StatusCompleted:
			stats.Answered++
			if r.DurationMs != nil && *r.DurationMs > 0 {
				stats.DurationMs += *r.DurationMs
			}
		case model.StatusMissed:
			stats.Missed++
		case model.StatusInProgress:
			stats.InProgress++
		}

		if r.Sentiment != "" {
			labelled++
			if IsPositiveSentiment(r.Sentiment) {
				positive++
			}
		}

		if !r.StartTimestamp.Valid() {
			continue
		}
		start := r.StartTimestamp.Time.In(loc)

		h := start.Hour()
		hours[h].Calls++
		wd := &weekdays[start.Weekday()]
		wd.calls++
		wd.scoreSum += SentimentScore(r.Sentiment)
		wd.samples++
		if r.LinkedAppointment {
			hours[h].Bookings++
			wd.bookings++
		}

		if y, m, d := start.Date(); y == ty && m == tm && d == td {
			stats.CallsToday++
			switch status {
			case model.StatusCompleted:
				stats.AnsweredToday++
			case model.StatusMissed:
				stats.MissedToday++
			}
		}
	}

	if stats.Total > 0 {
		stats.AnswerRate = float64(stats.Answered) / float64(stats.Total) * 100
	}
	if stats.Answered > 0 {
		stats.AvgDurationMs = float64(stats.DurationMs) / float64(stats.Answered)
	}
	if labelled > 0 {
		pct := math.Round(float64(positive) / float64(labelled) * 100)
		stats.PositiveSentiment = &pct
	}

	stats.HourlyData = trimHours(hours)
	stats.WeeklyData = buildWeekly(weekdays)
	stats.StatusDistribution = statusDistribution(map[model.CallStatus]int{
		model.StatusCompleted:  stats.Answered,
		model.StatusMissed:     stats.Missed,
		model.StatusInProgress: stats.InProgress,
	})
	stats.RecentActivity = recentActivity(records, loc)

	return stats
}

// trimHours drops empty leading and trailing hours. Interior gaps stay as
// zero buckets so the series remains contiguous.
func trimHours(hours [24]model.HourlyBucket) []model.HourlyBucket {
	first, last := -1, -1
	for h := range hours {
		hours[h].Hour = h
		hours[h].Label = cli.FormatHour(h)
		if hours[h].Calls > 0 {
			if first < 0 {
				first = h
			}
			last = h
		}
	}
	if first < 0 {
		return []model.HourlyBucket{}
	}
	out := make([]model.HourlyBucket, last-first+1)
	copy(out, hours[first:last+1])
	return out
}

func buildWeekly(acc [7]weekdayAcc) []model.WeeklyBucket {
	out := make([]model.WeeklyBucket, 7)
	peak, peakCalls := -1, 0
	for i, a := range acc {
		out[i] = model.WeeklyBucket{
			Weekday:  i,
			Label:    cli.FormatDayOfWeek(i),
			Calls:    a.calls,
			Bookings: a.bookings,
		}
		if a.samples > 0 {
			avg := math.Round(float64(a.scoreSum)/float64(a.samples)*10) / 10
			out[i].Satisfaction = &avg
		}
		if a.calls > peakCalls {
			peak, peakCalls = i, a.calls
		}
	}
	if peak >= 0 {
		out[peak].Highlight = true
	}
	return out
}

func statusDistribution(counts map[model.CallStatus]int) []model.StatusCount {
	sum := 0
	for _, c := range counts {
		sum += c
	}
	out := []model.StatusCount{}
	if sum == 0 {
		return out
	}
	for _, s := range model.AllStatuses {
		c := counts[s]
		if c == 0 {
			continue
		}
		out = append(out, model.StatusCount{
			Label:      s.String(),
			Status:     s,
			Count:      c,
			Percentage: int(math.Round(float64(c) / float64(sum) * 100)),
		})
	}
	return out
}

func recentActivity(records []model.CallRecord, loc *time.Location) []model.ActivityRow {
	n := len(records)
	if n > RecentActivityLimit {
		n = RecentActivityLimit
	}
	rows := make([]model.ActivityRow, 0, n)
	for i := 0; i < n; i++ {
		r := &records[i]
		rows = append(rows, ProjectRow(r, loc))
	}
	return rows
}

// ProjectRow converts a record into its display row.
func ProjectRow(r *model.CallRecord, loc *time.Location) model.ActivityRow {
	return model.ActivityRow{
		CallID:   r.CallID,
		Caller:   cli.FormatPhone(r.FromNumber),
		Status:   ResolveStatus(r),
		Duration: cli.FormatDurationPtr(r.DurationMs),
		Time:     cli.FormatTimestamp(r.StartTimestamp, loc),
		Summary:  r.CallSummary,
	}
}

// FilterByTime returns records whose start falls within [since, until).
// Records without a usable start are kept: they still belong in the scalar
// totals even though they cannot be placed in time.
func FilterByTime(records []model.CallRecord, since, until time.Time) []model.CallRecord {
	if since.IsZero() && until.IsZero() {
		return records
	}

	var result []model.CallRecord
	for _, r := range records {
		if !r.StartTimestamp.Valid() {
			result = append(result, r)
			continue
		}
		start := r.StartTimestamp.Time
		if !since.IsZero() && start.Before(since) {
			continue
		}
		if !until.IsZero() && !start.Before(until) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// FilterByDirection returns records with the given direction (case-insensitive).
func FilterByDirection(records []model.CallRecord, direction string) []model.CallRecord {
	if direction == "" {
		return records
	}
	var result []model.CallRecord
	for _, r := range records {
		if strings.EqualFold(string(r.Direction), direction) {
			result = append(result, r)
		}
	}
	return result
}

// SortNewestFirst returns a copy of records ordered by start time, most recent
// first. Records without a usable start keep their relative order at the end.
func SortNewestFirst(records []model.CallRecord) []model.CallRecord {
	out := make([]model.CallRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i].StartTimestamp.Valid(), out[j].StartTimestamp.Valid()
		if vi != vj {
			return vi
		}
		if !vi {
			return false
		}
		return out[i].StartTimestamp.Time.After(out[j].StartTimestamp.Time)
	})
	return out
}
