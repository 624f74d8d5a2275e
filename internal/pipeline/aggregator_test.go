package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/model"
)

// 2025-06-01 is a Sunday.
var testNow = time.Date(2025, 6, 4, 18, 0, 0, 0, time.UTC)

func ms(v int64) *int64 { return &v }

func ts(t time.Time) *model.Timestamp {
	return &model.Timestamp{Raw: t.Format(time.RFC3339), Time: t}
}

func at(day, hour int) *model.Timestamp {
	return ts(time.Date(2025, 6, day, hour, 15, 0, 0, time.UTC))
}

func TestResolveStatus(t *testing.T) {
	end := at(4, 10)
	tests := []struct {
		name string
		rec  *model.CallRecord
		want model.CallStatus
	}{
		{"nil record", nil, model.StatusUnknown},
		{"no timing at all", &model.CallRecord{CallID: "a", Sentiment: "Positive"}, model.StatusInProgress},
		{"zero duration without end", &model.CallRecord{DurationMs: ms(0)}, model.StatusMissed},
		{"zero duration with end", &model.CallRecord{DurationMs: ms(0), EndTimestamp: end}, model.StatusMissed},
		{"end without duration", &model.CallRecord{EndTimestamp: end}, model.StatusCompleted},
		{"positive duration", &model.CallRecord{DurationMs: ms(125_000)}, model.StatusCompleted},
		{"unparsable end still present", &model.CallRecord{EndTimestamp: &model.Timestamp{Raw: "garbage"}}, model.StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStatus(tt.rec))
		})
	}
}

func TestSentimentScore(t *testing.T) {
	tests := map[string]int{
		"":              3,
		"Positive":      5,
		"NEGATIVE":      1,
		"neutral":       3,
		"very negative": 1,
		"posture":       5, // substring heuristic is kept as-is
		"pos/neg mixed": 5,
	}
	for label, want := range tests {
		assert.Equal(t, want, SentimentScore(label), "label %q", label)
	}
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil, testNow)

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Answered)
	assert.Zero(t, stats.Missed)
	assert.Zero(t, stats.InProgress)
	assert.Zero(t, stats.AnswerRate)
	assert.Zero(t, stats.AvgDurationMs)
	assert.Nil(t, stats.PositiveSentiment)
	assert.Empty(t, stats.HourlyData)
	assert.Empty(t, stats.StatusDistribution)
	assert.Empty(t, stats.RecentActivity)

	require.Len(t, stats.WeeklyData, 7)
	for i, w := range stats.WeeklyData {
		assert.Equal(t, i, w.Weekday)
		assert.Zero(t, w.Calls)
		assert.Zero(t, w.Bookings)
		assert.Nil(t, w.Satisfaction)
		assert.False(t, w.Highlight)
	}
}

func TestAggregate_MissedWithoutEnd(t *testing.T) {
	stats := Aggregate([]model.CallRecord{{DurationMs: ms(0)}}, testNow)

	assert.Equal(t, 1, stats.Missed)
	assert.Zero(t, stats.InProgress)
	assert.Zero(t, stats.Answered)
	require.Len(t, stats.RecentActivity, 1)
	assert.Equal(t, model.StatusMissed, stats.RecentActivity[0].Status)
}

func TestAggregate_SingleAnsweredCall(t *testing.T) {
	stats := Aggregate([]model.CallRecord{{DurationMs: ms(125_000)}}, testNow)

	assert.Equal(t, 1, stats.Answered)
	assert.Equal(t, int64(125_000), stats.DurationMs)
	assert.InDelta(t, 125_000, stats.AvgDurationMs, 1e-9)
	assert.InDelta(t, 100, stats.AnswerRate, 1e-9)
	assert.Equal(t, "2m 05s", cli.FormatDuration(stats.AvgDurationMs))
	assert.Equal(t, "2m 05s", stats.RecentActivity[0].Duration)
	// no start timestamp: nothing lands in the series
	assert.Empty(t, stats.HourlyData)
	assert.Equal(t, "Unknown", stats.RecentActivity[0].Caller)
	assert.Equal(t, "—", stats.RecentActivity[0].Time)
}

func TestAggregate_WeeklyHighlight(t *testing.T) {
	var records []model.CallRecord
	add := func(day, n int) {
		for i := 0; i < n; i++ {
			records = append(records, model.CallRecord{StartTimestamp: at(day, 9+i), DurationMs: ms(60_000)})
		}
	}
	add(4, 5) // Wednesday
	add(2, 3) // Monday
	add(6, 2) // Friday

	stats := Aggregate(records, testNow)
	require.Len(t, stats.WeeklyData, 7)
	for i, w := range stats.WeeklyData {
		assert.Equal(t, i == 3, w.Highlight, "weekday %d", i)
	}
	assert.Equal(t, 5, stats.WeeklyData[3].Calls)
	assert.Equal(t, "Wed", stats.WeeklyData[3].Label)
}

func TestAggregate_HighlightTieGoesToLowestWeekday(t *testing.T) {
	records := []model.CallRecord{
		{StartTimestamp: at(6, 9)}, // Friday
		{StartTimestamp: at(2, 9)}, // Monday
	}
	stats := Aggregate(records, testNow)
	assert.True(t, stats.WeeklyData[1].Highlight)
	assert.False(t, stats.WeeklyData[5].Highlight)
}

func TestAggregate_HourlyTrimKeepsInteriorGaps(t *testing.T) {
	records := []model.CallRecord{
		{StartTimestamp: at(4, 9), LinkedAppointment: true, DurationMs: ms(30_000)},
		{StartTimestamp: at(4, 12), DurationMs: ms(30_000)},
		{StartTimestamp: at(4, 12), DurationMs: ms(0)},
	}
	stats := Aggregate(records, testNow)

	require.Len(t, stats.HourlyData, 4)
	assert.Equal(t, 9, stats.HourlyData[0].Hour)
	assert.Equal(t, "9 AM", stats.HourlyData[0].Label)
	assert.Equal(t, 1, stats.HourlyData[0].Bookings)
	assert.Zero(t, stats.HourlyData[1].Calls)
	assert.Zero(t, stats.HourlyData[2].Calls)
	assert.Equal(t, 2, stats.HourlyData[3].Calls)
}

func TestAggregate_TodayAndMalformedTimestamps(t *testing.T) {
	records := []model.CallRecord{
		{StartTimestamp: at(4, 8), DurationMs: ms(90_000)},
		{StartTimestamp: at(4, 9), DurationMs: ms(0)},
		{StartTimestamp: at(3, 9), DurationMs: ms(10_000)},
		{StartTimestamp: &model.Timestamp{Raw: "not-a-date"}, DurationMs: ms(20_000)},
	}
	stats := Aggregate(records, testNow)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Answered)
	assert.Equal(t, 2, stats.CallsToday)
	assert.Equal(t, 1, stats.AnsweredToday)
	assert.Equal(t, 1, stats.MissedToday)
	assert.Equal(t, int64(120_000), stats.DurationMs)

	inSeries := 0
	for _, h := range stats.HourlyData {
		inSeries += h.Calls
	}
	assert.Equal(t, 3, inSeries, "unparsable start must not be bucketed")
}

func TestAggregate_TodayUsesNowLocation(t *testing.T) {
	// 02:00 UTC on the 5th is still the evening of the 4th in New York.
	ny := time.FixedZone("EDT", -4*60*60)
	now := time.Date(2025, 6, 4, 23, 0, 0, 0, ny)

	rec := model.CallRecord{StartTimestamp: ts(time.Date(2025, 6, 5, 2, 0, 0, 0, time.UTC)), DurationMs: ms(1000)}
	stats := Aggregate([]model.CallRecord{rec}, now)

	assert.Equal(t, 1, stats.CallsToday)
	require.Len(t, stats.HourlyData, 1)
	assert.Equal(t, 22, stats.HourlyData[0].Hour)
	assert.Equal(t, 1, stats.WeeklyData[3].Calls)
}

func TestAggregate_SentimentAndSatisfaction(t *testing.T) {
	records := []model.CallRecord{
		{StartTimestamp: at(2, 9), Sentiment: "Positive", DurationMs: ms(1000)},
		{StartTimestamp: at(2, 10), Sentiment: "negative", DurationMs: ms(1000)},
		{StartTimestamp: at(2, 11), DurationMs: ms(1000)},
		{Sentiment: "Neutral", DurationMs: ms(1000)},
	}
	stats := Aggregate(records, testNow)

	require.NotNil(t, stats.PositiveSentiment)
	assert.InDelta(t, 33, *stats.PositiveSentiment, 1e-9)

	mon := stats.WeeklyData[1]
	require.NotNil(t, mon.Satisfaction)
	assert.InDelta(t, 3.0, *mon.Satisfaction, 1e-9) // (5+1+3)/3
	assert.Nil(t, stats.WeeklyData[0].Satisfaction)
}

func TestAggregate_StatusDistributionInvariants(t *testing.T) {
	records := []model.CallRecord{
		{DurationMs: ms(1000)},
		{DurationMs: ms(1000)},
		{DurationMs: ms(0)},
		{},
		{},
		{},
	}
	stats := Aggregate(records, testNow)

	sumCount, sumPct := 0, 0
	for _, d := range stats.StatusDistribution {
		sumCount += d.Count
		sumPct += d.Percentage
	}
	assert.Equal(t, stats.Total, sumCount)
	assert.InDelta(t, 100, sumPct, 2)
	assert.GreaterOrEqual(t, stats.AnswerRate, 0.0)
	assert.LessOrEqual(t, stats.AnswerRate, 100.0)

	require.Len(t, stats.StatusDistribution, 3)
	assert.Equal(t, "Completed", stats.StatusDistribution[0].Label)
	assert.Equal(t, 33, stats.StatusDistribution[0].Percentage)
	assert.Equal(t, "In Progress", stats.StatusDistribution[2].Label)
	assert.Equal(t, 50, stats.StatusDistribution[2].Percentage)
}

func TestAggregate_IdempotentAndInputUntouched(t *testing.T) {
	records := []model.CallRecord{
		{CallID: "1", StartTimestamp: at(4, 9), DurationMs: ms(5000), Sentiment: "positive"},
		{CallID: "2", StartTimestamp: at(1, 13), DurationMs: ms(0)},
	}
	snapshot := make([]model.CallRecord, len(records))
	copy(snapshot, records)

	first := Aggregate(records, testNow)
	second := Aggregate(records, testNow)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, records)
}

func TestAggregate_RecentActivityKeepsInputOrder(t *testing.T) {
	var records []model.CallRecord
	for i := 0; i < 8; i++ {
		records = append(records, model.CallRecord{
			CallID:     string(rune('a' + i)),
			FromNumber: "5551234567",
			DurationMs: ms(int64(i) * 1000),
		})
	}
	stats := Aggregate(records, testNow)

	require.Len(t, stats.RecentActivity, RecentActivityLimit)
	for i, row := range stats.RecentActivity {
		assert.Equal(t, records[i].CallID, row.CallID)
		assert.Equal(t, "(555) 123-4567", row.Caller)
	}
}

func TestSortNewestFirst(t *testing.T) {
	records := []model.CallRecord{
		{CallID: "old", StartTimestamp: at(1, 9)},
		{CallID: "none"},
		{CallID: "new", StartTimestamp: at(4, 9)},
	}
	sorted := SortNewestFirst(records)

	ids := []string{sorted[0].CallID, sorted[1].CallID, sorted[2].CallID}
	assert.Equal(t, []string{"new", "old", "none"}, ids)
	assert.Equal(t, "old", records[0].CallID, "input must not be reordered")
}

func TestFilterByTimeKeepsUnplacedRecords(t *testing.T) {
	records := []model.CallRecord{
		{CallID: "in", StartTimestamp: at(3, 9)},
		{CallID: "out", StartTimestamp: at(1, 9)},
		{CallID: "unplaced"},
	}
	since := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	got := FilterByTime(records, since, testNow)

	require.Len(t, got, 2)
	assert.Equal(t, "in", got[0].CallID)
	assert.Equal(t, "unplaced", got[1].CallID)
}

func TestFilterByDirection(t *testing.T) {
	records := []model.CallRecord{
		{CallID: "1", Direction: model.DirectionInbound},
		{CallID: "2", Direction: model.DirectionOutbound},
	}
	assert.Len(t, FilterByDirection(records, ""), 2)
	got := FilterByDirection(records, "INBOUND")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].CallID)
}
