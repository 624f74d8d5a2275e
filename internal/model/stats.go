package model

// AggregateStats is the collection-level reduction over a set of call records.
// It is recomputed from scratch on every input change.
type AggregateStats struct {
	Total         int   `json:"total"`
	Answered      int   `json:"answered"`
	Missed        int   `json:"missed"`
	InProgress    int   `json:"in_progress"`
	CallsToday    int   `json:"calls_today"`
	AnsweredToday int   `json:"answered_today"`
	MissedToday   int   `json:"missed_today"`
	DurationMs    int64 `json:"duration_ms"` // answered calls only

	AnswerRate        float64  `json:"answer_rate"` // 0-100
	AvgDurationMs     float64  `json:"avg_duration_ms"`
	PositiveSentiment *float64 `json:"positive_sentiment"` // nil when no call carries a label

	HourlyData         []HourlyBucket `json:"hourly_data"`
	WeeklyData         []WeeklyBucket `json:"weekly_data"`
	StatusDistribution []StatusCount  `json:"status_distribution"`
	RecentActivity     []ActivityRow  `json:"recent_activity"`
}

// HourlyBucket holds call counts for one hour of the day.
type HourlyBucket struct {
	Hour     int    `json:"hour"`
	Label    string `json:"label"`
	Calls    int    `json:"calls"`
	Bookings int    `json:"bookings"`
}

// WeeklyBucket holds call counts for one weekday (Sunday = 0).
type WeeklyBucket struct {
	Weekday      int      `json:"weekday"`
	Label        string   `json:"label"`
	Calls        int      `json:"calls"`
	Bookings     int      `json:"bookings"`
	Satisfaction *float64 `json:"satisfaction"` // 1-5 average, nil without samples
	Highlight    bool     `json:"highlight"`
}

// StatusCount is one slice of the status distribution.
type StatusCount struct {
	Label      string     `json:"label"`
	Status     CallStatus `json:"status"`
	Count      int        `json:"count"`
	Percentage int        `json:"percentage"`
}

// ActivityRow is a display projection of a recent call.
type ActivityRow struct {
	CallID   string     `json:"call_id"`
	Caller   string     `json:"caller"`
	Status   CallStatus `json:"status"`
	Duration string     `json:"duration"`
	Time     string     `json:"time"`
	Summary  string     `json:"summary"`
}
