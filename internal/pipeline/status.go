package pipeline

import (
	"strings"

	"github.com/theirongolddev/callboard/internal/model"
)

// Sentiment scores on the 1-5 satisfaction scale.
const (
	scorePositive = 5
	scoreNeutral  = 3
	scoreNegative = 1
)

// ResolveStatus classifies a call record. The checks run in a fixed order:
// no timing data at all means the call is still live, then a zero duration
// means nobody picked up, even if the provider stamped an end time.
func ResolveStatus(r *model.CallRecord) model.CallStatus {
	if r == nil {
		return model.StatusUnknown
	}
	if r.EndTimestamp == nil && r.DurationMs == nil {
		return model.StatusInProgress
	}
	if r.DurationMs != nil && *r.DurationMs == 0 {
		return model.StatusMissed
	}
	return model.StatusCompleted
}

// SentimentScore maps a free-text sentiment label onto the satisfaction scale.
// Matching is a case-insensitive substring test, "pos" before "neg", so labels
// such as "Positive" and "very negative" both resolve.
func SentimentScore(label string) int {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "pos"):
		return scorePositive
	case strings.Contains(l, "neg"):
		return scoreNegative
	default:
		return scoreNeutral
	}
}

// IsPositiveSentiment reports whether a label counts as a positive outcome.
func IsPositiveSentiment(label string) bool {
	return SentimentScore(label) == scorePositive
}
