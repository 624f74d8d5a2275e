package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Call totals, answer rate, durations and sentiment",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	if len(result.Calls) == 0 {
		fmt.Println("\n  No calls found.")
		fmt.Printf("  Drop call-log exports into %s, then come back!\n", flagDataDir)
		return nil
	}

	filtered, now := applyFilters(result.Calls)
	stats := pipeline.Aggregate(filtered, now)

	if stats.Total == 0 {
		fmt.Println("\n  No calls found in the selected time range.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CALLS  " + windowLabel()))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    summaryRows(stats),
	}))

	if result.ParseErrors > 0 || result.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d records skipped, %d files could not be read\n",
			result.ParseErrors, result.FileErrors)
	}
	return nil
}

func summaryRows(stats model.AggregateStats) [][]string {
	sentiment := cli.Placeholder
	if stats.PositiveSentiment != nil {
		sentiment = fmt.Sprintf("%.0f%%", *stats.PositiveSentiment)
	}

	return [][]string{
		{"Total Calls", cli.FormatNumber(int64(stats.Total))},
		{"Answered", cli.FormatNumber(int64(stats.Answered))},
		{"Missed", cli.FormatNumber(int64(stats.Missed))},
		{"In Progress", cli.FormatNumber(int64(stats.InProgress))},
		{"---"},
		{"Today", cli.FormatNumber(int64(stats.CallsToday))},
		{"Answered Today", cli.FormatNumber(int64(stats.AnsweredToday))},
		{"Missed Today", cli.FormatNumber(int64(stats.MissedToday))},
		{"---"},
		{"Answer Rate", cli.FormatPercent(stats.AnswerRate)},
		{"Avg Duration", cli.FormatDuration(stats.AvgDurationMs)},
		{"Talk Time", cli.FormatDuration(float64(stats.DurationMs))},
		{"Positive Sentiment", sentiment},
	}
}
