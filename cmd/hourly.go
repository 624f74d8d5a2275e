package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/pipeline"
)

var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Calls by hour of day",
	RunE:  runHourly,
}

func init() {
	rootCmd.AddCommand(hourlyCmd)
}

func runHourly(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	filtered, now := applyFilters(result.Calls)
	stats := pipeline.Aggregate(filtered, now)
	if len(stats.HourlyData) == 0 {
		fmt.Println("\n  No timed calls found.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CALLS BY HOUR  %s (%s)", windowLabel(), now.Location())))
	fmt.Println()

	maxCalls := 0
	peak := stats.HourlyData[0]
	for _, h := range stats.HourlyData {
		if h.Calls > maxCalls {
			maxCalls = h.Calls
		}
		if h.Calls > peak.Calls {
			peak = h
		}
	}

	for _, h := range stats.HourlyData {
		fmt.Println(cli.RenderBar(h.Label, h.Calls, maxCalls, 40, false))
	}

	fmt.Printf("\n  Peak: %s (%s calls, %s booked)\n\n",
		peak.Label, cli.FormatNumber(int64(peak.Calls)), cli.FormatNumber(int64(peak.Bookings)))
	return nil
}
