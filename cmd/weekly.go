package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/pipeline"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Calls, bookings and satisfaction by weekday",
	RunE:  runWeekly,
}

func init() {
	rootCmd.AddCommand(weeklyCmd)
}

func runWeekly(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	filtered, now := applyFilters(result.Calls)
	stats := pipeline.Aggregate(filtered, now)
	if stats.Total == 0 {
		fmt.Println("\n  No calls found in the selected time range.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CALLS BY WEEKDAY  " + windowLabel()))
	fmt.Println()

	rows := make([][]string, 0, len(stats.WeeklyData))
	series := make([]float64, 0, len(stats.WeeklyData))
	for _, d := range stats.WeeklyData {
		sat := cli.Placeholder
		if d.Satisfaction != nil {
			sat = fmt.Sprintf("%.1f / 5", *d.Satisfaction)
		}
		label := d.Label
		if d.Highlight {
			label += " ★"
		}
		rows = append(rows, []string{
			label,
			cli.FormatNumber(int64(d.Calls)),
			cli.FormatNumber(int64(d.Bookings)),
			sat,
		})
		series = append(series, float64(d.Calls))
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Day", "Calls", "Booked", "Satisfaction"},
		Rows:    rows,
		Footer:  "★ busiest day",
	}))
	fmt.Println()
	fmt.Println(cli.RenderLineChart(series, 42, 8, "calls per weekday, Sun → Sat"))
	fmt.Println()
	return nil
}
