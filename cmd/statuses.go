package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/pipeline"
)

var statusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "Call status distribution",
	RunE:  runStatuses,
}

func init() {
	rootCmd.AddCommand(statusesCmd)
}

func runStatuses(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	filtered, now := applyFilters(result.Calls)
	stats := pipeline.Aggregate(filtered, now)
	if len(stats.StatusDistribution) == 0 {
		fmt.Println("\n  No calls found in the selected time range.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CALL STATUS  " + windowLabel()))
	fmt.Println()

	rows := make([][]string, 0, len(stats.StatusDistribution))
	for _, sc := range stats.StatusDistribution {
		rows = append(rows, []string{
			sc.Label,
			cli.FormatNumber(int64(sc.Count)),
			fmt.Sprintf("%d%%", sc.Percentage),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Status", "Calls", "Share"},
		Rows:    rows,
		Footer:  fmt.Sprintf("%s calls", cli.FormatNumber(int64(stats.Total))),
	}))
	return nil
}
