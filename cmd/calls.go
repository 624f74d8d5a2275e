package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/callboard/internal/callapi"
	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/config"
	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/pipeline"
	"github.com/theirongolddev/callboard/internal/table"
)

var (
	flagCallsPage     int
	flagCallsPageSize int
	flagCallsSearch   string
	flagCallsStatus   string
	flagCallsRemote   bool
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Paged call list with search and filters",
	Long: "List calls newest first. Search matches any field; --status and --direction " +
		"filter by exact value. With --remote, pages are fetched from the configured call-log API.",
	RunE: runCalls,
}

func init() {
	callsCmd.Flags().IntVar(&flagCallsPage, "page", 1, "Page number (1-based)")
	callsCmd.Flags().IntVar(&flagCallsPageSize, "page-size", 0, "Rows per page (default from config)")
	callsCmd.Flags().StringVarP(&flagCallsSearch, "search", "s", "", "Case-insensitive search across all fields")
	callsCmd.Flags().StringVar(&flagCallsStatus, "status", "", "Only calls with this status (Completed, Missed, In Progress, Unknown)")
	callsCmd.Flags().BoolVar(&flagCallsRemote, "remote", false, "Fetch the page from the call-log API")
	rootCmd.AddCommand(callsCmd)
}

func runCalls(_ *cobra.Command, _ []string) error {
	size := flagCallsPageSize
	if size == 0 {
		size = appCfg.Table.PageSize
	}
	if size < 1 {
		return fmt.Errorf("--page-size: %w", table.ErrInvalidPageSize)
	}

	var (
		engine *table.Engine[model.CallRecord]
		err    error
		title  string
	)
	if flagCallsRemote {
		engine, err = remoteCallTable(size)
		title = "CALLS  remote"
	} else {
		engine, err = localCallTable(size)
		title = "CALLS  " + windowLabel()
	}
	if err != nil {
		return err
	}

	engine.SetSearch(flagCallsSearch)
	engine.SetFilter(pipeline.FilterStatus, flagCallsStatus)
	if flagCallsRemote {
		engine.SetFilter(pipeline.FilterDirection, flagDirection)
	}
	if !engine.IsManual() {
		engine.GoToPage(flagCallsPage)
	}

	v := engine.View()
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	if v.Total == 0 || len(v.Rows) == 0 {
		fmt.Println("  No matching calls.")
		return nil
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   engine.Headers(),
		Rows:      engine.Cells(v.Rows),
		Footer:    cli.RenderPageFooter(v.Page, v.TotalPages, v.PageSize, v.Total, len(v.Rows)),
		LeftAlign: []int{1, 2, 4, 6},
	}))
	return nil
}

func localCallTable(size int) (*table.Engine[model.CallRecord], error) {
	result, err := loadData()
	if err != nil {
		return nil, err
	}
	filtered, _ := applyFilters(result.Calls)
	return pipeline.NewCallTable(filtered, size, location(), nil)
}

// remoteCallTable fetches a single page; the server owns pagination, so
// search and filters only narrow the rows of that page.
func remoteCallTable(size int) (*table.Engine[model.CallRecord], error) {
	client := callapi.NewClient(appCfg.API.BaseURL, config.GetAPIToken(appCfg))
	if client == nil {
		return nil, errors.New("no call-log API configured (set api.base_url or run `callboard setup`)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	page, err := client.FetchCalls(ctx, flagCallsPage, size)
	if err != nil {
		return nil, fmt.Errorf("fetching calls: %w", err)
	}
	if page.ParseErrors > 0 && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %d records in the response could not be read\n", page.ParseErrors)
	}

	return pipeline.NewCallTable(page.Calls, size, location(), &table.Manual{
		Page:     page.Page,
		PageSize: size,
		Total:    page.Total,
	})
}
