package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/callboard/internal/callapi"
	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/config"
	"github.com/theirongolddev/callboard/internal/pipeline"
	"github.com/theirongolddev/callboard/internal/source"
	"github.com/theirongolddev/callboard/internal/store"
)

const remoteExportName = "remote/calls.jsonl"

var (
	flagSyncRemote    bool
	flagSyncBatchSize int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the call cache from exports (and optionally the API)",
	Long: "Reparse changed exports into the SQLite cache and drop deleted ones. " +
		"With --remote, every page of the call-log API is first downloaded into " +
		"the data directory as " + remoteExportName + ".",
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&flagSyncRemote, "remote", false, "Download all calls from the call-log API first")
	syncCmd.Flags().IntVar(&flagSyncBatchSize, "batch-size", 100, "Records per API request")
	rootCmd.AddCommand(syncCmd)
}

func runSync(_ *cobra.Command, _ []string) error {
	if flagSyncRemote {
		if err := downloadRemote(); err != nil {
			return err
		}
	}

	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	start := time.Now()
	cr, err := pipeline.LoadWithCache(flagDataDir, cache, nil)
	if err != nil {
		return err
	}
	cached, err := cache.CallCount()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SYNC"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Item", "Value"},
		Rows: [][]string{
			{"Data dir", flagDataDir},
			{"Cache", pipeline.CachePath()},
			{"---"},
			{"Export files", cli.FormatNumber(int64(cr.TotalFiles))},
			{"Unchanged", cli.FormatNumber(int64(cr.CacheHits))},
			{"Reparsed", cli.FormatNumber(int64(cr.Reparsed))},
			{"Removed", cli.FormatNumber(int64(cr.Pruned))},
			{"---"},
			{"Calls cached", cli.FormatNumber(int64(cached))},
			{"Skipped records", cli.FormatNumber(int64(cr.ParseErrors))},
			{"Unreadable files", cli.FormatNumber(int64(cr.FileErrors))},
		},
		Footer: fmt.Sprintf("done in %s", time.Since(start).Round(time.Millisecond)),
	}))
	return nil
}

func downloadRemote() error {
	client := callapi.NewClient(appCfg.API.BaseURL, config.GetAPIToken(appCfg))
	if client == nil {
		return errors.New("no call-log API configured (set api.base_url or run `callboard setup`)")
	}
	if flagSyncBatchSize < 1 {
		return fmt.Errorf("--batch-size must be at least 1")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Downloading calls from %s...\n", appCfg.API.BaseURL)
	}
	records, err := client.FetchAll(ctx, flagSyncBatchSize)
	if err != nil {
		if errors.Is(err, callapi.ErrUnauthorized) {
			return fmt.Errorf("%w: update the token with `callboard setup` or $%s", err, config.EnvAPIToken)
		}
		return err
	}

	path := filepath.Join(flagDataDir, filepath.FromSlash(remoteExportName))
	if err := source.WriteJSONL(path, records); err != nil {
		return err
	}
	log.Info().Int("calls", len(records)).Str("path", path).Msg("remote export written")
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Saved %s calls to %s\n", cli.FormatNumber(int64(len(records))), path)
	}
	return nil
}
