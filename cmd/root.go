// Package cmd implements the callboard CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/config"
	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/pipeline"
	"github.com/theirongolddev/callboard/internal/store"
)

var (
	flagDays      int
	flagDirection string
	flagNoCache   bool
	flagDataDir   string
	flagTimezone  string
	flagQuiet     bool
	flagLogLevel  string
)

// appCfg is loaded once before any command runs.
var appCfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:               "callboard",
	Short:             "Call log dashboard CLI",
	Long:              "Summarize phone call logs: answer rates, durations, sentiment, trends and paged call listings.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 30, "Time window in days (0 = all time)")
	rootCmd.PersistentFlags().StringVar(&flagDirection, "direction", "", "Only inbound or outbound calls")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Call export directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "tz", "", "IANA time zone for calendar buckets (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

// setup configures logging and fills unset flags from the config file.
func setup(cmd *cobra.Command, _ []string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    termenv.NewOutput(os.Stderr).Profile == termenv.Ascii,
	})
	level, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appCfg = cfg

	flags := cmd.Flags()
	if !flags.Changed("days") {
		flagDays = cfg.General.DefaultDays
	}
	if flagDataDir == "" {
		flagDataDir = config.DataDir(cfg)
	}
	if flagTimezone != "" {
		if _, err := time.LoadLocation(flagTimezone); err != nil {
			return fmt.Errorf("invalid --tz: %w", err)
		}
		appCfg.General.Timezone = flagTimezone
	}
	switch strings.ToLower(flagDirection) {
	case "", string(model.DirectionInbound), string(model.DirectionOutbound):
		flagDirection = strings.ToLower(flagDirection)
	default:
		return fmt.Errorf("invalid --direction %q (want inbound or outbound)", flagDirection)
	}
	if flagDays < 0 {
		return fmt.Errorf("--days must not be negative")
	}
	return nil
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning call exports...\n")
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	if !flagNoCache {
		cr, err := loadCached(progressFn)
		if err == nil {
			return &cr.LoadResult, nil
		}
		log.Warn().Err(err).Msg("cache unavailable, doing full parse")
	}

	result, err := pipeline.Load(flagDataDir, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s calls from %d files (%d accounts)    \n",
			cli.FormatNumber(int64(len(result.Calls))),
			result.ParsedFiles,
			result.AccountCount,
		)
	}
	return result, nil
}

func loadCached(progressFn pipeline.ProgressFunc) (*pipeline.CachedLoadResult, error) {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return nil, err
	}
	defer func() { _ = cache.Close() }()

	cr, err := pipeline.LoadWithCache(flagDataDir, cache, progressFn)
	if err != nil {
		return nil, err
	}
	if !flagQuiet && cr.TotalFiles > 0 {
		if cr.Reparsed == 0 {
			fmt.Fprintf(os.Stderr, "\r  Loaded %s calls from cache (%d accounts)    \n",
				cli.FormatNumber(int64(len(cr.Calls))),
				cr.AccountCount,
			)
		} else {
			fmt.Fprintf(os.Stderr, "\r  %s cached + %d reparsed files (%d accounts)    \n",
				cli.FormatNumber(int64(cr.CacheHits)),
				cr.Reparsed,
				cr.AccountCount,
			)
		}
	}
	return cr, nil
}

// location is the zone used for every calendar computation.
func location() *time.Location {
	return config.Location(appCfg)
}

// applyFilters narrows records to the time window and direction and orders
// them newest first. It returns the reference "now" in the display zone.
func applyFilters(records []model.CallRecord) ([]model.CallRecord, time.Time) {
	now := time.Now().In(location())

	filtered := records
	if flagDays > 0 {
		filtered = pipeline.FilterByTime(filtered, now.AddDate(0, 0, -flagDays), time.Time{})
	}
	filtered = pipeline.FilterByDirection(filtered, flagDirection)
	return pipeline.SortNewestFirst(filtered), now
}

func windowLabel() string {
	if flagDays == 0 {
		return "All time"
	}
	return fmt.Sprintf("Last %dd", flagDays)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
