package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/callboard/internal/config"
	"github.com/theirongolddev/callboard/internal/pipeline"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", config.DataDir(cfg))
	fmt.Printf("    Default days:   %d\n", cfg.General.DefaultDays)
	tz := cfg.General.Timezone
	if tz == "" {
		tz = "local"
	}
	fmt.Printf("    Timezone:       %s\n", tz)
	fmt.Printf("    Cache:          %s\n", pipeline.CachePath())
	fmt.Println()

	fmt.Println("  [Table]")
	fmt.Printf("    Page size: %d\n", cfg.Table.PageSize)
	fmt.Println()

	fmt.Println("  [API]")
	if cfg.API.BaseURL != "" {
		fmt.Printf("    Base URL: %s\n", cfg.API.BaseURL)
	} else {
		fmt.Println("    Base URL: not configured")
	}
	if tok := config.GetAPIToken(cfg); tok != "" {
		fmt.Printf("    Token:    %s\n", maskAPIKey(tok))
	} else {
		fmt.Println("    Token:    not configured")
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Poll interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	if len(cfg.Daemon.AllowedOrigins) > 0 {
		fmt.Printf("    CORS origins:  %s\n", strings.Join(cfg.Daemon.AllowedOrigins, ", "))
	}
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh:     %v\n", cfg.TUI.AutoRefresh)
	fmt.Printf("    Refresh interval: %s\n", config.RefreshInterval(cfg))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `callboard setup` to reconfigure.")
	return nil
}
