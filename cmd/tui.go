package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/callboard/internal/callapi"
	"github.com/theirongolddev/callboard/internal/config"
	"github.com/theirongolddev/callboard/internal/tui"
	"github.com/theirongolddev/callboard/internal/tui/theme"
)

var flagTUIRemote bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagTUIRemote, "remote", false, "Page the Calls tab from the call-log API")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor so every background style produces ANSI codes; lipgloss
	// may otherwise fall back to the Ascii profile.
	lipgloss.SetColorProfile(termenv.TrueColor)

	var client *callapi.Client
	if flagTUIRemote {
		client = callapi.NewClient(appCfg.API.BaseURL, config.GetAPIToken(appCfg))
		if client == nil {
			return errors.New("no call-log API configured (set api.base_url or run `callboard setup`)")
		}
	}

	app := tui.NewApp(tui.Options{
		DataDir:   flagDataDir,
		Days:      flagDays,
		Direction: flagDirection,
		Location:  location(),
		PageSize:  appCfg.Table.PageSize,
		Config:    appCfg,
		Client:    client,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
