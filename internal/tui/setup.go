package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/callboard/internal/callapi"
	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/config"
	"github.com/theirongolddev/callboard/internal/tui/theme"
)

// SetupValues holds the first-run form results.
type SetupValues struct {
	BaseURL string
	Token   string
	Days    int
	Theme   string
}

// NewSetupForm builds the first-run form, prefilled from cfg. callCount and
// dataDir only feed the welcome note.
func NewSetupForm(cfg config.Config, callCount int, dataDir string, vals *SetupValues) *huh.Form {
	vals.BaseURL = cfg.API.BaseURL
	vals.Days = cfg.General.DefaultDays
	vals.Theme = cfg.Appearance.Theme

	welcome := fmt.Sprintf("Found %s calls in %s.\nEverything here can be changed later in Settings or with `callboard setup`.",
		cli.FormatNumber(int64(callCount)), dataDir)
	if callCount == 0 {
		welcome = fmt.Sprintf("No call exports found in %s yet.\nPoint general.data_dir at your exports, or configure the API and run `callboard sync --remote`.", dataDir)
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	tokenDesc := "Sent as a bearer token."
	if existing := config.GetAPIToken(cfg); existing != "" {
		tokenDesc = "Current: " + maskSecret(existing) + ". Leave empty to keep it."
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to callboard").
				Description(welcome),
			huh.NewInput().
				Title("Call-log API base URL").
				Description("Optional. Enables remote paging and sync.").
				Placeholder("https://calls.example.com/api").
				Value(&vals.BaseURL).
				Validate(validateBaseURL),
			huh.NewInput().
				Title("API token").
				Description(tokenDesc).
				EchoMode(huh.EchoModePassword).
				Value(&vals.Token),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default time range").
				Options(
					huh.NewOption("7 days", 7),
					huh.NewOption("30 days", 30),
					huh.NewOption("90 days", 90),
					huh.NewOption("All time", 0),
				).
				Value(&vals.Days),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}

// ApplySetup merges form results into cfg. An empty token keeps the
// existing one.
func ApplySetup(cfg config.Config, vals SetupValues) config.Config {
	cfg.API.BaseURL = strings.TrimSpace(vals.BaseURL)
	if tok := strings.TrimSpace(vals.Token); tok != "" {
		cfg.API.Token = tok
	}
	cfg.General.DefaultDays = vals.Days
	if vals.Theme != "" {
		cfg.Appearance.Theme = vals.Theme
	}
	return cfg
}

func validateBaseURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if callapi.NewClient(s, "") == nil {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

func maskSecret(s string) string {
	if len(s) > 12 {
		return s[:4] + "..." + s[len(s)-4:]
	}
	return "****"
}

func newSetupForm(callCount int, dataDir string, vals *SetupValues) *huh.Form {
	return NewSetupForm(loadConfigOrDefault(), callCount, dataDir, vals)
}

func (a *App) saveSetupConfig() {
	cfg := ApplySetup(loadConfigOrDefault(), a.setupVals)
	theme.SetActive(cfg.Appearance.Theme)
	a.days = cfg.General.DefaultDays
	if err := config.Save(cfg); err != nil {
		a.settings.saveErr = err
	}
}
