package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/config"
	"github.com/theirongolddev/callboard/internal/pipeline"
	"github.com/theirongolddev/callboard/internal/tui/components"
	"github.com/theirongolddev/callboard/internal/tui/theme"
)

const (
	settingsFieldBaseURL = iota
	settingsFieldToken
	settingsFieldTheme
	settingsFieldDays
	settingsFieldPageSize
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldTimezone
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldBaseURL:
		ti.Placeholder = "https://calls.example.com/api"
		ti.SetValue(cfg.API.BaseURL)
	case settingsFieldToken:
		ti.Placeholder = "bearer token"
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.SetValue(config.GetAPIToken(cfg))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldDays:
		ti.Placeholder = "30 (0 = all time)"
		ti.SetValue(strconv.Itoa(a.days))
	case settingsFieldPageSize:
		ti.Placeholder = "10"
		ti.SetValue(strconv.Itoa(a.calls.engine.PageSize()))
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = "30 (seconds, minimum 5)"
		ti.SetValue(strconv.Itoa(int(a.refreshInterval.Seconds())))
	case settingsFieldTimezone:
		ti.Placeholder = "Europe/Berlin (empty = local)"
		ti.SetValue(cfg.General.Timezone)
	}

	ti.Focus()
	a.settings.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, cmd
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value, applies it to the running
// dashboard and persists it. Invalid input is reported and nothing is saved.
func (a *App) settingsSave() tea.Cmd {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())
	var cmd tea.Cmd

	switch a.settings.cursor {
	case settingsFieldBaseURL:
		if err := validateBaseURL(val); err != nil {
			a.settings.saveErr = err
			return nil
		}
		cfg.API.BaseURL = val
	case settingsFieldToken:
		cfg.API.Token = val
	case settingsFieldTheme:
		if !slices.Contains(theme.Names(), val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return nil
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldDays:
		d, err := strconv.Atoi(val)
		if err != nil || d < 0 {
			a.settings.saveErr = fmt.Errorf("days must be a whole number ≥ 0")
			return nil
		}
		cfg.General.DefaultDays = d
		a.days = d
		a.recompute()
	case settingsFieldPageSize:
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			a.settings.saveErr = fmt.Errorf("page size must be at least 1")
			return nil
		}
		cfg.Table.PageSize = n
		_ = a.calls.engine.SetPageSize(n)
		cmd = a.calls.pendingFetch()
		a.calls.sync(a.contentWidth(), a.callsTableHeight())
	case settingsFieldAutoRefresh:
		b, err := strconv.ParseBool(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("auto refresh must be true or false")
			return nil
		}
		cfg.TUI.AutoRefresh = b
		a.autoRefresh = b
	case settingsFieldRefreshInterval:
		n, err := strconv.Atoi(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("interval must be a number of seconds")
			return nil
		}
		cfg.TUI.RefreshIntervalSec = n
		a.refreshInterval = config.RefreshInterval(cfg)
	case settingsFieldTimezone:
		loc := time.Local
		if val != "" {
			l, err := time.LoadLocation(val)
			if err != nil {
				a.settings.saveErr = err
				return nil
			}
			loc = l
		}
		cfg.General.Timezone = val
		a.loc = loc
		a.calls.rebuild(loc, a.filtered)
		cmd = a.calls.pendingFetch()
		a.recompute()
	}

	a.settings.saveErr = config.Save(cfg)
	return cmd
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	notSet := "(not set)"
	orNotSet := func(s string) string {
		if s == "" {
			return notSet
		}
		return s
	}
	token := notSet
	if tok := config.GetAPIToken(cfg); tok != "" {
		token = maskSecret(tok)
	}
	days := "all time"
	if a.days > 0 {
		days = strconv.Itoa(a.days)
	}
	tz := cfg.General.Timezone
	if tz == "" {
		tz = "local (" + time.Local.String() + ")"
	}

	fields := []struct{ label, value string }{
		{"API Base URL", orNotSet(cfg.API.BaseURL)},
		{"API Token", token},
		{"Theme", cfg.Appearance.Theme},
		{"Default Days", days},
		{"Page Size", strconv.Itoa(a.calls.engine.PageSize())},
		{"Auto Refresh", strconv.FormatBool(a.autoRefresh)},
		{"Refresh Interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
		{"Timezone", tz},
	}

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			form.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := innerW - used; pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			form.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		form.WriteString("\n")
		form.WriteString(warnStyle.Render("Not saved: " + a.settings.saveErr.Error()))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("Data directory:  ") + valueStyle.Render(a.dataDir) + "\n")
	info.WriteString(labelStyle.Render("Calls loaded:    ") + valueStyle.Render(cli.FormatNumber(int64(len(a.records)))) + "\n")
	info.WriteString(labelStyle.Render("Load time:       ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	info.WriteString(labelStyle.Render("Cache:           ") + valueStyle.Render(pipeline.CachePath()) + "\n")
	info.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", info.String(), cw))
	return b.String()
}
