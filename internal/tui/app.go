// Package tui provides the interactive Bubble Tea dashboard for callboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/callboard/internal/callapi"
	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/config"
	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/pipeline"
	"github.com/theirongolddev/callboard/internal/store"
	"github.com/theirongolddev/callboard/internal/tui/components"
	"github.com/theirongolddev/callboard/internal/tui/theme"
)

// DataLoadedMsg is sent when the initial load finishes.
type DataLoadedMsg struct {
	Calls       []model.CallRecord
	ParseErrors int
	LoadTime    time.Duration
	Err         error
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background reload completes.
type RefreshDataMsg struct {
	Calls    []model.CallRecord
	LoadTime time.Duration
	Err      error
}

// Options configures the dashboard.
type Options struct {
	DataDir   string
	Days      int
	Direction string
	Location  *time.Location
	PageSize  int
	Config    config.Config
	// Client switches the Calls tab to server-side paging when non-nil.
	Client *callapi.Client
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	records  []model.CallRecord
	filtered []model.CallRecord
	stats    model.AggregateStats
	loaded   bool
	loadTime time.Duration
	loadErr  error

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Filter state
	days      int
	direction string
	loc       *time.Location

	// Per-tab state
	calls    callsState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg

	dataDir string
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start and save even if the file is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	t := theme.Active
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return App{
		dataDir:         opts.DataDir,
		days:            opts.Days,
		direction:       opts.Direction,
		loc:             loc,
		needSetup:       !config.Exists(),
		autoRefresh:     opts.Config.TUI.AutoRefresh,
		refreshInterval: config.RefreshInterval(opts.Config),
		calls:           newCallsState(opts.Client, opts.PageSize, loc),
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dataDir, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	}
	if a.calls.client != nil {
		cmds = append(cmds, a.calls.initialFetch())
	}
	return tea.Batch(cmds...)
}

// recompute narrows the loaded records to the active window and direction
// and rebuilds every derived view.
func (a *App) recompute() {
	now := time.Now().In(a.loc)

	filtered := a.records
	if a.days > 0 {
		filtered = pipeline.FilterByTime(filtered, now.AddDate(0, 0, -a.days), time.Time{})
	}
	filtered = pipeline.FilterByDirection(filtered, a.direction)
	a.filtered = pipeline.SortNewestFirst(filtered)
	a.stats = pipeline.Aggregate(a.filtered, now)

	if !a.calls.engine.IsManual() {
		a.calls.engine.SetRows(a.filtered)
	}
	a.calls.sync(a.contentWidth(), a.callsTableHeight())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		a.calls.sync(a.contentWidth(), a.callsTableHeight())
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == components.TabCalls && !a.calls.searching {
				a.calls.view.MoveUp(1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == components.TabCalls && !a.calls.searching {
				a.calls.view.MoveDown(1)
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.records = msg.Calls
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		a.lastRefresh = time.Now()
		a.recompute()

		if a.needSetup {
			a.setupForm = newSetupForm(len(a.records), a.dataDir, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case CallsPageMsg:
		a.calls.applyPage(msg)
		a.calls.sync(a.contentWidth(), a.callsTableHeight())
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.dataDir))
			if a.calls.client != nil && !a.calls.isFetching() {
				cmds = append(cmds, a.calls.refetch())
			}
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.records = msg.Calls
			a.loadTime = msg.LoadTime
			a.recompute()
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// Modal states own the keyboard.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == components.TabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.activeTab == components.TabCalls && a.calls.searching {
		return a.updateCallsSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == components.TabCalls {
		if m, cmd, handled := a.updateCallsKey(msg); handled {
			return m, cmd
		}
	}

	if a.activeTab == components.TabSettings {
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if a.refreshing {
			return a, nil
		}
		a.refreshing = true
		cmds := []tea.Cmd{refreshDataCmd(a.dataDir)}
		if a.calls.client != nil {
			cmds = append(cmds, a.calls.refetch())
		}
		return a, tea.Batch(cmds...)
	case "R":
		a.autoRefresh = !a.autoRefresh
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		_ = config.Save(cfg)
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveSetupConfig()
		a.recompute()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// contentHeight is the space between the header and the status bar.
func (a App) contentHeight() int {
	h := a.height - 3
	if h < minContentHeight {
		h = minContentHeight
	}
	return h
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  callboard needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ callboard"))
	b.WriteString(subtitleStyle.Render(" · Call Metrics"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := min(40, a.width-30)
		barW = max(barW, 20)
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Parsing exports\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Scanning " + a.dataDir))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

type binding struct{ key, desc string }

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []binding
	}{
		{"Navigation", []binding{
			{"o c t x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move selection"},
		}},
		{"Calls", []binding{
			{"/", "Search all fields"},
			{"f", "Cycle status filter"},
			{"d", "Cycle direction filter"},
			{"[ ]", "Previous / Next page"},
			{"+ -", "Page size"},
			{"Enter", "Call detail"},
			{"Esc", "Close detail / clear search"},
		}},
		{"General", []binding{
			{"r", "Refresh data"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderFilterRow(w)
	statusBar := components.RenderStatusBar(w, a.statusInfo(), time.Now())
	contentH := a.contentHeight()

	var content string
	switch a.activeTab {
	case components.TabOverview:
		content = a.renderOverviewTab(cw)
	case components.TabCalls:
		content = a.renderCallsTab(cw, contentH)
	case components.TabTrends:
		content = a.renderTrendsTab(cw)
	case components.TabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderFilterRow(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	window := "all time"
	if a.days > 0 {
		window = fmt.Sprintf("%dd", a.days)
	}
	s := dim.Render(" ") + accent.Render(window)
	if a.direction != "" {
		s += dim.Render(" │ ") + accent.Render(a.direction)
	}
	s += dim.Render(" │ ") + dim.Render(a.loc.String()) + dim.Render(" ")

	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(s)
}

func (a App) statusInfo() components.StatusInfo {
	info := components.StatusInfo{
		LastRefresh: a.lastRefresh,
		Refreshing:  a.refreshing || a.calls.isFetching(),
		AutoRefresh: a.autoRefresh,
		Source:      "local",
		Err:         a.loadErr,
	}
	if a.calls.client != nil {
		info.Source = "local + " + a.calls.client.Host()
		if err := a.calls.fetchErr(); err != nil {
			info.Err = err
		}
	}
	return info
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

// ─── Loading ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadCalls reads the data directory through the SQLite cache, falling back
// to a full parse when the cache cannot be opened.
func loadCalls(dataDir string, progressFn pipeline.ProgressFunc) (*pipeline.LoadResult, error) {
	cache, err := store.Open(pipeline.CachePath())
	if err == nil {
		cr, loadErr := pipeline.LoadWithCache(dataDir, cache, progressFn)
		_ = cache.Close()
		if loadErr == nil {
			return &cr.LoadResult, nil
		}
	}
	return pipeline.Load(dataDir, progressFn)
}

// loadDataCmd starts the loader in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(dataDir string, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking: a full channel drops the update, the next one catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			result, err := loadCalls(dataDir, progressFn)
			if err != nil {
				sub <- DataLoadedMsg{LoadTime: time.Since(start), Err: err}
				return
			}
			sub <- DataLoadedMsg{
				Calls:       result.Calls,
				ParseErrors: result.ParseErrors,
				LoadTime:    time.Since(start),
			}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads in the background without progress UI.
func refreshDataCmd(dataDir string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		result, err := loadCalls(dataDir, nil)
		if err != nil {
			return RefreshDataMsg{LoadTime: time.Since(start), Err: err}
		}
		return RefreshDataMsg{Calls: result.Calls, LoadTime: time.Since(start)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color
// so gaps between cards are not left unstyled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
