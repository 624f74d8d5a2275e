package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/callboard/internal/callapi"
	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/pipeline"
	"github.com/theirongolddev/callboard/internal/table"
	"github.com/theirongolddev/callboard/internal/tui/components"
	"github.com/theirongolddev/callboard/internal/tui/theme"
)

const fetchTimeout = 15 * time.Second

var (
	statusChoices    = []string{table.AllValues, "Completed", "Missed", "In Progress", "Unknown"}
	directionChoices = []string{table.AllValues, string(model.DirectionInbound), string(model.DirectionOutbound)}
)

// CallsPageMsg carries one page fetched from the call-log API.
type CallsPageMsg struct {
	Seq  int
	Size int
	Page *callapi.Page
	Err  error
}

// remotePaging is shared by every copy of the model: the engine's page
// callbacks and async fetches write to it from value-receiver methods.
type remotePaging struct {
	seq      int
	page     int
	size     int
	pending  bool
	fetching bool
	err      error
	rows     []model.CallRecord // last fetched page, unfiltered
}

// callsState holds the Calls tab state. The engine owns search, filters and
// pagination; view only renders the current page.
type callsState struct {
	engine *table.Engine[model.CallRecord]
	view   btable.Model
	rows   []model.CallRecord // current page, in view order
	loc    *time.Location

	searching bool
	search    textinput.Model
	detail    bool
	statusIdx int
	dirIdx    int

	client *callapi.Client
	remote *remotePaging
}

func newCallsState(client *callapi.Client, pageSize int, loc *time.Location) callsState {
	if pageSize < 1 {
		pageSize = table.DefaultPageSize
	}
	cs := callsState{
		loc:    loc,
		client: client,
		remote: &remotePaging{page: 1, size: pageSize},
		view:   newCallsTable(),
	}
	cs.engine = cs.buildEngine(nil, pageSize)
	if client != nil {
		cs.remote.fetching = true
	}
	return cs
}

// buildEngine creates a local engine over rows, or a manual one whose page
// changes are queued for fetching when a client is configured.
func (c *callsState) buildEngine(rows []model.CallRecord, pageSize int) *table.Engine[model.CallRecord] {
	var manual *table.Manual
	if c.client != nil {
		rp := c.remote
		manual = &table.Manual{
			Page:     rp.page,
			PageSize: pageSize,
			OnPageChange: func(page int) {
				rp.page = page
				rp.pending = true
			},
			OnPageSizeChange: func(size int) {
				rp.size = size
				rp.page = 1
				rp.pending = true
			},
		}
	}
	engine, err := pipeline.NewCallTable(rows, pageSize, c.loc, manual)
	if err != nil {
		// Only an invalid page size fails, and pageSize is validated above.
		engine, _ = pipeline.NewCallTable(rows, table.DefaultPageSize, c.loc, manual)
	}
	return engine
}

func newCallsTable() btable.Model {
	t := theme.Active

	km := btable.DefaultKeyMap()
	// f and d drive the filters; keep page motion on the dedicated keys.
	km.PageDown = key.NewBinding(key.WithKeys("pgdown", " "))
	km.PageUp = key.NewBinding(key.WithKeys("pgup"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"))
	km.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"))

	styles := btable.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(t.Accent).
		Background(t.Surface).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Surface).
		BorderBottom(true).
		Bold(true)
	styles.Cell = styles.Cell.Foreground(t.TextPrimary).Background(t.Surface)
	styles.Selected = lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)

	return btable.New(
		btable.WithFocused(true),
		btable.WithKeyMap(km),
		btable.WithStyles(styles),
	)
}

// callColumnWidths sizes the table columns to the inner card width. Summary
// takes whatever is left.
func callColumnWidths(headers []string, width int) []btable.Column {
	fixed := map[string]int{
		"Time":     16,
		"Caller":   15,
		"Status":   11,
		"Duration": 9,
		"Dir":      8,
		"Booked":   6,
	}
	used := 0
	for _, h := range headers {
		used += fixed[h] + 2 // cell padding
	}
	cols := make([]btable.Column, len(headers))
	for i, h := range headers {
		w, ok := fixed[h]
		if !ok {
			w = max(width-used-2, 10)
		}
		cols[i] = btable.Column{Title: h, Width: w}
	}
	return cols
}

// sync pushes the engine's current page into the bubbles table.
func (c *callsState) sync(width, height int) {
	v := c.engine.View()
	c.rows = v.Rows

	inner := components.CardInnerWidth(width)
	cells := c.engine.Cells(v.Rows)
	rows := make([]btable.Row, len(cells))
	for i, r := range cells {
		rows[i] = btable.Row(r)
	}

	// Columns before rows: bubbles renders rows against the current columns.
	c.view.SetRows(nil)
	c.view.SetColumns(callColumnWidths(c.engine.Headers(), inner))
	c.view.SetRows(rows)
	c.view.SetWidth(inner)
	c.view.SetHeight(height)
	c.view.SetCursor(c.view.Cursor())
}

func (c *callsState) selected() (model.CallRecord, bool) {
	i := c.view.Cursor()
	if i < 0 || i >= len(c.rows) {
		return model.CallRecord{}, false
	}
	return c.rows[i], true
}

func (c *callsState) isFetching() bool { return c.remote.fetching }

func (c *callsState) fetchErr() error { return c.remote.err }

// pendingFetch turns a page change queued by the engine into a fetch.
func (c *callsState) pendingFetch() tea.Cmd {
	if c.client == nil || !c.remote.pending {
		return nil
	}
	c.remote.pending = false
	return c.fetch()
}

func (c *callsState) initialFetch() tea.Cmd {
	return c.fetch()
}

// refetch reloads the current page.
func (c *callsState) refetch() tea.Cmd {
	c.remote.page = c.engine.Page()
	return c.fetch()
}

func (c *callsState) fetch() tea.Cmd {
	rp := c.remote
	rp.seq++
	rp.fetching = true
	seq, page, size, client := rp.seq, rp.page, rp.size, c.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		p, err := client.FetchCalls(ctx, page, size)
		return CallsPageMsg{Seq: seq, Size: size, Page: p, Err: err}
	}
}

// applyPage installs a fetched page. Responses to superseded requests are
// dropped.
func (c *callsState) applyPage(msg CallsPageMsg) {
	rp := c.remote
	if msg.Seq != rp.seq {
		return
	}
	rp.fetching = false
	if msg.Err != nil {
		rp.err = msg.Err
		return
	}
	rp.err = nil
	rp.rows = msg.Page.Calls
	c.engine.SetRows(msg.Page.Calls)
	c.engine.SetManualPage(msg.Page.Page, msg.Size, msg.Page.Total)
	rp.page = c.engine.Page()
}

// rebuild recreates the engine for a new display zone, keeping search,
// filters and page size.
func (c *callsState) rebuild(loc *time.Location, rows []model.CallRecord) {
	search := c.engine.Search()
	status := c.engine.FilterValue(pipeline.FilterStatus)
	dir := c.engine.FilterValue(pipeline.FilterDirection)
	size := c.engine.PageSize()
	total := c.engine.View().Total

	c.loc = loc
	if c.client != nil {
		rows = c.remote.rows
	}
	c.engine = c.buildEngine(rows, size)
	if c.client != nil {
		c.engine.SetManualPage(c.remote.page, size, total)
	}
	c.engine.SetSearch(search)
	c.engine.SetFilter(pipeline.FilterStatus, status)
	c.engine.SetFilter(pipeline.FilterDirection, dir)
}

// ─── App wiring ─────────────────────────────────────────────────

func (a App) callsTableHeight() int {
	// card border (2) + title (1) + filter line (1) + footer (2)
	return max(a.contentHeight()-6, 3)
}

func newSearchInput(value string) textinput.Model {
	t := theme.Active
	ti := textinput.New()
	ti.Placeholder = "number, summary, transcript..."
	ti.Prompt = "/ "
	ti.CharLimit = 128
	ti.Width = 40
	ti.SetValue(value)
	ti.PromptStyle = lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	ti.TextStyle = lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	return ti
}

// updateCallsSearch handles key events while the search input is focused.
// The term applies on Enter.
func (a App) updateCallsSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.calls.searching = false
		a.calls.engine.SetSearch(strings.TrimSpace(a.calls.search.Value()))
		cmd := a.calls.pendingFetch()
		a.calls.sync(a.contentWidth(), a.callsTableHeight())
		return a, cmd
	case "esc":
		a.calls.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.calls.search, cmd = a.calls.search.Update(msg)
	return a, cmd
}

// updateCallsKey handles Calls tab bindings. handled is false for keys the
// global handler should see.
func (a App) updateCallsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	cs := &a.calls
	e := cs.engine

	switch msg.String() {
	case "/":
		cs.searching = true
		cs.detail = false
		cs.search = newSearchInput(e.Search())
		cs.search.Focus()
		return a, textinput.Blink, true
	case "f":
		cs.statusIdx = (cs.statusIdx + 1) % len(statusChoices)
		e.SetFilter(pipeline.FilterStatus, statusChoices[cs.statusIdx])
	case "d":
		cs.dirIdx = (cs.dirIdx + 1) % len(directionChoices)
		e.SetFilter(pipeline.FilterDirection, directionChoices[cs.dirIdx])
	case "]", "n":
		e.NextPage()
	case "[", "p":
		e.PrevPage()
	case "+", "=":
		_ = e.SetPageSize(e.PageSize() + 5)
	case "-":
		if e.PageSize() > 5 {
			_ = e.SetPageSize(e.PageSize() - 5)
		}
	case "enter":
		if _, ok := cs.selected(); ok {
			cs.detail = !cs.detail
		}
		return a, nil, true
	case "esc":
		switch {
		case cs.detail:
			cs.detail = false
		case e.Search() != "":
			e.SetSearch("")
		default:
			return a, nil, true
		}
	case "up", "k", "down", "j", "g", "G", "home", "end", "pgup", "pgdown", "ctrl+u", "ctrl+d", " ":
		if cs.detail {
			return a, nil, true
		}
		var cmd tea.Cmd
		cs.view, cmd = cs.view.Update(msg)
		return a, cmd, true
	default:
		return a, nil, false
	}

	cmd := cs.pendingFetch()
	cs.sync(a.contentWidth(), a.callsTableHeight())
	return a, cmd, true
}

// ─── Rendering ──────────────────────────────────────────────────

func (a App) renderCallsTab(cw, h int) string {
	t := theme.Active
	cs := a.calls

	if cs.detail {
		if rec, ok := cs.selected(); ok {
			return a.renderCallDetail(rec, cw, h)
		}
	}

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	pill := func(label, value string) string {
		if value == "" {
			value = table.AllValues
		}
		return muted.Render(label+": ") + accent.Render(value)
	}

	var filterLine string
	if cs.searching {
		filterLine = cs.search.View()
	} else {
		filterLine = pill("Status", cs.engine.FilterValue(pipeline.FilterStatus)) +
			dim.Render("  ") + pill("Dir", cs.engine.FilterValue(pipeline.FilterDirection))
		if s := cs.engine.Search(); s != "" {
			filterLine += dim.Render("  ") + muted.Render("Search: ") + accent.Render(truncStr(s, 30))
		}
	}

	v := cs.engine.View()
	var body strings.Builder
	body.WriteString(filterLine)
	body.WriteString("\n")
	switch {
	case cs.remote.err != nil && len(v.Rows) == 0:
		body.WriteString(warn.Render("Fetch failed: " + cs.remote.err.Error()))
	case cs.remote.fetching && len(v.Rows) == 0:
		body.WriteString(muted.Render("Loading calls…"))
	case len(v.Rows) == 0:
		body.WriteString(muted.Render("No matching calls"))
	default:
		body.WriteString(cs.view.View())
	}
	body.WriteString("\n\n")

	footer := pageFooter(v.Page, v.TotalPages, v.PageSize, v.Total)
	if cs.remote.fetching && len(v.Rows) > 0 {
		footer += " · loading…"
	}
	body.WriteString(muted.Render(footer))
	body.WriteString(dim.Render("   [/] search [f] status [d] dir [[ ]] page [+/-] size [enter] detail"))

	title := "Calls"
	if a.days > 0 && cs.client == nil {
		title = fmt.Sprintf("Calls [%dd]", a.days)
	}
	if cs.client != nil {
		title = "Calls · " + cs.client.Host()
	}
	return components.ContentCard(title, body.String(), cw)
}

func pageFooter(page, totalPages, pageSize, total int) string {
	if totalPages == 0 {
		return fmt.Sprintf("0 calls · %d per page", pageSize)
	}
	return fmt.Sprintf("Page %d/%d · %d per page · %s calls",
		page, totalPages, pageSize, cli.FormatNumber(int64(total)))
}

func (a App) renderCallDetail(r model.CallRecord, cw, h int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	status := pipeline.ResolveStatus(&r)
	statusStyle := lipgloss.NewStyle().Foreground(t.Status(status.String())).Background(t.Surface).Bold(true)

	booked := "no"
	if r.LinkedAppointment {
		booked = "yes"
	}
	orDash := func(s string) string {
		if s == "" {
			return cli.Placeholder
		}
		return s
	}

	fields := []struct{ k, v string }{
		{"Call ID", orDash(r.CallID)},
		{"From", cli.FormatPhone(r.FromNumber)},
		{"To", cli.FormatPhone(r.ToNumber)},
		{"Direction", orDash(string(r.Direction))},
		{"Started", cli.FormatTimestamp(r.StartTimestamp, a.loc)},
		{"Ended", cli.FormatTimestamp(r.EndTimestamp, a.loc)},
		{"Duration", cli.FormatDurationPtr(r.DurationMs)},
		{"Sentiment", orDash(r.Sentiment)},
		{"Booked", booked},
		{"Recording", orDash(r.RecordingURL)},
	}

	inner := components.CardInnerWidth(cw)
	var b strings.Builder
	b.WriteString(label.Render(fmt.Sprintf("%-11s", "Status")))
	b.WriteString(statusStyle.Render(status.String()))
	b.WriteString("\n")
	for _, f := range fields {
		b.WriteString(label.Render(fmt.Sprintf("%-11s", f.k)))
		b.WriteString(value.Render(truncStr(f.v, inner-11)))
		b.WriteString("\n")
	}

	wrap := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(inner)
	if r.CallSummary != "" {
		b.WriteString("\n")
		b.WriteString(section.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(wrap.Render(r.CallSummary))
		b.WriteString("\n")
	}
	transcript := r.Transcript
	if transcript == "" && len(r.TranscriptWithToolCalls) > 0 {
		var lines []string
		for _, turn := range r.TranscriptWithToolCalls {
			switch {
			case turn.ToolName != "":
				lines = append(lines, fmt.Sprintf("[%s]", turn.ToolName))
			case turn.Content != "":
				lines = append(lines, turn.Role+": "+turn.Content)
			}
		}
		transcript = strings.Join(lines, "\n")
	}
	if transcript != "" {
		b.WriteString("\n")
		b.WriteString(section.Render("Transcript"))
		b.WriteString("\n")
		// Leave room for the header fields; the rest of the transcript is cut.
		room := max(h-len(fields)-10, 3)
		b.WriteString(truncateHeight(wrap.Render(transcript), room))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("[Esc] back to list"))

	return components.ContentCard("Call "+truncStr(r.CallID, 24), b.String(), cw)
}
