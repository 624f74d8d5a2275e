// Package table implements a reusable paginated, searchable, filterable view
// over an arbitrary row sequence.
//
// An Engine runs in one of two modes. In local mode it owns searching,
// filtering and slicing of the full row set it is given. In manual mode the
// caller owns pagination (typically a server-paginated source): the rows
// handed in are already the current page, and page or page-size changes are
// forwarded to the caller's callbacks instead of being applied locally.
//
// Sorting is the caller's business: sort the rows and hand them in again.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// AllValues is the filter value that means "no filter".
const AllValues = "All"

// DefaultPageSize is used when Options.PageSize is left at zero.
const DefaultPageSize = 10

var (
	// ErrInvalidPageSize is returned for page sizes below 1.
	ErrInvalidPageSize = errors.New("table: page size must be at least 1")
	// ErrNoFields is returned when Options.Fields is nil.
	ErrNoFields = errors.New("table: a field accessor is required")
)

// Column describes one displayed column. Render is optional and receives the
// raw field value for Key plus the whole row.
type Column[R any] struct {
	Key    string
	Label  string
	Render func(value any, row R) string
}

// Filter binds a filter name to the field key it compares against.
type Filter struct {
	Name string
	Key  string
}

// Manual carries caller-controlled pagination state.
type Manual struct {
	Page     int
	PageSize int
	Total    int

	OnPageChange     func(page int)
	OnPageSizeChange func(size int)
}

// Options configures an Engine.
type Options[R any] struct {
	Columns []Column[R]
	// Fields returns the searchable/filterable values of a row by key.
	// Values should be plain scalars; they are compared by their fmt.Sprint form.
	Fields   func(R) map[string]any
	Filters  []Filter
	PageSize int
	// Manual switches the engine to caller-controlled pagination when non-nil.
	Manual *Manual
}

// PagedView is the visible slice of rows plus pagination metadata.
type PagedView[R any] struct {
	Rows       []R
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Engine holds the state of a single table instance. It is not safe for
// concurrent use; each view owns its own engine.
type Engine[R any] struct {
	columns    []Column[R]
	fields     func(R) map[string]any
	filterKeys map[string]string

	rows     []R
	search   string
	filters  map[string]string
	page     int
	pageSize int
	manual   *Manual
}

// New builds an engine over rows.
func New[R any](rows []R, opts Options[R]) (*Engine[R], error) {
	if opts.Fields == nil {
		return nil, ErrNoFields
	}
	size := opts.PageSize
	if size == 0 {
		size = DefaultPageSize
	}
	if size < 1 {
		return nil, ErrInvalidPageSize
	}

	e := &Engine[R]{
		columns:    opts.Columns,
		fields:     opts.Fields,
		filterKeys: make(map[string]string, len(opts.Filters)),
		rows:       rows,
		filters:    make(map[string]string),
		page:       1,
		pageSize:   size,
	}
	for _, f := range opts.Filters {
		e.filterKeys[f.Name] = f.Key
	}

	if opts.Manual != nil {
		m := *opts.Manual
		if m.PageSize < 1 {
			return nil, ErrInvalidPageSize
		}
		if m.Page < 1 {
			m.Page = 1
		}
		e.manual = &m
	}
	return e, nil
}

// IsManual reports whether pagination is controlled by the caller.
func (e *Engine[R]) IsManual() bool { return e.manual != nil }

// Search returns the current search term.
func (e *Engine[R]) Search() string { return e.search }

// FilterValue returns the selected value for a filter, or "" when unset.
func (e *Engine[R]) FilterValue(name string) string { return e.filters[name] }

// Page returns the current 1-based page.
func (e *Engine[R]) Page() int {
	if e.manual != nil {
		return e.manual.Page
	}
	return e.page
}

// PageSize returns the current page size.
func (e *Engine[R]) PageSize() int {
	if e.manual != nil {
		return e.manual.PageSize
	}
	return e.pageSize
}

// SetRows replaces the row set. In local mode the current page is clamped to
// the new page count; search and filters are kept.
func (e *Engine[R]) SetRows(rows []R) {
	e.rows = rows
	if e.manual != nil {
		return
	}
	tp := e.TotalPages()
	if e.page > tp {
		e.page = tp
	}
	if e.page < 1 {
		e.page = 1
	}
}

// SetManualPage updates caller-owned pagination after the caller has moved
// to another page (for example once a fetch completes). No-op in local mode.
func (e *Engine[R]) SetManualPage(page, pageSize, total int) {
	if e.manual == nil {
		return
	}
	if page < 1 {
		page = 1
	}
	if pageSize >= 1 {
		e.manual.PageSize = pageSize
	}
	e.manual.Page = page
	e.manual.Total = total
}

// SetSearch changes the search term and returns to page 1.
func (e *Engine[R]) SetSearch(term string) {
	e.search = term
	e.resetPage()
}

// SetFilter selects a value for a named filter and returns to page 1, even
// when the current page would still be valid. "" or AllValues clears it.
func (e *Engine[R]) SetFilter(name, value string) {
	if value == "" || value == AllValues {
		delete(e.filters, name)
	} else {
		e.filters[name] = value
	}
	e.resetPage()
}

// ClearFilters removes every filter selection and returns to page 1.
func (e *Engine[R]) ClearFilters() {
	e.filters = make(map[string]string)
	e.resetPage()
}

// GoToPage moves to page k, clamped to [1, TotalPages]. Nothing happens when
// there are no pages. In manual mode the clamped page goes to OnPageChange.
func (e *Engine[R]) GoToPage(k int) {
	tp := e.TotalPages()
	if tp == 0 {
		return
	}
	if k < 1 {
		k = 1
	}
	if k > tp {
		k = tp
	}

	if e.manual != nil {
		if e.manual.OnPageChange != nil {
			e.manual.OnPageChange(k)
		}
		return
	}
	e.page = k
}

// NextPage moves one page forward.
func (e *Engine[R]) NextPage() { e.GoToPage(e.Page() + 1) }

// PrevPage moves one page back.
func (e *Engine[R]) PrevPage() { e.GoToPage(e.Page() - 1) }

// SetPageSize changes the page size. Local mode returns to page 1; manual mode
// hands the new size to OnPageSizeChange and leaves the page policy to it.
func (e *Engine[R]) SetPageSize(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, n)
	}
	if e.manual != nil {
		if e.manual.OnPageSizeChange != nil {
			e.manual.OnPageSizeChange(n)
		}
		return nil
	}
	e.pageSize = n
	e.page = 1
	return nil
}

// TotalPages returns ceil(total / pageSize), or 0 when nothing matches.
func (e *Engine[R]) TotalPages() int {
	total, size := e.total(), e.PageSize()
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// View returns the rows visible on the current page.
func (e *Engine[R]) View() PagedView[R] {
	matched := e.matched()

	if e.manual != nil {
		return PagedView[R]{
			Rows:       matched,
			Total:      e.manual.Total,
			Page:       e.manual.Page,
			PageSize:   e.manual.PageSize,
			TotalPages: e.TotalPages(),
		}
	}

	v := PagedView[R]{
		Total:      len(matched),
		Page:       e.page,
		PageSize:   e.pageSize,
		TotalPages: e.TotalPages(),
	}
	start := (e.page - 1) * e.pageSize
	if start >= len(matched) {
		v.Rows = []R{}
		return v
	}
	end := start + e.pageSize
	if end > len(matched) {
		end = len(matched)
	}
	v.Rows = matched[start:end]
	return v
}

// Headers returns the column labels.
func (e *Engine[R]) Headers() []string {
	out := make([]string, len(e.columns))
	for i, c := range e.columns {
		out[i] = c.Label
	}
	return out
}

// Cells renders rows into display strings, one slice per row.
func (e *Engine[R]) Cells(rows []R) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		f := e.fields(row)
		cells := make([]string, len(e.columns))
		for i, c := range e.columns {
			v := f[c.Key]
			if c.Render != nil {
				cells[i] = c.Render(v, row)
			} else {
				cells[i] = stringify(v)
			}
		}
		out = append(out, cells)
	}
	return out
}

func (e *Engine[R]) total() int {
	if e.manual != nil {
		return e.manual.Total
	}
	return len(e.matched())
}

func (e *Engine[R]) resetPage() {
	if e.manual != nil {
		if e.manual.Page != 1 && e.manual.OnPageChange != nil {
			e.manual.OnPageChange(1)
		}
		return
	}
	e.page = 1
}

func (e *Engine[R]) matched() []R {
	if e.search == "" && len(e.filters) == 0 {
		return e.rows
	}
	term := strings.ToLower(e.search)
	out := make([]R, 0, len(e.rows))
	for _, row := range e.rows {
		if e.matches(e.fields(row), term) {
			out = append(out, row)
		}
	}
	return out
}

func (e *Engine[R]) matches(f map[string]any, term string) bool {
	for name, want := range e.filters {
		key, ok := e.filterKeys[name]
		if !ok {
			key = name
		}
		if stringify(f[key]) != want {
			return false
		}
	}
	if term == "" {
		return true
	}
	for _, v := range f {
		if strings.Contains(strings.ToLower(stringify(v)), term) {
			return true
		}
	}
	return false
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
