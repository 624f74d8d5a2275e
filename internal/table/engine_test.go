package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     int
	Name   string
	Status string
}

func rowFields(r row) map[string]any {
	return map[string]any{"id": r.ID, "name": r.Name, "status": r.Status}
}

func makeRows(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		status := "Completed"
		if i%3 == 0 {
			status = "Missed"
		}
		rows[i] = row{ID: i + 1, Name: fmt.Sprintf("caller-%02d", i+1), Status: status}
	}
	return rows
}

func newLocal(t *testing.T, rows []row, size int) *Engine[row] {
	t.Helper()
	e, err := New(rows, Options[row]{
		Columns: []Column[row]{
			{Key: "id", Label: "ID"},
			{Key: "name", Label: "Name", Render: func(v any, r row) string { return "@" + r.Name }},
		},
		Fields:   rowFields,
		Filters:  []Filter{{Name: "Status", Key: "status"}},
		PageSize: size,
	})
	require.NoError(t, err)
	return e
}

func TestNew_RejectsProgrammerErrors(t *testing.T) {
	_, err := New[row](nil, Options[row]{})
	assert.ErrorIs(t, err, ErrNoFields)

	_, err = New(nil, Options[row]{Fields: rowFields, PageSize: -1})
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	_, err = New(nil, Options[row]{Fields: rowFields, Manual: &Manual{PageSize: 0}})
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	e, err := New(nil, Options[row]{Fields: rowFields})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, e.PageSize())
}

func TestLocal_PaginationAndSearchReset(t *testing.T) {
	e := newLocal(t, makeRows(23), 10)
	assert.Equal(t, 3, e.TotalPages())

	e.GoToPage(3)
	v := e.View()
	assert.Equal(t, 3, v.Page)
	assert.Len(t, v.Rows, 3)
	assert.Equal(t, 21, v.Rows[0].ID)

	e.SetSearch("nomatch")
	v = e.View()
	assert.Equal(t, 1, v.Page)
	assert.Empty(t, v.Rows)
	assert.Zero(t, v.Total)
	assert.Zero(t, v.TotalPages)
}

func TestLocal_GoToPageClamps(t *testing.T) {
	e := newLocal(t, makeRows(23), 10)

	e.GoToPage(e.TotalPages() + 5)
	assert.Equal(t, 3, e.Page())

	e.GoToPage(0)
	assert.Equal(t, 1, e.Page())

	e.GoToPage(-4)
	assert.Equal(t, 1, e.Page())
}

func TestLocal_GoToPageNoopWithoutPages(t *testing.T) {
	e := newLocal(t, nil, 10)
	e.GoToPage(4)
	assert.Equal(t, 1, e.Page())
	assert.Zero(t, e.TotalPages())
}

func TestLocal_FilterResetsPageEvenWhenStillValid(t *testing.T) {
	e := newLocal(t, makeRows(23), 5)
	e.GoToPage(2)
	require.Equal(t, 2, e.Page())

	e.SetFilter("Status", "Completed")
	assert.Equal(t, 1, e.Page())
	v := e.View()
	assert.Equal(t, 15, v.Total)
	for _, r := range v.Rows {
		assert.Equal(t, "Completed", r.Status)
	}

	e.GoToPage(2)
	e.SetFilter("Status", AllValues)
	assert.Equal(t, 1, e.Page())
	assert.Equal(t, 23, e.View().Total)
}

func TestLocal_SearchMatchesAnyFieldCaseInsensitive(t *testing.T) {
	e := newLocal(t, makeRows(23), 10)

	e.SetSearch("CALLER-1")
	assert.Equal(t, 10, e.View().Total) // caller-10 .. caller-19

	e.SetSearch("missed")
	assert.Equal(t, 8, e.View().Total)

	e.SetSearch("22")
	v := e.View()
	require.Equal(t, 1, v.Total)
	assert.Equal(t, 22, v.Rows[0].ID)
}

func TestLocal_SearchAndFilterIntersect(t *testing.T) {
	e := newLocal(t, makeRows(23), 10)
	e.SetSearch("caller-1")
	e.SetFilter("Status", "Missed")

	v := e.View()
	// caller-10..19 with index%3==0 -> ids 10, 13, 16, 19
	assert.Equal(t, 4, v.Total)
	assert.Equal(t, 1, v.TotalPages)
}

func TestLocal_UndeclaredFilterUsesNameAsKey(t *testing.T) {
	e := newLocal(t, makeRows(6), 10)
	e.SetFilter("name", "caller-02")
	assert.Equal(t, 1, e.View().Total)

	e.ClearFilters()
	assert.Equal(t, 6, e.View().Total)
}

func TestLocal_SetPageSizeResetsPage(t *testing.T) {
	e := newLocal(t, makeRows(23), 5)
	e.GoToPage(4)

	require.NoError(t, e.SetPageSize(20))
	assert.Equal(t, 1, e.Page())
	assert.Equal(t, 2, e.TotalPages())

	assert.ErrorIs(t, e.SetPageSize(0), ErrInvalidPageSize)
}

func TestLocal_SetRowsClampsPage(t *testing.T) {
	e := newLocal(t, makeRows(23), 10)
	e.GoToPage(3)

	e.SetRows(makeRows(12))
	assert.Equal(t, 2, e.Page())

	e.SetRows(nil)
	assert.Equal(t, 1, e.Page())
}

func TestLocal_NextPrev(t *testing.T) {
	e := newLocal(t, makeRows(23), 10)
	e.NextPage()
	e.NextPage()
	e.NextPage()
	assert.Equal(t, 3, e.Page())
	e.PrevPage()
	assert.Equal(t, 2, e.Page())
}

func TestCellsAndHeaders(t *testing.T) {
	e := newLocal(t, makeRows(2), 10)
	assert.Equal(t, []string{"ID", "Name"}, e.Headers())
	assert.Equal(t, [][]string{{"1", "@caller-01"}, {"2", "@caller-02"}}, e.Cells(e.View().Rows))
}

func TestManual_DefersToCallbacks(t *testing.T) {
	var gotPage, gotSize int
	e, err := New(makeRows(10), Options[row]{
		Fields: rowFields,
		Manual: &Manual{
			Page:             2,
			PageSize:         10,
			Total:            45,
			OnPageChange:     func(p int) { gotPage = p },
			OnPageSizeChange: func(s int) { gotSize = s },
		},
	})
	require.NoError(t, err)
	assert.True(t, e.IsManual())

	v := e.View()
	assert.Len(t, v.Rows, 10, "manual rows are never re-sliced")
	assert.Equal(t, 45, v.Total)
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, 5, v.TotalPages)

	e.GoToPage(9)
	assert.Equal(t, 5, gotPage)
	assert.Equal(t, 2, e.Page(), "page only moves when the caller says so")

	require.NoError(t, e.SetPageSize(25))
	assert.Equal(t, 25, gotSize)
	assert.Equal(t, 10, e.PageSize())

	e.SetManualPage(5, 10, 45)
	assert.Equal(t, 5, e.Page())

	gotPage = 0
	e.SetSearch("caller")
	assert.Equal(t, 1, gotPage, "search change asks the caller for page 1")
}

func TestManual_NoPagesIsNoop(t *testing.T) {
	called := false
	e, err := New[row](nil, Options[row]{
		Fields: rowFields,
		Manual: &Manual{PageSize: 10, OnPageChange: func(int) { called = true }},
	})
	require.NoError(t, err)

	e.GoToPage(3)
	assert.False(t, called)
	assert.Zero(t, e.TotalPages())
}
