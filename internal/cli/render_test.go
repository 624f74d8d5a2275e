package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable_EmptyWithoutColumns(t *testing.T) {
	assert.Equal(t, "", RenderTable(Table{}))
}

func TestRenderTable_RowsAndFooter(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Caller", "Status"},
		Rows: [][]string{
			{"(555) 123-4567", "Completed"},
			{"---"},
			{"Unknown", "Missed"},
		},
		Footer: "Page 1 of 1",
	})

	assert.Contains(t, out, "Caller")
	assert.Contains(t, out, "(555) 123-4567")
	assert.Contains(t, out, "Missed")
	assert.Contains(t, out, "Page 1 of 1")
	// top, header, header rule, 2 rows, separator, bottom, footer
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 8)
}

func TestRenderPageFooter(t *testing.T) {
	assert.Equal(t, "No matching calls", RenderPageFooter(1, 0, 10, 0, 0))
	assert.Equal(t, "Page 3 of 3 · rows 21-23 of 23", RenderPageFooter(3, 3, 10, 23, 3))
	assert.Equal(t, "Page 1 of 3 · rows 1-10 of 23", RenderPageFooter(1, 3, 10, 23, 10))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", RenderSparkline(nil))
	assert.Equal(t, "▁█", RenderSparkline([]float64{0, 4}))
	assert.Equal(t, "▁▁", RenderSparkline([]float64{0, 0}))
}
