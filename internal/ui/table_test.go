package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_ColumnWidths(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Host", "Status"},
		Rows: [][]string{
			{"3f2a9c1e", "Excel", "generated"},
			{"77b0d412", "PowerPoint", "rejected"},
		},
	}

	assert.Equal(t, []int{8, 10, 9}, table.ColumnWidths())
}

func TestTable_ColumnWidths_MaxWidth(t *testing.T) {
	table := &Table{
		Headers:  []string{"ID", "Request"},
		Rows:     [][]string{{"a", "insert a clustered column chart for the quarterly sales table"}},
		MaxWidth: 20,
	}

	assert.Equal(t, []int{2, 20}, table.ColumnWidths())
}

func TestTable_Render(t *testing.T) {
	table := &Table{
		Headers:  []string{"ID", "Request"},
		Rows:     [][]string{{"1", "add a chart"}, {"2", "insert a clustered column chart for the quarterly sales table"}},
		MaxWidth: 12,
	}

	out := table.Render()
	assert.Contains(t, out, "Request")
	assert.Contains(t, out, "add a chart")
	assert.Contains(t, out, "insert a cl…")
	assert.NotContains(t, out, "quarterly")
	assert.Contains(t, out, "─")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}

func TestTable_Render_Empty(t *testing.T) {
	assert.Empty(t, (&Table{}).Render())
}

func TestTable_Render_ShortRows(t *testing.T) {
	table := &Table{Headers: []string{"A", "B", "C"}, Rows: [][]string{{"only-a"}}}
	assert.Contains(t, table.Render(), "only-a")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "hello", clip("hello", 5))
	assert.Equal(t, "hel…", clip("hello", 4))
	assert.Equal(t, "…", clip("hello", 1))
	assert.Equal(t, "", clip("hello", 0))
	assert.Equal(t, "日本…", clip("日本語テキスト", 5))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3f2a9c1e", ShortID("3f2a9c1e-1111-2222-3333-444444444444"))
	assert.Equal(t, "abc", ShortID("abc"))
}
