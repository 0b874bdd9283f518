package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// statusHeader marks the column whose cells are colored by StatusStyle.
const statusHeader = "Status"

// Table is a styled terminal table.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, rows: make([][]string, 0)}
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// String renders the table.
func (t *Table) String() string {
	statusCol := -1
	for i, h := range t.headers {
		if h == statusHeader {
			statusCol = i
		}
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(ColorCyan).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorDimGray)).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == statusCol && row >= 0 && row < len(t.rows) && col < len(t.rows[row]) {
				return StatusStyle(t.rows[row][col]).Padding(0, 1)
			}
			return cell
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}
	return tbl.String()
}
