package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// DataColumn describes one column of query output. Numeric columns are
// right-aligned so magnitudes line up.
type DataColumn struct {
	Title   string
	Numeric bool
}

// DataTable renders query results with a header row and a minimal border,
// sized to the terminal.
type DataTable struct {
	display *DisplayContext
	columns []DataColumn
	rows    [][]string
}

// NewDataTable creates a table for the given columns.
func NewDataTable(display *DisplayContext, columns []DataColumn) *DataTable {
	return &DataTable{
		display: display,
		columns: columns,
		rows:    make([][]string, 0),
	}
}

// AddRow appends one row of cell values. Short rows are padded with empty
// cells; extra cells are dropped.
func (t *DataTable) AddRow(cells []string) {
	row := make([]string, len(t.columns))
	for i := 0; i < len(t.columns) && i < len(cells); i++ {
		row[i] = cells[i]
	}
	t.rows = append(t.rows, row)
}

// columnWidths sizes columns to their content, then shrinks the widest
// columns to fit the terminal.
func (t *DataTable) columnWidths() []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = lipgloss.Width(col.Title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	const columnPadding = 2
	const leftMargin = 2
	budget := t.display.TermWidth - leftMargin - (len(t.columns)-1)*columnPadding
	if budget < len(t.columns)*minDataColumnWidth {
		budget = len(t.columns) * minDataColumnWidth
	}

	total := 0
	for _, w := range widths {
		total += w
	}
	for total > budget {
		// Shrink the widest column one step at a time.
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minDataColumnWidth {
			break
		}
		widths[widest]--
		total--
	}

	return widths
}

const minDataColumnWidth = 6

// Render generates the table output as a string, header row included.
func (t *DataTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.columnWidths()

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Title
	}

	tableRows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		cells := make([]string, len(t.columns))
		for j := range t.columns {
			cells[j] = TruncateWithEllipsis(row[j], widths[j])
		}
		tableRows[i] = cells
	}

	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Left:   "",
			Right:  "",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderHeader(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			style := lipgloss.NewStyle().Width(widths[col])
			if row == table.HeaderRow {
				style = style.Inherit(Bold)
			}
			if t.columns[col].Numeric {
				style = style.Align(lipgloss.Right)
			} else {
				style = style.Align(lipgloss.Left)
			}
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Headers(headers...).
		Rows(tableRows...)

	return tbl.Render()
}

// TruncateWithEllipsis truncates a string to maxLen, adding ellipsis if needed.
// It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}

	truncated := s[:maxLen-3]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
