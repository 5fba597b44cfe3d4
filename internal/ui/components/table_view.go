package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/lazygrid/lazygrid/internal/filter"
	"github.com/lazygrid/lazygrid/internal/grid"
	"github.com/lazygrid/lazygrid/internal/models"
	"github.com/lazygrid/lazygrid/internal/ui/theme"
)

// TableView displays the current page of grid data.
type TableView struct {
	Width  int
	Height int
	Theme  theme.Theme

	columns []grid.Column
	rows    []models.Row
	result  models.QueryResult

	// SelectedRow and SelectedCol drive keyboard navigation; the
	// selected column is the target for filter and sort actions.
	SelectedRow int
	SelectedCol int

	// SortCol and SortDir mirror the grid's sort state for the
	// header indicators.
	SortCol string
	SortDir models.SortDirection

	MaxCellWidth int

	columnWidths []int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Theme:        th,
		MaxCellWidth: 50,
	}
}

// SetColumns sets the grid columns backing the view.
func (tv *TableView) SetColumns(columns []grid.Column) {
	tv.columns = columns
	tv.SelectedCol = 0
}

// SetResult installs a refresh result.
func (tv *TableView) SetResult(res models.QueryResult) {
	tv.result = res
	tv.rows = res.Rows
	if tv.SelectedRow >= len(tv.rows) {
		tv.SelectedRow = len(tv.rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	tv.calculateColumnWidths()
}

// SelectedColumn returns the column under the cursor.
func (tv *TableView) SelectedColumn() (grid.Column, bool) {
	if tv.SelectedCol < 0 || tv.SelectedCol >= len(tv.columns) {
		return grid.Column{}, false
	}
	return tv.columns[tv.SelectedCol], true
}

// SelectedCell returns the rendered value under the cursor.
func (tv *TableView) SelectedCell() (string, bool) {
	col, ok := tv.SelectedColumn()
	if !ok || tv.SelectedRow >= len(tv.rows) {
		return "", false
	}
	return filter.FormatCell(tv.rows[tv.SelectedRow][col.Info.Name], col.Info), true
}

// MoveSelection moves the row cursor, clamped to the page.
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.SelectedRow >= len(tv.rows) {
		tv.SelectedRow = len(tv.rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
}

// MoveColumn moves the column cursor, clamped to the columns.
func (tv *TableView) MoveColumn(delta int) {
	tv.SelectedCol += delta
	if tv.SelectedCol < 0 {
		tv.SelectedCol = 0
	}
	if tv.SelectedCol >= len(tv.columns) {
		tv.SelectedCol = len(tv.columns) - 1
	}
}

// calculateColumnWidths sizes each column to its widest cell within
// the configured bounds.
func (tv *TableView) calculateColumnWidths() {
	tv.columnWidths = make([]int, len(tv.columns))
	for i, col := range tv.columns {
		tv.columnWidths[i] = runewidth.StringWidth(tv.headerText(col))
	}
	for _, row := range tv.rows {
		for i, col := range tv.columns {
			w := runewidth.StringWidth(filter.FormatCell(row[col.Info.Name], col.Info))
			if w > tv.columnWidths[i] {
				tv.columnWidths[i] = w
			}
		}
	}
	for i := range tv.columnWidths {
		if tv.columnWidths[i] > tv.MaxCellWidth {
			tv.columnWidths[i] = tv.MaxCellWidth
		}
		if tv.columnWidths[i] < 4 {
			tv.columnWidths[i] = 4
		}
	}
}

// headerText renders a column title plus its filter/sort indicators.
func (tv *TableView) headerText(col grid.Column) string {
	title := col.Info.DisplayTitle()
	if col.Filter != nil {
		if _, active := col.Filter.Predicate(); active {
			title += " ▼"
		}
	}
	if col.Info.Name == tv.SortCol {
		switch tv.SortDir {
		case models.SortAsc:
			title += " ↑"
		case models.SortDesc:
			title += " ↓"
		}
	}
	return title
}

// View renders the table
func (tv *TableView) View() string {
	if len(tv.columns) == 0 {
		return lipgloss.NewStyle().Foreground(tv.Theme.Foreground).Render("No data")
	}
	if tv.columnWidths == nil {
		tv.calculateColumnWidths()
	}

	var b strings.Builder
	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())
	b.WriteString("\n")

	for i, row := range tv.rows {
		b.WriteString(tv.renderRow(row, i == tv.SelectedRow))
		b.WriteString("\n")
	}

	b.WriteString(tv.renderStatus())
	return b.String()
}

func (tv *TableView) renderHeader() string {
	var parts []string
	for i, col := range tv.columns {
		text := tv.pad(tv.headerText(col), tv.columnWidths[i])
		style := lipgloss.NewStyle().Bold(true).Foreground(tv.Theme.TableHeader)
		if i == tv.SelectedCol {
			style = style.Underline(true)
		}
		if col.Filter != nil {
			if _, active := col.Filter.Predicate(); active {
				style = style.Foreground(tv.Theme.FilterActive)
			}
		}
		parts = append(parts, style.Render(text))
	}
	return " " + strings.Join(parts, " │ ") + " "
}

func (tv *TableView) renderSeparator() string {
	var parts []string
	for _, width := range tv.columnWidths {
		parts = append(parts, strings.Repeat("─", width))
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(row models.Row, selected bool) string {
	var parts []string
	for i, col := range tv.columns {
		cell := filter.FormatCell(row[col.Info.Name], col.Info)
		parts = append(parts, tv.pad(cell, tv.columnWidths[i]))
	}
	line := " " + strings.Join(parts, " │ ") + " "

	if selected {
		return lipgloss.NewStyle().
			Background(tv.Theme.TableRowSelected).
			Foreground(tv.Theme.Foreground).
			Bold(true).
			Render(line)
	}
	return line
}

func (tv *TableView) renderStatus() string {
	res := tv.result
	status := fmt.Sprintf(" page %d/%d · %d rows", res.Page+1, max(res.PageCount, 1), res.Filtered)
	if res.Filtered != res.Total {
		status += fmt.Sprintf(" (filtered from %d)", res.Total)
	}
	if res.Duration > 0 {
		status += fmt.Sprintf(" · %s", res.Duration.Round(time.Microsecond))
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Info).
		Italic(true).
		Render(status)
}

func (tv *TableView) pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w > width {
		return runewidth.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}
