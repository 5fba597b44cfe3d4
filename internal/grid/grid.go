// Package grid owns the mapping from columns to their committed
// predicate fragments and the paging/sorting state of the view. It
// never runs queries itself: every state change that needs fresh data
// is reported outward as a Refresh request for the caller to execute.
package grid

import (
	"fmt"
	"strings"

	"github.com/lazygrid/lazygrid/internal/filter"
	"github.com/lazygrid/lazygrid/internal/models"
)

// Column pairs a column's metadata with its staged filter state.
// Filter is nil for non-filterable columns.
type Column struct {
	Info   models.ColumnInfo
	Filter *filter.ColumnFilter
}

// Grid is the query-side model of the data grid.
type Grid struct {
	columns []Column
	byName  map[string]int

	page     int
	pageSize int
	sortCol  string
	sortDir  models.SortDirection

	defaultCaseSensitive bool
}

// Option configures a Grid.
type Option func(*Grid)

// WithPageSize sets the rows-per-page for refresh requests.
func WithPageSize(n int) Option {
	return func(g *Grid) {
		if n > 0 {
			g.pageSize = n
		}
	}
}

// WithCaseSensitive sets the grid-wide default for string filter
// comparisons. A column's own CaseSensitive setting overrides it.
func WithCaseSensitive(cs bool) Option {
	return func(g *Grid) { g.defaultCaseSensitive = cs }
}

// New builds a grid from column metadata. Display formats are
// validated here, at configuration time, so a misconfigured column
// fails before any filter is ever submitted.
func New(cols []models.ColumnInfo, opts ...Option) (*Grid, error) {
	g := &Grid{
		byName:   make(map[string]int, len(cols)),
		pageSize: 50,
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, info := range cols {
		if err := filter.ValidateFormat(info); err != nil {
			return nil, err
		}
		col := Column{Info: info}
		if info.Filterable {
			cs := g.defaultCaseSensitive
			if info.CaseSensitive != nil {
				cs = *info.CaseSensitive
			}
			col.Filter = filter.NewColumnFilter(info.Name, info.Kind, filter.WithCaseSensitive(cs))
		}
		g.byName[info.Name] = len(g.columns)
		g.columns = append(g.columns, col)
	}
	return g, nil
}

// Refresh describes a query the grid wants its data source to run.
type Refresh struct {
	Predicate string
	Page      int
	PageSize  int
	SortCol   string
	SortDir   models.SortDirection
}

// Columns returns the grid's columns in declaration order.
func (g *Grid) Columns() []Column { return g.columns }

// Column returns the named column.
func (g *Grid) Column(name string) (*Column, bool) {
	i, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return &g.columns[i], true
}

// Page returns the current zero-based page index.
func (g *Grid) Page() int { return g.page }

// PageSize returns the configured rows-per-page.
func (g *Grid) PageSize() int { return g.pageSize }

// Predicate combines all active columns' fragments with logical AND,
// in column declaration order. Empty when no filter is active.
func (g *Grid) Predicate() string {
	var parts []string
	for _, col := range g.columns {
		if col.Filter == nil {
			continue
		}
		if frag, ok := col.Filter.Predicate(); ok {
			parts = append(parts, "("+frag+")")
		}
	}
	return strings.Join(parts, " && ")
}

// ActiveFilters counts columns with a committed filter.
func (g *Grid) ActiveFilters() int {
	n := 0
	for _, col := range g.columns {
		if col.Filter == nil {
			continue
		}
		if _, ok := col.Filter.Predicate(); ok {
			n++
		}
	}
	return n
}

// ApplyFilter submits a value/operator pair for the named column. On
// commit the page resets to 0 and a refresh request is returned with
// ok=true. An empty value is a no-op (ok=false, no error). A
// compilation failure is returned to the caller with all grid state,
// including the column's committed filter, untouched.
func (g *Grid) ApplyFilter(name string, value any, op models.FilterOperator) (Refresh, bool, error) {
	col, found := g.Column(name)
	if !found {
		return Refresh{}, false, fmt.Errorf("unknown column %q", name)
	}
	if col.Filter == nil {
		return Refresh{}, false, fmt.Errorf("column %q is not filterable", name)
	}

	_, applied, err := col.Filter.SetFilterValue(value, op)
	if err != nil {
		return Refresh{}, false, err
	}
	if !applied {
		return Refresh{}, false, nil
	}

	g.page = 0
	return g.Request(), true, nil
}

// RemoveFilter clears the named column's filter. When a filter was
// active the page resets to 0 and a refresh request is returned with
// ok=true.
func (g *Grid) RemoveFilter(name string) (Refresh, bool) {
	col, found := g.Column(name)
	if !found || col.Filter == nil {
		return Refresh{}, false
	}

	_, active := col.Filter.Predicate()
	col.Filter.RemoveFilter()
	if !active {
		return Refresh{}, false
	}

	g.page = 0
	return g.Request(), true
}

// ToggleSort cycles the sort direction on the named column and
// returns the refresh request for the re-ordered view.
func (g *Grid) ToggleSort(name string) Refresh {
	if g.sortCol == name {
		g.sortDir = g.sortDir.Toggle()
		if g.sortDir == models.SortNone {
			g.sortCol = ""
		}
	} else {
		g.sortCol = name
		g.sortDir = models.SortAsc
	}
	return g.Request()
}

// SortState returns the current sort column and direction.
func (g *Grid) SortState() (string, models.SortDirection) {
	return g.sortCol, g.sortDir
}

// SetPage moves to the given page (clamped to >= 0) and returns the
// refresh request for it.
func (g *Grid) SetPage(page int) Refresh {
	if page < 0 {
		page = 0
	}
	g.page = page
	return g.Request()
}

// Request returns the query parameters for the grid's current state.
func (g *Grid) Request() Refresh {
	return Refresh{
		Predicate: g.Predicate(),
		Page:      g.page,
		PageSize:  g.pageSize,
		SortCol:   g.sortCol,
		SortDir:   g.sortDir,
	}
}
