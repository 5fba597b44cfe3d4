package models

import "time"

// Row is a single data row keyed by field path.
type Row map[string]any

// Clone returns a shallow-copied row. Cell values are primitives or
// times, which copy by value.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ColumnInfo describes a grid column.
type ColumnInfo struct {
	// Name is the field path into a Row.
	Name string

	// Title is the header text. Defaults to Name when empty.
	Title string

	// Kind is the column's declared value kind.
	Kind Kind

	// Filterable marks the column as accepting filters.
	Filterable bool

	// CaseSensitive overrides the grid default for string comparisons.
	CaseSensitive *bool

	// Format is an optional display format: a Go time layout for date
	// columns, a printf verb for numeric columns. Other kinds cannot
	// carry a format.
	Format string
}

// DisplayTitle returns the header text for the column.
func (c ColumnInfo) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// SortDirection identifies sort order for a column.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// Toggle cycles none -> asc -> desc -> none.
func (d SortDirection) Toggle() SortDirection {
	switch d {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	}
	return "none"
}

// QueryResult holds the outcome of evaluating the grid's predicate
// against the loaded rows.
type QueryResult struct {
	Rows      []Row
	Total     int // rows before filtering
	Filtered  int // rows after filtering
	Page      int
	PageCount int
	Duration  time.Duration
	Error     error
}
