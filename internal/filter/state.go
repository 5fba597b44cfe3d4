package filter

import (
	"github.com/lazygrid/lazygrid/internal/models"
)

// ColumnFilter holds one filterable column's staged filter state: the
// value being edited (pending) and the last committed value (current),
// plus the predicate fragment compiled from the committed value.
//
// The two slots are independently owned: every transfer between them
// goes through cloneValue, so mutating the aggregate bound to one slot
// is never observable through the other.
type ColumnFilter struct {
	fieldPath     string
	kind          models.Kind
	caseSensitive bool
	render        renderFunc

	current    any
	pending    any
	op         models.FilterOperator
	predicate  string
	hasCurrent bool
}

// Option configures a ColumnFilter.
type Option func(*ColumnFilter)

// WithCaseSensitive sets the effective case-sensitivity for string
// comparisons. Defaults to false.
func WithCaseSensitive(cs bool) Option {
	return func(c *ColumnFilter) { c.caseSensitive = cs }
}

// NewColumnFilter creates the filter context for one column. The
// literal renderer for the column's kind is selected here, once, not
// per submission.
func NewColumnFilter(fieldPath string, kind models.Kind, opts ...Option) *ColumnFilter {
	c := &ColumnFilter{
		fieldPath: fieldPath,
		kind:      kind,
		render:    renderers[kind],
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FieldPath returns the row field path the column filters on.
func (c *ColumnFilter) FieldPath() string { return c.fieldPath }

// Kind returns the column's declared value kind.
func (c *ColumnFilter) Kind() models.Kind { return c.kind }

// Current returns the last committed filter value, or nil. A nil
// return does not by itself mean the filter is inactive: null-check
// operators commit without an operand value, so activeness is
// reported by Predicate.
func (c *ColumnFilter) Current() any { return c.current }

// Pending returns the value currently being edited, or nil.
func (c *ColumnFilter) Pending() any { return c.pending }

// SetPending stores an in-progress edit without compiling it.
func (c *ColumnFilter) SetPending(v any) { c.pending = v }

// Operator returns the committed operator, or "" when no filter is
// active.
func (c *ColumnFilter) Operator() models.FilterOperator {
	if !c.hasCurrent {
		return ""
	}
	return c.op
}

// Predicate returns the committed predicate fragment. ok is false when
// no filter is active. For value-taking operators the fragment is
// present iff a committed value is present; null-check operators relax
// that, keeping a fragment active with a nil committed value.
func (c *ColumnFilter) Predicate() (string, bool) {
	return c.predicate, c.hasCurrent
}

// BeginEdit prepares the editor: pending becomes an independent copy
// of the committed value, so an abandoned edit shows the last
// committed value on reopen.
func (c *ColumnFilter) BeginEdit() {
	c.pending = cloneValue(c.current)
}

// SetFilterValue submits a candidate value/operator pair. On success
// the value is committed (pending and current become independent
// copies) and the new fragment is returned with applied=true.
//
// An absent value is a no-op, not an error: applied is false and no
// state changes. Null-check operators take no operand and compile
// regardless of the value slot. A compilation failure leaves all
// prior state untouched.
func (c *ColumnFilter) SetFilterValue(value any, op models.FilterOperator) (predicate string, applied bool, err error) {
	if operators[op].operands > 0 && isEmpty(value) {
		return "", false, nil
	}

	predicate, err = c.Compile(value, op)
	if err != nil {
		return "", false, err
	}

	c.pending = value
	c.current = cloneValue(c.pending)
	c.op = op
	c.predicate = predicate
	c.hasCurrent = true
	return predicate, true, nil
}

// ResetToLastValue discards in-progress edits, restoring pending to an
// independent copy of the committed value. No recompilation happens.
func (c *ColumnFilter) ResetToLastValue() {
	c.pending = cloneValue(c.current)
}

// RemoveFilter clears both value slots and the predicate fragment.
func (c *ColumnFilter) RemoveFilter() {
	c.current = nil
	c.pending = nil
	c.op = ""
	c.predicate = ""
	c.hasCurrent = false
}

// cloneValue copies a filter value for a staged transfer. DateRange is
// the one reference-like aggregate and defines its own deep copy;
// primitives and dates copy by value.
func cloneValue(v any) any {
	if r, ok := v.(models.DateRange); ok {
		return r.Clone()
	}
	return v
}

// isEmpty reports the "no value" inputs that skip compilation
// entirely: nil, an empty string, and a fully unbounded date range.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case models.DateRange:
		return val.Start == nil && val.End == nil
	}
	return false
}
