package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/lazygrid/lazygrid/internal/models"
)

// dateLayout is the literal layout for date operands. Dates are
// compared at day precision, never with a time component.
const dateLayout = "2006-01-02"

// Unbounded range endpoints default to the extremes of the
// representable date span.
var (
	minDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// coercion is the outcome of rendering a filter value against a
// column: the field expression (after any case or text wrapping), the
// rendered literal operands, and the class to validate compatibility
// against.
type coercion struct {
	field    string
	operands []string
	class    models.TypeClass
}

// renderFunc renders a filter value whose kind matches the column's
// declared kind. One is selected per column at configuration time.
type renderFunc func(c *ColumnFilter, v any) coercion

// renderers is the static dispatch table keyed by column kind.
// KindOther has no same-kind rendering; its values only reach the
// compiler through text coercion.
var renderers = map[models.Kind]renderFunc{
	models.KindString:  (*ColumnFilter).renderString,
	models.KindNumeric: (*ColumnFilter).renderNumeric,
	models.KindBoolean: (*ColumnFilter).renderBoolean,
	models.KindDate:    (*ColumnFilter).renderDate,
	models.KindOther:   nil,
}

// coerce resolves the literal(s) and effective type class for a filter
// value, applying the rules in order: same-kind rendering, then date
// range, then text fallback against a non-text column.
func (c *ColumnFilter) coerce(v any) (coercion, error) {
	if r, ok := v.(models.DateRange); ok {
		return c.renderRange(r), nil
	}
	if kind, ok := valueKind(v); ok && kind == c.kind {
		return c.render(c, v), nil
	}
	if s, ok := v.(string); ok {
		return c.renderForeignText(s), nil
	}
	return coercion{}, &UnsupportedConversionError{Value: v, Kind: c.kind}
}

// valueKind maps a filter input's runtime type onto the closed kind
// set. KindOther is never produced: untyped values have no same-kind
// rendering path.
func valueKind(v any) (models.Kind, bool) {
	switch v.(type) {
	case string:
		return models.KindString, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return models.KindNumeric, true
	case bool:
		return models.KindBoolean, true
	case time.Time:
		return models.KindDate, true
	}
	return models.KindOther, false
}

func (c *ColumnFilter) renderString(v any) coercion {
	s := v.(string)
	field := c.fieldPath
	if !c.caseSensitive {
		field = "lower(" + field + ")"
		s = strings.ToLower(s)
	}
	return coercion{field: field, operands: []string{strconv.Quote(s)}, class: models.ClassString}
}

func (c *ColumnFilter) renderNumeric(v any) coercion {
	return coercion{field: c.fieldPath, operands: []string{formatNumeric(v)}, class: models.ClassNumeric}
}

func (c *ColumnFilter) renderBoolean(v any) coercion {
	return coercion{field: c.fieldPath, operands: []string{strconv.FormatBool(v.(bool))}, class: models.ClassBoolean}
}

func (c *ColumnFilter) renderDate(v any) coercion {
	return coercion{field: c.fieldPath, operands: []string{dateLiteral(v.(time.Time))}, class: models.ClassDate}
}

// renderRange produces the two endpoint literals. A range filter is
// legal against any column: it always compares a date-valued field.
func (c *ColumnFilter) renderRange(r models.DateRange) coercion {
	start, end := minDate, maxDate
	if r.Start != nil {
		start = *r.Start
	}
	if r.End != nil {
		end = *r.End
	}
	return coercion{
		field:    c.fieldPath,
		operands: []string{dateLiteral(start), dateLiteral(end)},
		class:    models.ClassDateRange,
	}
}

// renderForeignText handles a textual filter value against a
// non-text column: the field is coerced to text (and lower-cased
// unless the column is case-sensitive) before comparison.
func (c *ColumnFilter) renderForeignText(s string) coercion {
	field := "string(" + c.fieldPath + ")"
	if !c.caseSensitive {
		field = "lower(" + field + ")"
		s = strings.ToLower(s)
	}
	return coercion{field: field, operands: []string{strconv.Quote(s)}, class: models.ClassString}
}

// formatNumeric renders a number with an invariant, locale-independent
// format.
func formatNumeric(v any) string {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10)
	case int8:
		return strconv.FormatInt(int64(n), 10)
	case int16:
		return strconv.FormatInt(int64(n), 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint:
		return strconv.FormatUint(uint64(n), 10)
	case uint8:
		return strconv.FormatUint(uint64(n), 10)
	case uint16:
		return strconv.FormatUint(uint64(n), 10)
	case uint32:
		return strconv.FormatUint(uint64(n), 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return "0"
}

// dateLiteral renders a date-construction expression carrying only
// year, month and day.
func dateLiteral(t time.Time) string {
	return `date("` + t.Format(dateLayout) + `")`
}
