package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lazygrid/lazygrid/internal/models"
)

// Compile renders the predicate fragment for a value/operator pair
// against the column. It does not touch staged state: callers decide
// whether a successful fragment is committed.
//
// Compatibility is checked against the class resolved by coercion,
// not the column's declared kind, so a free-text filter may legally
// hit a numeric column through Contains while LessThan on a boolean
// column is still rejected. Nothing is produced on failure.
func (c *ColumnFilter) Compile(value any, op models.FilterOperator) (string, error) {
	spec, ok := operators[op]
	if !ok {
		return "", fmt.Errorf("unknown filter operator %q", op)
	}

	co := coercion{field: c.fieldPath, class: c.kind.Class()}
	if spec.operands > 0 {
		var err error
		co, err = c.coerce(value)
		if err != nil {
			return "", err
		}
	}

	if !spec.classes.Has(co.class) {
		return "", &IncompatibleOperatorError{Operator: op, Class: co.class}
	}
	if len(co.operands) != spec.operands {
		// A range value aimed at a single-operand operator, or the
		// reverse. The value's shape does not fit the operator.
		return "", &UnsupportedConversionError{Value: value, Kind: c.kind}
	}

	return expand(spec.template, co), nil
}

// expand substitutes the field expression into {0} and each operand
// into the following placeholders.
func expand(template string, co coercion) string {
	out := strings.ReplaceAll(template, "{0}", co.field)
	for i, operand := range co.operands {
		out = strings.ReplaceAll(out, "{"+strconv.Itoa(i+1)+"}", operand)
	}
	return out
}
