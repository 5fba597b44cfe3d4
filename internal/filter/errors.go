package filter

import (
	"fmt"

	"github.com/lazygrid/lazygrid/internal/models"
)

// IncompatibleOperatorError reports an operator applied to a value
// class outside its compatibility set.
type IncompatibleOperatorError struct {
	Operator models.FilterOperator
	Class    models.TypeClass
}

func (e *IncompatibleOperatorError) Error() string {
	return fmt.Sprintf("operator %s cannot be applied to %s values", e.Operator, e.Class)
}

// UnsupportedConversionError reports a filter value whose type cannot
// be reconciled with the column's declared kind by any coercion rule.
type UnsupportedConversionError struct {
	Value any
	Kind  models.Kind
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("cannot convert filter value %v (%T) for a %s column", e.Value, e.Value, e.Kind)
}

// MisconfiguredFormatError reports a display format configured on a
// column whose kind cannot render one. Raised at configuration time,
// never at filter submission.
type MisconfiguredFormatError struct {
	Column string
	Kind   models.Kind
}

func (e *MisconfiguredFormatError) Error() string {
	return fmt.Sprintf("column %s: %s columns cannot carry a display format", e.Column, e.Kind)
}
