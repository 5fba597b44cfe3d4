package filter

import (
	"github.com/lazygrid/lazygrid/internal/models"
)

// opSpec pairs an operator's expansion template with the type classes
// it may legally operate on and the number of operand placeholders.
type opSpec struct {
	template string // {0} is the field, {1} and {2} are operands
	classes  models.TypeClass
	operands int
}

// operators is the fixed operator table. Templates use expr-lang
// syntax so the assembled fragment can be handed straight to the
// query engine. New operators are added by extending this table.
var operators = map[models.FilterOperator]opSpec{
	models.OpEquals:              {"{0} == {1}", models.ClassAll, 1},
	models.OpNotEquals:           {"{0} != {1}", models.ClassAll, 1},
	models.OpLessThan:            {"{0} < {1}", models.ClassNumeric | models.ClassDate, 1},
	models.OpLessThanOrEquals:    {"{0} <= {1}", models.ClassNumeric | models.ClassDate, 1},
	models.OpGreaterThan:         {"{0} > {1}", models.ClassNumeric | models.ClassDate, 1},
	models.OpGreaterThanOrEquals: {"{0} >= {1}", models.ClassNumeric | models.ClassDate, 1},
	models.OpContains:            {"{0} contains {1}", models.ClassString, 1},
	models.OpStartsWith:          {"{0} startsWith {1}", models.ClassString, 1},
	models.OpEndsWith:            {"{0} endsWith {1}", models.ClassString, 1},
	models.OpIsNull:              {"{0} == nil", models.ClassAll, 0},
	models.OpIsNotNull:           {"{0} != nil", models.ClassAll, 0},
	models.OpBetween:             {"{0} > {1} && {0} < {2}", models.ClassDateRange, 2},
	models.OpBetweenIncluding:    {"{0} >= {1} && {0} <= {2}", models.ClassDateRange, 2},
}

// operatorOrder fixes the presentation order for editor menus.
var operatorOrder = []models.FilterOperator{
	models.OpEquals,
	models.OpNotEquals,
	models.OpLessThan,
	models.OpLessThanOrEquals,
	models.OpGreaterThan,
	models.OpGreaterThanOrEquals,
	models.OpContains,
	models.OpStartsWith,
	models.OpEndsWith,
	models.OpIsNull,
	models.OpIsNotNull,
	models.OpBetween,
	models.OpBetweenIncluding,
}

// Template returns the expansion template for op, or "" for an
// unknown operator.
func Template(op models.FilterOperator) string {
	return operators[op].template
}

// CompatibleClasses returns the class bitset op may operate on.
func CompatibleClasses(op models.FilterOperator) models.TypeClass {
	return operators[op].classes
}

// OperatorsForKind returns the operators the editor should offer for a
// column of the given kind. Text operators are always reachable via
// string coercion, and range operators always compare a date-valued
// field, so both are offered regardless of the declared kind.
func OperatorsForKind(kind models.Kind) []models.FilterOperator {
	reachable := kind.Class() | models.ClassString | models.ClassDateRange
	var ops []models.FilterOperator
	for _, op := range operatorOrder {
		if operators[op].classes.Has(reachable) {
			ops = append(ops, op)
		}
	}
	return ops
}
