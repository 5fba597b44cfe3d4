package models

import "time"

// FilterOperator represents a filter comparison operator
type FilterOperator string

const (
	OpEquals              FilterOperator = "Equals"
	OpNotEquals           FilterOperator = "NotEquals"
	OpLessThan            FilterOperator = "LessThan"
	OpLessThanOrEquals    FilterOperator = "LessThanOrEquals"
	OpGreaterThan         FilterOperator = "GreaterThan"
	OpGreaterThanOrEquals FilterOperator = "GreaterThanOrEquals"
	OpContains            FilterOperator = "Contains"
	OpStartsWith          FilterOperator = "StartsWith"
	OpEndsWith            FilterOperator = "EndsWith"
	OpIsNull              FilterOperator = "IsNull"
	OpIsNotNull           FilterOperator = "IsNotNull"
	OpBetween             FilterOperator = "Between"
	OpBetweenIncluding    FilterOperator = "BetweenIncluding"
)

// TypeClass is a bit-flag set of value categories an operator may
// legally compare against.
type TypeClass uint8

const (
	ClassString TypeClass = 1 << iota
	ClassNumeric
	ClassBoolean
	ClassDate
	ClassDateRange

	// ClassAll is satisfied by operators that make no type assumption
	// (equality, null checks).
	ClassAll = ClassString | ClassNumeric | ClassBoolean | ClassDate | ClassDateRange
)

// Has reports whether c and other share at least one class bit.
func (c TypeClass) Has(other TypeClass) bool {
	return c&other != 0
}

func (c TypeClass) String() string {
	switch c {
	case ClassString:
		return "string"
	case ClassNumeric:
		return "numeric"
	case ClassBoolean:
		return "boolean"
	case ClassDate:
		return "date"
	case ClassDateRange:
		return "date range"
	case ClassAll:
		return "any"
	}
	return "unknown"
}

// Kind is the closed set of column value kinds. Each kind selects its
// literal rendering once at column configuration time.
type Kind int

const (
	KindString Kind = iota
	KindNumeric
	KindBoolean
	KindDate
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumeric:
		return "numeric"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	}
	return "other"
}

// Class returns the type class a value of this kind belongs to.
// KindOther values are only ever compared as text.
func (k Kind) Class() TypeClass {
	switch k {
	case KindNumeric:
		return ClassNumeric
	case KindBoolean:
		return ClassBoolean
	case KindDate:
		return ClassDate
	default:
		return ClassString
	}
}

// DateRange is a two-endpoint date filter value. Nil endpoints mean
// unbounded and default to the minimum/maximum representable date when
// rendered. It is the one mutable aggregate filter value, so staged
// transfers must go through Clone.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Clone returns a deep copy with independently owned endpoints.
func (r DateRange) Clone() DateRange {
	out := DateRange{}
	if r.Start != nil {
		s := *r.Start
		out.Start = &s
	}
	if r.End != nil {
		e := *r.End
		out.End = &e
	}
	return out
}
