package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/lazygrid/lazygrid/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompile_NumericGreaterThanOrEquals(t *testing.T) {
	c := NewColumnFilter("Age", models.KindNumeric)

	pred, err := c.Compile(10, models.OpGreaterThanOrEquals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred != "Age >= 10" {
		t.Errorf("expected 'Age >= 10', got %q", pred)
	}
}

func TestCompile_StringContainsCaseInsensitive(t *testing.T) {
	c := NewColumnFilter("Name", models.KindString)

	pred, err := c.Compile("Anna", models.OpContains)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred != `lower(Name) contains "anna"` {
		t.Errorf("unexpected predicate: %q", pred)
	}
}

func TestCompile_StringEqualsCaseSensitive(t *testing.T) {
	c := NewColumnFilter("Name", models.KindString, WithCaseSensitive(true))

	pred, err := c.Compile("Anna", models.OpEquals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred != `Name == "Anna"` {
		t.Errorf("unexpected predicate: %q", pred)
	}
}

func TestCompile_DateBetween(t *testing.T) {
	c := NewColumnFilter("HireDate", models.KindDate)

	start := date(2023, time.January, 1)
	end := date(2023, time.December, 31)
	pred, err := c.Compile(models.DateRange{Start: &start, End: &end}, models.OpBetween)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `HireDate > date("2023-01-01") && HireDate < date("2023-12-31")`
	if pred != want {
		t.Errorf("expected %q, got %q", want, pred)
	}
}

func TestCompile_BetweenIncludingUsesInclusiveBounds(t *testing.T) {
	c := NewColumnFilter("HireDate", models.KindDate)

	start := date(2023, time.January, 1)
	end := date(2023, time.December, 31)
	pred, err := c.Compile(models.DateRange{Start: &start, End: &end}, models.OpBetweenIncluding)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `HireDate >= date("2023-01-01") && HireDate <= date("2023-12-31")`
	if pred != want {
		t.Errorf("expected %q, got %q", want, pred)
	}
}

func TestCompile_RangeIsLegalAgainstAnyColumn(t *testing.T) {
	// Range filters always compare a date-valued field, regardless of
	// the column's own declared kind.
	c := NewColumnFilter("Updated", models.KindString)

	start := date(2024, time.June, 1)
	pred, err := c.Compile(models.DateRange{Start: &start}, models.OpBetween)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `Updated > date("2024-06-01") && Updated < date("9999-12-31")`
	if pred != want {
		t.Errorf("expected %q, got %q", want, pred)
	}
}

func TestCompile_BooleanLessThanIncompatible(t *testing.T) {
	c := NewColumnFilter("Active", models.KindBoolean)

	_, err := c.Compile(true, models.OpLessThan)
	var incompat *IncompatibleOperatorError
	if !errors.As(err, &incompat) {
		t.Fatalf("expected IncompatibleOperatorError, got %v", err)
	}
	if incompat.Operator != models.OpLessThan {
		t.Errorf("expected operator LessThan in error, got %s", incompat.Operator)
	}
}

func TestCompile_TextAgainstNumericColumn(t *testing.T) {
	c := NewColumnFilter("Age", models.KindNumeric)

	pred, err := c.Compile("4", models.OpContains)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred != `lower(string(Age)) contains "4"` {
		t.Errorf("unexpected predicate: %q", pred)
	}
}

func TestCompile_UnsupportedConversion(t *testing.T) {
	c := NewColumnFilter("HireDate", models.KindDate)

	_, err := c.Compile(42, models.OpEquals)
	var unsupported *UnsupportedConversionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedConversionError, got %v", err)
	}
}

func TestCompile_RangeValueOnSingleOperandOperator(t *testing.T) {
	c := NewColumnFilter("HireDate", models.KindDate)

	start := date(2023, time.January, 1)
	_, err := c.Compile(models.DateRange{Start: &start}, models.OpEquals)
	var unsupported *UnsupportedConversionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedConversionError, got %v", err)
	}
}

func TestCompile_NullChecksIgnoreValue(t *testing.T) {
	c := NewColumnFilter("Name", models.KindString)

	pred, err := c.Compile(nil, models.OpIsNull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred != "Name == nil" {
		t.Errorf("unexpected predicate: %q", pred)
	}

	pred, err = c.Compile(nil, models.OpIsNotNull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred != "Name != nil" {
		t.Errorf("unexpected predicate: %q", pred)
	}
}

// TestCompile_CompatibilityMatrix checks the iff property: for every
// operator and every value class, compilation succeeds exactly when
// the class is in the operator's compatibility set (with range values
// additionally requiring a two-operand operator).
func TestCompile_CompatibilityMatrix(t *testing.T) {
	start := date(2023, time.March, 15)
	cases := []struct {
		name  string
		col   *ColumnFilter
		value any
		class models.TypeClass
	}{
		{"string", NewColumnFilter("Name", models.KindString), "x", models.ClassString},
		{"numeric", NewColumnFilter("Age", models.KindNumeric), 7, models.ClassNumeric},
		{"boolean", NewColumnFilter("Active", models.KindBoolean), true, models.ClassBoolean},
		{"date", NewColumnFilter("HireDate", models.KindDate), start, models.ClassDate},
		{"range", NewColumnFilter("HireDate", models.KindDate), models.DateRange{Start: &start}, models.ClassDateRange},
	}

	for op, spec := range operators {
		for _, tc := range cases {
			_, err := tc.col.Compile(tc.value, op)

			compatible := spec.classes.Has(tc.class)
			arityOK := true
			if _, isRange := tc.value.(models.DateRange); isRange != (spec.operands == 2) && spec.operands > 0 {
				arityOK = false
			}

			switch {
			case compatible && arityOK:
				if err != nil {
					t.Errorf("%s on %s column: unexpected error: %v", op, tc.name, err)
				}
			case !compatible:
				var incompat *IncompatibleOperatorError
				if !errors.As(err, &incompat) {
					t.Errorf("%s on %s column: expected IncompatibleOperatorError, got %v", op, tc.name, err)
				}
			default:
				var unsupported *UnsupportedConversionError
				if !errors.As(err, &unsupported) {
					t.Errorf("%s on %s column: expected UnsupportedConversionError, got %v", op, tc.name, err)
				}
			}
		}
	}
}
