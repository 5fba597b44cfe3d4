package filter

import (
	"testing"
	"time"

	"github.com/lazygrid/lazygrid/internal/models"
)

func TestSetFilterValue_CommitsValueAndPredicate(t *testing.T) {
	c := NewColumnFilter("Name", models.KindString)

	pred, applied, err := c.SetFilterValue("Anna", models.OpEquals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatal("expected filter to be applied")
	}
	if pred != `lower(Name) == "anna"` {
		t.Errorf("unexpected predicate: %q", pred)
	}
	if c.Current() != "Anna" {
		t.Errorf("expected current 'Anna', got %v", c.Current())
	}
	if got, ok := c.Predicate(); !ok || got != pred {
		t.Errorf("expected committed predicate %q, got %q (ok=%v)", pred, got, ok)
	}
	if c.Operator() != models.OpEquals {
		t.Errorf("expected committed operator Equals, got %s", c.Operator())
	}
}

func TestSetFilterValue_Idempotent(t *testing.T) {
	c := NewColumnFilter("Age", models.KindNumeric)

	first, applied, err := c.SetFilterValue(10, models.OpGreaterThanOrEquals)
	if err != nil || !applied {
		t.Fatalf("first submit: applied=%v err=%v", applied, err)
	}
	second, applied, err := c.SetFilterValue(10, models.OpGreaterThanOrEquals)
	if err != nil || !applied {
		t.Fatalf("second submit: applied=%v err=%v", applied, err)
	}
	if first != second {
		t.Errorf("predicates differ: %q vs %q", first, second)
	}
	if c.Current() != 10 {
		t.Errorf("expected current 10, got %v", c.Current())
	}
}

func TestSetFilterValue_FailureLeavesStateUntouched(t *testing.T) {
	c := NewColumnFilter("Active", models.KindBoolean)

	if _, applied, err := c.SetFilterValue(true, models.OpEquals); err != nil || !applied {
		t.Fatalf("setup submit failed: applied=%v err=%v", applied, err)
	}
	before, _ := c.Predicate()

	_, applied, err := c.SetFilterValue(false, models.OpLessThan)
	if err == nil {
		t.Fatal("expected an error for LessThan on a boolean column")
	}
	if applied {
		t.Error("failed compile must not report applied")
	}
	if c.Current() != true {
		t.Errorf("current changed after failed compile: %v", c.Current())
	}
	if after, ok := c.Predicate(); !ok || after != before {
		t.Errorf("predicate changed after failed compile: %q -> %q", before, after)
	}
}

func TestSetFilterValue_EmptyValueIsNoOp(t *testing.T) {
	c := NewColumnFilter("Name", models.KindString)

	for _, v := range []any{nil, "", models.DateRange{}} {
		pred, applied, err := c.SetFilterValue(v, models.OpEquals)
		if err != nil {
			t.Errorf("empty value %v: unexpected error: %v", v, err)
		}
		if applied || pred != "" {
			t.Errorf("empty value %v: expected no-op, got applied=%v pred=%q", v, applied, pred)
		}
	}
	if _, ok := c.Predicate(); ok {
		t.Error("no filter should be active after empty submissions")
	}
}

func TestBeginEdit_ClonesCurrentIntoPending(t *testing.T) {
	c := NewColumnFilter("HireDate", models.KindDate)

	start := date(2023, time.January, 1)
	end := date(2023, time.December, 31)
	if _, applied, err := c.SetFilterValue(models.DateRange{Start: &start, End: &end}, models.OpBetween); err != nil || !applied {
		t.Fatalf("setup submit failed: applied=%v err=%v", applied, err)
	}

	c.BeginEdit()
	pending, ok := c.Pending().(models.DateRange)
	if !ok {
		t.Fatalf("expected pending DateRange, got %T", c.Pending())
	}
	if !pending.Start.Equal(start) || !pending.End.Equal(end) {
		t.Error("pending does not mirror committed value")
	}

	// Mutating the pending aggregate must not be observable through
	// the committed slot.
	*pending.Start = date(1999, time.June, 6)
	current := c.Current().(models.DateRange)
	if !current.Start.Equal(start) {
		t.Error("mutating pending leaked into current")
	}
}

func TestCloneIsolation_CommitDoesNotAliasPending(t *testing.T) {
	c := NewColumnFilter("HireDate", models.KindDate)

	start := date(2023, time.January, 1)
	value := models.DateRange{Start: &start}
	if _, applied, err := c.SetFilterValue(value, models.OpBetween); err != nil || !applied {
		t.Fatalf("submit failed: applied=%v err=%v", applied, err)
	}

	// The submitted aggregate stays bound to pending; current owns an
	// independent copy. value.Start aliases start, so the comparison
	// target must be captured before the mutation.
	orig := start
	*value.Start = date(2000, time.February, 2)
	current := c.Current().(models.DateRange)
	if !current.Start.Equal(orig) {
		t.Errorf("mutating the submitted value leaked into current: got %v, want %v", current.Start, orig)
	}
	pending := c.Pending().(models.DateRange)
	if !pending.Start.Equal(date(2000, time.February, 2)) {
		t.Errorf("pending should still alias the submitted value, got %v", pending.Start)
	}
}

func TestResetToLastValue_DiscardsEdits(t *testing.T) {
	c := NewColumnFilter("Name", models.KindString)

	if _, applied, err := c.SetFilterValue("Anna", models.OpEquals); err != nil || !applied {
		t.Fatalf("setup submit failed: applied=%v err=%v", applied, err)
	}

	c.BeginEdit()
	c.SetPending("Bob")
	c.ResetToLastValue()

	if c.Pending() != "Anna" {
		t.Errorf("expected pending restored to 'Anna', got %v", c.Pending())
	}
	if c.Current() != "Anna" {
		t.Errorf("current must be unchanged, got %v", c.Current())
	}
}

func TestResetToLastValue_EmptyColumnStaysEmpty(t *testing.T) {
	c := NewColumnFilter("Name", models.KindString)

	c.BeginEdit()
	c.SetPending("draft")
	c.ResetToLastValue()

	if c.Pending() != nil {
		t.Errorf("expected nil pending, got %v", c.Pending())
	}
}

func TestRemoveFilter_ClearsEverything(t *testing.T) {
	c := NewColumnFilter("Name", models.KindString)

	if _, applied, err := c.SetFilterValue("Anna", models.OpEquals); err != nil || !applied {
		t.Fatalf("setup submit failed: applied=%v err=%v", applied, err)
	}

	c.RemoveFilter()

	if c.Current() != nil || c.Pending() != nil {
		t.Error("value slots not cleared")
	}
	if pred, ok := c.Predicate(); ok || pred != "" {
		t.Errorf("predicate not cleared: %q (ok=%v)", pred, ok)
	}
	if c.Operator() != "" {
		t.Errorf("operator not cleared: %s", c.Operator())
	}
}

func TestSetFilterValue_IsNullWithoutValue(t *testing.T) {
	c := NewColumnFilter("Notes", models.KindString)

	pred, applied, err := c.SetFilterValue(nil, models.OpIsNull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatal("null check must apply without an operand value")
	}
	if pred != "Notes == nil" {
		t.Errorf("unexpected predicate: %q", pred)
	}
	if _, ok := c.Predicate(); !ok {
		t.Error("filter should be active after null-check commit")
	}
}
