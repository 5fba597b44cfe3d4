package query

import (
	"context"
	"testing"
	"time"

	"github.com/lazygrid/lazygrid/internal/grid"
	"github.com/lazygrid/lazygrid/internal/models"
)

func testRows() []models.Row {
	hire := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return []models.Row{
		{"Name": "Anna", "Age": 34, "Active": true, "HireDate": hire(2021, time.March, 1)},
		{"Name": "Bob", "Age": 19, "Active": false, "HireDate": hire(2023, time.June, 15)},
		{"Name": "annabelle", "Age": 27, "Active": true, "HireDate": hire(2022, time.January, 20)},
		{"Name": "Carol", "Age": 45, "Active": true, "HireDate": hire(2019, time.November, 5)},
		{"Name": nil, "Age": 61, "Active": false, "HireDate": hire(2010, time.May, 30)},
	}
}

func TestRun_NoPredicateReturnsAll(t *testing.T) {
	res := Run(context.Background(), testRows(), grid.Refresh{PageSize: 50})
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}
	if res.Filtered != 5 || len(res.Rows) != 5 {
		t.Errorf("expected all 5 rows, got filtered=%d len=%d", res.Filtered, len(res.Rows))
	}
}

func TestRun_NumericPredicate(t *testing.T) {
	res := Run(context.Background(), testRows(), grid.Refresh{Predicate: "(Age >= 30)", PageSize: 50})
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}
	if res.Filtered != 3 {
		t.Errorf("expected 3 matches, got %d", res.Filtered)
	}
}

func TestRun_CaseInsensitiveContains(t *testing.T) {
	res := Run(context.Background(), testRows(), grid.Refresh{Predicate: `(lower(Name) contains "anna")`, PageSize: 50})
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}
	// The NULL name row cannot be lower-cased; it is excluded, not fatal.
	if res.Filtered != 2 {
		t.Errorf("expected Anna and annabelle, got %d rows", res.Filtered)
	}
}

func TestRun_DateRangePredicate(t *testing.T) {
	pred := `(HireDate > date("2020-01-01") && HireDate < date("2022-12-31"))`
	res := Run(context.Background(), testRows(), grid.Refresh{Predicate: pred, PageSize: 50})
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}
	if res.Filtered != 2 {
		t.Errorf("expected 2 rows in range, got %d", res.Filtered)
	}
}

func TestRun_InvalidPredicateReportsError(t *testing.T) {
	res := Run(context.Background(), testRows(), grid.Refresh{Predicate: "((", PageSize: 50})
	if res.Error == nil {
		t.Fatal("expected a compile error")
	}
	if len(res.Rows) != 0 {
		t.Errorf("expected no rows on error, got %d", len(res.Rows))
	}
}

func TestRun_SortAndPaginate(t *testing.T) {
	req := grid.Refresh{PageSize: 2, Page: 1, SortCol: "Age", SortDir: models.SortAsc}
	res := Run(context.Background(), testRows(), req)
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}
	if res.PageCount != 3 {
		t.Errorf("expected 3 pages, got %d", res.PageCount)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows on page 1, got %d", len(res.Rows))
	}
	if res.Rows[0]["Age"] != 34 || res.Rows[1]["Age"] != 45 {
		t.Errorf("unexpected page content: %v, %v", res.Rows[0]["Age"], res.Rows[1]["Age"])
	}
}

func TestRun_PageClampedToLastPage(t *testing.T) {
	res := Run(context.Background(), testRows(), grid.Refresh{PageSize: 2, Page: 99})
	if res.Page != 2 {
		t.Errorf("expected clamp to page 2, got %d", res.Page)
	}
	if len(res.Rows) != 1 {
		t.Errorf("expected 1 row on last page, got %d", len(res.Rows))
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Run(ctx, testRows(), grid.Refresh{PageSize: 50})
	if res.Error == nil {
		t.Fatal("expected context error")
	}
}

// TestRun_EndToEnd drives the full pipeline: column filters compile
// fragments, the grid combines them, the engine evaluates the result.
func TestRun_EndToEnd(t *testing.T) {
	g, err := grid.New([]models.ColumnInfo{
		{Name: "Name", Kind: models.KindString, Filterable: true},
		{Name: "Age", Kind: models.KindNumeric, Filterable: true},
	}, grid.WithPageSize(10))
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}

	if _, ok, err := g.ApplyFilter("Name", "Anna", models.OpContains); err != nil || !ok {
		t.Fatalf("apply Name filter: ok=%v err=%v", ok, err)
	}
	req, ok, err := g.ApplyFilter("Age", 30, models.OpGreaterThanOrEquals)
	if err != nil || !ok {
		t.Fatalf("apply Age filter: ok=%v err=%v", ok, err)
	}

	res := Run(context.Background(), testRows(), req)
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}
	if res.Filtered != 1 {
		t.Fatalf("expected exactly Anna(34), got %d rows", res.Filtered)
	}
	if res.Rows[0]["Name"] != "Anna" {
		t.Errorf("unexpected row: %v", res.Rows[0])
	}
}

func TestCompareCells_NullsLast(t *testing.T) {
	if compareCells(nil, 5) <= 0 {
		t.Error("nil should order after a value")
	}
	if compareCells("a", nil) >= 0 {
		t.Error("a value should order before nil")
	}
	if compareCells(nil, nil) != 0 {
		t.Error("two nils should compare equal")
	}
}
