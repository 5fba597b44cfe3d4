// Package query executes the grid's refresh requests against the
// loaded rows. The combined predicate arrives as an expr-lang
// fragment; it is compiled once per refresh and evaluated per row.
package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/lazygrid/lazygrid/internal/grid"
	"github.com/lazygrid/lazygrid/internal/models"
)

// Run filters, sorts and paginates rows per the refresh request. The
// result carries its error inside, so a failed refresh still renders
// as a result in the UI.
func Run(ctx context.Context, rows []models.Row, req grid.Refresh) models.QueryResult {
	start := time.Now()

	var program *vm.Program
	if req.Predicate != "" {
		p, err := expr.Compile(req.Predicate, expr.AllowUndefinedVariables(), expr.AsBool())
		if err != nil {
			return models.QueryResult{
				Total:    len(rows),
				Error:    fmt.Errorf("compile predicate: %w", err),
				Duration: time.Since(start),
			}
		}
		program = p
	}

	filtered := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return models.QueryResult{
				Total:    len(rows),
				Error:    err,
				Duration: time.Since(start),
			}
		}
		if program == nil {
			filtered = append(filtered, row)
			continue
		}
		out, err := vm.Run(program, map[string]any(row))
		if err != nil {
			// A row the predicate cannot evaluate (NULL compared with
			// an ordering operator, say) is excluded, not fatal.
			continue
		}
		if matched, ok := out.(bool); ok && matched {
			filtered = append(filtered, row)
		}
	}

	if req.SortCol != "" && req.SortDir != models.SortNone {
		sortRows(filtered, req.SortCol, req.SortDir)
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = len(filtered)
	}
	pageCount := 0
	if pageSize > 0 {
		pageCount = (len(filtered) + pageSize - 1) / pageSize
	}
	page := req.Page
	if page >= pageCount {
		page = pageCount - 1
	}
	if page < 0 {
		page = 0
	}

	lo := page * pageSize
	hi := lo + pageSize
	if lo > len(filtered) {
		lo = len(filtered)
	}
	if hi > len(filtered) {
		hi = len(filtered)
	}

	return models.QueryResult{
		Rows:      filtered[lo:hi],
		Total:     len(rows),
		Filtered:  len(filtered),
		Page:      page,
		PageCount: pageCount,
		Duration:  time.Since(start),
	}
}

func sortRows(rows []models.Row, col string, dir models.SortDirection) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareCells(rows[i][col], rows[j][col])
		if dir == models.SortDesc {
			return c > 0
		}
		return c < 0
	})
}

// compareCells orders two cell values of the same column. NULLs order
// after every non-NULL value.
func compareCells(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}

	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case !ab && bb:
				return -1
			case ab && !bb:
				return 1
			}
			return 0
		}
	}

	as, bs := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
