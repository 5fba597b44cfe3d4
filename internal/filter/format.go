package filter

import (
	"fmt"
	"time"

	"github.com/lazygrid/lazygrid/internal/models"
)

// ValidateFormat checks a column's display format at configuration
// time. Only date and numeric columns can render themselves with a
// format; anything else is a MisconfiguredFormatError.
func ValidateFormat(col models.ColumnInfo) error {
	if col.Format == "" {
		return nil
	}
	switch col.Kind {
	case models.KindDate, models.KindNumeric:
		return nil
	}
	return &MisconfiguredFormatError{Column: col.Name, Kind: col.Kind}
}

// FormatCell renders a row value for display. Date columns use the
// format as a Go time layout, numeric columns as a printf verb; other
// values render with their default formatting. NULLs render as "".
func FormatCell(v any, col models.ColumnInfo) string {
	if v == nil {
		return ""
	}
	switch col.Kind {
	case models.KindDate:
		if t, ok := v.(time.Time); ok {
			layout := col.Format
			if layout == "" {
				layout = dateLayout
			}
			return t.Format(layout)
		}
	case models.KindNumeric:
		if col.Format != "" {
			return fmt.Sprintf(col.Format, v)
		}
		return formatNumeric(v)
	case models.KindBoolean:
		if b, ok := v.(bool); ok {
			// Icon-style rendering for boolean cells.
			if b {
				return "✓"
			}
			return "✗"
		}
	}
	return fmt.Sprintf("%v", v)
}
