// Package source loads grid data from its backing stores: a CSV file
// or a PostgreSQL table.
package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lazygrid/lazygrid/internal/models"
)

const csvDateLayout = "2006-01-02"

// LoadCSV reads a CSV file into grid columns and rows. The first
// record is the header. Column kinds are sniffed from the data: a
// column whose non-empty cells all parse as numbers, booleans or
// dates gets that kind, everything else stays text. Cells are stored
// typed, so filters and sorting compare real values.
func LoadCSV(path string) ([]models.ColumnInfo, []models.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv %s: missing header row", path)
	}

	header := records[0]
	data := records[1:]

	columns := make([]models.ColumnInfo, len(header))
	for i, name := range header {
		columns[i] = models.ColumnInfo{
			Name:       name,
			Kind:       sniffKind(data, i),
			Filterable: true,
		}
	}

	rows := make([]models.Row, 0, len(data))
	for _, record := range data {
		row := make(models.Row, len(header))
		for i, col := range columns {
			if i >= len(record) {
				row[col.Name] = nil
				continue
			}
			row[col.Name] = parseCell(record[i], col.Kind)
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}

// sniffKind inspects every non-empty cell of one column.
func sniffKind(data [][]string, col int) models.Kind {
	kind := models.Kind(-1)
	for _, record := range data {
		if col >= len(record) || record[col] == "" {
			continue
		}
		k := cellKind(record[col])
		if kind == models.Kind(-1) {
			kind = k
		} else if kind != k {
			return models.KindString
		}
	}
	if kind == models.Kind(-1) {
		return models.KindString
	}
	return kind
}

func cellKind(s string) models.Kind {
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return models.KindNumeric
	}
	if s == "true" || s == "false" {
		return models.KindBoolean
	}
	if _, err := time.Parse(csvDateLayout, s); err == nil {
		return models.KindDate
	}
	return models.KindString
}

func parseCell(s string, kind models.Kind) any {
	if s == "" {
		return nil
	}
	switch kind {
	case models.KindNumeric:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case models.KindBoolean:
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	case models.KindDate:
		if t, err := time.Parse(csvDateLayout, s); err == nil {
			return t
		}
	}
	return s
}
