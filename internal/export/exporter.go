// Package export writes the current result set to disk. Exports see
// the filtered rows, not the full dataset, so what you see in the
// grid is what lands in the file.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lazygrid/lazygrid/internal/filter"
	"github.com/lazygrid/lazygrid/internal/models"
)

// ToCSV writes rows to a CSV file. Cells are rendered with the same
// display formatting the grid uses, so dates and numeric formats
// match what was on screen.
func ToCSV(cols []models.ColumnInfo, rows []models.Row, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.DisplayTitle()
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			record[i] = filter.FormatCell(row[col.Name], col)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return writer.Error()
}

// ToJSON writes rows to a JSON file with their raw typed values.
func ToJSON(rows []models.Row, path string) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}
