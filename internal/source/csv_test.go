package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lazygrid/lazygrid/internal/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadCSV_SniffsKindsAndTypesCells(t *testing.T) {
	path := writeCSV(t, "Name,Age,Active,HireDate\n"+
		"Anna,34,true,2021-03-01\n"+
		"Bob,19,false,2023-06-15\n")

	columns, rows, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}

	wantKinds := map[string]models.Kind{
		"Name":     models.KindString,
		"Age":      models.KindNumeric,
		"Active":   models.KindBoolean,
		"HireDate": models.KindDate,
	}
	for _, col := range columns {
		if col.Kind != wantKinds[col.Name] {
			t.Errorf("column %s: expected kind %s, got %s", col.Name, wantKinds[col.Name], col.Kind)
		}
		if !col.Filterable {
			t.Errorf("column %s: expected filterable", col.Name)
		}
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["Age"] != int64(34) {
		t.Errorf("expected typed age 34, got %v (%T)", rows[0]["Age"], rows[0]["Age"])
	}
	if rows[1]["Active"] != false {
		t.Errorf("expected typed bool, got %v (%T)", rows[1]["Active"], rows[1]["Active"])
	}
	hire, ok := rows[0]["HireDate"].(time.Time)
	if !ok || !hire.Equal(time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected typed date, got %v (%T)", rows[0]["HireDate"], rows[0]["HireDate"])
	}
}

func TestLoadCSV_MixedColumnFallsBackToString(t *testing.T) {
	path := writeCSV(t, "Code\n42\nabc\n")

	columns, rows, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if columns[0].Kind != models.KindString {
		t.Errorf("expected string kind for mixed column, got %s", columns[0].Kind)
	}
	if rows[0]["Code"] != "42" {
		t.Errorf("expected cell kept as text, got %v (%T)", rows[0]["Code"], rows[0]["Code"])
	}
}

func TestLoadCSV_EmptyCellsBecomeNull(t *testing.T) {
	path := writeCSV(t, "Name,Age\nAnna,34\nBob,\n")

	_, rows, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if rows[1]["Age"] != nil {
		t.Errorf("expected nil for empty cell, got %v", rows[1]["Age"])
	}
}

func TestLoadCSV_MissingHeader(t *testing.T) {
	path := writeCSV(t, "")
	if _, _, err := LoadCSV(path); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestKindForDataType(t *testing.T) {
	cases := map[string]models.Kind{
		"integer":                     models.KindNumeric,
		"numeric":                     models.KindNumeric,
		"character varying":           models.KindString,
		"text":                        models.KindString,
		"boolean":                     models.KindBoolean,
		"date":                        models.KindDate,
		"timestamp without time zone": models.KindDate,
		"jsonb":                       models.KindOther,
	}
	for dt, want := range cases {
		if got := kindForDataType(dt); got != want {
			t.Errorf("kindForDataType(%q) = %s, want %s", dt, got, want)
		}
	}
}
