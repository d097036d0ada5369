package bom

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCSVName(t *testing.T) {
	tests := []struct {
		root string
		want string
	}{
		{"my_board_sch.kicad_sch", "my_board_sch_BOM.csv"},
		{"design.kicad_sch", "design_BOM.csv"},
	}
	for _, tt := range tests {
		if got := CSVName(tt.root); got != tt.want {
			t.Errorf("CSVName(%q) = %q, want %q", tt.root, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, sampleGroups(), Columns(nil)); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "Reference" || records[0][2] != "Qty" {
		t.Errorf("Unexpected header %v", records[0])
	}
	if records[1][0] != "C1, C2" || records[1][2] != "2" {
		t.Errorf("Unexpected first row %v", records[1])
	}
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportCSV(dir, "main.kicad_sch", sampleGroups(), Columns(nil))
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if filepath.Base(path) != "main_BOM.csv" {
		t.Errorf("Unexpected export path %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Export file missing: %v", err)
	}
}
