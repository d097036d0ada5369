package autobom

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const rootSheet = `(kicad_sch
	(version 20231120)
	(uuid demo-root)
	(symbol
		(lib_id "Device:R")
		(property "Reference" "R4")
		(property "Value" "1k")
		(property "Footprint" "Resistor_SMD:R_0603_1608Metric")
		(property "Description" "Resistor")
		(instances
			(project "demo"
				(path "/demo-root" (reference "R4") (unit 1))
			)
		)
	)
	(symbol
		(lib_id "Device:R")
		(property "Reference" "R7")
		(property "Value" "1k")
		(property "Footprint" "Resistor_SMD:R_0603_1608Metric")
		(property "Description" "Resistor")
		(instances
			(project "demo"
				(path "/demo-root" (reference "R7") (unit 1))
			)
		)
	)
	(symbol
		(lib_id "Device:C")
		(property "Reference" "C2")
		(property "Value" "100nF")
		(property "Footprint" "Capacitor_SMD:C_0402_1005Metric")
		(property "Description" "Capacitor")
		(instances
			(project "demo"
				(path "/demo-root" (reference "C2") (unit 1))
			)
		)
	)
)
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "demo_sch.kicad_sch"), []byte(rootSheet), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return dir
}

func TestPrintBOM(t *testing.T) {
	dir := writeFixture(t)

	var buf bytes.Buffer
	err := PrintBOM(&buf, Options{Dir: dir, RootFile: "demo_sch.kicad_sch"})
	if err != nil {
		t.Fatalf("PrintBOM failed: %v", err)
	}

	out := buf.String()
	// The two 1k resistors cluster into one row
	if !strings.Contains(out, "R4, R7") {
		t.Errorf("Expected grouped resistor row, got:\n%s", out)
	}
	if !strings.Contains(out, "R_0603") {
		t.Errorf("Expected canonicalized footprint in output, got:\n%s", out)
	}
	if strings.Contains(out, "Resistor_SMD:") {
		t.Errorf("Expected library prefix stripped from footprint, got:\n%s", out)
	}
}

func TestPrintBOMExportsCSV(t *testing.T) {
	dir := writeFixture(t)

	var buf bytes.Buffer
	err := PrintBOM(&buf, Options{Dir: dir, RootFile: "demo_sch.kicad_sch", ExportCSV: true})
	if err != nil {
		t.Fatalf("PrintBOM failed: %v", err)
	}

	csvPath := filepath.Join(dir, "demo_sch_BOM.csv")
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("Expected CSV export at %s: %v", csvPath, err)
	}
	if !strings.Contains(string(data), "Reference") {
		t.Error("CSV export missing header row")
	}
	if !strings.Contains(buf.String(), "Exported:") {
		t.Error("Expected export notice in output")
	}
}

func TestPrintBOMRejectsUnknownColumns(t *testing.T) {
	dir := writeFixture(t)

	var buf bytes.Buffer
	err := PrintBOM(&buf, Options{
		Dir:         dir,
		RootFile:    "demo_sch.kicad_sch",
		CustomOrder: []string{"Reference", "Bogus"},
	})
	if err == nil {
		t.Fatal("Expected an error for an unknown column name")
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output before the column check, got:\n%s", buf.String())
	}
}

func TestCompactReferencesRejectsUnknownColumns(t *testing.T) {
	dir := writeFixture(t)

	before, err := os.ReadFile(filepath.Join(dir, "demo_sch.kicad_sch"))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	var buf bytes.Buffer
	_, err = CompactReferences(&buf, Options{
		Dir:         dir,
		RootFile:    "demo_sch.kicad_sch",
		CustomOrder: []string{"Bogus"},
	})
	if err == nil {
		t.Fatal("Expected an error for an unknown column name")
	}

	// The bad request must abort before any backup or rewrite
	if _, err := os.Stat(filepath.Join(dir, "_demo_sch.kicad_sch")); !os.IsNotExist(err) {
		t.Error("No backup may be created for a rejected request")
	}
	after, err := os.ReadFile(filepath.Join(dir, "demo_sch.kicad_sch"))
	if err != nil {
		t.Fatalf("Failed to re-read fixture: %v", err)
	}
	if string(before) != string(after) {
		t.Error("Sheet must be untouched after a rejected request")
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output before the column check, got:\n%s", buf.String())
	}
}

func TestVerboseProgress(t *testing.T) {
	dir := writeFixture(t)

	var plain bytes.Buffer
	if err := PrintBOM(&plain, Options{Dir: dir, RootFile: "demo_sch.kicad_sch"}); err != nil {
		t.Fatalf("PrintBOM failed: %v", err)
	}
	var loud bytes.Buffer
	if err := PrintBOM(&loud, Options{Dir: dir, RootFile: "demo_sch.kicad_sch", Verbose: true}); err != nil {
		t.Fatalf("Verbose PrintBOM failed: %v", err)
	}

	if !strings.Contains(loud.String(), "Parsed: demo_sch.kicad_sch (3 components)") {
		t.Errorf("Expected per-sheet parse line, got:\n%s", loud.String())
	}
	if strings.Contains(plain.String(), "Parsed:") {
		t.Errorf("Parse lines must only appear with Verbose, got:\n%s", plain.String())
	}

	var compact bytes.Buffer
	_, err := CompactReferences(&compact, Options{Dir: dir, RootFile: "demo_sch.kicad_sch", Verbose: true})
	if err != nil {
		t.Fatalf("CompactReferences failed: %v", err)
	}
	for _, want := range []string{"Rename: R4 -> R1", "Rename: R7 -> R2", "Rename: C2 -> C1"} {
		if !strings.Contains(compact.String(), want) {
			t.Errorf("Expected %q in verbose output, got:\n%s", want, compact.String())
		}
	}
}

func TestCompactReferences(t *testing.T) {
	dir := writeFixture(t)

	var buf bytes.Buffer
	result, err := CompactReferences(&buf, Options{Dir: dir, RootFile: "demo_sch.kicad_sch"})
	if err != nil {
		t.Fatalf("CompactReferences failed: %v", err)
	}

	// R4 -> R1, R7 -> R2, C2 -> C1: the sheet is rewritten once
	if len(result.Updated) != 1 || result.Updated[0] != "demo_sch.kicad_sch" {
		t.Fatalf("Expected one updated sheet, got %v", result.Updated)
	}
	if len(result.Backups) != 1 || result.Backups[0] != "_demo_sch.kicad_sch" {
		t.Fatalf("Expected one backup, got %v", result.Backups)
	}
	if !strings.Contains(buf.String(), "Updated: demo_sch.kicad_sch") {
		t.Errorf("Expected update notice, got:\n%s", buf.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "demo_sch.kicad_sch"))
	if err != nil {
		t.Fatalf("Failed to read rewritten sheet: %v", err)
	}
	for _, want := range []string{`"R1"`, `"R2"`, `"C1"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected rewritten sheet to contain %s", want)
		}
	}

	// A second run finds nothing to do
	var again bytes.Buffer
	result, err = CompactReferences(&again, Options{Dir: dir, RootFile: "demo_sch.kicad_sch"})
	if err != nil {
		t.Fatalf("Second CompactReferences failed: %v", err)
	}
	if len(result.Updated) != 0 {
		t.Errorf("Expected no updates on second run, got %v", result.Updated)
	}
}
