package schematic

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
)

func parseDoc(t *testing.T, input string) *sexp.Node {
	t.Helper()
	p, err := sexp.NewParser()
	if err != nil {
		t.Fatalf("Failed to build parser: %v", err)
	}
	doc, err := p.ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	return doc
}

const symbolFixture = `(kicad_sch
	(version 20231120)
	(uuid root-uuid)
	(symbol
		(lib_id "Device:R")
		(uuid sym-1)
		(property "Reference" "R1")
		(property "Value" "10k")
		(property "Footprint" "Resistor_SMD:R_0402_1005Metric")
		(property "Description" "Resistor")
		(property "Vrating" "50V")
		(instances
			(project "demo"
				(path "/root-uuid" (reference "R1") (unit 1))
			)
		)
	)
	(symbol
		(lib_id "power:GND")
		(uuid sym-2)
		(property "Reference" "#PWR01")
		(property "Value" "GND")
		(instances
			(project "demo"
				(path "/root-uuid" (reference "#PWR01") (unit 1))
			)
		)
	)
	(symbol
		(lib_id "Mechanical:MountingHole")
		(uuid sym-3)
		(property "Reference" "H1")
		(property "Value" "MountingHole")
		(instances
			(project "demo"
				(path "/root-uuid" (reference "H1") (unit 1))
			)
		)
	)
	(symbol
		(lib_id "Device:C")
		(uuid sym-4)
		(property "Reference" "C3")
		(property "Value" "100nF")
		(instances
			(project "demo"
				(path "/root-uuid/sheet-a" (reference "C3") (unit 1))
				(path "/root-uuid/sheet-b" (reference "C7") (unit 1))
			)
			(project "other"
				(path "/other-uuid" (reference "C99") (unit 1))
			)
		)
	)
)`

func TestExtractComponents(t *testing.T) {
	doc := parseDoc(t, symbolFixture)
	rows := ExtractComponents(doc, "root-uuid", ExtractOptions{ExtraFields: []string{"Vrating"}})

	// R1 plus both hierarchy instances of the capacitor; power marker and
	// mounting hole are skipped, and the foreign project is not ours
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d: %+v", len(rows), rows)
	}

	r1 := rows[0]
	if r1.Reference != "R1" {
		t.Errorf("Expected R1 first, got %s", r1.Reference)
	}
	if r1.Value != "10k" || r1.Description != "Resistor" {
		t.Errorf("Unexpected R1 attributes: %+v", r1)
	}
	if r1.Footprint != "R_0402" {
		t.Errorf("Expected canonical footprint R_0402, got %q", r1.Footprint)
	}
	if r1.InstancePath != "/root-uuid" {
		t.Errorf("Unexpected instance path %q", r1.InstancePath)
	}
	if r1.Extra["Vrating"] != "50V" {
		t.Errorf("Expected Vrating 50V, got %q", r1.Extra["Vrating"])
	}

	c3, c7 := rows[1], rows[2]
	if c3.Reference != "C3" || c7.Reference != "C7" {
		t.Errorf("Expected C3 and C7 rows, got %s and %s", c3.Reference, c7.Reference)
	}
	if c3.InstancePath != "/root-uuid/sheet-a" || c7.InstancePath != "/root-uuid/sheet-b" {
		t.Errorf("Instance paths not kept apart: %q / %q", c3.InstancePath, c7.InstancePath)
	}
	// Missing properties default to the placeholder
	if c3.Footprint != MissingValue || c3.Extra["Vrating"] != MissingValue {
		t.Errorf("Expected placeholders for missing properties, got %+v", c3)
	}
}

func TestExtractComponentsFallbackReference(t *testing.T) {
	doc := parseDoc(t, `(kicad_sch
		(uuid root-uuid)
		(symbol
			(property "Reference" "U2")
			(property "Value" "LM317")
		)
	)`)

	rows := ExtractComponents(doc, "root-uuid", ExtractOptions{})
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Reference != "U2" {
		t.Errorf("Expected fallback reference U2, got %q", rows[0].Reference)
	}
	if rows[0].InstancePath != "" {
		t.Errorf("Fallback rows carry no instance path, got %q", rows[0].InstancePath)
	}
}

func TestExtractComponentsIgnorePrefixes(t *testing.T) {
	doc := parseDoc(t, `(kicad_sch
		(uuid root-uuid)
		(symbol
			(property "Reference" "J1")
			(property "Value" "Conn_01x04")
			(instances
				(project "demo" (path "/root-uuid" (reference "J1")))
			)
		)
	)`)

	// J is ignored by default
	if rows := ExtractComponents(doc, "root-uuid", ExtractOptions{}); len(rows) != 0 {
		t.Errorf("Expected default ignore of J prefix, got %d rows", len(rows))
	}

	// An explicit empty prefix list keeps everything
	rows := ExtractComponents(doc, "root-uuid", ExtractOptions{IgnorePrefixes: []string{}})
	if len(rows) != 1 {
		t.Errorf("Expected J1 with empty ignore list, got %d rows", len(rows))
	}
}
