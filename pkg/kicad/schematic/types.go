// Package schematic discovers hierarchical KiCad schematic sheet trees and
// extracts component rows from them. It understands the instance-path
// bookkeeping KiCad uses to track symbols that appear under several sheet
// instances within one project.
package schematic

import (
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
)

// Component is one extracted component occurrence: a single reference
// designator under a single project instance path.
type Component struct {
	Reference   string
	Value       string
	Description string
	Footprint   string

	// InstancePath is the full hierarchical path text this occurrence was
	// found under (e.g. "/root-uuid/sheet-uuid"). Empty when the reference
	// came from the Reference property fallback.
	InstancePath string

	// Extra holds any requested additional property fields
	Extra map[string]string
}

// SheetRef is a hierarchical sheet reference found on a parent sheet
type SheetRef struct {
	Name string // display name ("Sheetname" property)
	File string // file name ("Sheetfile" property)
}

// Sheet is one discovered schematic file with its parsed document
type Sheet struct {
	File string
	Doc  *sexp.Node
}

// Project is the full reachable sheet set of one schematic project.
// Sheets are deduplicated by file name in discovery order, root first.
type Project struct {
	Dir       string
	ProjectID string

	// Version is the schematic format version of the root sheet, 0 when
	// the root carries no version node
	Version int

	Sheets []*Sheet
}

// SymbolNodes returns the top-level symbol instance nodes of a sheet document
func SymbolNodes(doc *sexp.Node) []*sexp.Node {
	return sexp.FindAllNodes(doc, "symbol")
}

// SheetRefs extracts the hierarchical sheet references of a sheet document
func SheetRefs(doc *sexp.Node) []SheetRef {
	var refs []SheetRef
	for _, sheetNode := range sexp.FindAllNodes(doc, "sheet") {
		ref := SheetRef{}
		for _, propNode := range sexp.FindAllNodes(sheetNode, "property") {
			key, err := sexp.GetString(propNode, 1)
			if err != nil {
				continue
			}
			switch key {
			case "Sheetname":
				ref.Name, _ = sexp.GetString(propNode, 2)
			case "Sheetfile":
				ref.File, _ = sexp.GetString(propNode, 2)
			}
		}
		refs = append(refs, ref)
	}
	return refs
}

// InstancePathNodes returns every instances→project→path node of a symbol.
// These are the nodes that carry per-instance reference designators.
func InstancePathNodes(symbol *sexp.Node) []*sexp.Node {
	var paths []*sexp.Node
	for _, instNode := range sexp.FindAllNodes(symbol, "instances") {
		for _, projNode := range sexp.FindAllNodes(instNode, "project") {
			paths = append(paths, sexp.FindAllNodes(projNode, "path")...)
		}
	}
	return paths
}
