// Package autobom ties the schematic walker, BOM aggregator, and rename
// engine together into the two user-facing operations: printing a BOM for
// a project and compacting its reference designators.
package autobom

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/schematic"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/rename"
)

// Options configures a BOM or compaction run
type Options struct {
	// Dir is the folder containing the schematic sheets
	Dir string

	// RootFile is the root sheet file name, e.g. "my_board_sch.kicad_sch"
	RootFile string

	// MaxWidth limits table column width in characters; <= 0 disables
	MaxWidth int

	// ExtraFields names additional symbol properties to include in the BOM
	// and in the clustering key
	ExtraFields []string

	// CustomOrder overrides the BOM column order. Omitted columns are
	// appended; unknown names are an error before any output or mutation.
	CustomOrder []string

	// ExportCSV writes "<rootname>_BOM.csv" beside the schematic
	ExportCSV bool

	// Rules canonicalizes footprint strings; nil uses the defaults
	Rules *footprint.Rules

	// Verbose adds per-sheet and per-rename progress lines to the output
	Verbose bool
}

func (o Options) extractOpts() schematic.ExtractOptions {
	return schematic.ExtractOptions{
		ExtraFields: o.ExtraFields,
		Rules:       o.Rules,
	}
}

// PrintBOM discovers the full sheet hierarchy, aggregates the BOM, and
// writes the formatted table to w. Read-only: no schematic file is touched.
func PrintBOM(w io.Writer, opts Options) error {
	columns, err := bom.OrderColumns(bom.Columns(opts.ExtraFields), opts.CustomOrder)
	if err != nil {
		return err
	}

	project, err := schematic.DiscoverSheets(opts.Dir, opts.RootFile)
	if err != nil {
		return err
	}

	var rows []schematic.Component
	for _, sheet := range project.Sheets {
		sheetRows := schematic.ExtractComponents(sheet.Doc, project.ProjectID, opts.extractOpts())
		if opts.Verbose {
			fmt.Fprintf(w, "Parsed: %s (%d components)\n", sheet.File, len(sheetRows))
		}
		rows = append(rows, sheetRows...)
	}
	groups := bom.Aggregate(rows, opts.ExtraFields)

	if opts.ExportCSV {
		path, err := bom.ExportCSV(opts.Dir, opts.RootFile, groups, columns)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported: %s\n", path)
	}

	_, err = io.WriteString(w, bom.Table(groups, columns, opts.MaxWidth))
	return err
}

// CompactReferences clusters components by identical attributes, renumbers
// their references into contiguous sequential ranges, and rewrites every
// affected sheet file in place with a single-generation backup.
func CompactReferences(w io.Writer, opts Options) (rename.Result, error) {
	// Validate the column order up front so a bad request aborts before
	// the first backup is created
	if _, err := bom.OrderColumns(bom.Columns(opts.ExtraFields), opts.CustomOrder); err != nil {
		return rename.Result{}, err
	}

	project, err := schematic.DiscoverSheets(opts.Dir, opts.RootFile)
	if err != nil {
		return rename.Result{}, err
	}

	rows := schematic.ExtractAll(project, opts.extractOpts())
	plan := rename.NewPlan(rows, opts.ExtraFields)

	if opts.Verbose {
		for _, entry := range plan.Entries() {
			fmt.Fprintf(w, "Rename: %s -> %s\n", entry.Old, entry.New)
		}
	}

	result, err := rename.Apply(project, plan)
	if err != nil {
		return result, err
	}

	for i, file := range result.Updated {
		fmt.Fprintf(w, "Updated: %s\nBackup: %s\n", file, result.Backups[i])
	}
	return result, nil
}
