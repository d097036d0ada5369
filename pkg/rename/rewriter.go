package rename

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/schematic"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
)

// BackupPrefix is prepended to a sheet's file name for its backup copy
const BackupPrefix = "_"

// Result reports which sheet files a rewrite pass touched
type Result struct {
	Updated []string // rewritten sheet files
	Backups []string // backup files created, parallel to Updated
}

// Apply rewrites reference designators across every sheet of the project
// according to the plan. Only reference leaves under a matching
// instances→project→path node are mutated, and each plan entry is consumed
// on first application.
//
// A sheet file is only rewritten when at least one of its references
// changed. Before the rewrite, the original file is moved to its backup
// name (overwriting any previous backup), so the pre-mutation content is
// safe before the primary file is recreated. A write failure after that
// point is fatal and surfaced; the backup remains a valid restore point.
func Apply(project *schematic.Project, plan *Plan) (Result, error) {
	var result Result

	for _, sheet := range project.Sheets {
		changed := false
		for _, symbol := range schematic.SymbolNodes(sheet.Doc) {
			for _, pathNode := range schematic.InstancePathNodes(symbol) {
				pathText, err := sexp.GetString(pathNode, 1)
				if err != nil {
					continue
				}
				for _, refNode := range sexp.FindAllNodes(pathNode, "reference") {
					current, err := sexp.GetString(refNode, 1)
					if err != nil {
						continue
					}
					newRef, ok := plan.Consume(pathText, current)
					if !ok {
						continue
					}
					if err := sexp.SetString(refNode, 1, newRef); err != nil {
						return result, fmt.Errorf("%s: failed to update reference %q: %w", sheet.File, current, err)
					}
					changed = true
				}
			}
		}

		if !changed {
			continue
		}

		original := filepath.Join(project.Dir, sheet.File)
		backup := filepath.Join(project.Dir, BackupPrefix+sheet.File)

		// Backup before write is a hard invariant: the original content
		// must be preserved before the primary file is recreated
		if err := os.Rename(original, backup); err != nil {
			return result, fmt.Errorf("failed to back up %s: %w", sheet.File, err)
		}
		if err := sexp.WriteFile(original, sheet.Doc); err != nil {
			return result, fmt.Errorf("failed to rewrite %s (backup preserved at %s): %w",
				sheet.File, BackupPrefix+sheet.File, err)
		}

		result.Updated = append(result.Updated, sheet.File)
		result.Backups = append(result.Backups, BackupPrefix+sheet.File)
	}

	return result, nil
}
