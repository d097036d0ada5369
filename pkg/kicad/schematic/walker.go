package schematic

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
)

// DiscoverSheets walks the sheet hierarchy starting at rootFile in dir and
// returns the full reachable sheet set. Each file is parsed exactly once
// even when re-used by several parent sheets. The project identifier is the
// root sheet's uuid and applies project-wide.
//
// Sheet hierarchies are expected to form a DAG; a cycle is reported as an
// error rather than traversed.
func DiscoverSheets(dir, rootFile string) (*Project, error) {
	parser, err := sexp.NewParser()
	if err != nil {
		return nil, err
	}

	project := &Project{Dir: dir}
	walker := &sheetWalker{
		parser:   parser,
		project:  project,
		visited:  make(map[string]bool),
		visiting: make(map[string]bool),
	}
	if err := walker.walk(rootFile); err != nil {
		return nil, err
	}
	return project, nil
}

// RootSheetFromBoard maps a board file path to its root schematic file name
// by convention: the "_pcb" suffix becomes "_sch". Paths already naming a
// schematic pass through unchanged.
func RootSheetFromBoard(boardPath string) string {
	base := filepath.Base(boardPath)
	if strings.HasSuffix(base, ".kicad_pcb") {
		base = strings.TrimSuffix(base, ".kicad_pcb") + ".kicad_sch"
	}
	return strings.Replace(base, "_pcb", "_sch", 1)
}

type sheetWalker struct {
	parser   *sexp.Parser
	project  *Project
	visited  map[string]bool // fully processed files
	visiting map[string]bool // files on the current recursion stack
}

func (w *sheetWalker) walk(filename string) error {
	if w.visited[filename] {
		return nil
	}
	if w.visiting[filename] {
		return fmt.Errorf("sheet hierarchy cycle detected at %q", filename)
	}
	w.visiting[filename] = true
	defer delete(w.visiting, filename)

	doc, err := w.parser.ParseFile(filepath.Join(w.project.Dir, filename))
	if err != nil {
		return err
	}
	if doc.Name() != "kicad_sch" {
		return fmt.Errorf("%s: not a KiCad schematic file (root node %q)", filename, doc.Name())
	}

	// The first uuid seen at the root sheet identifies the project
	if w.project.ProjectID == "" {
		if uuidNode, found := sexp.FindNode(doc, "uuid"); found {
			w.project.ProjectID, _ = sexp.GetString(uuidNode, 1)
		}
		if versionNode, found := sexp.FindNode(doc, "version"); found {
			w.project.Version, _ = sexp.GetInt(versionNode, 1)
		}
	}

	w.project.Sheets = append(w.project.Sheets, &Sheet{File: filename, Doc: doc})
	w.visited[filename] = true

	for _, ref := range SheetRefs(doc) {
		if ref.File == "" {
			continue
		}
		if err := w.walk(ref.File); err != nil {
			return err
		}
	}
	return nil
}
