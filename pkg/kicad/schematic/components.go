package schematic

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
)

// Placeholder used for properties a symbol does not carry
const MissingValue = "-"

// DefaultIgnorePrefixes lists reference prefixes excluded from extraction:
// graphics, mounting holes, and jumpers
var DefaultIgnorePrefixes = []string{"G", "H", "J"}

// ExtractOptions controls component extraction
type ExtractOptions struct {
	// IgnorePrefixes replaces DefaultIgnorePrefixes when non-nil
	IgnorePrefixes []string

	// ExtraFields names additional symbol properties to collect
	ExtraFields []string

	// Rules canonicalizes footprint strings; nil uses the defaults
	Rules *footprint.Rules
}

func (o ExtractOptions) ignorePrefixes() []string {
	if o.IgnorePrefixes != nil {
		return o.IgnorePrefixes
	}
	return DefaultIgnorePrefixes
}

func (o ExtractOptions) rules() *footprint.Rules {
	if o.Rules != nil {
		return o.Rules
	}
	return footprint.DefaultRules()
}

// ExtractComponents scans a sheet document for symbol instances and builds
// one Component row per (reference, instance path) occurrence matching the
// given project. A symbol placed under several sheet instances yields one
// row per instance. Power markers ("#"-prefixed) and ignored reference
// prefixes are skipped.
func ExtractComponents(doc *sexp.Node, projectID string, opts ExtractOptions) []Component {
	var rows []Component
	for _, symbol := range SymbolNodes(doc) {
		rows = append(rows, extractSymbol(symbol, projectID, opts)...)
	}
	return rows
}

// ExtractAll runs ExtractComponents over every sheet of a project
func ExtractAll(project *Project, opts ExtractOptions) []Component {
	var rows []Component
	for _, sheet := range project.Sheets {
		rows = append(rows, ExtractComponents(sheet.Doc, project.ProjectID, opts)...)
	}
	return rows
}

// instanceRef is one (reference, path) occurrence of a symbol
type instanceRef struct {
	ref  string
	path string
}

func extractSymbol(symbol *sexp.Node, projectID string, opts ExtractOptions) []Component {
	refs := instanceRefs(symbol, projectID)
	if len(refs) == 0 {
		// No instance entry for this project: fall back to the symbol's
		// Reference property below
		refs = []instanceRef{{}}
	}

	var rows []Component
	for _, occ := range refs {
		if skippedRef(occ.ref, opts.ignorePrefixes()) {
			continue
		}

		row := Component{
			Reference:    occ.ref,
			Value:        MissingValue,
			Description:  MissingValue,
			Footprint:    MissingValue,
			InstancePath: occ.path,
		}
		if len(opts.ExtraFields) > 0 {
			row.Extra = make(map[string]string, len(opts.ExtraFields))
			for _, f := range opts.ExtraFields {
				row.Extra[f] = MissingValue
			}
		}

		skip := false
		for _, propNode := range sexp.FindAllNodes(symbol, "property") {
			key, err := sexp.GetString(propNode, 1)
			if err != nil {
				continue
			}
			value, err := sexp.GetString(propNode, 2)
			if err != nil {
				continue
			}

			switch {
			case key == "Reference":
				if row.Reference != "" {
					break
				}
				if skippedRef(value, opts.ignorePrefixes()) {
					skip = true
					break
				}
				row.Reference = value
			case key == "Value":
				row.Value = value
			case key == "Description":
				row.Description = value
			case key == "Footprint":
				row.Footprint = opts.rules().Canonical(value)
			case row.Extra != nil && hasField(opts.ExtraFields, key):
				row.Extra[key] = value
			}
			if skip {
				break
			}
		}

		if !skip && row.Reference != "" {
			rows = append(rows, row)
		}
	}
	return rows
}

// instanceRefs collects every (reference, path) pair of a symbol whose
// instance path belongs to the given project. The project is identified by
// the first path segment (paths look like "/root-uuid/sheet-uuid").
func instanceRefs(symbol *sexp.Node, projectID string) []instanceRef {
	var refs []instanceRef
	for _, pathNode := range InstancePathNodes(symbol) {
		pathText, err := sexp.GetString(pathNode, 1)
		if err != nil {
			continue
		}
		segments := strings.Split(pathText, "/")
		if len(segments) < 2 || segments[1] != projectID {
			continue
		}
		for _, refNode := range sexp.FindAllNodes(pathNode, "reference") {
			refText, err := sexp.GetString(refNode, 1)
			if err != nil {
				continue
			}
			refs = append(refs, instanceRef{ref: refText, path: pathText})
		}
	}
	return refs
}

// skippedRef reports whether a non-empty reference is excluded: power and
// no-connect markers ("#...") and the configured ignore prefixes
func skippedRef(ref string, ignorePrefixes []string) bool {
	if ref == "" {
		return false
	}
	if strings.HasPrefix(ref, "#") {
		return true
	}
	for _, prefix := range ignorePrefixes {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}

func hasField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
