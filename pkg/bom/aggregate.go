package bom

import (
	"sort"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/schematic"
)

// Group is one BOM line item: a set of components sharing identical
// attributes, with their references merged.
type Group struct {
	// Refs holds the distinct reference texts, numerically sorted
	Refs []string

	// Members holds the underlying component occurrences, deduplicated by
	// (reference, instance path) and sorted like Refs. The rename planner
	// walks these so every occurrence keeps its own path.
	Members []schematic.Component

	Value       string
	Footprint   string
	Description string
	Extra       map[string]string
}

// Qty is the number of distinct references merged into the group
func (g *Group) Qty() int {
	return len(g.Refs)
}

// RefDisplay returns the range-compressed reference list, e.g. "R5-R8, R12"
func (g *Group) RefDisplay() string {
	return strings.Join(CompressRefs(g.Refs), ", ")
}

// Field returns the group's value for a named BOM column
func (g *Group) Field(column string) string {
	switch column {
	case ColReference:
		return g.RefDisplay()
	case ColValue:
		return g.Value
	case ColQty:
		return strconv.Itoa(g.Qty())
	case ColFootprint:
		return g.Footprint
	case ColDescription:
		return g.Description
	default:
		return g.Extra[column]
	}
}

// Aggregate groups component rows by identical non-reference attributes.
// Within a group, references are deduplicated (a symbol may be discovered
// through more than one extraction path) and sorted numerically. Groups are
// ordered by (prefix, numeric index) of their first reference.
//
// extraFields names the additional attributes participating in the grouping
// key, in display order.
func Aggregate(rows []schematic.Component, extraFields []string) []*Group {
	byKey := make(map[string]*Group)
	var order []string

	for _, row := range rows {
		key := groupKey(row, extraFields)
		group, ok := byKey[key]
		if !ok {
			group = &Group{
				Value:       row.Value,
				Footprint:   row.Footprint,
				Description: row.Description,
			}
			if len(extraFields) > 0 {
				group.Extra = make(map[string]string, len(extraFields))
				for _, f := range extraFields {
					group.Extra[f] = row.Extra[f]
				}
			}
			byKey[key] = group
			order = append(order, key)
		}
		group.add(row)
	}

	groups := make([]*Group, 0, len(order))
	for _, key := range order {
		group := byKey[key]
		group.finish()
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].firstRef(), groups[j].firstRef()
		pa, pb := RefPrefix(a), RefPrefix(b)
		if pa != pb {
			return pa < pb
		}
		return RefNumber(a) < RefNumber(b)
	})
	return groups
}

func groupKey(row schematic.Component, extraFields []string) string {
	parts := []string{row.Value, row.Footprint, row.Description}
	for _, f := range extraFields {
		parts = append(parts, row.Extra[f])
	}
	return strings.Join(parts, "\x00")
}

func (g *Group) add(row schematic.Component) {
	for _, m := range g.Members {
		if m.Reference == row.Reference && m.InstancePath == row.InstancePath {
			return
		}
	}
	g.Members = append(g.Members, row)
}

// finish computes the sorted distinct reference list and orders members
func (g *Group) finish() {
	sort.SliceStable(g.Members, func(i, j int) bool {
		a, b := g.Members[i], g.Members[j]
		na, nb := RefNumber(a.Reference), RefNumber(b.Reference)
		if na != nb {
			return na < nb
		}
		if a.Reference != b.Reference {
			return a.Reference < b.Reference
		}
		return a.InstancePath < b.InstancePath
	})

	refs := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		refs = append(refs, m.Reference)
	}
	g.Refs = SortRefs(dedupe(refs))
}

func (g *Group) firstRef() string {
	if len(g.Refs) == 0 {
		return ""
	}
	return g.Refs[0]
}
