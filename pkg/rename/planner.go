// Package rename computes and applies reference designator renames that
// cluster structurally identical components into contiguous number ranges.
// The planner assigns new sequential indexes per type prefix in BOM group
// order; the rewriter applies the resulting map in place across the sheet
// hierarchy, consuming each entry exactly once.
package rename

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/schematic"
)

// Key identifies one rename map entry. The instance path disambiguates
// occurrences that share reference text across unrelated sheet instances.
type Key struct {
	Ref  string
	Path string
}

// Entry is one planned rename
type Entry struct {
	Old  string
	New  string
	Path string
}

// Plan is the old→new reference mapping for one compaction run. Entries
// are consumed as they are applied, guaranteeing at-most-once application
// project-wide.
type Plan struct {
	entries map[Key]string
	order   []Entry
}

// NewPlan clusters the component rows the same way the BOM aggregator does
// (including any extra fields used for grouping) and assigns each prefix's
// references new sequential numbers in group order, so components with
// identical attributes end up in contiguous ranges. Occurrences already
// holding their final number produce no entry: re-planning a compacted
// project yields an empty plan.
func NewPlan(rows []schematic.Component, extraFields []string) *Plan {
	groups := bom.Aggregate(rows, extraFields)

	next := make(map[string]int)
	plan := &Plan{entries: make(map[Key]string)}

	for _, group := range groups {
		for _, member := range group.Members {
			prefix := bom.RefPrefix(member.Reference)
			if next[prefix] == 0 {
				next[prefix] = 1
			}
			newRef := fmt.Sprintf("%s%d", prefix, next[prefix])
			next[prefix]++

			if newRef == member.Reference {
				continue
			}
			key := Key{Ref: member.Reference, Path: member.InstancePath}
			if _, dup := plan.entries[key]; dup {
				continue
			}
			plan.entries[key] = newRef
			plan.order = append(plan.order, Entry{Old: member.Reference, New: newRef, Path: member.InstancePath})
		}
	}

	// Stable application order: by new prefix, then new numeric index
	sort.SliceStable(plan.order, func(i, j int) bool {
		a, b := plan.order[i].New, plan.order[j].New
		pa, pb := bom.RefPrefix(a), bom.RefPrefix(b)
		if pa != pb {
			return pa < pb
		}
		return bom.RefNumber(a) < bom.RefNumber(b)
	})
	return plan
}

// Len returns the number of unconsumed entries
func (p *Plan) Len() int {
	return len(p.entries)
}

// Entries returns the planned renames in application order, including any
// already consumed
func (p *Plan) Entries() []Entry {
	return p.order
}

// Consume looks up the new reference for an (old reference, path)
// occurrence and removes the entry so it cannot be applied again. A later
// occurrence of the same text under another context is left alone.
func (p *Plan) Consume(path, oldRef string) (string, bool) {
	key := Key{Ref: oldRef, Path: path}
	newRef, ok := p.entries[key]
	if !ok {
		return "", false
	}
	delete(p.entries, key)
	return newRef, true
}
