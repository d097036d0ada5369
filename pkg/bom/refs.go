// Package bom aggregates extracted schematic components into Bill of
// Materials line items: grouping by identical attributes, merging and
// range-compressing reference lists, and rendering tables and CSV output.
package bom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RefPrefix returns the type prefix of a reference designator: the
// characters before the first digit or '?'. Example: "R22" → "R".
func RefPrefix(ref string) string {
	for i, c := range ref {
		if (c >= '0' && c <= '9') || c == '?' {
			return ref[:i]
		}
	}
	return ref
}

// RefNumber returns the numeric index of a reference designator: the value
// of its trailing digit run. References without one sort as 0.
// Example: "R22" → 22.
func RefNumber(ref string) int {
	for i := 0; i < len(ref); i++ {
		if allDigits(ref[i:]) {
			n, _ := strconv.Atoi(ref[i:])
			return n
		}
	}
	return 0
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// SortRefs returns the references sorted numerically by their trailing
// index, ties broken lexically. The input is not modified.
func SortRefs(refs []string) []string {
	sorted := make([]string, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool {
		ni, nj := RefNumber(sorted[i]), RefNumber(sorted[j])
		if ni != nj {
			return ni < nj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// CompressRefs deduplicates and numerically sorts a reference list, then
// collapses consecutive runs for display. A run spanning three or more
// references becomes "R5-R13", a pair becomes "R1, R2", and singletons
// print as-is. All references are assumed to share one prefix.
func CompressRefs(refs []string) []string {
	unique := dedupe(refs)
	if len(unique) == 0 {
		return nil
	}
	sorted := SortRefs(unique)

	// Prefix taken from the first reference carrying a numeric tail
	prefix := ""
	for _, r := range sorted {
		if p := strings.TrimRight(r, "0123456789"); p != r {
			prefix = p
			break
		}
	}

	numbers := make([]int, len(sorted))
	for i, r := range sorted {
		numbers[i] = RefNumber(r)
	}

	var out []string
	start := numbers[0]
	prev := numbers[0]
	flush := func(end int) {
		switch {
		case end-start > 1:
			out = append(out, fmt.Sprintf("%s%d-%s%d", prefix, start, prefix, end))
		case end != start:
			out = append(out, fmt.Sprintf("%s%d, %s%d", prefix, start, prefix, end))
		default:
			out = append(out, fmt.Sprintf("%s%d", prefix, start))
		}
	}
	for _, n := range numbers[1:] {
		if n != prev+1 {
			flush(prev)
			start = n
		}
		prev = n
	}
	flush(prev)
	return out
}

// DecompressRefs expands compressed display tokens back into individual
// references, numerically sorted. It accepts range tokens ("R5-R13"), pair
// tokens ("R1, R2"), and bare references.
func DecompressRefs(tokens []string) []string {
	var refs []string
	for _, token := range tokens {
		for _, piece := range strings.Split(token, ", ") {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			if lo, hi, ok := splitRange(piece); ok {
				prefix := RefPrefix(lo)
				for n := RefNumber(lo); n <= RefNumber(hi); n++ {
					refs = append(refs, fmt.Sprintf("%s%d", prefix, n))
				}
				continue
			}
			refs = append(refs, piece)
		}
	}
	return SortRefs(dedupe(refs))
}

// splitRange splits a token like "R5-R13" into its endpoints. Tokens whose
// halves disagree on prefix or lack numeric tails are not ranges.
func splitRange(token string) (lo, hi string, ok bool) {
	idx := strings.Index(token, "-")
	if idx <= 0 || idx >= len(token)-1 {
		return "", "", false
	}
	lo, hi = token[:idx], token[idx+1:]
	if RefPrefix(lo) != RefPrefix(hi) || RefPrefix(lo) == lo || RefPrefix(hi) == hi {
		return "", "", false
	}
	return lo, hi, true
}

func dedupe(refs []string) []string {
	seen := make(map[string]bool, len(refs))
	var out []string
	for _, r := range refs {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
