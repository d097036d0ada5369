package bom

import (
	"fmt"
	"strings"
)

// Standard BOM column names, in default display order
const (
	ColReference   = "Reference"
	ColValue       = "Value"
	ColQty         = "Qty"
	ColFootprint   = "Footprint"
	ColDescription = "Description"
)

// Columns returns the default column order: the standard columns followed
// by any extra fields in request order
func Columns(extraFields []string) []string {
	cols := []string{ColReference, ColValue, ColQty, ColFootprint, ColDescription}
	return append(cols, extraFields...)
}

// OrderColumns applies a caller-supplied column order. Named columns come
// first; omitted columns are appended in their default order. Unknown
// column names are an error, reported before any output is produced.
func OrderColumns(columns, custom []string) ([]string, error) {
	if len(custom) == 0 {
		return columns, nil
	}

	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	var missing []string
	for _, c := range custom {
		if !known[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("specified columns not present in BOM: %s", strings.Join(missing, ", "))
	}

	chosen := make(map[string]bool, len(custom))
	ordered := make([]string, 0, len(columns))
	for _, c := range custom {
		if !chosen[c] {
			chosen[c] = true
			ordered = append(ordered, c)
		}
	}
	for _, c := range columns {
		if !chosen[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}
