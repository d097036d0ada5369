package bom

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVName derives the export file name from the root sheet file name:
// everything up to the first "." plus "_BOM.csv"
func CSVName(rootFile string) string {
	base := rootFile
	if idx := strings.Index(base, "."); idx >= 0 {
		base = base[:idx]
	}
	return base + "_BOM.csv"
}

// WriteCSV writes the groups as CSV with the given column order
func WriteCSV(w io.Writer, groups []*Group, columns []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, g := range groups {
		for i, col := range columns {
			record[i] = g.Field(col)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the BOM CSV beside the schematic and returns its path
func ExportCSV(dir, rootFile string, groups []*Group, columns []string) (string, error) {
	path := filepath.Join(dir, CSVName(rootFile))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create BOM csv: %w", err)
	}
	if err := WriteCSV(file, groups, columns); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write BOM csv: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return path, nil
}
