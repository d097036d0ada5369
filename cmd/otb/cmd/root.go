package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otb",
	Short: "OpenTraceBOM - KiCad BOM generation and reference compaction",
	Long: `OpenTraceBOM (otb) builds Bills of Materials from hierarchical KiCad
schematic projects and renumbers reference designators so that identical
components occupy contiguous reference ranges.

Examples:
  otb bom project_sch.kicad_sch              # Print the project BOM
  otb bom project_sch.kicad_sch --csv        # Also export <name>_BOM.csv
  otb compact project_sch.kicad_sch          # Renumber references in place
  otb compact project_pcb.kicad_pcb          # Root sheet inferred (_pcb -> _sch)
  otb sheets project_sch.kicad_sch           # Show the sheet hierarchy`,
	Version: "0.9.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
