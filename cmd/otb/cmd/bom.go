package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/autobom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/schematic"
	"github.com/spf13/cobra"
)

var (
	bomMaxWidth int
	bomFields   []string
	bomOrder    []string
	bomCSV      bool
	bomRules    string
)

var bomCmd = &cobra.Command{
	Use:   "bom <schematic_file>",
	Short: "Print the Bill of Materials for a schematic project",
	Long: `Build and print the combined BOM for a hierarchical schematic project.

The argument is the root sheet of the hierarchy; every reachable child
sheet is included. A board file (.kicad_pcb) may be given instead, in
which case the root sheet name is inferred by replacing "_pcb" with
"_sch". Read-only: no schematic file is modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runBOM,
}

func init() {
	rootCmd.AddCommand(bomCmd)
	bomCmd.Flags().IntVar(&bomMaxWidth, "max-width", 30, "maximum table column width in characters (0 = unlimited)")
	bomCmd.Flags().StringSliceVar(&bomFields, "fields", nil, "additional property fields to include")
	bomCmd.Flags().StringSliceVar(&bomOrder, "order", nil, "custom column order (omitted columns appended)")
	bomCmd.Flags().BoolVar(&bomCSV, "csv", false, "export <rootname>_BOM.csv beside the schematic")
	bomCmd.Flags().StringVar(&bomRules, "rules", "", "YAML file overriding the footprint canonicalization tables")
}

func runBOM(cmd *cobra.Command, args []string) error {
	opts, err := projectOptions(args[0])
	if err != nil {
		return err
	}
	opts.MaxWidth = bomMaxWidth
	opts.ExtraFields = bomFields
	opts.CustomOrder = bomOrder
	opts.ExportCSV = bomCSV
	opts.Verbose = verbose

	if bomRules != "" {
		rules, err := footprint.LoadRules(bomRules)
		if err != nil {
			return err
		}
		opts.Rules = rules
	}

	return autobom.PrintBOM(cmd.OutOrStdout(), opts)
}

// projectOptions resolves the schematic folder and root sheet name from a
// schematic or board file path
func projectOptions(path string) (autobom.Options, error) {
	dir := filepath.Dir(path)
	rootFile := schematic.RootSheetFromBoard(path)

	if _, err := os.Stat(filepath.Join(dir, rootFile)); err != nil {
		return autobom.Options{}, fmt.Errorf("root sheet %s not found: %w", rootFile, err)
	}
	return autobom.Options{Dir: dir, RootFile: rootFile}, nil
}
