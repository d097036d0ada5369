package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/autobom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/footprint"
	"github.com/spf13/cobra"
)

var (
	compactMaxWidth int
	compactFields   []string
	compactRules    string
	compactQuiet    bool
)

var compactCmd = &cobra.Command{
	Use:   "compact <schematic_file>",
	Short: "Renumber references into clustered sequential order",
	Long: `Cluster components by identical value, footprint, description, and any
additional fields, then renumber their reference designators so each
cluster occupies a contiguous range (R1-R8, C1-C4, ...).

Every affected sheet file is rewritten in place; the original content is
kept as a "_"-prefixed backup in the same folder (previous backups are
overwritten). The resulting BOM is printed afterwards unless --quiet is
given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompact,
}

func init() {
	rootCmd.AddCommand(compactCmd)
	compactCmd.Flags().IntVar(&compactMaxWidth, "max-width", 30, "maximum table column width in characters (0 = unlimited)")
	compactCmd.Flags().StringSliceVar(&compactFields, "fields", nil, "additional property fields used for clustering")
	compactCmd.Flags().StringVar(&compactRules, "rules", "", "YAML file overriding the footprint canonicalization tables")
	compactCmd.Flags().BoolVarP(&compactQuiet, "quiet", "q", false, "do not print the BOM after compaction")
}

func runCompact(cmd *cobra.Command, args []string) error {
	opts, err := projectOptions(args[0])
	if err != nil {
		return err
	}
	opts.MaxWidth = compactMaxWidth
	opts.ExtraFields = compactFields
	opts.Verbose = verbose

	if compactRules != "" {
		rules, err := footprint.LoadRules(compactRules)
		if err != nil {
			return err
		}
		opts.Rules = rules
	}

	out := cmd.OutOrStdout()
	result, err := autobom.CompactReferences(out, opts)
	if err != nil {
		return err
	}
	if len(result.Updated) == 0 {
		fmt.Fprintln(out, "References already compact, nothing to do")
	}

	if compactQuiet {
		return nil
	}
	// Re-read the rewritten sheets so the printed BOM reflects disk state
	return autobom.PrintBOM(out, opts)
}
