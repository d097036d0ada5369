package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/schematic"
	"github.com/spf13/cobra"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets <schematic_file>",
	Short: "Show the sheet hierarchy and reference summary of a project",
	Long: `Walk the sheet hierarchy starting from the root sheet and print each
discovered sheet file with its child sheets and component count, followed
by a summary of the project's references grouped by type prefix.

Read-only: no schematic file is modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runSheets,
}

func init() {
	rootCmd.AddCommand(sheetsCmd)
}

func runSheets(cmd *cobra.Command, args []string) error {
	opts, err := projectOptions(args[0])
	if err != nil {
		return err
	}

	project, err := schematic.DiscoverSheets(opts.Dir, opts.RootFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", project.ProjectID)
	if project.Version != 0 {
		fmt.Fprintf(out, "Version: %d\n", project.Version)
	}
	fmt.Fprintf(out, "Sheets:  %d\n\n", len(project.Sheets))

	for _, sheet := range project.Sheets {
		rows := schematic.ExtractComponents(sheet.Doc, project.ProjectID, schematic.ExtractOptions{})
		fmt.Fprintf(out, "%s (%d components)\n", sheet.File, len(rows))
		for _, child := range schematic.SheetRefs(sheet.Doc) {
			fmt.Fprintf(out, "  %s (%s)\n", child.Name, child.File)
		}
	}

	rows := schematic.ExtractAll(project, schematic.ExtractOptions{})
	if len(rows) == 0 {
		return nil
	}

	byPrefix := make(map[string][]string)
	for _, row := range rows {
		prefix := bom.RefPrefix(row.Reference)
		byPrefix[prefix] = append(byPrefix[prefix], row.Reference)
	}
	var prefixes []string
	for p := range byPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	fmt.Fprintln(out, "\nReferences:")
	for _, prefix := range prefixes {
		fmt.Fprintf(out, "  %s: %s\n", prefix, strings.Join(bom.CompressRefs(byPrefix[prefix]), ", "))
	}
	return nil
}
