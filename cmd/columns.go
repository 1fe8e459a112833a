package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/qcov/internal/survey"
)

var columnsCmd = &cobra.Command{
	Use:   "columns [file]",
	Short: "List the selected question columns and rows per group",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dataPath(args)
		opt, err := analysisOptions(cmd)
		if err != nil {
			return err
		}
		t, err := survey.Load(path, opt.Read)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		cols := survey.SelectColumns(t.Header, opt.Rule)
		fmt.Fprintf(out, "File: %s\n", t.Name)
		fmt.Fprintf(out, "Rows: %d\n", len(t.Rows))
		if len(cols) == 0 {
			fmt.Fprintf(out, "Columns: (none match %s*%s)\n", opt.Rule.Prefix, opt.Rule.Suffix)
		} else {
			fmt.Fprintf(out, "Columns (%d): %s\n", len(cols), strings.Join(cols, ", "))
		}
		if opt.GroupColumn == "" {
			return nil
		}
		if t.Index(opt.GroupColumn) < 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: group column %q not found\n", opt.GroupColumn)
		}
		p := survey.ExtractGrouped(t, opt.Rule, opt.GroupColumn)
		for _, g := range survey.Groups() {
			fmt.Fprintf(out, "%s %s: %d rows\n", opt.GroupColumn, g.Label(), p.Get(g).Rows())
		}
		fmt.Fprintf(out, "Skipped: %d rows\n", p.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}
