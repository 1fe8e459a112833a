package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/qcov/internal/analysis"
	"github.com/KaramelBytes/qcov/internal/utils"
)

var (
	bOutputDir string
	bQuiet     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Compute covariance reports for several files or glob patterns",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		opt, err := analysisOptions(cmd)
		if err != nil {
			return err
		}
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		total := len(files)
		for i, path := range files {
			if !bQuiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			rep, err := analysis.AnalyzeFile(path, opt)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for _, w := range rep.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s: %s\n", filepath.Base(path), w)
			}
			body, err := render(rep, format)
			if err != nil {
				return err
			}
			if bOutputDir == "" {
				fmt.Fprintf(out, "== %s ==\n", filepath.Base(path))
				if _, err := out.Write(body); err != nil {
					return err
				}
				continue
			}
			dest := reportPath(bOutputDir, baseName(path), format)
			if err := utils.SafeWriteFile(dest, body); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !bQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", dest)
			}
		}
		return nil
	},
}

// expandInputs resolves glob patterns and literal paths, dropping duplicates.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// reportPath picks <dir>/<base>.cov.<ext>, adding a __N suffix when the
// name is already taken so same-named inputs from different folders survive.
func reportPath(dir, base, format string) string {
	ext := ".cov.txt"
	if format == "json" {
		ext = ".cov.json"
	}
	out := filepath.Join(dir, base+ext)
	if _, err := os.Stat(out); err != nil {
		return out
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&bOutputDir, "output-dir", "o", "", "write one report per input into this directory")
	batchCmd.Flags().String("format", "", "output format: text | json")
	batchCmd.Flags().BoolVar(&bQuiet, "quiet", false, "suppress progress output")
}
