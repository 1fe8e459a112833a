package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/qcov/internal/analysis"
	cfgpkg "github.com/KaramelBytes/qcov/internal/config"
	"github.com/KaramelBytes/qcov/internal/survey"
	"github.com/KaramelBytes/qcov/internal/utils"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Analysis flags (override config if set)
	flagGroupBy   string
	flagNoGroup   bool
	flagFormat    string
	flagOutput    string
	flagSheetName string
	flagDelimiter string
	flagPrecision int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "qcov [file]",
	Short: "Pairwise covariance of survey question columns",
	Long: `qcov reads a survey export (CSV or XLSX), selects the Q...Number columns and prints the
sample covariance of every column against every other, split by the Supervisor Y/N column.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dataPath(args)
		opt, err := analysisOptions(cmd)
		if err != nil {
			return err
		}
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		rep, err := analysis.AnalyzeFile(path, opt)
		if err != nil {
			return err
		}
		for _, w := range rep.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		out, err := render(rep, format)
		if err != nil {
			return err
		}
		if flagOutput != "" {
			if err := utils.SafeWriteFile(flagOutput, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote covariance report to %s\n", flagOutput)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.qcov/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagGroupBy, "group-by", "", "Y/N column to split rows by (default from config: Supervisor)")
	rootCmd.PersistentFlags().BoolVar(&flagNoGroup, "no-group", false, "analyze all rows together")
	rootCmd.PersistentFlags().StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to analyze (default first sheet)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")

	rootCmd.Flags().StringVar(&flagFormat, "format", "", "output format: text | json")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.Flags().IntVar(&flagPrecision, "precision", 0, "decimals in text output (default from config: 3)")
}

func loadConfig() {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{
			DataFile:     cfgpkg.DefaultDataFile,
			GroupColumn:  "Supervisor",
			ColumnPrefix: "Q",
			ColumnSuffix: "Number",
			Precision:    3,
			Format:       "text",
		}
	}
	cfg = c
	slog.Debug("config loaded", "data_file", cfg.DataFile, "group_column", cfg.GroupColumn, "format", cfg.Format)
}

// dataPath returns the explicit path argument, or the configured default.
func dataPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if cfg != nil && cfg.DataFile != "" {
		return cfg.DataFile
	}
	return cfgpkg.DefaultDataFile
}

// analysisOptions merges config values with any flags set on cmd.
func analysisOptions(cmd *cobra.Command) (analysis.Options, error) {
	opt := analysis.DefaultOptions()
	delim := ""
	if cfg != nil {
		opt.Rule = survey.ColumnRule{Prefix: cfg.ColumnPrefix, Suffix: cfg.ColumnSuffix}
		opt.GroupColumn = cfg.GroupColumn
		opt.Precision = cfg.Precision
		opt.Read.SheetName = cfg.SheetName
		delim = cfg.Delimiter
	}
	f := cmd.Flags()
	if f.Changed("group-by") {
		opt.GroupColumn = strings.TrimSpace(flagGroupBy)
	}
	if flagNoGroup {
		opt.GroupColumn = ""
	}
	if f.Changed("sheet-name") {
		opt.Read.SheetName = flagSheetName
	}
	if f.Changed("delimiter") {
		delim = flagDelimiter
	}
	if fl := f.Lookup("precision"); fl != nil && fl.Changed {
		p, err := f.GetInt("precision")
		if err != nil || p < 0 {
			return opt, fmt.Errorf("invalid --precision: %s", fl.Value.String())
		}
		opt.Precision = p
	}
	r, err := cfgpkg.ParseDelimiter(delim)
	if err != nil {
		return opt, err
	}
	opt.Read.Delimiter = r
	return opt, nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format := "text"
	if cfg != nil && cfg.Format != "" {
		format = cfg.Format
	}
	if fl := cmd.Flags().Lookup("format"); fl != nil && fl.Changed {
		format = fl.Value.String()
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
		return "text", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of text, json", format)
	}
}

func render(rep *analysis.Report, format string) ([]byte, error) {
	if format == "json" {
		b, err := rep.JSON(uuid.NewString())
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	return []byte(rep.Text()), nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
