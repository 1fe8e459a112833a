package analysis

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/KaramelBytes/qcov/internal/survey"
)

// Options controls how a survey table is analyzed.
type Options struct {
	// Rule selects the numeric columns.
	Rule survey.ColumnRule
	// GroupColumn partitions rows by its Y/N value. Empty disables grouping.
	GroupColumn string
	// Precision is the number of decimals in the text report.
	Precision int
	// Read is passed to the table source.
	Read survey.ReadOptions
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Rule:        survey.DefaultRule(),
		GroupColumn: "Supervisor",
		Precision:   3,
	}
}

// Report is the covariance listing for one input table.
type Report struct {
	Name        string
	Rows        int
	Columns     []string
	GroupColumn string
	Sections    []Section
	// Skipped counts rows left out of every group.
	Skipped   int
	Warnings  []string
	Precision int
}

// Section is the covariance matrix of one group, or of all rows when
// the report is ungrouped (Group is then empty).
type Section struct {
	Group  string
	Rows   int
	Matrix *CovMatrix
}

// Grouped reports whether rows were partitioned by GroupColumn.
func (r *Report) Grouped() bool { return r.GroupColumn != "" }

// AnalyzeFile loads path and analyzes it.
func AnalyzeFile(path string, opt Options) (*Report, error) {
	t, err := survey.Load(path, opt.Read)
	if err != nil {
		return nil, err
	}
	return Analyze(t, opt), nil
}

// Analyze extracts the selected columns of t and computes a covariance
// matrix per group, or a single one when grouping is disabled.
func Analyze(t *survey.Table, opt Options) *Report {
	rep := &Report{
		Name:        t.Name,
		Rows:        len(t.Rows),
		GroupColumn: opt.GroupColumn,
		Precision:   opt.Precision,
	}
	if rep.Precision < 0 {
		rep.Precision = 3
	}

	if opt.GroupColumn == "" {
		ds := survey.Extract(t, opt.Rule)
		rep.Columns = ds.Columns
		rep.Sections = []Section{{Rows: ds.Rows(), Matrix: Matrix(ds)}}
	} else {
		p := survey.ExtractGrouped(t, opt.Rule, opt.GroupColumn)
		rep.Columns = p.Columns
		rep.Skipped = p.Skipped
		for _, g := range survey.Groups() {
			ds := p.Get(g)
			rep.Sections = append(rep.Sections, Section{Group: g.Label(), Rows: ds.Rows(), Matrix: Matrix(ds)})
		}
		if t.Index(opt.GroupColumn) < 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("group column %q not found; every row was skipped", opt.GroupColumn))
		} else if p.Skipped > 0 {
			slog.Debug("rows outside known groups", "file", t.Name, "column", opt.GroupColumn, "skipped", p.Skipped)
		}
	}
	if len(rep.Columns) == 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("no columns match %s*%s", opt.Rule.Prefix, opt.Rule.Suffix))
	}
	return rep
}

// Text renders the report as plain text: per group and column, the
// covariance against every other column.
func (r *Report) Text() string {
	var b strings.Builder
	for _, s := range r.Sections {
		if r.Grouped() {
			b.WriteString(fmt.Sprintf("\n%s %s responses:\n", r.GroupColumn, s.Group))
		}
		for i, col := range s.Matrix.Columns {
			b.WriteString(fmt.Sprintf("Covariance of %s with other Q-number columns:\n", col))
			for j, other := range s.Matrix.Columns {
				if i == j {
					continue
				}
				b.WriteString(fmt.Sprintf("  %s: %s\n", other, formatCov(s.Matrix.Values[i][j], r.Precision)))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatCov(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return fmt.Sprintf("%.*f", precision, v)
}
