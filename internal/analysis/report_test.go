package analysis

import (
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/qcov/internal/survey"
)

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestAnalyzeFile_GroupedText(t *testing.T) {
	rep, err := AnalyzeFile(filepath.Join("testdata", "survey.csv"), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "survey.csv", rep.Name)
	assert.Equal(t, 8, rep.Rows)
	assert.Equal(t, []string{"Q1Number", "Q2Number", "Q3Number"}, rep.Columns)
	assert.Equal(t, 2, rep.Skipped)
	require.Len(t, rep.Sections, 2)
	assert.Equal(t, "Y", rep.Sections[0].Group)
	assert.Equal(t, 4, rep.Sections[0].Rows)
	assert.Equal(t, "N", rep.Sections[1].Group)
	assert.Equal(t, 2, rep.Sections[1].Rows)
	assert.Empty(t, rep.Warnings)

	newGolden(t).Assert(t, "grouped", []byte(rep.Text()))
}

func TestAnalyzeFile_UngroupedText(t *testing.T) {
	opt := DefaultOptions()
	opt.GroupColumn = ""
	rep, err := AnalyzeFile(filepath.Join("testdata", "survey.csv"), opt)
	require.NoError(t, err)

	require.Len(t, rep.Sections, 1)
	assert.Equal(t, 8, rep.Sections[0].Rows)
	assert.False(t, rep.Grouped())

	newGolden(t).Assert(t, "ungrouped", []byte(rep.Text()))
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	_, err := AnalyzeFile(filepath.Join(t.TempDir(), "Employee_Survey_Data.csv"), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open csv")
}

func TestAnalyze_Warnings(t *testing.T) {
	tbl, err := survey.ReadTable(strings.NewReader("Name,Score\nann,3\n"), survey.ReadOptions{})
	require.NoError(t, err)

	rep := Analyze(tbl, DefaultOptions())
	assert.Equal(t, []string{
		`group column "Supervisor" not found; every row was skipped`,
		"no columns match Q*Number",
	}, rep.Warnings)
	assert.Equal(t, "\nSupervisor Y responses:\n\nSupervisor N responses:\n", rep.Text())
}

func TestReport_TextPrecision(t *testing.T) {
	tbl, err := survey.ReadTable(strings.NewReader("Q1Number,Q2Number\n1,2\n2,4\n3,6\n4,8\n"), survey.ReadOptions{})
	require.NoError(t, err)
	opt := DefaultOptions()
	opt.GroupColumn = ""
	opt.Precision = 1

	rep := Analyze(tbl, opt)
	assert.Contains(t, rep.Text(), "  Q2Number: 3.3\n")
}

func TestReport_JSON(t *testing.T) {
	rep, err := AnalyzeFile(filepath.Join("testdata", "survey.csv"), DefaultOptions())
	require.NoError(t, err)

	b, err := rep.JSON("trace-1")
	require.NoError(t, err)

	var env struct {
		Status  string `json:"status"`
		TraceID string `json:"trace_id"`
		Data    struct {
			File        string `json:"file"`
			GroupColumn string `json:"group_column"`
			Skipped     int    `json:"skipped"`
			Sections    []struct {
				Group string `json:"group"`
				Rows  int    `json:"rows"`
				Pairs []struct {
					A   string   `json:"a"`
					B   string   `json:"b"`
					Cov *float64 `json:"cov"`
					N   int      `json:"n"`
				} `json:"pairs"`
			} `json:"sections"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &env))

	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, "trace-1", env.TraceID)
	assert.Equal(t, "Supervisor", env.Data.GroupColumn)
	assert.Equal(t, 2, env.Data.Skipped)
	require.Len(t, env.Data.Sections, 2)

	yes := env.Data.Sections[0]
	require.Len(t, yes.Pairs, 6)
	assert.Equal(t, "Q1Number", yes.Pairs[0].A)
	assert.Equal(t, "Q2Number", yes.Pairs[0].B)
	require.NotNil(t, yes.Pairs[0].Cov)
	assert.InDelta(t, 10.0/3.0, *yes.Pairs[0].Cov, 1e-12)
	assert.Equal(t, 4, yes.Pairs[0].N)

	no := env.Data.Sections[1]
	assert.Equal(t, "N", no.Group)
	assert.Nil(t, no.Pairs[0].Cov)
	assert.Equal(t, 1, no.Pairs[0].N)
}

func TestReport_InfiniteCovariance(t *testing.T) {
	tbl, err := survey.ReadTable(strings.NewReader("Q1Number,Q2Number\n-1e200,-1e200\n1e200,1e200\n"), survey.ReadOptions{})
	require.NoError(t, err)
	opt := DefaultOptions()
	opt.GroupColumn = ""

	rep := Analyze(tbl, opt)
	assert.Contains(t, rep.Text(), "  Q2Number: +Inf\n")

	b, err := rep.JSON("trace-inf")
	require.NoError(t, err)
	var env struct {
		Data struct {
			Sections []struct {
				Pairs []struct {
					Cov *float64 `json:"cov"`
					N   int      `json:"n"`
				} `json:"pairs"`
			} `json:"sections"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &env))
	require.Len(t, env.Data.Sections, 1)
	require.Len(t, env.Data.Sections[0].Pairs, 2)
	for _, p := range env.Data.Sections[0].Pairs {
		assert.Nil(t, p.Cov)
		assert.Equal(t, 2, p.N)
	}
}

func TestFormatCov(t *testing.T) {
	assert.Equal(t, "NaN", formatCov(math.NaN(), 3))
	assert.Equal(t, "+Inf", formatCov(math.Inf(1), 3))
	assert.Equal(t, "-Inf", formatCov(math.Inf(-1), 3))
	assert.Equal(t, "-4.000", formatCov(-4, 3))
}
