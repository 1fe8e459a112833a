package analysis

import (
	"math"

	"github.com/KaramelBytes/qcov/internal/utils"
)

// Envelope is the JSON response wrapper for machine-readable output.
type Envelope struct {
	Status  string      `json:"status"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    *reportJSON `json:"data,omitempty"`
}

type reportJSON struct {
	File        string        `json:"file"`
	Rows        int           `json:"rows"`
	Columns     []string      `json:"columns"`
	GroupColumn string        `json:"group_column,omitempty"`
	Skipped     int           `json:"skipped,omitempty"`
	Sections    []sectionJSON `json:"sections"`
	Warnings    []string      `json:"warnings,omitempty"`
}

type sectionJSON struct {
	Group string     `json:"group,omitempty"`
	Rows  int        `json:"rows"`
	Pairs []pairJSON `json:"pairs"`
}

type pairJSON struct {
	A   string   `json:"a"`
	B   string   `json:"b"`
	Cov *float64 `json:"cov"`
	N   int      `json:"n"`
}

// JSON renders the report inside an Envelope. Undefined or infinite
// covariances are null.
func (r *Report) JSON(traceID string) ([]byte, error) {
	data := &reportJSON{
		File:        r.Name,
		Rows:        r.Rows,
		Columns:     r.Columns,
		GroupColumn: r.GroupColumn,
		Skipped:     r.Skipped,
		Warnings:    r.Warnings,
	}
	if data.Columns == nil {
		data.Columns = []string{}
	}
	for _, s := range r.Sections {
		sj := sectionJSON{Group: s.Group, Rows: s.Rows, Pairs: []pairJSON{}}
		m := s.Matrix
		for i := range m.Columns {
			for j := range m.Columns {
				if i == j {
					continue
				}
				p := pairJSON{A: m.Columns[i], B: m.Columns[j], N: m.Pairs[i][j]}
				if v := m.Values[i][j]; !math.IsNaN(v) && !math.IsInf(v, 0) {
					p.Cov = &v
				}
				sj.Pairs = append(sj.Pairs, p)
			}
		}
		data.Sections = append(data.Sections, sj)
	}
	return utils.PrettyJSON(Envelope{Status: "ok", TraceID: traceID, Data: data})
}
