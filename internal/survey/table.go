package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("no header row")

// ReadOptions controls how a table source is read.
type ReadOptions struct {
	// Delimiter for CSV. If 0, picked from the file extension (',' or '\t').
	Delimiter rune
	// SheetName selects an XLSX sheet; empty means the first sheet.
	SheetName string
}

// Table is a fully materialized tabular input: a header and its data rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Index returns the position of the named header field, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the raw value at (row, col). Cells missing from short
// records read as blank.
func (t *Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	rec := t.Rows[row]
	if col >= len(rec) {
		return ""
	}
	return rec[col]
}

// ReadTable reads CSV from r. The stream is decoded as UTF-8 with an
// optional byte-order mark, which is dropped. Stray quotes inside unquoted
// fields are kept as text.
func ReadTable(r io.Reader, opt ReadOptions) (*Table, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &Table{Header: normalizeHeader(header)}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
