package survey

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when a requested XLSX sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// Source loads a Table from a file path.
type Source interface {
	CanLoad(path string) bool
	Load(path string, opt ReadOptions) (*Table, error)
}

var registry []Source

// Register adds a source implementation to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

// Load picks a source by file name and reads the whole table. Files no
// source claims are read as comma-separated text.
func Load(path string, opt ReadOptions) (*Table, error) {
	var src Source = csvSource{}
	for _, s := range registry {
		if s.CanLoad(path) {
			src = s
			break
		}
	}
	t, err := src.Load(path, opt)
	if err != nil {
		return nil, err
	}
	t.Name = filepath.Base(path)
	slog.Debug("loaded table", "file", t.Name, "columns", len(t.Header), "rows", len(t.Rows))
	return t, nil
}

func init() {
	Register(csvSource{})
	Register(xlsxSource{})
}

type csvSource struct{}

func (csvSource) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvSource) Load(path string, opt ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return ReadTable(f, opt)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

type xlsxSource struct{}

func (xlsxSource) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

func (xlsxSource) Load(path string, opt ReadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	sheet := ""
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("%w: %q in %s (available: %s)", ErrSheetNotFound,
				opt.SheetName, filepath.Base(path), strings.Join(sheets, ", "))
		}
	} else if len(sheets) > 0 {
		sheet = sheets[0]
	}
	if sheet == "" {
		return nil, ErrNoHeader
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	// Blank rows are skipped, as encoding/csv does for empty lines.
	var kept [][]string
	for _, row := range rows {
		if !blankRow(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoHeader
	}
	return &Table{Header: normalizeHeader(kept[0]), Rows: kept[1:]}, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
