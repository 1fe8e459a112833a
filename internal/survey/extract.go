package survey

import "strings"

// ColumnRule selects numeric columns by name.
type ColumnRule struct {
	Prefix string
	Suffix string
}

// DefaultRule matches survey question columns such as "Q12Number".
func DefaultRule() ColumnRule {
	return ColumnRule{Prefix: "Q", Suffix: "Number"}
}

// Match reports whether a header name is selected by the rule.
func (r ColumnRule) Match(name string) bool {
	return strings.HasPrefix(name, r.Prefix) && strings.HasSuffix(name, r.Suffix)
}

// SelectColumns returns the header names matched by rule, in header order.
// A repeated name is kept once, at its first position.
func SelectColumns(header []string, rule ColumnRule) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, h := range header {
		if !rule.Match(h) {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

// Dataset holds one optional value per row for each selected column.
// Values[i] belongs to Columns[i]; every Values[i] has the same length.
type Dataset struct {
	Columns []string
	Values  [][]Value
	n       int
}

// NewDataset returns an empty dataset for the given columns.
func NewDataset(columns []string) *Dataset {
	return &Dataset{Columns: columns, Values: make([][]Value, len(columns))}
}

// Rows returns the number of rows in the dataset.
func (d *Dataset) Rows() int {
	if d == nil {
		return 0
	}
	return d.n
}

// Column returns the values for the named column, or nil.
func (d *Dataset) Column(name string) []Value {
	for i, c := range d.Columns {
		if c == name {
			return d.Values[i]
		}
	}
	return nil
}

func (d *Dataset) appendRow(t *Table, row int, idx []int) {
	for i, col := range idx {
		d.Values[i] = append(d.Values[i], ParseValue(t.Cell(row, col)))
	}
	d.n++
}

// Group is a recognized value of the grouping column.
type Group int

const (
	GroupYes Group = iota
	GroupNo
	numGroups
)

// Groups lists every group in report order.
func Groups() []Group { return []Group{GroupYes, GroupNo} }

// Label returns the normalized column value for the group.
func (g Group) Label() string {
	switch g {
	case GroupYes:
		return "Y"
	case GroupNo:
		return "N"
	default:
		return ""
	}
}

func (g Group) String() string { return g.Label() }

// ParseGroup trims and upper-cases s and maps it onto a group.
func ParseGroup(s string) (Group, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y":
		return GroupYes, true
	case "N":
		return GroupNo, true
	default:
		return 0, false
	}
}

// Partition splits a table's rows into one Dataset per group.
type Partition struct {
	Columns []string
	// Skipped counts rows whose group value was blank or unrecognized.
	Skipped int
	sets    [numGroups]*Dataset
}

// Get returns the dataset for g.
func (p *Partition) Get(g Group) *Dataset {
	if g < 0 || g >= numGroups {
		return nil
	}
	return p.sets[g]
}

func columnIndexes(t *Table, cols []string) []int {
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = t.Index(c)
	}
	return idx
}

// Extract builds an ungrouped Dataset from every row of t.
func Extract(t *Table, rule ColumnRule) *Dataset {
	cols := SelectColumns(t.Header, rule)
	idx := columnIndexes(t, cols)
	ds := NewDataset(cols)
	for row := range t.Rows {
		ds.appendRow(t, row, idx)
	}
	return ds
}

// ExtractGrouped routes each row of t into the dataset of its group. Rows
// with a blank or unrecognized group value land in no group. A missing
// group column leaves both groups empty.
func ExtractGrouped(t *Table, rule ColumnRule, groupColumn string) *Partition {
	cols := SelectColumns(t.Header, rule)
	idx := columnIndexes(t, cols)
	gi := t.Index(groupColumn)
	p := &Partition{Columns: cols}
	for _, g := range Groups() {
		p.sets[g] = NewDataset(cols)
	}
	for row := range t.Rows {
		g, ok := ParseGroup(t.Cell(row, gi))
		if !ok {
			p.Skipped++
			continue
		}
		p.sets[g].appendRow(t, row, idx)
	}
	return p
}
