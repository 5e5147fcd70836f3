package output

import "strconv"

// Table is a result table. Row 0 is the header.
type Table [][]string

// NewTable starts a table with the given header.
func NewTable(header ...string) Table {
	return Table{header}
}

// Append adds a data row.
func (t *Table) Append(cols ...string) {
	*t = append(*t, cols)
}

// AppendCount adds a (label, count) row.
func (t *Table) AppendCount(label string, n int) {
	t.Append(label, strconv.Itoa(n))
}

// Header returns the header row, or nil for an empty table.
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Body returns the data rows.
func (t Table) Body() [][]string {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}
