package models

import "fmt"

// Table is a tabular result: a header plus data rows of the same arity
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable creates an empty table with the given column names
func NewTable(header ...string) *Table {
	return &Table{
		Header: append([]string(nil), header...),
		Rows:   make([][]string, 0),
	}
}

// Append adds a data row; rows whose length differs from the header are rejected
func (t *Table) Append(values ...string) error {
	if len(values) != len(t.Header) {
		return fmt.Errorf("row has %d values, header has %d columns", len(values), len(t.Header))
	}
	t.Rows = append(t.Rows, append([]string(nil), values...))
	return nil
}

// Len returns the number of data rows (header excluded)
func (t *Table) Len() int {
	return len(t.Rows)
}

// Records returns the header followed by all data rows
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Header)
	return append(records, t.Rows...)
}
