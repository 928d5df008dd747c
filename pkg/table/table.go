// Package table provides the in-memory tabular structure used by the
// comparison core: ordered, named columns of equal length with a closed set
// of element kinds, loaded from Parquet or CSV files via Apache Arrow.
package table

import (
	"fmt"
)

// Column is a named sequence of values with a declared element kind.
type Column struct {
	Name   string
	Type   Kind
	Values []Value
}

// Table is an ordered sequence of named columns of equal length. Rows are
// implicitly keyed by position until a key is established by the comparator.
// A Table is single-owner: it must not be shared across concurrent
// comparisons.
type Table struct {
	Name    string
	Columns []Column

	byName map[string]int
}

// New builds a table from columns, validating that lengths agree and names
// are unique.
func New(name string, cols []Column) (*Table, error) {
	t := &Table{Name: name, Columns: cols}
	if err := t.reindex(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) reindex() error {
	t.byName = make(map[string]int, len(t.Columns))
	rows := -1
	for i, col := range t.Columns {
		if _, ok := t.byName[col.Name]; ok {
			return fmt.Errorf("duplicate column %q in table %s", col.Name, t.Name)
		}
		t.byName[col.Name] = i
		if rows == -1 {
			rows = len(col.Values)
		} else if len(col.Values) != rows {
			return fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), rows)
		}
	}
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Column returns the named column, or false if absent.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return &t.Columns[i], true
}

// HasColumns reports whether every named column is present.
func (t *Table) HasColumns(names []string) bool {
	for _, name := range names {
		if _, ok := t.byName[name]; !ok {
			return false
		}
	}
	return true
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// DropColumns removes the named columns. Missing names are ignored.
func (t *Table) DropColumns(names []string) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}
	kept := t.Columns[:0]
	for _, col := range t.Columns {
		if !drop[col.Name] {
			kept = append(kept, col)
		}
	}
	t.Columns = kept
	// reindex cannot fail: dropping columns preserves the invariants
	_ = t.reindex()
}

// Take returns a new table holding the given rows, in the given order.
func (t *Table) Take(rows []int) *Table {
	cols := make([]Column, len(t.Columns))
	for i, col := range t.Columns {
		vals := make([]Value, len(rows))
		for j, r := range rows {
			vals[j] = col.Values[r]
		}
		cols[i] = Column{Name: col.Name, Type: col.Type, Values: vals}
	}
	out := &Table{Name: t.Name, Columns: cols}
	_ = out.reindex()
	return out
}
