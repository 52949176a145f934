package dataset

import (
	"strconv"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Table is a rectangular dataset of raw string cells with named columns.
// It is the in-memory form of a CSV file before any encoding is applied,
// used for datasets that mix numeric and categorical columns.
type Table struct {
	Columns []string
	Records [][]string
}

// NRows returns the number of data rows.
func (t *Table) NRows() int {
	return len(t.Records)
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Column returns the raw string values of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, errors.NewValueError("Table.Column", "unknown column "+name)
	}

	values := make([]string, len(t.Records))
	for i, rec := range t.Records {
		values[i] = rec[idx]
	}
	return values, nil
}

// FloatColumn parses the named column as float64 values.
func (t *Table) FloatColumn(name string) ([]float64, error) {
	raw, err := t.Column(name)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Table.FloatColumn: column %s row %d is not numeric", name, i)
		}
		values[i] = v
	}
	return values, nil
}

// Matrix assembles the named numeric columns into a dense matrix,
// one column per name in the given order.
func (t *Table) Matrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, errors.NewValueError("Table.Matrix", "no columns given")
	}

	n := t.NRows()
	m := mat.NewDense(n, len(names), nil)
	for j, name := range names {
		col, err := t.FloatColumn(name)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			m.Set(i, j, col[i])
		}
	}
	return m, nil
}

// Strings assembles the named columns into a row-major string grid,
// the input shape the categorical encoders consume.
func (t *Table) Strings(names ...string) ([][]string, error) {
	indices := make([]int, len(names))
	for j, name := range names {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, errors.NewValueError("Table.Strings", "unknown column "+name)
		}
		indices[j] = idx
	}

	rows := make([][]string, len(t.Records))
	for i, rec := range t.Records {
		row := make([]string, len(indices))
		for j, idx := range indices {
			row[j] = rec[idx]
		}
		rows[i] = row
	}
	return rows, nil
}
