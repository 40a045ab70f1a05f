package container

import (
	"github.com/auklab/raf/errors"
)

// Dataset is a named array inside a group. Storage is one of three kinds:
// a fixed rectangular numeric array (row major), a ragged array of variable
// length event records, or a table of typed records (the legacy catalog
// layout).
type Dataset struct {
	kind  Kind
	attrs Attrs

	cols   int
	data   []float64
	ragged [][]float64
	table  *Table
}

var _ Node = (*Dataset)(nil)

// NewArray returns a fixed shape dataset with the given number of columns.
// len(data) must be a multiple of cols; data is stored row major.
func NewArray(cols int, data []float64) (*Dataset, error) {
	if cols < 1 {
		return nil, errors.Wrapf(errors.ErrInput, "%d columns", cols)
	}
	if len(data)%cols != 0 {
		return nil, errors.Wrapf(errors.ErrInput, "%d values do not fill %d columns", len(data), cols)
	}
	return &Dataset{kind: KindArray, cols: cols, data: data}, nil
}

// NewRagged returns an event style dataset of variable length records.
func NewRagged(records [][]float64) *Dataset {
	return &Dataset{kind: KindRagged, ragged: records}
}

// NewTableDataset wraps a table in a dataset node.
func NewTableDataset(t *Table) *Dataset {
	return &Dataset{kind: KindTable, table: t}
}

func (d *Dataset) NodeKind() Kind { return d.kind }

func (d *Dataset) Attributes() *Attrs { return &d.attrs }

// Cols returns the number of columns of a fixed shape dataset, and 1 for the
// other kinds.
func (d *Dataset) Cols() int {
	if d.kind == KindArray {
		return d.cols
	}
	return 1
}

// Rows returns the number of rows (records) in the dataset.
func (d *Dataset) Rows() int {
	switch d.kind {
	case KindArray:
		return len(d.data) / d.cols
	case KindRagged:
		return len(d.ragged)
	case KindTable:
		return len(d.table.rows)
	default:
		return 0
	}
}

// Data returns the raw row major values of a fixed shape dataset.
func (d *Dataset) Data() []float64 { return d.data }

// Column extracts one column of a fixed shape dataset as a fresh slice.
func (d *Dataset) Column(col int) ([]float64, error) {
	if d.kind != KindArray {
		return nil, errors.Wrapf(errors.ErrType, "column read from %s dataset", d.kind)
	}
	if col < 0 || col >= d.cols {
		return nil, errors.Wrapf(errors.ErrInput, "column %d of %d", col, d.cols)
	}
	rows := len(d.data) / d.cols
	out := make([]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = d.data[r*d.cols+col]
	}
	return out, nil
}

// Record returns one variable length record of a ragged dataset.
func (d *Dataset) Record(i int) ([]float64, error) {
	if d.kind != KindRagged {
		return nil, errors.Wrapf(errors.ErrType, "record read from %s dataset", d.kind)
	}
	if i < 0 || i >= len(d.ragged) {
		return nil, errors.Wrapf(errors.ErrInput, "record %d of %d", i, len(d.ragged))
	}
	return d.ragged[i], nil
}

// Table returns the record table of a table dataset, or nil for the other
// kinds.
func (d *Dataset) Table() *Table { return d.table }

// Table is a fixed schema tabular record set: ordered field names plus one
// row of typed cells per record. Legacy archives use tables as catalogs.
type Table struct {
	fields []string
	rows   []Row
}

// Row is one table record, keyed by field name.
type Row map[string]interface{}

// NewTable returns an empty table with the given field schema.
func NewTable(fields ...string) *Table {
	return &Table{fields: fields}
}

// Fields returns the ordered field names of the table schema.
func (t *Table) Fields() []string { return t.fields }

// HasField returns true if the table schema contains the given field.
func (t *Table) HasField(name string) bool {
	for _, f := range t.fields {
		if f == name {
			return true
		}
	}
	return false
}

// Append adds a record. Cells not named in the schema are dropped.
func (t *Table) Append(row Row) {
	kept := make(Row, len(t.fields))
	for _, f := range t.fields {
		if v, ok := row[f]; ok {
			kept[f] = normalizeValue(v)
		}
	}
	t.rows = append(t.rows, kept)
}

// Rows returns every record in insertion order.
func (t *Table) Rows() []Row { return t.rows }

// Str returns a string cell of the row. Missing or mistyped cells return
// false.
func (r Row) Str(field string) (string, bool) {
	s, ok := r[field].(string)
	return s, ok
}

// Int returns an integer cell of the row.
func (r Row) Int(field string) (int64, bool) {
	n, ok := r[field].(int64)
	return n, ok
}

// Float returns a numeric cell of the row, accepting integer cells too.
func (r Row) Float(field string) (float64, bool) {
	switch v := r[field].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
