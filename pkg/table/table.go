package table

import (
	"github.com/tablekit/tablekit/pkg/errors"
)

// Table is an ordered collection of equal-length, uniquely-named columns.
// A Table is immutable once built, so it may be shared across concurrent
// readers without synchronization.
type Table struct {
	names   []string
	columns []Column
	byName  map[string]int
	rows    int
}

// Builder accumulates named columns for a Table. Validation is
// all-or-nothing at Build time: the Table either satisfies every
// invariant or is not created at all.
type Builder struct {
	names   []string
	columns []Column
}

// NewBuilder creates an empty table builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a named column in order. Returns the builder for chaining.
func (b *Builder) Add(name string, col Column) *Builder {
	b.names = append(b.names, name)
	b.columns = append(b.columns, col)
	return b
}

// Build validates the accumulated columns and constructs the Table.
// It fails with a duplicate_name error when two columns share a name and
// with a length_mismatch error when any two columns differ in length.
func (b *Builder) Build() (*Table, error) {
	byName := make(map[string]int, len(b.names))
	for i, name := range b.names {
		if _, exists := byName[name]; exists {
			return nil, errors.Newf(errors.ErrorTypeDuplicateName, "column %q declared twice", name)
		}
		byName[name] = i
	}

	rows := 0
	if len(b.columns) > 0 {
		rows = b.columns[0].Len()
	}
	for i, col := range b.columns {
		if col.Len() != rows {
			return nil, errors.Newf(errors.ErrorTypeLengthMismatch,
				"column %q has %d rows, column %q has %d",
				b.names[i], col.Len(), b.names[0], rows).
				WithDetail("column", b.names[i])
		}
	}

	names := make([]string, len(b.names))
	copy(names, b.names)
	columns := make([]Column, len(b.columns))
	copy(columns, b.columns)

	return &Table{
		names:   names,
		columns: columns,
		byName:  byName,
		rows:    rows,
	}, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// Names returns the column names in declaration order. The returned
// slice must not be modified.
func (t *Table) Names() []string { return t.names }

// Column retrieves a column by name, failing with a not_found error
// when the name is absent.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.byName[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "no column named %q", name)
	}
	return t.columns[i], nil
}

// ColumnAt retrieves a column by position.
func (t *Table) ColumnAt(i int) Column { return t.columns[i] }

// Row projects the i-th element of every column into an ordered mapping.
// It fails with an index_range error when i is outside [0, NumRows).
func (t *Table) Row(i int) (Row, error) {
	if i < 0 || i >= t.rows {
		return Row{}, errors.Newf(errors.ErrorTypeIndexRange,
			"row index %d out of range [0, %d)", i, t.rows)
	}

	values := make([]interface{}, len(t.columns))
	for c, col := range t.columns {
		values[c] = col.Get(i)
	}
	return Row{names: t.names, values: values}, nil
}

// MemoryUsage returns total memory usage in bytes.
func (t *Table) MemoryUsage() int64 {
	var total int64
	for i, col := range t.columns {
		total += int64(len(t.names[i]))
		total += col.MemoryUsage()
	}
	return total
}

// Row is the read-time projection of one table row: an ordered mapping
// of column name to value. It is never stored by the Table.
type Row struct {
	names  []string
	values []interface{}
}

// Names returns the column names in table order.
func (r Row) Names() []string { return r.names }

// At returns the value in column position i.
func (r Row) At(i int) interface{} { return r.values[i] }

// Value looks up a value by column name.
func (r Row) Value(name string) (interface{}, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// AsMap copies the row into a fresh name-to-value map.
func (r Row) AsMap() map[string]interface{} {
	m := make(map[string]interface{}, len(r.names))
	for i, n := range r.names {
		m[n] = r.values[i]
	}
	return m
}

// Iterator provides sequential access to rows.
type Iterator struct {
	table *Table
	index int
}

// NewIterator creates a new iterator over the table.
func (t *Table) NewIterator() *Iterator {
	return &Iterator{table: t, index: -1}
}

// Next advances to the next row.
func (it *Iterator) Next() bool {
	it.index++
	return it.index < it.table.rows
}

// Row returns the current row.
func (it *Iterator) Row() Row {
	row, _ := it.table.Row(it.index)
	return row
}

// BatchIterator provides batched access to rows.
type BatchIterator struct {
	table     *Table
	batchSize int
	index     int
}

// NewBatchIterator creates a new batch iterator. Non-positive sizes
// fall back to the default of 1000 rows per batch.
func (t *Table) NewBatchIterator(batchSize int) *BatchIterator {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &BatchIterator{table: t, batchSize: batchSize}
}

// NextBatch returns the next batch of rows.
func (it *BatchIterator) NextBatch() ([]Row, bool) {
	if it.index >= it.table.rows {
		return nil, false
	}

	end := it.index + it.batchSize
	if end > it.table.rows {
		end = it.table.rows
	}

	batch := make([]Row, 0, end-it.index)
	for i := it.index; i < end; i++ {
		row, _ := it.table.Row(i)
		batch = append(batch, row)
	}

	it.index = end
	return batch, true
}
