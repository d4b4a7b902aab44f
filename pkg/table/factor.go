package table

import (
	"github.com/tablekit/tablekit/pkg/errors"
)

// FactorColumn stores a categorical encoding: each cell is a small
// integer code into an ordered list of display labels. Levels are
// registered in first-appearance order.
type FactorColumn struct {
	levels []string
	index  map[string]uint32
	codes  []uint32
	nulls  nullMask
}

// NewFactorColumn creates an empty factor column.
func NewFactorColumn() *FactorColumn {
	return &FactorColumn{
		index: make(map[string]uint32),
		codes: make([]uint32, 0, 1024),
	}
}

// Factor creates a factor column from labels.
func Factor(labels ...string) *FactorColumn {
	c := NewFactorColumn()
	for _, l := range labels {
		_ = c.Append(l)
	}
	return c
}

func (c *FactorColumn) Type() Type { return TypeFactor }
func (c *FactorColumn) Len() int   { return len(c.codes) }

// Get returns the display label for the cell, nil when null.
func (c *FactorColumn) Get(i int) interface{} {
	if c.nulls.get(i) {
		return nil
	}
	return c.levels[c.codes[i]]
}

func (c *FactorColumn) IsNull(i int) bool { return c.nulls.get(i) }

func (c *FactorColumn) Append(value interface{}) error {
	label, ok := value.(string)
	if !ok {
		return errors.Newf(errors.ErrorTypeParse, "expected string label, got %T", value)
	}

	code, exists := c.index[label]
	if !exists {
		code = uint32(len(c.levels))
		c.index[label] = code
		c.levels = append(c.levels, label)
	}
	c.codes = append(c.codes, code)
	return nil
}

func (c *FactorColumn) AppendNull() {
	c.nulls.set(len(c.codes))
	c.codes = append(c.codes, 0)
}

// CodeAt returns the integer code of the cell.
func (c *FactorColumn) CodeAt(i int) uint32 {
	return c.codes[i]
}

// Levels returns the labels in first-appearance order. The returned
// slice must not be modified.
func (c *FactorColumn) Levels() []string {
	return c.levels
}

func (c *FactorColumn) MemoryUsage() int64 {
	var total int64
	for _, l := range c.levels {
		total += int64(len(l)) + 16
	}
	total += int64(len(c.codes) * 4)
	return total + c.nulls.memory()
}
