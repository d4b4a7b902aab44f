// Package table provides a typed column store: named, type-homogeneous
// column vectors assembled into immutable, row-addressable tables.
package table

import (
	"strconv"
	"time"

	"github.com/tablekit/tablekit/pkg/errors"
)

// Type represents the semantic type of a column
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeTime
	TypeFactor
)

// String returns the configuration name of the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeTime:
		return "time"
	case TypeFactor:
		return "factor"
	default:
		return "unknown"
	}
}

// ParseType maps a configuration name to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "string", "":
		return TypeString, nil
	case "int":
		return TypeInt, nil
	case "float":
		return TypeFloat, nil
	case "bool":
		return TypeBool, nil
	case "time":
		return TypeTime, nil
	case "factor":
		return TypeFactor, nil
	default:
		return TypeString, errors.Newf(errors.ErrorTypeConfig, "unknown column type %q", s)
	}
}

// Column is the base interface for all column types.
// Get returns nil for null cells; IsNull reports them directly.
type Column interface {
	Type() Type
	Len() int
	Get(i int) interface{}
	IsNull(i int) bool
	Append(value interface{}) error
	AppendNull()
	MemoryUsage() int64
}

// NewColumn creates an empty column of the specified type.
func NewColumn(t Type) Column {
	switch t {
	case TypeInt:
		return NewIntColumn()
	case TypeFloat:
		return NewFloatColumn()
	case TypeBool:
		return NewBoolColumn()
	case TypeTime:
		return NewTimeColumn()
	case TypeFactor:
		return NewFactorColumn()
	default:
		return NewStringColumn()
	}
}

// nullMask tracks null cells, 64 per word.
type nullMask struct {
	bits []uint64
	any  bool
}

func (m *nullMask) set(i int) {
	word := i / 64
	for word >= len(m.bits) {
		m.bits = append(m.bits, 0)
	}
	m.bits[word] |= 1 << (i % 64)
	m.any = true
}

func (m *nullMask) get(i int) bool {
	if !m.any {
		return false
	}
	word := i / 64
	if word >= len(m.bits) {
		return false
	}
	return m.bits[word]&(1<<(i%64)) != 0
}

func (m *nullMask) memory() int64 {
	return int64(len(m.bits) * 8)
}

// StringColumn stores plain text values.
type StringColumn struct {
	values []string
	nulls  nullMask
}

// NewStringColumn creates a new string column
func NewStringColumn() *StringColumn {
	return &StringColumn{values: make([]string, 0, 1024)}
}

// Strings creates a string column from values.
func Strings(values ...string) *StringColumn {
	c := &StringColumn{values: make([]string, 0, len(values))}
	c.values = append(c.values, values...)
	return c
}

func (c *StringColumn) Type() Type { return TypeString }
func (c *StringColumn) Len() int   { return len(c.values) }

func (c *StringColumn) Get(i int) interface{} {
	if c.nulls.get(i) {
		return nil
	}
	return c.values[i]
}

func (c *StringColumn) IsNull(i int) bool { return c.nulls.get(i) }

func (c *StringColumn) Append(value interface{}) error {
	str, ok := value.(string)
	if !ok {
		return errors.Newf(errors.ErrorTypeParse, "expected string, got %T", value)
	}
	c.values = append(c.values, str)
	return nil
}

func (c *StringColumn) AppendNull() {
	c.nulls.set(len(c.values))
	c.values = append(c.values, "")
}

func (c *StringColumn) MemoryUsage() int64 {
	var total int64
	for _, v := range c.values {
		total += int64(len(v))
		total += 16 // string header overhead
	}
	return total + c.nulls.memory()
}

// IntColumn stores integer values.
type IntColumn struct {
	values   []int64
	min, max int64
	nulls    nullMask
}

// NewIntColumn creates a new integer column
func NewIntColumn() *IntColumn {
	return &IntColumn{values: make([]int64, 0, 1024)}
}

// Ints creates an integer column from values.
func Ints(values ...int64) *IntColumn {
	c := NewIntColumn()
	for _, v := range values {
		_ = c.Append(v)
	}
	return c
}

func (c *IntColumn) Type() Type { return TypeInt }
func (c *IntColumn) Len() int   { return len(c.values) }

func (c *IntColumn) Get(i int) interface{} {
	if c.nulls.get(i) {
		return nil
	}
	return c.values[i]
}

func (c *IntColumn) IsNull(i int) bool { return c.nulls.get(i) }

func (c *IntColumn) Append(value interface{}) error {
	var intVal int64
	switch v := value.(type) {
	case int:
		intVal = int64(v)
	case int64:
		intVal = v
	case int32:
		intVal = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Newf(errors.ErrorTypeParse, "cannot parse %q as int", v)
		}
		intVal = parsed
	default:
		return errors.Newf(errors.ErrorTypeParse, "expected int, got %T", value)
	}

	if len(c.values) == 0 {
		c.min = intVal
		c.max = intVal
	} else {
		if intVal < c.min {
			c.min = intVal
		}
		if intVal > c.max {
			c.max = intVal
		}
	}

	c.values = append(c.values, intVal)
	return nil
}

func (c *IntColumn) AppendNull() {
	c.nulls.set(len(c.values))
	c.values = append(c.values, 0)
}

// Bounds returns the smallest and largest value appended so far.
func (c *IntColumn) Bounds() (min, max int64) { return c.min, c.max }

func (c *IntColumn) MemoryUsage() int64 {
	return int64(len(c.values)*8) + c.nulls.memory()
}

// FloatColumn stores floating point values.
type FloatColumn struct {
	values []float64
	nulls  nullMask
}

// NewFloatColumn creates a new float column
func NewFloatColumn() *FloatColumn {
	return &FloatColumn{values: make([]float64, 0, 1024)}
}

// Floats creates a float column from values.
func Floats(values ...float64) *FloatColumn {
	c := NewFloatColumn()
	c.values = append(c.values, values...)
	return c
}

func (c *FloatColumn) Type() Type { return TypeFloat }
func (c *FloatColumn) Len() int   { return len(c.values) }

func (c *FloatColumn) Get(i int) interface{} {
	if c.nulls.get(i) {
		return nil
	}
	return c.values[i]
}

func (c *FloatColumn) IsNull(i int) bool { return c.nulls.get(i) }

func (c *FloatColumn) Append(value interface{}) error {
	var floatVal float64
	switch v := value.(type) {
	case float64:
		floatVal = v
	case float32:
		floatVal = float64(v)
	case int:
		floatVal = float64(v)
	case int64:
		floatVal = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Newf(errors.ErrorTypeParse, "cannot parse %q as float", v)
		}
		floatVal = parsed
	default:
		return errors.Newf(errors.ErrorTypeParse, "expected float, got %T", value)
	}

	c.values = append(c.values, floatVal)
	return nil
}

func (c *FloatColumn) AppendNull() {
	c.nulls.set(len(c.values))
	c.values = append(c.values, 0)
}

func (c *FloatColumn) MemoryUsage() int64 {
	return int64(len(c.values)*8) + c.nulls.memory()
}

// BoolColumn stores boolean values bit-packed, 64 per word.
type BoolColumn struct {
	words []uint64
	count int
	nulls nullMask
}

// NewBoolColumn creates a new boolean column
func NewBoolColumn() *BoolColumn {
	return &BoolColumn{words: make([]uint64, 0, 16)}
}

// Bools creates a boolean column from values.
func Bools(values ...bool) *BoolColumn {
	c := NewBoolColumn()
	for _, v := range values {
		_ = c.Append(v)
	}
	return c
}

func (c *BoolColumn) Type() Type { return TypeBool }
func (c *BoolColumn) Len() int   { return c.count }

func (c *BoolColumn) Get(i int) interface{} {
	if c.nulls.get(i) {
		return nil
	}
	return (c.words[i/64] & (1 << (i % 64))) != 0
}

func (c *BoolColumn) IsNull(i int) bool { return c.nulls.get(i) }

func (c *BoolColumn) Append(value interface{}) error {
	var boolVal bool
	switch v := value.(type) {
	case bool:
		boolVal = v
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Newf(errors.ErrorTypeParse, "cannot parse %q as bool", v)
		}
		boolVal = parsed
	default:
		return errors.Newf(errors.ErrorTypeParse, "expected bool, got %T", value)
	}

	c.appendBit(boolVal)
	return nil
}

func (c *BoolColumn) appendBit(v bool) {
	wordIndex := c.count / 64
	if wordIndex >= len(c.words) {
		c.words = append(c.words, 0)
	}
	if v {
		c.words[wordIndex] |= 1 << (c.count % 64)
	}
	c.count++
}

func (c *BoolColumn) AppendNull() {
	c.nulls.set(c.count)
	c.appendBit(false)
}

func (c *BoolColumn) MemoryUsage() int64 {
	return int64(len(c.words)*8) + c.nulls.memory()
}

// TimeColumn stores timestamps as unix nanoseconds, so fractional
// seconds in the input survive a round-trip.
type TimeColumn struct {
	values []int64
	nulls  nullMask
}

// NewTimeColumn creates a new timestamp column
func NewTimeColumn() *TimeColumn {
	return &TimeColumn{values: make([]int64, 0, 1024)}
}

// Times creates a timestamp column from values.
func Times(values ...time.Time) *TimeColumn {
	c := NewTimeColumn()
	for _, v := range values {
		_ = c.Append(v)
	}
	return c
}

func (c *TimeColumn) Type() Type { return TypeTime }
func (c *TimeColumn) Len() int   { return len(c.values) }

func (c *TimeColumn) Get(i int) interface{} {
	if c.nulls.get(i) {
		return nil
	}
	return time.Unix(0, c.values[i]).UTC()
}

func (c *TimeColumn) IsNull(i int) bool { return c.nulls.get(i) }

func (c *TimeColumn) Append(value interface{}) error {
	var timestamp int64
	switch v := value.(type) {
	case time.Time:
		timestamp = v.UnixNano()
	case int64:
		// Bare integers are unix seconds
		timestamp = v * int64(time.Second)
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return errors.Newf(errors.ErrorTypeParse, "cannot parse %q as timestamp", v)
		}
		timestamp = t.UnixNano()
	default:
		return errors.Newf(errors.ErrorTypeParse, "expected timestamp, got %T", value)
	}

	c.values = append(c.values, timestamp)
	return nil
}

func (c *TimeColumn) AppendNull() {
	c.nulls.set(len(c.values))
	c.values = append(c.values, 0)
}

func (c *TimeColumn) MemoryUsage() int64 {
	return int64(len(c.values)*8) + c.nulls.memory()
}
