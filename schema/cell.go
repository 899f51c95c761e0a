package schema

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// Cell is an addressable, mutable slot holding one scalar value. Cells are
// shared between caller code and the engine: the compiler resolves bind
// tokens to cells, execute reads input cells, and fetch writes row values
// back into output cells in place.
type Cell struct {
	v any
}

func NewCell() *Cell {
	return &Cell{}
}

func NewCellValue(v any) *Cell {
	return &Cell{v: v}
}

// Set replaces the cell's value.
func (c *Cell) Set(v any) {
	c.v = v
}

// Value returns the current value, nil when unset.
func (c *Cell) Value() any {
	return c.v
}

// String renders the value as text, empty for nil.
func (c *Cell) String() string {
	if c.v == nil {
		return ""
	}
	if s, ok := c.v.(string); ok {
		return s
	}
	return fmt.Sprint(c.v)
}

// Int64 converts the value to an integer when possible.
func (c *Cell) Int64() (int64, bool) {
	switch v := c.v.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Scan implements sql.Scanner so row values land directly in the cell.
func (c *Cell) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		c.v = string(v)
	default:
		c.v = v
	}
	return nil
}

// DriverValue exposes the cell's content in driver-acceptable form for
// parameter binding.
func (c *Cell) DriverValue() (driver.Value, error) {
	switch v := c.v.(type) {
	case nil, string, int64, float64, bool, []byte, time.Time:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return float64(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

var _ sql.Scanner = (*Cell)(nil)
