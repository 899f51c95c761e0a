package schema

import "strings"

// ReservedPrefix marks internal bookkeeping keys inside a record. Keys
// starting with it are never resolvable as bind targets.
const ReservedPrefix = "$"

// sourceKey remembers the underlying table name of an alias record.
const sourceKey = ReservedPrefix + "SOURCE"

// Record is a named set of column→cell mappings representing one logical
// table or table alias. Names and columns are canonicalized to uppercase.
type Record struct {
	name  string
	cols  map[string]*Cell
	order []string
}

func newRecord(name string) *Record {
	return &Record{
		name: Canon(name),
		cols: make(map[string]*Cell),
	}
}

func (r *Record) Name() string {
	return r.name
}

// Cell returns the storage cell for a column. Reserved keys never resolve.
func (r *Record) Cell(column string) (*Cell, bool) {
	column = Canon(column)
	if IsReserved(column) {
		return nil, false
	}
	c, ok := r.cols[column]
	return c, ok
}

// Columns lists the non-reserved column names in registration order.
func (r *Record) Columns() []string {
	out := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if !IsReserved(name) {
			out = append(out, name)
		}
	}
	return out
}

// Source returns the underlying table name: the alias target for alias
// records, otherwise the record's own name.
func (r *Record) Source() string {
	if c, ok := r.cols[sourceKey]; ok {
		return c.String()
	}
	return r.name
}

func (r *Record) add(column string) *Cell {
	column = Canon(column)
	if c, ok := r.cols[column]; ok {
		return c
	}
	c := NewCell()
	r.cols[column] = c
	r.order = append(r.order, column)
	return c
}

func (r *Record) setInternal(key, value string) {
	key = Canon(key)
	if c, ok := r.cols[key]; ok {
		c.Set(value)
		return
	}
	c := NewCellValue(value)
	r.cols[key] = c
	r.order = append(r.order, key)
}

// Bindings flattens the record into a name→cell map usable as ad-hoc
// external bindings at compile time. Reserved keys are excluded.
func (r *Record) Bindings() map[string]*Cell {
	out := make(map[string]*Cell, len(r.cols))
	for name, c := range r.cols {
		if !IsReserved(name) {
			out[name] = c
		}
	}
	return out
}

// Canon canonicalizes a record, column, or bind name for lookup.
func Canon(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// IsReserved reports whether a key is internal bookkeeping.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, ReservedPrefix)
}
