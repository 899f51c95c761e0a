package template

import (
	"strings"

	"github.com/sqlbind/sqlbind/schema"
)

// Bind ties one bind token to its resolved storage cell. Size carries the
// parameter size hint for input binds; it is zero for output binds.
type Bind struct {
	Name string
	Cell *schema.Cell
	Size int
}

// Bindings is an ad-hoc name→cell map supplied alongside a template at
// compile time. Names here win over record-derived resolution.
type Bindings map[string]*schema.Cell

// Statement is the artifact of one compile pass: the emitted SQL with bind
// tokens replaced, plus the ordered input and output binding lists. The Nth
// input placeholder in SQL corresponds to Inputs[N]; Outputs follows the
// left-to-right order of result columns in the statement.
type Statement struct {
	SQL     string
	Inputs  []Bind
	Outputs []Bind
}

// IsQuery reports whether the compiled SQL is a read: its first keyword is
// the canonical SELECT token.
func (s *Statement) IsQuery() bool {
	fields := strings.Fields(s.SQL)
	return len(fields) > 0 && strings.TrimLeft(fields[0], "(") == "SELECT"
}

// OutputCells returns the output cells in column order, ready to hand to
// the database layer's row-fetch mechanism.
func (s *Statement) OutputCells() []*schema.Cell {
	cells := make([]*schema.Cell, len(s.Outputs))
	for i, b := range s.Outputs {
		cells[i] = b.Cell
	}
	return cells
}
