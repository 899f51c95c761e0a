package schema

import (
	"regexp"
	"strconv"
	"sync/atomic"
)

// DefaultSize is the parameter size hint used when no schema entry
// declares a length for the bound column.
const DefaultSize = 255

var declaredLen = regexp.MustCompile(`\((\d+)\)`)

// Store owns the session's records, declared-size hints, and column
// substitution rules. One store per session; access is single-flow by
// contract, the version counter is atomic only so cached compiles can be
// checked without a lock.
type Store struct {
	records map[string]*Record
	order   []string
	sizes   map[string]string
	rules   map[string]*Rule
	version atomic.Uint64
}

func NewStore() *Store {
	return &Store{
		records: make(map[string]*Record),
		sizes:   make(map[string]string),
		rules:   make(map[string]*Rule),
	}
}

// Register creates (or extends) the named record with the given columns.
// An empty name registers an anonymous record, reachable only through
// Bindings or an explicit empty-string lookup.
func (s *Store) Register(name string, columns ...string) *Record {
	r := s.record(name)
	for _, col := range columns {
		r.add(col)
	}
	s.version.Add(1)
	return r
}

// RegisterAlias registers columns under an alias record that remembers its
// underlying table, so qualified size lookups resolve against the real
// table's schema entries.
func (s *Store) RegisterAlias(alias, table string, columns ...string) *Record {
	r := s.record(alias)
	r.setInternal(sourceKey, Canon(table))
	for _, col := range columns {
		r.add(col)
	}
	s.version.Add(1)
	return r
}

// Record looks up a registered record by name.
func (s *Store) Record(name string) (*Record, bool) {
	r, ok := s.records[Canon(name)]
	return r, ok
}

// Records returns all records in registration order.
func (s *Store) Records() []*Record {
	out := make([]*Record, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.records[name])
	}
	return out
}

// DeclareSize registers a schema entry: the declared type of table.column,
// e.g. "VARCHAR(40)". The parenthesized length feeds parameter sizing.
func (s *Store) DeclareSize(table, column, decl string) {
	s.sizes[Canon(table)+"."+Canon(column)] = decl
	s.version.Add(1)
}

// SizeHint extracts the declared length for table.column, or DefaultSize
// when no entry exists or the declaration carries no length.
func (s *Store) SizeHint(table, column string) int {
	decl, ok := s.sizes[Canon(table)+"."+Canon(column)]
	if !ok {
		return DefaultSize
	}
	m := declaredLen.FindStringSubmatch(decl)
	if m == nil {
		return DefaultSize
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return DefaultSize
	}
	return n
}

// Version increments on every registration; compiled-statement caches key
// on it so stale resolutions are never reused.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

func (s *Store) record(name string) *Record {
	name = Canon(name)
	if r, ok := s.records[name]; ok {
		return r
	}
	r := newRecord(name)
	s.records[name] = r
	s.order = append(s.order, name)
	return r
}
