package query

import (
	"fmt"
	"strings"

	"github.com/sqlbind/sqlbind/schema"
)

// TemplateBuilder assembles whole statement templates from the record's
// list fragments. The result still carries bind tokens and goes through
// the compiler like hand-written template text.
type TemplateBuilder struct {
	store  *schema.Store
	record string
	cols   []string
	where  string
	order  string
	limit  *int
}

func NewTemplate(store *schema.Store, record string) *TemplateBuilder {
	return &TemplateBuilder{store: store, record: record}
}

// Columns restricts the builder to a subset of the record's columns.
func (b *TemplateBuilder) Columns(cols ...string) *TemplateBuilder {
	b.cols = cols
	return b
}

// Where sets a raw predicate fragment, which may itself contain bind
// tokens.
func (b *TemplateBuilder) Where(cond string) *TemplateBuilder {
	b.where = cond
	return b
}

// WhereColumns sets the predicate to the record's WhereList over the given
// columns.
func (b *TemplateBuilder) WhereColumns(cols ...string) (*TemplateBuilder, error) {
	where, err := WhereList(b.store, b.record, cols...)
	if err != nil {
		return nil, err
	}
	b.where = where
	return b, nil
}

func (b *TemplateBuilder) Order(order string) *TemplateBuilder {
	b.order = order
	return b
}

func (b *TemplateBuilder) Limit(n int) *TemplateBuilder {
	b.limit = &n
	return b
}

// Select builds a SELECT template with output tokens for every chosen
// column.
func (b *TemplateBuilder) Select() (string, error) {
	list, err := SelectList(b.store, b.record, b.cols...)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(list)
	sb.WriteString(" FROM ")
	sb.WriteString(b.table())
	if b.where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.where)
	}
	if b.order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.order)
	}
	if b.limit != nil {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", *b.limit))
	}
	return sb.String(), nil
}

// Insert builds an INSERT template with input tokens for every chosen
// column.
func (b *TemplateBuilder) Insert() (string, error) {
	cols, err := InsertColumns(b.store, b.record, b.cols...)
	if err != nil {
		return "", err
	}
	values, err := InsertValues(b.store, b.record, b.cols...)
	if err != nil {
		return "", err
	}
	return "INSERT INTO " + b.table() + " " + cols + " VALUES " + values, nil
}

// Update builds an UPDATE template; the SET list covers the chosen
// columns and the WHERE clause comes from Where/WhereColumns.
func (b *TemplateBuilder) Update() (string, error) {
	set, err := UpdateList(b.store, b.record, b.cols...)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table())
	sb.WriteString(" SET ")
	sb.WriteString(set)
	if b.where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.where)
	}
	return sb.String(), nil
}

// Delete builds a DELETE template over the builder's WHERE clause.
func (b *TemplateBuilder) Delete() string {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.table())
	if b.where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.where)
	}
	return sb.String()
}

// table resolves the statement's table name: the record's underlying
// source for alias records.
func (b *TemplateBuilder) table() string {
	if rec, ok := b.store.Record(b.record); ok {
		return rec.Source()
	}
	return schema.Canon(b.record)
}
