// Package query assembles template fragments for SELECT, WHERE, VALUES,
// and UPDATE clauses from a record's columns, applying any registered
// column substitution rules. The output still contains bind tokens; it is
// meant to be spliced into a template and handed to the compiler.
package query

import (
	"fmt"
	"strings"

	"github.com/sqlbind/sqlbind/schema"
	"github.com/sqlbind/sqlbind/template"
)

// SelectList renders one selected expression per column, each followed by
// its output bind token, comma separated. Columns with a substitution rule
// get the rule's read expression plus a column alias so the result column
// keeps its name.
func SelectList(store *schema.Store, record string, columns ...string) (string, error) {
	rec, cols, err := recordColumns(store, record, columns)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(cols))
	for i, col := range cols {
		expr := col
		if rule, ok := store.Rule(col); ok {
			expr = readExpr(rule, col) + " " + col
		}
		parts[i] = expr + ";" + qualify(rec, col)
	}
	return strings.Join(parts, ", "), nil
}

// WhereList renders COLUMN = <value expression> predicates joined by AND,
// with one input bind token per column.
func WhereList(store *schema.Store, record string, columns ...string) (string, error) {
	rec, cols, err := recordColumns(store, record, columns)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = col + " = " + writeExpr(ruleFor(store, col), rec, col)
	}
	return strings.Join(parts, " AND "), nil
}

// InsertColumns renders the parenthesized column list of an INSERT.
func InsertColumns(store *schema.Store, record string, columns ...string) (string, error) {
	_, cols, err := recordColumns(store, record, columns)
	if err != nil {
		return "", err
	}
	return "(" + strings.Join(cols, ", ") + ")", nil
}

// InsertValues renders the parenthesized VALUES list matching
// InsertColumns, one value expression with an input token per column.
func InsertValues(store *schema.Store, record string, columns ...string) (string, error) {
	rec, cols, err := recordColumns(store, record, columns)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = writeExpr(ruleFor(store, col), rec, col)
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

// UpdateList renders the SET list of an UPDATE: COLUMN = <value
// expression> pairs joined by commas.
func UpdateList(store *schema.Store, record string, columns ...string) (string, error) {
	rec, cols, err := recordColumns(store, record, columns)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = col + " = " + writeExpr(ruleFor(store, col), rec, col)
	}
	return strings.Join(parts, ", "), nil
}

func recordColumns(store *schema.Store, record string, columns []string) (*schema.Record, []string, error) {
	rec, ok := store.Record(record)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", template.ErrUnknownTable, schema.Canon(record))
	}
	if len(columns) == 0 {
		return rec, rec.Columns(), nil
	}
	cols := make([]string, len(columns))
	for i, col := range columns {
		col = schema.Canon(col)
		if _, ok := rec.Cell(col); !ok {
			return nil, nil, fmt.Errorf("%w: %s.%s", template.ErrUnknownColumn, rec.Name(), col)
		}
		cols[i] = col
	}
	return rec, cols, nil
}

func ruleFor(store *schema.Store, col string) *schema.Rule {
	rule, _ := store.Rule(col)
	return rule
}

// qualify builds the token name for a record column; anonymous records get
// unqualified tokens.
func qualify(rec *schema.Record, col string) string {
	if rec.Name() == "" {
		return col
	}
	return rec.Name() + "." + col
}

// readExpr is the expression selecting a rule-governed column.
func readExpr(rule *schema.Rule, col string) string {
	switch rule.Type {
	case schema.RuleDate, schema.RuleSysdate:
		return fmt.Sprintf("TO_CHAR(%s, '%s')", col, rule.Arg)
	case schema.RuleSince:
		return fmt.Sprintf("EXTRACT(EPOCH FROM (%s - TO_TIMESTAMP('%s', '%s')))",
			col, rule.Arg, sinceSQLLayout)
	default:
		return col
	}
}

// writeExpr is the value expression for a column in VALUES, SET, or WHERE
// position. Without a rule it is the bare input token.
func writeExpr(rule *schema.Rule, rec *schema.Record, col string) string {
	token := ":" + qualify(rec, col)
	if rule == nil {
		return token
	}
	switch rule.Type {
	case schema.RuleDate:
		return fmt.Sprintf("TO_TIMESTAMP(%s, '%s')", token, rule.Arg)
	case schema.RuleSysdate:
		return "CURRENT_TIMESTAMP"
	case schema.RuleSince:
		return fmt.Sprintf("TO_TIMESTAMP('%s', '%s') + %s * INTERVAL '1 SECOND'",
			rule.Arg, sinceSQLLayout, token)
	default:
		return token
	}
}

// sinceSQLLayout is schema.SinceLayout spelled in SQL date-format terms.
const sinceSQLLayout = "YYYY-MM-DD HH24:MI:SS"
