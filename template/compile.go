// Package template implements the SQL-template compiler: a quote-aware
// scanner that resolves :NAME input tokens and ;NAME output tokens against
// a record store and emits placeholder-bearing SQL plus ordered binding
// lists.
package template

import (
	"fmt"
	"strings"

	"github.com/sqlbind/sqlbind/dialect"
	"github.com/sqlbind/sqlbind/schema"
)

// Compile scans a SQL template left to right and produces the compiled
// statement. Single quotes toggle string-literal mode: literal contents are
// copied verbatim and never scanned for tokens. All other plain text is
// uppercased. Input tokens become dialect placeholders in encounter order;
// output tokens are deleted from the emitted SQL.
//
// Resolution order for a token name: the external bindings map first, then
// a TABLE.COLUMN qualified lookup, then a unique scan across every
// non-reserved record column.
func Compile(tmpl string, store *schema.Store, ext Bindings, d dialect.Dialect) (*Statement, error) {
	if d == nil {
		d = dialect.NewGenericDialect()
	}
	if store == nil {
		store = schema.NewStore()
	}
	extc := make(Bindings, len(ext))
	for name, cell := range ext {
		extc[schema.Canon(name)] = cell
	}

	st := &Statement{}
	var out strings.Builder
	var plain strings.Builder
	out.Grow(len(tmpl))

	// Pending plain text is uppercased in one piece when a literal or
	// token interrupts it.
	flush := func() {
		out.WriteString(strings.ToUpper(plain.String()))
		plain.Reset()
	}

	inLiteral := false
	for i := 0; i < len(tmpl); {
		c := tmpl[i]

		if inLiteral {
			out.WriteByte(c)
			if c == '\'' {
				inLiteral = false
			}
			i++
			continue
		}

		switch {
		case c == '\'':
			flush()
			out.WriteByte(c)
			inLiteral = true
			i++

		case (c == ':' || c == ';') && i+1 < len(tmpl) && isIdentStart(tmpl[i+1]):
			flush()
			name, next, err := scanName(tmpl, i+1)
			if err != nil {
				return nil, err
			}
			cell, size, err := resolve(name, store, extc)
			if err != nil {
				return nil, err
			}
			if c == ':' {
				st.Inputs = append(st.Inputs, Bind{Name: name, Cell: cell, Size: size})
				out.WriteString(d.Placeholder(len(st.Inputs)))
			} else {
				// Output tokens vanish from the SQL; the expression text
				// preceding the token is what the database selects.
				st.Outputs = append(st.Outputs, Bind{Name: name, Cell: cell})
			}
			i = next

		default:
			plain.WriteByte(c)
			i++
		}
	}
	flush()
	st.SQL = out.String()
	return st, nil
}

// scanName consumes IDENT or IDENT.IDENT starting at i and returns the
// canonicalized name plus the index after it.
func scanName(tmpl string, i int) (string, int, error) {
	j := i
	for j < len(tmpl) && isIdentChar(tmpl[j]) {
		j++
	}
	if j < len(tmpl) && tmpl[j] == '.' {
		if j+1 >= len(tmpl) || !isIdentStart(tmpl[j+1]) {
			return "", 0, fmt.Errorf("%w: %q", ErrMalformedName, tmpl[i:j+1])
		}
		j++
		for j < len(tmpl) && isIdentChar(tmpl[j]) {
			j++
		}
		if j < len(tmpl) && tmpl[j] == '.' {
			return "", 0, fmt.Errorf("%w: %q", ErrMalformedName, tmpl[i:j+1])
		}
	}
	return schema.Canon(tmpl[i:j]), j, nil
}

// resolve maps a token name to its storage cell and input size hint.
func resolve(name string, store *schema.Store, ext Bindings) (*schema.Cell, int, error) {
	if cell, ok := ext[name]; ok {
		return cell, schema.DefaultSize, nil
	}

	if table, column, qualified := strings.Cut(name, "."); qualified {
		rec, ok := store.Record(table)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownTable, table)
		}
		cell, ok := rec.Cell(column)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
		}
		return cell, store.SizeHint(rec.Source(), column), nil
	}

	var found *schema.Cell
	matches := 0
	for _, rec := range store.Records() {
		if cell, ok := rec.Cell(name); ok {
			found = cell
			matches++
		}
	}
	switch matches {
	case 0:
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	case 1:
		return found, schema.DefaultSize, nil
	default:
		return nil, 0, fmt.Errorf("%w: %s matches %d records", ErrAmbiguousColumn, name, matches)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
