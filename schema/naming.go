package schema

import (
	"fmt"
	"reflect"
	"strings"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton for consistent table-name pluralization.
var pluralizeClient = pluralizer.NewClient()

// RecordName derives a record name from a Go struct name: pluralized and
// canonicalized, so `Customer` registers as `CUSTOMERS`.
func RecordName(structName string) string {
	return Canon(pluralizeClient.Plural(structName))
}

// RegisterStruct registers a record derived from a struct value: the record
// name comes from the struct type (see RecordName), one column per exported
// field, cells seeded with the struct's current field values. A `db` tag
// overrides the column name; `db:"-"` skips the field.
func (s *Store) RegisterStruct(v any) (*Record, error) {
	t := reflect.TypeOf(v)
	val := reflect.ValueOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
		val = val.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: RegisterStruct needs a struct, got %s", t.Kind())
	}

	r := s.record(RecordName(t.Name()))
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		col := f.Name
		if tag, ok := f.Tag.Lookup("db"); ok {
			if tag == "-" {
				continue
			}
			if name, _, _ := strings.Cut(tag, ";"); name != "" {
				col = name
			}
		}
		cell := r.add(col)
		cell.Set(val.Field(i).Interface())
	}
	s.version.Add(1)
	return r, nil
}
