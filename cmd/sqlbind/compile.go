package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqlbind/sqlbind/dialect"
	"github.com/sqlbind/sqlbind/schema"
	"github.com/sqlbind/sqlbind/template"
)

type templateFlags struct {
	records []string
	sizes   []string
	sets    []string
	dialect string
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.records, "record", nil,
		"record declaration NAME=COL1,COL2,... (repeatable)")
	cmd.Flags().StringArrayVar(&f.sizes, "size", nil,
		"schema size hint TABLE.COL=DECL, e.g. CUSTOMER.NAME=VARCHAR(40) (repeatable)")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil,
		"ad-hoc binding NAME=VALUE (repeatable)")
	cmd.Flags().StringVar(&f.dialect, "dialect", "generic",
		"placeholder dialect: generic or postgres")
}

// build populates a fresh store and binding map from the flags.
func (f *templateFlags) build() (*schema.Store, template.Bindings, dialect.Dialect, error) {
	store := schema.NewStore()
	ext, d, err := f.populate(store)
	return store, ext, d, err
}

// populate applies the flag declarations to an existing store.
func (f *templateFlags) populate(store *schema.Store) (template.Bindings, dialect.Dialect, error) {
	for _, decl := range f.records {
		name, cols, ok := strings.Cut(decl, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --record %q, want NAME=COL1,COL2", decl)
		}
		store.Register(name, strings.Split(cols, ",")...)
	}
	for _, decl := range f.sizes {
		target, typ, ok := strings.Cut(decl, "=")
		table, col, qualified := strings.Cut(target, ".")
		if !ok || !qualified {
			return nil, nil, fmt.Errorf("bad --size %q, want TABLE.COL=DECL", decl)
		}
		store.DeclareSize(table, col, typ)
	}
	ext := make(template.Bindings, len(f.sets))
	for _, set := range f.sets {
		name, value, ok := strings.Cut(set, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --set %q, want NAME=VALUE", set)
		}
		ext[name] = schema.NewCellValue(value)
	}

	var d dialect.Dialect
	switch f.dialect {
	case "generic":
		d = dialect.NewGenericDialect()
	case "postgres":
		d = dialect.NewPostgresDialect()
	default:
		return nil, nil, fmt.Errorf("unknown dialect %q", f.dialect)
	}
	return ext, d, nil
}

func readTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func newCompileCmd() *cobra.Command {
	flags := &templateFlags{}
	cmd := &cobra.Command{
		Use:   "compile <template-file>",
		Short: "Compile a template and print the SQL and binding lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := readTemplate(args[0])
			if err != nil {
				return err
			}
			store, ext, d, err := flags.build()
			if err != nil {
				return err
			}
			st, err := template.Compile(tmpl, store, ext, d)
			if err != nil {
				return err
			}

			fmt.Println(st.SQL)
			for i, in := range st.Inputs {
				fmt.Printf("  in  %d: %s = %q\n", i+1, in.Name, in.Cell.String())
			}
			for i, out := range st.Outputs {
				fmt.Printf("  out %d: %s\n", i+1, out.Name)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
