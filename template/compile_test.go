package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlbind/sqlbind/dialect"
	"github.com/sqlbind/sqlbind/schema"
)

func customerStore(t *testing.T) *schema.Store {
	t.Helper()
	store := schema.NewStore()
	store.Register("customer", "name", "zip")
	return store
}

func TestCompilePlainText(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "NoTokens",
			template: "select * from customer",
			want:     "SELECT * FROM CUSTOMER",
		},
		{
			name:     "LiteralPreserved",
			template: "select * from customer where name = 'van Gogh'",
			want:     "SELECT * FROM CUSTOMER WHERE NAME = 'van Gogh'",
		},
		{
			name:     "AdjacentLiterals",
			template: "select 'a''b' from dual",
			want:     "SELECT 'a''b' FROM DUAL",
		},
		{
			name:     "EmptyTemplate",
			template: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Compile(tt.template, customerStore(t), nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.SQL)
			assert.Empty(t, st.Inputs)
			assert.Empty(t, st.Outputs)
		})
	}
}

func TestCompileInputTokens(t *testing.T) {
	store := customerStore(t)
	nameCell, _ := mustRecord(t, store, "CUSTOMER").Cell("NAME")
	zipCell, _ := mustRecord(t, store, "CUSTOMER").Cell("ZIP")

	st, err := Compile("update customer set name = :name where zip = :zip", store, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE CUSTOMER SET NAME = ? WHERE ZIP = ?", st.SQL)
	require.Len(t, st.Inputs, 2)
	// Nth placeholder corresponds to Nth input entry.
	assert.Same(t, nameCell, st.Inputs[0].Cell)
	assert.Same(t, zipCell, st.Inputs[1].Cell)
	assert.Equal(t, "NAME", st.Inputs[0].Name)
	assert.Equal(t, "ZIP", st.Inputs[1].Name)
}

func TestCompilePostgresPlaceholders(t *testing.T) {
	store := customerStore(t)
	st, err := Compile("select name from customer where name = :name or zip = :zip",
		store, nil, dialect.NewPostgresDialect())
	require.NoError(t, err)
	assert.Equal(t, "SELECT NAME FROM CUSTOMER WHERE NAME = $1 OR ZIP = $2", st.SQL)
}

func TestCompileOutputTokensRemoved(t *testing.T) {
	store := customerStore(t)
	st, err := Compile("SELECT NAME;NAME, ZIP;ZIP FROM CUSTOMER", store, nil, nil)
	require.NoError(t, err)

	// Removing the tokens deletes exactly the token characters.
	assert.Equal(t, "SELECT NAME, ZIP FROM CUSTOMER", st.SQL)
	require.Len(t, st.Outputs, 2)
	assert.Equal(t, "NAME", st.Outputs[0].Name)
	assert.Equal(t, "ZIP", st.Outputs[1].Name)
	assert.Empty(t, st.Inputs)
}

func TestCompileTokenInsideLiteralIgnored(t *testing.T) {
	store := customerStore(t)
	st, err := Compile("SELECT * FROM CUSTOMER WHERE NAME = ':FAKE' AND ZIP = :ZIP", store, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM CUSTOMER WHERE NAME = ':FAKE' AND ZIP = ?", st.SQL)
	require.Len(t, st.Inputs, 1)
	assert.Equal(t, "ZIP", st.Inputs[0].Name)
}

func TestCompileExternalBindingsWin(t *testing.T) {
	store := customerStore(t)
	extCell := schema.NewCellValue("60000")

	// NAME also exists on CUSTOMER; the external map takes priority.
	st, err := Compile("select zip from customer where name = :name", store,
		Bindings{"name": extCell}, nil)
	require.NoError(t, err)
	require.Len(t, st.Inputs, 1)
	assert.Same(t, extCell, st.Inputs[0].Cell)
}

func TestCompileQualifiedResolution(t *testing.T) {
	store := schema.NewStore()
	store.Register("t1", "x")
	store.Register("t2", "x")
	t1x, _ := mustRecord(t, store, "T1").Cell("X")

	t.Run("AmbiguousUnqualified", func(t *testing.T) {
		_, err := Compile("select * from t1 where x = :x", store, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAmbiguousColumn)
	})

	t.Run("QualifiedResolves", func(t *testing.T) {
		st, err := Compile("select * from t1 where x = :t1.x", store, nil, nil)
		require.NoError(t, err)
		require.Len(t, st.Inputs, 1)
		assert.Same(t, t1x, st.Inputs[0].Cell)
	})
}

func TestCompileResolutionFailures(t *testing.T) {
	store := customerStore(t)

	tests := []struct {
		name     string
		template string
		wantErr  error
	}{
		{"UnknownColumn", "select * from customer where x = :nope", ErrUnknownColumn},
		{"UnknownTable", "select * from orders where id = :orders.id", ErrUnknownTable},
		{"UnknownQualifiedColumn", "select :customer.nope", ErrUnknownColumn},
		{"TrailingDot", "select :customer.", ErrMalformedName},
		{"OutputUnknown", "select name;nope from customer", ErrUnknownColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.template, store, nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompileDoubleDotIsMalformed(t *testing.T) {
	store := schema.NewStore()
	store.Register("a", "b")
	_, err := Compile("select :a.b.c", store, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedName)
}

func TestCompileReservedKeysNeverResolve(t *testing.T) {
	store := schema.NewStore()
	store.RegisterAlias("c", "customer", "name")

	_, err := Compile("select :c.$source", store, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedName) // `$` is not an identifier character

	_, err = Compile("select :source", store, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestCompileSizeHints(t *testing.T) {
	store := customerStore(t)
	store.DeclareSize("customer", "name", "VARCHAR(40)")

	st, err := Compile("select zip from customer where name = :customer.name and zip = :customer.zip",
		store, nil, nil)
	require.NoError(t, err)
	require.Len(t, st.Inputs, 2)
	assert.Equal(t, 40, st.Inputs[0].Size)
	assert.Equal(t, schema.DefaultSize, st.Inputs[1].Size)
}

func TestCompileAliasSizeLookup(t *testing.T) {
	store := schema.NewStore()
	store.RegisterAlias("c", "customer", "name")
	store.DeclareSize("customer", "name", "CHAR(12)")

	st, err := Compile("select 1 where :c.name = ''", store, nil, nil)
	require.NoError(t, err)
	require.Len(t, st.Inputs, 1)
	assert.Equal(t, 12, st.Inputs[0].Size)
}

func TestCompileEndToEndScenario(t *testing.T) {
	store := schema.NewStore()
	rec := store.Register("customer", "name", "zip")
	cellN, _ := rec.Cell("NAME")
	cellZ, _ := rec.Cell("ZIP")
	cellM := schema.NewCellValue("60000")

	st, err := Compile("SELECT NAME;NAME, ZIP;ZIP FROM CUSTOMER WHERE ZIP > :MINZIP",
		store, Bindings{"MINZIP": cellM}, nil)
	require.NoError(t, err)

	assert.Equal(t, "SELECT NAME, ZIP FROM CUSTOMER WHERE ZIP > ?", st.SQL)
	require.Len(t, st.Inputs, 1)
	assert.Same(t, cellM, st.Inputs[0].Cell)
	require.Len(t, st.Outputs, 2)
	assert.Same(t, cellN, st.Outputs[0].Cell)
	assert.Same(t, cellZ, st.Outputs[1].Cell)
	assert.True(t, st.IsQuery())
}

func TestCompileRoundTripBindings(t *testing.T) {
	store := schema.NewStore()
	rec := store.Register("", "a", "b")

	binds := rec.Bindings()
	require.Len(t, binds, 2)
	require.Contains(t, binds, "A")
	require.Contains(t, binds, "B")

	st, err := Compile("select b from t where a = :a", schema.NewStore(), binds, nil)
	require.NoError(t, err)
	require.Len(t, st.Inputs, 1)

	cellA, _ := rec.Cell("A")
	assert.Same(t, cellA, st.Inputs[0].Cell)
}

func TestIsQuery(t *testing.T) {
	assert.True(t, (&Statement{SQL: "SELECT 1"}).IsQuery())
	assert.True(t, (&Statement{SQL: "  SELECT 1"}).IsQuery())
	assert.False(t, (&Statement{SQL: "UPDATE T SET X = ?"}).IsQuery())
	assert.False(t, (&Statement{SQL: ""}).IsQuery())
}

func mustRecord(t *testing.T, store *schema.Store, name string) *schema.Record {
	t.Helper()
	rec, ok := store.Record(name)
	require.True(t, ok, "record %s not registered", name)
	return rec
}
