package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================================================
// Cell Tests
// =========================================================================

func TestCellValues(t *testing.T) {
	c := NewCell()
	assert.Nil(t, c.Value())
	assert.Equal(t, "", c.String())

	c.Set("hello")
	assert.Equal(t, "hello", c.String())

	c.Set(42)
	n, ok := c.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	c.Set("123")
	n, ok = c.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(123), n)

	c.Set("abc")
	_, ok = c.Int64()
	assert.False(t, ok)
}

func TestCellScan(t *testing.T) {
	c := NewCell()

	require.NoError(t, c.Scan([]byte("bytes")))
	assert.Equal(t, "bytes", c.Value())

	require.NoError(t, c.Scan(int64(7)))
	assert.Equal(t, int64(7), c.Value())

	require.NoError(t, c.Scan(nil))
	assert.Nil(t, c.Value())
}

func TestCellDriverValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"String", "x", "x"},
		{"Int", 5, int64(5)},
		{"Int32", int32(5), int64(5)},
		{"Float32", float32(1.5), float64(1.5)},
		{"Nil", nil, nil},
		{"Time", time.Unix(0, 0).UTC(), time.Unix(0, 0).UTC()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewCellValue(tt.in).DriverValue()
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

// =========================================================================
// Record / Store Tests
// =========================================================================

func TestRegisterCanonicalizes(t *testing.T) {
	store := NewStore()
	rec := store.Register("customer", "name", "zip")

	assert.Equal(t, "CUSTOMER", rec.Name())
	assert.Equal(t, []string{"NAME", "ZIP"}, rec.Columns())

	_, ok := rec.Cell("name")
	assert.True(t, ok, "column lookup is case-insensitive")

	got, ok := store.Record("Customer")
	require.True(t, ok)
	assert.Same(t, rec, got)
}

func TestRegisterIsIdempotentPerColumn(t *testing.T) {
	store := NewStore()
	rec := store.Register("t", "a")
	cellA, _ := rec.Cell("a")

	store.Register("t", "a", "b")
	again, _ := rec.Cell("a")
	assert.Same(t, cellA, again, "re-registering keeps the existing cell")
	assert.Equal(t, []string{"A", "B"}, rec.Columns())
}

func TestReservedKeys(t *testing.T) {
	store := NewStore()
	rec := store.RegisterAlias("c", "customer", "name")

	assert.Equal(t, "CUSTOMER", rec.Source())
	assert.Equal(t, []string{"NAME"}, rec.Columns(), "reserved keys hidden from Columns")

	_, ok := rec.Cell("$SOURCE")
	assert.False(t, ok, "reserved keys never resolve")

	binds := rec.Bindings()
	assert.NotContains(t, binds, "$SOURCE")
}

func TestRecordSourceDefaultsToName(t *testing.T) {
	store := NewStore()
	rec := store.Register("orders", "id")
	assert.Equal(t, "ORDERS", rec.Source())
}

func TestStoreVersionBumps(t *testing.T) {
	store := NewStore()
	v0 := store.Version()
	store.Register("t", "a")
	v1 := store.Version()
	assert.Greater(t, v1, v0)

	store.DeclareSize("t", "a", "CHAR(4)")
	assert.Greater(t, store.Version(), v1)
}

// =========================================================================
// Size Hint Tests
// =========================================================================

func TestSizeHint(t *testing.T) {
	store := NewStore()
	store.DeclareSize("customer", "name", "VARCHAR(40)")
	store.DeclareSize("customer", "flag", "BOOLEAN")

	tests := []struct {
		name   string
		table  string
		column string
		want   int
	}{
		{"Declared", "customer", "name", 40},
		{"DeclaredUppercaseLookup", "CUSTOMER", "NAME", 40},
		{"NoLengthInDecl", "customer", "flag", DefaultSize},
		{"NoEntry", "customer", "zip", DefaultSize},
		{"UnknownTable", "orders", "id", DefaultSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.SizeHint(tt.table, tt.column))
		})
	}
}

// =========================================================================
// Column Rule Tests
// =========================================================================

func TestParseRule(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    RuleType
		wantArg string
		wantErr error
	}{
		{"Date", "DATE(YYYY-MM-DD)", RuleDate, "YYYY-MM-DD", nil},
		{"Sysdate", "SYSDATE(YYYY-MM-DD HH24:MI:SS)", RuleSysdate, "YYYY-MM-DD HH24:MI:SS", nil},
		{"Since", "SINCE(1970-01-01 00:00:00)", RuleSince, "1970-01-01 00:00:00", nil},
		{"LowercaseType", "date(YYYY)", RuleDate, "YYYY", nil},
		{"UnknownType", "EPOCH(1970-01-01 00:00:00)", 0, "", ErrUnknownRule},
		{"NoParens", "DATE", 0, "", ErrRuleMalformed},
		{"EmptyDateFormat", "DATE()", 0, "", ErrRuleMalformed},
		{"BadSinceTimestamp", "SINCE(not-a-time)", 0, "", ErrRuleMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ParseRule(tt.spec)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rule.Type)
			assert.Equal(t, tt.wantArg, rule.Arg)
		})
	}
}

func TestRegisterRule(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.RegisterRule("dob", "DATE(YYYY-MM-DD)"))

	rule, ok := store.Rule("DOB")
	require.True(t, ok)
	assert.Equal(t, RuleDate, rule.Type)

	err := store.RegisterRule("x", "NOPE(1)")
	assert.ErrorIs(t, err, ErrUnknownRule)
	_, ok = store.Rule("x")
	assert.False(t, ok)
}

// =========================================================================
// Struct Registration Tests
// =========================================================================

type Customer struct {
	Name    string `db:"name"`
	Zip     string
	Ignored string `db:"-"`
	private int
}

func TestRecordName(t *testing.T) {
	assert.Equal(t, "CUSTOMERS", RecordName("Customer"))
	assert.Equal(t, "ORDERS", RecordName("Order"))
}

func TestRegisterStruct(t *testing.T) {
	store := NewStore()
	rec, err := store.RegisterStruct(Customer{Name: "Ada", Zip: "60601"})
	require.NoError(t, err)

	assert.Equal(t, "CUSTOMERS", rec.Name())
	assert.Equal(t, []string{"NAME", "ZIP"}, rec.Columns())

	name, _ := rec.Cell("NAME")
	assert.Equal(t, "Ada", name.String())

	_, err = store.RegisterStruct(42)
	assert.Error(t, err)
}
