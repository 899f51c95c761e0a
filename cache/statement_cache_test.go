package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlbind/sqlbind/template"
)

func TestKeyDistinguishesInputs(t *testing.T) {
	base := Key(1, "generic", "SELECT 1")

	assert.Equal(t, base, Key(1, "generic", "SELECT 1"))
	assert.NotEqual(t, base, Key(2, "generic", "SELECT 1"), "store version matters")
	assert.NotEqual(t, base, Key(1, "postgres", "SELECT 1"), "dialect matters")
	assert.NotEqual(t, base, Key(1, "generic", "SELECT 2"), "template matters")
}

func TestGetOrCompileCaches(t *testing.T) {
	c := NewStatementCache(4)
	calls := 0
	compile := func() (*template.Statement, error) {
		calls++
		return &template.Statement{SQL: "SELECT 1"}, nil
	}

	first, err := c.GetOrCompile(7, compile)
	require.NoError(t, err)
	second, err := c.GetOrCompile(7, compile)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrCompileDoesNotCacheFailures(t *testing.T) {
	c := NewStatementCache(4)
	boom := errors.New("boom")

	_, err := c.GetOrCompile(9, func() (*template.Statement, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	st, err := c.GetOrCompile(9, func() (*template.Statement, error) {
		return &template.Statement{SQL: "SELECT 2"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", st.SQL)
}

func TestLRUEviction(t *testing.T) {
	c := NewStatementCache(2)
	c.Add(1, &template.Statement{SQL: "A"})
	c.Add(2, &template.Statement{SQL: "B"})
	c.Add(3, &template.Statement{SQL: "C"})

	_, ok := c.Get(1)
	assert.False(t, ok, "oldest entry evicted")
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestPurge(t *testing.T) {
	c := NewStatementCache(2)
	c.Add(1, &template.Statement{SQL: "A"})
	c.Purge()
	_, ok := c.Get(1)
	assert.False(t, ok)
}
