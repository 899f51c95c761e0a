package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sqlbind/sqlbind/schema"
)

// PgxConn implements Conn over one connection acquired from a pgx pool.
// Sessions never share a PgxConn: statement handles and the implicit
// transaction are connection-scoped.
type PgxConn struct {
	conn   *pgxpool.Conn
	tx     pgx.Tx
	last   Error
	nstmts int
}

// NewPgxConn acquires a dedicated connection from the pool.
func NewPgxConn(ctx context.Context, pool *pgxpool.Pool) (*PgxConn, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &PgxConn{conn: conn}, nil
}

// Prepare registers the SQL server-side so malformed statements are
// rejected at compile time, not first execute.
func (c *PgxConn) Prepare(ctx context.Context, sql string) (Stmt, error) {
	c.nstmts++
	name := "sqlbind_" + strconv.Itoa(c.nstmts)
	if _, err := c.conn.Conn().Prepare(ctx, name, sql); err != nil {
		return nil, c.fail(err)
	}
	c.clear()
	return &pgxStmt{conn: c, name: name}, nil
}

// Commit closes the implicit transaction, if one is open.
func (c *PgxConn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit(ctx)
	c.tx = nil
	if err != nil {
		return c.fail(err)
	}
	c.clear()
	return nil
}

// Rollback discards the implicit transaction, if one is open.
func (c *PgxConn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback(ctx)
	c.tx = nil
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return c.fail(err)
	}
	c.clear()
	return nil
}

func (c *PgxConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close rolls back any open transaction and releases the connection back
// to the pool.
func (c *PgxConn) Close(ctx context.Context) error {
	if c.tx != nil {
		_ = c.tx.Rollback(ctx)
		c.tx = nil
	}
	c.conn.Release()
	return nil
}

func (c *PgxConn) LastError() Error {
	return c.last
}

// querier returns the implicit transaction, opening it on first use.
func (c *PgxConn) querier(ctx context.Context) (pgx.Tx, error) {
	if c.tx != nil {
		return c.tx, nil
	}
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return nil, c.fail(err)
	}
	c.tx = tx
	return tx, nil
}

func (c *PgxConn) fail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		c.last = Error{Code: pgErr.Code, Text: pgErr.Message}
	} else {
		c.last = Error{Text: err.Error()}
	}
	return err
}

func (c *PgxConn) clear() {
	c.last = Error{}
}

// pgxStmt is one server-prepared statement on a PgxConn.
type pgxStmt struct {
	conn    *PgxConn
	name    string
	inputs  []*schema.Cell
	outputs []*schema.Cell
	rows    pgx.Rows
}

func (s *pgxStmt) BindInput(pos int, cell *schema.Cell, size int) error {
	if pos < 1 {
		return fmt.Errorf("bind position %d out of range", pos)
	}
	if cell == nil {
		return fmt.Errorf("bind position %d: nil cell", pos)
	}
	for len(s.inputs) < pos {
		s.inputs = append(s.inputs, nil)
	}
	s.inputs[pos-1] = cell
	return nil
}

func (s *pgxStmt) BindOutputs(cells []*schema.Cell) error {
	s.outputs = append(s.outputs[:0], cells...)
	return nil
}

// Execute runs the statement inside the implicit transaction. With output
// cells registered it opens a result set for Fetch; otherwise it executes
// to completion.
func (s *pgxStmt) Execute(ctx context.Context) error {
	tx, err := s.conn.querier(ctx)
	if err != nil {
		return err
	}
	args := make([]any, len(s.inputs))
	for i, cell := range s.inputs {
		if cell == nil {
			return fmt.Errorf("bind position %d unbound", i+1)
		}
		v, err := cell.DriverValue()
		if err != nil {
			return err
		}
		args[i] = v
	}

	if len(s.outputs) > 0 {
		rows, err := tx.Query(ctx, s.name, args...)
		if err != nil {
			return s.conn.fail(err)
		}
		s.rows = rows
	} else {
		if _, err := tx.Exec(ctx, s.name, args...); err != nil {
			return s.conn.fail(err)
		}
	}
	s.conn.clear()
	return nil
}

// Fetch advances the result set one row, scanning column values into the
// registered output cells in column order.
func (s *pgxStmt) Fetch(ctx context.Context) (bool, error) {
	if s.rows == nil {
		return false, fmt.Errorf("no result set open")
	}
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return false, s.conn.fail(err)
		}
		return false, nil
	}
	dest := make([]any, len(s.outputs))
	for i, cell := range s.outputs {
		dest[i] = cell
	}
	if err := s.rows.Scan(dest...); err != nil {
		return false, s.conn.fail(err)
	}
	return true, nil
}

// Close releases the result set and deallocates the server statement.
func (s *pgxStmt) Close(ctx context.Context) error {
	if s.rows != nil {
		s.rows.Close()
		s.rows = nil
	}
	return s.conn.conn.Conn().Deallocate(ctx, s.name)
}

// Assert that PgxConn implements the Conn interface.
var _ Conn = (*PgxConn)(nil)
