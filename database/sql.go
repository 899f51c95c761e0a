package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sqlbind/sqlbind/schema"
)

// SqlConn implements Conn over database/sql for drivers outside the pgx
// stack. Placeholder style must match the driver; compile with the
// matching dialect.
type SqlConn struct {
	db   *sql.DB
	tx   *sql.Tx
	last Error
}

// NewSqlConn wraps an opened *sql.DB.
func NewSqlConn(db *sql.DB) *SqlConn {
	return &SqlConn{db: db}
}

// Prepare creates a driver-prepared statement so bad SQL is rejected at
// compile time.
func (c *SqlConn) Prepare(ctx context.Context, query string) (Stmt, error) {
	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, c.fail(err)
	}
	c.clear()
	return &sqlStmt{conn: c, stmt: stmt}, nil
}

// Commit closes the implicit transaction, if one is open.
func (c *SqlConn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		return c.fail(err)
	}
	c.clear()
	return nil
}

// Rollback discards the implicit transaction, if one is open.
func (c *SqlConn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback()
	c.tx = nil
	if err != nil {
		return c.fail(err)
	}
	c.clear()
	return nil
}

func (c *SqlConn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close rolls back any open transaction and closes the database handle.
func (c *SqlConn) Close(ctx context.Context) error {
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	return c.db.Close()
}

func (c *SqlConn) LastError() Error {
	return c.last
}

func (c *SqlConn) querier(ctx context.Context) (*sql.Tx, error) {
	if c.tx != nil {
		return c.tx, nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, c.fail(err)
	}
	c.tx = tx
	return tx, nil
}

func (c *SqlConn) fail(err error) error {
	c.last = Error{Text: err.Error()}
	return err
}

func (c *SqlConn) clear() {
	c.last = Error{}
}

// sqlStmt is one prepared statement on a SqlConn.
type sqlStmt struct {
	conn    *SqlConn
	stmt    *sql.Stmt
	inputs  []*schema.Cell
	outputs []*schema.Cell
	rows    *sql.Rows
}

func (s *sqlStmt) BindInput(pos int, cell *schema.Cell, size int) error {
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

func (s *sqlStmt) BindOutputs(cells []*schema.Cell) error {
	s.outputs = append(s.outputs[:0], cells...)
	return nil
}

func (s *sqlStmt) Execute(ctx context.Context) error {
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

	stmt := tx.StmtContext(ctx, s.stmt)
	if len(s.outputs) > 0 {
		rows, err := stmt.QueryContext(ctx, args...)
		if err != nil {
			return s.conn.fail(err)
		}
		s.rows = rows
	} else {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return s.conn.fail(err)
		}
	}
	s.conn.clear()
	return nil
}

func (s *sqlStmt) Fetch(ctx context.Context) (bool, error) {
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

func (s *sqlStmt) Close(ctx context.Context) error {
	if s.rows != nil {
		_ = s.rows.Close()
		s.rows = nil
	}
	return s.stmt.Close()
}

// Assert that SqlConn implements the Conn interface.
var _ Conn = (*SqlConn)(nil)
