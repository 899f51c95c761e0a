package database

import (
	"context"

	"github.com/sqlbind/sqlbind/schema"
)

// Conn is the external database connectivity layer as the engine consumes
// it: one logical connection owned by one session. Statements prepared on
// it run inside an implicit transaction that Commit/Rollback close.
type Conn interface {
	Prepare(ctx context.Context, sql string) (Stmt, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	// LastError returns the code and text of the most recent failure on
	// this connection, zero when the last operation succeeded.
	LastError() Error
}

// Stmt is one prepared statement handle. Input cells are registered
// per-position as in/out bindings before Execute; output cells, when
// registered, make Execute open a result set that Fetch advances, writing
// each row's column values into the cells in column order.
type Stmt interface {
	BindInput(pos int, cell *schema.Cell, size int) error
	BindOutputs(cells []*schema.Cell) error
	Execute(ctx context.Context) error
	Fetch(ctx context.Context) (bool, error)
	Close(ctx context.Context) error
}

// Error is an explicit last-error value: a vendor code (SQLSTATE for
// Postgres) plus message text, never ambient global state.
type Error struct {
	Code string
	Text string
}

// IsZero reports whether no error is held.
func (e Error) IsZero() bool {
	return e.Code == "" && e.Text == ""
}

func (e Error) Error() string {
	if e.Code == "" {
		return e.Text
	}
	return e.Code + ": " + e.Text
}
