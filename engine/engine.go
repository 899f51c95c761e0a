package engine

import (
	"context"

	"github.com/sqlbind/sqlbind/connector"
)

// Engine hands out sessions, each owning an independent connection from
// the connector's pool.
type Engine struct {
	conn connector.Connection
}

func New(conn connector.Connection) *Engine {
	return &Engine{conn: conn}
}

// Session acquires a dedicated connection and wraps it in a fresh session
// with its own record store.
func (e *Engine) Session(ctx context.Context) (*Session, error) {
	dbc, err := e.conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return NewSession(dbc, e.conn.Dialect()), nil
}

// Health pings the underlying pool.
func (e *Engine) Health(ctx context.Context) error {
	return e.conn.Health(ctx)
}

// Stats reports pool statistics.
func (e *Engine) Stats() connector.ConnectionStats {
	return e.conn.Stats()
}

// Close shuts the pool down. Sessions must be closed first.
func (e *Engine) Close() error {
	return e.conn.Close()
}
