package connector

import (
	"context"

	"github.com/sqlbind/sqlbind/database"
	"github.com/sqlbind/sqlbind/dialect"
)

// Connection is an established pool. Sessions call Acquire to get the
// dedicated connection they own for their statement lifecycle.
type Connection interface {
	Acquire(ctx context.Context) (database.Conn, error)
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

type Connector interface {
	Connect(ctx context.Context) (Connection, error)
	ConnectWithRetry(ctx context.Context, opts RetryOptions) (Connection, error)
	Close() error
}
