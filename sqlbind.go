// Package sqlbind is a SQL-template compiler and parameter-binding engine.
// Callers write SQL text with embedded bind tokens (`:NAME` for input
// parameters, `;NAME` for output columns) that resolve against named
// records of storage cells. Compiling a template yields placeholder SQL
// plus ordered binding lists; executing it streams result rows directly
// into the resolved cells.
package sqlbind

import (
	"context"

	"github.com/sqlbind/sqlbind/connector"
	"github.com/sqlbind/sqlbind/engine"
)

type Config = connector.Config

// Connect builds the named provider's pool and wraps it in an engine.
// Sessions acquired from the engine each own an independent connection.
func Connect(ctx context.Context, provider string, cfg Config) (*engine.Engine, error) {
	conn, err := connector.New(provider, cfg)
	if err != nil {
		return nil, err
	}
	c, err := conn.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return engine.New(c), nil
}

// ConnectWithRetry is Connect with exponential-backoff retries.
func ConnectWithRetry(ctx context.Context, provider string, cfg Config, opts connector.RetryOptions) (*engine.Engine, error) {
	conn, err := connector.New(provider, cfg)
	if err != nil {
		return nil, err
	}
	c, err := conn.ConnectWithRetry(ctx, opts)
	if err != nil {
		return nil, err
	}
	return engine.New(c), nil
}
