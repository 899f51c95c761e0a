package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sqlbind/sqlbind/database"
	"github.com/sqlbind/sqlbind/dialect"
)

// PostgresProvider builds pgx pools for the "postgres" provider name.
type PostgresProvider struct{}

func init() {
	Register("postgres", &PostgresProvider{})
}

func (p *PostgresProvider) Connect(ctx context.Context, cfg Config) (Connection, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	// Apply pool defaults
	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxIdle < 0 {
		cfg.Pool.MaxIdle = 5
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}
	if cfg.Pool.MaxIdleTime == 0 {
		cfg.Pool.MaxIdleTime = 30 * time.Minute
	}

	poolCfg, err := pgxpool.ParseConfig(buildPostgresDSN(cfg))
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(cfg.Pool.MaxIdle)
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	return &postgresConnection{pool: pool, dialect: dialect.NewPostgresDialect()}, nil
}

func (p *PostgresProvider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

func (p *PostgresProvider) HealthCheck(ctx context.Context, conn Connection) error {
	return conn.Health(ctx)
}

func buildPostgresDSN(cfg Config) string {
	return NewDSNBuilder("postgres").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, cfg.Port).
		Database(cfg.Database).
		Param("sslmode", cfg.SSLMode).
		Params(cfg.Params).
		Build()
}

// postgresConnection is an established pgx pool.
type postgresConnection struct {
	pool    *pgxpool.Pool
	dialect dialect.Dialect
}

// Acquire hands out a dedicated connection for one session.
func (c *postgresConnection) Acquire(ctx context.Context) (database.Conn, error) {
	return database.NewPgxConn(ctx, c.pool)
}

func (c *postgresConnection) Dialect() dialect.Dialect {
	return c.dialect
}

func (c *postgresConnection) Health(ctx context.Context) error {
	if c.pool == nil {
		return fmt.Errorf("not connected")
	}
	return c.pool.Ping(ctx)
}

func (c *postgresConnection) Stats() ConnectionStats {
	if c.pool == nil {
		return ConnectionStats{}
	}
	s := c.pool.Stat()
	return ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
		MaxConnections:  int(s.MaxConns()),
	}
}

func (c *postgresConnection) Close() error {
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
	return nil
}

// Assert the provider satisfies the registry contract.
var _ Provider = (*PostgresProvider)(nil)
