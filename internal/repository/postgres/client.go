// Package postgres implements the store side of the query engine: it renders
// predicate ASTs to parameterized SQL and executes them on a bounded
// connection pool. This is the only package that produces query text.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"
)

// Config holds connection parameters for the Postgres client.
type Config struct {
	DSN             string
	Table           string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
}

// Client wraps the shared *sql.DB pool with the table name and the
// per-statement deadline every repository in this package applies.
type Client struct {
	db      *sql.DB
	table   string
	timeout time.Duration
}

// NewClient opens the connection pool. The pool is bounded; connections are
// acquired and released per statement by database/sql on every exit path.
func NewClient(cfg Config) (*Client, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	if cfg.Table == "" {
		return nil, fmt.Errorf("table is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{db: db, table: cfg.Table, timeout: timeout}, nil
}

// WaitForReady pings the database until it responds or the timeout elapses.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		lastErr = c.db.PingContext(pingCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("database not ready after %s: %w", timeout, lastErr)
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.queryContext(ctx)
	defer cancel()
	if err := c.db.PingContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// Close shuts down the pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// queryContext derives the per-statement deadline from the request context.
func (c *Client) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}
