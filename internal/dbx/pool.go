package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/licitacrm/licitacrm/internal/common"
)

// PoolConfig bounds the underlying database/sql pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Pool is the process-wide connection pool. It is created once at startup,
// handed to whoever needs the store and closed at shutdown.
//
// Connections are only ever borrowed through WithConn, which returns them to
// the pool on every exit path:
//
//	err := pool.WithConn(ctx, func(ctx context.Context, conn dbx.DBTX) error {
//	    _, err := conn.ExecContext(ctx, "DELETE FROM ...")
//	    return err
//	})
type Pool struct {
	db *sql.DB
}

// Open opens a pool for driverName/dsn and applies cfg. Zero values in cfg
// keep the database/sql defaults.
func Open(driverName, dsn string, cfg PoolConfig) (*Pool, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return NewPool(db), nil
}

// NewPool wraps an already opened *sql.DB.
func NewPool(db *sql.DB) *Pool {
	return &Pool{db: db}
}

// DB exposes the underlying handle for schema migrations.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// WithConn borrows a single connection for the duration of fn. The
// connection is released when fn returns, fails or panics. A failure to
// acquire is reported as common.ErrStoreUnavailable.
func (p *Pool) WithConn(ctx context.Context, fn func(ctx context.Context, conn DBTX) error) error {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire connection: %w", common.ErrStoreUnavailable, err)
	}
	defer conn.Close()

	return fn(ctx, conn)
}

// Ping checks that a connection can be established.
func (p *Pool) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	return nil
}

// Close drains the pool. Borrowed connections finish first.
func (p *Pool) Close() error {
	return p.db.Close()
}
