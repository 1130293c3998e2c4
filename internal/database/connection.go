/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Opener opens a database handle for a connection URI. Tools receive one so
// tests can substitute a mock database.
type Opener func(ctx context.Context, uri string, opts Options) (*sqlx.DB, error)

// Open opens and pings a database for the given URI. The caller owns the
// handle and must Close it on every exit path.
func Open(ctx context.Context, uri string, opts Options) (*sqlx.DB, error) {
	startTime := time.Now()

	driverName, dsn, err := DSNFromURI(uri, opts)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		LogConnection(uri, time.Since(startTime), err)
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	opts.applyPool(db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		LogConnection(uri, time.Since(startTime), err)
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	LogConnection(uri, time.Since(startTime), nil)
	return db, nil
}
