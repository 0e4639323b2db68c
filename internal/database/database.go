// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"golang.org/x/sync/singleflight"

	"github.com/virginiais4lovers/bestskrellerz/internal/config"
	"github.com/virginiais4lovers/bestskrellerz/internal/logging"
	"github.com/virginiais4lovers/bestskrellerz/internal/metrics"
)

// DB provides data access over a lazily-opened DuckDB/MotherDuck
// connection. The zero of most fields is usable; construct with New.
type DB struct {
	cfg *config.DatabaseConfig

	mu     sync.RWMutex
	conn   *sql.DB
	closed bool

	// connect coalesces concurrent connection attempts so exactly one
	// dial runs no matter how many requests arrive first.
	connect singleflight.Group
}

// New creates a DB handle. No connection is opened until the first
// query (or an explicit Connect call). This lets the server start and
// serve health endpoints even when the database is unreachable or
// unconfigured.
func New(cfg *config.DatabaseConfig) *DB {
	return &DB{cfg: cfg}
}

// Connect opens the database connection if it is not already open.
// Concurrent callers share a single dial attempt. A configuration
// problem returns ErrConfiguration and is not cached, so a later call
// can succeed once the environment is fixed.
func (db *DB) Connect(ctx context.Context) (*sql.DB, error) {
	db.mu.RLock()
	if db.closed {
		db.mu.RUnlock()
		return nil, ErrClosed
	}
	if db.conn != nil {
		conn := db.conn
		db.mu.RUnlock()
		return conn, nil
	}
	db.mu.RUnlock()

	v, err, _ := db.connect.Do("connect", func() (interface{}, error) {
		// Re-check: another caller may have finished while we queued.
		db.mu.RLock()
		if db.conn != nil {
			conn := db.conn
			db.mu.RUnlock()
			return conn, nil
		}
		db.mu.RUnlock()

		conn, err := db.open(ctx)
		if err != nil {
			return nil, err
		}

		db.mu.Lock()
		if db.closed {
			db.mu.Unlock()
			closeQuietly(conn)
			return nil, ErrClosed
		}
		db.conn = conn
		db.mu.Unlock()
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sql.DB), nil
}

// open dials DuckDB, configures the pool, and initializes the schema.
func (db *DB) open(ctx context.Context) (*sql.DB, error) {
	dsn, err := db.dsn()
	if err != nil {
		metrics.DBConnectAttempts.WithLabelValues("config_error").Inc()
		return nil, err
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		metrics.DBConnectAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// DuckDB is an in-process engine; a single connection avoids
	// catalog contention between pooled handles.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		metrics.DBConnectAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if err := initSchema(ctx, conn); err != nil {
		closeQuietly(conn)
		metrics.DBConnectAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	metrics.DBConnectAttempts.WithLabelValues("success").Inc()
	logging.Info().
		Str("database", db.cfg.Database).
		Bool("local", db.cfg.Path != "").
		Msg("Database connection established")

	return conn, nil
}

// dsn builds the DuckDB connection string. A configured Path (including
// ":memory:") takes precedence over MotherDuck; otherwise the token is
// required.
func (db *DB) dsn() (string, error) {
	if db.cfg.Path != "" {
		numThreads := db.cfg.Threads
		if numThreads <= 0 {
			numThreads = runtime.NumCPU()
		}
		sep := "?"
		if strings.Contains(db.cfg.Path, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%sthreads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
			db.cfg.Path, sep, numThreads, db.cfg.MaxMemory), nil
	}

	if db.cfg.Token == "" {
		return "", fmt.Errorf("%w: MOTHERDUCK_TOKEN is not set", ErrConfiguration)
	}

	name := db.cfg.Database
	if name == "" {
		name = "nyt_bestsellers"
	}
	return fmt.Sprintf("md:%s?motherduck_token=%s", name, db.cfg.Token), nil
}

// Ping reports whether the database is reachable, connecting if needed.
func (db *DB) Ping(ctx context.Context) error {
	conn, err := db.Connect(ctx)
	if err != nil {
		return err
	}
	return conn.PingContext(ctx)
}

// Connected reports whether a connection is currently open, without
// triggering a dial.
func (db *DB) Connected() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.conn != nil
}

// Close closes the database connection. A CHECKPOINT is attempted first
// to flush the WAL for local database files.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.closed = true
	if db.conn == nil {
		return nil
	}

	if db.cfg.Path != "" && db.cfg.Path != ":memory:" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}

	err := db.conn.Close()
	db.conn = nil
	return err
}

// closeQuietly closes a connection, logging any error.
func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close database connection")
	}
}

// timeQuery records a query duration metric. Use with defer:
//
//	defer timeQuery("select", "rankings", time.Now(), &err)
func timeQuery(operation, table string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}
