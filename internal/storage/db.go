// Package storage persists users, sessions, transactions and budgets in a
// relational store. Every query is scoped by user id and every mutation is a
// single statement or a single database transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"finance-tracker/internal/log"

	// Database drivers
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported dialects.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Options configures Open.
type Options struct {
	Driver string
	DSN    string
	Logger *log.Logger
}

// DB wraps a sql.DB connection.
type DB struct {
	conn    *sql.DB
	dialect string
	log     *log.Logger
	now     func() time.Time
}

// NewDB opens a SQLite database at path and runs migrations.
func NewDB(path string) (*DB, error) {
	return Open(context.Background(), Options{Driver: SQLite, DSN: path})
}

// Open connects to the store, verifies it is reachable and runs migrations.
func Open(ctx context.Context, opts Options) (*DB, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	var (
		conn *sql.DB
		err  error
	)
	switch opts.Driver {
	case SQLite, "":
		opts.Driver = SQLite
		conn, err = openSQLite(opts.DSN)
	case Postgres:
		conn, err = sql.Open("postgres", opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, &Error{Op: "ping", Err: err}
	}

	db := &DB{conn: conn, dialect: opts.Driver, log: logger, now: time.Now}
	if err := db.migrate(opts.DSN); err != nil {
		conn.Close()
		return nil, &Error{Op: "migrate", Err: err}
	}

	logger.Debug("Store ready", log.FieldStore, opts.Driver)
	return db, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}
	memory := strings.HasPrefix(path, ":memory:") || strings.Contains(path, "mode=memory")
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		if !memory {
			dsn += "&_pragma=journal_mode(WAL)"
		}
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite has a single writer, and each connection to :memory: is a separate
	// database, so the pool is pinned to one connection.
	conn.SetMaxOpenConns(1)
	return conn, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return &Error{Op: "ping", Err: err}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (db *DB) rebind(query string) string {
	if db.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, db.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, db.rebind(query), args...)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn inside a database transaction, committing when fn returns nil.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (db *DB) timestamp() time.Time {
	return db.now().UTC()
}
