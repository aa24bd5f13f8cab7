// Package sqlite implements the SQLite-backed storage.Repository used for
// both the faithful and the mini store. It uses the pure-Go modernc.org/sqlite
// driver through database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ntdump/internal/schema"
	"ntdump/internal/storage"
)

const (
	// Kind is the storage registry key.
	Kind = "sqlite"
	// Memory is the path of a private in-memory database.
	Memory = ":memory:"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db   *sql.DB
	path string
}

var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return Open(ctx, cfg.DSN)
	})
}

// Open opens (creating if needed) the database at path with foreign keys
// enforced and a busy timeout. File databases use WAL so read-only
// distillation passes can share the file; Memory pins the pool to one
// connection since every connection would otherwise see its own database.
func Open(ctx context.Context, path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: path must not be empty")
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != Memory {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if path == Memory {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return &Repository{db: db, path: path}, nil
}

// DB exposes the underlying handle for readers and transactional writers.
func (r *Repository) DB() *sql.DB { return r.db }

// Path returns the path the repository was opened with.
func (r *Repository) Path() string { return r.path }

// Close implements storage.Repository.
func (r *Repository) Close() { _ = r.db.Close() }

// Exec executes a statement without arguments (typically DDL).
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// CopyFrom inserts rows into table inside a single transaction using one
// prepared statement. Any row error rolls back the whole call.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	n, err := InsertRows(ctx, tx, table, columns, rows)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return n, nil
}

// Preparer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// InsertRows inserts rows aligned to columns through one prepared statement
// on p, so callers can batch several tables into their own transaction.
func InsertRows(ctx context.Context, p Preparer, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: insert %s: columns must not be empty", table)
	}
	stmt, err := p.PrepareContext(ctx, InsertSQL(table, columns))
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert %s: %w", table, err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			return inserted, fmt.Errorf("sqlite: insert %s: row length %d != columns length %d", table, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return inserted, fmt.Errorf("sqlite: insert %s: %w", table, err)
		}
		inserted++
	}
	return inserted, nil
}

// InsertSQL renders INSERT INTO "t" ("a", "b") VALUES (?, ?).
func InsertSQL(table string, columns []string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(schema.QuoteIdent(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(schema.QuoteIdent(c))
	}
	b.WriteString(") VALUES (")
	for i := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('?')
	}
	b.WriteByte(')')
	return b.String()
}

// Count returns the number of rows in table.
func (r *Repository) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + schema.QuoteIdent(table)
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count %s: %w", table, err)
	}
	return n, nil
}
