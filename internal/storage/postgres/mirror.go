package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ntdump/internal/schema"
	"ntdump/internal/storage"
)

// Mirror republishes tables from src (the mini store) into schemaName on the
// Postgres server at dsn. The repository is opened through the storage
// registry. The schema is created if missing; each table is dropped,
// recreated and bulk-copied inside one transaction, so readers see either
// the previous mirror or the complete new one.
//
// It returns the number of rows copied per table.
func Mirror(ctx context.Context, dsn, schemaName string, src *sql.DB, tables []schema.Table, log *zap.Logger) (map[string]int64, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(schemaName) == "" {
		schemaName = "public"
	}

	repo, err := storage.New(ctx, storage.Config{Kind: Kind, DSN: dsn})
	if err != nil {
		return nil, err
	}
	defer repo.Close()
	pg, ok := repo.(txRepository)
	if !ok {
		return nil, fmt.Errorf("postgres: backend %T does not support transactions", repo)
	}

	stmts, err := mirrorDDL(schemaName, tables)
	if err != nil {
		return nil, err
	}

	copied := make(map[string]int64, len(tables))
	err = pg.WithTx(ctx, func(tx *Repository) error {
		for _, s := range stmts {
			if err := tx.Exec(ctx, s); err != nil {
				return err
			}
		}
		for _, t := range tables {
			start := time.Now()
			rows, err := readTable(ctx, src, t)
			if err != nil {
				return err
			}
			n, err := tx.CopyFrom(ctx, schemaName+"."+t.Name, t.ColumnNames(), rows)
			if err != nil {
				return err
			}
			copied[t.Name] = n
			log.Info("mirror: table copied",
				zap.String("schema", schemaName),
				zap.String("table", t.Name),
				zap.Int64("rows", n),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

// mirrorDDL returns the statements that reset schemaName to empty copies of
// tables: tables are dropped referrers first and created referenced first.
// search_path is set for the transaction so the shared CREATE TABLE renderer
// (unqualified names, REFERENCES clauses) resolves inside the mirror schema.
func mirrorDDL(schemaName string, tables []schema.Table) ([]string, error) {
	out := []string{
		"CREATE SCHEMA IF NOT EXISTS " + pgIdent(schemaName),
		"SET LOCAL search_path TO " + pgIdent(schemaName),
	}
	for i := len(tables) - 1; i >= 0; i-- {
		out = append(out, "DROP TABLE IF EXISTS "+pgIdent(schemaName)+"."+pgIdent(tables[i].Name)+" CASCADE")
	}
	for _, t := range tables {
		s, err := t.CreateSQL()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// readTable loads every row of t from src in primary-key order.
func readTable(ctx context.Context, src *sql.DB, t schema.Table) ([][]any, error) {
	cols := t.ColumnNames()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = schema.QuoteIdent(c)
	}
	q := "SELECT " + strings.Join(quoted, ", ") + " FROM " + schema.QuoteIdent(t.Name)
	if len(t.PrimaryKey) > 0 {
		keys := make([]string, len(t.PrimaryKey))
		for i, k := range t.PrimaryKey {
			keys[i] = schema.QuoteIdent(k)
		}
		q += " ORDER BY " + strings.Join(keys, ", ")
	}

	rows, err := src.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: read %s: %w", t.Name, err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("postgres: read %s: %w", t.Name, err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: read %s: %w", t.Name, err)
	}
	return out, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
