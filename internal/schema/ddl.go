// Package schema holds the fixed table definitions of the two derived stores
// and renders them as CREATE TABLE statements.
//
// The faithful schema is a hand-curated subset of the archive's SQL Server
// schema; tables on the ignore list are never created or loaded. The mini
// schema is the denormalized, public-facing projection.
package schema

import (
	"context"
	"fmt"
	"strings"
)

// Column describes one column of a table.
type Column struct {
	Name    string
	Type    string
	NotNull bool
	// AutoIncrement is honoured only on a single-column INTEGER primary key.
	AutoIncrement bool
}

// ForeignKey is a table-level REFERENCES constraint.
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   string // "CASCADE", "NO ACTION", ...
}

// Table is a table definition.
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Column returns the named column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// CreateSQL renders an idempotent CREATE TABLE statement:
//
//	CREATE TABLE IF NOT EXISTS "plays" (
//	  "playID" INTEGER NOT NULL,
//	  ...
//	  PRIMARY KEY ("playID")
//	);
//
// A single-column primary key marked AutoIncrement is rendered inline as
// INTEGER PRIMARY KEY AUTOINCREMENT, which SQLite requires.
func (t Table) CreateSQL() (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("schema: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("schema: table %s has no columns", name)
	}

	inlinePK := ""
	if len(t.PrimaryKey) == 1 {
		if c, ok := t.Column(t.PrimaryKey[0]); ok && c.AutoIncrement {
			inlinePK = c.Name
		}
	}

	defs := make([]string, 0, len(t.Columns)+1+len(t.ForeignKeys))
	for _, c := range t.Columns {
		cname := strings.TrimSpace(c.Name)
		if cname == "" {
			return "", fmt.Errorf("schema: column with empty name in table %s", name)
		}
		typ := strings.TrimSpace(c.Type)
		if typ == "" {
			return "", fmt.Errorf("schema: column %s.%s missing type", name, cname)
		}
		var sb strings.Builder
		sb.WriteString(QuoteIdent(cname))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if cname == inlinePK {
			sb.WriteString(" PRIMARY KEY AUTOINCREMENT")
		} else if c.NotNull {
			sb.WriteString(" NOT NULL")
		}
		defs = append(defs, sb.String())
	}
	for _, pk := range t.PrimaryKey {
		if _, ok := t.Column(pk); !ok {
			return "", fmt.Errorf("schema: primary key column %s.%s not declared", name, pk)
		}
	}
	if len(t.PrimaryKey) > 0 && inlinePK == "" {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", quoteList(t.PrimaryKey)))
	}
	for _, fk := range t.ForeignKeys {
		s := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
			quoteList(fk.Columns), QuoteIdent(fk.RefTable), quoteList(fk.RefColumns))
		if fk.OnDelete != "" {
			s += " ON DELETE " + fk.OnDelete
		}
		defs = append(defs, s)
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		QuoteIdent(name), strings.Join(defs, ",\n  ")), nil
}

// Execer is the slice of database/sql (or a storage.Repository) needed to
// apply DDL.
type Execer interface {
	Exec(ctx context.Context, query string) error
}

// Build creates every table in order. It is safe to run against a store that
// already has the tables.
func Build(ctx context.Context, db Execer, tables []Table) error {
	for _, t := range tables {
		stmt, err := t.CreateSQL()
		if err != nil {
			return err
		}
		if err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema: create %s: %w", t.Name, err)
		}
	}
	return nil
}

// QuoteIdent double-quotes an identifier.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func quoteList(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = QuoteIdent(id)
	}
	return strings.Join(out, ", ")
}

// Index maps table names to definitions.
func Index(tables []Table) map[string]Table {
	m := make(map[string]Table, len(tables))
	for _, t := range tables {
		m[t.Name] = t
	}
	return m
}
