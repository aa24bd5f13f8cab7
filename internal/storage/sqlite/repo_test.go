package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ntdump/internal/schema"
	"ntdump/internal/storage"
)

/*
Package-level test helpers (TB-aware)
*/

func newRepo(tb testing.TB) *Repository {
	tb.Helper()
	r, err := Open(context.Background(), Memory)
	if err != nil {
		tb.Fatalf("open sqlite :memory:: %v", err)
	}
	tb.Cleanup(r.Close)
	return r
}

func mustExec(tb testing.TB, r *Repository, stmt string) {
	tb.Helper()
	if err := r.Exec(context.Background(), stmt); err != nil {
		tb.Fatalf("exec %q: %v", stmt, err)
	}
}

/*
Unit tests
*/

func TestOpenRejectsEmptyPath(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), "  "); err == nil {
		t.Fatal("Open(\"  \") error = nil")
	}
}

// TestBuildSchemas applies both fixed schemas to a real database, which
// catches DDL the renderer accepts but SQLite does not.
func TestBuildSchemas(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for name, tables := range map[string][]schema.Table{"faithful": schema.Faithful(), "mini": schema.Mini()} {
		r := newRepo(t)
		if err := schema.Build(ctx, r, tables); err != nil {
			t.Fatalf("%s: Build: %v", name, err)
		}
		// Rebuilding is a no-op.
		if err := schema.Build(ctx, r, tables); err != nil {
			t.Fatalf("%s: second Build: %v", name, err)
		}
		var n int
		if err := r.DB().QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`).Scan(&n); err != nil {
			t.Fatalf("%s: count tables: %v", name, err)
		}
		if n != len(tables) {
			t.Fatalf("%s: %d tables, want %d", name, n, len(tables))
		}
	}
}

func TestCopyFromAndCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRepo(t)
	mustExec(t, r, `CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)`)

	n, err := r.CopyFrom(ctx, "t", []string{"id", "name"}, [][]any{{1, "α"}, {2, nil}})
	if err != nil || n != 2 {
		t.Fatalf("CopyFrom = (%d, %v), want (2, nil)", n, err)
	}
	if c, err := r.Count(ctx, "t"); err != nil || c != 2 {
		t.Fatalf("Count = (%d, %v), want (2, nil)", c, err)
	}

	// A duplicate key rolls back the whole call.
	if _, err := r.CopyFrom(ctx, "t", []string{"id", "name"}, [][]any{{3, "γ"}, {1, "dup"}}); err == nil {
		t.Fatal("CopyFrom with duplicate key error = nil")
	}
	if c, _ := r.Count(ctx, "t"); c != 2 {
		t.Fatalf("Count after failed CopyFrom = %d, want 2", c)
	}

	if _, err := r.CopyFrom(ctx, "t", []string{"id", "name"}, [][]any{{4}}); err == nil ||
		!strings.Contains(err.Error(), "row length") {
		t.Fatalf("short row error = %v", err)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRepo(t)
	if err := schema.Build(ctx, r, schema.Mini()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err := r.CopyFrom(ctx, schema.PlayWorks, []string{"playID", "workID"}, [][]any{{1, 1}})
	if err == nil {
		t.Fatal("playworks row without parents was accepted")
	}
}

func TestInsertSQL(t *testing.T) {
	t.Parallel()

	got := InsertSQL("plays", []string{"playID", "playTitle"})
	want := `INSERT INTO "plays" ("playID", "playTitle") VALUES (?, ?)`
	if got != want {
		t.Fatalf("InsertSQL = %q, want %q", got, want)
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	load := func(rows [][]any) uint64 {
		r := newRepo(t)
		mustExec(t, r, `CREATE TABLE t (id INTEGER PRIMARY KEY, a TEXT, b REAL)`)
		if _, err := r.CopyFrom(ctx, "t", []string{"id", "a", "b"}, rows); err != nil {
			t.Fatalf("CopyFrom: %v", err)
		}
		fp, err := r.Fingerprint(ctx, "t", []string{"id"})
		if err != nil {
			t.Fatalf("Fingerprint: %v", err)
		}
		return fp
	}

	base := load([][]any{{1, "x", 1.5}, {2, nil, nil}})
	if again := load([][]any{{2, nil, nil}, {1, "x", 1.5}}); again != base {
		t.Fatalf("insertion order changed fingerprint: %x != %x", again, base)
	}
	if other := load([][]any{{1, "x", 1.5}, {2, "", nil}}); other == base {
		t.Fatal("NULL and empty string hash the same")
	}
	if split := load([][]any{{1, "xy", nil}, {2, nil, nil}}); split == base {
		t.Fatal("different rows hash the same")
	}
}

func TestRegisteredFactory(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "out.sqlite")
	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: p})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	defer repo.Close()
	if err := repo.Exec(context.Background(), "CREATE TABLE x (a INTEGER)"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
}

// TestBackupAndReplace_KeepsUncheckpointedRows backs up a store while its
// rows still sit in the WAL, as after a crash, and reads them back.
func TestBackupAndReplace_KeepsUncheckpointedRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "minimal_nt.db")
	r, err := Open(ctx, p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	mustExec(t, r, `CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)`)
	if _, err := r.CopyFrom(ctx, "t", []string{"id", "name"}, [][]any{{1, "α"}, {2, "β"}, {3, "γ"}}); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if _, err := os.Stat(p + "-wal"); err != nil {
		t.Fatalf("expected a live WAL: %v", err)
	}

	backup, err := storage.BackupAndReplace(p)
	r.Close()
	if err != nil {
		t.Fatalf("BackupAndReplace: %v", err)
	}

	b, err := Open(ctx, backup)
	if err != nil {
		t.Fatalf("Open backup: %v", err)
	}
	defer b.Close()
	if n, err := b.Count(ctx, "t"); err != nil || n != 3 {
		t.Fatalf("backup rows = (%d, %v), want 3", n, err)
	}
}

func BenchmarkCopyFrom(b *testing.B) {
	ctx := context.Background()
	r := newRepo(b)
	mustExec(b, r, `CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)`)
	rows := make([][]any, 1000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := range rows {
			rows[j] = []any{i*len(rows) + j, "όνομα"}
		}
		if _, err := r.CopyFrom(ctx, "t", []string{"id", "name"}, rows); err != nil {
			b.Fatal(err)
		}
	}
}
