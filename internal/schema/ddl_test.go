package schema

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestQuoteIdent verifies double-quote identifier quoting and escaping.
func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{in: "plays", want: `"plays"`},
		{in: "", want: `""`},
		{in: `weird"name`, want: `"weird""name"`},
	}
	for _, tt := range tests {
		if got := QuoteIdent(tt.in); got != tt.want {
			t.Errorf("QuoteIdent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  Table
		want string
	}{
		{
			name: "autoincrement key inline",
			def: table("costumesPlays", pk("costumePlayID"),
				serial("costumePlayID"), notNull("costumeID", "INTEGER"), col("note", "TEXT")),
			want: "CREATE TABLE IF NOT EXISTS \"costumesPlays\" (\n" +
				"  \"costumePlayID\" INTEGER PRIMARY KEY AUTOINCREMENT,\n" +
				"  \"costumeID\" INTEGER NOT NULL,\n" +
				"  \"note\" TEXT\n);",
		},
		{
			name: "composite key and foreign keys",
			def: withFKs(table("playworks", pk("playID", "workID"),
				notNull("playID", "INTEGER"), notNull("workID", "INTEGER")),
				ForeignKey{Columns: []string{"playID"}, RefTable: "plays", RefColumns: []string{"playID"}, OnDelete: "CASCADE"}),
			want: "CREATE TABLE IF NOT EXISTS \"playworks\" (\n" +
				"  \"playID\" INTEGER NOT NULL,\n" +
				"  \"workID\" INTEGER NOT NULL,\n" +
				"  PRIMARY KEY (\"playID\", \"workID\"),\n" +
				"  FOREIGN KEY (\"playID\") REFERENCES \"plays\" (\"playID\") ON DELETE CASCADE\n);",
		},
		{
			name: "no key",
			def:  table("producers", nil, notNull("playID", "INTEGER")),
			want: "CREATE TABLE IF NOT EXISTS \"producers\" (\n  \"playID\" INTEGER NOT NULL\n);",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.def.CreateSQL()
			if err != nil {
				t.Fatalf("CreateSQL: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("CreateSQL mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreateSQLErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  Table
	}{
		{name: "empty name", def: table(" ", nil, col("a", "TEXT"))},
		{name: "no columns", def: table("t", nil)},
		{name: "empty column name", def: table("t", nil, col("", "TEXT"))},
		{name: "missing type", def: table("t", nil, col("a", ""))},
		{name: "undeclared key", def: table("t", pk("b"), col("a", "TEXT"))},
	}
	for _, tt := range tests {
		if _, err := tt.def.CreateSQL(); err == nil {
			t.Errorf("%s: CreateSQL() error = nil", tt.name)
		}
	}
}

type recordingExecer struct {
	stmts  []string
	failOn string
}

func (r *recordingExecer) Exec(_ context.Context, q string) error {
	if r.failOn != "" && strings.Contains(q, r.failOn) {
		return errors.New("boom")
	}
	r.stmts = append(r.stmts, q)
	return nil
}

func TestBuild(t *testing.T) {
	t.Parallel()

	ex := &recordingExecer{}
	if err := Build(context.Background(), ex, Mini()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(ex.stmts) != len(Mini()) {
		t.Fatalf("executed %d statements, want %d", len(ex.stmts), len(Mini()))
	}
	for i, want := range []string{People, Works, Plays, PlayWorks, Authors, Actors} {
		if !strings.HasPrefix(ex.stmts[i], "CREATE TABLE IF NOT EXISTS "+QuoteIdent(want)) {
			t.Errorf("statement %d = %q, want table %s", i, ex.stmts[i], want)
		}
	}

	failing := &recordingExecer{failOn: `"works"`}
	err := Build(context.Background(), failing, Mini())
	if err == nil || !strings.Contains(err.Error(), "create works") {
		t.Fatalf("Build error = %v, want create works failure", err)
	}
}

func TestFaithfulTablesRender(t *testing.T) {
	t.Parallel()

	tables := Faithful()
	if len(tables) != 28 {
		t.Fatalf("Faithful() has %d tables, want 28", len(tables))
	}
	seen := map[string]bool{}
	for _, tb := range tables {
		if seen[tb.Name] {
			t.Errorf("duplicate table %s", tb.Name)
		}
		seen[tb.Name] = true
		if Ignored(tb.Name) {
			t.Errorf("faithful table %s is on the ignore list", tb.Name)
		}
		if _, err := tb.CreateSQL(); err != nil {
			t.Errorf("%s: %v", tb.Name, err)
		}
	}
}

func TestMiniReferencesPrecedeReferrers(t *testing.T) {
	t.Parallel()

	created := map[string]bool{}
	for _, tb := range Mini() {
		for _, fk := range tb.ForeignKeys {
			if !created[fk.RefTable] {
				t.Errorf("%s references %s before it is created", tb.Name, fk.RefTable)
			}
		}
		created[tb.Name] = true
	}
}

func TestIgnored(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"costumes", "cmsUsers", "tempTransPlays", "posters", "music"} {
		if !Ignored(name) {
			t.Errorf("Ignored(%q) = false", name)
		}
	}
	for _, name := range []string{"plays", "postersPlays", "musicPlaysWorks", "Costumes", ""} {
		if Ignored(name) {
			t.Errorf("Ignored(%q) = true", name)
		}
	}
	list := IgnoreList()
	if len(list) != len(ignored) {
		t.Fatalf("IgnoreList() len = %d, want %d", len(list), len(ignored))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1] >= list[i] {
			t.Fatalf("IgnoreList() not sorted at %d: %q >= %q", i, list[i-1], list[i])
		}
	}
}
