package main

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"ntdump/internal/config"
	"ntdump/internal/dump"
	"ntdump/internal/storage"
	"ntdump/internal/storage/sqlite"
)

const created = "CAST(N'2020-01-01T00:00:00.000' AS DateTime)"

var sampleDump = strings.Join([]string{
	"SET IDENTITY_INSERT [dbo].[people] ON",
	"INSERT [dbo].[people] ([personID], [personName], [created], [published]) VALUES (1, N'Κουν, Κάρολος', " + created + ", 1)",
	"GO",
	"INSERT [dbo].[plays] ([playID], [playTitle], [created], [published]) VALUES (7, N'Όρνιθες#Οι', " + created + ", 1)",
	"INSERT [dbo].[contributors] ([contributorsID], [playID], [personID], [contributorRank], [contributorType], [created]) VALUES (1, 7, 1, 1, N'Σκηνοθεσία', " + created + ")",
	"INSERT [dbo].[actors] ([actorID], [playID], [personID], [actorRank], [actorRole], [created]) VALUES (1, 7, 1, 1, N'Πεισθέταιρος', " + created + ")",
	"INSERT [dbo].[cmslogs] ([logID]) VALUES (1)",
	"INSERT [dbo].[nosuch] ([a]) VALUES (1)",
	"",
}, "\n")

// execute runs the CLI with a silent logger.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&rootOptions{log: zap.NewNop()})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

type workspace struct {
	dump, faithful, mini string
}

func newWorkspace(t *testing.T, dumpText string) workspace {
	t.Helper()
	dir := t.TempDir()
	ws := workspace{
		dump:     filepath.Join(dir, "nt.sql"),
		faithful: filepath.Join(dir, "converted_db.sqlite"),
		mini:     filepath.Join(dir, "minimal_nt.db"),
	}
	if err := os.WriteFile(ws.dump, []byte(dumpText), 0o644); err != nil {
		t.Fatal(err)
	}
	return ws
}

// args returns cmd with the workspace paths, passing only the flags cmd
// registers: convert knows nothing about the mini store and distill
// nothing about the dump.
func (ws workspace) args(cmd string) []string {
	out := []string{cmd, "--faithful", ws.faithful}
	if cmd != "distill" {
		out = append(out, "--dump", ws.dump, "--encoding", "utf-8")
	}
	if cmd != "convert" {
		out = append(out, "--mini", ws.mini)
	}
	return out
}

func count(t *testing.T, path, table string) int64 {
	t.Helper()
	repo, err := sqlite.Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	n, err := repo.Count(context.Background(), table)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand(&rootOptions{})
	for _, name := range []string{"convert", "distill", "run", "validate"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, sub, err)
		}
	}
	if f := cmd.PersistentFlags().Lookup("verbose"); f == nil || f.Shorthand != "v" {
		t.Error("missing --verbose/-v")
	}
}

func TestSubcommands_AcceptWorkspaceFlags(t *testing.T) {
	t.Parallel()

	ws := workspace{dump: "nt.sql", faithful: "f.sqlite", mini: "m.db"}
	for _, name := range []string{"convert", "distill", "run", "validate"} {
		sub, rest, err := newRootCommand(&rootOptions{}).Find(ws.args(name))
		if err != nil {
			t.Fatalf("Find(%q) error = %v", name, err)
		}
		if err := sub.ParseFlags(rest); err != nil {
			t.Errorf("%s rejects %v: %v", name, rest, err)
		}
	}
	convert, _, _ := newRootCommand(&rootOptions{}).Find([]string{"convert"})
	if err := convert.ParseFlags([]string{"--mini", "m.db"}); err == nil {
		t.Error("convert accepted --mini")
	}
}

func TestRunCLI_FlushesAfterFailure(t *testing.T) {
	t.Parallel()

	flushed := 0
	opts := &rootOptions{log: zap.NewNop(), flush: func() { flushed++ }}
	missing := filepath.Join(t.TempDir(), "absent.sql")
	err := runCLI(context.Background(), opts, []string{"convert", "--dump", missing, "--encoding", "utf-8"})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("convert error = %v, want missing dump", err)
	}
	if flushed != 1 {
		t.Fatalf("flush calls = %d, want 1", flushed)
	}

	flushed = 0
	if err := runCLI(context.Background(), opts, []string{"validate", "--encoding", "klingon"}); exitCode(err) != exitConfig {
		t.Fatalf("validate error = %v, want config error", err)
	}
	if flushed != 1 {
		t.Fatalf("flush calls after config error = %d, want 1", flushed)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, sampleDump)
	if _, err := execute(t, ws.args("run")...); err != nil {
		t.Fatalf("run error = %v", err)
	}

	for table, want := range map[string]int64{"people": 1, "plays": 1, "contributors": 1, "actors": 1} {
		if got := count(t, ws.faithful, table); got != want {
			t.Errorf("faithful %s = %d, want %d", table, got, want)
		}
	}

	repo, err := sqlite.Open(context.Background(), ws.mini)
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	var (
		title    string
		director int64
		name     string
	)
	row := repo.DB().QueryRow(`SELECT p.playTitle, p.directorID, pe.personName
		FROM plays p JOIN actors a ON a.playID = p.playID JOIN people pe ON pe.personID = a.personID`)
	if err := row.Scan(&title, &director, &name); err != nil {
		t.Fatalf("query mini: %v", err)
	}
	if title != "Οι Όρνιθες" || director != 1 || name != "Κάρολος Κουν" {
		t.Fatalf("mini row = %q, %d, %q", title, director, name)
	}
}

func TestConvert_RerunKeepsBackup(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, sampleDump)
	for i := 0; i < 2; i++ {
		if _, err := execute(t, ws.args("convert")...); err != nil {
			t.Fatalf("convert #%d error = %v", i+1, err)
		}
	}
	if _, err := os.Stat(ws.faithful + storage.BackupSuffix); err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if got := count(t, ws.faithful, "people"); got != 1 {
		t.Fatalf("people after rerun = %d, want 1", got)
	}
}

func TestConvert_FailuresCSV(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, sampleDump)
	csvPath := filepath.Join(filepath.Dir(ws.dump), "failures.csv")
	if _, err := execute(t, append(ws.args("convert"), "--failures", csvPath)...); err != nil {
		t.Fatalf("convert error = %v", err)
	}
	b, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "nosuch,8,") {
		t.Fatalf("failures csv = %q", b)
	}
}

func TestConvert_EmptyDumpLeavesStoreAlone(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "GO\nSET NOCOUNT ON\nGO\n")
	if err := os.WriteFile(ws.faithful, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, ws.args("convert")...)
	if !errors.Is(err, dump.ErrNoStatements) {
		t.Fatalf("convert error = %v, want ErrNoStatements", err)
	}
	if exitCode(err) != exitNoStatements {
		t.Fatalf("exitCode = %d", exitCode(err))
	}
	if b, _ := os.ReadFile(ws.faithful); string(b) != "previous" {
		t.Fatalf("faithful store modified: %q", b)
	}
	if _, err := os.Stat(ws.faithful + storage.BackupSuffix); !os.IsNotExist(err) {
		t.Fatalf("backup created for an empty dump: %v", err)
	}
}

func TestDistill_MissingFaithfulStore(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, sampleDump)
	_, err := execute(t, ws.args("distill")...)
	if err == nil || !strings.Contains(err.Error(), "run convert first") {
		t.Fatalf("distill error = %v", err)
	}
	if exitCode(err) != exitFailure {
		t.Fatalf("exitCode = %d", exitCode(err))
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "validate", "--batch-size", "0")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "warning: runtime.batch_size") || !strings.Contains(out, "configuration is valid") {
		t.Fatalf("validate output = %q", out)
	}

	_, err = execute(t, "validate", "--encoding", "klingon")
	var cfgErr *configError
	if !errors.As(err, &cfgErr) || exitCode(err) != exitConfig {
		t.Fatalf("validate error = %v, want configError", err)
	}
	if !strings.Contains(err.Error(), "source.file.encoding") {
		t.Fatalf("error = %v", err)
	}
}

func TestConfigFileAndFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "run.json")
	body := `{"job": "nightly", "mini": {"path": "from-file.db"}, "runtime": {"workers": 2}}`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	opts := &rootOptions{log: zap.NewNop()}
	cmd := newRootCommand(opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", "--config", p, "--workers", "5", "--mirror-dsn", "postgres://u@h/db"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("validate error = %v", err)
	}

	r := opts.run
	if r.Job != "nightly" || r.Mini.Path != "from-file.db" || r.Runtime.Workers != 5 {
		t.Errorf("run = %+v", r)
	}
	if r.Mirror != (config.Mirror{Kind: "postgres", DSN: "postgres://u@h/db", Schema: config.DefaultSchema}) {
		t.Errorf("mirror = %+v", r.Mirror)
	}

	_, err := execute(t, "validate", "--config", filepath.Join(dir, "missing.json"))
	if exitCode(err) != exitConfig {
		t.Fatalf("missing config exitCode = %d (%v)", exitCode(err), err)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{errors.New("disk full"), exitFailure},
		{&configError{}, exitConfig},
		{dump.ErrNoStatements, exitNoStatements},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
