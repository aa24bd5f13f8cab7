package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeRunFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write run file: %v", err)
	}
	return p
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	t.Parallel()

	p := writeRunFile(t, `{
		"source": { "kind": "file", "file": { "path": "dump.sql" } },
		"mirror": { "kind": "postgres", "dsn": "postgres://u@h/db" },
		"runtime": { "workers": 3 }
	}`)
	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	// Fields the file omits keep their defaults, nested ones included.
	want.Source.File = SourceFile{Path: "dump.sql", Encoding: DefaultEncoding}
	want.Mirror = Mirror{Kind: "postgres", DSN: "postgres://u@h/db", Schema: DefaultSchema}
	want.Runtime.Workers = 3
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, body, want string
	}{
		{"unknown field", `{"sauce": {}}`, `unknown field "sauce"`},
		{"bad json", `{`, "decode"},
		{"wrong type", `{"runtime": {"batch_size": "many"}}`, "decode"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeRunFile(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load(missing) error = %v, want not-exist", err)
	}
}

// Not parallel: mutates the process environment.
func TestApplyEnv(t *testing.T) {
	t.Setenv("NTDUMP_BATCH_SIZE", "250")
	t.Setenv("NTDUMP_WORKERS", "not-a-number")
	t.Setenv("NTDUMP_BASE_URL", "https://archive.example/")
	t.Setenv("METRICS_BACKEND", "pushgateway")
	t.Setenv("PUSHGATEWAY_URL", "http://gw:9091")
	t.Setenv("DOGSTATSD_ADDR", "unix:///var/run/datadog/dsd.socket")

	r := Default()
	r.Runtime.Workers = 2
	r.ApplyEnv()

	if r.Runtime.BatchSize != 250 || r.Runtime.Workers != 2 {
		t.Errorf("runtime = %+v", r.Runtime)
	}
	if r.Mini.BaseURL != "https://archive.example/" {
		t.Errorf("base url = %q", r.Mini.BaseURL)
	}
	want := Metrics{Backend: "pushgateway", PushgatewayURL: "http://gw:9091", DogStatsDAddr: "unix:///var/run/datadog/dsd.socket"}
	if diff := cmp.Diff(want, r.Metrics); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("NTDUMP_TEST_INT", "42")
	if got := getenvInt("NTDUMP_TEST_INT", 7); got != 42 {
		t.Fatalf("getenvInt = %d, want 42", got)
	}
	if got := getenvInt("NTDUMP_TEST_UNSET", 7); got != 7 {
		t.Fatalf("getenvInt(unset) = %d, want 7", got)
	}
}
