// Package config defines the JSON run file for ntdump: where the dump comes
// from, where the faithful and mini stores go, the optional Postgres mirror,
// and runtime/metrics knobs.
//
// Decoding is done with encoding/json into plain structs; Default supplies
// every value a run needs, so a run file only carries overrides:
//
//	{
//	  "source":   { "kind": "file", "file": { "path": "nt.sql", "encoding": "utf-16le" } },
//	  "faithful": { "path": "converted_db.sqlite" },
//	  "mini":     { "path": "minimal_nt.db", "base_url": "http://194.177.217.106/" },
//	  "mirror":   { "kind": "postgres", "dsn": "postgres://...", "schema": "nt" },
//	  "runtime":  { "batch_size": 1000, "workers": 4 },
//	  "metrics":  { "backend": "none" }
//	}
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Defaults used when a run file or flag leaves a value empty.
const (
	DefaultJob       = "ntdump"
	DefaultDump      = "nt.sql"
	DefaultEncoding  = "utf-16le"
	DefaultFaithful  = "converted_db.sqlite"
	DefaultMini      = "minimal_nt.db"
	DefaultBaseURL   = "http://194.177.217.106/"
	DefaultBatchSize = 1000
	DefaultSchema    = "ntdump"
	DefaultGateway   = "http://localhost:9091"
	DefaultDogStatsD = "127.0.0.1:8125"
)

// Run is the top-level object decoded from a run file.
type Run struct {
	// Job labels metrics and log lines.
	Job      string    `json:"job"`
	Source   Source    `json:"source"`
	Faithful Store     `json:"faithful"`
	Mini     MiniStore `json:"mini"`
	Mirror   Mirror    `json:"mirror"`
	Runtime  Runtime   `json:"runtime"`
	Metrics  Metrics   `json:"metrics"`
}

// Source identifies the dump. Current kind: "file".
type Source struct {
	Kind string     `json:"kind"`
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path"`
	// Encoding of the dump on disk; see file.LookupEncoding.
	Encoding string `json:"encoding"`
}

// Store is a SQLite output file.
type Store struct {
	Path string `json:"path"`
	// FailuresCSV, when set, receives one CSV row per statement that failed
	// to insert.
	FailuresCSV string `json:"failures_csv,omitempty"`
}

// MiniStore adds the public URL prefix to a Store.
type MiniStore struct {
	Path    string `json:"path"`
	BaseURL string `json:"base_url"`
}

// Mirror optionally copies the mini store into another database after a
// successful distillation. An empty Kind disables it.
type Mirror struct {
	Kind   string `json:"kind"`
	DSN    string `json:"dsn"`
	Schema string `json:"schema"`
}

// Runtime controls batching and pass concurrency.
type Runtime struct {
	BatchSize int `json:"batch_size"`
	// Workers bounds concurrent distillation passes; 0 means no bound.
	Workers int `json:"workers"`
}

// Metrics selects the metrics backend: "none" (default), "pushgateway" or
// "datadog".
type Metrics struct {
	Backend        string   `json:"backend"`
	PushgatewayURL string   `json:"pushgateway_url"`
	DogStatsDAddr  string   `json:"dogstatsd_addr"`
	Tags           []string `json:"tags,omitempty"`
}

// Default returns a run configured like the archive's historical layout.
func Default() Run {
	return Run{
		Job:      DefaultJob,
		Source:   Source{Kind: "file", File: SourceFile{Path: DefaultDump, Encoding: DefaultEncoding}},
		Faithful: Store{Path: DefaultFaithful},
		Mini:     MiniStore{Path: DefaultMini, BaseURL: DefaultBaseURL},
		Runtime:  Runtime{BatchSize: DefaultBatchSize},
		Metrics:  Metrics{Backend: "none"},
	}
}

// Load decodes the run file at path over Default. Unknown fields are
// rejected so typos surface instead of silently falling back to defaults.
func Load(path string) (Run, error) {
	r := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return r, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if r.Mirror.Kind != "" && r.Mirror.Schema == "" {
		r.Mirror.Schema = DefaultSchema
	}
	return r, nil
}

// ApplyEnv overlays environment overrides: NTDUMP_BATCH_SIZE,
// NTDUMP_WORKERS, NTDUMP_BASE_URL, METRICS_BACKEND, PUSHGATEWAY_URL and
// DOGSTATSD_ADDR.
// Unset or unparsable values leave r unchanged.
func (r *Run) ApplyEnv() {
	r.Runtime.BatchSize = getenvInt("NTDUMP_BATCH_SIZE", r.Runtime.BatchSize)
	r.Runtime.Workers = getenvInt("NTDUMP_WORKERS", r.Runtime.Workers)
	if s := os.Getenv("NTDUMP_BASE_URL"); s != "" {
		r.Mini.BaseURL = s
	}
	if s := os.Getenv("METRICS_BACKEND"); s != "" {
		r.Metrics.Backend = s
	}
	if s := os.Getenv("PUSHGATEWAY_URL"); s != "" {
		r.Metrics.PushgatewayURL = s
	}
	if s := os.Getenv("DOGSTATSD_ADDR"); s != "" {
		r.Metrics.DogStatsDAddr = s
	}
}

// getenvInt reads an int from environment, returning def when unset/invalid.
func getenvInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}
