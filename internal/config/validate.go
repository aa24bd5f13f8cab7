package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"ntdump/internal/datasource/file"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the run file, e.g. "source.file.encoding".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateRun performs static checks over r without touching the filesystem
// beyond path comparisons. Callers decide how to surface warnings.
func ValidateRun(r Run) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, a ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, a...)})
	}

	if strings.TrimSpace(r.Job) == "" {
		add(SeverityError, "job", "job must not be empty; it labels metrics and log lines")
	}

	switch r.Source.Kind {
	case "file":
		if strings.TrimSpace(r.Source.File.Path) == "" {
			add(SeverityError, "source.file.path", "file source requires a non-empty path")
		}
		if _, err := file.LookupEncoding(r.Source.File.Encoding); err != nil {
			add(SeverityError, "source.file.encoding", "%v", err)
		}
	case "":
		add(SeverityError, "source.kind", "source.kind must not be empty")
	default:
		add(SeverityError, "source.kind", "unknown source kind %q", r.Source.Kind)
	}

	if strings.TrimSpace(r.Faithful.Path) == "" {
		add(SeverityError, "faithful.path", "faithful.path must not be empty")
	}
	if strings.TrimSpace(r.Mini.Path) == "" {
		add(SeverityError, "mini.path", "mini.path must not be empty")
	}
	if r.Faithful.Path != "" && samePath(r.Faithful.Path, r.Mini.Path) {
		add(SeverityError, "mini.path", "mini.path must differ from faithful.path")
	}
	if r.Source.File.Path != "" && (samePath(r.Source.File.Path, r.Faithful.Path) || samePath(r.Source.File.Path, r.Mini.Path)) {
		add(SeverityError, "source.file.path", "the dump would be overwritten by an output store")
	}
	if b := r.Mini.BaseURL; b != "" && !strings.HasPrefix(b, "http://") && !strings.HasPrefix(b, "https://") {
		add(SeverityWarning, "mini.base_url", "base_url %q is not an http(s) URL", b)
	}

	switch r.Mirror.Kind {
	case "":
	case "postgres":
		if strings.TrimSpace(r.Mirror.DSN) == "" {
			add(SeverityError, "mirror.dsn", "postgres mirror requires a dsn")
		}
		if strings.ContainsAny(r.Mirror.Schema, `".`) {
			add(SeverityError, "mirror.schema", "schema %q must be a bare identifier", r.Mirror.Schema)
		}
	default:
		add(SeverityError, "mirror.kind", "unknown mirror kind %q; supported: postgres", r.Mirror.Kind)
	}

	if r.Runtime.BatchSize <= 0 {
		add(SeverityWarning, "runtime.batch_size", "batch_size=%d; the default of %d will be used", r.Runtime.BatchSize, DefaultBatchSize)
	}
	if r.Runtime.Workers < 0 {
		add(SeverityError, "runtime.workers", "workers must not be negative")
	}

	switch r.Metrics.Backend {
	case "", "none":
	case "pushgateway":
		if r.Metrics.PushgatewayURL == "" {
			add(SeverityWarning, "metrics.pushgateway_url", "empty; %s will be used", DefaultGateway)
		}
	case "datadog":
		if r.Metrics.DogStatsDAddr == "" {
			add(SeverityWarning, "metrics.dogstatsd_addr", "empty; %s will be used", DefaultDogStatsD)
		}
	default:
		add(SeverityWarning, "metrics.backend", "unknown backend %q; metrics disabled", r.Metrics.Backend)
	}

	return issues
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
