// Package metrics records operational metrics for conversion and
// distillation runs behind a small, backend-agnostic interface.
//
// A global, pluggable backend defaults to a no-op implementation, so calls
// are always safe even when no real backend is configured. Concrete systems
// (Prometheus Pushgateway, DogStatsD) live in subpackages.
package metrics

import "time"

// Metric names shared with backends.
const (
	StepTotal    = "ntdump_step_total"
	StepDuration = "ntdump_step_duration_seconds"
	RowsTotal    = "ntdump_rows_total"
	BatchesTotal = "ntdump_batches_total"
	TableRows    = "ntdump_table_rows"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// SetGauge records the current value of a level-style metric.
	SetGauge(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) SetGauge(string, float64, Labels)         {}
func (nopBackend) Flush() error                             { return nil }

// backend is replaced only at startup, before any step runs.
var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency and success/failure of one pipeline step or
// distillation pass.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow increments the per-row counter. Kinds mirror the loader report:
// "extracted", "inserted", "ignored", "failed".
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches increments the committed-batch counter.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}

// RecordTable reports the row count of an output table.
func RecordTable(job, table string, rows int64) {
	backend.SetGauge(TableRows, float64(rows), Labels{"job": job, "table": table})
}
