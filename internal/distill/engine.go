// Package distill builds the mini store from the faithful store.
//
// The work is split into passes that each read faithful tables and earlier
// products and write one product. Passes of the same dependency level run
// concurrently against the read-only faithful store; the final write pass
// stores everything in the mini store in a single transaction.
package distill

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ntdump/internal/metrics"
	"ntdump/internal/schema"
	"ntdump/internal/storage/sqlite"
)

// Options configures Run.
type Options struct {
	BaseURL string      // URL prefix; DefaultBaseURL when empty
	Logger  *zap.Logger // nil means zap.NewNop()
	Workers int         // max concurrent passes per level; <= 0 means unbounded
	Job     string      // metrics job label
}

// Report summarizes a distillation run.
type Report struct {
	Tables       map[string]int64 // mini table -> rows written
	Superseded   int              // person IDs merged into a canonical survivor
	Anomalies    Anomalies
	RelatedPlays int            // published plays pointing at an earlier production
	Dropped      map[string]int // join rows dropped per mini table
	Durations    map[string]time.Duration
	Fingerprints map[string]uint64 // xxh3 digest per mini table in primary-key order
	Elapsed      time.Duration
}

// Run distills faithful into mini. The mini schema must already exist and be
// empty.
func Run(ctx context.Context, faithful, mini *sql.DB, opts Options) (Report, error) {
	if faithful == nil || mini == nil {
		return Report{}, errors.New("distill: faithful and mini stores are required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	job := opts.Job
	if job == "" {
		job = "ntdump"
	}

	s := &state{src: faithful, mini: mini, urls: URLs{Base: base}, log: log}
	rep := Report{Durations: map[string]time.Duration{}}
	start := time.Now()

	err := schedule(ctx, Passes(), s, opts.Workers, func(name string, d time.Duration, err error) {
		rep.Durations[name] = d
		metrics.RecordStep(job, "distill."+name, err, d)
		if err == nil {
			log.Debug("pass done", zap.String("pass", name), zap.Duration("elapsed", d))
		}
	})
	rep.Elapsed = time.Since(start)
	if err != nil {
		return rep, err
	}

	rep.Tables = s.written
	rep.Superseded = s.identity.Len()
	rep.Anomalies = s.identity.Anomalies()
	rep.RelatedPlays = s.relatedPlays
	rep.Dropped = s.links.Dropped

	rep.Fingerprints = make(map[string]uint64, len(rep.Tables))
	for _, t := range schema.Mini() {
		fp, err := sqlite.Fingerprint(ctx, mini, t.Name, t.PrimaryKey)
		if err != nil {
			return rep, fmt.Errorf("distill: %w", err)
		}
		rep.Fingerprints[t.Name] = fp
		metrics.RecordTable(job, t.Name, rep.Tables[t.Name])
	}

	log.Info("distillation done",
		zap.Any("tables", rep.Tables),
		zap.Int("superseded", rep.Superseded),
		zap.Int("relatedPlays", rep.RelatedPlays),
		zap.Any("dropped", rep.Dropped),
		zap.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}

// Summary renders the row counts in mini write order.
func (r Report) Summary() string {
	var b strings.Builder
	for _, t := range schema.Mini() {
		fmt.Fprintf(&b, "%s=%d ", t.Name, r.Tables[t.Name])
	}
	fmt.Fprintf(&b, "superseded=%d", r.Superseded)
	return b.String()
}
