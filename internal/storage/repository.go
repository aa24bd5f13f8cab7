// Package storage contains storage-agnostic contracts and the output-file
// policy shared by the faithful and mini stores.
//
// Backends (sqlite, postgres) register a Factory for their kind at init time;
// callers open repositories through New without importing the backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownKind is returned by New when no backend registered the kind.
var ErrUnknownKind = errors.New("unsupported storage.kind")

// Config selects and configures a backend.
type Config struct {
	Kind string // "sqlite" | "postgres"
	DSN  string // file path for sqlite, connection string for postgres
}

// Repository is the minimal write surface used by the pipeline.
type Repository interface {
	// Exec runs a statement without arguments, typically DDL.
	Exec(ctx context.Context, sql string) error
	// CopyFrom bulk-inserts rows aligned to columns into table and returns the
	// number of rows written.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	Close()
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w=%s", ErrUnknownKind, cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
