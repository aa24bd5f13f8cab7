package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"ntdump/internal/config"
	"ntdump/internal/datasource/file"
	"ntdump/internal/distill"
	"ntdump/internal/dump"
	"ntdump/internal/loader"
	"ntdump/internal/metrics"
	"ntdump/internal/schema"
	"ntdump/internal/storage"
	"ntdump/internal/storage/postgres"
	"ntdump/internal/storage/sqlite"
)

// dbStore is a registered storage backend that also exposes a database/sql
// handle (the SQLite repository does).
type dbStore interface {
	storage.Repository
	DB() *sql.DB
}

// openStore opens a SQLite store through the storage registry.
func openStore(ctx context.Context, path string) (dbStore, error) {
	repo, err := storage.New(ctx, storage.Config{Kind: sqlite.Kind, DSN: path})
	if errors.Is(err, storage.ErrUnknownKind) {
		return nil, fmt.Errorf("%w (registered: %s)", err, strings.Join(storage.ListKinds(), ", "))
	}
	if err != nil {
		return nil, err
	}
	st, ok := repo.(dbStore)
	if !ok {
		repo.Close()
		return nil, fmt.Errorf("storage backend for %s has no SQL handle", path)
	}
	return st, nil
}

// convert replays the dump into a fresh faithful store. An input with no
// statements fails before the previous store is touched.
func convert(ctx context.Context, run config.Run, log *zap.Logger) (rep loader.Report, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep(run.Job, "convert", err, time.Since(start)) }()

	src := file.NewLocal(run.Source.File.Path, run.Source.File.Encoding)
	rc, err := src.Open(ctx)
	if err != nil {
		return rep, err
	}
	defer rc.Close()

	sc := dump.NewScanner(rc, dump.WithSkipHook(func(line int, text string) {
		log.Debug("skipped unrecognized line", zap.Int("line", line), zap.String("text", text))
	}))
	if !sc.Peek() {
		if err := sc.Err(); err != nil {
			return rep, fmt.Errorf("read %s: %w", src.Path(), err)
		}
		return rep, fmt.Errorf("%s: %w", src.Path(), dump.ErrNoStatements)
	}

	backup, err := storage.BackupAndReplace(run.Faithful.Path)
	if err != nil {
		return rep, err
	}
	if backup != "" {
		log.Info("previous faithful store backed up", zap.String("backup", backup))
	}

	store, err := openStore(ctx, run.Faithful.Path)
	if err != nil {
		return rep, err
	}
	defer store.Close()
	if err := schema.Build(ctx, store, schema.Faithful()); err != nil {
		return rep, err
	}

	lopts := []loader.Option{
		loader.WithBatchSize(run.Runtime.BatchSize),
		loader.WithLogger(log),
	}
	if run.Faithful.FailuresCSV != "" {
		fl, err := loader.NewFailureLog(run.Faithful.FailuresCSV)
		if err != nil {
			return rep, err
		}
		defer func() {
			if cerr := fl.Close(); cerr != nil {
				log.Warn("failure log incomplete", zap.String("path", run.Faithful.FailuresCSV), zap.Error(cerr))
			}
		}()
		lopts = append(lopts, loader.WithResultHook(fl.Record))
	}
	rep, err = loader.New(store.DB(), lopts...).Load(ctx, sc)
	metrics.RecordRow(run.Job, "extracted", int64(rep.Extracted))
	metrics.RecordRow(run.Job, "inserted", int64(rep.Inserted))
	metrics.RecordRow(run.Job, "ignored", int64(rep.Ignored))
	metrics.RecordRow(run.Job, "failed", int64(rep.Failed))
	metrics.RecordBatches(run.Job, int64(rep.Batches))
	if err != nil {
		return rep, err
	}

	stats := sc.Stats()
	log.Info("conversion done",
		zap.String("faithful", run.Faithful.Path),
		zap.String("summary", rep.Summary()),
		zap.Int("physicalLines", stats.PhysicalLines),
		zap.Int("skippedLines", stats.Skipped),
		zap.Duration("elapsed", rep.Elapsed),
	)
	for _, f := range rep.Samples {
		log.Debug("failure sample", zap.String("table", f.Table), zap.Int("line", f.Line), zap.String("error", f.Err))
	}
	return rep, nil
}

// distillStores rebuilds the mini store from the faithful store and mirrors
// it when configured.
func distillStores(ctx context.Context, run config.Run, log *zap.Logger) (rep distill.Report, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep(run.Job, "distill", err, time.Since(start)) }()

	if _, err := os.Stat(run.Faithful.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rep, fmt.Errorf("faithful store %s not found; run convert first: %w", run.Faithful.Path, err)
		}
		return rep, err
	}
	faithful, err := openStore(ctx, run.Faithful.Path)
	if err != nil {
		return rep, err
	}
	defer faithful.Close()

	backup, err := storage.BackupAndReplace(run.Mini.Path)
	if err != nil {
		return rep, err
	}
	if backup != "" {
		log.Info("previous mini store backed up", zap.String("backup", backup))
	}
	mini, err := openStore(ctx, run.Mini.Path)
	if err != nil {
		return rep, err
	}
	defer mini.Close()
	if err := schema.Build(ctx, mini, schema.Mini()); err != nil {
		return rep, err
	}

	rep, err = distill.Run(ctx, faithful.DB(), mini.DB(), distill.Options{
		BaseURL: run.Mini.BaseURL,
		Logger:  log,
		Workers: run.Runtime.Workers,
		Job:     run.Job,
	})
	if err != nil {
		return rep, err
	}
	log.Info("mini store written", zap.String("mini", run.Mini.Path), zap.String("summary", rep.Summary()))

	if run.Mirror.Kind == "postgres" {
		mstart := time.Now()
		counts, err := postgres.Mirror(ctx, run.Mirror.DSN, run.Mirror.Schema, mini.DB(), schema.Mini(), log)
		metrics.RecordStep(run.Job, "mirror", err, time.Since(mstart))
		if err != nil {
			return rep, err
		}
		log.Info("mirror done", zap.String("schema", run.Mirror.Schema), zap.Any("tables", counts))
	}
	return rep, nil
}
