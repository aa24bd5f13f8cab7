// Package loader replays extracted dump statements into the faithful store.
//
// Each statement becomes one typed Result: Inserted, Ignored (table on the
// ignore list) or Failed (unknown table or column, malformed literal,
// constraint violation). Failures never abort the run; rows are written in
// batched transactions and the Report carries the totals.
package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ntdump/internal/dump"
	"ntdump/internal/schema"
	"ntdump/internal/storage/sqlite"
)

// Defaults.
const (
	DefaultBatchSize   = 1000
	DefaultSampleLimit = 20
)

// Option configures a Loader.
type Option func(*Loader)

// WithIgnore replaces the ignore predicate (default schema.Ignored).
func WithIgnore(fn func(table string) bool) Option {
	return func(l *Loader) { l.ignore = fn }
}

// WithBatchSize sets how many attempted rows share one transaction.
func WithBatchSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// WithLogger sets the logger; nil means no logging.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithResultHook installs fn, called once per statement in input order.
func WithResultHook(fn func(Result)) Option {
	return func(l *Loader) { l.onResult = fn }
}

// WithSampleLimit bounds Report.Samples.
func WithSampleLimit(n int) Option {
	return func(l *Loader) {
		if n >= 0 {
			l.sampleLimit = n
		}
	}
}

// Loader inserts statements into a database whose schema is already built.
type Loader struct {
	db          *sql.DB
	ignore      func(string) bool
	batchSize   int
	sampleLimit int
	log         *zap.Logger
	onResult    func(Result)
}

// New returns a Loader writing to db.
func New(db *sql.DB, opts ...Option) *Loader {
	l := &Loader{
		db:          db,
		ignore:      schema.Ignored,
		batchSize:   DefaultBatchSize,
		sampleLimit: DefaultSampleLimit,
		log:         zap.NewNop(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load drains sc. The first statement is pulled before anything is written:
// an input without statements returns dump.ErrNoStatements (or the read
// error) and leaves the store untouched.
//
// The returned error is non-nil only for read errors, transaction errors and
// cancellation; per-row failures are reported in the Report.
func (l *Loader) Load(ctx context.Context, sc *dump.Scanner) (Report, error) {
	rep := newReport(l.sampleLimit)
	if !sc.Peek() {
		if err := sc.Err(); err != nil {
			return rep, fmt.Errorf("loader: read dump: %w", err)
		}
		return rep, dump.ErrNoStatements
	}

	start := time.Now()
	b := &batch{l: l, started: start, lastFlush: start}
	defer b.rollback()

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		st := sc.Statement()
		res := Result{Statement: st, Outcome: Ignored}
		if !l.ignore(st.Table) {
			if err := b.ensure(ctx); err != nil {
				return rep, err
			}
			res.Outcome = Inserted
			if err := b.insert(ctx, st); err != nil {
				res.Outcome, res.Err = Failed, err
				l.log.Warn("row insert failed",
					zap.String("table", st.Table),
					zap.Int("line", st.Line),
					zap.Error(err),
					zap.String("statement", StatementText(st)),
				)
			}
			b.attempted++
		}
		rep.Add(res)
		if l.onResult != nil {
			l.onResult(res)
		}
		if b.attempted >= l.batchSize {
			if err := b.commit(rep); err != nil {
				return rep, err
			}
			rep.Batches++
		}
	}
	if err := sc.Err(); err != nil {
		return rep, fmt.Errorf("loader: read dump: %w", err)
	}
	if b.tx != nil {
		if err := b.commit(rep); err != nil {
			return rep, err
		}
		rep.Batches++
	}
	rep.Elapsed = time.Since(start)
	return rep, nil
}

// batch is the open transaction plus its prepared statements, keyed by the
// raw table and column text.
type batch struct {
	l         *Loader
	tx        *sql.Tx
	stmts     map[string]*sql.Stmt
	attempted int

	started   time.Time
	lastFlush time.Time
	lastTotal int
}

func (b *batch) ensure(ctx context.Context) error {
	if b.tx != nil {
		return nil
	}
	tx, err := b.l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("loader: begin tx: %w", err)
	}
	b.tx = tx
	b.stmts = map[string]*sql.Stmt{}
	return nil
}

func (b *batch) insert(ctx context.Context, st dump.Statement) error {
	cols, args, err := Row(st)
	if err != nil {
		return err
	}
	key := st.Table + "\x00" + st.Columns
	stmt, ok := b.stmts[key]
	if !ok {
		stmt, err = b.tx.PrepareContext(ctx, sqlite.InsertSQL(st.Table, cols))
		if err != nil {
			return err
		}
		b.stmts[key] = stmt
	}
	_, err = stmt.ExecContext(ctx, args...)
	return err
}

// commit closes the current transaction and logs progress the way a bulk
// loader does: running totals plus rows/sec since the previous flush.
func (b *batch) commit(rep Report) error {
	if b.tx == nil {
		return nil
	}
	for _, s := range b.stmts {
		_ = s.Close()
	}
	err := b.tx.Commit()
	b.tx, b.stmts = nil, nil
	if err != nil {
		return fmt.Errorf("loader: commit: %w", err)
	}

	now := time.Now()
	total := rep.Inserted + rep.Failed
	rps := float64(0)
	if since := now.Sub(b.lastFlush); since > 0 {
		rps = float64(total-b.lastTotal) / since.Seconds()
	}
	b.l.log.Info("batch committed",
		zap.Int("batch", rep.Batches+1),
		zap.Int("rows", b.attempted),
		zap.Float64("rps", rps),
		zap.Int("total_inserted", rep.Inserted),
		zap.Int("total_failed", rep.Failed),
		zap.Duration("elapsed", now.Sub(b.started)),
	)
	b.attempted = 0
	b.lastFlush, b.lastTotal = now, total
	return nil
}

func (b *batch) rollback() {
	if b.tx == nil {
		return
	}
	for _, s := range b.stmts {
		_ = s.Close()
	}
	_ = b.tx.Rollback()
	b.tx = nil
}

// ErrArity reports a column/value count mismatch.
var ErrArity = errors.New("column and value counts differ")

// Row splits and parses a statement into column names and bindable values.
func Row(st dump.Statement) ([]string, []any, error) {
	rawCols, err := dump.SplitList(st.Columns)
	if err != nil {
		return nil, nil, fmt.Errorf("columns: %w", err)
	}
	rawVals, err := dump.SplitList(st.Values)
	if err != nil {
		return nil, nil, fmt.Errorf("values: %w", err)
	}
	if len(rawCols) == 0 || len(rawCols) != len(rawVals) {
		return nil, nil, fmt.Errorf("%w: %d columns, %d values", ErrArity, len(rawCols), len(rawVals))
	}
	cols := make([]string, len(rawCols))
	args := make([]any, len(rawVals))
	for i := range rawCols {
		cols[i] = dump.ColumnName(rawCols[i])
		v, err := dump.ParseLiteral(rawVals[i])
		if err != nil {
			return nil, nil, fmt.Errorf("column %s: %w", cols[i], err)
		}
		args[i] = v
	}
	return cols, args, nil
}
