package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// FailureLog writes every failed row to a CSV file so operators can review
// what the faithful store is missing. Install it with
// WithResultHook(fl.Record).
type FailureLog struct {
	f       *os.File
	w       *csv.Writer
	byTable map[string]int
	err     error
}

// NewFailureLog creates path (and its parent directories) and writes the
// header row.
func NewFailureLog(path string) (*FailureLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("loader: create dir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("loader: create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"table", "line", "error", "statement"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("loader: write %s: %w", path, err)
	}
	return &FailureLog{f: f, w: w, byTable: map[string]int{}}, nil
}

// Record appends res when it failed; other outcomes are ignored. The first
// write error is kept and returned by Close.
func (fl *FailureLog) Record(res Result) {
	if res.Outcome != Failed || fl.err != nil {
		return
	}
	fl.byTable[res.Statement.Table]++
	fl.err = fl.w.Write([]string{
		res.Statement.Table,
		strconv.Itoa(res.Statement.Line),
		errString(res.Err),
		StatementText(res.Statement),
	})
}

// Counts returns failures recorded per table.
func (fl *FailureLog) Counts() map[string]int { return fl.byTable }

// Close flushes and closes the file.
func (fl *FailureLog) Close() error {
	fl.w.Flush()
	if fl.err == nil {
		fl.err = fl.w.Error()
	}
	if err := fl.f.Close(); fl.err == nil {
		fl.err = err
	}
	return fl.err
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
