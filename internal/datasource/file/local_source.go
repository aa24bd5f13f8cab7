// Package file implements a local filesystem-backed dump source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"ntdump/internal/datasource"
)

// Local is a filesystem data source that opens a dump from the local disk and
// decodes it to UTF-8.
type Local struct {
	path     string
	encoding string
}

var _ datasource.Source = (*Local)(nil)

// NewLocal returns a Local source for path. encoding names the on-disk
// character encoding (see LookupEncoding); empty means UTF-8.
func NewLocal(path, encoding string) *Local {
	return &Local{path: path, encoding: encoding}
}

// Path returns the configured file path.
func (l *Local) Path() string { return l.path }

// Open opens the configured path and returns a reader yielding UTF-8.
//
// Behavior:
//   - If the context is already canceled, Open returns the context error
//     without touching the filesystem.
//   - An unknown encoding is reported before the file is opened.
//   - The kernel is advised of a sequential read (Linux only).
//   - A leading byte order mark selects the matching UTF-8/UTF-16 decoder and
//     is stripped, whatever encoding was configured.
//   - Filesystem errors are wrapped with the path and still match
//     errors.Is(err, os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	enc, err := LookupEncoding(l.encoding)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	// Best-effort kernel hint: one large sequential pass.
	_ = adviseSequential(f)
	dec := unicode.BOMOverride(enc.NewDecoder())
	return &decodedFile{Reader: transform.NewReader(f, dec), f: f}, nil
}

type decodedFile struct {
	io.Reader
	f *os.File
}

func (d *decodedFile) Close() error { return d.f.Close() }
