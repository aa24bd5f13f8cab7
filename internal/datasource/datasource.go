// Package datasource defines where a dump comes from.
package datasource

import (
	"context"
	"io"
)

// Source opens the dump. Implementations return UTF-8 text regardless of the
// on-disk encoding.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
