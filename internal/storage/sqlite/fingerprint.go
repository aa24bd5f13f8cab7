package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"ntdump/internal/schema"
)

// Fingerprint returns an xxh3 digest over every row of table read in orderBy
// order. Two stores holding the same rows in the same order produce the same
// digest, which makes reruns diffable without dumping the tables.
func (r *Repository) Fingerprint(ctx context.Context, table string, orderBy []string) (uint64, error) {
	return Fingerprint(ctx, r.db, table, orderBy)
}

// Fingerprint is the handle-level form of Repository.Fingerprint.
func Fingerprint(ctx context.Context, db *sql.DB, table string, orderBy []string) (uint64, error) {
	q := "SELECT * FROM " + schema.QuoteIdent(table)
	if len(orderBy) > 0 {
		keys := make([]string, len(orderBy))
		for i, k := range orderBy {
			keys[i] = schema.QuoteIdent(k)
		}
		q += " ORDER BY " + strings.Join(keys, ", ")
	}
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("sqlite: fingerprint %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("sqlite: fingerprint %s: %w", table, err)
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	h := xxh3.New()
	var buf []byte
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return 0, fmt.Errorf("sqlite: fingerprint %s: %w", table, err)
		}
		buf = buf[:0]
		for _, v := range vals {
			buf = appendValue(buf, v)
		}
		buf = append(buf, '\n')
		_, _ = h.Write(buf)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("sqlite: fingerprint %s: %w", table, err)
	}
	return h.Sum64(), nil
}

// appendValue writes a type tag followed by a length-unambiguous encoding.
func appendValue(buf []byte, v any) []byte {
	switch x := v.(type) {
	case nil:
		return append(buf, 'n')
	case int64:
		buf = append(buf, 'i')
		return binary.BigEndian.AppendUint64(buf, uint64(x))
	case float64:
		buf = append(buf, 'f')
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(x))
	case bool:
		if x {
			return append(buf, 'i', 0, 0, 0, 0, 0, 0, 0, 1)
		}
		return append(buf, 'i', 0, 0, 0, 0, 0, 0, 0, 0)
	case string:
		buf = append(buf, 's')
		buf = binary.AppendUvarint(buf, uint64(len(x)))
		return append(buf, x...)
	case []byte:
		buf = append(buf, 'b')
		buf = binary.AppendUvarint(buf, uint64(len(x)))
		return append(buf, x...)
	case time.Time:
		return appendValue(buf, x.UTC().Format(time.RFC3339Nano))
	default:
		return appendValue(buf, fmt.Sprint(x))
	}
}
