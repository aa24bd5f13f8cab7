package loader

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"ntdump/internal/dump"
)

// Outcome classifies what happened to one extracted statement.
type Outcome int

const (
	Inserted Outcome = iota
	Ignored
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Ignored:
		return "ignored"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the per-row outcome. Err is set only for Failed.
type Result struct {
	Statement dump.Statement
	Outcome   Outcome
	Err       error
}

// Failure is a retained sample of a failed row.
type Failure struct {
	Table     string
	Line      int
	Err       string
	Statement string
}

// Report aggregates Results. Extracted == Inserted + Ignored + Failed holds
// after every Add.
type Report struct {
	Extracted int
	Inserted  int
	Ignored   int
	Failed    int

	FailuresByTable map[string]int
	IgnoredByTable  map[string]int
	// Samples holds the first failures, up to the loader's sample limit.
	Samples []Failure

	Batches int
	Elapsed time.Duration

	sampleLimit int
}

func newReport(sampleLimit int) Report {
	return Report{
		FailuresByTable: map[string]int{},
		IgnoredByTable:  map[string]int{},
		sampleLimit:     sampleLimit,
	}
}

// Add folds one Result into the report.
func (r *Report) Add(res Result) {
	r.Extracted++
	table := res.Statement.Table
	switch res.Outcome {
	case Inserted:
		r.Inserted++
	case Ignored:
		r.Ignored++
		r.IgnoredByTable[table]++
	case Failed:
		r.Failed++
		r.FailuresByTable[table]++
		if len(r.Samples) < r.sampleLimit {
			msg := ""
			if res.Err != nil {
				msg = res.Err.Error()
			}
			r.Samples = append(r.Samples, Failure{
				Table:     table,
				Line:      res.Statement.Line,
				Err:       msg,
				Statement: StatementText(res.Statement),
			})
		}
	}
}

// Summary renders the end-of-run line, with failures broken down by table.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "extracted=%d inserted=%d ignored=%d failed=%d",
		r.Extracted, r.Inserted, r.Ignored, r.Failed)
	if r.Failed > 0 {
		tables := make([]string, 0, len(r.FailuresByTable))
		for t := range r.FailuresByTable {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		b.WriteString(" (")
		for i, t := range tables {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%d", t, r.FailuresByTable[t])
		}
		b.WriteString(")")
	}
	return b.String()
}

// maxStatementRunes bounds statement text in logs and samples.
const maxStatementRunes = 512

// StatementText renders st as an INSERT for operator-facing output,
// truncated to a bounded number of runes.
func StatementText(st dump.Statement) string {
	s := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", st.Table, st.Columns, st.Values)
	if utf8.RuneCountInString(s) <= maxStatementRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxStatementRunes {
			return s[:i] + "…"
		}
		n++
	}
	return s
}
