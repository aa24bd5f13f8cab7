// Package dump reads a SQL Server "Generate Scripts" export and turns it into
// a stream of INSERT statements.
//
// The export is hard-wrapped: long text values span several physical lines.
// Processing is a single pass over physical lines:
//
//	physical lines → Joiner (one logical line per statement)
//	               → Transcode (N'..' prefixes, CAST(.. AS DateTime), noise)
//	               → ParseStatement (table, columns, values)
//
// Lines that do not look like an INSERT are dropped without error; the
// export is noisy and the caller only cares about data rows.
package dump

import (
	"strings"
)

// statementKeywords are the tokens that open a new logical line in the
// export. Any other line continues the previous one, including lines that
// start with other SQL words: wrapped text values routinely do ("SET in
// 1920s Athens"). DDL and SET directives end up appended to a GO line,
// which never parses as an INSERT.
var statementKeywords = []string{"INSERT", "GO"}

// IsStatementStart reports whether a physical line opens a new logical line.
// The keyword must be followed by whitespace, '[' or the end of the line so
// that wrapped text beginning with e.g. "GOOD" is not mistaken for "GO".
func IsStatementStart(line string) bool {
	for _, kw := range statementKeywords {
		if !strings.HasPrefix(line, kw) {
			continue
		}
		rest := line[len(kw):]
		if rest == "" {
			return true
		}
		switch rest[0] {
		case ' ', '\t', '[', '\r':
			return true
		}
	}
	return false
}

// Joiner merges hard-wrapped continuation lines into logical lines.
//
// Push a physical line at a time; when a line opens a new statement the
// previously accumulated logical line is returned. Flush returns the last one.
// The zero value is ready to use.
type Joiner struct {
	buf     strings.Builder
	started bool
}

// Push adds one physical line. It returns the completed previous logical line,
// if any.
func (j *Joiner) Push(line string) (string, bool) {
	line = strings.TrimSuffix(line, "\r")

	// The first line always starts a logical line, whatever it holds.
	if !j.started {
		j.started = true
		j.buf.WriteString(line)
		return "", false
	}
	if IsStatementStart(line) {
		out := j.buf.String()
		j.buf.Reset()
		j.buf.WriteString(line)
		return out, true
	}
	j.buf.WriteByte(' ')
	j.buf.WriteString(strings.TrimSpace(line))
	return "", false
}

// Flush returns the pending logical line and resets the joiner.
func (j *Joiner) Flush() (string, bool) {
	if !j.started {
		return "", false
	}
	out := j.buf.String()
	j.buf.Reset()
	j.started = false
	return out, true
}

// Normalize rewrites text so that every statement occupies exactly one line.
// Ordering is preserved and no content is dropped. Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	var (
		j   Joiner
		out []string
	)
	for _, line := range strings.Split(text, "\n") {
		if logical, ok := j.Push(line); ok {
			out = append(out, logical)
		}
	}
	if logical, ok := j.Flush(); ok {
		out = append(out, logical)
	}
	return strings.Join(out, "\n")
}
