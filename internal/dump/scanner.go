package dump

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Stats counts what a Scanner saw.
type Stats struct {
	PhysicalLines int
	LogicalLines  int
	Statements    int
	// Skipped counts logical lines that were not INSERT statements (batch
	// separators, DDL, or INSERTs of an unrecognized shape). Skips are not
	// errors.
	Skipped int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSkipHook installs fn, called for every skipped logical line that
// starts with INSERT. Useful for surfacing grammar gaps at debug level.
func WithSkipHook(fn func(line int, text string)) Option {
	return func(s *Scanner) { s.onSkip = fn }
}

// Scanner lazily yields statements from a UTF-8 dump, one at a time, in
// source order. Its API mirrors bufio.Scanner:
//
//	sc := dump.NewScanner(r)
//	for sc.Scan() {
//		st := sc.Statement()
//	}
//	if err := sc.Err(); err != nil { ... }
type Scanner struct {
	r      *bufio.Reader
	j      Joiner
	start  int // physical line of the pending logical line
	stmt   Statement
	stats  Stats
	err    error
	eof    bool
	done   bool
	peeked bool
	onSkip func(int, string)
}

// NewScanner returns a Scanner reading from r. r must yield UTF-8; decoding
// of other encodings happens upstream (see datasource/file).
func NewScanner(r io.Reader, opts ...Option) *Scanner {
	s := &Scanner{r: bufio.NewReaderSize(r, 1<<20)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Scan advances to the next statement. It returns false at the end of input
// or on a read error; check Err afterwards.
func (s *Scanner) Scan() bool {
	if s.peeked {
		s.peeked = false
		return true
	}
	return s.advance()
}

// Peek reports whether at least one more statement is available without
// consuming it: the following Scan returns true and the same Statement.
func (s *Scanner) Peek() bool {
	if s.peeked {
		return true
	}
	s.peeked = s.advance()
	return s.peeked
}

func (s *Scanner) advance() bool {
	for !s.done {
		if s.eof {
			s.done = true
			if logical, ok := s.j.Flush(); ok && s.emit(logical, s.start) {
				return true
			}
			return false
		}
		text, err := s.r.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
				s.done = true
				return false
			}
			s.eof = true
		}
		if text == "" && err != nil {
			continue
		}
		s.stats.PhysicalLines++
		prev := s.start
		if s.stats.PhysicalLines == 1 {
			s.start = 1
		}
		if logical, ok := s.j.Push(strings.TrimSuffix(text, "\n")); ok {
			s.start = s.stats.PhysicalLines
			if s.emit(logical, prev) {
				return true
			}
		}
	}
	return false
}

func (s *Scanner) emit(logical string, line int) bool {
	s.stats.LogicalLines++
	st, ok := ParseStatement(Transcode(logical))
	if !ok {
		s.stats.Skipped++
		if s.onSkip != nil && strings.HasPrefix(strings.TrimSpace(logical), "INSERT") {
			s.onSkip(line, logical)
		}
		return false
	}
	st.Line = line
	s.stmt = st
	s.stats.Statements++
	return true
}

// Statement returns the statement produced by the last successful Scan.
func (s *Scanner) Statement() Statement { return s.stmt }

// Err returns the first non-EOF read error.
func (s *Scanner) Err() error { return s.err }

// Stats returns running counters.
func (s *Scanner) Stats() Stats { return s.stats }

// Extract runs a Scanner over text and collects every statement.
func Extract(text string) []Statement {
	var out []Statement
	sc := NewScanner(strings.NewReader(text))
	for sc.Scan() {
		out = append(out, sc.Statement())
	}
	return out
}
