package dump

import (
	"errors"
	"strings"
	"unicode"
)

// ErrNoStatements is returned when a whole dump yields no recognizable INSERT
// statement. It points at an input-format regression rather than bad data.
var ErrNoStatements = errors.New("dump: no INSERT statements found")

// Statement is one recognized INSERT. Columns and Values are the raw text
// between the parentheses; splitting them is left to the consumer.
type Statement struct {
	Table   string
	Columns string
	Values  string
	// Line is the 1-based physical line on which the statement started.
	Line int
}

// ParseStatement recognizes
//
//	INSERT [INTO] <table> (<columns>) <anything> VALUES (<values>)
//
// on a single logical line. <table> is [schema].[name], schema.name or
// [name]. The value list runs to the last ')' on the line. Anything else
// returns ok=false.
func ParseStatement(line string) (Statement, bool) {
	p := cursor{s: strings.TrimSpace(line)}

	if !p.keyword("INSERT") {
		return Statement{}, false
	}
	p.skipSpace()
	if p.keyword("INTO") {
		p.skipSpace()
	}

	table, ok := p.tableName()
	if !ok {
		return Statement{}, false
	}
	p.skipSpace()

	if !p.consume('(') {
		return Statement{}, false
	}
	end := strings.IndexByte(p.rest(), ')')
	if end < 0 {
		return Statement{}, false
	}
	cols := p.rest()[:end]
	if strings.ContainsRune(cols, '(') {
		return Statement{}, false
	}
	p.i += end + 1

	start, ok := p.valuesOpen()
	if !ok {
		return Statement{}, false
	}
	last := strings.LastIndexByte(p.s, ')')
	if last < start {
		return Statement{}, false
	}

	return Statement{
		Table:   table,
		Columns: strings.TrimSpace(cols),
		Values:  p.s[start:last],
	}, true
}

// cursor is a tiny hand-rolled scanner over one logical line.
type cursor struct {
	s string
	i int
}

func (c *cursor) rest() string { return c.s[c.i:] }

func (c *cursor) skipSpace() {
	for c.i < len(c.s) && (c.s[c.i] == ' ' || c.s[c.i] == '\t') {
		c.i++
	}
}

func (c *cursor) consume(b byte) bool {
	if c.i < len(c.s) && c.s[c.i] == b {
		c.i++
		return true
	}
	return false
}

// keyword consumes kw (case-insensitive) when it is followed by a
// non-identifier character.
func (c *cursor) keyword(kw string) bool {
	r := c.rest()
	if len(r) < len(kw) || !strings.EqualFold(r[:len(kw)], kw) {
		return false
	}
	if len(r) > len(kw) {
		if b := r[len(kw)]; b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') {
			return false
		}
	}
	c.i += len(kw)
	return true
}

// tableName reads a dotted, optionally bracket-quoted name and returns its
// last segment. A single bare segment is rejected.
func (c *cursor) tableName() (string, bool) {
	var (
		parts   []string
		bracket bool
	)
	for {
		part, quoted, ok := c.identPart()
		if !ok {
			return "", false
		}
		parts = append(parts, part)
		bracket = bracket || quoted
		if !c.consume('.') {
			break
		}
	}
	if len(parts) > 3 || (len(parts) == 1 && !bracket) {
		return "", false
	}
	return parts[len(parts)-1], true
}

func (c *cursor) identPart() (name string, quoted, ok bool) {
	r := c.rest()
	if r == "" {
		return "", false, false
	}
	switch r[0] {
	case '[':
		end := strings.IndexByte(r, ']')
		if end <= 1 {
			return "", false, false
		}
		c.i += end + 1
		return r[1:end], true, true
	case '"':
		end := strings.IndexByte(r[1:], '"')
		if end <= 0 {
			return "", false, false
		}
		c.i += end + 2
		return r[1 : end+1], true, true
	}
	n := strings.IndexFunc(r, func(ch rune) bool {
		return !(ch == '_' || ch == '$' || ch == '#' || ch == '@' || unicode.IsLetter(ch) || unicode.IsDigit(ch))
	})
	if n == 0 {
		return "", false, false
	}
	if n < 0 {
		n = len(r)
	}
	c.i += n
	return r[:n], false, true
}

// valuesOpen finds the first VALUES keyword followed by optional space and an
// opening parenthesis, and returns the offset just past that parenthesis.
func (c *cursor) valuesOpen() (int, bool) {
	from := c.i
	for {
		k := indexFold(c.s[from:], "VALUES")
		if k < 0 {
			return 0, false
		}
		j := from + k + len("VALUES")
		for j < len(c.s) && (c.s[j] == ' ' || c.s[j] == '\t') {
			j++
		}
		if j < len(c.s) && c.s[j] == '(' {
			return j + 1, true
		}
		from = from + k + 1
	}
}

func indexFold(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
