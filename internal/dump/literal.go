package dump

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// SplitList splits a column or value list on top-level commas. Commas inside
// quoted strings (” escapes a quote) or nested parentheses do not split.
// Each element is trimmed. An empty list returns nil.
func SplitList(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		out     []string
		depth   int
		inQuote bool
		start   int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					i++
					continue
				}
				inQuote = false
			}
			continue
		}
		switch c {
		case '\'':
			inQuote = true
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("dump: unbalanced ')' at offset %d", i)
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if inQuote {
		return nil, fmt.Errorf("dump: unterminated string literal")
	}
	if depth != 0 {
		return nil, fmt.Errorf("dump: unbalanced '(' in list")
	}
	return append(out, strings.TrimSpace(s[start:])), nil
}

// ColumnName strips [..] or ".." quoting from a column token.
func ColumnName(tok string) string {
	tok = strings.TrimSpace(tok)
	if len(tok) >= 2 {
		if (tok[0] == '[' && tok[len(tok)-1] == ']') || (tok[0] == '"' && tok[len(tok)-1] == '"') {
			return tok[1 : len(tok)-1]
		}
	}
	return tok
}

// ParseLiteral converts one value token into a Go value suitable for
// parameter binding:
//
//	NULL          → nil
//	'text'        → string ('' unescaped)
//	42, -7        → int64
//	3.14, 1e-3    → float64
//	0x0A1B        → []byte
//
// Anything else is an error; the loader records it as a failed row.
func ParseLiteral(tok string) (any, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return nil, fmt.Errorf("dump: empty literal")
	}
	if strings.EqualFold(tok, "NULL") {
		return nil, nil
	}
	if tok[0] == 'N' && len(tok) > 1 && tok[1] == '\'' {
		tok = tok[1:]
	}
	if tok[0] == '\'' {
		return unquote(tok)
	}
	if len(tok) > 2 && (tok[:2] == "0x" || tok[:2] == "0X") {
		b, err := hex.DecodeString(tok[2:])
		if err != nil {
			return nil, fmt.Errorf("dump: bad binary literal %s: %w", clip(tok), err)
		}
		return b, nil
	}
	if !looksNumeric(tok) {
		return nil, fmt.Errorf("dump: unsupported literal %s", clip(tok))
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, fmt.Errorf("dump: bad numeric literal %s", clip(tok))
	}
	return f, nil
}

func unquote(tok string) (string, error) {
	if len(tok) < 2 || tok[len(tok)-1] != '\'' {
		return "", fmt.Errorf("dump: unterminated string literal %s", clip(tok))
	}
	inner := tok[1 : len(tok)-1]
	if !strings.Contains(inner, "'") {
		return inner, nil
	}
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\'' {
			if i+1 >= len(inner) || inner[i+1] != '\'' {
				return "", fmt.Errorf("dump: stray quote in string literal %s", clip(tok))
			}
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String(), nil
}

// looksNumeric rejects tokens ParseFloat would accept but the export never
// produces ("Inf", "NaN", hex floats).
func looksNumeric(tok string) bool {
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case '0' <= c && c <= '9':
		case c == '.', c == 'e', c == 'E':
		case (c == '-' || c == '+') && (i == 0 || tok[i-1] == 'e' || tok[i-1] == 'E'):
		default:
			return false
		}
	}
	return true
}

func clip(s string) string {
	const max = 64
	if r := []rune(s); len(r) > max {
		return strconv.Quote(string(r[:max]) + "…")
	}
	return strconv.Quote(s)
}
