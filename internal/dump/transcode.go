package dump

import (
	"regexp"
	"strings"
)

// castDateTime matches a typed date cast wrapping an ISO-8601 literal with
// fractional seconds, e.g. CAST(N'2023-03-15T12:48:59.843' AS DateTime).
// The N prefix is optional so the rewrite does not depend on running before
// the national-prefix removal.
var castDateTime = regexp.MustCompile(
	`CAST\(N?'(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+)' AS DateTime2?\)`,
)

// strayToken is export noise that never carries data. Only this exact
// sequence is removed; "(;)" without the leading space and "(τέλος;)" stay.
const strayToken = " (;)"

// Transcode rewrites source-dialect literal syntax into portable SQL:
//
//	CAST(N'2023-03-15T12:48:59.843' AS DateTime) → '2023-03-15T12:48:59.843'
//	N'Ορέστης'                                   → 'Ορέστης'
//	" (;)"                                       → ""
func Transcode(s string) string {
	s = castDateTime.ReplaceAllString(s, `'$1'`)
	s = stripNationalPrefix(s)
	return strings.ReplaceAll(s, strayToken, "")
}

// stripNationalPrefix removes the N in N'...' when it sits outside a quoted
// literal and is not the tail of an identifier. Quote state is tracked with
// ” escapes, so text such as 'JOHN”S' is left untouched.
func stripNationalPrefix(s string) string {
	if !strings.Contains(s, "N'") {
		return s
	}
	var (
		b       strings.Builder
		inQuote bool
	)
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			b.WriteByte(c)
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					b.WriteByte('\'')
					i++
					continue
				}
				inQuote = false
			}
			continue
		}
		switch {
		case c == 'N' && i+1 < len(s) && s[i+1] == '\'' && (i == 0 || !isIdentByte(s[i-1])):
			// drop the prefix; the quote is handled on the next iteration
		case c == '\'':
			inQuote = true
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c == ']' || c == '"' ||
		('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
