package distill

import "strings"

// FormatName rewrites archive-style "Last, First" person names to
// "First Last". Parenthetical annotations are kept verbatim and never
// reordered; each text segment around them is reordered on its own first
// comma and the pieces are re-joined with single spaces:
//
//	"Χατζηγεωργίου, Γιώργος"       -> "Γιώργος Χατζηγεωργίου"
//	"Surname, First (Alias)"       -> "First Surname (Alias)"
//	"Μόνο"                         -> "Μόνο"
func FormatName(name string) string {
	var parts []string
	rest := name
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			parts = appendNonEmpty(parts, swapOnComma(rest))
			break
		}
		end := strings.IndexByte(rest[open:], ')')
		if end < 0 {
			// Unbalanced: treat the remainder as plain text.
			parts = appendNonEmpty(parts, swapOnComma(rest))
			break
		}
		end += open
		parts = appendNonEmpty(parts, swapOnComma(rest[:open]))
		parts = append(parts, rest[open:end+1])
		rest = rest[end+1:]
	}
	return strings.Join(parts, " ")
}

func swapOnComma(s string) string {
	s = strings.TrimSpace(s)
	last, first, ok := strings.Cut(s, ",")
	if !ok {
		return s
	}
	last, first = strings.TrimSpace(last), strings.TrimSpace(first)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

func appendNonEmpty(parts []string, s string) []string {
	if s == "" {
		return parts
	}
	return append(parts, s)
}

// ConvertArticle moves a trailing article marked with '#' to the front:
// "κούνιας – Ζητείται υπηρέτης#Το" -> "Το κούνιας – Ζητείται υπηρέτης".
// Without '#', the title is returned trimmed.
func ConvertArticle(title string) string {
	rest, article, ok := strings.Cut(title, "#")
	if !ok {
		return strings.TrimSpace(title)
	}
	rest, article = strings.TrimSpace(rest), strings.TrimSpace(article)
	if article == "" {
		return rest
	}
	if rest == "" {
		return article
	}
	return article + " " + rest
}
