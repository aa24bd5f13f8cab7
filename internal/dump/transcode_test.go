package dump

import (
	"strings"
	"testing"
)

func TestTranscode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "national_prefix",
			in:   "VALUES (1, N'Ορέστης', N'')",
			want: "VALUES (1, 'Ορέστης', '')",
		},
		{
			name: "cast_datetime",
			in:   "0, NULL, CAST(N'2023-03-15T12:48:59.843' AS DateTime), 1",
			want: "0, NULL, '2023-03-15T12:48:59.843', 1",
		},
		{
			name: "cast_datetime2_without_prefix",
			in:   "CAST('2001-01-02T03:04:05.1234567' AS DateTime2)",
			want: "'2001-01-02T03:04:05.1234567'",
		},
		{
			name: "escaped_quote_inside_literal",
			in:   "N'JOHN''S', N'O''N'",
			want: "'JOHN''S', 'O''N'",
		},
		{
			name: "n_inside_literal_untouched",
			in:   "'SIGN''N''X'",
			want: "'SIGN''N''X'",
		},
		{
			name: "identifier_ending_in_n_untouched",
			in:   "abcN'x'",
			want: "abcN'x'",
		},
		{
			name: "stray_token_removed",
			in:   "N'Ορέστης (;)', 2",
			want: "'Ορέστης', 2",
		},
		{
			name: "genuine_parenthetical_semicolon_survives",
			in:   "N'3) 722 - 1065 (τέλος;).', N'(;)'",
			want: "'3) 722 - 1065 (τέλος;).', '(;)'",
		},
		{
			name: "cast_with_other_type_untouched",
			in:   "CAST(12.50 AS Decimal(10, 2))",
			want: "CAST(12.50 AS Decimal(10, 2))",
		},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if got := Transcode(c.in); got != c.want {
				t.Fatalf("Transcode(%q)\n got  %q\n want %q", c.in, got, c.want)
			}
		})
	}
}

// TestTranscode_RoundTrip re-wraps transcoded literals with the original
// prefix/cast syntax and expects the source text back.
func TestTranscode_RoundTrip(t *testing.T) {
	t.Parallel()

	strs := []string{"''", "'abc'", "'Χατζηγεωργίου, Γιώργος'", "'it''s'", "'N''x'"}
	for _, lit := range strs {
		orig := "N" + lit
		if got := "N" + Transcode(orig); got != orig {
			t.Errorf("national round trip: %q -> %q", orig, got)
		}
	}

	stamps := []string{"2023-03-15T12:48:59.843", "1999-12-31T23:59:59.9", "2000-01-01T00:00:00.000"}
	for _, ts := range stamps {
		orig := "CAST(N'" + ts + "' AS DateTime)"
		out := Transcode(orig)
		inner := strings.Trim(out, "'")
		if got := "CAST(N'" + inner + "' AS DateTime)"; got != orig {
			t.Errorf("cast round trip: %q -> %q -> %q", orig, out, got)
		}
	}
}

func TestTranscode_OrderIndependent(t *testing.T) {
	t.Parallel()

	in := "VALUES (N'a (;)', CAST(N'2023-03-15T12:48:59.843' AS DateTime))"
	a := Transcode(in)
	b := strings.ReplaceAll(castDateTime.ReplaceAllString(stripNationalPrefix(in), `'$1'`), strayToken, "")
	if a != b {
		t.Fatalf("rewrite order changed output:\n%q\n%q", a, b)
	}
}
