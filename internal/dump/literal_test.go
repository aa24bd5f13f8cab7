package dump

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitList(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{in: "[a], [b] ,[c]", want: []string{"[a]", "[b]", "[c]"}},
		{in: "1, 'x, y', NULL", want: []string{"1", "'x, y'", "NULL"}},
		{in: "'it''s, fine', 2", want: []string{"'it''s, fine'", "2"}},
		{in: "CAST(12.50 AS Decimal(10, 2)), 3", want: []string{"CAST(12.50 AS Decimal(10, 2))", "3"}},
		{in: "'(τέλος;)', '3) 722'", want: []string{"'(τέλος;)'", "'3) 722'"}},
		{in: "", want: nil},
		{in: "   ", want: nil},
		{in: "'open, 1", wantErr: true},
		{in: "f(1, 2", wantErr: true},
		{in: "1), (2", wantErr: true},
	}
	for _, c := range cases {
		got, err := SplitList(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("SplitList(%q) err = %v, wantErr %v", c.in, err, c.wantErr)
		}
		if c.wantErr {
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("SplitList(%q) mismatch (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestParseLiteral(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tok     string
		want    any
		wantErr bool
	}{
		{tok: "NULL", want: nil},
		{tok: "null", want: nil},
		{tok: "'Ορέστης'", want: "Ορέστης"},
		{tok: "''", want: ""},
		{tok: "'it''s'", want: "it's"},
		{tok: "N'left over prefix'", want: "left over prefix"},
		{tok: "42", want: int64(42)},
		{tok: "-7", want: int64(-7)},
		{tok: "3.25", want: 3.25},
		{tok: "1e3", want: 1000.0},
		{tok: "0x0A1B", want: []byte{0x0a, 0x1b}},
		{tok: "'2023-03-15T12:48:59.843'", want: "2023-03-15T12:48:59.843"},
		{tok: "CAST(12.50 AS Decimal(10, 2))", wantErr: true},
		{tok: "Inf", wantErr: true},
		{tok: "'unterminated", wantErr: true},
		{tok: "'stray ' quote'", wantErr: true},
		{tok: "0xZZ", wantErr: true},
		{tok: "", wantErr: true},
		{tok: "1-2", wantErr: true},
	}
	for _, c := range cases {
		got, err := ParseLiteral(c.tok)
		if (err != nil) != c.wantErr {
			t.Fatalf("ParseLiteral(%q) err = %v, wantErr %v", c.tok, err, c.wantErr)
		}
		if c.wantErr {
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("ParseLiteral(%q) mismatch (-want +got):\n%s", c.tok, diff)
		}
	}
}

func TestColumnName(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"[playID]":   "playID",
		` "workID" `: "workID",
		"personID":   "personID",
		"[":          "[",
	} {
		if got := ColumnName(in); got != want {
			t.Errorf("ColumnName(%q) = %q, want %q", in, got, want)
		}
	}
}
