package distill

import "testing"

func TestFormatName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Χατζηγεωργίου, Γιώργος", "Γιώργος Χατζηγεωργίου"},
		{"Smith, John (Jr)", "John Smith (Jr)"},
		{"Κουν, Κάρολος (Karolos Koun), σκηνοθέτης", "Κάρολος Κουν (Karolos Koun) σκηνοθέτης"},
		{"(Ανώνυμος)", "(Ανώνυμος)"},
		{"Μόνο", "Μόνο"},
		{"  Last ,  First  ", "First Last"},
		{"Last,", "Last"},
		{", First", "First"},
		{"Open (unbalanced, paren", "paren Open (unbalanced"},
		{"", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := FormatName(tt.in); got != tt.want {
				t.Errorf("FormatName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvertArticle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"κούνιας – Ζητείται υπηρέτης#Το", "Το κούνιας – Ζητείται υπηρέτης"},
		{"Αγαπητέ #Ο ", "Ο Αγαπητέ"},
		{"  Άμλετ  ", "Άμλετ"},
		{"Τίτλος#", "Τίτλος"},
		{"#Η", "Η"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ConvertArticle(tt.in); got != tt.want {
			t.Errorf("ConvertArticle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestURLs(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"http://example.org", "http://example.org/"} {
		u := URLs{Base: base}
		checks := map[string]string{
			u.Play(7):                "http://example.org/play/7",
			u.Person(12):             "http://example.org/person/12",
			u.Work(3):                "http://example.org/work/3",
			u.Material(7, "posters"): "http://example.org/playmaterial/7#posters",
		}
		for got, want := range checks {
			if got != want {
				t.Errorf("base %q: got %q, want %q", base, got, want)
			}
		}
	}
}

func TestPeriodYears(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in          string
		first, last int64
		ok          bool
	}{
		{"1975", 1975, 1975, true},
		{"1975-1976", 1975, 1976, true},
		{"Χειμώνας 1978", 1978, 1978, true},
		{"Σεπτ. 1980 - Ιαν. 1981", 1980, 1981, true},
		{"2η περίοδος 1975", 1975, 1975, true},
		{"12/03/1975", 1975, 1975, true},
		{"1978 (2 παραστάσεις)", 1978, 1978, true},
		{"3 παραστάσεις", 0, 0, false},
		{"άγνωστο", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		f, okF := firstYear(tt.in)
		l, okL := lastYear(tt.in)
		if okF != tt.ok || okL != tt.ok || f != tt.first || l != tt.last {
			t.Errorf("%q: first=(%d,%v) last=(%d,%v), want (%d,%d,%v)", tt.in, f, okF, l, okL, tt.first, tt.last, tt.ok)
		}
	}
}
