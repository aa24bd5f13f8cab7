package file

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// LookupEncoding resolves an encoding name as written in configs and on the
// command line. Dash/underscore spellings of UTF-8 and UTF-16 are accepted
// ("utf-16-le", "UTF16LE", "utf_8"); anything else goes through the WHATWG
// label index ("windows-1253", "iso-8859-7", ...). Empty means UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	switch key {
	case "", "utf8":
		return unicode.UTF8, nil
	case "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	}
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}
