package distill

import (
	"strconv"
	"strings"
)

// DefaultBaseURL is the archive's public site.
const DefaultBaseURL = "http://194.177.217.106/"

// URLs synthesizes canonical entity and media links under Base.
type URLs struct {
	Base string
}

func (u URLs) join(kind string, id int64) string {
	return strings.TrimRight(u.Base, "/") + "/" + kind + "/" + strconv.FormatInt(id, 10)
}

// Play returns <base>/play/<id>.
func (u URLs) Play(id int64) string { return u.join("play", id) }

// Person returns <base>/person/<id>.
func (u URLs) Person(id int64) string { return u.join("person", id) }

// Work returns <base>/work/<id>.
func (u URLs) Work(id int64) string { return u.join("work", id) }

// Material returns <base>/playmaterial/<id>#<fragment>.
func (u URLs) Material(id int64, fragment string) string {
	return u.join("playmaterial", id) + "#" + fragment
}
