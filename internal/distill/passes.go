package distill

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"ntdump/internal/schema"
)

// Product names.
const (
	ProductIdentity = "identity"
	ProductPeople   = "people"
	ProductWorks    = "works"
	ProductRuns     = "runs"
	ProductVenues   = "venues"
	ProductRoles    = "roles"
	ProductMedia    = "media"
	ProductPlays    = "plays"
	ProductLinks    = "links"
	ProductMini     = "mini"
)

// VenueSeparator joins multiple venue names or countries.
const VenueSeparator = " # "

// Contributor roles kept from the contributors table.
const (
	RoleDirector = "Σκηνοθεσία"
	roleChoreo   = "Χορογραφία"
)

var (
	allowedRoles = []string{
		"Σκηνογραφία",
		"Ενδυματολόγος",
		RoleDirector,
		"Μουσική επιμέλεια",
		"Συνθέτης",
		roleChoreo,
		"Χορογράφος",
	}
	// roleAliases folds duplicate labels into their canonical role.
	roleAliases = map[string]string{"Χορογράφος": roleChoreo}
)

// MediaCategory describes one media-presence column of the plays table.
type MediaCategory struct {
	Fragment string   // URL fragment, e.g. "photos"
	Column   string   // mini plays column
	Sources  []string // faithful tables read
	query    string   // distinct playIDs with at least one qualifying row
}

// MediaCategories in plays column order. Categories whose source has a
// publication flag count published rows only; join-only tables have none.
var MediaCategories = []MediaCategory{
	{Fragment: "photos", Column: "photosURL", Sources: []string{"photos"},
		query: `SELECT DISTINCT playID FROM photos WHERE published = 1 AND playID IS NOT NULL`},
	{Fragment: "publications", Column: "publicationsURL", Sources: []string{"publications"},
		query: `SELECT DISTINCT playID FROM publications WHERE published = 1 AND playID IS NOT NULL`},
	{Fragment: "programs", Column: "programsURL", Sources: []string{"playPrograms"},
		query: `SELECT DISTINCT playID FROM playPrograms`},
	{Fragment: "sounds", Column: "soundsURL", Sources: []string{"sounds"},
		query: `SELECT DISTINCT playID FROM sounds WHERE published = 1 AND playID IS NOT NULL`},
	{Fragment: "videos", Column: "videosURL", Sources: []string{"videos"},
		query: `SELECT DISTINCT playID FROM videos WHERE published = 1 AND playID IS NOT NULL`},
	{Fragment: "music", Column: "musicSheetsURL", Sources: []string{"musicPlaysWorks", "musicScores"},
		query: `SELECT DISTINCT mpw.playID FROM musicPlaysWorks mpw
		        JOIN musicScores ms ON ms.musicID = mpw.musicID
		        WHERE ms.published = 1 AND mpw.playID IS NOT NULL`},
	{Fragment: "costumes", Column: "costumesURL", Sources: []string{"costumesPlays"},
		query: `SELECT DISTINCT playID FROM costumesPlays`},
	{Fragment: "posters", Column: "postersURL", Sources: []string{"postersPlays"},
		query: `SELECT DISTINCT playID FROM postersPlays`},
}

func src(tables ...string) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = SourcePrefix + t
	}
	return out
}

// Passes returns the distillation passes. The slice order is a valid
// topological order; Plan derives the actual levels.
func Passes() []Pass {
	var mediaReads []string
	for _, c := range MediaCategories {
		mediaReads = append(mediaReads, src(c.Sources...)...)
	}
	return []Pass{
		{Name: "identity", Reads: src("personToPerson"), Writes: []string{ProductIdentity}, Run: identityPass},
		{Name: "works", Reads: src("works"), Writes: []string{ProductWorks}, Run: worksPass},
		{Name: "runs", Reads: src("repeats"), Writes: []string{ProductRuns}, Run: runsPass},
		{Name: "venues", Reads: src("organizations", "repeatsOrgs", "repeats"), Writes: []string{ProductVenues}, Run: venuesPass},
		{Name: "media", Reads: mediaReads, Writes: []string{ProductMedia}, Run: mediaPass},
		{Name: "people", Reads: append(src("people"), ProductIdentity), Writes: []string{ProductPeople}, Run: peoplePass},
		{Name: "roles", Reads: append(src("contributors"), ProductIdentity), Writes: []string{ProductRoles}, Run: rolesPass},
		{Name: "plays", Reads: append(src("plays"), ProductRuns, ProductVenues, ProductRoles, ProductMedia),
			Writes: []string{ProductPlays}, Run: playsPass},
		{Name: "links", Reads: append(src("playWorks", "authors", "actors"), ProductIdentity, ProductPeople, ProductWorks, ProductPlays),
			Writes: []string{ProductLinks}, Run: linksPass},
		{Name: "write", Reads: []string{ProductPeople, ProductWorks, ProductPlays, ProductLinks},
			Writes: []string{ProductMini}, Run: writePass},
	}
}

func identityPass(ctx context.Context, s *state) error {
	var pairs []Pair
	err := s.query(ctx, `SELECT personID, relPersonID FROM personToPerson ORDER BY relID`, func(r *sql.Rows) error {
		var p Pair
		if err := r.Scan(&p.PersonID, &p.RelPersonID); err != nil {
			return err
		}
		pairs = append(pairs, p)
		return nil
	})
	if err != nil {
		return err
	}
	s.identity = BuildIdentityMap(pairs)
	if a := s.identity.Anomalies(); a != (Anomalies{}) {
		s.log.Warn("identity pairs skipped",
			zap.Int("self", a.SelfPairs), zap.Int("null", a.NullPairs), zap.Int("redundant", a.Redundant))
	}
	return nil
}

func peoplePass(ctx context.Context, s *state) error {
	return s.query(ctx, `SELECT personID, personName, personCountry, personDateBirth, personDateDeath
		FROM people WHERE published = 1 ORDER BY personID`, func(r *sql.Rows) error {
		var p Person
		if err := r.Scan(&p.ID, &p.Name, &p.Country, &p.Birth, &p.Death); err != nil {
			return err
		}
		if s.identity.Superseded(p.ID) {
			return nil
		}
		if p.Name.Valid {
			p.Name.String = FormatName(p.Name.String)
		}
		if p.Name.String == "" {
			s.log.Debug("person without name", zap.Int64("personID", p.ID))
		}
		p.URL = s.urls.Person(p.ID)
		s.people = append(s.people, p)
		return nil
	})
}

func worksPass(ctx context.Context, s *state) error {
	return s.query(ctx, `SELECT workID, workTitle, workTitleOriginal, workGenre, workLanguage, workYear
		FROM works WHERE published = 1 ORDER BY workID`, func(r *sql.Rows) error {
		var (
			w     Work
			title sql.NullString
		)
		if err := r.Scan(&w.ID, &title, &w.TitleOriginal, &w.Genre, &w.Language, &w.Year); err != nil {
			return err
		}
		w.Title = ConvertArticle(title.String)
		w.URL = s.urls.Work(w.ID)
		s.works = append(s.works, w)
		return nil
	})
}

func runsPass(ctx context.Context, s *state) error {
	s.runs = map[int64]RunPeriod{}
	return s.query(ctx, `SELECT playID, repeatPeriod1, repeatPeriod2
		FROM repeats WHERE published = 1 ORDER BY playID, repeatID`, func(r *sql.Rows) error {
		var (
			playID int64
			p1, p2 sql.NullString
		)
		if err := r.Scan(&playID, &p1, &p2); err != nil {
			return err
		}
		run := s.runs[playID]
		if y, ok := firstYear(p1.String); ok && (!run.Start.Valid || y < run.Start.Int64) {
			run.Start = sql.NullInt64{Int64: y, Valid: true}
		}
		if y, ok := lastYear(p2.String); ok && (!run.End.Valid || y > run.End.Int64) {
			run.End = sql.NullInt64{Int64: y, Valid: true}
		}
		s.runs[playID] = run
		return nil
	})
}

// firstYear and lastYear pick the first/last four-digit year in a period
// string such as "1975", "1975-1976", "12/03/1975" or "Χειμώνας 1975".
// Shorter or longer digit runs (days, ordinals, counts) are not years.
func firstYear(s string) (int64, bool) {
	years := yearTokens(s)
	if len(years) == 0 {
		return 0, false
	}
	return years[0], true
}

func lastYear(s string) (int64, bool) {
	years := yearTokens(s)
	if len(years) == 0 {
		return 0, false
	}
	return years[len(years)-1], true
}

func yearTokens(s string) []int64 {
	var out []int64
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r < '0' || r > '9' }) {
		if len(f) != 4 {
			continue
		}
		if n, err := strconv.ParseInt(f, 10, 64); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// venuesPass surfaces a venue only through a published run, so an
// unpublished repeat never leaks its organization onto a play.
func venuesPass(ctx context.Context, s *state) error {
	type acc struct{ names, countries []string }
	byPlay := map[int64]*acc{}
	err := s.query(ctx, `SELECT r.playID, o.orgName, o.orgCountry
		FROM organizations o
		JOIN repeatsOrgs ro ON o.orgID = ro.orgID
		JOIN repeats r ON ro.repeatID = r.repeatID
		WHERE o.published = 1 AND r.published = 1
		ORDER BY r.playID, r.repeatID, o.orgID`, func(r *sql.Rows) error {
		var (
			playID        int64
			name, country sql.NullString
		)
		if err := r.Scan(&playID, &name, &country); err != nil {
			return err
		}
		a := byPlay[playID]
		if a == nil {
			a = &acc{}
			byPlay[playID] = a
		}
		a.names = appendDistinct(a.names, name)
		a.countries = appendDistinct(a.countries, country)
		return nil
	})
	if err != nil {
		return err
	}
	s.venues = make(map[int64]Venue, len(byPlay))
	for id, a := range byPlay {
		s.venues[id] = Venue{Names: joinVenue(a.names), Countries: joinVenue(a.countries)}
	}
	return nil
}

func appendDistinct(list []string, v sql.NullString) []string {
	t := strings.TrimSpace(v.String)
	if !v.Valid || t == "" {
		return list
	}
	for _, x := range list {
		if x == t {
			return list
		}
	}
	return append(list, t)
}

func joinVenue(list []string) sql.NullString {
	if len(list) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(list, VenueSeparator), Valid: true}
}

func rolesPass(ctx context.Context, s *state) error {
	s.roles = map[int64]map[string]int64{}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(allowedRoles)), ", ")
	args := make([]any, len(allowedRoles))
	for i, r := range allowedRoles {
		args[i] = r
	}
	return s.query(ctx, `SELECT playID, personID, contributorType FROM contributors
		WHERE contributorType IN (`+placeholders+`) ORDER BY contributorsID`, func(r *sql.Rows) error {
		var (
			playID, personID int64
			role             string
		)
		if err := r.Scan(&playID, &personID, &role); err != nil {
			return err
		}
		if canon, ok := roleAliases[role]; ok {
			role = canon
		}
		m := s.roles[playID]
		if m == nil {
			m = map[string]int64{}
			s.roles[playID] = m
		}
		m[role] = s.identity.Resolve(personID)
		return nil
	}, args...)
}

func mediaPass(ctx context.Context, s *state) error {
	s.media = make(map[string]map[int64]bool, len(MediaCategories))
	for _, c := range MediaCategories {
		set := map[int64]bool{}
		err := s.query(ctx, c.query, func(r *sql.Rows) error {
			var id int64
			if err := r.Scan(&id); err != nil {
				return err
			}
			set[id] = true
			return nil
		})
		if err != nil {
			return err
		}
		s.media[c.Fragment] = set
	}
	return nil
}

func playsPass(ctx context.Context, s *state) error {
	return s.query(ctx, `SELECT playID, playTitle, relatedPlayID
		FROM plays WHERE published = 1 ORDER BY playID`, func(r *sql.Rows) error {
		var (
			p       Play
			title   sql.NullString
			related sql.NullInt64
		)
		if err := r.Scan(&p.ID, &title, &related); err != nil {
			return err
		}
		if related.Valid && related.Int64 != 0 {
			s.relatedPlays++
			s.log.Info("play repeats an earlier production",
				zap.Int64("playID", p.ID), zap.Int64("relatedPlayID", related.Int64))
		}
		p.Title = ConvertArticle(title.String)
		p.URL = s.urls.Play(p.ID)
		v := s.venues[p.ID]
		p.Venue, p.VenueCountry = v.Names, v.Countries
		run := s.runs[p.ID]
		p.YearStarted, p.YearEnded = run.Start, run.End
		if d, ok := s.roles[p.ID][RoleDirector]; ok {
			p.DirectorID = sql.NullInt64{Int64: d, Valid: true}
		}
		p.Media = make([]sql.NullString, len(MediaCategories))
		for i, c := range MediaCategories {
			if s.media[c.Fragment][p.ID] {
				p.Media[i] = sql.NullString{String: s.urls.Material(p.ID, c.Fragment), Valid: true}
			}
		}
		s.plays = append(s.plays, p)
		return nil
	})
}

func linksPass(ctx context.Context, s *state) error {
	people := make(map[int64]bool, len(s.people))
	for _, p := range s.people {
		people[p.ID] = true
	}
	works := make(map[int64]bool, len(s.works))
	for _, w := range s.works {
		works[w.ID] = true
	}
	plays := make(map[int64]bool, len(s.plays))
	for _, p := range s.plays {
		plays[p.ID] = true
	}
	l := Links{Dropped: map[string]int{}}

	seenPW := map[PlayWork]bool{}
	err := s.query(ctx, `SELECT playID, workID FROM playWorks ORDER BY playID, workID, playWorksID`, func(r *sql.Rows) error {
		var pw PlayWork
		if err := r.Scan(&pw.PlayID, &pw.WorkID); err != nil {
			return err
		}
		if !plays[pw.PlayID] || !works[pw.WorkID] || seenPW[pw] {
			l.Dropped[schema.PlayWorks]++
			return nil
		}
		seenPW[pw] = true
		l.PlayWorks = append(l.PlayWorks, pw)
		return nil
	})
	if err != nil {
		return err
	}

	seenAuthor := map[[2]int64]bool{}
	err = s.query(ctx, `SELECT authorID, workID, personID FROM authors ORDER BY authorID`, func(r *sql.Rows) error {
		var a Author
		if err := r.Scan(&a.ID, &a.WorkID, &a.PersonID); err != nil {
			return err
		}
		a.PersonID = s.identity.Resolve(a.PersonID)
		key := [2]int64{a.WorkID, a.PersonID}
		if !works[a.WorkID] || !people[a.PersonID] || seenAuthor[key] {
			l.Dropped[schema.Authors]++
			return nil
		}
		seenAuthor[key] = true
		l.Authors = append(l.Authors, a)
		return nil
	})
	if err != nil {
		return err
	}

	type actorKey struct {
		play, person int64
		role         string
	}
	seenActor := map[actorKey]bool{}
	err = s.query(ctx, `SELECT actorID, playID, personID, actorRank, actorRole FROM actors ORDER BY actorID`, func(r *sql.Rows) error {
		var (
			a    Actor
			rank sql.NullInt64
			role sql.NullString
		)
		if err := r.Scan(&a.ID, &a.PlayID, &a.PersonID, &rank, &role); err != nil {
			return err
		}
		a.PersonID = s.identity.Resolve(a.PersonID)
		a.Role = strings.TrimFunc(role.String, unicode.IsSpace)
		if rank.Valid && rank.Int64 == 1 {
			a.Protagonist = 1
		}
		key := actorKey{a.PlayID, a.PersonID, a.Role}
		if !plays[a.PlayID] || !people[a.PersonID] || seenActor[key] {
			l.Dropped[schema.Actors]++
			return nil
		}
		seenActor[key] = true
		l.Actors = append(l.Actors, a)
		return nil
	})
	if err != nil {
		return err
	}
	s.links = l
	return nil
}
