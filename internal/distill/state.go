package distill

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// Person is a mini people row.
type Person struct {
	ID      int64
	Name    sql.NullString
	Country sql.NullString
	Birth   sql.NullString
	Death   sql.NullString
	URL     string
}

// Work is a mini works row.
type Work struct {
	ID            int64
	Title         string
	TitleOriginal sql.NullString
	Genre         sql.NullString
	Language      sql.NullString
	Year          sql.NullString
	URL           string
}

// RunPeriod is the start/end year pair aggregated over a play's published
// runs.
type RunPeriod struct {
	Start sql.NullInt64
	End   sql.NullInt64
}

// Venue holds a play's distinct organization names and countries, joined
// with VenueSeparator in first-seen order.
type Venue struct {
	Names     sql.NullString
	Countries sql.NullString
}

// Play is a mini plays row. Media is aligned with MediaCategories.
type Play struct {
	ID           int64
	Title        string
	URL          string
	Venue        sql.NullString
	VenueCountry sql.NullString
	YearStarted  sql.NullInt64
	YearEnded    sql.NullInt64
	DirectorID   sql.NullInt64
	Media        []sql.NullString
}

// Author is a mini authors row.
type Author struct {
	ID       int64
	WorkID   int64
	PersonID int64
}

// Actor is a mini actors row.
type Actor struct {
	ID          int64
	PlayID      int64
	PersonID    int64
	Protagonist int64
	Role        string
}

// PlayWork is a mini playworks row.
type PlayWork struct {
	PlayID int64
	WorkID int64
}

// Links are the join rows, already rewritten through the identity map and
// restricted to endpoints present in the mini store.
type Links struct {
	PlayWorks []PlayWork
	Authors   []Author
	Actors    []Actor
	// Dropped counts source rows per table that referenced an entity
	// missing from the mini store, or duplicated a row after rewriting.
	Dropped map[string]int
}

// state is shared by all passes. Each field is written by exactly one pass
// (its declared product) and read only by passes in later levels, so the
// level barrier in schedule orders every access.
type state struct {
	src  *sql.DB
	mini *sql.DB
	urls URLs
	log  *zap.Logger

	identity *IdentityMap
	people   []Person
	works    []Work
	runs     map[int64]RunPeriod
	venues   map[int64]Venue
	roles    map[int64]map[string]int64
	media    map[string]map[int64]bool
	plays    []Play
	links    Links
	written  map[string]int64

	relatedPlays int
}

// query runs q on the faithful store and hands every row to scan.
func (s *state) query(ctx context.Context, q string, scan func(*sql.Rows) error, args ...any) error {
	rows, err := s.src.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
