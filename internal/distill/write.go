package distill

import (
	"context"
	"fmt"

	"ntdump/internal/schema"
	"ntdump/internal/storage/sqlite"
)

// writePass stores every product in the mini store inside one transaction,
// referenced tables first, each table in primary-key order. A failure rolls
// the whole mini store back to empty.
func writePass(ctx context.Context, s *state) error {
	tables := schema.Index(schema.Mini())
	batches := []struct {
		table string
		rows  [][]any
	}{
		{schema.People, peopleRows(s.people)},
		{schema.Works, workRows(s.works)},
		{schema.Plays, playRows(s.plays)},
		{schema.PlayWorks, playWorkRows(s.links.PlayWorks)},
		{schema.Authors, authorRows(s.links.Authors)},
		{schema.Actors, actorRows(s.links.Actors)},
	}

	tx, err := s.mini.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	written := make(map[string]int64, len(batches))
	for _, b := range batches {
		if len(b.rows) == 0 {
			written[b.table] = 0
			continue
		}
		n, err := sqlite.InsertRows(ctx, tx, b.table, tables[b.table].ColumnNames(), b.rows)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		written[b.table] = n
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.written = written
	return nil
}

func peopleRows(people []Person) [][]any {
	out := make([][]any, len(people))
	for i, p := range people {
		out[i] = []any{p.ID, p.Name, p.Country, p.Birth, p.Death, p.URL}
	}
	return out
}

func workRows(works []Work) [][]any {
	out := make([][]any, len(works))
	for i, w := range works {
		out[i] = []any{w.ID, w.Title, w.TitleOriginal, w.Genre, w.Language, w.Year, w.URL}
	}
	return out
}

func playRows(plays []Play) [][]any {
	out := make([][]any, len(plays))
	for i, p := range plays {
		row := []any{p.ID, p.Title, p.URL, p.Venue, p.VenueCountry, p.YearStarted, p.YearEnded, p.DirectorID}
		for _, m := range p.Media {
			row = append(row, m)
		}
		out[i] = row
	}
	return out
}

func playWorkRows(links []PlayWork) [][]any {
	out := make([][]any, len(links))
	for i, l := range links {
		out[i] = []any{l.PlayID, l.WorkID}
	}
	return out
}

func authorRows(authors []Author) [][]any {
	out := make([][]any, len(authors))
	for i, a := range authors {
		out[i] = []any{a.ID, a.WorkID, a.PersonID}
	}
	return out
}

func actorRows(actors []Actor) [][]any {
	out := make([][]any, len(actors))
	for i, a := range actors {
		out[i] = []any{a.ID, a.PlayID, a.PersonID, a.Protagonist, a.Role}
	}
	return out
}
