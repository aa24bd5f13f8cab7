package schema

// Mini table names, in write order.
const (
	People    = "people"
	Works     = "works"
	Plays     = "plays"
	PlayWorks = "playworks"
	Authors   = "authors"
	Actors    = "actors"
)

// Mini returns the denormalized public schema in creation order, so every
// referenced table exists before the tables pointing at it.
func Mini() []Table {
	return []Table{
		table(People, pk("personID"),
			notNull("personID", "INTEGER"),
			col("personName", "TEXT"),
			col("personCountry", "TEXT"),
			col("personDateBirth", "TEXT"),
			col("personDateDeath", "TEXT"),
			col("personURL", "TEXT"),
		),
		table(Works, pk("workID"),
			notNull("workID", "INTEGER"),
			notNull("workTitle", "TEXT"),
			col("workTitleOriginal", "TEXT"),
			col("workGenre", "TEXT"),
			col("workLanguage", "TEXT"),
			col("workYear", "TEXT"),
			col("workURL", "TEXT"),
		),
		table(Plays, pk("playID"),
			notNull("playID", "INTEGER"),
			notNull("playTitle", "TEXT"),
			col("playURL", "TEXT"),
			col("venue", "TEXT"),
			col("venueCountry", "TEXT"),
			col("yearStarted", "INTEGER"),
			col("yearEnded", "INTEGER"),
			col("directorID", "INTEGER"),
			col("photosURL", "TEXT"),
			col("publicationsURL", "TEXT"),
			col("programsURL", "TEXT"),
			col("soundsURL", "TEXT"),
			col("videosURL", "TEXT"),
			col("musicSheetsURL", "TEXT"),
			col("costumesURL", "TEXT"),
			col("postersURL", "TEXT"),
		),
		withFKs(table(PlayWorks, pk("playID", "workID"),
			notNull("playID", "INTEGER"),
			notNull("workID", "INTEGER"),
		),
			ForeignKey{Columns: []string{"playID"}, RefTable: Plays, RefColumns: []string{"playID"}, OnDelete: "CASCADE"},
			ForeignKey{Columns: []string{"workID"}, RefTable: Works, RefColumns: []string{"workID"}, OnDelete: "CASCADE"},
		),
		withFKs(table(Authors, pk("authorID"),
			notNull("authorID", "INTEGER"),
			notNull("workID", "INTEGER"),
			notNull("personID", "INTEGER"),
		),
			ForeignKey{Columns: []string{"workID"}, RefTable: Works, RefColumns: []string{"workID"}, OnDelete: "CASCADE"},
			ForeignKey{Columns: []string{"personID"}, RefTable: People, RefColumns: []string{"personID"}, OnDelete: "CASCADE"},
		),
		withFKs(table(Actors, pk("actorID"),
			notNull("actorID", "INTEGER"),
			notNull("playID", "INTEGER"),
			notNull("personID", "INTEGER"),
			col("protagonist", "INTEGER"),
			notNull("actorRole", "TEXT"),
		),
			ForeignKey{Columns: []string{"playID"}, RefTable: Plays, RefColumns: []string{"playID"}, OnDelete: "NO ACTION"},
			ForeignKey{Columns: []string{"personID"}, RefTable: People, RefColumns: []string{"personID"}, OnDelete: "NO ACTION"},
		),
	}
}

func withFKs(t Table, fks ...ForeignKey) Table {
	t.ForeignKeys = fks
	return t
}
