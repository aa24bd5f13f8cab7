package schema

func col(name, typ string) Column     { return Column{Name: name, Type: typ} }
func notNull(name, typ string) Column { return Column{Name: name, Type: typ, NotNull: true} }

// serial is an INTEGER PRIMARY KEY AUTOINCREMENT column; the dump supplies
// explicit values so the sequence only matters for rows added later.
func serial(name string) Column {
	return Column{Name: name, Type: "INTEGER", NotNull: true, AutoIncrement: true}
}

func table(name string, pk []string, cols ...Column) Table {
	return Table{Name: name, Columns: cols, PrimaryKey: pk}
}

func pk(cols ...string) []string { return cols }

// Faithful returns the pruned copy of the archive schema, in creation order.
// Every source table not listed here is either on the ignore list or
// unknown; statements targeting an unknown table fail per row.
func Faithful() []Table {
	return []Table{
		table("actors", pk("actorID"),
			serial("actorID"),
			notNull("playID", "INTEGER"),
			notNull("personID", "INTEGER"),
			notNull("actorRank", "INTEGER"),
			col("workID", "INTEGER"),
			col("actorRole", "TEXT"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("authors", pk("authorID"),
			serial("authorID"),
			notNull("workID", "INTEGER"),
			notNull("personID", "INTEGER"),
			notNull("authorRank", "INTEGER"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("companies", pk("companyID"),
			serial("companyID"),
			col("description", "TEXT"),
			col("published", "SMALLINT"),
			col("modified", "DATETIME"),
			col("created", "DATETIME"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("contributors", pk("contributorsID"),
			serial("contributorsID"),
			notNull("playID", "INTEGER"),
			notNull("personID", "INTEGER"),
			notNull("contributorRank", "INTEGER"),
			col("workID", "INTEGER"),
			col("contributorType", "TEXT"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("contriTypeID", "INTEGER"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("contributorTypes", pk("contriTypeID"),
			serial("contriTypeID"),
			col("descr", "TEXT"),
			col("lexiconURL", "TEXT"),
			col("contriGroupID", "INTEGER"),
		),
		table("coproducers", pk("coprodplayID"),
			serial("coprodplayID"),
			notNull("orgID", "INTEGER"),
			notNull("playID", "INTEGER"),
			col("coproducerRank", "INTEGER"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("costumesPlays", pk("costumePlayID"),
			serial("costumePlayID"),
			notNull("costumeID", "INTEGER"),
			notNull("playID", "INTEGER"),
		),
		table("languages", pk("languageID"),
			serial("languageID"),
			col("langtxt", "TEXT"),
			col("lexiconURL", "TEXT"),
		),
		table("musicComposers", pk("musicComposerID"),
			serial("musicComposerID"),
			notNull("musicID", "INTEGER"),
			notNull("personID", "INTEGER"),
			col("musicComposerRank", "INTEGER"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("musicGenres", pk("musicGenreID"),
			serial("musicGenreID"),
			col("descr", "TEXT"),
			col("lexiconURL", "TEXT"),
		),
		table("musicPlaysWorks", nil,
			col("musicID", "INTEGER"),
			col("playID", "INTEGER"),
			col("workID", "INTEGER"),
		),
		table("musicScores", pk("musicScoreID"),
			serial("musicScoreID"),
			col("musicID", "INTEGER"),
			col("musicScoreRank", "INTEGER"),
			col("musicScoreFilePrefix", "VARCHAR(50)"),
			col("musicScoreType", "NVARCHAR(255)"),
			col("musicScoreTypeID", "INTEGER"),
			col("musicScoreInstruments", "NVARCHAR(255)"),
			col("musicScoreDescription", "NVARCHAR(4000)"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("published", "INTEGER"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("organizations", pk("orgID"),
			serial("orgID"),
			col("orgName", "NVARCHAR(255)"),
			col("orgAddress", "NVARCHAR(255)"),
			col("orgCity", "NVARCHAR(255)"),
			col("orgCountry", "NVARCHAR(255)"),
			col("orgHistory", "NVARCHAR(255)"),
			col("orgNotes", "NVARCHAR(3500)"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("published", "INTEGER"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("people", pk("personID"),
			serial("personID"),
			col("personName", "NVARCHAR(500)"),
			col("personNameOriginal", "NVARCHAR(255)"),
			col("personNamesOther", "NVARCHAR(255)"),
			col("personCountry", "NVARCHAR(255)"),
			col("personDateBirth", "VARCHAR(100)"),
			col("personDateDeath", "VARCHAR(100)"),
			col("personNotes", "TEXT"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("edm", "NVARCHAR(250)"),
			col("published", "INTEGER"),
			col("cmsCreatorID", "INTEGER"),
			col("saved", "SMALLINT"),
			col("lexiconURL", "NVARCHAR(1000)"),
		),
		table("personToPerson", pk("relID"),
			notNull("relID", "INTEGER"),
			col("personID", "INTEGER"),
			col("relPersonID", "INTEGER"),
		),
		table("photos", pk("photoID"),
			serial("photoID"),
			col("playID", "INTEGER"),
			col("workIDstr", "VARCHAR(500)"),
			col("repeatStr", "VARCHAR(500)"),
			col("photoRank", "INTEGER"),
			col("photoFile", "VARCHAR(255)"),
			col("photoDate", "VARCHAR(100)"),
			col("photographer", "NVARCHAR(255)"),
			col("photoType", "NVARCHAR(255)"),
			col("photoTypeID", "INTEGER"),
			col("hasColor", "INTEGER"),
			col("photoCaption", "NVARCHAR(255)"),
			col("photoNotes", "NVARCHAR(1500)"),
			col("photoDescription", "NVARCHAR(2000)"),
			col("tech_resolution", "NVARCHAR(500)"),
			col("tech_depth", "NVARCHAR(500)"),
			col("tech_dimensions", "NVARCHAR(500)"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("published", "INTEGER"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("playPrograms", pk("playProgramID"),
			serial("playProgramID"),
			notNull("playID", "INTEGER"),
			notNull("programID", "INTEGER"),
			col("programRank", "INTEGER"),
			col("repeatStr", "VARCHAR(500)"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("plays", pk("playID"),
			serial("playID"),
			col("playTitle", "NVARCHAR(255)"),
			col("playCompany", "NVARCHAR(255)"),
			col("playGenre", "VARCHAR(255)"),
			col("playGenreID", "INTEGER"),
			col("playType", "VARCHAR(255)"),
			col("playTypeID", "INTEGER"),
			col("playNotes", "NVARCHAR(3000)"),
			col("companyID", "INTEGER"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("published", "SMALLINT"),
			col("cmsCreatorID", "INTEGER"),
			col("playOrgTemp", "NVARCHAR(500)"),
			col("playSceneTemp", "NVARCHAR(500)"),
			col("relatedPlayID", "INTEGER"),
		),
		table("playWorks", pk("playWorksID"),
			serial("playWorksID"),
			notNull("playID", "INTEGER"),
			notNull("workID", "INTEGER"),
			notNull("workRank", "INTEGER"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("postersPlays", pk("posterPlayID"),
			serial("posterPlayID"),
			notNull("posterID", "INTEGER"),
			notNull("playID", "INTEGER"),
		),
		table("producers", nil,
			notNull("playID", "INTEGER"),
			notNull("orgID", "INTEGER"),
			notNull("producerRank", "INTEGER"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
		),
		table("publications", pk("pubID"),
			serial("pubID"),
			col("playID", "INTEGER"),
			col("workIDstr", "VARCHAR(500)"),
			col("repeatStr", "VARCHAR(500)"),
			col("pubRank", "INTEGER"),
			col("pubFile", "VARCHAR(255)"),
			col("pubTitle", "NVARCHAR(500)"),
			col("pubDate", "VARCHAR(255)"),
			col("pubMediumID", "INTEGER"),
			col("pubName", "NVARCHAR(255)"),
			col("pubTypeID", "INTEGER"),
			col("pubColumn", "NVARCHAR(255)"),
			col("pubPictures", "VARCHAR(50)"),
			col("isURL", "SMALLINT"),
			col("pubURL", "VARCHAR(500)"),
			col("pubNotes", "NVARCHAR(3500)"),
			notNull("pubReviewedFlag", "BOOLEAN"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("published", "SMALLINT"),
			col("textcontent", "TEXT"),
			col("cmsCreatorID", "INTEGER"),
			col("repeatID", "INTEGER"),
		),
		table("repeats", pk("repeatID"),
			serial("repeatID"),
			notNull("playID", "INTEGER"),
			col("repeatPeriod1", "VARCHAR(50)"),
			col("repeatPeriod2", "VARCHAR(50)"),
			col("repeatDateStart", "VARCHAR(50)"),
			col("repeatDateEnd", "VARCHAR(50)"),
			col("repeatRank", "INTEGER"),
			col("repeatNotes", "NVARCHAR(3500)"),
			col("published", "SMALLINT"),
			col("modified", "DATETIME"),
			col("created", "DATETIME"),
			col("cmsCreatorID", "INTEGER"),
			col("saved", "SMALLINT"),
		),
		table("repeatsOrgs", pk("repeatID", "orgID"),
			notNull("repeatID", "INTEGER"),
			notNull("orgID", "INTEGER"),
		),
		table("sounds", pk("soundID"),
			serial("soundID"),
			col("playID", "INTEGER"),
			col("workIDstr", "VARCHAR(500)"),
			col("repeatStr", "VARCHAR(500)"),
			col("soundRank", "INTEGER"),
			col("soundFile", "VARCHAR(255)"),
			col("soundDate", "VARCHAR(100)"),
			col("soundPerson", "NVARCHAR(255)"),
			col("soundType", "NVARCHAR(255)"),
			col("soundTime", "VARCHAR(100)"),
			col("soundCaption", "NVARCHAR(255)"),
			col("soundNotes", "NVARCHAR(1500)"),
			col("soundDescription", "NVARCHAR(2000)"),
			notNull("soundReviewedFlag", "BOOLEAN"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("published", "SMALLINT"),
			col("soundTypeID", "INTEGER"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("translators", pk("translatorID"),
			serial("translatorID"),
			notNull("workID", "INTEGER"),
			notNull("personID", "INTEGER"),
			notNull("translatorRank", "INTEGER"),
			col("cmsCreatorID", "INTEGER"),
		),
		table("videos", pk("videoID"),
			serial("videoID"),
			col("playID", "INTEGER"),
			col("workIDstr", "VARCHAR(255)"),
			col("repeatStr", "VARCHAR(500)"),
			col("videoRank", "INTEGER"),
			col("videoFile", "VARCHAR(255)"),
			col("videoDate", "VARCHAR(100)"),
			col("videoPerson", "NVARCHAR(255)"),
			col("videoType", "NVARCHAR(255)"),
			col("videoTime", "VARCHAR(100)"),
			col("videoCaption", "NVARCHAR(255)"),
			col("videoNotes", "NVARCHAR(1500)"),
			col("videoDescription", "NVARCHAR(2000)"),
			notNull("videoReviewedFlag", "BIT"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("published", "SMALLINT"),
			col("videoTypeID", "INTEGER"),
			col("cmsCreatorID", "INTEGER"),
			col("isURL", "TINYINT"),
		),
		table("works", pk("workID"),
			serial("workID"),
			col("workTitle", "NVARCHAR(255)"),
			col("workTitleOriginal", "NVARCHAR(255)"),
			col("workGenre", "NVARCHAR(255)"),
			col("workLanguage", "NVARCHAR(200)"),
			col("workYear", "NVARCHAR(100)"),
			col("workNotes", "NVARCHAR(3000)"),
			col("isTheoritical", "SMALLINT"),
			col("sourceTheoritical", "NVARCHAR(1000)"),
			col("modified", "DATETIME"),
			notNull("created", "DATETIME"),
			col("published", "SMALLINT"),
			col("cmsCreatorID", "INTEGER"),
			col("saved", "SMALLINT"),
		),
	}
}
