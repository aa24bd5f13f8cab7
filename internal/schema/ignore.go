package schema

import "sort"

// ignored lists source tables with no downstream use. Statements targeting
// them are skipped by the loader and never reach the faithful store.
var ignored = map[string]struct{}{
	"actorsCostumes": {}, "cmslogs": {}, "cmsUsers": {}, "contributorGroups": {},
	"costumes": {}, "costumesColors": {}, "costumesFabrics": {}, "costumesGenreColors": {},
	"costumesGenreFabrics": {}, "costumesGenreMaterials": {}, "costumesGenrePeriods": {},
	"costumesGenreTypes": {}, "costumesMaterials": {}, "costumesParts": {},
	"costumesPartsColors": {}, "costumesPartsMaterials": {}, "costumesPartsTypes": {},
	"costumesTypes": {}, "costumesGenreMaterialsGroups": {}, "costumesPartsTypesGroups": {},
	"costumesGenreTypesGroups": {}, "costumesGenreTypesGroupID": {}, "countries": {},
	"editors": {}, "errorLogs": {}, "filesPhotos": {}, "filesPrograms": {},
	"filesPublications": {}, "filesSounds": {}, "filesVideos": {}, "frontUsers": {},
	"geonames": {}, "hisPhotosPhotographers": {}, "hisPhotosTopics": {}, "hisPhotosTypes": {},
	"historicPhotos": {}, "historicPlaces": {}, "historicPlacesPhotos": {}, "languages_old": {},
	"music": {}, "musicOrchestrators": {}, "musicScoreFiles": {}, "musicScoreGenreInstruments": {},
	"musicScoresInstruments": {}, "musicScoresTypes": {}, "photosRepeats": {}, "photosTypes": {},
	"photosWorks": {}, "plays_new": {}, "postersCreators": {}, "postersLangs": {}, "posters": {},
	"postersRepeats": {}, "programs": {}, "programsLangs": {}, "programsRepeats": {},
	"programWorks": {}, "pubAuthors": {}, "pubMediums": {}, "pubsLangs": {}, "pubTypes": {},
	"pubsInDigital": {}, "repeatWorks": {}, "soundParts": {}, "soundTypes": {},
	"tempPhotoTrans": {}, "tempTransActorRoles": {}, "tempTransPubs": {},
	"tempTransHistoricPhotos": {}, "tempTransWorks": {}, "tempTransPlays": {}, "trans": {},
	"transCopy2": {}, "userFavorites": {}, "userHistory": {}, "videoParts": {}, "videoTypes": {},
	"worksGenreOrigin": {}, "worksGenrePeriod": {}, "worksGenreType": {}, "worksOrigins": {},
	"worksPeriods": {}, "worksTypes": {},
}

// Ignored reports whether statements for table are dropped. Matching is exact;
// the archive's table names are case-sensitive identifiers.
func Ignored(table string) bool {
	_, ok := ignored[table]
	return ok
}

// IgnoreList returns the ignored table names, sorted.
func IgnoreList() []string {
	out := make([]string, 0, len(ignored))
	for name := range ignored {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
