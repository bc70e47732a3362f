// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package enrich

// categoryToGenre maps YouTube category ids to the genre labels used in
// reports. Ids outside this table, and events without resolved metadata,
// fall back to GenreOther.
var categoryToGenre = map[string]string{
	"1":  "Film",
	"2":  "Vehicles",
	"10": "Music",
	"15": "Animals",
	"17": "Sports",
	"18": "Shorts",
	"20": "Gaming",
	"22": "Vlogs",
	"23": "Comedy",
	"24": "Entertainment",
	"25": "News",
	"26": "Lifestyle",
	"27": "Education",
	"28": "Tech",
	"29": "Nonprofits",
}

// languageToRegion maps a video's default audio language to a viewer region.
// Lookup is exact (BCP-47 variants are distinct entries); unknown languages
// fall back to RegionUnknown.
var languageToRegion = map[string]string{
	"en":      "USA/UK",
	"en-US":   "USA",
	"en-GB":   "UK",
	"hi":      "India",
	"es":      "Spain/Mexico",
	"fr":      "France",
	"de":      "Germany",
	"ja":      "Japan",
	"ko":      "South Korea",
	"zh-Hans": "China",
	"zh-Hant": "Taiwan/Hong Kong",
	"pt":      "Portugal",
	"pt-BR":   "Brazil",
	"ru":      "Russia",
	"ar":      "Arab Countries",
	"ta":      "India (Tamil)",
	"te":      "India (Telugu)",
	"ml":      "India (Malayalam)",
	"mr":      "India (Marathi)",
	"bn":      "India/Bangladesh (Bengali)",
	"ur":      "Pakistan",
	"th":      "Thailand",
	"tr":      "Turkey",
	"vi":      "Vietnam",
	"id":      "Indonesia",
}

// Fallback labels for unmapped values.
const (
	GenreOther    = "Other"
	RegionUnknown = "Unknown"
)

// GenreForCategory resolves a category id to a genre label.
func GenreForCategory(categoryID string) string {
	if g, ok := categoryToGenre[categoryID]; ok {
		return g
	}
	return GenreOther
}

// RegionForLanguage resolves a default audio language to a region label.
func RegionForLanguage(lang string) string {
	if r, ok := languageToRegion[lang]; ok {
		return r
	}
	return RegionUnknown
}
