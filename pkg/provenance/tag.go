// Package provenance records how each house count was derived: the tag a
// record carries, the label it renders as, and an optional event history.
package provenance

import (
	"fmt"

	"golang.org/x/text/language"
)

// Tag identifies the derivation of a record's value.
type Tag string

// Tags in order of increasing derivation distance from the source data.
const (
	// TagSource is a value taken from the input as is.
	TagSource Tag = "source"
	// TagYear is a value apportioned by another year's house counts.
	TagYear Tag = "year"
	// TagYearSource is a source value split by a reference year's house counts.
	TagYearSource Tag = "year_source"
	// TagYearSurface is a split driven by area or by a reference year applied to an area-derived value.
	TagYearSurface Tag = "year_surface"
	// TagSurface is a value apportioned by area alone.
	TagSurface Tag = "surface"
	// TagCombination is a year-derived value split again by area.
	TagCombination Tag = "combination"
	// TagNoData marks a record no strategy could apportion.
	TagNoData Tag = "no_data"
)

// Tags lists every valid tag.
var Tags = []Tag{TagSource, TagYear, TagYearSource, TagYearSurface, TagSurface, TagCombination, TagNoData}

// String returns the tag identifier.
func (t Tag) String() string {
	return string(t)
}

// Valid reports whether t is one of the known tags.
func (t Tag) Valid() bool {
	for _, known := range Tags {
		if t == known {
			return true
		}
	}
	return false
}

// YearDerived reports whether the value was computed from another year's house counts.
func (t Tag) YearDerived() bool {
	return t == TagYear || t == TagYearSource
}

// UsesYear reports whether the label of t mentions a reference year.
func (t Tag) UsesYear() bool {
	switch t {
	case TagYear, TagYearSource, TagYearSurface, TagCombination:
		return true
	}
	return false
}

// Vocabulary holds the words provenance labels are assembled from.
type Vocabulary struct {
	Source  string `yaml:"source"`
	Year    string `yaml:"year"`
	Surface string `yaml:"surface"`
	NoData  string `yaml:"no_data"`
}

// English is the default label vocabulary.
var English = Vocabulary{
	Source:  "Source",
	Year:    "Year",
	Surface: "Surface",
	NoData:  "No data",
}

// Dutch matches the wording of the historical source tables.
var Dutch = Vocabulary{
	Source:  "Bron",
	Year:    "Jaar",
	Surface: "Oppervlakte",
	NoData:  "Geen gegevens",
}

var (
	vocabularyTags = []language.Tag{language.English, language.Dutch}
	vocabularies   = []Vocabulary{English, Dutch}
	matcher        = language.NewMatcher(vocabularyTags)
)

// VocabularyFor picks the vocabulary closest to the given BCP 47 language.
// Unknown or unparsable languages fall back to English.
func VocabularyFor(lang string) Vocabulary {
	tag, err := language.Parse(lang)
	if err != nil {
		return English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return English
	}
	return vocabularies[idx]
}

// Label renders a tag with the year it was computed from. year is ignored
// for tags whose label carries no year; a zero year falls back to the bare
// wording.
func (v Vocabulary) Label(t Tag, year int) string {
	if t.UsesYear() && year == 0 {
		t = t.withoutYear()
	}
	switch t {
	case TagSource:
		return v.Source
	case TagYear:
		return fmt.Sprintf("%s %d", v.Year, year)
	case TagYearSource:
		return fmt.Sprintf("%s %d: %s", v.Year, year, v.Source)
	case TagYearSurface:
		return fmt.Sprintf("%s %d: %s", v.Year, year, v.Surface)
	case TagSurface:
		return v.Surface
	case TagCombination:
		return fmt.Sprintf("%d + %s", year, v.Surface)
	default:
		return v.NoData
	}
}

func (t Tag) withoutYear() Tag {
	if t.YearDerived() {
		return TagSource
	}
	return TagSurface
}

// Label renders t with the English vocabulary.
func Label(t Tag, year int) string {
	return English.Label(t, year)
}
