package song

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Canonical field names. Every adapter maps its foreign field names onto
// these before a Song is constructed; no foreign name survives past
// construction.
const (
	FieldName        = "name"
	FieldArtist      = "artist"
	FieldLocation    = "location"
	FieldGenre       = "genre"
	FieldBPM         = "bpm"
	FieldRating      = "rating"
	FieldPlayedCount = "played_count"
	FieldYear        = "year"
	FieldDateAdded   = "date_added"
)

// canonicalFields is the set of field names a mapped key may resolve to.
// Keys resolving to anything else are dropped during construction.
var canonicalFields = map[string]bool{
	FieldName:        true,
	FieldArtist:      true,
	FieldLocation:    true,
	FieldGenre:       true,
	FieldBPM:         true,
	FieldRating:      true,
	FieldPlayedCount: true,
	FieldYear:        true,
	FieldDateAdded:   true,
}

// Song is the canonical, adapter-independent representation of one track.
// Rating is normalized to 0-100 (20 points per star). Zero values mean the
// optional field is absent. Songs are immutable once constructed.
type Song struct {
	Name        string
	Artist      string
	Location    string
	Genre       string
	BPM         int
	Rating      int
	PlayedCount int
	Year        int
	DateAdded   time.Time

	// RawDateAdded keeps the source's original timestamp text so a
	// writer can round-trip it unchanged.
	RawDateAdded string
}

// Schema describes how one adapter family normalizes its foreign records:
// a field-name table (identity for keys absent from it) and the timestamp
// layouts tried, in order, for the added-date field.
type Schema struct {
	Fields      map[string]string
	TimeLayouts []string
}

// normalizeKey lowercases a foreign key and replaces spaces with
// underscores before the table lookup, so "Play Count" and "play_count"
// resolve the same way.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
}

// Song constructs a canonical Song from a foreign record. Each key is
// resolved through the field table exactly once; keys that resolve to no
// canonical field are dropped. Missing required fields (name, artist,
// location) yield a NormalizationError. Failed casts on optional numeric
// or date fields fall back to the absent value so one malformed field
// never discards a record.
func (sc Schema) Song(record map[string]string) (Song, error) {
	var s Song
	for key, value := range record {
		field := normalizeKey(key)
		if mapped, ok := sc.Fields[field]; ok {
			field = mapped
		}
		if !canonicalFields[field] {
			continue
		}
		sc.assign(&s, field, value)
	}
	for _, required := range []string{FieldName, FieldArtist, FieldLocation} {
		if empty, _ := s.FieldEmpty(required); empty {
			return Song{}, &NormalizationError{Field: required}
		}
	}
	return s, nil
}

func (sc Schema) assign(s *Song, field, value string) {
	switch field {
	case FieldName:
		s.Name = value
	case FieldArtist:
		s.Artist = value
	case FieldLocation:
		s.Location = value
	case FieldGenre:
		s.Genre = value
	case FieldBPM:
		s.BPM = castInt(value)
	case FieldRating:
		s.Rating = clampRating(castInt(value))
	case FieldPlayedCount:
		s.PlayedCount = castInt(value)
	case FieldYear:
		s.Year = castInt(value)
	case FieldDateAdded:
		s.RawDateAdded = value
		s.DateAdded = sc.castTime(value)
	}
}

// castInt parses an integer value, falling back to 0 (absent) on failure.
func castInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

// castTime tries the schema's layouts in order, falling back to the zero
// time on failure. The raw text is kept separately either way.
func (sc Schema) castTime(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range sc.TimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func clampRating(r int) int {
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// FieldEmpty reports whether the named canonical field holds its absent
// value. The second result is false for unknown field names.
func (s Song) FieldEmpty(field string) (bool, bool) {
	switch normalizeKey(field) {
	case FieldName:
		return s.Name == "", true
	case FieldArtist:
		return s.Artist == "", true
	case FieldLocation:
		return s.Location == "", true
	case FieldGenre:
		return s.Genre == "", true
	case FieldBPM:
		return s.BPM == 0, true
	case FieldRating:
		return s.Rating == 0, true
	case FieldPlayedCount:
		return s.PlayedCount == 0, true
	case FieldYear:
		return s.Year == 0, true
	case FieldDateAdded:
		return s.DateAdded.IsZero() && s.RawDateAdded == "", true
	}
	return false, false
}

// WithoutFields returns a copy with the named canonical fields reset to
// their absent values. Unknown names are ignored. The receiver is not
// modified.
func (s Song) WithoutFields(fields []string) Song {
	out := s
	for _, field := range fields {
		switch normalizeKey(field) {
		case FieldName:
			out.Name = ""
		case FieldArtist:
			out.Artist = ""
		case FieldLocation:
			out.Location = ""
		case FieldGenre:
			out.Genre = ""
		case FieldBPM:
			out.BPM = 0
		case FieldRating:
			out.Rating = 0
		case FieldPlayedCount:
			out.PlayedCount = 0
		case FieldYear:
			out.Year = 0
		case FieldDateAdded:
			out.DateAdded = time.Time{}
			out.RawDateAdded = ""
		}
	}
	return out
}

// Stars renders the rating as repeated star glyphs, one per 20 points.
func (s Song) Stars() string {
	return strings.Repeat(starGlyph, s.Rating*maxStars/100)
}

// String renders a fixed-width, human-scannable line: artist, name, year
// and the star rating.
func (s Song) String() string {
	year := ""
	if s.Year > 0 {
		year = strconv.Itoa(s.Year)
	}
	return strings.TrimRight(fmt.Sprintf("%s - %-40s %-6s %s", s.Artist, s.Name, year, s.Stars()), " ")
}
