package song

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	starGlyph = "⭐"
	maxStars  = 5
)

// starsPattern matches the "N stars" token form, e.g. "3 stars".
var starsPattern = regexp.MustCompile(`^(\d+)\s+stars?$`)

type operandKind int

const (
	operandYear operandKind = iota + 1
	operandRating
	operandSong
)

// Operand is the tagged right-hand side of a song comparison: a release
// year, a decoded rating token, or another song. Each kind selects the
// field the comparison dispatches on.
type Operand struct {
	kind   operandKind
	year   int
	rating int
	song   Song
}

// ByYear builds an operand comparing by release year.
func ByYear(year int) Operand {
	return Operand{kind: operandYear, year: year}
}

// ByRating decodes a rating token into an operand comparing by rating.
// Valid tokens are a run of star glyphs ("⭐⭐⭐") or the "N stars" form;
// anything else is a CastError.
func ByRating(token string) (Operand, error) {
	stars, err := CountStars(token)
	if err != nil {
		return Operand{}, err
	}
	return Operand{kind: operandRating, rating: stars * 100 / maxStars}, nil
}

// BySong builds an operand comparing against another song by rating, with
// name as the tie-break.
func BySong(other Song) Operand {
	return Operand{kind: operandSong, song: other}
}

// CountStars decodes a rating token to its star count.
func CountStars(token string) (int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, &CastError{Field: FieldRating, Value: token}
	}
	if m := starsPattern.FindStringSubmatch(strings.ToLower(token)); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > maxStars {
			return 0, &CastError{Field: FieldRating, Value: token, Original: err}
		}
		return n, nil
	}
	if n := strings.Count(token, starGlyph); n > 0 && strings.Count(token, starGlyph)*len(starGlyph) == len(token) {
		if n > maxStars {
			return 0, &CastError{Field: FieldRating, Value: token}
		}
		return n, nil
	}
	return 0, &CastError{Field: FieldRating, Value: token, Original: fmt.Errorf("not a rating token")}
}

// Compare orders the song against the operand, returning -1, 0 or 1.
// Year operands compare by year, rating operands by rating, song operands
// by rating then name. The result is a strict weak order for each kind.
func (s Song) Compare(o Operand) int {
	switch o.kind {
	case operandYear:
		return compareInt(s.Year, o.year)
	case operandRating:
		return compareInt(s.Rating, o.rating)
	case operandSong:
		if c := compareInt(s.Rating, o.song.Rating); c != 0 {
			return c
		}
		return strings.Compare(s.Name, o.song.Name)
	}
	return 0
}

// Less reports whether the song orders before the operand.
func (s Song) Less(o Operand) bool {
	return s.Compare(o) < 0
}

// AtLeast reports whether the song orders at or after the operand.
func (s Song) AtLeast(o Operand) bool {
	return s.Compare(o) >= 0
}

// Equal reports whether the song orders the same as the operand.
func (s Song) Equal(o Operand) bool {
	return s.Compare(o) == 0
}

// SameTrack reports whether two songs describe the same track: name and
// artist match after case folding and whitespace normalization. This is
// the equality used to match records across sources that disagree on
// capitalization or padding.
func SameTrack(a, b Song) bool {
	an, aa := TrackKey(a)
	bn, ba := TrackKey(b)
	return an == bn && aa == ba
}

// TrackKey returns the folded name and artist that SameTrack compares,
// usable as a persistent match key by stores that upsert per track.
func TrackKey(s Song) (name, artist string) {
	return foldField(s.Name), foldField(s.Artist)
}

func foldField(v string) string {
	return strings.Join(strings.Fields(strings.ToLower(v)), " ")
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
