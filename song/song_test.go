package song

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var tunesSchema = Schema{
	Fields:      map[string]string{"play_count": "played_count"},
	TimeLayouts: []string{"2006-01-02T15:04:05Z"},
}

func TestSchema_Song_MapsForeignFields(t *testing.T) {
	record := map[string]string{
		"Name":       "Blue Monday",
		"Artist":     "New Order",
		"Location":   "file:///music/blue_monday.mp3",
		"Genre":      "Synth-pop",
		"Play Count": "42",
		"Rating":     "80",
		"Year":       "1983",
		"BPM":        "130",
		"Date Added": "2021-06-01T10:30:00Z",
	}

	s, err := tunesSchema.Song(record)
	if err != nil {
		t.Fatalf("Song() returned error: %v", err)
	}

	if s.Name != "Blue Monday" {
		t.Errorf("Expected name 'Blue Monday', got %q", s.Name)
	}
	if s.Artist != "New Order" {
		t.Errorf("Expected artist 'New Order', got %q", s.Artist)
	}
	if s.PlayedCount != 42 {
		t.Errorf("Expected played count 42, got %d", s.PlayedCount)
	}
	if s.Rating != 80 {
		t.Errorf("Expected rating 80, got %d", s.Rating)
	}
	if s.Year != 1983 {
		t.Errorf("Expected year 1983, got %d", s.Year)
	}
	if s.BPM != 130 {
		t.Errorf("Expected bpm 130, got %d", s.BPM)
	}
	want := time.Date(2021, 6, 1, 10, 30, 0, 0, time.UTC)
	if !s.DateAdded.Equal(want) {
		t.Errorf("Expected date added %v, got %v", want, s.DateAdded)
	}
	if s.RawDateAdded != "2021-06-01T10:30:00Z" {
		t.Errorf("Expected raw date to be retained, got %q", s.RawDateAdded)
	}
}

func TestSchema_Song_DropsUnknownForeignKeys(t *testing.T) {
	record := map[string]string{
		"Name":        "A",
		"Artist":      "X",
		"Location":    "/a.mp3",
		"Track ID":    "123",
		"Sample Rate": "44100",
	}

	s, err := tunesSchema.Song(record)
	if err != nil {
		t.Fatalf("Song() returned error: %v", err)
	}
	// Unknown keys must not leak into any canonical field.
	if s.Year != 0 || s.BPM != 0 || s.Rating != 0 || s.PlayedCount != 0 {
		t.Errorf("Unknown foreign keys leaked into canonical fields: %+v", s)
	}
}

func TestSchema_Song_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name    string
		record  map[string]string
		missing string
	}{
		{"no name", map[string]string{"Artist": "X", "Location": "/a.mp3"}, "name"},
		{"no artist", map[string]string{"Name": "A", "Location": "/a.mp3"}, "artist"},
		{"no location", map[string]string{"Name": "A", "Artist": "X"}, "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tunesSchema.Song(tt.record)
			var normErr *NormalizationError
			if !errors.As(err, &normErr) {
				t.Fatalf("Expected NormalizationError, got %v", err)
			}
			if normErr.Field != tt.missing {
				t.Errorf("Expected missing field %q, got %q", tt.missing, normErr.Field)
			}
		})
	}
}

func TestSchema_Song_OptionalCastFailureFallsBack(t *testing.T) {
	record := map[string]string{
		"Name":       "A",
		"Artist":     "X",
		"Location":   "/a.mp3",
		"Year":       "not-a-year",
		"Date Added": "yesterday",
	}

	s, err := tunesSchema.Song(record)
	if err != nil {
		t.Fatalf("Malformed optional field must not discard the record, got %v", err)
	}
	if s.Year != 0 {
		t.Errorf("Expected absent year after failed cast, got %d", s.Year)
	}
	if !s.DateAdded.IsZero() {
		t.Errorf("Expected absent date after failed cast, got %v", s.DateAdded)
	}
	if s.RawDateAdded != "yesterday" {
		t.Errorf("Expected raw date text retained, got %q", s.RawDateAdded)
	}
}

func TestSong_Stars(t *testing.T) {
	tests := []struct {
		rating int
		stars  int
	}{
		{0, 0},
		{20, 1},
		{50, 2},
		{80, 4},
		{100, 5},
	}

	for _, tt := range tests {
		s := Song{Rating: tt.rating}
		if got := strings.Count(s.Stars(), starGlyph); got != tt.stars {
			t.Errorf("Rating %d: expected %d stars, got %d", tt.rating, tt.stars, got)
		}
	}
}

func TestSong_String(t *testing.T) {
	s := Song{Name: "A", Artist: "X", Year: 1998, Rating: 80}
	out := s.String()
	if !strings.HasPrefix(out, "X - A") {
		t.Errorf("Expected 'artist - name' prefix, got %q", out)
	}
	if !strings.Contains(out, "1998") {
		t.Errorf("Expected year in rendering, got %q", out)
	}
	if strings.Count(out, starGlyph) != 4 {
		t.Errorf("Expected 4 stars in rendering, got %q", out)
	}
}

func TestSong_WithoutFields(t *testing.T) {
	s := Song{Name: "A", Artist: "X", Location: "/a.mp3", Rating: 80, Year: 1998}
	out := s.WithoutFields([]string{"rating", "year"})

	if out.Rating != 0 || out.Year != 0 {
		t.Errorf("Expected rating and year stripped, got %+v", out)
	}
	if out.Name != "A" || out.Location != "/a.mp3" {
		t.Errorf("Unlisted fields must survive, got %+v", out)
	}
	if s.Rating != 80 {
		t.Error("WithoutFields must not mutate the receiver")
	}
}
