package spotify

import (
	"errors"
	"os"
	"testing"

	"github.com/sv4u/spotigo"

	"github.com/engdan77/music-meta-manager/adapter"
)

func TestNew_Validation(t *testing.T) {
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")

	if _, err := New("", "id", "secret", 0); err == nil {
		t.Error("expected error for empty playlist")
	}
	if _, err := New("37i9dQZF1DXcBWIGoYBM5M", "", "", 0); err == nil {
		t.Error("expected error for missing credentials")
	}
}

func TestNew_CredentialsFromEnvironment(t *testing.T) {
	t.Setenv(EnvClientID, "env-id")
	t.Setenv(EnvClientSecret, "env-secret")

	r, err := New("37i9dQZF1DXcBWIGoYBM5M", "", "", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.clientID != "env-id" || r.clientSecret != "env-secret" {
		t.Errorf("credentials not taken from environment: %q / %q", r.clientID, r.clientSecret)
	}
}

func TestTrackRecord(t *testing.T) {
	full := spotigo.Track{
		ID:   "track1",
		Name: "Blue Monday",
		Artists: []spotigo.Artist{
			{Name: "New Order"},
			{Name: "Someone Else"},
		},
		ExternalURLs: &spotigo.ExternalURLs{
			Spotify: "https://open.spotify.com/track/track1",
		},
	}

	record, ok := trackRecord(spotigo.PlaylistTrack{Track: full})
	if !ok {
		t.Fatal("expected a record for a full track")
	}
	if record["name"] != "Blue Monday" {
		t.Errorf("name = %q", record["name"])
	}
	if record["artist"] != "New Order" {
		t.Errorf("artist = %q, want first artist only", record["artist"])
	}
	if record["location"] != "https://open.spotify.com/track/track1" {
		t.Errorf("location = %q", record["location"])
	}

	// Pointer form carries the same fields.
	record2, ok := trackRecord(spotigo.PlaylistTrack{Track: &full})
	if !ok {
		t.Fatal("expected a record for a *Track")
	}
	if record2["name"] != record["name"] || record2["artist"] != record["artist"] {
		t.Errorf("pointer and value extraction differ: %v vs %v", record2, record)
	}
}

func TestTrackRecord_Simplified(t *testing.T) {
	simplified := spotigo.SimplifiedTrack{
		ID:      "track2",
		Name:    "Age of Consent",
		Artists: []spotigo.SimplifiedArtist{{Name: "New Order"}},
	}

	record, ok := trackRecord(spotigo.PlaylistTrack{Track: simplified})
	if !ok {
		t.Fatal("expected a record for a simplified track")
	}
	if record["name"] != "Age of Consent" {
		t.Errorf("name = %q", record["name"])
	}
	if _, present := record["year"]; present {
		t.Error("simplified tracks have no album, year should be absent")
	}
}

func TestTrackRecord_Dropped(t *testing.T) {
	dropped := []spotigo.PlaylistTrack{
		{Track: spotigo.Track{Name: "Local File", IsLocal: true}},
		{Track: (*spotigo.Track)(nil)},
		{Track: nil},
	}
	for i, item := range dropped {
		if _, ok := trackRecord(item); ok {
			t.Errorf("item %d: expected entry to be dropped", i)
		}
	}
}

func TestReleaseYear(t *testing.T) {
	cases := []struct {
		release string
		want    string
	}{
		{"1983-05-02", "1983"},
		{"1983-05", "1983"},
		{"1983", "1983"},
		{"", ""},
		{"83", ""},
	}
	for _, c := range cases {
		if got := releaseYear(c.release); got != c.want {
			t.Errorf("releaseYear(%q) = %q, want %q", c.release, got, c.want)
		}
	}
}

func TestDescriptors(t *testing.T) {
	descs := Descriptors()
	if len(descs) != 1 {
		t.Fatalf("expected 1 descriptor, got %d", len(descs))
	}
	d := descs[0]
	if d.Name != Name || d.Kind != adapter.KindReader {
		t.Errorf("descriptor = %s/%s", d.Name, d.Kind)
	}
	if d.NewReader == nil || d.NewWriter != nil {
		t.Error("reader descriptor must carry exactly a reader constructor")
	}
	var playlist *adapter.Param
	for i := range d.Params {
		if d.Params[i].Name == "playlist" {
			playlist = &d.Params[i]
		}
	}
	if playlist == nil || !playlist.Required {
		t.Error("playlist parameter must exist and be required")
	}
}

// TestReader_Playlist hits the live API and needs real credentials plus
// a playlist to read.
func TestReader_Playlist(t *testing.T) {
	clientID := os.Getenv(EnvClientID)
	clientSecret := os.Getenv(EnvClientSecret)
	playlist := os.Getenv("SPOTIFY_TEST_PLAYLIST")
	if clientID == "" || clientSecret == "" || playlist == "" {
		t.Skip("SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and SPOTIFY_TEST_PLAYLIST required for live playlist test")
	}

	r, err := New(playlist, clientID, clientSecret, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	count := 0
	for {
		s, err := r.Next()
		if errors.Is(err, adapter.ErrEndOfSource) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if s.Name == "" || s.Artist == "" {
			t.Errorf("track %d missing name or artist: %+v", count+1, s)
		}
		count++
	}
	if count == 0 {
		t.Error("expected at least one track from the test playlist")
	}
	if count > 5 {
		t.Errorf("limit 5 not honored, read %d tracks", count)
	}
}
