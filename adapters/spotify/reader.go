// Package spotify reads songs from a Spotify playlist through the Web
// API, using client-credentials auth. It is read-only: Spotify exposes
// no write surface for third-party metadata.
package spotify

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sv4u/spotigo"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/logger"
	"github.com/engdan77/music-meta-manager/song"
)

const Name = "spotify-reader"

// Environment variables consulted when credentials are not passed
// explicitly. A .env file in the working directory is honored.
const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
)

var schema = song.Schema{
	Fields: map[string]string{},
	TimeLayouts: []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
	},
}

// Reader pulls every track of one playlist on Open and serves them from
// memory. Playlists are paged server-side; Open walks all pages.
type Reader struct {
	playlist     string
	clientID     string
	clientSecret string
	limit        int

	records []map[string]string
	pos     int
}

// New creates a playlist reader. playlist accepts a bare ID, a Spotify
// URI or an open.spotify.com URL. Empty credentials fall back to the
// SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET environment variables.
func New(playlist, clientID, clientSecret string, limit int) (*Reader, error) {
	if playlist == "" {
		return nil, fmt.Errorf("spotify-reader: playlist is required")
	}
	if clientID == "" {
		clientID = os.Getenv(EnvClientID)
	}
	if clientSecret == "" {
		clientSecret = os.Getenv(EnvClientSecret)
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify-reader: missing Spotify credentials, set %s and %s", EnvClientID, EnvClientSecret)
	}
	return &Reader{
		playlist:     playlist,
		clientID:     clientID,
		clientSecret: clientSecret,
		limit:        limit,
	}, nil
}

func (r *Reader) Open() error {
	ctx := context.Background()

	auth, err := spotigo.NewClientCredentials(r.clientID, r.clientSecret)
	if err != nil {
		return fmt.Errorf("failed to create auth: %w", err)
	}
	client, err := spotigo.NewClient(auth)
	if err != nil {
		return fmt.Errorf("failed to create spotigo client: %w", err)
	}

	playlistID, err := spotigo.GetID(r.playlist, "playlist")
	if err != nil {
		return fmt.Errorf("invalid playlist ID/URL: %w", err)
	}

	playlist, err := client.Playlist(ctx, r.playlist, nil)
	if err != nil {
		return fmt.Errorf("failed to get playlist: %w", err)
	}

	logger.Info("spotify_playlist_open",
		logger.String("playlist", playlistID),
		logger.String("name", playlist.Name))

	paging, err := client.PlaylistTracks(ctx, playlistID, nil)
	if err != nil {
		return fmt.Errorf("failed to get playlist tracks: %w", err)
	}
	for paging != nil {
		for _, item := range paging.Items {
			record, ok := trackRecord(item)
			if !ok {
				continue
			}
			r.records = append(r.records, record)
			if r.limit > 0 && len(r.records) >= r.limit {
				return nil
			}
		}
		if paging.GetNext() == nil {
			break
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled during pagination: %w", err)
		}
		paging, err = spotigo.NextGeneric[spotigo.PlaylistTrack](client, ctx, paging)
		if err != nil {
			return fmt.Errorf("failed to paginate playlist tracks: %w", err)
		}
	}
	return nil
}

func (r *Reader) Next() (song.Song, error) {
	if r.pos >= len(r.records) {
		return song.Song{}, adapter.ErrEndOfSource
	}
	record := r.records[r.pos]
	r.pos++
	return schema.Song(record)
}

func (r *Reader) Close() error { return nil }

// trackRecord flattens one playlist entry into a foreign record. Local
// files and episode entries carry no usable track and are dropped.
func trackRecord(item spotigo.PlaylistTrack) (map[string]string, bool) {
	var (
		name, url, artist, release string
		isLocal                    bool
	)

	// item.Track can be a Track or SimplifiedTrack, by value or pointer.
	switch t := item.Track.(type) {
	case *spotigo.Track:
		if t == nil {
			return nil, false
		}
		isLocal = t.IsLocal
		name = t.Name
		if t.ExternalURLs != nil {
			url = t.ExternalURLs.Spotify
		}
		if len(t.Artists) > 0 {
			artist = t.Artists[0].Name
		}
		if t.Album != nil {
			release = t.Album.ReleaseDate
		}
	case spotigo.Track:
		isLocal = t.IsLocal
		name = t.Name
		if t.ExternalURLs != nil {
			url = t.ExternalURLs.Spotify
		}
		if len(t.Artists) > 0 {
			artist = t.Artists[0].Name
		}
		if t.Album != nil {
			release = t.Album.ReleaseDate
		}
	case *spotigo.SimplifiedTrack:
		if t == nil {
			return nil, false
		}
		isLocal = t.IsLocal
		name = t.Name
		if t.ExternalURLs != nil {
			url = t.ExternalURLs.Spotify
		}
		if len(t.Artists) > 0 {
			artist = t.Artists[0].Name
		}
	case spotigo.SimplifiedTrack:
		isLocal = t.IsLocal
		name = t.Name
		if t.ExternalURLs != nil {
			url = t.ExternalURLs.Spotify
		}
		if len(t.Artists) > 0 {
			artist = t.Artists[0].Name
		}
	default:
		return nil, false
	}

	if isLocal {
		return nil, false
	}

	record := map[string]string{
		"name":     name,
		"artist":   artist,
		"location": url,
	}
	if year := releaseYear(release); year != "" {
		record["year"] = year
	}
	if added := fmt.Sprint(item.AddedAt); added != "" && !strings.HasPrefix(added, "0001-01-01") {
		record["date_added"] = added
	}
	return record, true
}

// releaseYear reduces a Spotify release date to its year. The API
// serves "2006", "2006-01" or "2006-01-02" depending on precision.
func releaseYear(release string) string {
	if len(release) < 4 {
		return ""
	}
	return release[:4]
}

// Descriptors returns the registrations this package contributes.
func Descriptors() []adapter.Descriptor {
	return []adapter.Descriptor{
		{
			Name:    Name,
			Kind:    adapter.KindReader,
			Summary: "read songs from a Spotify playlist",
			Params: []adapter.Param{
				{Name: "playlist", Type: adapter.TypeString, Usage: "playlist ID, URI or URL", Required: true},
				{Name: "client-id", Type: adapter.TypeString, Usage: "Spotify API client ID (default: $" + EnvClientID + ")"},
				{Name: "client-secret", Type: adapter.TypeString, Usage: "Spotify API client secret (default: $" + EnvClientSecret + ")"},
				{Name: "limit", Type: adapter.TypeInt, Usage: "stop after this many tracks (0 = all)", Default: 0},
			},
			NewReader: func(opts adapter.Options) (adapter.Reader, error) {
				return New(
					opts.String("playlist"),
					opts.String("client-id"),
					opts.String("client-secret"),
					opts.Int("limit"),
				)
			},
		},
	}
}
