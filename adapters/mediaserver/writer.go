package mediaserver

import (
	"fmt"
	"time"

	"github.com/engdan77/music-meta-manager/song"
)

// Writer posts each song to the server, which upserts by title and
// artist. Every Write is immediately durable server-side, so Close has
// nothing to flush.
type Writer struct {
	client *Client
}

func NewWriter(baseURL string, timeoutSeconds int) (*Writer, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("mediaserver-writer: url is required")
	}
	return &Writer{
		client: NewClient(baseURL, time.Duration(timeoutSeconds)*time.Second),
	}, nil
}

func (w *Writer) Open() error { return nil }

func (w *Writer) Write(s song.Song) error {
	return w.client.PutSong(toServerSong(s))
}

func (w *Writer) Close() error { return nil }

func toServerSong(s song.Song) serverSong {
	addedAt := s.RawDateAdded
	if addedAt == "" && !s.DateAdded.IsZero() {
		addedAt = s.DateAdded.Format(time.RFC3339)
	}
	return serverSong{
		Title:     s.Name,
		Artist:    s.Artist,
		Path:      s.Location,
		Genre:     s.Genre,
		BPM:       s.BPM,
		Rating:    s.Rating,
		PlayCount: s.PlayedCount,
		Year:      s.Year,
		AddedAt:   addedAt,
	}
}
