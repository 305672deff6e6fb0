package mediaserver

import (
	"fmt"
	"strconv"
	"time"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/logger"
	"github.com/engdan77/music-meta-manager/song"
)

const (
	ReaderName = "mediaserver-reader"
	WriterName = "mediaserver-writer"
)

var schema = song.Schema{
	Fields: map[string]string{
		"title":      "name",
		"path":       "location",
		"play_count": "played_count",
		"added_at":   "date_added",
	},
	TimeLayouts: []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
	},
}

// Reader pulls the server's full song listing on Open and serves it
// from memory.
type Reader struct {
	client *Client
	limit  int

	records []map[string]string
	pos     int
}

func NewReader(baseURL string, timeoutSeconds, limit int) (*Reader, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("mediaserver-reader: url is required")
	}
	return &Reader{
		client: NewClient(baseURL, time.Duration(timeoutSeconds)*time.Second),
		limit:  limit,
	}, nil
}

func (r *Reader) Open() error {
	songs, err := r.client.Songs()
	if err != nil {
		return err
	}
	for _, s := range songs {
		r.records = append(r.records, record(s))
		if r.limit > 0 && len(r.records) >= r.limit {
			break
		}
	}
	logger.Info("mediaserver_listing",
		logger.String("url", r.client.baseURL),
		logger.Int("songs", len(r.records)))
	return nil
}

func (r *Reader) Next() (song.Song, error) {
	if r.pos >= len(r.records) {
		return song.Song{}, adapter.ErrEndOfSource
	}
	rec := r.records[r.pos]
	r.pos++
	return schema.Song(rec)
}

func (r *Reader) Close() error { return nil }

func record(s serverSong) map[string]string {
	rec := map[string]string{
		"title":  s.Title,
		"artist": s.Artist,
		"path":   s.Path,
	}
	if s.Genre != "" {
		rec["genre"] = s.Genre
	}
	if s.BPM != 0 {
		rec["bpm"] = strconv.Itoa(s.BPM)
	}
	if s.Rating != 0 {
		rec["rating"] = strconv.Itoa(s.Rating)
	}
	if s.PlayCount != 0 {
		rec["play_count"] = strconv.Itoa(s.PlayCount)
	}
	if s.Year != 0 {
		rec["year"] = strconv.Itoa(s.Year)
	}
	if s.AddedAt != "" {
		rec["added_at"] = s.AddedAt
	}
	return rec
}

// Descriptors returns the registrations this package contributes.
func Descriptors() []adapter.Descriptor {
	return []adapter.Descriptor{
		{
			Name:    ReaderName,
			Kind:    adapter.KindReader,
			Summary: "read songs from a media server API",
			Params: []adapter.Param{
				{Name: "url", Type: adapter.TypeString, Usage: "base URL of the media server", Required: true},
				{Name: "timeout", Type: adapter.TypeInt, Usage: "request timeout in seconds", Default: 10},
				{Name: "limit", Type: adapter.TypeInt, Usage: "stop after this many songs (0 = all)", Default: 0},
			},
			NewReader: func(opts adapter.Options) (adapter.Reader, error) {
				return NewReader(opts.String("url"), opts.Int("timeout"), opts.Int("limit"))
			},
		},
		{
			Name:    WriterName,
			Kind:    adapter.KindWriter,
			Summary: "write songs to a media server API",
			Params: []adapter.Param{
				{Name: "url", Type: adapter.TypeString, Usage: "base URL of the media server", Required: true},
				{Name: "timeout", Type: adapter.TypeInt, Usage: "request timeout in seconds", Default: 10},
			},
			NewWriter: func(opts adapter.Options) (adapter.Writer, error) {
				return NewWriter(opts.String("url"), opts.Int("timeout"))
			},
		},
	}
}
