// Package tunes reads songs from an exported iTunes / Apple Music
// library XML file.
package tunes

import (
	"fmt"
	"os"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/song"
)

// Name is the registered adapter name.
const Name = "tunes-reader"

// schema maps the library's foreign field names onto canonical ones.
// Key normalization already folds "Play Count" to "play_count"; only the
// genuinely different names need table entries.
var schema = song.Schema{
	Fields:      map[string]string{"play_count": "played_count"},
	TimeLayouts: []string{"2006-01-02T15:04:05Z"},
}

// Reader yields one Song per track entry of the library file. The file
// is parsed on Open; the sequence is one pass over the parsed entries.
type Reader struct {
	path    string
	limit   int
	records []map[string]string
	pos     int
}

// New builds a reader for the library file at path. limit truncates the
// sequence to the first n tracks; 0 means unlimited.
func New(path string, limit int) (*Reader, error) {
	if path == "" {
		return nil, fmt.Errorf("tunes-reader: xml path is required")
	}
	if limit < 0 {
		return nil, fmt.Errorf("tunes-reader: limit must be non-negative, got %d", limit)
	}
	return &Reader{path: path, limit: limit}, nil
}

// Open parses the library file and collects its track records.
func (r *Reader) Open() error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer f.Close()

	root, err := parsePlist(f)
	if err != nil {
		return fmt.Errorf("parse library %s: %w", r.path, err)
	}

	tracksAny, ok := root.get("Tracks")
	if !ok {
		return fmt.Errorf("library %s has no Tracks dict", r.path)
	}
	tracks, ok := tracksAny.(*plistDict)
	if !ok {
		return fmt.Errorf("library %s: Tracks is not a dict", r.path)
	}

	for _, id := range tracks.keys {
		entry, ok := tracks.values[id].(*plistDict)
		if !ok {
			continue
		}
		// Non-track entries carry no Track ID and are skipped.
		if _, ok := entry.get("Track ID"); !ok {
			continue
		}
		record := make(map[string]string, len(entry.keys))
		for _, key := range entry.keys {
			if text, ok := entry.values[key].(string); ok {
				record[key] = text
			}
		}
		r.records = append(r.records, record)
		if r.limit > 0 && len(r.records) == r.limit {
			break
		}
	}
	return nil
}

// Next constructs the next track's canonical song.
func (r *Reader) Next() (song.Song, error) {
	if r.pos >= len(r.records) {
		return song.Song{}, adapter.ErrEndOfSource
	}
	record := r.records[r.pos]
	r.pos++
	return schema.Song(record)
}

// Close releases nothing; the file handle is scoped to Open.
func (r *Reader) Close() error {
	return nil
}

// Descriptors returns the static adapter metadata for this package.
func Descriptors() []adapter.Descriptor {
	return []adapter.Descriptor{
		{
			Name:    Name,
			Kind:    adapter.KindReader,
			Summary: "read songs from an iTunes library XML export",
			Params: []adapter.Param{
				{Name: "xml", Type: adapter.TypePath, Usage: "xml file exported from iTunes", Default: "", Required: true},
				{Name: "limit", Type: adapter.TypeInt, Usage: "limit to number of songs, 0 means unlimited", Default: 0},
			},
			NewReader: func(opts adapter.Options) (adapter.Reader, error) {
				return New(opts.String("xml"), opts.Int("limit"))
			},
		},
	}
}
