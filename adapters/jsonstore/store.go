// Package jsonstore reads and writes songs as a JSON document file, the
// portable interchange format between migrations.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/song"
)

// Registered adapter names.
const (
	ReaderName = "json-reader"
	WriterName = "json-writer"
)

// DefaultFile is where both adapters look when no file is given.
const DefaultFile = "/tmp/music.json"

// schema needs no field table: documents already use canonical names.
var schema = song.Schema{
	TimeLayouts: []string{time.RFC3339},
}

// document is one stored song record. Timestamps are serialized as their
// retained raw source text so round trips never reformat them.
type document struct {
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Location    string `json:"location"`
	Genre       string `json:"genre,omitempty"`
	BPM         int    `json:"bpm,omitempty"`
	Rating      int    `json:"rating,omitempty"`
	PlayedCount int    `json:"played_count,omitempty"`
	Year        int    `json:"year,omitempty"`
	DateAdded   string `json:"date_added,omitempty"`
}

func toDocument(s song.Song) document {
	dateAdded := s.RawDateAdded
	if dateAdded == "" && !s.DateAdded.IsZero() {
		dateAdded = s.DateAdded.Format(time.RFC3339)
	}
	return document{
		Name:        s.Name,
		Artist:      s.Artist,
		Location:    s.Location,
		Genre:       s.Genre,
		BPM:         s.BPM,
		Rating:      s.Rating,
		PlayedCount: s.PlayedCount,
		Year:        s.Year,
		DateAdded:   dateAdded,
	}
}

func (d document) record() map[string]string {
	record := map[string]string{
		"name":     d.Name,
		"artist":   d.Artist,
		"location": d.Location,
	}
	if d.Genre != "" {
		record["genre"] = d.Genre
	}
	if d.BPM != 0 {
		record["bpm"] = fmt.Sprint(d.BPM)
	}
	if d.Rating != 0 {
		record["rating"] = fmt.Sprint(d.Rating)
	}
	if d.PlayedCount != 0 {
		record["played_count"] = fmt.Sprint(d.PlayedCount)
	}
	if d.Year != 0 {
		record["year"] = fmt.Sprint(d.Year)
	}
	if d.DateAdded != "" {
		record["date_added"] = d.DateAdded
	}
	return record
}

func loadDocuments(path string) ([]document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var docs []document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse document store %s: %w", path, err)
	}
	return docs, nil
}

// Reader yields every document in the store as a canonical song.
type Reader struct {
	path string
	docs []document
	pos  int
}

// NewReader builds a reader over the document file at path.
func NewReader(path string) (*Reader, error) {
	if path == "" {
		path = DefaultFile
	}
	return &Reader{path: path}, nil
}

// Open loads the document file. A missing file is an empty store.
func (r *Reader) Open() error {
	docs, err := loadDocuments(r.path)
	if err != nil {
		return err
	}
	r.docs = docs
	return nil
}

func (r *Reader) Next() (song.Song, error) {
	if r.pos >= len(r.docs) {
		return song.Song{}, adapter.ErrEndOfSource
	}
	doc := r.docs[r.pos]
	r.pos++
	return schema.Song(doc.record())
}

func (r *Reader) Close() error {
	return nil
}

// Writer upserts songs into the document file. The upsert key is
// same-track equality: writing a song that matches an existing document's
// name and artist replaces that document. All writes become durable on
// Close via a write-temp-then-rename of the whole file.
type Writer struct {
	path string
	docs []document
}

// NewWriter builds a writer over the document file at path.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		path = DefaultFile
	}
	return &Writer{path: path}, nil
}

// Open loads any existing documents so upserts see previous runs.
func (w *Writer) Open() error {
	docs, err := loadDocuments(w.path)
	if err != nil {
		return err
	}
	w.docs = docs
	return nil
}

func (w *Writer) Write(s song.Song) error {
	incoming := toDocument(s)
	target := song.Song{Name: s.Name, Artist: s.Artist}
	for i, doc := range w.docs {
		if song.SameTrack(song.Song{Name: doc.Name, Artist: doc.Artist}, target) {
			w.docs[i] = incoming
			return nil
		}
	}
	w.docs = append(w.docs, incoming)
	return nil
}

// Close persists the store atomically.
func (w *Writer) Close() error {
	data, err := json.MarshalIndent(w.docs, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".music-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), w.path)
}

// Descriptors returns the static adapter metadata for this package.
func Descriptors() []adapter.Descriptor {
	return []adapter.Descriptor{
		{
			Name:    ReaderName,
			Kind:    adapter.KindReader,
			Summary: "read songs from a JSON document file",
			Params: []adapter.Param{
				{Name: "file", Type: adapter.TypePath, Usage: "json document file", Default: DefaultFile},
			},
			NewReader: func(opts adapter.Options) (adapter.Reader, error) {
				return NewReader(opts.String("file"))
			},
		},
		{
			Name:    WriterName,
			Kind:    adapter.KindWriter,
			Summary: "write songs to a JSON document file",
			Params: []adapter.Param{
				{Name: "file", Type: adapter.TypePath, Usage: "json document file", Default: DefaultFile},
			},
			NewWriter: func(opts adapter.Options) (adapter.Writer, error) {
				return NewWriter(opts.String("file"))
			},
		},
	}
}
