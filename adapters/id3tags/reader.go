// Package id3tags reads and writes song metadata as ID3v2 tags on MP3
// files on disk.
package id3tags

import (
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/logger"
	"github.com/engdan77/music-meta-manager/song"
)

// Registered adapter names.
const (
	ReaderName = "id3-reader"
	WriterName = "id3-writer"
)

// schema: tags already use canonical names; TDRC timestamps come either
// as a full date or a bare year.
var schema = song.Schema{
	TimeLayouts: []string{time.RFC3339, "2006-01-02", "2006"},
}

// localPath strips a file:// URI down to a filesystem path; plain paths
// pass through.
func localPath(location string) string {
	if !strings.HasPrefix(location, "file://") {
		return location
	}
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	return u.Path
}

// Reader scans a directory tree for .mp3 files and yields one song per
// tagged file. Untagged or unreadable files are skipped with a warning.
type Reader struct {
	dir   string
	paths []string
	pos   int
}

// New builds a reader over the directory tree rooted at dir.
func New(dir string) (*Reader, error) {
	if dir == "" {
		return nil, fmt.Errorf("id3-reader: dir is required")
	}
	return &Reader{dir: dir}, nil
}

// Open collects the .mp3 paths under the root, sorted so the sequence
// order is stable across runs.
func (r *Reader) Open() error {
	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".mp3") {
			r.paths = append(r.paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", r.dir, err)
	}
	sort.Strings(r.paths)
	return nil
}

func (r *Reader) Next() (song.Song, error) {
	for r.pos < len(r.paths) {
		path := r.paths[r.pos]
		r.pos++

		record, err := readTag(path)
		if err != nil {
			logger.Warn("id3_tag_unreadable", logger.String("file", path), logger.Err(err))
			continue
		}
		// A file with neither title nor artist carries no usable tag.
		if record["name"] == "" && record["artist"] == "" {
			logger.Warn("id3_tag_empty", logger.String("file", path))
			continue
		}
		return schema.Song(record)
	}
	return song.Song{}, adapter.ErrEndOfSource
}

func (r *Reader) Close() error {
	return nil
}

func readTag(path string) (map[string]string, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer tag.Close()

	record := map[string]string{
		"name":     tag.Title(),
		"artist":   tag.Artist(),
		"genre":    tag.Genre(),
		"location": path,
	}
	if year := tag.GetTextFrame(tag.CommonID("TYER")).Text; year != "" {
		record["year"] = year
	}
	if bpm := tag.GetTextFrame(tag.CommonID("TBPM")).Text; bpm != "" {
		record["bpm"] = bpm
	}
	if date := tag.GetTextFrame(tag.CommonID("TDRC")).Text; date != "" {
		record["date_added"] = date
		if _, ok := record["year"]; !ok && len(date) >= 4 {
			record["year"] = date[:4]
		}
	}
	return record, nil
}

// Descriptors returns the static adapter metadata for this package.
func Descriptors() []adapter.Descriptor {
	return []adapter.Descriptor{
		{
			Name:    ReaderName,
			Kind:    adapter.KindReader,
			Summary: "read songs from ID3 tags of MP3 files in a folder",
			Params: []adapter.Param{
				{Name: "dir", Type: adapter.TypePath, Usage: "folder scanned recursively for mp3 files", Default: "", Required: true},
			},
			NewReader: func(opts adapter.Options) (adapter.Reader, error) {
				return New(opts.String("dir"))
			},
		},
		{
			Name:    WriterName,
			Kind:    adapter.KindWriter,
			Summary: "write song metadata into the ID3 tags of the file at each song's location",
			NewWriter: func(opts adapter.Options) (adapter.Writer, error) {
				return NewWriter()
			},
		},
	}
}
