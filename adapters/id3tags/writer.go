package id3tags

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bogem/id3v2/v2"

	"github.com/engdan77/music-meta-manager/logger"
	"github.com/engdan77/music-meta-manager/song"
)

// Writer updates the ID3 tag of the file at each song's location. Songs
// whose location is empty or does not resolve to an existing file are
// skipped with a warning rather than failing the run, since one moved
// file should not abort a migration. There is no upsert key: the file
// itself is the record.
type Writer struct{}

// NewWriter builds an ID3 tag writer.
func NewWriter() (*Writer, error) {
	return &Writer{}, nil
}

func (w *Writer) Open() error {
	return nil
}

func (w *Writer) Write(s song.Song) error {
	path := localPath(s.Location)
	if path == "" {
		logger.Warn("id3_write_skipped_no_location", logger.String("song", s.String()))
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warn("id3_write_skipped_missing_file", logger.String("file", path), logger.Err(err))
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		// Files without a parseable tag get a fresh one.
		tag, err = id3v2.Open(path, id3v2.Options{Parse: false})
		if err != nil {
			return fmt.Errorf("open mp3 %s: %w", path, err)
		}
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(s.Name)
	tag.SetArtist(s.Artist)
	if s.Genre != "" {
		tag.SetGenre(s.Genre)
	}
	if s.Year > 0 {
		tag.AddTextFrame(tag.CommonID("TYER"), id3v2.EncodingUTF8, strconv.Itoa(s.Year))
	}
	if s.BPM > 0 {
		tag.AddTextFrame(tag.CommonID("TBPM"), id3v2.EncodingUTF8, strconv.Itoa(s.BPM))
	}
	if s.RawDateAdded != "" {
		tag.AddTextFrame(tag.CommonID("TDRC"), id3v2.EncodingUTF8, s.RawDateAdded)
	} else if !s.DateAdded.IsZero() {
		tag.AddTextFrame(tag.CommonID("TDRC"), id3v2.EncodingUTF8, s.DateAdded.Format(time.RFC3339))
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tag %s: %w", path, err)
	}
	return nil
}

func (w *Writer) Close() error {
	return nil
}
