// Package sqlitestore keeps songs in a local SQLite database. The
// writer upserts per track: two songs whose folded name and artist
// match update the same row.
package sqlitestore

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/song"
)

const (
	ReaderName = "sqlite-reader"
	WriterName = "sqlite-writer"

	// DefaultFile is used when no db parameter is given.
	DefaultFile = "/tmp/music.db"
)

var schema = song.Schema{
	Fields: map[string]string{},
	TimeLayouts: []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
	},
}

// Record is the persisted row shape. NameKey and ArtistKey hold the
// folded track identity so the upsert is insensitive to case and
// whitespace differences between sources.
type Record struct {
	ID          uint   `gorm:"primaryKey"`
	NameKey     string `gorm:"size:512;not null;uniqueIndex:idx_track"`
	ArtistKey   string `gorm:"size:512;not null;uniqueIndex:idx_track"`
	Name        string `gorm:"size:512;not null"`
	Artist      string `gorm:"size:512;not null"`
	Location    string `gorm:"type:text;not null"`
	Genre       string `gorm:"size:128"`
	BPM         int
	Rating      int
	PlayedCount int
	Year        int
	DateAdded   string `gorm:"size:64"`
}

func open(path string) (*gorm.DB, error) {
	if path == "" {
		path = DefaultFile
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database %s: %w", path, err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(s song.Song) Record {
	nameKey, artistKey := song.TrackKey(s)
	dateAdded := s.RawDateAdded
	if dateAdded == "" && !s.DateAdded.IsZero() {
		dateAdded = s.DateAdded.Format(time.RFC3339)
	}
	return Record{
		NameKey:     nameKey,
		ArtistKey:   artistKey,
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

func (r Record) record() map[string]string {
	rec := map[string]string{
		"name":     r.Name,
		"artist":   r.Artist,
		"location": r.Location,
	}
	if r.Genre != "" {
		rec["genre"] = r.Genre
	}
	if r.BPM != 0 {
		rec["bpm"] = strconv.Itoa(r.BPM)
	}
	if r.Rating != 0 {
		rec["rating"] = strconv.Itoa(r.Rating)
	}
	if r.PlayedCount != 0 {
		rec["played_count"] = strconv.Itoa(r.PlayedCount)
	}
	if r.Year != 0 {
		rec["year"] = strconv.Itoa(r.Year)
	}
	if r.DateAdded != "" {
		rec["date_added"] = r.DateAdded
	}
	return rec
}

// Reader serves every stored song in primary-key order.
type Reader struct {
	path string

	db      *gorm.DB
	records []Record
	pos     int
}

func NewReader(path string) (*Reader, error) {
	return &Reader{path: path}, nil
}

func (r *Reader) Open() error {
	db, err := open(r.path)
	if err != nil {
		return err
	}
	r.db = db
	if err := db.Order("id").Find(&r.records).Error; err != nil {
		return fmt.Errorf("failed to load songs: %w", err)
	}
	return nil
}

func (r *Reader) Next() (song.Song, error) {
	if r.pos >= len(r.records) {
		return song.Song{}, adapter.ErrEndOfSource
	}
	rec := r.records[r.pos]
	r.pos++
	return schema.Song(rec.record())
}

func (r *Reader) Close() error {
	return closeDB(r.db)
}

// Writer upserts one row per track.
type Writer struct {
	path string
	db   *gorm.DB
}

func NewWriter(path string) (*Writer, error) {
	return &Writer{path: path}, nil
}

func (w *Writer) Open() error {
	db, err := open(w.path)
	if err != nil {
		return err
	}
	w.db = db
	return nil
}

func (w *Writer) Write(s song.Song) error {
	rec := toRecord(s)
	err := w.db.
		Where(&Record{NameKey: rec.NameKey, ArtistKey: rec.ArtistKey}).
		Assign(map[string]any{
			"name":         rec.Name,
			"artist":       rec.Artist,
			"location":     rec.Location,
			"genre":        rec.Genre,
			"bpm":          rec.BPM,
			"rating":       rec.Rating,
			"played_count": rec.PlayedCount,
			"year":         rec.Year,
			"date_added":   rec.DateAdded,
		}).
		FirstOrCreate(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to store %q by %q: %w", s.Name, s.Artist, err)
	}
	return nil
}

func (w *Writer) Close() error {
	return closeDB(w.db)
}

// Descriptors returns the registrations this package contributes.
func Descriptors() []adapter.Descriptor {
	dbParam := adapter.Param{
		Name:    "db",
		Type:    adapter.TypePath,
		Usage:   "SQLite database file",
		Default: DefaultFile,
	}
	return []adapter.Descriptor{
		{
			Name:    ReaderName,
			Kind:    adapter.KindReader,
			Summary: "read songs from a SQLite database",
			Params:  []adapter.Param{dbParam},
			NewReader: func(opts adapter.Options) (adapter.Reader, error) {
				return NewReader(opts.String("db"))
			},
		},
		{
			Name:    WriterName,
			Kind:    adapter.KindWriter,
			Summary: "write songs to a SQLite database",
			Params:  []adapter.Param{dbParam},
			NewWriter: func(opts adapter.Options) (adapter.Writer, error) {
				return NewWriter(opts.String("db"))
			},
		},
	}
}
