package migrate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/song"
)

// fakeReader yields scripted results and records its resource lifecycle.
type fakeReader struct {
	results []func() (song.Song, error)
	pos     int
	opened  bool
	closed  bool
	openErr error
}

func (r *fakeReader) Open() error {
	r.opened = true
	return r.openErr
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func (r *fakeReader) Next() (song.Song, error) {
	if r.pos >= len(r.results) {
		return song.Song{}, adapter.ErrEndOfSource
	}
	f := r.results[r.pos]
	r.pos++
	return f()
}

// fakeWriter records every written song.
type fakeWriter struct {
	written  []song.Song
	opened   bool
	closed   bool
	openErr  error
	writeErr error
	failAt   int // fail the nth Write call, 0 disables
}

func (w *fakeWriter) Open() error {
	w.opened = true
	return w.openErr
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWriter) Write(s song.Song) error {
	if w.failAt > 0 && len(w.written)+1 == w.failAt {
		return w.writeErr
	}
	w.written = append(w.written, s)
	return nil
}

func yield(s song.Song) func() (song.Song, error) {
	return func() (song.Song, error) { return s, nil }
}

func yieldErr(err error) func() (song.Song, error) {
	return func() (song.Song, error) { return song.Song{}, err }
}

func threeSongs() []func() (song.Song, error) {
	return []func() (song.Song, error){
		yield(song.Song{Name: "A", Artist: "X", Location: "/a.mp3", Year: 1998, Rating: 80}),
		yield(song.Song{Name: "B", Artist: "Y", Location: "/b.mp3", Year: 1999, Rating: 40}),
		yield(song.Song{Name: "C", Artist: "Y", Location: "/c.mp3", Year: 1999, Rating: 40}),
	}
}

func selection(r adapter.Reader, w adapter.Writer) Selection {
	return Selection{
		Reader: adapter.Descriptor{
			Name: "fake-reader", Kind: adapter.KindReader,
			NewReader: func(adapter.Options) (adapter.Reader, error) { return r, nil },
		},
		Writer: adapter.Descriptor{
			Name: "fake-writer", Kind: adapter.KindWriter,
			NewWriter: func(adapter.Options) (adapter.Writer, error) { return w, nil },
		},
	}
}

func TestSelect(t *testing.T) {
	reader := adapter.Descriptor{Name: "r", Kind: adapter.KindReader}
	writer := adapter.Descriptor{Name: "w", Kind: adapter.KindWriter}
	writer2 := adapter.Descriptor{Name: "w2", Kind: adapter.KindWriter}

	tests := []struct {
		name      string
		activated []adapter.Descriptor
		wantKind  adapter.Kind
		wantCount int
		ok        bool
	}{
		{"one of each", []adapter.Descriptor{reader, writer}, 0, 0, true},
		{"no writer", []adapter.Descriptor{reader}, adapter.KindWriter, 0, false},
		{"no reader", []adapter.Descriptor{writer}, adapter.KindReader, 0, false},
		{"two writers", []adapter.Descriptor{reader, writer, writer2}, adapter.KindWriter, 2, false},
		{"nothing", nil, adapter.KindReader, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Select(tt.activated)
			if tt.ok {
				if err != nil {
					t.Fatalf("Select returned error: %v", err)
				}
				if sel.Reader.Name != "r" || sel.Writer.Name != "w" {
					t.Errorf("Unexpected selection: %+v", sel)
				}
				return
			}
			var selErr *SelectionError
			if !errors.As(err, &selErr) {
				t.Fatalf("Expected SelectionError, got %v", err)
			}
			if selErr.Kind != tt.wantKind || selErr.Count != tt.wantCount {
				t.Errorf("Expected %s count %d, got %s count %d", tt.wantKind, tt.wantCount, selErr.Kind, selErr.Count)
			}
		})
	}
}

func TestSelect_NoWriterMeansNoInstantiation(t *testing.T) {
	w := &fakeWriter{}
	sel := selection(&fakeReader{}, w)

	// Only the reader is activated.
	_, err := Select([]adapter.Descriptor{sel.Reader})
	var selErr *SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("Expected SelectionError, got %v", err)
	}
	if w.opened {
		t.Error("Writer resource must never be acquired when selection fails")
	}
}

func TestPipeline_RunWritesAllInOrder(t *testing.T) {
	r := &fakeReader{results: threeSongs()}
	w := &fakeWriter{}

	p, err := New(selection(r, w), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	stats, err := p.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if p.Phase() != PhaseCompleted {
		t.Errorf("Expected phase completed, got %s", p.Phase())
	}
	if stats.Written != 3 || stats.Read != 3 || stats.Skipped != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	want := []string{"A", "B", "C"}
	if len(w.written) != 3 {
		t.Fatalf("Expected 3 written records, got %d", len(w.written))
	}
	for i, name := range want {
		if w.written[i].Name != name {
			t.Errorf("Record %d: expected %q, got %q (input order must be preserved)", i, name, w.written[i].Name)
		}
	}
	if !r.closed || !w.closed {
		t.Error("Both resources must be released on completion")
	}
}

func TestPipeline_SkipsRecordsMissingRequiredField(t *testing.T) {
	results := threeSongs()
	// Second record fails required-field normalization (no location).
	results[1] = yieldErr(&song.NormalizationError{Field: song.FieldLocation})

	r := &fakeReader{results: results}
	w := &fakeWriter{}
	p, err := New(selection(r, w), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	stats, err := p.Run()
	if err != nil {
		t.Fatalf("Skippable records must not fail the run, got %v", err)
	}
	if p.Phase() != PhaseCompleted {
		t.Errorf("Expected phase completed, got %s", p.Phase())
	}
	if stats.Written != 2 || stats.Skipped != 1 {
		t.Errorf("Expected 2 written and 1 skipped, got %+v", stats)
	}
}

func TestPipeline_MatchFieldsFilters(t *testing.T) {
	results := threeSongs()
	results[2] = yield(song.Song{Name: "C", Artist: "Y", Location: "/c.mp3"}) // no year

	r := &fakeReader{results: results}
	w := &fakeWriter{}
	p, err := New(selection(r, w), nil, nil, []string{"artist", "year"}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	stats, err := p.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Written != 2 || stats.Filtered != 1 {
		t.Errorf("Expected 2 written and 1 filtered, got %+v", stats)
	}
}

func TestPipeline_ExcludeFieldsStrips(t *testing.T) {
	r := &fakeReader{results: threeSongs()}
	w := &fakeWriter{}
	p, err := New(selection(r, w), nil, nil, nil, []string{"rating", "year"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := p.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for i, s := range w.written {
		if s.Rating != 0 || s.Year != 0 {
			t.Errorf("Record %d: excluded fields must be stripped before writing, got %+v", i, s)
		}
		if s.Name == "" || s.Location == "" {
			t.Errorf("Record %d: unlisted fields must survive, got %+v", i, s)
		}
	}
}

func TestPipeline_WriterFailureReportsRecordIndex(t *testing.T) {
	r := &fakeReader{results: threeSongs()}
	w := &fakeWriter{failAt: 2, writeErr: fmt.Errorf("disk full")}
	p, err := New(selection(r, w), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = p.Run()
	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("Expected RunError, got %v", err)
	}
	if runErr.Adapter != "fake-writer" {
		t.Errorf("Expected failing adapter 'fake-writer', got %q", runErr.Adapter)
	}
	if runErr.Record != 2 {
		t.Errorf("Expected record index 2, got %d", runErr.Record)
	}
	if p.Phase() != PhaseFailed {
		t.Errorf("Expected phase failed, got %s", p.Phase())
	}
	if !r.closed || !w.closed {
		t.Error("Both resources must be released on failure")
	}
	// The record written before the failure stays written.
	if len(w.written) != 1 {
		t.Errorf("Expected 1 durable record before failure, got %d", len(w.written))
	}
}

func TestPipeline_WriterOpenFailureClosesReader(t *testing.T) {
	r := &fakeReader{}
	w := &fakeWriter{openErr: fmt.Errorf("connection refused")}
	p, err := New(selection(r, w), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = p.Run()
	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("Expected RunError, got %v", err)
	}
	if runErr.Adapter != "fake-writer" {
		t.Errorf("Expected failing adapter 'fake-writer', got %q", runErr.Adapter)
	}
	if !r.closed {
		t.Error("Reader must be released when writer acquisition fails")
	}
}
