// Package migrate drives the generic read-filter-write pipeline between a
// selected reader and writer adapter.
package migrate

import (
	"errors"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/logger"
	"github.com/engdan77/music-meta-manager/song"
)

// Phase tracks the orchestrator's state machine:
// UNCONFIGURED -> READER_SELECTED -> WRITER_SELECTED -> RUNNING -> {COMPLETED, FAILED}.
type Phase int

const (
	PhaseUnconfigured Phase = iota
	PhaseReaderSelected
	PhaseWriterSelected
	PhaseRunning
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseUnconfigured:
		return "unconfigured"
	case PhaseReaderSelected:
		return "reader_selected"
	case PhaseWriterSelected:
		return "writer_selected"
	case PhaseRunning:
		return "running"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Selection is the resolved reader and writer descriptor pair for one run.
type Selection struct {
	Reader adapter.Descriptor
	Writer adapter.Descriptor
}

// Select picks exactly one activated reader and one activated writer from
// the activated descriptor set. Zero or multiple of either kind is a
// SelectionError.
func Select(activated []adapter.Descriptor) (Selection, error) {
	var sel Selection
	readers, writers := 0, 0
	for _, d := range activated {
		switch d.Kind {
		case adapter.KindReader:
			readers++
			sel.Reader = d
		case adapter.KindWriter:
			writers++
			sel.Writer = d
		}
	}
	if readers != 1 {
		return Selection{}, &SelectionError{Kind: adapter.KindReader, Count: readers}
	}
	if writers != 1 {
		return Selection{}, &SelectionError{Kind: adapter.KindWriter, Count: writers}
	}
	return sel, nil
}

// Stats summarizes one migration run.
type Stats struct {
	Read     int // records pulled from the reader, including skipped ones
	Written  int // records handed to the writer
	Skipped  int // records dropped for failed required-field normalization
	Filtered int // records dropped by the match-fields filter
}

// Pipeline is one configured migration: an instantiated reader and
// writer plus the optional field filters. Single-threaded; songs are
// pulled one at a time and never aliased for write access.
type Pipeline struct {
	reader     adapter.Reader
	writer     adapter.Writer
	readerName string
	writerName string

	// matchFields keeps a record only if all named canonical fields are
	// non-empty. excludeFields strips the named fields from each record
	// before writing (field removal, not record exclusion).
	matchFields   []string
	excludeFields []string

	phase Phase
}

// New instantiates the selected adapters with their collected constructor
// options and returns a pipeline ready to run. Constructor failures
// surface as a RunError naming the adapter.
func New(sel Selection, readerOpts, writerOpts adapter.Options, matchFields, excludeFields []string) (*Pipeline, error) {
	p := &Pipeline{
		readerName:    sel.Reader.Name,
		writerName:    sel.Writer.Name,
		matchFields:   matchFields,
		excludeFields: excludeFields,
		phase:         PhaseUnconfigured,
	}
	r, err := sel.Reader.NewReader(readerOpts)
	if err != nil {
		return nil, &RunError{Adapter: sel.Reader.Name, Phase: PhaseUnconfigured, Original: err}
	}
	p.reader = r
	p.phase = PhaseReaderSelected

	w, err := sel.Writer.NewWriter(writerOpts)
	if err != nil {
		return nil, &RunError{Adapter: sel.Writer.Name, Phase: PhaseReaderSelected, Original: err}
	}
	p.writer = w
	p.phase = PhaseWriterSelected
	return p, nil
}

// Phase returns the pipeline's current phase.
func (p *Pipeline) Phase() Phase {
	return p.phase
}

// Run acquires both resources, drives the copy loop, and releases the
// resources on every exit path. Records failing required-field
// normalization are skipped and counted; the first other adapter error
// ends the run as FAILED with the offending record index. Partial output
// written before a failure stays durable.
func (p *Pipeline) Run() (Stats, error) {
	var stats Stats

	if err := p.reader.Open(); err != nil {
		p.phase = PhaseFailed
		return stats, &RunError{Adapter: p.readerName, Phase: p.phase, Original: err}
	}
	defer func() {
		if err := p.reader.Close(); err != nil {
			logger.Warn("reader_close_failed", logger.String("adapter", p.readerName), logger.Err(err))
		}
	}()

	if err := p.writer.Open(); err != nil {
		p.phase = PhaseFailed
		return stats, &RunError{Adapter: p.writerName, Phase: p.phase, Original: err}
	}
	writerOpen := true
	closeWriter := func() error {
		if !writerOpen {
			return nil
		}
		writerOpen = false
		return p.writer.Close()
	}
	defer func() {
		if err := closeWriter(); err != nil {
			logger.Warn("writer_close_failed", logger.String("adapter", p.writerName), logger.Err(err))
		}
	}()

	p.phase = PhaseRunning
	logger.Info("migrate_start",
		logger.String("reader", p.readerName),
		logger.String("writer", p.writerName))

	for {
		s, err := p.reader.Next()
		if errors.Is(err, adapter.ErrEndOfSource) {
			break
		}
		stats.Read++
		var normErr *song.NormalizationError
		if errors.As(err, &normErr) {
			stats.Skipped++
			logger.Warn("record_skipped",
				logger.String("adapter", p.readerName),
				logger.Int("record", stats.Read),
				logger.String("missing_field", normErr.Field))
			continue
		}
		if err != nil {
			p.phase = PhaseFailed
			return stats, &RunError{Adapter: p.readerName, Phase: PhaseRunning, Record: stats.Read, Original: err}
		}

		if !p.matches(s) {
			stats.Filtered++
			continue
		}
		if len(p.excludeFields) > 0 {
			s = s.WithoutFields(p.excludeFields)
		}

		logger.Debug("record_write", logger.String("song", s.String()))
		if err := p.writer.Write(s); err != nil {
			p.phase = PhaseFailed
			return stats, &RunError{Adapter: p.writerName, Phase: PhaseRunning, Record: stats.Read, Original: err}
		}
		stats.Written++
	}

	// Durability is part of the writer contract; a failed Close means
	// written records may not have been persisted.
	if err := closeWriter(); err != nil {
		p.phase = PhaseFailed
		return stats, &RunError{Adapter: p.writerName, Phase: PhaseRunning, Record: stats.Read, Original: err}
	}

	p.phase = PhaseCompleted
	logger.Info("migrate_complete",
		logger.Int("read", stats.Read),
		logger.Int("written", stats.Written),
		logger.Int("skipped", stats.Skipped),
		logger.Int("filtered", stats.Filtered))
	return stats, nil
}

// matches applies the match-fields inclusion filter: every named field
// must be non-empty for the record to pass.
func (p *Pipeline) matches(s song.Song) bool {
	for _, field := range p.matchFields {
		if empty, known := s.FieldEmpty(field); !known || empty {
			return false
		}
	}
	return true
}
