// Package adapter defines the contract every song source and destination
// implements, the static descriptors they register under, and the
// command-line argument surface synthesized from those descriptors.
package adapter

import (
	"errors"

	"github.com/engdan77/music-meta-manager/song"
)

// ErrEndOfSource is returned by Reader.Next once the sequence is
// exhausted. The sequence is one-shot: restarting after exhaustion is
// adapter-defined and not guaranteed.
var ErrEndOfSource = errors.New("end of source")

// Reader is a source of canonical songs. Open acquires the underlying
// resource, Next pulls one song at a time, and Close releases the
// resource; the orchestrator guarantees Close on every exit path.
//
// Next may return a *song.NormalizationError for a record that failed
// required-field normalization; such records are skippable without
// aborting the sequence.
type Reader interface {
	Open() error
	Next() (song.Song, error)
	Close() error
}

// Writer is a destination for canonical songs. Write appends or upserts
// one record; the upsert key, if any, is adapter-defined and documented
// per adapter. Records written before Close must be durable once Close
// returns.
type Writer interface {
	Open() error
	Write(s song.Song) error
	Close() error
}

// Contains scans an opened reader for a song satisfying same-track
// equality with target, stopping at the first match. The caller owns the
// reader's scope; the scan consumes the one-shot sequence.
func Contains(r Reader, target song.Song) (bool, error) {
	for {
		s, err := r.Next()
		if errors.Is(err, ErrEndOfSource) {
			return false, nil
		}
		var normErr *song.NormalizationError
		if errors.As(err, &normErr) {
			continue
		}
		if err != nil {
			return false, err
		}
		if song.SameTrack(s, target) {
			return true, nil
		}
	}
}

// Kind classifies a descriptor as a reader or a writer.
type Kind int

const (
	KindReader Kind = iota + 1
	KindWriter
)

func (k Kind) String() string {
	switch k {
	case KindReader:
		return "reader"
	case KindWriter:
		return "writer"
	}
	return "unknown"
}

// ParamType is the declared semantic type of a constructor parameter,
// used to type the synthesized CLI flag.
type ParamType int

const (
	TypeString ParamType = iota + 1
	TypeInt
	TypeBool
	TypePath
)

func (t ParamType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypePath:
		return "path"
	}
	return "unknown"
}

// Param describes one constructor parameter of an adapter: its name,
// semantic type, human-readable usage text, default value and whether the
// adapter requires it.
type Param struct {
	Name     string
	Type     ParamType
	Usage    string
	Default  any
	Required bool
}

// Options holds the parsed constructor arguments for one adapter, keyed
// by parameter name, with defaults already applied.
type Options map[string]any

// String returns the named option as a string, or "" if absent.
func (o Options) String(name string) string {
	if v, ok := o[name].(string); ok {
		return v
	}
	return ""
}

// Int returns the named option as an int, or 0 if absent.
func (o Options) Int(name string) int {
	if v, ok := o[name].(int); ok {
		return v
	}
	return 0
}

// Bool returns the named option as a bool, or false if absent.
func (o Options) Bool(name string) bool {
	if v, ok := o[name].(bool); ok {
		return v
	}
	return false
}

// Descriptor is the static metadata one concrete adapter registers:
// identity, capability kind, CLI documentation, constructor parameters
// and the typed constructor for its kind. Exactly one of NewReader or
// NewWriter is set, matching Kind.
type Descriptor struct {
	Name    string
	Kind    Kind
	Summary string
	Params  []Param

	NewReader func(opts Options) (Reader, error)
	NewWriter func(opts Options) (Writer, error)
}
