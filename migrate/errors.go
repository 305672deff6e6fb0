package migrate

import (
	"fmt"

	"github.com/engdan77/music-meta-manager/adapter"
)

// SelectionError reports that zero or more than one adapter of a kind was
// activated on the command line.
type SelectionError struct {
	Kind  adapter.Kind
	Count int
}

func (e *SelectionError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("selection error: no %s activated, exactly one is required", e.Kind)
	}
	return fmt.Sprintf("selection error: %d %ss activated, exactly one is required", e.Count, e.Kind)
}

// RunError is the single opaque failure the orchestrator surfaces for an
// unrecoverable adapter error: which adapter, which phase, and the
// one-based index of the record being handled when it failed (0 when no
// record applies, e.g. on Open).
type RunError struct {
	Adapter  string
	Phase    Phase
	Record   int
	Original error
}

func (e *RunError) Error() string {
	if e.Record > 0 {
		return fmt.Sprintf("adapter %s failed during %s at record %d: %v", e.Adapter, e.Phase, e.Record, e.Original)
	}
	return fmt.Sprintf("adapter %s failed during %s: %v", e.Adapter, e.Phase, e.Original)
}

func (e *RunError) Unwrap() error {
	return e.Original
}
