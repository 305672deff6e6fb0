// Package adapters collects the built-in adapter families and their
// registrations.
package adapters

import (
	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/adapters/id3tags"
	"github.com/engdan77/music-meta-manager/adapters/jsonstore"
	"github.com/engdan77/music-meta-manager/adapters/mediaserver"
	"github.com/engdan77/music-meta-manager/adapters/spotify"
	"github.com/engdan77/music-meta-manager/adapters/sqlitestore"
	"github.com/engdan77/music-meta-manager/adapters/tunes"
)

// All returns every built-in descriptor in presentation order. The order
// is fixed so the synthesized CLI surface and help output are stable
// across runs.
func All() []adapter.Descriptor {
	var descs []adapter.Descriptor
	descs = append(descs, tunes.Descriptors()...)
	descs = append(descs, jsonstore.Descriptors()...)
	descs = append(descs, id3tags.Descriptors()...)
	descs = append(descs, spotify.Descriptors()...)
	descs = append(descs, mediaserver.Descriptors()...)
	descs = append(descs, sqlitestore.Descriptors()...)
	return descs
}

// RegisterBuiltins registers every built-in adapter with the registry.
func RegisterBuiltins(r *adapter.Registry) error {
	for _, d := range All() {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}
