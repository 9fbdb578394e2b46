// Package snapshot reads and writes timeline snapshot files: a JSON record
// of the release histories of one or more packages at a point in time.
// Snapshots are produced by the pkgtime-snapshot tool and replayed with the
// --snapshot flag for offline and reproducible runs.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkgtime-org/pkgtime/internal/registry"
	"github.com/pkgtime-org/pkgtime/pkg/timeline"
)

// File is the serialized snapshot.
type File struct {
	GeneratedAt time.Time `json:"generated_at"`
	Manager     string    `json:"manager"`
	Packages    []Package `json:"packages"`
}

// Package is one package's release history within a snapshot.
type Package struct {
	Name     string    `json:"name"`
	Releases []Release `json:"releases"`
}

// Release is the JSON representation of a release.
type Release struct {
	Version     string    `json:"version"`
	PublishedAt time.Time `json:"published_at"`
}

// Load reads and parses a snapshot file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return &f, nil
}

// Write saves a snapshot file with indented JSON.
func Write(path string, f *File) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer out.Close()

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(f); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Add appends a package's timeline to the snapshot.
func (f *File) Add(name string, t timeline.Timeline) {
	releases := make([]Release, len(t))
	for i, r := range t {
		releases[i] = Release{Version: r.Version, PublishedAt: r.PublishedAt}
	}
	f.Packages = append(f.Packages, Package{Name: name, Releases: releases})
}

// Source exposes the snapshot's packages as a registry.Source. Lookup is
// by exact package name as recorded in the snapshot.
func (f *File) Source() registry.Source {
	packages := make(map[string]timeline.Timeline, len(f.Packages))
	for _, p := range f.Packages {
		t := make(timeline.Timeline, len(p.Releases))
		for i, r := range p.Releases {
			t[i] = timeline.Release{Version: r.Version, PublishedAt: r.PublishedAt}
		}
		t.Sort()
		packages[p.Name] = t
	}
	return &source{packages: packages}
}

type source struct {
	packages map[string]timeline.Timeline
}

func (s *source) Timeline(ctx context.Context, pkg string) (timeline.Timeline, error) {
	t, ok := s.packages[pkg]
	if !ok {
		return nil, fmt.Errorf("package %q not in snapshot", pkg)
	}
	return t, nil
}
