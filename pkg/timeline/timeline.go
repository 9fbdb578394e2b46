// Package timeline implements the date-based version selection logic.
//
// A Timeline is the normalized shape every registry adapter produces: the
// releases of one package ordered by publish time. All operations here are
// pure functions over in-memory timelines; fetching and parsing registry
// data is the adapter layer's job (see internal/registry).
//
// Ordering is strictly chronological. Version strings are opaque
// identifiers and are never compared semantically; a "newer" release is
// simply one published later.
package timeline

import (
	"fmt"
	"sort"
	"time"
)

// Release is one published version of a package.
type Release struct {
	Version     string
	PublishedAt time.Time
}

// Timeline is the release history of a single package, sorted ascending by
// publish time. Versions are unique within a timeline; publish times may
// collide.
type Timeline []Release

// Sort orders the timeline ascending by publish time. The sort is stable,
// so releases sharing a timestamp keep their existing relative order.
func (t Timeline) Sort() {
	sort.SliceStable(t, func(i, j int) bool {
		return t[i].PublishedAt.Before(t[j].PublishedAt)
	})
}

// SelectChampion returns the most recently published release at or before
// cutoff. The boolean is false when no release qualifies (empty timeline,
// or every release is newer than the cutoff) - that is an ordinary result,
// not an error.
//
// When several releases share the winning timestamp the last one in
// insertion order wins. This mirrors the stable sort-then-take-last
// behaviour the tool has always had; with registries that do not guarantee
// ordering of same-timestamp entries the pick is data-source dependent.
func SelectChampion(t Timeline, cutoff time.Time) (Release, bool) {
	candidates := make(Timeline, 0, len(t))
	for _, r := range t {
		if !r.PublishedAt.After(cutoff) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return Release{}, false
	}
	candidates.Sort()
	return candidates[len(candidates)-1], true
}

// Window is a half-open interval [Start, End) of UTC instants.
type Window struct {
	Start time.Time
	End   time.Time
}

// AnchorNotFoundError reports that the anchor version does not exist in the
// fetched release history. It carries the package and version for the
// user-facing message.
type AnchorNotFoundError struct {
	Package string
	Version string
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("version '%s' not found for '%s'", e.Version, e.Package)
}

// AnchorWindow returns the interval during which version was the newest
// release in t: from its publish time until the next release, or until now
// when it is the most recent release ("still latest").
//
// The version match is exact and case-sensitive. A miss returns an
// *AnchorNotFoundError; pkg is only used for that error's message.
// Callers supply now so the open-ended case stays testable.
func AnchorWindow(t Timeline, pkg, version string, now time.Time) (Window, error) {
	for i, r := range t {
		if r.Version == version {
			end := now
			if i+1 < len(t) {
				end = t[i+1].PublishedAt
			}
			return Window{Start: r.PublishedAt, End: end}, nil
		}
	}
	return Window{}, &AnchorNotFoundError{Package: pkg, Version: version}
}

// Segment attributes a sub-interval of a query window to the release that
// was newest during it. Start < End holds for every emitted segment.
type Segment struct {
	Version string
	Start   time.Time
	End     time.Time
}

// OverlapSegments reports which releases of t were the newest available
// during [start, end), as an ordered sequence of segments.
//
// Each release reigns from its publish time until the next release; reigns
// are clipped to the query window and zero-width segments are dropped. The
// scan begins at the release that was current when the window opens, or at
// the first release when the whole timeline starts inside the window - in
// that case the window has an unattributed lead-in before the first
// segment.
//
// An empty timeline or a degenerate window (start >= end) yields no
// segments.
func OverlapSegments(t Timeline, start, end time.Time) []Segment {
	if len(t) == 0 || !start.Before(end) {
		return nil
	}

	idx := 0
	for i := len(t) - 1; i >= 0; i-- {
		if !t[i].PublishedAt.After(start) {
			idx = i
			break
		}
	}

	var segments []Segment
	for {
		r := t[idx]
		reignEnd := end
		if idx+1 < len(t) {
			reignEnd = t[idx+1].PublishedAt
		}

		segStart := laterOf(r.PublishedAt, start)
		segEnd := earlierOf(reignEnd, end)
		if segStart.Before(segEnd) {
			segments = append(segments, Segment{
				Version: r.Version,
				Start:   segStart,
				End:     segEnd,
			})
		}

		idx++
		if idx >= len(t) || !t[idx].PublishedAt.Before(end) {
			break
		}
	}

	return segments
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
