package timeline

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func release(version string, y int, m time.Month, d int) Release {
	return Release{
		Version:     version,
		PublishedAt: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSelectChampion(t *testing.T) {
	history := Timeline{
		release("1.0.0", 2020, time.January, 1),
		release("1.1.0", 2020, time.February, 1),
		release("2.0.0", 2020, time.March, 1),
	}

	tests := []struct {
		name        string
		timeline    Timeline
		cutoff      time.Time
		wantVersion string
		wantFound   bool
	}{
		{
			name:        "cutoff between releases",
			timeline:    history,
			cutoff:      at(2020, time.February, 15),
			wantVersion: "1.1.0",
			wantFound:   true,
		},
		{
			name:        "cutoff exactly on a release",
			timeline:    history,
			cutoff:      at(2020, time.February, 1),
			wantVersion: "1.1.0",
			wantFound:   true,
		},
		{
			name:        "cutoff after every release",
			timeline:    history,
			cutoff:      at(2021, time.January, 1),
			wantVersion: "2.0.0",
			wantFound:   true,
		},
		{
			name:      "cutoff predates every release",
			timeline:  history,
			cutoff:    at(2019, time.June, 1),
			wantFound: false,
		},
		{
			name:      "empty timeline",
			timeline:  Timeline{},
			cutoff:    at(2020, time.June, 1),
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			champion, found := SelectChampion(tt.timeline, tt.cutoff)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && champion.Version != tt.wantVersion {
				t.Errorf("champion = %s, want %s", champion.Version, tt.wantVersion)
			}
			if found && champion.PublishedAt.After(tt.cutoff) {
				t.Errorf("champion published %s, after cutoff %s", champion.PublishedAt, tt.cutoff)
			}
		})
	}
}

func TestSelectChampion_MaximalAmongCandidates(t *testing.T) {
	history := Timeline{
		release("0.1.0", 2019, time.May, 1),
		release("0.2.0", 2019, time.August, 1),
		release("1.0.0", 2020, time.January, 1),
	}
	cutoff := at(2019, time.December, 31)

	champion, found := SelectChampion(history, cutoff)
	if !found {
		t.Fatal("expected a champion")
	}

	for _, r := range history {
		if !r.PublishedAt.After(cutoff) && r.PublishedAt.After(champion.PublishedAt) {
			t.Errorf("release %s (%s) beats champion %s (%s)",
				r.Version, r.PublishedAt, champion.Version, champion.PublishedAt)
		}
	}
}

func TestSelectChampion_TieTakesLastInInsertionOrder(t *testing.T) {
	when := at(2020, time.June, 1)
	history := Timeline{
		{Version: "1.0.0", PublishedAt: when},
		{Version: "1.0.1", PublishedAt: when},
	}

	champion, found := SelectChampion(history, at(2020, time.July, 1))
	if !found {
		t.Fatal("expected a champion")
	}
	if champion.Version != "1.0.1" {
		t.Errorf("champion = %s, want 1.0.1 (last among equal timestamps)", champion.Version)
	}
}

func TestSelectChampion_DoesNotMutateInput(t *testing.T) {
	history := Timeline{
		release("2.0.0", 2020, time.March, 1),
		release("1.0.0", 2020, time.January, 1),
	}
	snapshot := make(Timeline, len(history))
	copy(snapshot, history)

	SelectChampion(history, at(2020, time.June, 1))

	if !reflect.DeepEqual(history, snapshot) {
		t.Error("SelectChampion reordered its input timeline")
	}
}

func TestAnchorWindow(t *testing.T) {
	history := Timeline{
		release("1.0.0", 2020, time.January, 1),
		release("1.1.0", 2020, time.February, 1),
		release("2.0.0", 2020, time.March, 1),
	}
	now := at(2020, time.December, 1)

	t.Run("anchor with a successor", func(t *testing.T) {
		window, err := AnchorWindow(history, "demo", "1.1.0", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !window.Start.Equal(at(2020, time.February, 1)) {
			t.Errorf("start = %s, want 2020-02-01", window.Start)
		}
		if !window.End.Equal(at(2020, time.March, 1)) {
			t.Errorf("end = %s, want 2020-03-01", window.End)
		}
	})

	t.Run("anchor is the newest release", func(t *testing.T) {
		window, err := AnchorWindow(history, "demo", "2.0.0", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !window.End.Equal(now) {
			t.Errorf("end = %s, want the supplied now %s", window.End, now)
		}
	})

	t.Run("unknown version", func(t *testing.T) {
		_, err := AnchorWindow(history, "demo", "9.9.9", now)
		if err == nil {
			t.Fatal("expected an error")
		}

		var notFound *AnchorNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("error type = %T, want *AnchorNotFoundError", err)
		}
		if notFound.Package != "demo" || notFound.Version != "9.9.9" {
			t.Errorf("error context = %s/%s, want demo/9.9.9", notFound.Package, notFound.Version)
		}
	})

	t.Run("match is case-sensitive", func(t *testing.T) {
		history := Timeline{release("1.0.0rc1", 2020, time.January, 1)}
		if _, err := AnchorWindow(history, "demo", "1.0.0RC1", now); err == nil {
			t.Error("expected AnchorNotFound for case mismatch")
		}
	})
}

func TestOverlapSegments_SpansMultipleVersions(t *testing.T) {
	history := Timeline{
		release("1.0.0", 2020, time.January, 1),
		release("1.1.0", 2020, time.February, 1),
		release("2.0.0", 2020, time.March, 1),
	}

	got := OverlapSegments(history, at(2020, time.January, 15), at(2020, time.February, 15))

	want := []Segment{
		{Version: "1.0.0", Start: at(2020, time.January, 15), End: at(2020, time.February, 1)},
		{Version: "1.1.0", Start: at(2020, time.February, 1), End: at(2020, time.February, 15)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("segments = %+v, want %+v", got, want)
	}
}

func TestOverlapSegments_WindowOpensBeforeFirstRelease(t *testing.T) {
	history := Timeline{release("0.1.0", 2020, time.February, 1)}

	got := OverlapSegments(history, at(2020, time.January, 1), at(2020, time.March, 1))

	want := []Segment{
		{Version: "0.1.0", Start: at(2020, time.February, 1), End: at(2020, time.March, 1)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("segments = %+v, want %+v", got, want)
	}
}

func TestOverlapSegments_DegenerateInputs(t *testing.T) {
	history := Timeline{release("1.0.0", 2020, time.January, 1)}

	tests := []struct {
		name       string
		timeline   Timeline
		start, end time.Time
	}{
		{"empty timeline", Timeline{}, at(2020, time.January, 1), at(2020, time.February, 1)},
		{"zero-width window", history, at(2020, time.June, 1), at(2020, time.June, 1)},
		{"inverted window", history, at(2020, time.June, 1), at(2020, time.May, 1)},
		{"release at window end", history, at(2019, time.November, 1), at(2020, time.January, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverlapSegments(tt.timeline, tt.start, tt.end); len(got) != 0 {
				t.Errorf("expected no segments, got %+v", got)
			}
		})
	}
}

func TestOverlapSegments_WholeTimelineAfterWindowEnd(t *testing.T) {
	history := Timeline{release("1.0.0", 2021, time.January, 1)}

	got := OverlapSegments(history, at(2020, time.January, 1), at(2020, time.June, 1))
	if len(got) != 0 {
		t.Errorf("expected no segments, got %+v", got)
	}
}

func TestOverlapSegments_PartitionsTheWindow(t *testing.T) {
	history := Timeline{
		release("1.0.0", 2020, time.January, 10),
		release("1.1.0", 2020, time.February, 5),
		release("1.2.0", 2020, time.February, 20),
		release("2.0.0", 2020, time.April, 1),
	}
	start, end := at(2020, time.January, 1), at(2020, time.March, 15)

	segments := OverlapSegments(history, start, end)
	if len(segments) == 0 {
		t.Fatal("expected segments")
	}

	for i, s := range segments {
		if !s.Start.Before(s.End) {
			t.Errorf("segment %d has non-positive width: %+v", i, s)
		}
		if s.Start.Before(start) || s.End.After(end) {
			t.Errorf("segment %d leaks outside the window: %+v", i, s)
		}
		if i > 0 && !segments[i-1].End.Equal(s.Start) {
			t.Errorf("gap between segment %d and %d: %s vs %s",
				i-1, i, segments[i-1].End, s.Start)
		}
	}

	// The lead-in before the first release is unattributed; everything from
	// the first segment onward must be covered up to the window end.
	if !segments[0].Start.Equal(history[0].PublishedAt) {
		t.Errorf("first segment starts at %s, want first publish %s",
			segments[0].Start, history[0].PublishedAt)
	}
	if !segments[len(segments)-1].End.Equal(end) {
		t.Errorf("last segment ends at %s, want window end %s",
			segments[len(segments)-1].End, end)
	}
}

func TestOverlapSegments_Idempotent(t *testing.T) {
	history := Timeline{
		release("1.0.0", 2020, time.January, 1),
		release("1.1.0", 2020, time.February, 1),
	}
	start, end := at(2020, time.January, 15), at(2020, time.February, 15)

	first := OverlapSegments(history, start, end)
	second := OverlapSegments(history, start, end)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %+v vs %+v", first, second)
	}
}

func TestTimelineSort_StableForEqualTimestamps(t *testing.T) {
	when := at(2020, time.June, 1)
	history := Timeline{
		release("9.0.0", 2020, time.July, 1),
		{Version: "a", PublishedAt: when},
		{Version: "b", PublishedAt: when},
		release("0.1.0", 2020, time.May, 1),
	}

	history.Sort()

	wantOrder := []string{"0.1.0", "a", "b", "9.0.0"}
	for i, want := range wantOrder {
		if history[i].Version != want {
			t.Fatalf("position %d = %s, want %s", i, history[i].Version, want)
		}
	}
}
