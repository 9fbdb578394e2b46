package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkgtime-org/pkgtime/pkg/timeline"
)

// pypiNaiveLayout matches PyPI's legacy upload_time field, which carries no
// timezone but is documented to be UTC (e.g. "2019-05-16T17:21:44").
const pypiNaiveLayout = "2006-01-02T15:04:05"

// PyPISource fetches release timelines from the Python Package Index.
type PyPISource struct {
	client  *httpClient
	baseURL string
}

type pypiResponse struct {
	Releases map[string][]pypiFile `json:"releases"`
}

type pypiFile struct {
	UploadTime        string `json:"upload_time"`
	UploadTimeISO8601 string `json:"upload_time_iso_8601"`
}

// uploadTime returns the file's publish instant, preferring the RFC 3339
// field over the naive legacy one.
func (f pypiFile) uploadTime() (time.Time, bool) {
	if f.UploadTimeISO8601 != "" {
		if ts, err := time.Parse(time.RFC3339, f.UploadTimeISO8601); err == nil {
			return ts.UTC(), true
		}
	}
	if f.UploadTime != "" {
		if ts, err := time.Parse(pypiNaiveLayout, f.UploadTime); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// Timeline fetches the release history of a package. A version's publish
// time is the earliest upload time among its files; versions with no files
// or no parseable upload time are skipped, matching how pip sees them.
func (s *PyPISource) Timeline(ctx context.Context, pkg string) (timeline.Timeline, error) {
	pkg = NormalizeName(pkg)

	var data pypiResponse
	if err := s.client.getJSON(ctx, fmt.Sprintf("%s/%s/json", s.baseURL, pkg), &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w on PyPI", ErrNotFound)
		}
		return nil, err
	}

	t := make(timeline.Timeline, 0, len(data.Releases))
	for version, files := range data.Releases {
		var earliest time.Time
		found := false
		for _, f := range files {
			if ts, ok := f.uploadTime(); ok && (!found || ts.Before(earliest)) {
				earliest = ts
				found = true
			}
		}
		if found {
			t = append(t, timeline.Release{Version: version, PublishedAt: earliest})
		}
	}

	t.Sort()
	return t, nil
}
