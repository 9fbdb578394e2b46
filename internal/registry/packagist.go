package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkgtime-org/pkgtime/pkg/timeline"
)

// PackagistSource fetches release timelines from packagist.org.
// Package names use Composer's vendor/package form.
type PackagistSource struct {
	client  *httpClient
	baseURL string
}

type packagistResponse struct {
	Package struct {
		Versions map[string]packagistVersion `json:"versions"`
	} `json:"package"`
}

type packagistVersion struct {
	Time string `json:"time"`
}

// Timeline fetches the release history of a Composer package. Versions
// with unparseable timestamps (including branch aliases without a release
// time) are skipped.
func (s *PackagistSource) Timeline(ctx context.Context, pkg string) (timeline.Timeline, error) {
	var data packagistResponse
	if err := s.client.getJSON(ctx, fmt.Sprintf("%s/%s.json", s.baseURL, pkg), &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w on Packagist (ensure 'vendor/package' format)", ErrNotFound)
		}
		return nil, err
	}

	t := make(timeline.Timeline, 0, len(data.Package.Versions))
	for version, v := range data.Package.Versions {
		ts, err := time.Parse(time.RFC3339, v.Time)
		if err != nil {
			continue
		}
		t = append(t, timeline.Release{Version: version, PublishedAt: ts.UTC()})
	}

	t.Sort()
	return t, nil
}
