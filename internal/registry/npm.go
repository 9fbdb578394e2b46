package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkgtime-org/pkgtime/pkg/timeline"
)

// NPMSource fetches release timelines from the npm registry.
type NPMSource struct {
	client  *httpClient
	baseURL string
}

type npmResponse struct {
	// Time maps version -> publish timestamp, plus the two bookkeeping
	// keys "created" and "modified".
	Time map[string]string `json:"time"`
}

// Timeline fetches the release history of a package from the npm registry.
// Entries with unparseable timestamps are skipped.
func (s *NPMSource) Timeline(ctx context.Context, pkg string) (timeline.Timeline, error) {
	var data npmResponse
	if err := s.client.getJSON(ctx, fmt.Sprintf("%s/%s", s.baseURL, pkg), &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w on npm", ErrNotFound)
		}
		return nil, err
	}

	t := make(timeline.Timeline, 0, len(data.Time))
	for version, stamp := range data.Time {
		if version == "created" || version == "modified" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			continue
		}
		t = append(t, timeline.Release{Version: version, PublishedAt: ts.UTC()})
	}

	t.Sort()
	return t, nil
}
