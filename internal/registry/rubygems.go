package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkgtime-org/pkgtime/pkg/timeline"
)

// RubyGemsSource fetches release timelines from rubygems.org.
type RubyGemsSource struct {
	client  *httpClient
	baseURL string
}

type gemVersion struct {
	Number    string `json:"number"`
	CreatedAt string `json:"created_at"`
}

// Timeline fetches the release history of a gem. The versions endpoint
// returns a flat array; entries with unparseable dates are skipped and
// duplicate version numbers (platform-specific builds) keep their earliest
// publish time.
func (s *RubyGemsSource) Timeline(ctx context.Context, pkg string) (timeline.Timeline, error) {
	var versions []gemVersion
	if err := s.client.getJSON(ctx, fmt.Sprintf("%s/%s.json", s.baseURL, pkg), &versions); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w on RubyGems", ErrNotFound)
		}
		return nil, err
	}

	t := make(timeline.Timeline, 0, len(versions))
	for _, v := range versions {
		ts, err := time.Parse(time.RFC3339, v.CreatedAt)
		if err != nil {
			continue
		}
		t = append(t, timeline.Release{Version: v.Number, PublishedAt: ts.UTC()})
	}

	return dedupeEarliest(t), nil
}
