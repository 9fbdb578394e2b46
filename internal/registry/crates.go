package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkgtime-org/pkgtime/pkg/timeline"
)

// CratesSource fetches release timelines from crates.io.
type CratesSource struct {
	client  *httpClient
	baseURL string
}

type cratesResponse struct {
	Versions []cratesVersion `json:"versions"`
}

type cratesVersion struct {
	Num       string `json:"num"`
	CreatedAt string `json:"created_at"`
}

// Timeline fetches the release history of a crate. Versions with
// unparseable creation dates are skipped.
func (s *CratesSource) Timeline(ctx context.Context, pkg string) (timeline.Timeline, error) {
	var data cratesResponse
	if err := s.client.getJSON(ctx, fmt.Sprintf("%s/%s", s.baseURL, pkg), &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w on crates.io", ErrNotFound)
		}
		return nil, err
	}

	t := make(timeline.Timeline, 0, len(data.Versions))
	for _, v := range data.Versions {
		ts, err := time.Parse(time.RFC3339, v.CreatedAt)
		if err != nil {
			continue
		}
		t = append(t, timeline.Release{Version: v.Num, PublishedAt: ts.UTC()})
	}

	return dedupeEarliest(t), nil
}
