package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	gh "github.com/google/go-github/v57/github"
	"github.com/pkgtime-org/pkgtime/pkg/timeline"
	"golang.org/x/oauth2"
)

// GitHubSource fetches release timelines from GitHub repository releases.
// The "package name" is an owner/repo pair, e.g. "actions/runner".
type GitHubSource struct {
	gh     *gh.Client
	logger *log.Logger
}

// NewGitHubSource creates a GitHub-backed source. An empty token means
// unauthenticated requests, which GitHub rate-limits much more tightly.
func NewGitHubSource(token string, logger *log.Logger) *GitHubSource {
	var client *gh.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		tc := oauth2.NewClient(context.Background(), ts)
		client = gh.NewClient(tc)
	} else {
		client = gh.NewClient(nil)
	}

	return &GitHubSource{gh: client, logger: logger}
}

// Timeline fetches the published releases of a repository. Drafts,
// prereleases, and releases whose tag is not a parseable version are
// skipped. The version string is the normalized tag ("v" prefix removed).
func (s *GitHubSource) Timeline(ctx context.Context, pkg string) (timeline.Timeline, error) {
	owner, repo, err := splitRepo(pkg)
	if err != nil {
		return nil, err
	}

	var t timeline.Timeline
	opts := &gh.ListOptions{PerPage: 100}

	for page := 1; page <= 10; page++ { // Safety limit of 10 pages
		opts.Page = page
		s.logger.Debug("fetching releases", "repo", owner+"/"+repo, "page", page)

		releases, resp, err := s.gh.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			var ghErr *gh.ErrorResponse
			if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w on GitHub", ErrNotFound)
			}
			return nil, fmt.Errorf("failed to list releases (page %d): %w", page, err)
		}

		for _, release := range releases {
			if release.GetDraft() || release.GetPrerelease() {
				continue
			}

			tag := release.GetTagName()
			publishedAt := release.GetPublishedAt()
			if tag == "" || publishedAt.IsZero() {
				continue
			}

			// Normalizes tags like "v2.329.0"; skip tags that are not
			// versions at all (e.g. nightly build markers).
			ver, err := semver.NewVersion(tag)
			if err != nil {
				continue
			}

			t = append(t, timeline.Release{
				Version:     ver.String(),
				PublishedAt: publishedAt.Time.UTC(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
	}

	return dedupeEarliest(t), nil
}

// splitRepo parses "owner/repo", tolerating a full github.com URL.
func splitRepo(pkg string) (owner, repo string, err error) {
	s := strings.TrimSpace(pkg)
	if i := strings.Index(s, "github.com/"); i >= 0 {
		s = s[i+len("github.com/"):]
	}
	s = strings.TrimSuffix(s, "/")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GitHub package %q (expected owner/repo)", pkg)
	}
	return parts[0], parts[1], nil
}
