// Package registry fetches release timelines from package registries.
//
// Each supported package manager has one Source implementation that talks
// to its registry API and normalizes the response into a timeline.Timeline:
// deduplicated by version, sorted ascending by publish time. Everything
// date-related downstream (champion selection, overlap windows) works on
// that one shape.
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkgtime-org/pkgtime/internal/config"
	"github.com/pkgtime-org/pkgtime/pkg/timeline"
)

// Manager identifies a package manager / registry.
type Manager string

const (
	Pip      Manager = "pip"
	Npm      Manager = "npm"
	Cargo    Manager = "cargo"
	Gem      Manager = "gem"
	Composer Manager = "composer"
	GitHub   Manager = "github"
)

// Managers lists every supported manager, in help-text order.
func Managers() []Manager {
	return []Manager{Pip, Npm, Cargo, Gem, Composer, GitHub}
}

// ParseManager converts a user-supplied manager name into a Manager.
func ParseManager(s string) (Manager, error) {
	m := Manager(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Managers() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown package manager %q (supported: %s)", s, managerList())
}

func managerList() string {
	names := make([]string, 0, len(Managers()))
	for _, m := range Managers() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

// Source fetches the release timeline for one package.
type Source interface {
	Timeline(ctx context.Context, pkg string) (timeline.Timeline, error)
}

// NewSource builds the Source for a manager from the tool configuration.
func NewSource(m Manager, cfg *config.Config, logger *log.Logger) (Source, error) {
	client := newHTTPClient(cfg.Timeout(), cfg.UserAgent, logger)

	switch m {
	case Pip:
		return &PyPISource{client: client, baseURL: cfg.Endpoints.PyPI}, nil
	case Npm:
		return &NPMSource{client: client, baseURL: cfg.Endpoints.NPM}, nil
	case Cargo:
		return &CratesSource{client: client, baseURL: cfg.Endpoints.Crates}, nil
	case Gem:
		return &RubyGemsSource{client: client, baseURL: cfg.Endpoints.RubyGems}, nil
	case Composer:
		return &PackagistSource{client: client, baseURL: cfg.Endpoints.Packagist}, nil
	case GitHub:
		return NewGitHubSource(cfg.GitHubToken, logger), nil
	default:
		return nil, fmt.Errorf("unknown package manager %q", m)
	}
}

// NormalizeName converts a package name to its canonical lowercase form,
// replacing underscores with hyphens (PEP 503, as used by PyPI).
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// dedupeEarliest drops duplicate versions from a timeline, keeping the
// earliest publish time for each, then restores chronological order.
func dedupeEarliest(t timeline.Timeline) timeline.Timeline {
	earliest := make(map[string]int, len(t))
	out := make(timeline.Timeline, 0, len(t))

	for _, r := range t {
		if i, seen := earliest[r.Version]; seen {
			if r.PublishedAt.Before(out[i].PublishedAt) {
				out[i].PublishedAt = r.PublishedAt
			}
			continue
		}
		earliest[r.Version] = len(out)
		out = append(out, r)
	}

	out.Sort()
	return out
}
