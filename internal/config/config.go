// Package config loads the pkgtime configuration: built-in defaults,
// optionally overridden by a TOML file, with the GitHub token falling back
// to the GITHUB_TOKEN environment variable.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const defaultUserAgent = "pkgtime/1.0 (pkgtime-tool)"

// Endpoints holds the base URL for each registry. Overriding them is mainly
// useful for mirrors and for tests.
type Endpoints struct {
	PyPI      string `toml:"pypi"`
	NPM       string `toml:"npm"`
	Crates    string `toml:"crates"`
	RubyGems  string `toml:"rubygems"`
	Packagist string `toml:"packagist"`
}

// Config is the resolved tool configuration.
type Config struct {
	UserAgent      string    `toml:"user_agent"`
	TimeoutSeconds int       `toml:"timeout_seconds"`
	GitHubToken    string    `toml:"github_token"`
	Endpoints      Endpoints `toml:"endpoints"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		UserAgent:      defaultUserAgent,
		TimeoutSeconds: 10,
		Endpoints: Endpoints{
			PyPI:      "https://pypi.org/pypi",
			NPM:       "https://registry.npmjs.org",
			Crates:    "https://crates.io/api/v1/crates",
			RubyGems:  "https://rubygems.org/api/v1/versions",
			Packagist: "https://packagist.org/packages",
		},
	}
}

// DefaultPath returns the conventional config file location
// (e.g. ~/.config/pkgtime/config.toml).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pkgtime", "config.toml"), nil
}

// Load reads the config file at path on top of the defaults. An empty path
// means the default location; a missing file is not an error and yields the
// defaults. GITHUB_TOKEN fills the token when the file does not set one.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err == nil {
			path = defaultPath
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			// No config file is fine; run on defaults.
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user_agent must not be empty")
	}
	return nil
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
