package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkgtime-org/pkgtime/internal/registry"
)

// parseCutoff parses a YYYY-MM-DD date into an end-of-day UTC instant, so
// releases published on the cutoff day itself are included.
func parseCutoff(s string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use the format YYYY-MM-DD (e.g., 2019-12-12)", s)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC), nil
}

// parseAnchor splits a pip-style "<package>==<version>" spec.
func parseAnchor(spec string) (pkg, version string, err error) {
	name, ver, ok := strings.Cut(spec, "==")
	name = strings.TrimSpace(name)
	ver = strings.TrimSpace(ver)
	if !ok || name == "" || ver == "" {
		return "", "", fmt.Errorf("anchor must be in format <package>==<version>")
	}
	return name, ver, nil
}

// formatDate formats an instant as its UTC calendar date.
func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// installSpecifier renders one package pin in the manager's native syntax.
func installSpecifier(m registry.Manager, pkg, version string) string {
	switch m {
	case registry.Pip:
		return fmt.Sprintf("%s==%s", pkg, version)
	case registry.Npm:
		return fmt.Sprintf("%s@%s", pkg, version)
	case registry.Cargo:
		return fmt.Sprintf("%s = \"=%s\"", pkg, version)
	case registry.Gem:
		return fmt.Sprintf("gem '%s', '%s'", pkg, version)
	case registry.Composer:
		return fmt.Sprintf("%s:%s", pkg, version)
	case registry.GitHub:
		return fmt.Sprintf("%s v%s", pkg, version)
	default:
		return fmt.Sprintf("%s %s", pkg, version)
	}
}

// printInstallInstructions prints the copy-paste block for the resolved pins.
func printInstallInstructions(m registry.Manager, specs []string) {
	fmt.Println("Copy and paste into your configuration:")
	fmt.Println()
	switch m {
	case registry.Pip:
		green.Printf("pip install %s\n", strings.Join(specs, " "))
	case registry.Npm:
		green.Printf("npm install %s\n", strings.Join(specs, " "))
	case registry.Cargo:
		green.Println("# Cargo.toml dependencies:")
		for _, spec := range specs {
			green.Println(spec)
		}
	case registry.Gem:
		green.Println("# Gemfile:")
		for _, spec := range specs {
			green.Println(spec)
		}
	case registry.Composer:
		green.Printf("composer require %s\n", strings.Join(specs, " "))
	case registry.GitHub:
		green.Println("# releases:")
		for _, spec := range specs {
			green.Println(spec)
		}
	}
	fmt.Println()
}
