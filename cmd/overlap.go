package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkgtime-org/pkgtime/internal/registry"
	"github.com/pkgtime-org/pkgtime/pkg/timeline"
)

var overlapCmd = &cobra.Command{
	Use:   "overlap <manager> <package>==<version> <packages...>",
	Short: "Find versions that were latest during an anchor version's reign",
	Long: `Compute the time window during which the anchor package version was the
newest available release (from its publish time until the next release, or
until now if nothing newer exists), then report which versions of the other
packages were newest during that window.`,
	Example: `  # What was latest alongside flask 2.0.0?
  pkgtime overlap pip flask==2.0.0 werkzeug click jinja2

  # Works for every manager, e.g. crates
  pkgtime overlap cargo serde==1.0.100 tokio`,
	Args: cobra.MinimumNArgs(3),
	RunE: runOverlap,
}

func runOverlap(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	manager, err := registry.ParseManager(args[0])
	if err != nil {
		return err
	}

	anchorPkg, anchorVersion, err := parseAnchor(args[1])
	if err != nil {
		return err
	}
	packages := args[2:]

	cfg, err := setup()
	if err != nil {
		return err
	}

	source, err := buildSource(manager, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	anchorHistory, err := source.Timeline(ctx, anchorPkg)
	if err != nil {
		return fmt.Errorf("failed to fetch releases for anchor package '%s': %w", anchorPkg, err)
	}

	window, err := timeline.AnchorWindow(anchorHistory, anchorPkg, anchorVersion, time.Now().UTC())
	if err != nil {
		return err
	}

	report := &overlapReport{
		Manager:       string(manager),
		AnchorPackage: anchorPkg,
		AnchorVersion: anchorVersion,
		WindowStart:   window.Start,
		WindowEnd:     window.End,
	}

	if !jsonOutput {
		fmt.Printf("--- Overlap window for %s ---\n",
			yellow.Sprintf("%s==%s", anchorPkg, anchorVersion))
		fmt.Printf("Window: %s -> %s\n",
			yellow.Sprint(window.Start.Format(time.RFC3339)),
			yellow.Sprint(window.End.Format(time.RFC3339)))
		fmt.Println(strings.Repeat("-", 60))
	}

	var failures []string
	hadFetchError := false

	for _, pkg := range packages {
		history, err := source.Timeline(ctx, pkg)
		if err != nil {
			hadFetchError = true
			report.Packages = append(report.Packages, overlapResult{Package: pkg, Error: err.Error()})
			failures = append(failures, fmt.Sprintf("%s: %v", pkg, err))
			if !jsonOutput {
				fmt.Printf("❌ %s: %v\n", red.Sprint(pkg), err)
			}
			continue
		}

		segments := timeline.OverlapSegments(history, window.Start, window.End)

		result := overlapResult{Package: pkg, Segments: make([]segmentResult, len(segments))}
		for i, s := range segments {
			result.Segments[i] = segmentResult{Version: s.Version, Start: s.Start, End: s.End}
		}
		report.Packages = append(report.Packages, result)

		if jsonOutput {
			continue
		}

		if len(segments) == 0 {
			fmt.Printf("%s: %s\n", yellow.Sprint(pkg), dim.Sprint("no overlapping latest versions"))
			continue
		}

		parts := make([]string, len(segments))
		for i, s := range segments {
			parts[i] = fmt.Sprintf("%s (%s..%s)",
				bold.Sprint(s.Version), formatDate(s.Start), formatDate(s.End))
		}
		fmt.Printf("%s: %s\n", green.Sprint(pkg), strings.Join(parts, ", "))
	}

	if jsonOutput {
		if err := printJSON(report); err != nil {
			return err
		}
	} else if len(failures) > 0 {
		fmt.Println()
		yellow.Println("Attention to errors:")
		for _, f := range failures {
			fmt.Printf(" - %s\n", f)
		}
	}

	if hadFetchError {
		os.Exit(1)
	}
	return nil
}
