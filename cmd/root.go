package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	colour "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pkgtime-org/pkgtime/internal/config"
	"github.com/pkgtime-org/pkgtime/internal/registry"
	"github.com/pkgtime-org/pkgtime/internal/snapshot"
	"github.com/pkgtime-org/pkgtime/pkg/timeline"
)

var (
	verbose      bool
	jsonOutput   bool
	quiet        bool
	noColour     bool
	githubToken  string
	configPath   string
	snapshotPath string
	showVersion  bool

	// Version information (set via SetVersionInfo from main)
	appVersion = "dev"
	buildTime  = "unknown"
	gitCommit  = "unknown"

	// Colours for output
	green  = colour.New(colour.FgGreen, colour.Bold)
	yellow = colour.New(colour.FgYellow, colour.Bold)
	red    = colour.New(colour.FgRed, colour.Bold)
	bold   = colour.New(colour.Bold)
	dim    = colour.New(colour.Faint)
)

// SetVersionInfo sets the version information from the main package
func SetVersionInfo(version, build, commit string) {
	appVersion = version
	buildTime = build
	gitCommit = commit
}

var rootCmd = &cobra.Command{
	Use:   "pkgtime <manager> <date> <packages...>",
	Short: "Find package versions as they existed on a given date",
	Long: `Find, for each package, the most recent version released on or before a
cutoff date. Useful for reproducing the dependency state of a project as it
was at a historical point in time.

Supported managers: pip, npm, cargo, gem, composer, github.`,
	Example: `  # Python packages as they were on 2019-12-12
  pkgtime pip 2019-12-12 requests flask

  # npm packages with JSON output
  pkgtime npm 2021-06-01 react --json

  # GitHub releases of a repository
  pkgtime github 2023-01-01 actions/runner

  # Versions of other packages that were latest while flask 2.0.0 was newest
  pkgtime overlap pip flask==2.0.0 werkzeug click`,
	Args: cobra.ArbitraryArgs,
	RunE: runChampion,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColour, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().StringVarP(&githubToken, "token", "t", "", "GitHub token for the github manager (or GITHUB_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "read timelines from a snapshot file instead of the network")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the install command block")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")

	rootCmd.AddCommand(overlapCmd)
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup resolves the configuration once flags are parsed.
func setup() (*config.Config, error) {
	if noColour {
		colour.NoColor = true
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if githubToken != "" {
		cfg.GitHubToken = githubToken
	}
	return cfg, nil
}

// buildSource returns the timeline source for a manager: the configured
// registry client, or a snapshot replay when --snapshot is set.
func buildSource(m registry.Manager, cfg *config.Config) (registry.Source, error) {
	if snapshotPath != "" {
		snap, err := snapshot.Load(snapshotPath)
		if err != nil {
			return nil, err
		}
		if snap.Manager != "" && snap.Manager != string(m) {
			return nil, fmt.Errorf("snapshot was taken for %q, not %q", snap.Manager, m)
		}
		return snap.Source(), nil
	}
	return registry.NewSource(m, cfg, newLogger(os.Stderr, verbose))
}

func runChampion(cmd *cobra.Command, args []string) error {
	// Disable automatic usage printing on error
	cmd.SilenceUsage = true

	// Show version if requested
	if showVersion {
		fmt.Printf("pkgtime %s\n", appVersion)
		fmt.Printf("Build time: %s\n", buildTime)
		fmt.Printf("Git commit: %s\n", gitCommit)
		return nil
	}

	if len(args) < 3 {
		return fmt.Errorf("expected <manager> <date> <packages...> (or use the overlap subcommand)")
	}

	manager, err := registry.ParseManager(args[0])
	if err != nil {
		return err
	}

	cutoff, err := parseCutoff(args[1])
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
	report := &championReport{Manager: string(manager), Cutoff: cutoff}
	var installs []string
	var failures []string
	hadFetchError := false

	if !jsonOutput {
		fmt.Printf("--- Searching for %s packages up to %s ---\n",
			yellow.Sprint(manager), yellow.Sprint(formatDate(cutoff)))
	}

	for _, pkg := range packages {
		history, err := source.Timeline(ctx, pkg)
		if err != nil {
			hadFetchError = true
			report.Packages = append(report.Packages, packageResult{Package: pkg, Error: err.Error()})
			failures = append(failures, fmt.Sprintf("%s: %v", pkg, err))
			if !jsonOutput {
				fmt.Printf("❌ %s: %v\n", red.Sprint(pkg), err)
			}
			continue
		}

		champion, found := timeline.SelectChampion(history, cutoff)
		if !found {
			// A legitimate outcome, not a malfunction: the package simply
			// had no release yet on the cutoff date.
			msg := "No version found before the specified date"
			report.Packages = append(report.Packages, packageResult{Package: pkg})
			failures = append(failures, fmt.Sprintf("%s: %s", pkg, msg))
			if !jsonOutput {
				fmt.Printf("❌ %s: %s\n", red.Sprint(pkg), msg)
			}
			continue
		}

		report.Packages = append(report.Packages, packageResult{
			Package:     pkg,
			Version:     champion.Version,
			PublishedAt: &champion.PublishedAt,
			Found:       true,
		})
		installs = append(installs, installSpecifier(manager, pkg, champion.Version))
		if !jsonOutput {
			fmt.Printf("✅ %s: %s (from %s)\n",
				green.Sprint(pkg), bold.Sprint(champion.Version), formatDate(champion.PublishedAt))
		}
	}

	if jsonOutput {
		report.Install = installs
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		fmt.Println(strings.Repeat("-", 60))

		if len(installs) > 0 && !quiet {
			printInstallInstructions(manager, installs)
		}

		if len(failures) > 0 {
			yellow.Println("Attention to errors:")
			for _, f := range failures {
				fmt.Printf(" - %s\n", f)
			}
		}
	}

	if hadFetchError {
		os.Exit(1)
	}
	return nil
}
