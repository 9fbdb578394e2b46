// Command pkgtime-snapshot fetches release timelines and writes them to a
// snapshot file, which the main pkgtime command can replay with --snapshot
// for offline and reproducible lookups.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pkgtime-org/pkgtime/internal/config"
	"github.com/pkgtime-org/pkgtime/internal/registry"
	"github.com/pkgtime-org/pkgtime/internal/snapshot"
)

func main() {
	managerName := flag.String("manager", "pip", "package manager (pip, npm, cargo, gem, composer, github)")
	output := flag.String("output", "snapshot.json", "output file")
	configPath := flag.String("config", "", "path to config file")
	token := flag.String("token", os.Getenv("GITHUB_TOKEN"), "GitHub token (github manager only)")
	flag.Parse()

	packages := flag.Args()
	if len(packages) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: pkgtime-snapshot [flags] <packages...>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	manager, err := registry.ParseManager(*managerName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *token != "" {
		cfg.GitHubToken = *token
	}

	source, err := registry.NewSource(manager, cfg, log.New(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	file := &snapshot.File{
		GeneratedAt: time.Now().UTC(),
		Manager:     string(manager),
	}

	for _, pkg := range packages {
		fmt.Printf("Fetching %s timeline for %s...\n", manager, pkg)
		timeline, err := source.Timeline(ctx, pkg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", pkg, err)
			os.Exit(1)
		}
		file.Add(pkg, timeline)
	}

	if err := snapshot.Write(*output, file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, p := range file.Packages {
		total += len(p.Releases)
	}
	fmt.Printf("✅ Wrote %d releases for %d packages to %s\n", total, len(file.Packages), *output)
}
