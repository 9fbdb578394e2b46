package cmd

import (
	"encoding/json"
	"fmt"
	"time"
)

// packageResult is one package's outcome in a champion report. Found is
// false both for "no release before the cutoff" (no Error) and for fetch
// failures (Error set).
type packageResult struct {
	Package     string     `json:"package"`
	Version     string     `json:"version,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Found       bool       `json:"found"`
	Error       string     `json:"error,omitempty"`
}

// championReport is the --json output of the champion lookup.
type championReport struct {
	Manager  string          `json:"manager"`
	Cutoff   time.Time       `json:"cutoff"`
	Packages []packageResult `json:"packages"`
	Install  []string        `json:"install,omitempty"`
}

type segmentResult struct {
	Version string    `json:"version"`
	Start   time.Time `json:"overlap_start"`
	End     time.Time `json:"overlap_end"`
}

type overlapResult struct {
	Package  string          `json:"package"`
	Segments []segmentResult `json:"segments,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// overlapReport is the --json output of the overlap subcommand.
type overlapReport struct {
	Manager       string          `json:"manager"`
	AnchorPackage string          `json:"anchor_package"`
	AnchorVersion string          `json:"anchor_version"`
	WindowStart   time.Time       `json:"window_start"`
	WindowEnd     time.Time       `json:"window_end"`
	Packages      []overlapResult `json:"packages"`
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
