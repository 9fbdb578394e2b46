package cmd

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates the logger handed to registry sources. Verbose mode
// lowers the level to debug, which makes the sources print each URL they
// fetch.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
