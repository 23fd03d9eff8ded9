// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
// Every logger writes to stderr (or the rotating log file) because stdout carries IPC frames.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var output io.Writer = os.Stderr

// New creates a new default charm log.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(output, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Output returns the writer loggers are created with.
func Output() io.Writer {
	return output
}
