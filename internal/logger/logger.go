// Package logger provides zerolog constructors shared by the CLI and tests.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a structured logger. The "pretty" format uses the console
// writer for humans; anything else emits raw JSON lines.
func New(format string) zerolog.Logger {
	if format == "pretty" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// NewWithWriter creates a logger writing JSON to a custom writer; tests use
// it to capture output.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
