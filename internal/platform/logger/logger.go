// Package logger constructs the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns a text-handler logger writing to stdout.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
