package config

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger builds the structured logger used by the binaries. The level is
// read from SHOOT_LOG_LEVEL and defaults to info; an unknown level also
// falls back to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(GetEnv("SHOOT_LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}
