// Package logging configures the global zerolog logger used for diagnostics.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Settings controls where diagnostics go and how much is written
type Settings struct {
	Level   string
	File    string // Empty writes to Stderr
	Verbose bool   // Forces debug level
	Stderr  io.Writer
}

// Setup installs the global logger and returns a closer for the log file.
func Setup(s Settings) (func() error, error) {
	level, err := ParseLevel(s.Level)
	if err != nil {
		return nil, err
	}
	if s.Verbose {
		level = zerolog.DebugLevel
	}

	var w io.Writer
	closer := func() error { return nil }

	if s.File != "" {
		if err := os.MkdirAll(filepath.Dir(s.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(s.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = f.Close
	} else {
		stderr := s.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		w = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	return closer, nil
}

// ParseLevel maps a level name to a zerolog level; empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}
