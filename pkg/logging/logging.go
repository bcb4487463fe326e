// Package logging constructs the zerolog.Logger shared by all components.
//
// The logger is created once per process and passed by value into every
// component that emits log records. There is no package-level logger: callers
// that want to silence a component hand it zerolog.Nop().
package logging

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Options controls where and how log records are written.
type Options struct {
	// Level is the minimum level to emit: "debug", "info", "warn" or "error".
	Level string
	// File, when non-empty, appends all records to the given path in
	// addition to the console.
	File string
	// NoColor disables ANSI colors on the console writer.
	NoColor bool
}

// New builds a logger writing human-readable output to stderr and, when
// configured, structured output to a log file. The returned closer releases
// the log file handle and is safe to call even when no file is open.
func New(opts Options) (zerolog.Logger, func() error, error) {
	noopClose := func() error { return nil }

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), noopClose, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: opts.NoColor}

	var writer zerolog.LevelWriter = zerolog.MultiLevelWriter(console)
	closer := noopClose

	if opts.File != "" {
		file, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), noopClose, fmt.Errorf("failed to open log file %s: %w", opts.File, err)
		}
		writer = zerolog.MultiLevelWriter(console, file)
		closer = file.Close
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}
