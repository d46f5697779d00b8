// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

// Package logging provides the process-wide zerolog logger for mealrec.
//
// Both binaries (server and trainer) call Init once from main and then log
// through the package-level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Int("items", n).Msg("catalog loaded")
//	logging.Ctx(ctx).Warn().Err(err).Msg("recommendation failed")
//
// Output goes to stderr unless File is set, in which case a rotating file
// writer (lumberjack) receives the log stream.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string

	// Format is json or console. Default: json
	Format string

	// Caller adds file:line to every event.
	Caller bool

	// Timestamp adds a "time" field. Default: true
	Timestamp bool

	// File, when Path is set, sends output to a size-rotated log file
	// instead of Output.
	File FileConfig

	// Output defaults to os.Stderr.
	Output io.Writer
}

// FileConfig controls the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultConfig is JSON at info level on stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var (
	// current is swapped whole on Init; readers never lock.
	current atomic.Pointer[zerolog.Logger]

	// fileMu guards rotator across Init and Close.
	fileMu  sync.Mutex
	rotator *lumberjack.Logger
)

//nolint:gochecknoinits // logging must work before main calls Init
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.MessageFieldName = "message"
	Init(DefaultConfig())
}

// Init (re)configures the global logger. Calling it again replaces the
// output, closing a previously opened log file.
func Init(cfg Config) {
	fileMu.Lock()
	defer fileMu.Unlock()

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if rotator != nil {
		rotator.Close() //nolint:errcheck // replaced below
		rotator = nil
	}
	if cfg.File.Path != "" {
		rotator = newRotator(cfg.File)
		out = rotator
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: rotator != nil}
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zctx := zerolog.New(out).With()
	if cfg.Timestamp {
		zctx = zctx.Timestamp()
	}
	if cfg.Caller {
		zctx = zctx.Caller()
	}
	l := zctx.Logger()
	current.Store(&l)
}

// Close flushes and closes the rotating log file, if one is open.
func Close() error {
	fileMu.Lock()
	defer fileMu.Unlock()
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

func newRotator(fc FileConfig) *lumberjack.Logger {
	size := fc.MaxSizeMB
	if size <= 0 {
		size = 100
	}
	return &lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    size,
		MaxBackups: fc.MaxBackups,
		MaxAge:     fc.MaxAgeDays,
		Compress:   fc.Compress,
	}
}

// parseLevel accepts zerolog level names case-insensitively, plus
// "warning". Anything else is info.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger { return *current.Load() }

// SetLogger replaces the global logger. Tests use it to capture output.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetLogger(l zerolog.Logger) { current.Store(&l) }

// With starts a child logger context from the global logger.
func With() zerolog.Context { return current.Load().With() }

// Debug starts a debug event.
func Debug() *zerolog.Event { return current.Load().Debug() }

// Info starts an info event. Terminate it with Msg or Send.
func Info() *zerolog.Event { return current.Load().Info() }

// Warn starts a warning event.
func Warn() *zerolog.Event { return current.Load().Warn() }

// Error starts an error event.
func Error() *zerolog.Event { return current.Load().Error() }

// Fatal starts an event that exits the process with status 1 once sent.
func Fatal() *zerolog.Event { return current.Load().Fatal() }

// Err starts an error event carrying err.
func Err(err error) *zerolog.Event { return current.Load().Err(err) }

// NewTestLogger returns a timestamped JSON logger writing to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
