// Package logging configures the zerolog loggers used by the reqguard
// binaries and adapts them to the logger interfaces of the library packages.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "LOG_LEVEL"

func init() {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
}

// ParseLevel parses raw as a zerolog level. Empty or unknown values yield
// info; ok reports whether raw was understood.
func ParseLevel(raw string) (level zerolog.Level, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zerolog.InfoLevel, true
	}

	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return level, true
}

// New returns a JSON logger writing to w, tagged with the host and
// executable names.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp()

	if hostname, err := os.Hostname(); err == nil {
		ctx = ctx.Str("hostname", hostname)
	}
	if exe, err := os.Executable(); err == nil {
		ctx = ctx.Str("executable", filepath.Base(exe))
	}

	return ctx.Logger().Level(level)
}

// FromEnv returns a logger writing to stderr at the level named by LOG_LEVEL.
func FromEnv() zerolog.Logger {
	level, ok := ParseLevel(os.Getenv(EnvLevel))
	logger := New(os.Stderr, level)
	if !ok {
		logger.Warn().Str("value", os.Getenv(EnvLevel)).Msg("invalid LOG_LEVEL, defaulting to INFO")
	}
	return logger
}
