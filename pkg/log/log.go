// Package log builds [log/slog] handlers for the CLI.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

const (
	FormatText   = "text"
	FormatLogfmt = "logfmt"
	FormatJSON   = "json"
)

var ErrUnknownFormat = errors.New("unknown log format")

// CreateHandler creates a [slog.Handler] writing to w with the given level
// and format strings.
func CreateHandler(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	var formatter charmlog.Formatter

	switch strings.ToLower(logFormat) {
	case FormatText, "":
		formatter = charmlog.TextFormatter
	case FormatLogfmt:
		formatter = charmlog.LogfmtFormatter
	case FormatJSON:
		formatter = charmlog.JSONFormatter
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, logFormat)
	}

	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:     GetLevel(logLevel),
		Formatter: formatter,
	}), nil
}

// GetLevel parses a level string leniently, defaulting to info.
func GetLevel(level string) charmlog.Level {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return charmlog.DebugLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error", "panic", "fatal":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// SetDefault installs a default [slog.Logger] writing to stderr. It panics on
// an unknown format and is meant for process initialization.
func SetDefault(logLevel, logFormat string) {
	h, err := CreateHandler(os.Stderr, logLevel, logFormat)
	if err != nil {
		panic(err)
	}

	slog.SetDefault(slog.New(h))
}
