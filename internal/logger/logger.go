package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a structured JSON logger writing to stdout at the requested
// level. The argument is trimmed and case-insensitive:
//
//	debug  -> slog.LevelDebug
//	info   -> slog.LevelInfo
//	warn   -> slog.LevelWarn
//	error  -> slog.LevelError
//	silent -> returns Silent()
//
// Empty or unknown values fall back to INFO.
func New(v string) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	case "SILENT":
		return Silent()
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(
		os.Stdout,
		&slog.HandlerOptions{
			Level: level,
		},
	))
}

// Silent returns a logger whose handler discards all output. Used in tests
// and wherever logging must be suppressed without branching.
func Silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
