// Package logging sets up the structured logger shared by the vmasm and
// vmlink command-line front-ends: a colorized text handler on stderr,
// fanned out to an optional JSON handler when a log file is configured.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	slogmulti "github.com/samber/slog-multi"
)

// Options configures New.
type Options struct {
	// Level is the minimum level emitted by both handlers.
	Level slog.Level

	// JSONWriter, if non-nil, is a second sink that receives uncolored
	// JSON records — typically an open log file. Nil disables it.
	JSONWriter io.Writer
}

// New builds a logger. With no JSONWriter it writes only the colorized
// console handler; given one, console and JSON run side by side via
// slog-multi's fan-out, so every record reaches both sinks.
func New(opts Options) *slog.Logger {
	console := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       opts.Level,
		ReplaceAttr: colorizeLevel,
	})

	if opts.JSONWriter == nil {
		return slog.New(console)
	}

	jsonHandler := slog.NewJSONHandler(opts.JSONWriter, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(slogmulti.Fanout(console, jsonHandler))
}

// colorizeLevel recolors the rendered level string so errors stand out
// in a terminal; it leaves every other attribute untouched.
func colorizeLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	var c *color.Color
	switch {
	case level >= slog.LevelError:
		c = color.New(color.FgRed, color.Bold)
	case level >= slog.LevelWarn:
		c = color.New(color.FgYellow)
	case level >= slog.LevelInfo:
		c = color.New(color.FgCyan)
	default:
		c = color.New(color.FgWhite)
	}

	return slog.String(slog.LevelKey, c.Sprint(level.String()))
}
