package logging

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// Supported output formats for New.
const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatZerolog = "zerolog"
	FormatConsole = "console"
)

// New builds a Logger writing to w. "json" and "text" are served by slog,
// "zerolog" (JSON lines) and "console" (human-readable) by zerolog.
// Unknown levels fall back to info.
func New(format, level string, w io.Writer) (Logger, error) {
	switch format {
	case FormatJSON, "":
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
		return NewSlogLogger(slog.New(h)), nil
	case FormatText:
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
		return NewSlogLogger(slog.New(h)), nil
	case FormatZerolog:
		l := zerolog.New(w).Level(zerologLevel(level)).With().Timestamp().Logger()
		return NewZerologLogger(l), nil
	case FormatConsole:
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		l := zerolog.New(cw).Level(zerologLevel(level)).With().Timestamp().Logger()
		return NewZerologLogger(l), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
