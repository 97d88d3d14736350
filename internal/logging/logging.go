// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the logger's level, encoding and destination.
type Options struct {
	Level  string // debug, info, warn, error; anything else means info
	Format string // "json" or "text"
	File   string // empty means stdout
}

// New returns a logger for opts and the writer behind it. The caller closes
// the writer on shutdown; closing stdout is a no-op.
func New(opts Options) (*slog.Logger, io.Closer) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level = slog.LevelInfo
	}

	var out io.WriteCloser = nopCloser{os.Stdout}
	if opts.File != "" {
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
	}

	return slog.New(newHandler(out, opts.Format, level)), out
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	ho := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.NewTextHandler(w, ho)
	}
	return slog.NewJSONHandler(w, ho)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
