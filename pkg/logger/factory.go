package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a JSON logger writing to stdout with the given context
// extractors applied to every record.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(NewDecorator(h, extractors...))
}

// NewNope creates a no-op logger that discards all output. Used as the
// default where logging is optional.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
