package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls a slog attribute out of a context.
// Returning false skips the attribute.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// Decorator wraps a slog.Handler and injects context-extracted
// attributes on every log call, so request-scoped values stay fresh.
type Decorator struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewDecorator wraps a handler with context extractors.
// Nil extractors are filtered out.
func NewDecorator(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &Decorator{next: next, extractors: clean}
}

func (d *Decorator) Enabled(ctx context.Context, level slog.Level) bool {
	return d.next.Enabled(ctx, level)
}

func (d *Decorator) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range d.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return d.next.Handle(ctx, rec)
}

func (d *Decorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Decorator{next: d.next.WithAttrs(attrs), extractors: d.extractors}
}

func (d *Decorator) WithGroup(name string) slog.Handler {
	return &Decorator{next: d.next.WithGroup(name), extractors: d.extractors}
}
