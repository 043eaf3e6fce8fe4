// Package logger builds the application's slog loggers.
//
// It extends log/slog with two things: context extractors that inject
// request-scoped attributes (request id, user id) into every log call,
// and an optional Sentry handler so errors create Sentry issues while
// regular logs keep flowing to stdout as JSON.
//
//	log := logger.New(middlewares.RequestIDExtractor)
//	log.InfoContext(ctx, "session issued", slog.String("user_id", uid))
//
// When no Sentry DSN is configured, NewWithSentry degrades to plain
// stdout logging, which keeps local development friction-free.
package logger
