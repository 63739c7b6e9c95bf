// Package logger provides structured logging for the application.
//
// It builds on the standard library log/slog package: JSON output, a
// configurable level, and helpers for carrying a request-scoped logger
// through a context.Context.
package logger
