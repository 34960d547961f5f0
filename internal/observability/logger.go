package observability

import "log/slog"

// DiscardLogger returns a logger that drops every record. Commands build
// their logger with the shared observability package.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
