package telemetry

import (
	"context"
	"log/slog"
)

// countingHandler counts every Info-or-above record it handles, for
// tests that only care whether (and how often) the reporter logged.
type countingHandler struct {
	calls *int
}

func (h countingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h countingHandler) Handle(_ context.Context, r slog.Record) error {
	if r.Level >= slog.LevelInfo {
		*h.calls++
	}
	return nil
}

func (h countingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h countingHandler) WithGroup(string) slog.Handler      { return h }

func discardLogger(calls *int) *slog.Logger {
	return slog.New(countingHandler{calls: calls})
}
