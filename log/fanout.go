package log

import (
	"context"
	"errors"
	"log/slog"
)

// Fanout returns a [slog.Handler] that delivers every record to each of hs in
// order. A record is enabled if any handler enables it. With no handlers the
// result discards everything.
func Fanout(hs ...slog.Handler) slog.Handler {
	return &fanout{hs: hs}
}

type fanout struct {
	hs []slog.Handler
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle forwards r to every enabled handler. A failing handler does not stop
// delivery to the rest; all errors are joined.
func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error

	for _, h := range f.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}

		err := h.Handle(ctx, r.Clone())
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(f.hs))
	for i, h := range f.hs {
		hs[i] = h.WithAttrs(attrs)
	}

	return &fanout{hs: hs}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(f.hs))
	for i, h := range f.hs {
		hs[i] = h.WithGroup(name)
	}

	return &fanout{hs: hs}
}
