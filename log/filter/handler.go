package filter

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
)

// TargetKey is the attribute that names a record's target. Records without
// it are attributed to the Go package that emitted them.
const TargetKey = "component"

// Handler wraps next so that only records passing f reach it.
func (f *Filter) Handler(next slog.Handler) slog.Handler {
	return &handler{filter: f, next: next}
}

type handler struct {
	filter *Filter
	next   slog.Handler
	target string
	group  string
}

func (h *handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	if h.target != "" {
		if !h.filter.Enabled(h.target, lvl) {
			return false
		}
	} else if lvl < h.filter.MinLevel() {
		return false
	}

	return h.next.Enabled(ctx, lvl)
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	target := h.target
	if target == "" && h.group == "" {
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == TargetKey {
				target = a.Value.String()
				return false
			}

			return true
		})
	}

	if target == "" {
		target = callerPackage(r.PC)
	}

	if !h.filter.Enabled(target, r.Level) {
		return nil
	}

	return h.next.Handle(ctx, r)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	target := h.target
	if h.group == "" {
		for _, a := range attrs {
			if a.Key == TargetKey {
				target = a.Value.String()
			}
		}
	}

	return &handler{
		filter: h.filter,
		next:   h.next.WithAttrs(attrs),
		target: target,
		group:  h.group,
	}
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	group := name
	if h.group != "" {
		group = h.group + "." + name
	}

	return &handler{
		filter: h.filter,
		next:   h.next.WithGroup(name),
		target: h.target,
		group:  group,
	}
}

// callerPackage returns the import path of the function at pc, e.g.
// "example.com/app/db" for "example.com/app/db.(*Pool).Get".
func callerPackage(pc uintptr) string {
	if pc == 0 {
		return ""
	}

	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	fn := frame.Function

	slash := strings.LastIndexByte(fn, '/')

	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return fn
	}

	return fn[:slash+1+dot]
}
