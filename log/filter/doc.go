// Package filter implements per-target level filtering for [log/slog].
//
// A filter expression is a comma-separated list of directives:
//
//	info                    default level for every target
//	example.com/app/db=debug debug and above for one package (and below it)
//	cache=trace             trace and above for records tagged component=cache
//	noisy=off               nothing from noisy
//	worker                  a bare target enables every level
//
// Levels are off, error, warn, info, debug, and trace, matched
// case-insensitively. A record's target is its "component" attribute when
// present and the emitting Go package path otherwise. Targets match exactly or
// at a "/" or "." boundary, and the longest matching target wins.
//
// [Parse] rejects malformed expressions, which suits values a program sets
// itself. [ParseLossy] skips bad directives, which suits values read from the
// environment:
//
//	f := filter.ParseLossy(slog.LevelInfo, os.Getenv("LOG_FILTER"))
//	logger := slog.New(f.Handler(next))
package filter
