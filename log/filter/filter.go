package filter

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"go.jacobcolvin.com/logkit/log"
)

// LevelOff disables every record for a target.
const LevelOff slog.Level = math.MaxInt32

// ErrInvalidDirective indicates a directive that could not be parsed.
var ErrInvalidDirective = errors.New("invalid filter directive")

// Directive sets the minimum level for records whose target matches Target.
// An empty Target applies to every record without a more specific match.
type Directive struct {
	Target string
	Level  slog.Level
}

// String renders d in directive syntax.
func (d Directive) String() string {
	if d.Target == "" {
		return levelString(d.Level)
	}

	return d.Target + "=" + levelString(d.Level)
}

// Filter decides whether a record with a given target and level is emitted.
//
// Create instances with [New], [Parse], or [ParseLossy].
type Filter struct {
	directives []Directive
	def        slog.Level
}

// New creates a [Filter] with default level def and the given target
// directives. Directives with an empty target replace def; when several are
// given the last one wins.
func New(def slog.Level, ds ...Directive) *Filter {
	f := &Filter{def: def}
	for _, d := range ds {
		if d.Target == "" {
			f.def = d.Level
			continue
		}

		f.directives = slices.DeleteFunc(f.directives, func(o Directive) bool {
			return o.Target == d.Target
		})
		f.directives = append(f.directives, d)
	}

	// Longest target first, so the most specific directive matches.
	slices.SortStableFunc(f.directives, func(a, b Directive) int {
		return len(b.Target) - len(a.Target)
	})

	return f
}

// Parse parses a comma-separated filter expression strictly. Any invalid
// directive fails the whole expression. Records that match no directive are
// dropped unless the expression contains a bare level.
func Parse(expr string) (*Filter, error) {
	ds, errs := parseDirectives(expr)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return New(LevelOff, ds...), nil
}

// ParseLossy parses expr like [Parse] but skips invalid directives. Records
// that match no directive use def unless expr contains a bare level.
func ParseLossy(def slog.Level, expr string) *Filter {
	ds, _ := parseDirectives(expr)

	return New(def, ds...)
}

// Enabled reports whether a record at lvl for target passes the filter.
func (f *Filter) Enabled(target string, lvl slog.Level) bool {
	for _, d := range f.directives {
		if matches(target, d.Target) {
			return lvl >= d.Level
		}
	}

	return lvl >= f.def
}

// MinLevel returns the lowest level any target could emit.
func (f *Filter) MinLevel() slog.Level {
	lowest := f.def
	for _, d := range f.directives {
		lowest = min(lowest, d.Level)
	}

	return lowest
}

// Default returns the level applied to targets without a directive.
func (f *Filter) Default() slog.Level {
	return f.def
}

// Directives returns a copy of the target directives, most specific first.
func (f *Filter) Directives() []Directive {
	return slices.Clone(f.directives)
}

// String renders the filter in directive syntax.
func (f *Filter) String() string {
	parts := []string{levelString(f.def)}
	for _, d := range f.directives {
		parts = append(parts, d.String())
	}

	return strings.Join(parts, ",")
}

func parseDirectives(expr string) ([]Directive, []error) {
	var (
		ds   []Directive
		errs []error
	)

	for raw := range strings.SplitSeq(expr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		d, err := parseDirective(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		ds = append(ds, d)
	}

	return ds, errs
}

func parseDirective(raw string) (Directive, error) {
	target, lvlStr, hasLevel := strings.Cut(raw, "=")
	target = strings.TrimSpace(target)

	if !hasLevel {
		// A bare level sets the default; any other word is a target that
		// enables everything.
		if lvl, ok := parseLevel(target); ok {
			return Directive{Level: lvl}, nil
		}

		if !validTarget(target) {
			return Directive{}, fmt.Errorf("%w: %q", ErrInvalidDirective, raw)
		}

		return Directive{Target: target, Level: log.SlogLevelTrace}, nil
	}

	if !validTarget(target) {
		return Directive{}, fmt.Errorf("%w: %q: bad target", ErrInvalidDirective, raw)
	}

	lvl, ok := parseLevel(lvlStr)
	if !ok {
		return Directive{}, fmt.Errorf("%w: %q: %w", ErrInvalidDirective, raw, log.ErrUnknownLogLevel)
	}

	return Directive{Target: target, Level: lvl}, nil
}

func parseLevel(s string) (slog.Level, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "off") {
		return LevelOff, true
	}

	lvl, err := log.ParseLevel(s)
	if err != nil {
		return 0, false
	}

	return lvl.SlogLevel(), true
}

func levelString(lvl slog.Level) string {
	if lvl >= LevelOff {
		return "off"
	}

	return strings.ToLower(log.LevelName(lvl))
}

func validTarget(t string) bool {
	if t == "" {
		return false
	}

	return !strings.ContainsAny(t, " \t=[]{}\"")
}

// matches reports whether target equals pattern or lies beneath it, where
// "/" separates package path elements and "." separates component names.
func matches(target, pattern string) bool {
	if !strings.HasPrefix(target, pattern) {
		return false
	}

	if len(target) == len(pattern) {
		return true
	}

	next := target[len(pattern)]

	return next == '/' || next == '.'
}
