package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	charmlog "charm.land/log/v2"
)

// Level represents a log severity.
type Level string

const (
	// LevelError only passes errors.
	LevelError Level = "error"
	// LevelWarn passes warnings and errors.
	LevelWarn Level = "warn"
	// LevelInfo passes informational messages and above.
	LevelInfo Level = "info"
	// LevelDebug passes debug messages and above.
	LevelDebug Level = "debug"
	// LevelTrace passes everything, including trace messages.
	LevelTrace Level = "trace"
)

// SlogLevelTrace is the [slog.Level] used for [LevelTrace]. It sits one step
// below [slog.LevelDebug].
const SlogLevelTrace = slog.LevelDebug - 4

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs as JSON objects.
	FormatJSON Format = "json"
	// FormatLogfmt outputs logs in logfmt format.
	FormatLogfmt Format = "logfmt"
	// FormatText outputs human-readable, colorized logs when the writer is a
	// terminal.
	FormatText Format = "text"
)

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

var (
	allLevels  = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}
	allFormats = []Format{FormatJSON, FormatLogfmt, FormatText}
)

// SlogLevel returns the [slog.Level] for l. Unknown levels map to
// [slog.LevelInfo].
func (l Level) SlogLevel() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelDebug:
		return slog.LevelDebug
	case LevelTrace:
		return SlogLevelTrace
	}

	return slog.LevelInfo
}

// String returns the upper-case display name of l, e.g. "INFO".
func (l Level) String() string {
	return strings.ToUpper(string(l))
}

// LevelName returns the display name for an arbitrary [slog.Level], naming
// [SlogLevelTrace] "TRACE" instead of slog's "DEBUG-4".
func LevelName(lvl slog.Level) string {
	if lvl <= SlogLevelTrace {
		return "TRACE"
	}

	return lvl.String()
}

// NewHandlerFromStrings creates a [slog.Handler] by strings.
func NewHandlerFromStrings(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	logLvl, err := ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	logFmt, err := ParseFormat(logFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return NewHandler(w, logLvl, logFmt), nil
}

// NewHandler creates a [slog.Handler] with the specified level and format.
// Unknown formats fall back to [FormatText].
func NewHandler(w io.Writer, logLvl Level, logFmt Format) slog.Handler {
	lvl := logLvl.SlogLevel()

	switch logFmt {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       lvl,
			ReplaceAttr: replaceLevel,
		})

	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       lvl,
			ReplaceAttr: replaceLevel,
		})
	}

	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(lvl),
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	styles := charmlog.DefaultStyles()
	styles.Levels[charmlog.Level(SlogLevelTrace)] = lipgloss.NewStyle().
		SetString("TRAC").
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color("245"))
	logger.SetStyles(styles)

	return logger
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}

	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	return slog.String(slog.LevelKey, LevelName(lvl))
}

// ParseLevel parses a log level string and returns the corresponding [Level].
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	}

	return "", ErrUnknownLogLevel
}

// ParseFormat parses a log format string and returns the corresponding [Format].
func ParseFormat(format string) (Format, error) {
	logFmt := Format(strings.ToLower(format))
	if slices.Contains(allFormats, logFmt) {
		return logFmt, nil
	}

	return "", ErrUnknownLogFormat
}

// GetAllLevelStrings returns every recognized level name, most severe first.
func GetAllLevelStrings() []string {
	out := make([]string, 0, len(allLevels))
	for _, l := range allLevels {
		out = append(out, string(l))
	}

	return out
}

// GetAllFormatStrings returns every recognized format name.
func GetAllFormatStrings() []string {
	out := make([]string, 0, len(allFormats))
	for _, f := range allFormats {
		out = append(out, string(f))
	}

	return out
}
