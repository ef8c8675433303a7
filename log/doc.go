// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports multiple output formats ([FormatJSON], [FormatLogfmt], and
// [FormatText]) and severity levels ([LevelError], [LevelWarn], [LevelInfo],
// [LevelDebug], and [LevelTrace]). Use [NewHandler] to create a handler
// directly, or [NewHandlerFromStrings] when the level and format come from
// user input.
//
// [FormatText] renders through charm's log package, which colorizes output
// when the writer is a terminal:
//
//	handler := log.NewHandler(os.Stdout, log.LevelInfo, log.FormatText)
//	slog.SetDefault(slog.New(handler))
//
// Use [Fanout] to deliver records to several handlers at once:
//
//	h := log.Fanout(
//	    log.NewHandler(os.Stdout, log.LevelTrace, log.FormatText),
//	    log.NewHandler(logFile, log.LevelTrace, log.FormatJSON),
//	)
//
// Subpackages supply the remaining pieces of a logging pipeline: filter
// parses per-target level directives, rolling writes time-rotated files, and
// gelf ships records to a remote collector.
package log
