// Package rolling provides a time-rotated log file [Writer].
//
// The active file is always <dir>/<prefix>.<suffix>. When a new [Daily],
// [Hourly], or [Minutely] period begins, the active file is renamed with a
// timestamp and a fresh one is started; only the newest backups are kept.
// Renaming and pruning are delegated to [gopkg.in/natefinch/lumberjack.v2].
//
//	w, err := rolling.New("/var/log/app", "app", "log", rolling.Hourly, 7)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	logger := slog.New(slog.NewJSONHandler(w, nil))
package rolling
