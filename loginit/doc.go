// Package loginit assembles a process-wide [log/slog] pipeline from up to
// three sinks: a colorized console, a time-rotated log file, and a GELF log
// server.
//
// Each option is either unset or explicitly set. Explicit values come from
// the [Config] setters, from CLI flags registered with [Config.RegisterFlags],
// or from a YAML document passed to [Config.LoadYAML]. [Config.Resolve] fills
// whatever is still unset from the environment, then from defaults:
//
//	LOG_DESTINATION    any of c, f, s: console, file, server (absent: none)
//	LOG_LEVEL          error, warn, info, debug, or trace (default info)
//	LOG_FILE_PATH      log file directory (default current directory)
//	LOG_FILE_ROTATION  <d|h|m|n>[:<backups>] (default d:3)
//	LOG_SERVER         host:port (default logging-server:12201)
//	LOG_FILTER         filter expression refining the level (see package filter)
//
// [Config.Init] resolves, composes, and installs the pipeline as the default
// logger, once per process:
//
//	cfg := loginit.Builder("app").
//	    LogToConsole(true).
//	    Level(log.LevelDebug)
//
//	backend, err := cfg.Init(ctx)
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//
//	slog.Info("started", slog.String("config", cfg.String()))
//
// Log shipping is best effort. The server connection is made in the
// background, and a failure is written to the console writer instead of
// failing Init.
package loginit
