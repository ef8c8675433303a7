package loginit

import (
	"io"
	"os"

	"go.jacobcolvin.com/logkit/log"
	"go.jacobcolvin.com/logkit/log/rolling"
)

// Env looks up an environment variable, reporting whether it is present.
type Env func(key string) (string, bool)

// EnvMap returns an [Env] backed by m instead of the process environment.
func EnvMap(m map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Config holds the logging pipeline configuration for one application.
//
// Create instances with [Builder], adjust them with the chained setters, and
// call [Config.Init] once at startup. Every setter marks its field as set
// explicitly, which environment variables never override. A Config is meant
// to be owned by a single goroutine until it is initialized.
type Config struct {
	consoleWriter io.Writer
	env           Env

	console Option[bool]
	file    Option[bool]
	server  Option[bool]

	level  Option[log.Level]
	filter Option[string]

	filePath     Option[string]
	filePrefix   Option[string]
	fileRotation Option[rolling.Rotation]
	fileBackups  Option[int]
	fileFormat   Option[log.Format]

	serverAddress Option[string]
	serverRate    Option[int]

	appName string

	// Flags holds the CLI flag names used by [Config.RegisterFlags].
	Flags Flags
}

// Builder creates a [Config] for appName. The name tags every record sent to
// the log server and is the default log file prefix.
func Builder(appName string) *Config {
	return &Config{
		appName:       appName,
		consoleWriter: os.Stdout,
		env:           os.LookupEnv,
		Flags:         DefaultFlags(),
	}
}

// AppName returns the application name given to [Builder].
func (c *Config) AppName() string {
	return c.appName
}

// LogToConsole enables or disables colorized output on stdout. When not
// called, the console is enabled if LOG_DESTINATION contains 'c'.
func (c *Config) LogToConsole(v bool) *Config {
	c.console = Some(v)
	return c
}

// LogToFile enables or disables the rotating log file. When not called, the
// file is enabled if LOG_DESTINATION contains 'f'.
func (c *Config) LogToFile(v bool) *Config {
	c.file = Some(v)
	return c
}

// LogToServer enables or disables shipping records to a GELF collector. When
// not called, shipping is enabled if LOG_DESTINATION contains 's'.
func (c *Config) LogToServer(v bool) *Config {
	c.server = Some(v)
	return c
}

// Level sets the default severity. When not called, LOG_LEVEL is used, and
// [log.LevelInfo] if that is absent or invalid.
func (c *Config) Level(l log.Level) *Config {
	c.level = Some(l)
	return c
}

// Filter sets a filter expression (see package filter) that replaces
// level-based filtering entirely. An invalid expression makes [Config.Init]
// fail. When not called, LOG_FILTER refines the default level instead.
func (c *Config) Filter(expr string) *Config {
	c.filter = Some(expr)
	return c
}

// LogFilePath sets the directory for the log file. When not called,
// LOG_FILE_PATH is used, and the current directory if that is absent.
func (c *Config) LogFilePath(path string) *Config {
	c.filePath = Some(path)
	return c
}

// LogFilePrefix sets the log file name prefix. Defaults to the app name.
func (c *Config) LogFilePrefix(prefix string) *Config {
	c.filePrefix = Some(prefix)
	return c
}

// LogFileRotation sets the log file rotation. When not called,
// LOG_FILE_ROTATION is used, and [rolling.Daily] if that is absent.
func (c *Config) LogFileRotation(r rolling.Rotation) *Config {
	c.fileRotation = Some(r)
	return c
}

// LogFileBackups sets how many rotated files are kept. Defaults to 3. It has
// no effect with [rolling.Never].
func (c *Config) LogFileBackups(n int) *Config {
	c.fileBackups = Some(n)
	return c
}

// LogFileFormat sets the log file format. Defaults to [log.FormatText].
func (c *Config) LogFileFormat(f log.Format) *Config {
	c.fileFormat = Some(f)
	return c
}

// LogServerAddress sets the collector address in host:port form. When not
// called, LOG_SERVER is used, and [DefaultServerAddress] if that is absent.
func (c *Config) LogServerAddress(addr string) *Config {
	c.serverAddress = Some(addr)
	return c
}

// LogServerRateLimit caps the records shipped per second. Zero, the default,
// means unlimited.
func (c *Config) LogServerRateLimit(perSec int) *Config {
	c.serverRate = Some(perSec)
	return c
}

// ConsoleWriter replaces stdout as the console destination.
func (c *Config) ConsoleWriter(w io.Writer) *Config {
	c.consoleWriter = w
	return c
}

// WithEnv replaces the process environment as the source of fallback values.
func (c *Config) WithEnv(env Env) *Config {
	c.env = env
	return c
}

func (c *Config) lookup(key string) (string, bool) {
	if c.env == nil {
		return "", false
	}

	return c.env(key)
}
