package loginit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.jacobcolvin.com/logkit/log"
	"go.jacobcolvin.com/logkit/log/rolling"
)

// Environment variables consulted for options that were not set explicitly.
const (
	// EnvDestination lists enabled sinks: 'c' console, 'f' file, 's' server.
	EnvDestination = "LOG_DESTINATION"
	// EnvFilePath is the log file directory.
	EnvFilePath = "LOG_FILE_PATH"
	// EnvFileRotation is <d|h|m|n>[:<backups>].
	EnvFileRotation = "LOG_FILE_ROTATION"
	// EnvServer is the collector address in host:port form.
	EnvServer = "LOG_SERVER"
	// EnvLevel is one of error, warn, info, debug, trace, matched
	// case-insensitively. Anything else, including "warning", means info.
	EnvLevel = "LOG_LEVEL"
	// EnvFilter is a filter expression refining the default level.
	EnvFilter = "LOG_FILTER"
)

// DefaultServerAddress is used when neither [Config.LogServerAddress] nor
// LOG_SERVER is given.
const DefaultServerAddress = "logging-server:12201"

// ErrUnresolved indicates a sink was composed from a [Config] whose options
// have not been resolved.
var ErrUnresolved = errors.New("configuration not resolved")

// Settings is a fully resolved snapshot of a [Config].
type Settings struct {
	Filter        Option[string]
	AppName       string
	Level         log.Level
	FilePath      string
	FilePrefix    string
	FileRotation  rolling.Rotation
	FileFormat    log.Format
	ServerAddress string
	FileBackups   int
	ServerRate    int
	Console       bool
	File          bool
	Server        bool
}

// Resolve fills every unset option from the environment, falling back to
// defaults. Explicitly set options are left alone. Malformed environment
// values are ignored in favor of defaults, so Resolve cannot fail. Calling it
// again changes nothing.
func (c *Config) Resolve() *Config {
	dest, hasDest := c.lookup(EnvDestination)
	destination := func(ch string) func() bool {
		return func() bool {
			return hasDest && strings.Contains(dest, ch)
		}
	}

	c.console = c.console.OrElse(destination("c"))
	c.file = c.file.OrElse(destination("f"))
	c.server = c.server.OrElse(destination("s"))

	c.level = c.level.OrElse(func() log.Level {
		v, _ := c.lookup(EnvLevel)

		// Only the five level names count; aliases fall back to info.
		lvl, err := log.ParseLevel(v)
		if err != nil || !strings.EqualFold(strings.TrimSpace(v), string(lvl)) {
			return log.LevelInfo
		}

		return lvl
	})

	c.filePath = c.filePath.OrElse(func() string {
		v, _ := c.lookup(EnvFilePath)
		return v
	})

	if !c.fileRotation.IsSet() {
		c.resolveRotation()
	}

	c.filePrefix = c.filePrefix.OrElse(func() string { return c.appName })
	c.fileBackups = c.fileBackups.OrElse(func() int { return rolling.DefaultBackups })
	c.fileFormat = c.fileFormat.OrElse(func() log.Format { return log.FormatText })

	c.serverAddress = c.serverAddress.OrElse(func() string {
		v, ok := c.lookup(EnvServer)
		if !ok {
			return DefaultServerAddress
		}

		return v
	})
	c.serverRate = c.serverRate.OrElse(func() int { return 0 })

	return c
}

// resolveRotation derives rotation and the backup count from
// LOG_FILE_ROTATION. An unknown code means daily; a count that is missing or
// not a non-negative integer means the default of 3. When the variable is
// absent, rotation is daily and the backup count is left alone.
func (c *Config) resolveRotation() {
	v, ok := c.lookup(EnvFileRotation)
	if !ok {
		c.fileRotation = Some(rolling.Daily)
		return
	}

	parts := strings.Split(v, ":")

	switch parts[0] {
	case "h":
		c.fileRotation = Some(rolling.Hourly)
	case "m":
		c.fileRotation = Some(rolling.Minutely)
	case "n":
		c.fileRotation = Some(rolling.Never)
	default:
		c.fileRotation = Some(rolling.Daily)
	}

	n := rolling.DefaultBackups
	if len(parts) > 1 {
		v, err := strconv.Atoi(parts[1])
		if err == nil && v >= 0 {
			n = v
		}
	}

	c.fileBackups = Some(n)
}

// Settings returns the values used for composition, or [ErrUnresolved]
// naming every option that an enabled sink needs but that is still unset.
// After [Config.Resolve] it always succeeds.
func (c *Config) Settings() (Settings, error) {
	var missing []string

	need := func(name string, set bool) {
		if !set {
			missing = append(missing, name)
		}
	}

	need("console", c.console.IsSet())
	need("file", c.file.IsSet())
	need("server", c.server.IsSet())

	// A filter expression replaces the level.
	if !c.filter.IsSet() {
		need("level", c.level.IsSet())
	}

	if c.file.value {
		need("file path", c.filePath.IsSet())
		need("file rotation", c.fileRotation.IsSet())
	}

	if c.server.value {
		need("server address", c.serverAddress.IsSet())
	}

	if len(missing) > 0 {
		return Settings{}, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(missing, ", "))
	}

	return c.snapshot(), nil
}

// snapshot copies the current values, using defaults for options that have
// one and zero values for the rest.
func (c *Config) snapshot() Settings {
	return Settings{
		AppName:       c.appName,
		Console:       c.console.value,
		File:          c.file.value,
		Server:        c.server.value,
		Level:         c.level.ValueOr(log.LevelInfo),
		Filter:        c.filter,
		FilePath:      c.filePath.value,
		FilePrefix:    c.filePrefix.ValueOr(c.appName),
		FileRotation:  c.fileRotation.value,
		FileBackups:   c.fileBackups.ValueOr(rolling.DefaultBackups),
		FileFormat:    c.fileFormat.ValueOr(log.FormatText),
		ServerAddress: c.serverAddress.value,
		ServerRate:    c.serverRate.ValueOr(0),
	}
}
