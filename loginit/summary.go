package loginit

import (
	"fmt"
	"strings"

	"go.jacobcolvin.com/logkit/log/rolling"
)

// String describes the configuration on one line, for example:
//
//	log to console, log to file ./app.log, rotation: daily:3, default level: INFO
//
// Disabled sinks are omitted, and options that have not been set or resolved
// yet render as "<name> not initialized", except the console toggle, which
// renders as "enable_console: not initialized". With no sinks enabled the
// result is empty.
func (c *Config) String() string {
	var parts []string

	add := func(enabled Option[bool], unset string, describe func() string) {
		v, ok := enabled.Get()

		switch {
		case !ok:
			parts = append(parts, unset)
		case v:
			parts = append(parts, describe())
		}
	}

	add(c.console, "enable_console: not initialized", func() string {
		return "log to console"
	})
	add(c.file, "enable_log_file not initialized", c.describeFile)
	add(c.server, "enable_log_server not initialized", func() string {
		addr, ok := c.serverAddress.Get()
		if !ok {
			addr = "log_server_address not initialized"
		}

		return "log to server " + addr
	})

	if len(parts) == 0 {
		return ""
	}

	if lvl, ok := c.level.Get(); ok {
		parts = append(parts, "default level: "+lvl.String())
	} else {
		parts = append(parts, "level not initialized")
	}

	if expr, ok := c.filter.Get(); ok {
		parts = append(parts, "("+expr+")")
	}

	return strings.Join(parts, ", ")
}

func (c *Config) describeFile() string {
	path, ok := c.filePath.Get()

	switch {
	case !ok:
		path = "log_file_path not initialized"
	case path == "":
		path = "."
	}

	s := fmt.Sprintf("log to file %s/%s.%s", path, c.filePrefix.ValueOr(c.appName), fileSuffix)

	rot, ok := c.fileRotation.Get()
	switch {
	case !ok:
		s += ", log_file_rotation not initialized"
	case rot != rolling.Never:
		s += fmt.Sprintf(", rotation: %s:%d", rot, c.fileBackups.ValueOr(rolling.DefaultBackups))
	}

	return s
}
