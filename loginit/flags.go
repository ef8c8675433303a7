package loginit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/logkit/log"
	"go.jacobcolvin.com/logkit/log/rolling"
)

// Flags holds CLI flag names for logging configuration, allowing callers to
// customize flag names while keeping sensible defaults via [DefaultFlags].
type Flags struct {
	Console       string
	File          string
	Server        string
	Level         string
	Filter        string
	FilePath      string
	FilePrefix    string
	FileRotation  string
	FileBackups   string
	FileFormat    string
	ServerAddress string
	ServerRate    string
}

// DefaultFlags returns the default flag names, all prefixed with "log-".
func DefaultFlags() Flags {
	return Flags{
		Console:       "log-console",
		File:          "log-file",
		Server:        "log-server",
		Level:         "log-level",
		Filter:        "log-filter",
		FilePath:      "log-file-path",
		FilePrefix:    "log-file-prefix",
		FileRotation:  "log-file-rotation",
		FileBackups:   "log-file-backups",
		FileFormat:    "log-file-format",
		ServerAddress: "log-server-address",
		ServerRate:    "log-server-rate",
	}
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet]. A flag that
// is passed counts as an explicit setting; flags left off the command line
// stay unset, so environment variables still apply to them. Flags with an
// empty name in [Config.Flags] are skipped.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	boolFlag(flags, c.Flags.Console, &c.console, "log to the console")
	boolFlag(flags, c.Flags.File, &c.file, "log to a rotating file")
	boolFlag(flags, c.Flags.Server, &c.server, "ship logs to a GELF collector")

	optionFlag(flags, c.Flags.Level, &c.level, "level", log.ParseLevel,
		fmt.Sprintf("default log level, one of: %s", log.GetAllLevelStrings()))
	optionFlag(flags, c.Flags.Filter, &c.filter, "filter", parseString,
		"filter expression, e.g. info,db=debug (replaces the log level)")

	optionFlag(flags, c.Flags.FilePath, &c.filePath, "dir", parseString,
		"log file directory")
	optionFlag(flags, c.Flags.FilePrefix, &c.filePrefix, "prefix", parseString,
		"log file name prefix (default: app name)")
	optionFlag(flags, c.Flags.FileRotation, &c.fileRotation, "rotation", rolling.ParseRotation,
		fmt.Sprintf("log file rotation, one of: %s", rolling.GetAllRotationStrings()))
	optionFlag(flags, c.Flags.FileBackups, &c.fileBackups, "int", parseCount,
		"rotated log files to keep, 0 keeps all (default 3)")
	optionFlag(flags, c.Flags.FileFormat, &c.fileFormat, "format", log.ParseFormat,
		fmt.Sprintf("log file format, one of: %s (default text)", log.GetAllFormatStrings()))

	optionFlag(flags, c.Flags.ServerAddress, &c.serverAddress, "host:port", parseString,
		fmt.Sprintf("log server address (default %q)", DefaultServerAddress))
	optionFlag(flags, c.Flags.ServerRate, &c.serverRate, "int", parseCount,
		"max records per second shipped to the log server, 0 is unlimited")
}

// RegisterCompletions registers shell completions for logging flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	completions := []struct {
		flag   string
		values []string
	}{
		{c.Flags.Level, log.GetAllLevelStrings()},
		{c.Flags.FileRotation, rolling.GetAllRotationStrings()},
		{c.Flags.FileFormat, log.GetAllFormatStrings()},
	}

	for _, comp := range completions {
		if comp.flag == "" {
			continue
		}

		err := cmd.RegisterFlagCompletionFunc(comp.flag,
			cobra.FixedCompletions(comp.values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", comp.flag, err)
		}
	}

	return nil
}

func boolFlag(flags *pflag.FlagSet, name string, opt *Option[bool], usage string) {
	if name == "" {
		return
	}

	f := flags.VarPF(&optionValue[bool]{opt: opt, parse: strconv.ParseBool, typ: "bool"}, name, "", usage)
	f.NoOptDefVal = "true"
}

func optionFlag[T any](
	flags *pflag.FlagSet, name string, opt *Option[T], typ string,
	parse func(string) (T, error), usage string,
) {
	if name == "" {
		return
	}

	flags.Var(&optionValue[T]{opt: opt, parse: parse, typ: typ}, name, usage)
}

// optionValue is a [pflag.Value] that sets an [Option] only when the flag is
// passed.
type optionValue[T any] struct {
	opt   *Option[T]
	parse func(string) (T, error)
	typ   string
}

func (v *optionValue[T]) String() string {
	if v.opt == nil || !v.opt.IsSet() {
		return ""
	}

	return fmt.Sprint(v.opt.value)
}

func (v *optionValue[T]) Set(s string) error {
	val, err := v.parse(s)
	if err != nil {
		return err
	}

	*v.opt = Some(val)

	return nil
}

func (v *optionValue[T]) Type() string {
	return v.typ
}

func parseString(s string) (string, error) {
	return s, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", log.ErrInvalidArgument, s)
	}

	if n < 0 {
		return 0, fmt.Errorf("%w: %d is negative", log.ErrInvalidArgument, n)
	}

	return n, nil
}
