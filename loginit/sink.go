package loginit

import (
	"fmt"
	"io"
	"log/slog"

	"go.jacobcolvin.com/logkit/log"
	"go.jacobcolvin.com/logkit/log/gelf"
	"go.jacobcolvin.com/logkit/log/rolling"
)

// fileSuffix is the extension of every log file.
const fileSuffix = "log"

type sinkKind int

const (
	sinkConsole sinkKind = iota
	sinkFile
	sinkServer
)

func (k sinkKind) String() string {
	switch k {
	case sinkConsole:
		return "console"
	case sinkFile:
		return "file"
	case sinkServer:
		return "server"
	}

	return fmt.Sprintf("sink(%d)", int(k))
}

// sink describes one output. Only the fields for its kind are used.
type sink struct {
	writer   io.Writer
	onError  func(error)
	dir      string
	prefix   string
	rotation rolling.Rotation
	format   log.Format
	addr     string
	app      string
	backups  int
	rate     int
	kind     sinkKind
}

// built is a constructed sink.
type built struct {
	handler slog.Handler
	closer  io.Closer
	gelf    *gelf.Sink
}

// sinks returns the enabled sinks of s in a fixed order: console, file,
// server.
func (c *Config) sinks(s Settings) []sink {
	var out []sink

	if s.Console {
		out = append(out, sink{
			kind:   sinkConsole,
			writer: c.consoleWriter,
		})
	}

	if s.File {
		out = append(out, sink{
			kind:     sinkFile,
			dir:      s.FilePath,
			prefix:   s.FilePrefix,
			rotation: s.FileRotation,
			backups:  s.FileBackups,
			format:   s.FileFormat,
		})
	}

	if s.Server {
		out = append(out, sink{
			kind:    sinkServer,
			addr:    s.ServerAddress,
			app:     s.AppName,
			rate:    s.ServerRate,
			onError: c.reportError,
		})
	}

	return out
}

// build constructs the handler for sk. Handlers accept every level; the
// filter placed in front of them decides what gets through.
func (sk sink) build() (built, error) {
	switch sk.kind {
	case sinkConsole:
		return built{handler: log.NewHandler(sk.writer, log.LevelTrace, log.FormatText)}, nil

	case sinkFile:
		w, err := rolling.New(sk.dir, sk.prefix, fileSuffix, sk.rotation, sk.backups)
		if err != nil {
			return built{}, err
		}

		return built{
			handler: log.NewHandler(w, log.LevelTrace, sk.format),
			closer:  w,
		}, nil

	case sinkServer:
		g := gelf.NewSink(sk.addr, sk.app,
			gelf.WithRateLimit(sk.rate),
			gelf.WithErrorFunc(sk.onError),
		)

		return built{handler: g, closer: g, gelf: g}, nil
	}

	return built{}, fmt.Errorf("unknown sink %s", sk.kind)
}

// reportError writes a background sink failure to the console writer, which
// stays usable even when the console sink is disabled.
func (c *Config) reportError(err error) {
	w := c.consoleWriter
	if w == nil {
		return
	}

	slog.New(log.NewHandler(w, log.LevelTrace, log.FormatText)).
		Error("failed to connect to log server", slog.String("app", c.appName), slog.Any("err", err))
}
