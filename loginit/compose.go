package loginit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"go.jacobcolvin.com/logkit/log"
	"go.jacobcolvin.com/logkit/log/filter"
)

var (
	// ErrAlreadyInitialized indicates [Config.Init] already installed a
	// backend in this process.
	ErrAlreadyInitialized = errors.New("logging already initialized")
	// ErrInvalidFilter indicates an explicit filter expression could not be
	// parsed.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrSink indicates a sink could not be constructed.
	ErrSink = errors.New("create sink")
)

// The process-wide install latch.
var (
	installMu sync.Mutex
	installed bool
)

// Backend is a composed logging pipeline.
type Backend struct {
	handler slog.Handler
	logger  *slog.Logger
	filter  *filter.Filter
	closers []io.Closer
}

// Handler returns the filtered fan-out handler over every enabled sink.
func (b *Backend) Handler() slog.Handler {
	return b.handler
}

// Logger returns a [*slog.Logger] over [Backend.Handler].
func (b *Backend) Logger() *slog.Logger {
	return b.logger
}

// Filter returns the severity filter in front of the sinks.
func (b *Backend) Filter() *filter.Filter {
	return b.filter
}

// Close flushes the server sink and closes the log file. It does not
// uninstall the backend.
func (b *Backend) Close() error {
	var errs []error

	// Reverse construction order, so the server sink drains first.
	for _, c := range slices.Backward(b.closers) {
		err := c.Close()
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Init resolves c, composes its sinks, and installs the result as the
// process-wide [slog] default. It may succeed only once per process; later
// calls return [ErrAlreadyInitialized] and install nothing.
//
// An invalid filter or a log file that cannot be created aborts Init before
// anything is installed. Connecting to the log server happens in the
// background and never fails Init; see [Config.Compose].
func (c *Config) Init(ctx context.Context) (*Backend, error) {
	installMu.Lock()
	defer installMu.Unlock()

	if installed {
		return nil, ErrAlreadyInitialized
	}

	c.Resolve()

	b, err := c.Compose(ctx)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(b.logger)

	installed = true

	return b, nil
}

// Compose builds the pipeline for a resolved c without installing it. It
// returns [ErrUnresolved] if an enabled sink depends on an unset option.
//
// Synchronous steps are all-or-nothing: if the filter or any sink fails,
// sinks built so far are closed and an error is returned. Once they all
// succeed, the server sink starts connecting on a goroutine bound to ctx.
// Connection failures are written to the console writer rather than returned.
func (c *Config) Compose(ctx context.Context) (*Backend, error) {
	s, err := c.Settings()
	if err != nil {
		return nil, err
	}

	f, err := c.newFilter(s)
	if err != nil {
		return nil, err
	}

	var (
		handlers []slog.Handler
		closers  []io.Closer
		starts   []func(context.Context)
	)

	for _, sk := range c.sinks(s) {
		b, err := sk.build()
		if err != nil {
			for _, closer := range slices.Backward(closers) {
				_ = closer.Close()
			}

			return nil, fmt.Errorf("%w: %s: %w", ErrSink, sk.kind, err)
		}

		handlers = append(handlers, b.handler)
		if b.closer != nil {
			closers = append(closers, b.closer)
		}

		if b.gelf != nil {
			starts = append(starts, b.gelf.Start)
		}
	}

	for _, start := range starts {
		start(ctx)
	}

	h := f.Handler(log.Fanout(handlers...))

	return &Backend{
		handler: h,
		logger:  slog.New(h),
		filter:  f,
		closers: closers,
	}, nil
}

// newFilter parses the explicit filter expression strictly, or builds a
// filter from the level refined by LOG_FILTER, ignoring bad directives.
func (c *Config) newFilter(s Settings) (*filter.Filter, error) {
	if expr, ok := s.Filter.Get(); ok {
		f, err := filter.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}

		return f, nil
	}

	env, _ := c.lookup(EnvFilter)

	return filter.ParseLossy(s.Level.SlogLevel(), env), nil
}
