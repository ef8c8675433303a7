package gelf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"golang.org/x/time/rate"
)

const (
	defaultQueueSize = 512
	gelfVersion      = "1.1"
)

// ErrConnect indicates the collector could not be reached.
var ErrConnect = errors.New("connect to log server")

// Writer sends GELF messages to a collector.
type Writer interface {
	WriteMessage(m *gelf.Message) error
	Close() error
}

// DialFunc opens a [Writer] to addr.
type DialFunc func(addr string) (Writer, error)

// DialUDP opens a gzip-compressing UDP [Writer] to addr, in host:port form.
func DialUDP(addr string) (Writer, error) {
	w, err := gelf.NewUDPWriter(addr)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// Option configures a [Sink].
type Option func(*state)

// WithDial replaces the function used to connect to the collector.
func WithDial(dial DialFunc) Option {
	return func(s *state) {
		s.dial = dial
	}
}

// WithErrorFunc sets the function that receives connection failures. By
// default they are printed to stderr.
func WithErrorFunc(fn func(error)) Option {
	return func(s *state) {
		s.onError = fn
	}
}

// WithRateLimit caps shipped records per second. Excess records are dropped.
// Values less than 1 disable the limit.
func WithRateLimit(perSec int) Option {
	return func(s *state) {
		if perSec < 1 {
			s.limiter = nil
			return
		}

		s.limiter = rate.NewLimiter(rate.Limit(perSec), perSec)
	}
}

// WithQueueSize sets how many records may wait for the connection.
// Values less than 1 are clamped to 1.
func WithQueueSize(n int) Option {
	return func(s *state) {
		s.queue = make(chan *gelf.Message, max(n, 1))
	}
}

// WithHost overrides the host reported in every message.
func WithHost(host string) Option {
	return func(s *state) {
		s.host = host
	}
}

// Sink is a [slog.Handler] that ships records to a GELF collector on a best
// effort basis. Records are queued until [Sink.Start] has connected; when the
// queue is full, new records are dropped. Every message carries an "_app"
// field naming the application.
//
// Create instances with [NewSink].
type Sink struct {
	state  *state
	attrs  []field
	prefix string
}

type field struct {
	value any
	key   string
}

type state struct {
	limiter   *rate.Limiter
	dial      DialFunc
	onError   func(error)
	queue     chan *gelf.Message
	done      chan struct{}
	addr      string
	app       string
	host      string
	wg        sync.WaitGroup
	closeOnce sync.Once
	failed    atomic.Bool
}

// NewSink creates a [Sink] for the collector at addr, tagging messages with
// app. Nothing is sent until [Sink.Start] is called.
func NewSink(addr, app string, opts ...Option) *Sink {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}

	s := &state{
		addr:    addr,
		app:     app,
		host:    host,
		dial:    DialUDP,
		onError: printError,
		queue:   make(chan *gelf.Message, defaultQueueSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	return &Sink{state: s}
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "gelf: %v\n", err)
}

// Addr returns the collector address.
func (s *Sink) Addr() string {
	return s.state.addr
}

// Start connects to the collector in the background and ships queued records
// until ctx is done or the sink is closed. It returns immediately. A failed
// connection is reported to the error function and the sink then discards
// every record.
func (s *Sink) Start(ctx context.Context) {
	st := s.state

	st.wg.Add(1)

	go func() {
		defer st.wg.Done()

		w, err := st.dial(st.addr)
		if err != nil {
			st.failed.Store(true)
			st.onError(fmt.Errorf("%w %s: %w", ErrConnect, st.addr, err))

			return
		}

		defer func() {
			_ = w.Close()
		}()

		for {
			select {
			case m := <-st.queue:
				_ = w.WriteMessage(m)
			case <-ctx.Done():
				return
			case <-st.done:
				st.drain(w)
				return
			}
		}
	}()
}

func (st *state) drain(w Writer) {
	for {
		select {
		case m := <-st.queue:
			_ = w.WriteMessage(m)
		default:
			return
		}
	}
}

// Close stops shipping after flushing queued records and waits for the
// background connection to finish. Idempotent.
func (s *Sink) Close() error {
	st := s.state
	st.closeOnce.Do(func() {
		close(st.done)
	})
	st.wg.Wait()

	return nil
}

// Enabled reports whether the sink accepts records. Level filtering is left
// to the caller.
func (s *Sink) Enabled(context.Context, slog.Level) bool {
	return !s.state.failed.Load()
}

// Handle converts r to a GELF message and queues it.
func (s *Sink) Handle(_ context.Context, r slog.Record) error {
	st := s.state
	if st.failed.Load() {
		return nil
	}

	if st.limiter != nil && !st.limiter.Allow() {
		return nil
	}

	m := &gelf.Message{
		Version:  gelfVersion,
		Host:     st.host,
		Short:    r.Message,
		TimeUnix: float64(r.Time.UnixNano()) / float64(time.Second),
		Level:    severity(r.Level),
		Extra: map[string]any{
			"_app": st.app,
		},
	}

	for _, f := range s.attrs {
		m.Extra[f.key] = f.value
	}

	r.Attrs(func(a slog.Attr) bool {
		addAttr(m.Extra, s.prefix, a)
		return true
	})

	select {
	case st.queue <- m:
	default:
	}

	return nil
}

// WithAttrs returns a sink that adds attrs to every message.
func (s *Sink) WithAttrs(attrs []slog.Attr) slog.Handler {
	extra := map[string]any{}
	for _, a := range attrs {
		addAttr(extra, s.prefix, a)
	}

	fields := make([]field, 0, len(s.attrs)+len(extra))
	fields = append(fields, s.attrs...)

	for k, v := range extra {
		fields = append(fields, field{key: k, value: v})
	}

	return &Sink{state: s.state, attrs: fields, prefix: s.prefix}
}

// WithGroup returns a sink that qualifies later attribute keys with name.
func (s *Sink) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}

	return &Sink{state: s.state, attrs: s.attrs, prefix: s.prefix + name + "."}
}

// addAttr flattens a into extra using GELF's "_"-prefixed additional field
// names. Groups become dotted keys.
func addAttr(extra map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}

		for _, ga := range v.Group() {
			addAttr(extra, p, ga)
		}

		return
	}

	if a.Key == "" {
		return
	}

	key := "_" + prefix + sanitize(a.Key)
	if key == "_id" {
		// Reserved by GELF.
		key = "_id_"
	}

	extra[key] = value(v)
}

func value(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}

	return v.String()
}

func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_' || r == '.' || r == '-':
			return r
		}

		return '_'
	}, key)
}

// severity maps a [slog.Level] to a syslog severity.
func severity(lvl slog.Level) int32 {
	switch {
	case lvl >= slog.LevelError:
		return 3
	case lvl >= slog.LevelWarn:
		return 4
	case lvl >= slog.LevelInfo:
		return 6
	}

	return 7
}
