package rolling

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation is how often a [Writer] starts a new file.
type Rotation string

const (
	// Daily rotates at local midnight.
	Daily Rotation = "daily"
	// Hourly rotates at the top of every hour.
	Hourly Rotation = "hourly"
	// Minutely rotates at the start of every minute.
	Minutely Rotation = "minutely"
	// Never keeps writing to the same file.
	Never Rotation = "never"
)

// DefaultBackups is the number of rotated files kept when none is given.
const DefaultBackups = 3

// maxSizeMB effectively disables lumberjack's size-based rollover, so files
// only rotate on period boundaries.
const maxSizeMB = 1 << 20

var (
	// ErrCreateFile indicates the log file or its directory could not be
	// created.
	ErrCreateFile = errors.New("create log file")
	// ErrUnknownRotation indicates an unrecognized rotation name.
	ErrUnknownRotation = errors.New("unknown rotation")
)

var allRotations = []Rotation{Daily, Hourly, Minutely, Never}

// ParseRotation parses a rotation name case-insensitively.
func ParseRotation(s string) (Rotation, error) {
	r := Rotation(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allRotations {
		if r == known {
			return r, nil
		}
	}

	return "", ErrUnknownRotation
}

// GetAllRotationStrings returns every recognized rotation name.
func GetAllRotationStrings() []string {
	out := make([]string, 0, len(allRotations))
	for _, r := range allRotations {
		out = append(out, string(r))
	}

	return out
}

// period returns the start of the rotation period containing t. [Never] maps
// every instant to the zero time.
func (r Rotation) period(t time.Time) time.Time {
	switch r {
	case Daily:
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	case Hourly:
		y, m, d := t.Date()
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location())
	case Minutely:
		return t.Truncate(time.Minute)
	}

	return time.Time{}
}

// Writer is an [io.Writer] that writes to <dir>/<prefix>.<suffix> and rolls
// the file over whenever a new rotation period begins. Rolled files are
// renamed with a timestamp and pruned to the configured number of backups by
// lumberjack. Safe for concurrent use.
//
// Create instances with [New].
type Writer struct {
	now      func() time.Time
	lj       *lumberjack.Logger
	opened   time.Time
	rotation Rotation
	mu       sync.Mutex
}

// Option configures a [Writer].
type Option func(*Writer)

// WithClock replaces the clock used to detect period boundaries.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// New creates a [Writer] rooted at dir. An empty dir means the current
// directory. The directory is created if needed and the file is opened once
// so that permission problems surface here rather than on the first write.
// backups is ignored when rotation is [Never].
func New(dir, prefix, suffix string, rotation Rotation, backups int, opts ...Option) (*Writer, error) {
	if dir == "" {
		dir = "."
	}

	if _, err := ParseRotation(string(rotation)); err != nil {
		return nil, fmt.Errorf("%w: %q", err, rotation)
	}

	name := prefix
	if suffix != "" {
		name += "." + suffix
	}

	filename := filepath.Join(dir, name)

	err := probe(filename)
	if err != nil {
		return nil, err
	}

	lj := &lumberjack.Logger{
		Filename:  filename,
		MaxSize:   maxSizeMB,
		LocalTime: true,
	}
	if rotation != Never {
		lj.MaxBackups = max(backups, 0)
	}

	w := &Writer{
		now:      time.Now,
		lj:       lj,
		rotation: rotation,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.opened = rotation.period(w.now())

	return w, nil
}

func probe(filename string) error {
	err := os.MkdirAll(filepath.Dir(filename), 0o755)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateFile, err)
	}

	//nolint:gosec // Log path comes from trusted configuration.
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateFile, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateFile, err)
	}

	return nil
}

// Write appends p to the current file, rotating first if a new period has
// started since the last write.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	current := w.rotation.period(w.now())
	if !current.Equal(w.opened) {
		err := w.lj.Rotate()
		if err != nil {
			return 0, fmt.Errorf("rotating %s: %w", w.lj.Filename, err)
		}

		w.opened = current
	}

	return w.lj.Write(p)
}

// Filename returns the path of the active log file.
func (w *Writer) Filename() string {
	return w.lj.Filename
}

// Rotation returns the rotation policy.
func (w *Writer) Rotation() Rotation {
	return w.rotation
}

// Close closes the active file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lj.Close()
}
