package filter_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/logkit/log"
	"go.jacobcolvin.com/logkit/log/filter"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expr        string
		wantDefault slog.Level
		want        []filter.Directive
		expectError bool
	}{
		"bare level": {
			expr:        "debug",
			wantDefault: slog.LevelDebug,
		},
		"targets only default to off": {
			expr:        "db=debug",
			wantDefault: filter.LevelOff,
			want:        []filter.Directive{{Target: "db", Level: slog.LevelDebug}},
		},
		"mixed with whitespace": {
			expr:        " warn , example.com/app/db = TRACE ,cache=off ",
			wantDefault: slog.LevelWarn,
			want: []filter.Directive{
				{Target: "example.com/app/db", Level: log.SlogLevelTrace},
				{Target: "cache", Level: filter.LevelOff},
			},
		},
		"bare target enables everything": {
			expr:        "worker",
			wantDefault: filter.LevelOff,
			want:        []filter.Directive{{Target: "worker", Level: log.SlogLevelTrace}},
		},
		"later duplicate wins": {
			expr:        "db=info,db=warn",
			wantDefault: filter.LevelOff,
			want:        []filter.Directive{{Target: "db", Level: slog.LevelWarn}},
		},
		"empty expression": {
			expr:        "",
			wantDefault: filter.LevelOff,
		},
		"unknown level": {
			expr:        "db=loud",
			expectError: true,
		},
		"missing target": {
			expr:        "=info",
			expectError: true,
		},
		"span syntax unsupported": {
			expr:        "db[query]=debug",
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := filter.Parse(tc.expr)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, filter.ErrInvalidDirective)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantDefault, f.Default())
			assert.Equal(t, tc.want, f.Directives())
		})
	}
}

func TestParseLossy(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expr        string
		def         slog.Level
		wantDefault slog.Level
		want        []filter.Directive
	}{
		"unset keeps default": {
			expr:        "",
			def:         slog.LevelInfo,
			wantDefault: slog.LevelInfo,
		},
		"bare level overrides default": {
			expr:        "trace",
			def:         slog.LevelInfo,
			wantDefault: log.SlogLevelTrace,
		},
		"invalid directives skipped": {
			expr:        "db=loud,cache=debug,=x",
			def:         slog.LevelWarn,
			wantDefault: slog.LevelWarn,
			want:        []filter.Directive{{Target: "cache", Level: slog.LevelDebug}},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := filter.ParseLossy(tc.def, tc.expr)
			assert.Equal(t, tc.wantDefault, f.Default())
			assert.Equal(t, tc.want, f.Directives())
		})
	}
}

func TestFilterEnabled(t *testing.T) {
	t.Parallel()

	f, err := filter.Parse("info,example.com/app=warn,example.com/app/db=trace,cache=off")
	require.NoError(t, err)

	tcs := map[string]struct {
		target string
		level  slog.Level
		want   bool
	}{
		"default passes info":        {target: "other", level: slog.LevelInfo, want: true},
		"default blocks debug":       {target: "other", level: slog.LevelDebug, want: false},
		"parent package blocks info": {target: "example.com/app", level: slog.LevelInfo, want: false},
		"child package inherits":     {target: "example.com/app/http", level: slog.LevelWarn, want: true},
		"longest match wins":         {target: "example.com/app/db", level: log.SlogLevelTrace, want: true},
		"nested below longest":       {target: "example.com/app/db/pool", level: slog.LevelDebug, want: true},
		"no partial segment match":   {target: "example.com/application", level: slog.LevelInfo, want: true},
		"dotted component":           {target: "cache.redis", level: slog.LevelError, want: false},
		"off blocks errors":          {target: "cache", level: slog.LevelError, want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, f.Enabled(tc.target, tc.level))
		})
	}

	assert.Equal(t, log.SlogLevelTrace, f.MinLevel())
}

func TestFilterString(t *testing.T) {
	t.Parallel()

	f, err := filter.Parse("warn,a=debug,a/b=off")
	require.NoError(t, err)
	assert.Equal(t, "warn,a/b=off,a=debug", f.String())
}

func TestParseWithoutBareLevel(t *testing.T) {
	t.Parallel()

	f, err := filter.Parse("db=debug")
	require.NoError(t, err)

	assert.Equal(t, "off,db=debug", f.String())
	assert.Equal(t, slog.LevelDebug, f.MinLevel())

	assert.True(t, f.Enabled("db", slog.LevelDebug))
	assert.True(t, f.Enabled("db.pool", slog.LevelError))
	assert.False(t, f.Enabled("web", slog.LevelError))
	assert.False(t, f.Enabled("", slog.LevelError))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expr    string
		logFunc func(*slog.Logger)
		want    bool
	}{
		"component attribute on record": {
			expr: "info,db=debug",
			logFunc: func(l *slog.Logger) {
				l.Debug("query", slog.String("component", "db"))
			},
			want: true,
		},
		"component attribute from With": {
			expr: "info,db=debug",
			logFunc: func(l *slog.Logger) {
				l.With("component", "db").Debug("query")
			},
			want: true,
		},
		"component in group is not a target": {
			expr: "info,db=debug",
			logFunc: func(l *slog.Logger) {
				l.WithGroup("req").With("component", "db").Debug("query")
			},
			want: false,
		},
		"default level gates untagged records": {
			expr: "info,db=debug",
			logFunc: func(l *slog.Logger) {
				l.Debug("query")
			},
			want: false,
		},
		"caller package is the fallback target": {
			expr: "error,go.jacobcolvin.com/logkit/log/filter_test=debug",
			logFunc: func(l *slog.Logger) {
				l.Debug("query")
			},
			want: true,
		},
		"off silences a component": {
			expr: "trace,db=off",
			logFunc: func(l *slog.Logger) {
				l.With("component", "db").Error("boom")
			},
			want: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := filter.Parse(tc.expr)
			require.NoError(t, err)

			var buf bytes.Buffer

			logger := slog.New(f.Handler(log.NewHandler(&buf, log.LevelTrace, log.FormatJSON)))
			tc.logFunc(logger)

			if tc.want {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestHandlerEnabled(t *testing.T) {
	t.Parallel()

	f, err := filter.Parse("warn,db=debug")
	require.NoError(t, err)

	var buf bytes.Buffer

	h := f.Handler(log.NewHandler(&buf, log.LevelTrace, log.FormatJSON))
	ctx := context.Background()

	assert.True(t, h.Enabled(ctx, slog.LevelDebug), "some target may still want debug")
	assert.False(t, h.Enabled(ctx, log.SlogLevelTrace))

	db := h.WithAttrs([]slog.Attr{slog.String("component", "db")})
	assert.True(t, db.Enabled(ctx, slog.LevelDebug))

	other := h.WithAttrs([]slog.Attr{slog.String("component", "web")})
	assert.False(t, other.Enabled(ctx, slog.LevelInfo))
}
