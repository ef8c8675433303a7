package loginit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/logkit/loginit"
)

func TestOption(t *testing.T) {
	t.Parallel()

	unset := loginit.None[bool]()
	set := loginit.Some(false)

	v, ok := unset.Get()
	assert.False(t, ok)
	assert.False(t, v)
	assert.False(t, unset.IsSet())
	assert.True(t, set.IsSet())

	assert.True(t, unset.ValueOr(true))
	assert.False(t, set.ValueOr(true))

	assert.Equal(t, set, unset.Or(set))
	assert.Equal(t, set, set.Or(loginit.Some(true)))

	assert.Equal(t, "<unset>", unset.String())
	assert.Equal(t, "false", set.String())
}

func TestOptionOrElse(t *testing.T) {
	t.Parallel()

	calls := 0
	fallback := func() int {
		calls++
		return 7
	}

	got := loginit.Some(3).OrElse(fallback)
	assert.Equal(t, loginit.Some(3), got)
	assert.Zero(t, calls)

	got = loginit.None[int]().OrElse(fallback)
	assert.Equal(t, loginit.Some(7), got)
	assert.Equal(t, 1, calls)
}

func TestFirst(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts []loginit.Option[string]
		want loginit.Option[string]
	}{
		"none": {
			want: loginit.None[string](),
		},
		"all unset": {
			opts: []loginit.Option[string]{loginit.None[string](), loginit.None[string]()},
			want: loginit.None[string](),
		},
		"first set wins": {
			opts: []loginit.Option[string]{
				loginit.None[string](),
				loginit.Some("flag"),
				loginit.Some("env"),
			},
			want: loginit.Some("flag"),
		},
		"set empty string wins": {
			opts: []loginit.Option[string]{loginit.Some(""), loginit.Some("env")},
			want: loginit.Some(""),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, loginit.First(tc.opts...))
		})
	}
}
