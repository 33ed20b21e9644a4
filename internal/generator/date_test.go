package generator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

func TestDateDefaultRange(t *testing.T) {
	g, err := Date.Initialize(schema.Field{Name: "born", Kind: schema.KindDate}, seeded(1))
	require.NoError(t, err)

	def := DefaultDateRange()
	for i := 0; i < 500; i++ {
		d := g.Produce().(time.Time)
		require.False(t, d.Before(def.Start))
		require.False(t, d.After(def.End))
		assert.True(t, d.Equal(d.Truncate(day)), "date fields are whole days")
	}
}

func TestDateConfiguredRange(t *testing.T) {
	opts := seeded(2)
	opts.DateRange = DateRange{
		Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	g, err := Date.Initialize(schema.Field{Name: "at", Kind: schema.KindDateTime}, opts)
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		d := g.Produce().(time.Time)
		require.False(t, d.Before(opts.DateRange.Start))
		require.False(t, d.After(opts.DateRange.End))
	}

	for i := 0; i < 100; i++ {
		if d, ok := g.Noise().(time.Time); ok {
			assert.True(t, d.Before(opts.DateRange.Start) || d.After(opts.DateRange.End))
		}
	}
}

func TestDateFieldBoundsWin(t *testing.T) {
	earliest := time.Date(2001, 5, 1, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2001, 5, 3, 0, 0, 0, 0, time.UTC)
	f := schema.Field{Name: "d", Kind: schema.KindDate, Earliest: &earliest, Latest: &latest}
	g, err := Date.Initialize(f, seeded(3))
	require.NoError(t, err)

	seen := make(map[time.Time]bool)
	for i := 0; i < 200; i++ {
		seen[g.Produce().(time.Time)] = true
	}
	assert.Len(t, seen, 3)
}

func TestDateWideRange(t *testing.T) {
	earliest := time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, kind := range []schema.Kind{schema.KindDateTime, schema.KindDate} {
		for _, dist := range []string{"uniform", "normal"} {
			t.Run(string(kind)+"/"+dist, func(t *testing.T) {
				f := schema.Field{Name: "at", Kind: kind, Earliest: &earliest, Latest: &latest, Distribution: dist}
				g, err := Date.Initialize(f, seeded(4))
				require.NoError(t, err)

				var lowest, highest time.Time
				for i := 0; i < 1000; i++ {
					d := g.Produce().(time.Time)
					require.False(t, d.Before(earliest), "%s before %s", d, earliest)
					require.False(t, d.After(latest), "%s after %s", d, latest)
					if lowest.IsZero() || d.Before(lowest) {
						lowest = d
					}
					if d.After(highest) {
						highest = d
					}
				}
				assert.Greater(t, highest.Sub(lowest), 100*365*day, "draws cover the span")
			})
		}
	}
}

func TestDateContradictoryBounds(t *testing.T) {
	earliest := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := Date.Initialize(schema.Field{Name: "d", Kind: schema.KindDate, Earliest: &earliest, Latest: &latest}, seeded(1))
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}
