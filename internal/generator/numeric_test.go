package generator

import (
	"errors"
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

func TestIntegerWithinBounds(t *testing.T) {
	f := schema.Field{Name: "age", Kind: schema.KindInt, Min: schema.Ptr(18.0), Max: schema.Ptr(65.0)}
	g, err := Integer.Initialize(f, seeded(1))
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for i := 0; i < 2000; i++ {
		v, ok := g.Produce().(int64)
		require.True(t, ok)
		require.GreaterOrEqual(t, v, int64(18))
		require.LessOrEqual(t, v, int64(65))
		seen[v] = true
	}
	assert.Len(t, seen, 48)

	n, ok := g.(Finite).Cardinality()
	assert.True(t, ok)
	assert.Equal(t, 48, n)
}

func TestIntegerDefaultsAndOneSidedBounds(t *testing.T) {
	g, err := Integer.Initialize(schema.Field{Name: "n", Kind: schema.KindInt}, seeded(2))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		v := g.Produce().(int64)
		require.GreaterOrEqual(t, v, int64(0))
		require.LessOrEqual(t, v, int64(1<<32-1))
	}
	_, ok := g.(Finite).Cardinality()
	assert.False(t, ok)

	g, err = Integer.Initialize(schema.Field{Name: "n", Kind: schema.KindInt, Max: schema.Ptr(-10.0)}, seeded(3))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.LessOrEqual(t, g.Produce().(int64), int64(-10))
	}
}

func TestNumericConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		field   schema.Field
	}{
		{"integer min > max", Integer, schema.Field{Name: "x", Kind: schema.KindInt, Min: schema.Ptr(10.0), Max: schema.Ptr(1.0)}},
		{"no integer in range", Integer, schema.Field{Name: "x", Kind: schema.KindInt, Min: schema.Ptr(1.2), Max: schema.Ptr(1.8)}},
		{"unknown distribution", Integer, schema.Field{Name: "x", Kind: schema.KindInt, Distribution: "zipf"}},
		{"float min > max", Float, schema.Field{Name: "x", Kind: schema.KindFloat, Min: schema.Ptr(2.0), Max: schema.Ptr(1.0)}},
		{"float precision", Float, schema.Field{Name: "x", Kind: schema.KindFloat, Precision: schema.Ptr(20)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.variant.Initialize(tt.field, seeded(1))
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, "x", cfgErr.Field)
			assert.Equal(t, tt.variant.Name(), cfgErr.Variant)
		})
	}
}

func TestIntegerNormalDistribution(t *testing.T) {
	f := schema.Field{Name: "score", Kind: schema.KindInt, Min: schema.Ptr(0.0), Max: schema.Ptr(600.0), Distribution: "normal"}
	g, err := Integer.Initialize(f, seeded(4))
	require.NoError(t, err)

	data := make([]float64, 5000)
	for i := range data {
		data[i] = float64(g.Produce().(int64))
	}
	mean, err := stats.Mean(data)
	require.NoError(t, err)
	sd, err := stats.StandardDeviation(data)
	require.NoError(t, err)

	assert.InDelta(t, 300, mean, 5)
	assert.InDelta(t, 100, sd, 8)
}

func TestIntegerNoiseViolatesBounds(t *testing.T) {
	f := schema.Field{Name: "qty", Kind: schema.KindInt, Min: schema.Ptr(1.0), Max: schema.Ptr(9.0)}
	g, err := Integer.Initialize(f, seeded(5))
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		switch v := g.Noise().(type) {
		case int64:
			assert.True(t, v < 1 || v > 9, "noise %d inside bounds", v)
		case string:
		default:
			t.Fatalf("unexpected noise %T", v)
		}
	}
}

func TestIntegerNoiseBeyondInt64Bounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
	}{
		{"both sides", -1e300, 1e300},
		{"upper side", 0, 1e300},
		{"lower side", -1e300, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := schema.Field{Name: "n", Kind: schema.KindInt, Min: schema.Ptr(tt.min), Max: schema.Ptr(tt.max)}
			g, err := Integer.Initialize(f, seeded(8))
			require.NoError(t, err)

			for i := 0; i < 300; i++ {
				v := g.Produce().(int64)
				require.True(t, float64(v) >= tt.min && float64(v) <= tt.max)

				if n, ok := g.Noise().(int64); ok {
					assert.True(t, float64(n) < tt.min || float64(n) > tt.max, "noise %d inside bounds", n)
				}
			}
		})
	}

	_, err := Integer.Initialize(schema.Field{Name: "n", Kind: schema.KindInt, Min: schema.Ptr(1e300), Max: schema.Ptr(1e301)}, seeded(8))
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestFloatExtremeBounds(t *testing.T) {
	for _, dist := range []string{"uniform", "normal"} {
		t.Run(dist, func(t *testing.T) {
			f := schema.Field{Name: "x", Kind: schema.KindFloat, Min: schema.Ptr(-math.MaxFloat64), Max: schema.Ptr(math.MaxFloat64), Distribution: dist}
			g, err := Float.Initialize(f, seeded(9))
			require.NoError(t, err)

			for i := 0; i < 100; i++ {
				v := g.Produce().(float64)
				require.False(t, math.IsInf(v, 0) || math.IsNaN(v), "non-finite %v", v)
			}
			for i := 0; i < 100; i++ {
				assert.IsType(t, "", g.Noise(), "no finite float lies outside the full range")
			}
		})
	}
}

func TestFloatPrecisionAndBounds(t *testing.T) {
	f := schema.Field{Name: "price", Kind: schema.KindFloat, Min: schema.Ptr(0.5), Max: schema.Ptr(99.5), Precision: schema.Ptr(2)}
	g, err := Float.Initialize(f, seeded(6))
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		v := g.Produce().(float64)
		require.GreaterOrEqual(t, v, 0.5)
		require.LessOrEqual(t, v, 99.5)
		assert.InDelta(t, math.Round(v*100), v*100, 1e-6)
	}

	for i := 0; i < 300; i++ {
		if v, ok := g.Noise().(float64); ok {
			assert.True(t, v < 0.5 || v > 99.5, "noise %v inside bounds", v)
		}
	}
}

func TestFloatUniformMean(t *testing.T) {
	f := schema.Field{Name: "ratio", Kind: schema.KindFloat, Min: schema.Ptr(-1.0), Max: schema.Ptr(1.0)}
	g, err := Float.Initialize(f, seeded(7))
	require.NoError(t, err)

	data := make([]float64, 5000)
	for i := range data {
		data[i] = g.Produce().(float64)
	}
	mean, _ := stats.Mean(data)
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	assert.InDelta(t, 0, mean, 0.05)
	assert.GreaterOrEqual(t, lo, -1.0)
	assert.LessOrEqual(t, hi, 1.0)
}
