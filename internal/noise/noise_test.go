package noise

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/datasynth/internal/generator"
	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

func bounded(t *testing.T) (schema.Field, generator.Generator) {
	t.Helper()
	f := schema.Field{Name: "qty", Kind: schema.KindInt, Min: schema.Ptr(1.0), Max: schema.Ptr(9.0)}
	g, err := generator.Integer.Initialize(f, generator.Options{Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)
	return f, g
}

func valid(v any) bool {
	n, ok := v.(int64)
	return ok && n >= 1 && n <= 9
}

func TestApplyFullRate(t *testing.T) {
	f, g := bounded(t)
	n, err := New(f, g, 1, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	sawNil := false
	for i := 0; i < 500; i++ {
		v := n.Apply(g.Produce())
		assert.False(t, valid(v), "value %v survived a full noise rate", v)
		sawNil = sawNil || v == nil
	}
	assert.True(t, sawNil, "nil is a candidate for non-nullable fields")
	assert.Equal(t, 500, n.Injected())
}

func TestApplyZeroRate(t *testing.T) {
	f, g := bounded(t)
	n, err := New(f, g, 0, nil)
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		assert.True(t, valid(n.Apply(g.Produce())))
	}
	assert.Zero(t, n.Injected())
}

func TestApplyPartialRate(t *testing.T) {
	f, g := bounded(t)
	n, err := New(f, g, 0.25, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	invalid := 0
	for i := 0; i < 4000; i++ {
		if !valid(n.Apply(g.Produce())) {
			invalid++
		}
	}
	assert.InDelta(t, 1000, invalid, 120)
}

func TestNullableFieldsNeverGetNil(t *testing.T) {
	f, g := bounded(t)
	f.Nullable = true
	n, err := New(f, g, 1, rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		assert.NotNil(t, n.Apply(int64(5)))
	}
}

func TestNewRejectsRate(t *testing.T) {
	f, g := bounded(t)
	_, err := New(f, g, 1.5, nil)
	assert.Error(t, err)

	var nilInjector *Injector
	assert.Equal(t, 3, nilInjector.Apply(3))
	assert.Zero(t, nilInjector.Rate())
}
