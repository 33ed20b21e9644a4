package generator

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

func TestEnum(t *testing.T) {
	f := schema.Field{Name: "status", Kind: schema.KindString, Choices: []any{"active", "idle", "gone"}}
	g, err := Enum.Initialize(f, seeded(1))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.Contains(t, f.Choices, g.Produce())
	}
	for i := 0; i < 20; i++ {
		assert.NotContains(t, f.Choices, g.Noise())
	}
	n, ok := g.(Finite).Cardinality()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestEnumWeights(t *testing.T) {
	f := schema.Field{Name: "tier", Choices: []any{"free", "paid"}, Weights: []float64{0, 1}}
	g, err := Enum.Initialize(f, seeded(2))
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		assert.Equal(t, "paid", g.Produce())
	}

	bad := []schema.Field{
		{Name: "tier", Choices: []any{"a", "b"}, Weights: []float64{1}},
		{Name: "tier", Choices: []any{"a", "b"}, Weights: []float64{1, -1}},
		{Name: "tier", Choices: []any{"a", "b"}, Weights: []float64{0, 0}},
		{Name: "tier", Choices: []any{[]int{1}}},
	}
	for _, f := range bad {
		_, err := Enum.Initialize(f, seeded(2))
		var cfgErr *ConfigurationError
		assert.True(t, errors.As(err, &cfgErr), "expected configuration error for %v", f.Weights)
	}
}

func TestUUIDDeterministicPerSeed(t *testing.T) {
	f := schema.Field{Name: "id", Kind: schema.KindUUID}
	a, err := UUID.Initialize(f, seeded(9))
	require.NoError(t, err)
	b, err := UUID.Initialize(f, seeded(9))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		va, vb := a.Produce().(string), b.Produce().(string)
		assert.Equal(t, va, vb)
		id, err := uuid.Parse(va)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), id.Version())
	}

	_, err = uuid.Parse(a.Noise().(string))
	assert.Error(t, err)
}

func TestNullAndBool(t *testing.T) {
	g, err := Null.Initialize(schema.Field{Name: "x", Kind: schema.KindNull}, seeded(1))
	require.NoError(t, err)
	assert.Nil(t, g.Produce())
	assert.NotNil(t, g.Noise())

	g, err = Bool.Initialize(schema.Field{Name: "b", Kind: schema.KindBool}, seeded(1))
	require.NoError(t, err)
	_, ok := g.Produce().(bool)
	assert.True(t, ok)
	_, ok = g.Noise().(bool)
	assert.False(t, ok)
}

func TestReference(t *testing.T) {
	f := schema.Field{Name: "dept", Relation: &schema.Relation{Record: "Department", Field: "id"}}
	g, err := Reference.Initialize(f, seeded(1))
	require.NoError(t, err)

	// unbound references fall back to nil
	assert.Nil(t, g.Produce())

	ref := g.(*ReferenceGenerator)
	assert.Equal(t, schema.Relation{Record: "Department", Field: "id"}, ref.Relation())

	src := staticSource{int64(10), int64(20), int64(30), int64(40)}
	ref.Bind(src)
	require.True(t, ref.Bound())

	// one shuffled pass shows every value exactly once
	seen := make(map[any]int)
	for i := 0; i < len(src); i++ {
		seen[g.Produce()]++
	}
	assert.Len(t, seen, len(src))

	noise := g.Noise()
	assert.NotContains(t, []any(src), noise)

	_, err = Reference.Initialize(schema.Field{Name: "dept", Relation: &schema.Relation{Record: "Department"}}, seeded(1))
	assert.Error(t, err)
}

func TestOptional(t *testing.T) {
	inner, err := Bool.Initialize(schema.Field{Name: "b", Kind: schema.KindBool}, seeded(1))
	require.NoError(t, err)

	always, err := NewOptional(schema.Field{Name: "b", NullRate: schema.Ptr(1.0)}, inner, seeded(1))
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.Nil(t, always.Produce())
	}

	def, err := NewOptional(schema.Field{Name: "b"}, inner, seeded(1))
	require.NoError(t, err)
	nils := 0
	for i := 0; i < 4000; i++ {
		if def.Produce() == nil {
			nils++
		}
	}
	assert.InDelta(t, 4000*DefaultNullRate, nils, 60)

	n, ok := def.Cardinality()
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	never, err := NewOptional(schema.Field{Name: "b", NullRate: schema.Ptr(0.0)}, inner, seeded(1))
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		assert.NotNil(t, never.Produce())
	}
	n, _ = never.Cardinality()
	assert.Equal(t, 2, n)

	_, err = NewOptional(schema.Field{Name: "b", NullRate: schema.Ptr(1.5)}, inner, seeded(1))
	assert.Error(t, err)
}
