package generator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

func seeded(seed int64) Options {
	return Options{Rand: rand.New(rand.NewSource(seed))}
}

type staticSource []any

func (s staticSource) Values() []any { return s }

func (s staticSource) Contains(v any) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func TestDefaultRegistryOrder(t *testing.T) {
	var names []string
	for _, v := range Default().Variants() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{
		"reference", "enum", "null", "name", "pattern", "uuid",
		"integer", "float", "date", "bool", "string",
	}, names)
}

func TestRegistryEnforcesOrder(t *testing.T) {
	_, err := NewRegistry(Integer, Reference)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVariantOrder))

	r, err := NewRegistry(Reference, Integer)
	require.NoError(t, err)
	err = r.Register(Integer)
	assert.ErrorIs(t, err, ErrDuplicateVariant)

	// equal specificity keeps declaration order
	require.NoError(t, r.Register(Float))
}

func TestRegistryMatch(t *testing.T) {
	r := Default()

	tests := []struct {
		name  string
		field schema.Field
		want  string
	}{
		{"relation wins over scalar kind", schema.Field{Name: "dept", Kind: schema.KindInt, Relation: &schema.Relation{Record: "Department", Field: "id"}}, "reference"},
		{"choices", schema.Field{Name: "status", Kind: schema.KindString, Choices: []any{"a", "b"}}, "enum"},
		{"null", schema.Field{Name: "nothing", Kind: schema.KindNull}, "null"},
		{"name hint", schema.Field{Name: "who", Kind: schema.KindString, Hints: []string{"first_name"}}, "name"},
		{"pattern hint", schema.Field{Name: "contact", Kind: schema.KindString, Hints: []string{"Email"}}, "pattern"},
		{"uuid", schema.Field{Name: "ref", Kind: schema.KindUUID}, "uuid"},
		{"integer", schema.Field{Name: "age", Kind: schema.KindInt}, "integer"},
		{"float", schema.Field{Name: "price", Kind: schema.KindFloat}, "float"},
		{"date", schema.Field{Name: "born", Kind: schema.KindDate}, "date"},
		{"datetime", schema.Field{Name: "seen", Kind: schema.KindDateTime}, "date"},
		{"bool", schema.Field{Name: "active", Kind: schema.KindBool}, "bool"},
		{"plain string", schema.Field{Name: "code", Kind: schema.KindString}, "string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := r.Match(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.want, v.Name())
		})
	}

	_, ok := r.Match(schema.Field{Name: "blob", Kind: "blob"})
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	v, ok := Default().Lookup("pattern")
	require.True(t, ok)
	assert.Equal(t, RankHinted, v.Specificity())
	assert.NotEmpty(t, v.Describe())

	_, ok = Default().Lookup("nope")
	assert.False(t, ok)
}
