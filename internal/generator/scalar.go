package generator

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// Null always produces nil.
var Null = NewVariant("null",
	"null fields; always nil",
	RankNull,
	func(f schema.Field) bool { return f.Kind == schema.KindNull },
	func(f schema.Field, opts Options) (Generator, error) {
		return &nullGen{}, nil
	},
)

type nullGen struct {
	seq int
}

func (g *nullGen) Produce() any { return nil }

func (g *nullGen) Noise() any {
	g.seq++
	return fmt.Sprintf("Noise-%d", g.seq)
}

func (g *nullGen) Cardinality() (int, bool) { return 1, true }

// Bool draws true or false with equal probability.
var Bool = NewVariant("bool",
	"bool fields; fair coin",
	RankBase,
	func(f schema.Field) bool { return f.Kind == schema.KindBool },
	func(f schema.Field, opts Options) (Generator, error) {
		return &boolGen{rng: opts.rng()}, nil
	},
)

type boolGen struct {
	rng *rand.Rand
}

func (g *boolGen) Produce() any { return g.rng.Intn(2) == 1 }

func (g *boolGen) Noise() any {
	return []any{"maybe", "yes", 2}[g.rng.Intn(3)]
}

func (g *boolGen) Cardinality() (int, bool) { return 2, true }

// UUID draws random version 4 UUIDs from the field's seeded source.
var UUID = NewVariant("uuid",
	"uuid fields; random version 4 UUID strings",
	RankSemantic,
	func(f schema.Field) bool { return f.Kind == schema.KindUUID },
	func(f schema.Field, opts Options) (Generator, error) {
		return &uuidGen{rng: opts.rng()}, nil
	},
)

type uuidGen struct {
	rng *rand.Rand
	seq int
}

func (g *uuidGen) Produce() any {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}

func (g *uuidGen) Noise() any {
	g.seq++
	return fmt.Sprintf("not-a-uuid-%d", g.seq)
}

// Enum draws from the declared choices, optionally weighted.
var Enum = NewVariant("enum",
	"fields with enumerated choices; weighted by weights when given",
	RankChoices,
	func(f schema.Field) bool { return len(f.Choices) > 0 },
	newEnum,
)

type enumGen struct {
	rng      *rand.Rand
	choices  []any
	cum      []float64 // cumulative weights, nil when uniform
	distinct int
	seq      int
}

func newEnum(f schema.Field, opts Options) (Generator, error) {
	if len(f.Choices) == 0 {
		return nil, configErr(f, "enum", "no choices declared")
	}
	g := &enumGen{rng: opts.rng(), choices: f.Choices}
	seen := make(map[any]bool)
	for _, c := range f.Choices {
		if !isScalar(c) {
			return nil, configErr(f, "enum", "choice %v is not a scalar value", c)
		}
		seen[c] = true
	}
	g.distinct = len(seen)

	if len(f.Weights) > 0 {
		if len(f.Weights) != len(f.Choices) {
			return nil, configErr(f, "enum", "%d weights for %d choices", len(f.Weights), len(f.Choices))
		}
		total := 0.0
		g.cum = make([]float64, len(f.Weights))
		for i, w := range f.Weights {
			if w < 0 {
				return nil, configErr(f, "enum", "negative weight %v", w)
			}
			total += w
			g.cum[i] = total
		}
		if total == 0 {
			return nil, configErr(f, "enum", "weights sum to zero")
		}
	}
	return g, nil
}

func (g *enumGen) Produce() any {
	if g.cum == nil {
		return g.choices[g.rng.Intn(len(g.choices))]
	}
	x := g.rng.Float64() * g.cum[len(g.cum)-1]
	i := sort.SearchFloat64s(g.cum, x)
	// skip zero-weight choices sharing the boundary
	for i < len(g.cum)-1 && g.cum[i] <= x {
		i++
	}
	return g.choices[i]
}

func (g *enumGen) Noise() any {
	for {
		g.seq++
		v := fmt.Sprintf("not-a-choice-%d", g.seq)
		if !g.contains(v) {
			return v
		}
	}
}

func (g *enumGen) contains(v any) bool {
	for _, c := range g.choices {
		if c == v {
			return true
		}
	}
	return false
}

func (g *enumGen) Cardinality() (int, bool) { return g.distinct, true }

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}
