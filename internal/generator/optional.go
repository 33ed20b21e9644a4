package generator

import (
	"math"
	"math/rand"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// DefaultNullRate mirrors a 1:19 split between nil and real values.
const DefaultNullRate = 0.05

// Optional mixes nil into another generator's output.
type Optional struct {
	rng   *rand.Rand
	inner Generator
	rate  float64
}

// NewOptional wraps inner for a nullable field. The rate comes from the
// field's NullRate, or DefaultNullRate when unset. An explicit rate of 0
// never yields nil.
func NewOptional(f schema.Field, inner Generator, opts Options) (*Optional, error) {
	rate := DefaultNullRate
	if f.NullRate != nil {
		rate = *f.NullRate
	}
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return nil, configErr(f, "optional", "null_rate %v out of range [0, 1]", rate)
	}
	return &Optional{rng: opts.rng(), inner: inner, rate: rate}, nil
}

func (g *Optional) Produce() any {
	if g.rng.Float64() < g.rate {
		return nil
	}
	return g.inner.Produce()
}

func (g *Optional) Noise() any {
	return g.inner.Noise()
}

func (g *Optional) Cardinality() (int, bool) {
	if fin, ok := g.inner.(Finite); ok {
		if n, ok := fin.Cardinality(); ok {
			if g.rate > 0 {
				n++
			}
			return n, true
		}
	}
	return 0, false
}
