// Package noise substitutes deliberately invalid values into emitted rows.
package noise

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Lumos-Labs-HQ/datasynth/internal/generator"
	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// Injector replaces a field's value with an invalid one at a fixed rate.
// It runs after the behavior draw and never touches pool contents.
type Injector struct {
	rate     float64
	allowNil bool
	gen      generator.Generator
	rng      *rand.Rand
	injected int
}

// New builds an injector for f. Noise values come from gen; nil is an extra
// candidate when f does not accept it. A nil rng is seeded from the clock.
func New(f schema.Field, gen generator.Generator, rate float64, rng *rand.Rand) (*Injector, error) {
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("field %s: noise rate %v out of range [0, 1]", f.Name, rate)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Injector{
		rate:     rate,
		allowNil: !f.Nullable && f.Kind != schema.KindNull,
		gen:      gen,
		rng:      rng,
	}, nil
}

// Rate returns the substitution probability.
func (n *Injector) Rate() float64 {
	if n == nil {
		return 0
	}
	return n.rate
}

// Apply returns v, or an invalid replacement with probability Rate.
func (n *Injector) Apply(v any) any {
	if n == nil || n.rate == 0 {
		return v
	}
	if n.rate < 1 && n.rng.Float64() >= n.rate {
		return v
	}
	n.injected++
	if n.allowNil && n.rng.Intn(4) == 0 {
		return nil
	}
	return n.gen.Noise()
}

// Injected counts substitutions made so far.
func (n *Injector) Injected() int {
	if n == nil {
		return 0
	}
	return n.injected
}
