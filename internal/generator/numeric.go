package generator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

const (
	defaultNumericMax = float64(1<<32 - 1)
	// bounds are clamped so noise offsets never overflow
	intLimit = float64(1 << 61)

	maxRedraws = 16
	// small integer ranges are reported as finite so pools stop early
	finiteIntSpan = 1 << 20
)

const (
	distUniform = "uniform"
	distNormal  = "normal"
)

func distribution(f schema.Field, variant string) (string, error) {
	switch f.Distribution {
	case "", distUniform:
		return distUniform, nil
	case distNormal:
		return distNormal, nil
	default:
		return "", configErr(f, variant, "unknown distribution %q", f.Distribution)
	}
}

// numericBounds resolves declared bounds against the default [0, 2^32-1]
// span, keeping a one-sided bound consistent.
func numericBounds(f schema.Field, variant string) (float64, float64, error) {
	lo, hi := 0.0, defaultNumericMax
	switch {
	case f.Min != nil && f.Max != nil:
		lo, hi = *f.Min, *f.Max
	case f.Min != nil:
		lo = *f.Min
		if lo > hi {
			hi = lo + defaultNumericMax
		}
	case f.Max != nil:
		hi = *f.Max
		if hi < lo {
			lo = hi - defaultNumericMax
		}
	}
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 0, configErr(f, variant, "bounds must be numbers")
	}
	if lo > hi {
		return 0, 0, configErr(f, variant, "min %v is greater than max %v", lo, hi)
	}
	return lo, hi, nil
}

const (
	noiseBelow = iota
	noiseAbove
	noiseWrongType
)

// pickNoise chooses an out-of-bounds side, or a wrong-typed value, among
// the kinds that can actually violate the bounds.
func pickNoise(rng *rand.Rand, below, above bool) int {
	kinds := make([]int, 0, 3)
	if below {
		kinds = append(kinds, noiseBelow)
	}
	if above {
		kinds = append(kinds, noiseAbove)
	}
	kinds = append(kinds, noiseWrongType)
	return kinds[rng.Intn(len(kinds))]
}

// Integer draws uniform or normally distributed integers in [min, max].
var Integer = NewVariant("integer",
	"int fields; uniform or normal over [min, max], default [0, 2^32-1]",
	RankBase,
	func(f schema.Field) bool { return f.Kind == schema.KindInt },
	newInteger,
)

type integerGen struct {
	rng          *rand.Rand
	lo, hi       int64
	normal       bool
	below, above bool // an int64 past the declared bound exists on that side
	seq          int
}

func newInteger(f schema.Field, opts Options) (Generator, error) {
	dist, err := distribution(f, "integer")
	if err != nil {
		return nil, err
	}
	lo, hi, err := numericBounds(f, "integer")
	if err != nil {
		return nil, err
	}
	lo, hi = math.Ceil(lo), math.Floor(hi)
	if lo > hi || lo > intLimit || hi < -intLimit {
		return nil, configErr(f, "integer", "no integer within [%v, %v]", lo, hi)
	}
	g := &integerGen{
		rng:    opts.rng(),
		normal: dist == distNormal,
		below:  lo >= -intLimit,
		above:  hi <= intLimit,
	}
	g.lo = int64(math.Max(lo, -intLimit))
	g.hi = int64(math.Min(hi, intLimit))
	return g, nil
}

func (g *integerGen) Produce() any {
	if g.normal {
		mu := (float64(g.lo) + float64(g.hi)) / 2
		sigma := (float64(g.hi) - float64(g.lo)) / 6
		for i := 0; i < maxRedraws; i++ {
			v := int64(math.Round(g.rng.NormFloat64()*sigma + mu))
			if v >= g.lo && v <= g.hi {
				return v
			}
		}
		return int64(math.Round(mu))
	}
	return g.lo + g.rng.Int63n(g.hi-g.lo+1)
}

func (g *integerGen) Noise() any {
	g.seq++
	switch pickNoise(g.rng, g.below, g.above) {
	case noiseBelow:
		return g.lo - int64(4+g.rng.Intn(9))
	case noiseAbove:
		return g.hi + int64(4+g.rng.Intn(9))
	default:
		return fmt.Sprintf("XXX%dXXX", g.seq)
	}
}

func (g *integerGen) Cardinality() (int, bool) {
	span := g.hi - g.lo + 1
	if span > 0 && span <= finiteIntSpan {
		return int(span), true
	}
	return 0, false
}

// Float draws uniform or normally distributed floats in [min, max],
// rounded to the declared precision.
var Float = NewVariant("float",
	"float fields; uniform or normal over [min, max], optional precision",
	RankBase,
	func(f schema.Field) bool { return f.Kind == schema.KindFloat },
	newFloat,
)

type floatGen struct {
	rng    *rand.Rand
	lo, hi float64
	normal bool
	scale  float64 // 10^precision, 0 when unrounded
	seq    int
}

func newFloat(f schema.Field, opts Options) (Generator, error) {
	dist, err := distribution(f, "float")
	if err != nil {
		return nil, err
	}
	lo, hi, err := numericBounds(f, "float")
	if err != nil {
		return nil, err
	}
	g := &floatGen{rng: opts.rng(), lo: lo, hi: hi, normal: dist == distNormal}
	if f.Precision != nil {
		if *f.Precision < 0 || *f.Precision > 15 {
			return nil, configErr(f, "float", "precision %d out of range [0, 15]", *f.Precision)
		}
		g.scale = math.Pow10(*f.Precision)
	}
	return g, nil
}

// draw halves before subtracting so spans near MaxFloat64 stay finite.
func (g *floatGen) draw() float64 {
	if g.normal {
		mu := g.lo/2 + g.hi/2
		sigma := g.hi/6 - g.lo/6
		for i := 0; i < maxRedraws; i++ {
			v := g.rng.NormFloat64()*sigma + mu
			if v >= g.lo && v <= g.hi {
				return v
			}
		}
		return mu
	}
	r := g.rng.Float64()
	v := g.lo*(1-r) + g.hi*r
	return math.Min(math.Max(v, g.lo), g.hi)
}

func (g *floatGen) Produce() any {
	v := g.draw()
	if g.scale == 0 {
		return v
	}
	r := math.Round(v*g.scale) / g.scale
	if r < g.lo {
		r = math.Ceil(g.lo*g.scale) / g.scale
	}
	if r > g.hi {
		r = math.Floor(g.hi*g.scale) / g.scale
	}
	if r < g.lo || r > g.hi {
		return v
	}
	return r
}

func (g *floatGen) Noise() any {
	g.seq++
	below := g.lo - g.offset(g.lo)
	above := g.hi + g.offset(g.hi)
	finiteBelow := !math.IsInf(below, 0) && below < g.lo
	finiteAbove := !math.IsInf(above, 0) && above > g.hi
	switch pickNoise(g.rng, finiteBelow, finiteAbove) {
	case noiseBelow:
		return below
	case noiseAbove:
		return above
	default:
		return fmt.Sprintf("XXX%dXXX", g.seq)
	}
}

// offset scales the out-of-bounds step so it survives float rounding at
// large magnitudes.
func (g *floatGen) offset(x float64) float64 {
	return (1 + g.rng.Float64()*8) * math.Max(1, math.Abs(x)*1e-6)
}
