package generator

import (
	"math/rand"
	"strings"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// printable ASCII without whitespace or backslash
var stringDomain = func() []byte {
	var b []byte
	for c := byte('!'); c <= '~'; c++ {
		if c != '\\' {
			b = append(b, c)
		}
	}
	return b
}()

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type lengths struct {
	min, max int
	declared bool // max length came from metadata
}

func lengthBounds(f schema.Field, variant string, defMin, defMax int) (lengths, error) {
	l := lengths{min: defMin, max: defMax}
	if f.MinLength != nil {
		if *f.MinLength < 0 {
			return l, configErr(f, variant, "negative min_length %d", *f.MinLength)
		}
		l.min = *f.MinLength
	}
	if f.MaxLength != nil {
		if *f.MaxLength < 0 {
			return l, configErr(f, variant, "negative max_length %d", *f.MaxLength)
		}
		l.max = *f.MaxLength
		l.declared = true
	} else if l.min > l.max {
		l.max = l.min + defMax
	}
	if f.MinLength == nil && l.min > l.max {
		l.min = l.max
	}
	if l.min > l.max {
		return l, configErr(f, variant, "min_length %d is greater than max_length %d", l.min, l.max)
	}
	return l, nil
}

// fit truncates or pads s so its length lies within l.
func (l lengths) fit(rng *rand.Rand, s string) string {
	if len(s) > l.max {
		s = strings.TrimRight(s[:l.max], " ")
	}
	for len(s) < l.min {
		s += string(letters[rng.Intn(26)])
	}
	return s
}

// stringNoise picks among an empty string (when a minimum applies), an
// over-length string (when a maximum was declared) and a wrong-typed value.
func stringNoise(rng *rand.Rand, l lengths, emptyInvalid bool) any {
	options := []int{0}
	if l.min > 0 || emptyInvalid {
		options = append(options, 1)
	}
	if l.declared {
		options = append(options, 2)
	}
	switch options[rng.Intn(len(options))] {
	case 1:
		return ""
	case 2:
		return randomString(rng, stringDomain, l.max+4+rng.Intn(9))
	default:
		return rng.Intn(100000)
	}
}

func randomString(rng *rand.Rand, domain []byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = domain[rng.Intn(len(domain))]
	}
	return string(b)
}

// String draws random printable strings.
var String = NewVariant("string",
	"string fields; printable characters, length in [min_length, max_length], default [1, 32]",
	RankBase,
	func(f schema.Field) bool { return f.Kind == schema.KindString },
	newString,
)

type stringGen struct {
	rng *rand.Rand
	len lengths
}

func newString(f schema.Field, opts Options) (Generator, error) {
	l, err := lengthBounds(f, "string", 1, 32)
	if err != nil {
		return nil, err
	}
	return &stringGen{rng: opts.rng(), len: l}, nil
}

func (g *stringGen) Produce() any {
	n := g.len.min + g.rng.Intn(g.len.max-g.len.min+1)
	return randomString(g.rng, stringDomain, n)
}

func (g *stringGen) Noise() any {
	return stringNoise(g.rng, g.len, false)
}
