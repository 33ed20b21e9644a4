// Package behavior controls how many distinct values a field produces and
// how they recur.
package behavior

import (
	"github.com/Lumos-Labs-HQ/datasynth/internal/generator"
)

// Strategy wraps a generator and decides which value a field emits next.
type Strategy interface {
	Next() any
	Reset()
	Generator() generator.Generator
	Name() string
}

// Independent calls the wrapped generator on every draw. Values are
// unbounded and may repeat by chance.
type Independent struct {
	gen   generator.Generator
	count int
}

func NewIndependent(gen generator.Generator) *Independent {
	return &Independent{gen: gen}
}

func (b *Independent) Next() any {
	b.count++
	return b.gen.Produce()
}

// Count returns the number of draws since the last reset.
func (b *Independent) Count() int {
	return b.count
}

func (b *Independent) Reset() {
	b.count = 0
}

func (b *Independent) Generator() generator.Generator {
	return b.gen
}

func (b *Independent) Name() string {
	return "independent"
}
