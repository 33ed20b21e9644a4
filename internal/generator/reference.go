package generator

import (
	"fmt"
	"math/rand"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// Reference resolves relation fields against another record's pool. It does
// not produce values of its own: until bound to a source it yields nil.
var Reference = NewVariant("reference",
	"relation fields; values drawn from the referenced field's pool",
	RankRelation,
	func(f schema.Field) bool { return f.Relation != nil },
	newReference,
)

// ReferenceGenerator walks the referenced pool in shuffled passes using its
// own random source, so the target pool is only ever read.
type ReferenceGenerator struct {
	rng      *rand.Rand
	relation schema.Relation
	src      Source
	perm     []int
	pos      int
	seq      int
}

func newReference(f schema.Field, opts Options) (Generator, error) {
	if f.Relation == nil || f.Relation.Record == "" || f.Relation.Field == "" {
		return nil, configErr(f, "reference", "requires a relation naming record and field")
	}
	return &ReferenceGenerator{rng: opts.rng(), relation: *f.Relation}, nil
}

// Bind attaches the pool values are drawn from.
func (g *ReferenceGenerator) Bind(src Source) {
	g.src = src
	g.perm = nil
	g.pos = 0
}

// Relation returns the referenced record and field.
func (g *ReferenceGenerator) Relation() schema.Relation {
	return g.relation
}

// Bound reports whether a source has been attached.
func (g *ReferenceGenerator) Bound() bool {
	return g.src != nil
}

func (g *ReferenceGenerator) Produce() any {
	if g.src == nil {
		return nil
	}
	values := g.src.Values()
	if len(values) == 0 {
		return nil
	}
	if g.pos >= len(g.perm) || len(g.perm) != len(values) {
		g.perm = g.rng.Perm(len(values))
		g.pos = 0
	}
	v := values[g.perm[g.pos]]
	g.pos++
	return v
}

// Noise returns a dangling key that does not appear in the referenced pool.
func (g *ReferenceGenerator) Noise() any {
	for {
		g.seq++
		v := fmt.Sprintf("dangling:%s:%d", g.relation, g.seq)
		if g.src == nil || !g.src.Contains(v) {
			return v
		}
	}
}
