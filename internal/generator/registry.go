package generator

import (
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

var (
	// ErrDuplicateVariant is returned when a variant name is registered twice.
	ErrDuplicateVariant = errors.New("variant already registered")

	// ErrVariantOrder is returned when a variant is registered after a less
	// specific one, which would make it unreachable for shared matches.
	ErrVariantOrder = errors.New("variant registered after a less specific variant")
)

// Specificity ranks. Higher ranks must be registered first.
const (
	RankRelation = 100
	RankChoices  = 90
	RankNull     = 80
	RankHinted   = 60
	RankSemantic = 20
	RankBase     = 10
)

// Variant is one entry of the registry.
type Variant interface {
	Name() string
	Describe() string
	Specificity() int
	Match(f schema.Field) bool
	Initialize(f schema.Field, opts Options) (Generator, error)
}

type variant struct {
	name  string
	doc   string
	rank  int
	match func(schema.Field) bool
	init  func(schema.Field, Options) (Generator, error)
}

// NewVariant builds a registry entry from its parts.
func NewVariant(name, doc string, rank int, match func(schema.Field) bool, init func(schema.Field, Options) (Generator, error)) Variant {
	return &variant{name: name, doc: doc, rank: rank, match: match, init: init}
}

func (v *variant) Name() string { return v.name }
func (v *variant) Describe() string { return v.doc }
func (v *variant) Specificity() int { return v.rank }
func (v *variant) Match(f schema.Field) bool { return v.match(f) }
func (v *variant) String() string { return v.name }
func (v *variant) Initialize(f schema.Field, opts Options) (Generator, error) {
	return v.init(f, opts)
}

// Registry is an ordered list of variants searched first to last. The first
// variant whose Match returns true wins, so more specific variants must be
// registered before more general ones; Register enforces this by rank.
type Registry struct {
	variants []Variant
	byName   map[string]Variant
}

// NewRegistry registers variants in the given order.
func NewRegistry(variants ...Variant) (*Registry, error) {
	r := &Registry{byName: make(map[string]Variant)}
	for _, v := range variants {
		if err := r.Register(v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends v. It fails if the name is taken or if v is more
// specific than the last registered variant.
func (r *Registry) Register(v Variant) error {
	if _, exists := r.byName[v.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateVariant, v.Name())
	}
	if n := len(r.variants); n > 0 {
		last := r.variants[n-1]
		if v.Specificity() > last.Specificity() {
			return fmt.Errorf("%w: %s (specificity %d) after %s (specificity %d)",
				ErrVariantOrder, v.Name(), v.Specificity(), last.Name(), last.Specificity())
		}
	}
	r.variants = append(r.variants, v)
	r.byName[v.Name()] = v
	return nil
}

// Match returns the first variant whose predicate accepts f.
func (r *Registry) Match(f schema.Field) (Variant, bool) {
	for _, v := range r.variants {
		if v.Match(f) {
			return v, true
		}
	}
	return nil, false
}

// Lookup finds a variant by name.
func (r *Registry) Lookup(name string) (Variant, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// Variants returns the variants in search order.
func (r *Registry) Variants() []Variant {
	out := make([]Variant, len(r.variants))
	copy(out, r.variants)
	return out
}

// Default returns a fresh registry holding the built-in variants.
func Default() *Registry {
	r, err := NewRegistry(
		Reference,
		Enum,
		Null,
		Name,
		Pattern,
		UUID,
		Integer,
		Float,
		Date,
		Bool,
		String,
	)
	if err != nil {
		// built-in table order is fixed
		panic(err)
	}
	return r
}
