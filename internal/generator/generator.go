// Package generator holds the value generator variants and the ordered
// registry the rule matcher searches.
//
// A variant is a closed table entry: a name, a specificity rank, a pure match
// predicate over field metadata and an initializer that builds a Generator
// bound to one field. Generators never fail once built; degenerate state
// falls back to a per-variant default value.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// Generator produces one value per call.
type Generator interface {
	// Produce returns a value honoring the field's declared constraints.
	Produce() any
	// Noise returns a value that violates the field's declared constraints.
	Noise() any
}

// Finite is implemented by generators with a small, known number of
// distinct outputs. Pooled behaviors stop filling once it is reached.
type Finite interface {
	Cardinality() (int, bool)
}

// Source is a read-only view of a filled pool of values.
type Source interface {
	Values() []any
	Contains(v any) bool
}

// Binder is implemented by generators that draw from another record's pool.
type Binder interface {
	Bind(src Source)
	Relation() schema.Relation
}

// Options carries the per-field state an initializer needs.
type Options struct {
	Rand      *rand.Rand
	DateRange DateRange
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// DateRange bounds date generation when metadata omits bounds.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DefaultDateRange is 1970-01-01 through 2099-12-31, UTC.
func DefaultDateRange() DateRange {
	return DateRange{
		Start: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (d DateRange) orDefault() DateRange {
	def := DefaultDateRange()
	if d.Start.IsZero() {
		d.Start = def.Start
	}
	if d.End.IsZero() {
		d.End = def.End
	}
	return d
}

// ConfigurationError reports contradictory or missing metadata found while
// initializing a generator.
type ConfigurationError struct {
	Field   string
	Variant string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("field %s: %s generator: %s", e.Field, e.Variant, e.Reason)
}

func configErr(f schema.Field, variant, format string, args ...any) error {
	return &ConfigurationError{Field: f.Name, Variant: variant, Reason: fmt.Sprintf(format, args...)}
}
