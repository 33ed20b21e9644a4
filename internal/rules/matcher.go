// Package rules selects a value generator for a field by trying, in order,
// caller overrides, the generator registry and a storage type-name table.
package rules

import (
	"errors"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/Lumos-Labs-HQ/datasynth/internal/generator"
	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

var (
	// ErrUnknownVariant is returned when an override names no registered variant.
	ErrUnknownVariant = errors.New("unknown generator variant")

	// ErrBadOverride is returned for malformed override patterns.
	ErrBadOverride = errors.New("invalid override pattern")
)

// Strategy names the rule that produced a match.
type Strategy string

const (
	StrategyOverride  Strategy = "override"
	StrategyMatch     Strategy = "match"
	StrategyHeuristic Strategy = "heuristic"
)

// Override maps fields whose name (or Record.field) matches Pattern straight
// to a registered variant, bypassing inference.
type Override struct {
	Pattern string
	Variant string
}

// Match is the outcome of resolving one field.
type Match struct {
	Variant  generator.Variant
	Strategy Strategy
	// Field is the metadata the variant should be initialized with. It equals
	// the declared metadata except after a heuristic match, where it is a
	// copy with the derived kind and bounds filled in.
	Field schema.Field
}

// UnresolvedFieldError reports a field no rule could match.
type UnresolvedFieldError struct {
	Record string
	Field  schema.Field
}

func (e *UnresolvedFieldError) Error() string {
	return fmt.Sprintf("record %s: no generator matches field %s", e.Record, e.Field)
}

type rule struct {
	name  Strategy
	apply func(record string, f schema.Field) (Match, bool)
}

// Matcher runs the ordered rule pipeline. It holds no per-field state and
// may be shared by every record of a schema.
type Matcher struct {
	registry   *generator.Registry
	overrides  []Override
	heuristics []Heuristic
	logger     *zap.Logger
	pipeline   []rule
}

// NewMatcher validates overrides against the registry. A nil registry means
// generator.Default(); a nil logger discards output.
func NewMatcher(registry *generator.Registry, overrides []Override, logger *zap.Logger) (*Matcher, error) {
	if registry == nil {
		registry = generator.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, o := range overrides {
		if _, err := path.Match(o.Pattern, ""); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrBadOverride, o.Pattern, err)
		}
		if _, ok := registry.Lookup(o.Variant); !ok {
			return nil, fmt.Errorf("override %q: %w: %s", o.Pattern, ErrUnknownVariant, o.Variant)
		}
	}

	m := &Matcher{
		registry:   registry,
		overrides:  overrides,
		heuristics: DefaultHeuristics(),
		logger:     logger,
	}
	m.pipeline = []rule{
		{StrategyOverride, m.override},
		{StrategyMatch, m.match},
		{StrategyHeuristic, m.heuristic},
	}
	return m, nil
}

// Registry returns the registry the matcher searches.
func (m *Matcher) Registry() *generator.Registry {
	return m.registry
}

// Resolve returns the first successful rule's match for f.
func (m *Matcher) Resolve(record string, f schema.Field) (Match, error) {
	for _, r := range m.pipeline {
		if match, ok := r.apply(record, f); ok {
			return match, nil
		}
	}
	return Match{}, &UnresolvedFieldError{Record: record, Field: f}
}

func (m *Matcher) override(record string, f schema.Field) (Match, bool) {
	qualified := record + "." + f.Name
	for _, o := range m.overrides {
		if ok, _ := path.Match(o.Pattern, f.Name); !ok {
			if ok, _ = path.Match(o.Pattern, qualified); !ok {
				continue
			}
		}
		v, _ := m.registry.Lookup(o.Variant)
		return Match{Variant: v, Strategy: StrategyOverride, Field: f}, true
	}
	return Match{}, false
}

func (m *Matcher) match(record string, f schema.Field) (Match, bool) {
	v, ok := m.registry.Match(f)
	if !ok {
		return Match{}, false
	}
	return Match{Variant: v, Strategy: StrategyMatch, Field: f}, true
}

func (m *Matcher) heuristic(record string, f schema.Field) (Match, bool) {
	if f.ExternalType == "" {
		return Match{}, false
	}
	derived, ok := deriveFromExternal(m.heuristics, f)
	if !ok {
		return Match{}, false
	}
	v, ok := m.registry.Match(derived)
	if !ok {
		return Match{}, false
	}
	m.logger.Warn("field matched by external type name only",
		zap.String("record", record),
		zap.String("field", f.Name),
		zap.String("external_type", f.ExternalType),
		zap.String("declared_kind", string(f.Kind)),
		zap.String("derived_kind", string(derived.Kind)),
		zap.String("generator", v.Name()),
	)
	return Match{Variant: v, Strategy: StrategyHeuristic, Field: derived}, true
}
