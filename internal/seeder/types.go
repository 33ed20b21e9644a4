package seeder

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/Lumos-Labs-HQ/datasynth/internal/behavior"
	"github.com/Lumos-Labs-HQ/datasynth/internal/generator"
	"github.com/Lumos-Labs-HQ/datasynth/internal/noise"
	"github.com/Lumos-Labs-HQ/datasynth/internal/rules"
	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// DefaultPoolSize is the pool capacity used when neither the field nor the
// record sets one.
const DefaultPoolSize = 100

// Options configures record synthesis. The zero value is usable.
type Options struct {
	PoolSize  int     // Pool capacity for pooled fields
	NoiseRate float64 // Default noise rate for every field
	// FieldNoise overrides NoiseRate per field, keyed by "field" or
	// "Record.field". The qualified key wins.
	FieldNoise map[string]float64
	DateRange  generator.DateRange
	Seed       int64 // 0 seeds from the clock
	Records    map[string]RecordOptions
	Matcher    *rules.Matcher
	Logger     *zap.Logger
}

// RecordOptions overrides Options for one record type.
type RecordOptions struct {
	PoolSize   int
	NoiseRate  *float64
	FieldNoise map[string]float64
}

// forRecord resolves the options one record type sees.
func (o Options) forRecord(name string) Options {
	if o.PoolSize <= 0 {
		o.PoolSize = DefaultPoolSize
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	ro, ok := o.Records[name]
	if !ok {
		return o
	}
	if ro.PoolSize > 0 {
		o.PoolSize = ro.PoolSize
	}
	if ro.NoiseRate != nil {
		o.NoiseRate = *ro.NoiseRate
	}
	if len(ro.FieldNoise) > 0 {
		merged := make(map[string]float64, len(o.FieldNoise)+len(ro.FieldNoise))
		for k, v := range o.FieldNoise {
			merged[k] = v
		}
		for k, v := range ro.FieldNoise {
			merged[k] = v
		}
		o.FieldNoise = merged
	}
	return o
}

func (o Options) noiseRate(record, field string) float64 {
	if r, ok := o.FieldNoise[record+"."+field]; ok {
		return r
	}
	if r, ok := o.FieldNoise[field]; ok {
		return r
	}
	return o.NoiseRate
}

// seedFor derives a stable seed from the configured seed and a name path,
// so every field draws from its own reproducible stream.
func (o Options) seedFor(parts ...string) int64 {
	h := int64(xxhash.Sum64String(strings.Join(parts, ".")))
	if o.Seed == 0 {
		return h ^ time.Now().UnixNano()
	}
	return h ^ o.Seed
}

// RecordState is the lifecycle of a Record.
type RecordState int

const (
	Unprepared RecordState = iota
	Prepared
	Filling
	Ready
)

func (s RecordState) String() string {
	switch s {
	case Unprepared:
		return "unprepared"
	case Prepared:
		return "prepared"
	case Filling:
		return "filling"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("RecordState(%d)", int(s))
	}
}

// FieldPlan binds one field to its generator, behavior and noise injector.
type FieldPlan struct {
	Field     schema.Field
	Generator string
	Strategy  rules.Strategy
	Behavior  string
	Capacity  int // pool capacity, 0 for independent fields
	NoiseRate float64

	behavior behavior.Strategy
	noise    *noise.Injector
}

func (p *FieldPlan) draw() any {
	return p.noise.Apply(p.behavior.Next())
}

// RecordPlan is the ordered set of field plans of one record type.
type RecordPlan struct {
	Name         string
	Fields       []FieldPlan
	Dependencies []string
}

// SchemaPlan maps record type names to plans, with the preparation order.
type SchemaPlan struct {
	Order   []string
	Records map[string]RecordPlan
}

// Row is one generated record instance: field names in declaration order
// and the values drawn for them.
type Row struct {
	fields []string
	values []any
}

// Fields returns the field names. The slice is shared and must not be modified.
func (r Row) Fields() []string { return r.fields }

// Values returns the values in field order.
func (r Row) Values() []any { return slices.Clone(r.values) }

func (r Row) Len() int { return len(r.values) }

// Get returns the value of the named field.
func (r Row) Get(name string) (any, bool) {
	i := slices.Index(r.fields, name)
	if i < 0 {
		return nil, false
	}
	return r.values[i], true
}

// Map returns the row keyed by field name.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for i, name := range r.fields {
		m[name] = r.values[i]
	}
	return m
}
