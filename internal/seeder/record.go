package seeder

import (
	"fmt"
	"iter"
	"math/rand"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/Lumos-Labs-HQ/datasynth/internal/behavior"
	"github.com/Lumos-Labs-HQ/datasynth/internal/generator"
	"github.com/Lumos-Labs-HQ/datasynth/internal/noise"
	"github.com/Lumos-Labs-HQ/datasynth/internal/rules"
	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// Catalog resolves record types by name during preparation.
type Catalog interface {
	Lookup(name string) (*Record, bool)
}

// Record synthesizes rows for one record type.
//
// Fields are added while Unprepared; Prepare builds a plan per field, and
// Rows/Data then stream values lazily. A record's row sequences must not be
// iterated from several goroutines at once. Its pools may be read as
// relation sources by other records concurrently.
type Record struct {
	mu    sync.Mutex
	name  string
	opts  Options
	state RecordState
	epoch int

	fields  []schema.Field
	index   map[string]int
	exposed map[string]bool

	plans []*FieldPlan
	names []string

	catalog Catalog
	bound   map[string]int // referenced record -> its epoch when this record was prepared
}

// NewRecord returns an empty record type. Options are resolved against any
// per-record entry in opts.Records.
func NewRecord(name string, opts Options) *Record {
	return &Record{
		name:    name,
		opts:    opts.forRecord(name),
		index:   make(map[string]int),
		exposed: make(map[string]bool),
	}
}

func (r *Record) Name() string {
	return r.name
}

func (r *Record) State() RecordState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Add declares a field. Fields keep their declaration order.
func (r *Record) Add(f schema.Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Unprepared {
		return fmt.Errorf("record %s: add %s: %w", r.name, f.Name, ErrNotMutable)
	}
	if f.Name == "" {
		return fmt.Errorf("record %s: field name is required", r.name)
	}
	if _, exists := r.index[f.Name]; exists {
		return fmt.Errorf("record %s: %w: %s", r.name, ErrDuplicateField, f.Name)
	}
	r.index[f.Name] = len(r.fields)
	r.fields = append(r.fields, f)
	return nil
}

// Fields returns the declared field metadata in order.
func (r *Record) Fields() []schema.Field {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]schema.Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Expose marks a field as the target of a relation, so it is planned with a
// pool that other records can draw from.
func (r *Record) Expose(field string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[field]; !ok {
		return fmt.Errorf("record %s: %w: %s", r.name, ErrUnknownField, field)
	}
	if r.exposed[field] {
		return nil
	}
	if r.state != Unprepared {
		return fmt.Errorf("record %s: expose %s: %w", r.name, field, ErrNotMutable)
	}
	r.exposed[field] = true
	return nil
}

// Dependencies returns the other record types this record references, in
// first-seen order.
func (r *Record) Dependencies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return schema.Record{Name: r.name, Fields: r.fields}.Dependencies()
}

// Prepare matches a generator and behavior to every field. Relation fields
// are resolved through catalog after all other fields, so a record may
// reference its own pooled fields. Preparing a prepared record is a no-op.
func (r *Record) Prepare(catalog Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Unprepared {
		return nil
	}

	matcher := r.opts.Matcher
	if matcher == nil {
		var err error
		if matcher, err = rules.NewMatcher(nil, nil, r.opts.Logger); err != nil {
			return fmt.Errorf("record %s: %w", r.name, err)
		}
	}

	for _, f := range r.fields {
		if f.Relation != nil && f.Relation.Record == r.name {
			if _, ok := r.index[f.Relation.Field]; ok {
				r.exposed[f.Relation.Field] = true
			}
		}
	}

	r.bound = make(map[string]int)
	plans := make([]*FieldPlan, len(r.fields))
	for pass := 0; pass < 2; pass++ {
		for i, f := range r.fields {
			if (pass == 0) == f.IsRelation() {
				continue
			}
			plan, err := r.planField(matcher, catalog, plans, f)
			if err != nil {
				return err
			}
			plans[i] = plan
		}
	}

	r.plans = plans
	r.catalog = catalog
	r.names = make([]string, len(r.fields))
	for i, f := range r.fields {
		r.names[i] = f.Name
	}
	r.state = Prepared
	return nil
}

func (r *Record) planField(matcher *rules.Matcher, catalog Catalog, plans []*FieldPlan, f schema.Field) (*FieldPlan, error) {
	match, err := matcher.Resolve(r.name, f)
	if err != nil {
		return nil, err
	}

	epoch := strconv.Itoa(r.epoch)
	genOpts := generator.Options{
		Rand:      rand.New(rand.NewSource(r.opts.seedFor(r.name, f.Name, "generate", epoch))),
		DateRange: r.opts.DateRange,
	}
	gen, err := match.Variant.Initialize(match.Field, genOpts)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.name, err)
	}

	if binder, ok := gen.(generator.Binder); ok {
		src, err := r.resolve(catalog, plans, f, binder.Relation())
		if err != nil {
			return nil, err
		}
		binder.Bind(src)
	} else if f.Nullable && f.Kind != schema.KindNull && !r.exposed[f.Name] {
		genOpts.Rand = rand.New(rand.NewSource(r.opts.seedFor(r.name, f.Name, "null", epoch)))
		if gen, err = generator.NewOptional(match.Field, gen, genOpts); err != nil {
			return nil, fmt.Errorf("record %s: %w", r.name, err)
		}
	}

	plan := &FieldPlan{
		Field:     f,
		Generator: match.Variant.Name(),
		Strategy:  match.Strategy,
		NoiseRate: r.opts.noiseRate(r.name, f.Name),
	}

	if f.PoolSize > 0 || r.exposed[f.Name] {
		capacity := f.PoolSize
		if capacity <= 0 {
			capacity = r.opts.PoolSize
		}
		rng := rand.New(rand.NewSource(r.opts.seedFor(r.name, f.Name, "pool", epoch)))
		plan.behavior = behavior.NewPooled(gen, capacity, rng)
		plan.Capacity = capacity
	} else {
		plan.behavior = behavior.NewIndependent(gen)
	}
	plan.Behavior = plan.behavior.Name()

	rng := rand.New(rand.NewSource(r.opts.seedFor(r.name, f.Name, "noise", epoch)))
	if plan.noise, err = noise.New(f, gen, plan.NoiseRate, rng); err != nil {
		return nil, fmt.Errorf("record %s: %w", r.name, err)
	}

	r.opts.Logger.Debug("field planned",
		zap.String("record", r.name),
		zap.String("field", f.Name),
		zap.String("generator", plan.Generator),
		zap.String("strategy", string(plan.Strategy)),
		zap.String("behavior", plan.Behavior),
		zap.Int("capacity", plan.Capacity),
		zap.Float64("noise_rate", plan.NoiseRate),
	)
	return plan, nil
}

// resolve finds the pool a relation field draws from.
func (r *Record) resolve(catalog Catalog, plans []*FieldPlan, f schema.Field, rel schema.Relation) (generator.Source, error) {
	unresolved := func(reason string) error {
		return &UnresolvedReferenceError{Record: r.name, Field: f.Name, Target: rel, Reason: reason}
	}

	if rel.Record != r.name {
		if catalog == nil {
			return nil, unresolved("no catalog to resolve record types")
		}
		target, ok := catalog.Lookup(rel.Record)
		if !ok {
			return nil, unresolved("record type not registered")
		}
		if _, err := target.Source(rel.Field); err != nil {
			return nil, unresolved(err.Error())
		}
		r.bound[rel.Record] = target.generation()
		return &poolHandle{catalog: catalog, target: rel}, nil
	}

	if rel.Field == f.Name {
		return nil, unresolved("field references itself")
	}
	i, ok := r.index[rel.Field]
	if !ok {
		return nil, unresolved("field not declared")
	}
	plan := plans[i]
	if plan == nil {
		return nil, unresolved("field is itself a relation")
	}
	pooled, ok := plan.behavior.(*behavior.Pooled)
	if !ok {
		return nil, unresolved("field is not pooled")
	}
	return pooled, nil
}

// poolHandle reads another record's pool through the catalog on every
// draw, so a target that was reset and prepared again is never read through
// a stale pool.
type poolHandle struct {
	catalog Catalog
	target  schema.Relation
}

func (h *poolHandle) pool() generator.Source {
	rec, ok := h.catalog.Lookup(h.target.Record)
	if !ok {
		return nil
	}
	src, err := rec.Source(h.target.Field)
	if err != nil {
		return nil
	}
	return src
}

func (h *poolHandle) Values() []any {
	if src := h.pool(); src != nil {
		return src.Values()
	}
	return nil
}

func (h *poolHandle) Contains(v any) bool {
	if src := h.pool(); src != nil {
		return src.Contains(v)
	}
	return false
}

func (r *Record) generation() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

// stale reports whether a record type this one references was reset after
// this one was prepared.
func (r *Record) stale() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.staleLocked()
}

func (r *Record) staleLocked() bool {
	if r.state == Unprepared {
		return false
	}
	for name, epoch := range r.bound {
		target, ok := r.catalog.Lookup(name)
		if !ok || target.generation() != epoch {
			return true
		}
	}
	return false
}

// Source returns the pool backing field, for use by relation fields of
// other records. The record must be prepared and the field pooled.
func (r *Record) Source(field string) (generator.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Unprepared {
		return nil, ErrNotPrepared
	}
	i, ok := r.index[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	pooled, ok := r.plans[i].behavior.(*behavior.Pooled)
	if !ok {
		return nil, fmt.Errorf("field %s is not pooled", field)
	}
	return pooled, nil
}

// Plan returns a snapshot of the field plans.
func (r *Record) Plan() (RecordPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Unprepared {
		return RecordPlan{}, fmt.Errorf("record %s: %w", r.name, ErrNotPrepared)
	}
	plan := RecordPlan{
		Name:         r.name,
		Fields:       make([]FieldPlan, len(r.plans)),
		Dependencies: schema.Record{Name: r.name, Fields: r.fields}.Dependencies(),
	}
	for i, p := range r.plans {
		plan.Fields[i] = *p
	}
	return plan, nil
}

// fill populates every pool of a freshly prepared record.
func (r *Record) fill() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.staleLocked() {
		return fmt.Errorf("record %s: %w", r.name, ErrStaleReference)
	}
	switch r.state {
	case Unprepared:
		return fmt.Errorf("record %s: %w", r.name, ErrNotPrepared)
	case Prepared:
		r.state = Filling
		for _, p := range r.plans {
			if pooled, ok := p.behavior.(*behavior.Pooled); ok {
				pooled.Fill()
				r.opts.Logger.Debug("pool filled",
					zap.String("record", r.name),
					zap.String("field", p.Field.Name),
					zap.Int("size", len(pooled.Values())),
					zap.Int("capacity", pooled.Capacity()),
				)
			}
		}
		r.state = Ready
	}
	return nil
}

// Rows returns a lazy sequence of count rows. Each iteration draws fresh
// values; pools persist across calls until Reset.
func (r *Record) Rows(count int) (iter.Seq[Row], error) {
	if count < 0 {
		return nil, fmt.Errorf("record %s: %w", r.name, ErrNegativeCount)
	}
	if err := r.fill(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	plans, names := r.plans, r.names
	r.mu.Unlock()

	return func(yield func(Row) bool) {
		for range count {
			values := make([]any, len(plans))
			for i, p := range plans {
				values[i] = p.draw()
			}
			if !yield(Row{fields: names, values: values}) {
				return
			}
		}
	}, nil
}

// Data is Rows with each row flattened to a map, ready for export.
func (r *Record) Data(count int) (iter.Seq[map[string]any], error) {
	rows, err := r.Rows(count)
	if err != nil {
		return nil, err
	}
	return func(yield func(map[string]any) bool) {
		for row := range rows {
			if !yield(row.Map()) {
				return
			}
		}
	}, nil
}

// Reset discards plans and pools and returns the record to Unprepared.
// Fields and exposures are kept, so Prepare can rebuild the same shape.
func (r *Record) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.plans {
		p.behavior.Reset()
	}
	r.plans = nil
	r.names = nil
	r.catalog = nil
	r.bound = nil
	r.state = Unprepared
	r.epoch++
}
