package seeder

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// Schema is a registry of record types prepared and generated in
// dependency order.
type Schema struct {
	mu      sync.Mutex
	opts    Options
	records map[string]*Record
	names   []string
	order   []string
	logger  *zap.Logger
}

func NewSchema(opts Options) *Schema {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Schema{
		opts:    opts,
		records: make(map[string]*Record),
		logger:  opts.Logger,
	}
}

// Add registers rec under name, which must match the record's own name.
func (s *Schema) Add(name string, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return fmt.Errorf("record type name is required")
	}
	if rec.Name() != name {
		return fmt.Errorf("record %s registered as %s: names must match", rec.Name(), name)
	}
	if _, exists := s.records[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRecord, name)
	}
	s.records[name] = rec
	s.names = append(s.names, name)
	s.order = nil
	return nil
}

// Define creates a record type with the schema's options and registers it.
func (s *Schema) Define(name string, fields ...schema.Field) (*Record, error) {
	rec := NewRecord(name, s.opts)
	for _, f := range fields {
		if err := rec.Add(f); err != nil {
			return nil, err
		}
	}
	if err := s.Add(name, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Lookup returns the named record type. It makes Schema a Catalog.
func (s *Schema) Lookup(name string) (*Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[name]
	return rec, ok
}

// Names returns the registered record type names in registration order.
func (s *Schema) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.names)
}

// Prepare orders the record types by their relations and prepares each one,
// referenced types first. A prepared type is reset and prepared again when a
// newly added type references one of its fields, or when a type it
// references was reset.
func (s *Schema) Prepare() error {
	s.mu.Lock()
	names := slices.Clone(s.names)
	records := make(map[string]*Record, len(s.records))
	for k, v := range s.records {
		records[k] = v
	}
	s.mu.Unlock()

	graph := NewDependencyGraph()
	for _, name := range names {
		rec := records[name]
		for _, f := range rec.Fields() {
			if f.Relation == nil {
				continue
			}
			target, ok := records[f.Relation.Record]
			if !ok {
				return &UnresolvedReferenceError{Record: name, Field: f.Name, Target: *f.Relation, Reason: "record type not registered"}
			}
			err := target.Expose(f.Relation.Field)
			if errors.Is(err, ErrNotMutable) {
				s.logger.Info("resetting record type to expose a referenced field",
					zap.String("record", target.Name()),
					zap.String("field", f.Relation.Field),
					zap.String("referenced_by", name),
				)
				target.Reset()
				err = target.Expose(f.Relation.Field)
			}
			if err != nil {
				return &UnresolvedReferenceError{Record: name, Field: f.Name, Target: *f.Relation, Reason: err.Error()}
			}
		}
		graph.AddNode(name, rec.Dependencies())
	}

	order, err := graph.BuildOrder()
	if err != nil {
		return err
	}
	s.logger.Info("preparing record types", zap.String("order", strings.Join(order, " -> ")))

	for _, name := range order {
		rec := records[name]
		if rec.stale() {
			s.logger.Info("re-preparing record type after a referenced type was reset", zap.String("record", name))
			rec.Reset()
		}
		if err := rec.Prepare(s); err != nil {
			return fmt.Errorf("failed to prepare %s: %w", name, err)
		}
	}

	s.mu.Lock()
	s.order = order
	s.mu.Unlock()
	return nil
}

// Order returns the dependency order computed by the last Prepare.
func (s *Schema) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

// Plan returns every prepared record's plan with the preparation order.
func (s *Schema) Plan() (SchemaPlan, error) {
	order := s.Order()
	if order == nil {
		return SchemaPlan{}, ErrNotPrepared
	}
	plan := SchemaPlan{Order: order, Records: make(map[string]RecordPlan, len(order))}
	for _, name := range order {
		rec, _ := s.Lookup(name)
		rp, err := rec.Plan()
		if err != nil {
			return SchemaPlan{}, err
		}
		plan.Records[name] = rp
	}
	return plan, nil
}

func (s *Schema) record(name string) (*Record, error) {
	rec, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecord, name)
	}
	return rec, nil
}

func (s *Schema) Rows(name string, count int) (iter.Seq[Row], error) {
	rec, err := s.record(name)
	if err != nil {
		return nil, err
	}
	return rec.Rows(count)
}

func (s *Schema) Data(name string, count int) (iter.Seq[map[string]any], error) {
	rec, err := s.record(name)
	if err != nil {
		return nil, err
	}
	return rec.Data(count)
}

// Reset returns every record type to Unprepared.
func (s *Schema) Reset() {
	s.mu.Lock()
	records := make([]*Record, 0, len(s.names))
	for _, name := range s.names {
		records = append(records, s.records[name])
	}
	s.order = nil
	s.mu.Unlock()

	for _, rec := range records {
		rec.Reset()
	}
}

// Sink receives generated rows. Generate calls it from several goroutines.
type Sink func(ctx context.Context, record string, row Row) error

// Generate prepares the schema if needed and streams counts[name] rows of
// each named record type to sink. Pools are filled in dependency order
// before record types are generated concurrently. The first sink error or
// context cancellation stops every stream.
func (s *Schema) Generate(ctx context.Context, counts map[string]int, sink Sink) error {
	for name := range counts {
		if _, err := s.record(name); err != nil {
			return err
		}
	}
	if err := s.Prepare(); err != nil {
		return err
	}

	order := s.Order()
	for _, name := range order {
		rec, _ := s.Lookup(name)
		if err := rec.fill(); err != nil {
			return err
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, name := range order {
		count, ok := counts[name]
		if !ok || count == 0 {
			continue
		}
		rows, err := s.Rows(name, count)
		if err != nil {
			return err
		}
		g.Go(func() error {
			for row := range rows {
				if err := gCtx.Err(); err != nil {
					return err
				}
				if err := sink(gCtx, name, row); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			s.logger.Debug("record type generated", zap.String("record", name), zap.Int("rows", count))
			return nil
		})
	}
	return g.Wait()
}
