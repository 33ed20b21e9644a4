package behavior

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Lumos-Labs-HQ/datasynth/internal/generator"
)

// PoolState tracks the fill lifecycle of a Pooled behavior.
type PoolState int

const (
	Empty PoolState = iota
	Filling
	Full
)

func (s PoolState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Filling:
		return "filling"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("PoolState(%d)", int(s))
	}
}

// Pool is an ordered, fixed-capacity sequence of distinct values.
type Pool struct {
	capacity int
	values   []any
	seen     map[any]struct{}
}

func NewPool(capacity int) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{
		capacity: capacity,
		values:   make([]any, 0, capacity),
		seen:     make(map[any]struct{}, capacity),
	}
}

// Add appends v unless it is already present or the pool is full.
func (p *Pool) Add(v any) bool {
	if len(p.values) >= p.capacity {
		return false
	}
	k := poolKey(v)
	if _, dup := p.seen[k]; dup {
		return false
	}
	p.seen[k] = struct{}{}
	p.values = append(p.values, v)
	return true
}

// Contains reports whether v is in the pool.
func (p *Pool) Contains(v any) bool {
	_, ok := p.seen[poolKey(v)]
	return ok
}

// Values returns the pool contents. The slice must not be modified.
func (p *Pool) Values() []any {
	return p.values[:len(p.values):len(p.values)]
}

func (p *Pool) Len() int { return len(p.values) }
func (p *Pool) Cap() int { return p.capacity }
func (p *Pool) Full() bool { return len(p.values) >= p.capacity }

// Clear empties the pool, keeping its capacity.
func (p *Pool) Clear() {
	p.values = make([]any, 0, p.capacity)
	p.seen = make(map[any]struct{}, p.capacity)
}

type timeKey struct{ nanos int64 }

func poolKey(v any) any {
	switch t := v.(type) {
	case time.Time:
		return timeKey{t.UnixNano()}
	case nil, string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	default:
		return fmt.Sprintf("%T:%#v", v, v)
	}
}

// Pooled fills a pool of distinct values on first use and then emits them
// in shuffled passes, so every value appears once per pass. The pool is
// fixed until Reset. Fill is guarded, so a pool may be read as a relation
// source from another goroutine; Next and Reset belong to the owner.
type Pooled struct {
	mu    sync.Mutex
	gen   generator.Generator
	pool  *Pool
	state PoolState
	rng   *rand.Rand

	perm []int
	pos  int
}

func NewPooled(gen generator.Generator, capacity int, rng *rand.Rand) *Pooled {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Pooled{gen: gen, pool: NewPool(capacity), rng: rng}
}

// Fill populates the pool if it is empty. It stops early when the generator
// reports fewer distinct values than the capacity or keeps repeating itself.
func (b *Pooled) Fill() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fillLocked()
}

func (b *Pooled) fillLocked() {
	if b.state == Full {
		return
	}
	b.state = Filling
	target := b.pool.Cap()
	if fin, ok := b.gen.(generator.Finite); ok {
		if n, ok := fin.Cardinality(); ok && n < target {
			target = n
		}
	}
	budget := target*20 + 100
	for b.pool.Len() < target && budget > 0 {
		b.pool.Add(b.gen.Produce())
		budget--
	}
	b.state = Full
}

// Values returns the filled pool. It satisfies generator.Source.
func (b *Pooled) Values() []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fillLocked()
	return b.pool.Values()
}

// Contains reports whether v is one of the pooled values, filling the pool
// first if needed.
func (b *Pooled) Contains(v any) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fillLocked()
	return b.pool.Contains(v)
}

func (b *Pooled) Next() any {
	values := b.Values()
	if len(values) == 0 {
		return b.gen.Produce()
	}
	if b.pos >= len(b.perm) {
		b.perm = b.rng.Perm(len(values))
		b.pos = 0
	}
	v := values[b.perm[b.pos]]
	b.pos++
	return v
}

// Reset discards the pool so the next draw fills it with new values.
func (b *Pooled) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pool.Clear()
	b.state = Empty
	b.perm = nil
	b.pos = 0
}

func (b *Pooled) State() PoolState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Pooled) Capacity() int {
	return b.pool.Cap()
}

func (b *Pooled) Generator() generator.Generator {
	return b.gen
}

func (b *Pooled) Name() string {
	return "pooled"
}
