package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

const day = 24 * time.Hour

// Date draws UTC timestamps between the declared bounds, falling back to the
// configured date range. Fields of kind date are truncated to midnight.
var Date = NewVariant("date",
	"date and datetime fields; uniform or normal between earliest and latest, default 1970-01-01..2099-12-31",
	RankBase,
	func(f schema.Field) bool { return f.Kind == schema.KindDate || f.Kind == schema.KindDateTime },
	newDate,
)

type dateGen struct {
	rng      *rand.Rand
	lo, hi   time.Time
	span     int64 // seconds, or days for date-only fields
	dateOnly bool
	normal   bool
	seq      int
}

func newDate(f schema.Field, opts Options) (Generator, error) {
	dist, err := distribution(f, "date")
	if err != nil {
		return nil, err
	}
	dr := opts.DateRange.orDefault()
	lo, hi := dr.Start.UTC(), dr.End.UTC()
	if f.Earliest != nil {
		lo = f.Earliest.UTC()
	}
	if f.Latest != nil {
		hi = f.Latest.UTC()
	}
	if f.Earliest != nil && f.Latest == nil && hi.Before(lo) {
		hi = lo.AddDate(100, 0, 0)
	}
	if f.Latest != nil && f.Earliest == nil && hi.Before(lo) {
		lo = hi.AddDate(-100, 0, 0)
	}
	if hi.Before(lo) {
		return nil, configErr(f, "date", "earliest %s is after latest %s", lo.Format(time.RFC3339), hi.Format(time.RFC3339))
	}

	g := &dateGen{rng: opts.rng(), lo: lo, hi: hi, dateOnly: f.Kind == schema.KindDate, normal: dist == distNormal}
	if g.dateOnly {
		first := lo.Truncate(day)
		if first.Before(lo) {
			first = first.Add(day)
		}
		last := hi.Truncate(day)
		if last.Before(first) {
			return nil, configErr(f, "date", "no whole day between %s and %s", lo.Format(time.RFC3339), hi.Format(time.RFC3339))
		}
		g.lo, g.hi = first, last
		g.span = (last.Unix() - first.Unix()) / int64(day/time.Second)
	} else {
		g.span = hi.Unix() - lo.Unix()
	}
	return g, nil
}

func (g *dateGen) offset() int64 {
	if g.span <= 0 {
		return 0
	}
	if g.normal {
		mu := float64(g.span) / 2
		sigma := float64(g.span) / 6
		for i := 0; i < maxRedraws; i++ {
			v := int64(math.Round(g.rng.NormFloat64()*sigma + mu))
			if v >= 0 && v <= g.span {
				return v
			}
		}
		return int64(mu)
	}
	return g.rng.Int63n(g.span + 1)
}

func (g *dateGen) Produce() any {
	if g.dateOnly {
		return g.lo.AddDate(0, 0, int(g.offset()))
	}
	// whole seconds go through Unix time; a Duration overflows past ~292 years
	t := time.Unix(g.lo.Unix()+g.offset(), int64(g.lo.Nanosecond())).UTC()
	if t.Before(g.hi) {
		t = t.Add(time.Duration(g.rng.Int63n(int64(time.Second))))
	}
	if t.After(g.hi) {
		t = g.hi
	}
	return t
}

func (g *dateGen) Noise() any {
	g.seq++
	n := 1 + g.rng.Intn(30)
	switch g.rng.Intn(3) {
	case 0:
		return g.lo.AddDate(0, 0, -n)
	case 1:
		return g.hi.AddDate(0, 0, n)
	default:
		return fmt.Sprintf("not-a-date-%d", g.seq)
	}
}
