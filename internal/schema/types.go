package schema

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the declared type tag of a field.
type Kind string

const (
	KindUnknown  Kind = ""
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindString   Kind = "string"
	KindDate     Kind = "date"
	KindDateTime Kind = "datetime"
	KindBool     Kind = "bool"
	KindUUID     Kind = "uuid"
	KindNull     Kind = "null"
)

// Key marks a field's role in cross-record relationships.
type Key string

const (
	KeyNone    Key = ""
	KeyPrimary Key = "primary"
	KeyUnique  Key = "unique"
	KeyForeign Key = "foreign"
)

// Relation points a field at another record type's field.
type Relation struct {
	Record string `yaml:"record" json:"record"`
	Field  string `yaml:"field" json:"field"`
}

func (r Relation) String() string {
	return r.Record + "." + r.Field
}

// ParseRelation parses the "Record.field" form.
func ParseRelation(ref string) (*Relation, error) {
	record, field, ok := strings.Cut(ref, ".")
	if !ok || record == "" || field == "" {
		return nil, fmt.Errorf("invalid relation reference %q, expected Record.field", ref)
	}
	return &Relation{Record: record, Field: field}, nil
}

// Field is the metadata describing one field of a record type. It is
// supplied by the schema source and never mutated by the generation engine.
type Field struct {
	Name     string   `yaml:"name" json:"name"`
	Kind     Kind     `yaml:"kind" json:"kind"`
	Nullable bool     `yaml:"nullable" json:"nullable"`
	NullRate *float64 `yaml:"null_rate" json:"null_rate,omitempty"` // nil means the default 1-in-20

	Min       *float64   `yaml:"min" json:"min,omitempty"`
	Max       *float64   `yaml:"max" json:"max,omitempty"`
	MinLength *int       `yaml:"min_length" json:"min_length,omitempty"`
	MaxLength *int       `yaml:"max_length" json:"max_length,omitempty"`
	Earliest  *time.Time `yaml:"earliest" json:"earliest,omitempty"`
	Latest    *time.Time `yaml:"latest" json:"latest,omitempty"`
	Precision *int       `yaml:"precision" json:"precision,omitempty"`

	Distribution string    `yaml:"distribution" json:"distribution,omitempty"` // uniform | normal
	Choices      []any     `yaml:"choices" json:"choices,omitempty"`
	Weights      []float64 `yaml:"weights" json:"weights,omitempty"`

	Key      Key       `yaml:"key" json:"key,omitempty"`
	PoolSize int       `yaml:"pool_size" json:"pool_size,omitempty"`
	Relation *Relation `yaml:"relation" json:"relation,omitempty"`

	ExternalType string   `yaml:"external_type" json:"external_type,omitempty"` // e.g. VARCHAR(40)
	Hints        []string `yaml:"hints" json:"hints,omitempty"`
}

// HasHint reports whether any hint equals one of names, case-insensitively.
func (f Field) HasHint(names ...string) bool {
	for _, h := range f.Hints {
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(h), n) {
				return true
			}
		}
	}
	return false
}

// FirstHint returns the first hint that appears in names, in hint order.
func (f Field) FirstHint(names ...string) (string, bool) {
	for _, h := range f.Hints {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if h == n {
				return n, true
			}
		}
	}
	return "", false
}

// IsRelation reports whether the field references another record's field.
func (f Field) IsRelation() bool {
	return f.Relation != nil
}

func (f Field) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(kind=%q", f.Name, f.Kind)
	if f.ExternalType != "" {
		fmt.Fprintf(&b, " external=%q", f.ExternalType)
	}
	if f.Relation != nil {
		fmt.Fprintf(&b, " relation=%s", f.Relation)
	}
	if len(f.Choices) > 0 {
		fmt.Fprintf(&b, " choices=%d", len(f.Choices))
	}
	if len(f.Hints) > 0 {
		fmt.Fprintf(&b, " hints=%v", f.Hints)
	}
	b.WriteString(")")
	return b.String()
}

// Ptr is a helper for building bound pointers in literals.
func Ptr[T any](v T) *T {
	return &v
}
