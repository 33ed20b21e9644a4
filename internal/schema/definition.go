package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Record declares one record type and its fields in declaration order.
type Record struct {
	Name      string  `yaml:"name"`
	PoolSize  int     `yaml:"pool_size"`
	NoiseRate float64 `yaml:"noise_rate"`
	Fields    []Field `yaml:"fields"`
}

// Definition is an already-resolved set of record declarations. It is the
// abstract metadata structure itself, not a schema language.
type Definition struct {
	Records []Record `yaml:"records"`
}

// Dependencies returns the record types referenced by r's relation fields,
// excluding self references, in first-seen order.
func (r Record) Dependencies() []string {
	seen := make(map[string]bool)
	var deps []string
	for _, f := range r.Fields {
		if f.Relation == nil || f.Relation.Record == r.Name || seen[f.Relation.Record] {
			continue
		}
		seen[f.Relation.Record] = true
		deps = append(deps, f.Relation.Record)
	}
	return deps
}

// Decode reads a YAML encoded Definition.
func Decode(r io.Reader) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if err == io.EOF {
			return &def, nil
		}
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}
	return &def, nil
}

// LoadFile reads a Definition from path.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open definition %s: %w", path, err)
	}
	defer f.Close()

	def, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}
