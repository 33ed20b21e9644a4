package seeder

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// FromDefinition registers every record type of def. Pool size and noise
// rate declared on a record apply unless opts.Records overrides them.
func FromDefinition(def *schema.Definition, opts Options) (*Schema, error) {
	s := NewSchema(opts)
	for _, decl := range def.Records {
		ro := opts
		if decl.PoolSize > 0 {
			ro.PoolSize = decl.PoolSize
		}
		if decl.NoiseRate > 0 {
			ro.NoiseRate = decl.NoiseRate
		}
		rec := NewRecord(decl.Name, ro)
		for _, f := range decl.Fields {
			if err := rec.Add(f); err != nil {
				return nil, err
			}
		}
		if err := s.Add(decl.Name, rec); err != nil {
			return nil, fmt.Errorf("definition: %w", err)
		}
	}
	return s, nil
}
