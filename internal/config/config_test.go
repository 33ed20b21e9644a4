package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
	"github.com/Lumos-Labs-HQ/datasynth/internal/seeder"
)

func loadYAML(t *testing.T, doc string) *Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	cfg, err := load(v)
	require.NoError(t, err)
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := loadYAML(t, "{}")

	assert.Equal(t, DefaultDefinition, cfg.Definition)
	assert.Equal(t, DefaultCount, cfg.Count)
	assert.Equal(t, seeder.DefaultPoolSize, cfg.PoolSize)
	assert.Zero(t, cfg.NoiseRate)
	assert.Equal(t, "1970-01-01", cfg.DateRange.Start)
	assert.Equal(t, "2099-12-31", cfg.DateRange.End)
	require.NoError(t, cfg.Validate())
}

func TestExplicitZeroCount(t *testing.T) {
	cfg := loadYAML(t, "count: 0\n")
	assert.Equal(t, 0, cfg.Count)
}

const sample = `
definition: records.yaml
count: 25
pool_size: 12
noise_rate: 0.1
seed: 42
date_range:
  start: "2000-01-01"
  end: "2010-12-31"
overrides:
  - pattern: "User.nick*"
    generator: name
records:
  Employee:
    count: 100
    pool_size: 5
    noise_rate: 0
    field_noise:
      salary: 0.5
`

func TestLoadSample(t *testing.T) {
	cfg := loadYAML(t, sample)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "records.yaml", cfg.Definition)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 100, cfg.CountFor("Employee"))
	assert.Equal(t, 25, cfg.CountFor("Department"))

	dr, err := cfg.ParseDateRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), dr.Start)

	def := &schema.Definition{Records: []schema.Record{
		{Name: "Employee", Fields: []schema.Field{{Name: "Salary", Kind: schema.KindFloat}}},
		{Name: "Department"},
	}}
	assert.Equal(t, map[string]int{"Employee": 100, "Department": 25}, cfg.Counts(def))

	opts, err := cfg.SeederOptions(def, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 12, opts.PoolSize)
	assert.Equal(t, 0.1, opts.NoiseRate)
	require.NotNil(t, opts.Matcher)

	emp := opts.Records["Employee"]
	assert.Equal(t, 5, emp.PoolSize)
	require.NotNil(t, emp.NoiseRate)
	assert.Zero(t, *emp.NoiseRate)
	assert.Equal(t, map[string]float64{"Salary": 0.5}, emp.FieldNoise)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"noise above one", "noise_rate: 1.5", "NoiseRate"},
		{"negative pool", "pool_size: -1", "PoolSize"},
		{"record noise", "records:\n  A:\n    noise_rate: 2", "NoiseRate"},
		{"field noise", "records:\n  A:\n    field_noise:\n      x: -0.1", "FieldNoise"},
		{"override without generator", "overrides:\n  - pattern: x", "Generator"},
		{"bad date", "date_range:\n  start: yesterday", "date_range.start"},
		{"reversed range", "date_range:\n  start: \"2020-01-01\"\n  end: \"2019-01-01\"", "must be before"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loadYAML(t, tt.doc).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSeederOptionsRejectsUnknownGenerator(t *testing.T) {
	cfg := loadYAML(t, "overrides:\n  - pattern: x\n    generator: nope")
	require.NoError(t, cfg.Validate())
	_, err := cfg.SeederOptions(&schema.Definition{}, nil)
	assert.Error(t, err)
}
