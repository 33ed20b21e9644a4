package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Lumos-Labs-HQ/datasynth/internal/generator"
	"github.com/Lumos-Labs-HQ/datasynth/internal/rules"
	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
	"github.com/Lumos-Labs-HQ/datasynth/internal/seeder"
)

const (
	DefaultCount      = 10
	DefaultDefinition = "datasynth.records.yaml"
	dateLayout        = "2006-01-02"
)

var validate = validator.New()

type Config struct {
	Definition string                  `json:"definition" mapstructure:"definition" validate:"required"`
	Count      int                     `json:"count" mapstructure:"count" validate:"gte=0"`
	PoolSize   int                     `json:"pool_size" mapstructure:"pool_size" validate:"gte=1"`
	NoiseRate  float64                 `json:"noise_rate" mapstructure:"noise_rate" validate:"gte=0,lte=1"`
	Seed       int64                   `json:"seed" mapstructure:"seed"`
	DateRange  DateRange               `json:"date_range" mapstructure:"date_range"`
	Overrides  []Override              `json:"overrides" mapstructure:"overrides" validate:"dive"`
	Records    map[string]RecordConfig `json:"records" mapstructure:"records" validate:"dive"`
}

type DateRange struct {
	Start string `json:"start" mapstructure:"start"`
	End   string `json:"end" mapstructure:"end"`
}

// Override forces fields matching Pattern ("field" or "Record.field" glob)
// onto the named generator.
type Override struct {
	Pattern   string `json:"pattern" mapstructure:"pattern" validate:"required"`
	Generator string `json:"generator" mapstructure:"generator" validate:"required"`
}

type RecordConfig struct {
	Count      *int               `json:"count,omitempty" mapstructure:"count" validate:"omitempty,gte=0"`
	PoolSize   int                `json:"pool_size,omitempty" mapstructure:"pool_size" validate:"gte=0"`
	NoiseRate  *float64           `json:"noise_rate,omitempty" mapstructure:"noise_rate" validate:"omitempty,gte=0,lte=1"`
	FieldNoise map[string]float64 `json:"field_noise,omitempty" mapstructure:"field_noise" validate:"dive,gte=0,lte=1"`
}

func Load() (*Config, error) {
	return load(viper.GetViper())
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Definition == "" {
		cfg.Definition = DefaultDefinition
	}
	if !v.IsSet("count") {
		cfg.Count = DefaultCount
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = seeder.DefaultPoolSize
	}
	def := generator.DefaultDateRange()
	if cfg.DateRange.Start == "" {
		cfg.DateRange.Start = def.Start.Format(dateLayout)
	}
	if cfg.DateRange.End == "" {
		cfg.DateRange.End = def.End.Format(dateLayout)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	dr, err := c.ParseDateRange()
	if err != nil {
		return err
	}
	if !dr.Start.Before(dr.End) {
		return fmt.Errorf("date_range.start %s must be before date_range.end %s", c.DateRange.Start, c.DateRange.End)
	}
	return nil
}

func parseDate(key, value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %q is not a date (want YYYY-MM-DD or RFC 3339)", key, value)
	}
	return t.UTC(), nil
}

func (c *Config) ParseDateRange() (generator.DateRange, error) {
	start, err := parseDate("date_range.start", c.DateRange.Start)
	if err != nil {
		return generator.DateRange{}, err
	}
	end, err := parseDate("date_range.end", c.DateRange.End)
	if err != nil {
		return generator.DateRange{}, err
	}
	return generator.DateRange{Start: start, End: end}, nil
}

// Record returns the settings for a record type. Keys are matched without
// regard to case since viper lowercases them.
func (c *Config) Record(name string) (RecordConfig, bool) {
	if rc, ok := c.Records[name]; ok {
		return rc, true
	}
	for key, rc := range c.Records {
		if strings.EqualFold(key, name) {
			return rc, true
		}
	}
	return RecordConfig{}, false
}

// CountFor returns the number of rows to generate for a record type.
func (c *Config) CountFor(name string) int {
	if rc, ok := c.Record(name); ok && rc.Count != nil {
		return *rc.Count
	}
	return c.Count
}

// Counts returns CountFor for every record type of def.
func (c *Config) Counts(def *schema.Definition) map[string]int {
	counts := make(map[string]int, len(def.Records))
	for _, rec := range def.Records {
		counts[rec.Name] = c.CountFor(rec.Name)
	}
	return counts
}

// Matcher builds the rule matcher with the configured overrides.
func (c *Config) Matcher(logger *zap.Logger) (*rules.Matcher, error) {
	overrides := make([]rules.Override, len(c.Overrides))
	for i, o := range c.Overrides {
		overrides[i] = rules.Override{Pattern: o.Pattern, Variant: o.Generator}
	}
	return rules.NewMatcher(generator.Default(), overrides, logger)
}

// SeederOptions translates the config into synthesis options for the record
// types of def.
func (c *Config) SeederOptions(def *schema.Definition, logger *zap.Logger) (seeder.Options, error) {
	dr, err := c.ParseDateRange()
	if err != nil {
		return seeder.Options{}, err
	}
	matcher, err := c.Matcher(logger)
	if err != nil {
		return seeder.Options{}, err
	}

	opts := seeder.Options{
		PoolSize:  c.PoolSize,
		NoiseRate: c.NoiseRate,
		DateRange: dr,
		Seed:      c.Seed,
		Records:   make(map[string]seeder.RecordOptions),
		Matcher:   matcher,
		Logger:    logger,
	}
	for _, rec := range def.Records {
		rc, ok := c.Record(rec.Name)
		if !ok {
			continue
		}
		ro := seeder.RecordOptions{PoolSize: rc.PoolSize, NoiseRate: rc.NoiseRate}
		if len(rc.FieldNoise) > 0 {
			ro.FieldNoise = make(map[string]float64, len(rc.FieldNoise))
			for key, rate := range rc.FieldNoise {
				ro.FieldNoise[fieldName(rec, key)] = rate
			}
		}
		opts.Records[rec.Name] = ro
	}
	return opts, nil
}

// fieldName restores the declared spelling of a lowercased field key.
func fieldName(rec schema.Record, key string) string {
	for _, f := range rec.Fields {
		if strings.EqualFold(f.Name, key) {
			return f.Name
		}
	}
	return key
}
