package cmd

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Lumos-Labs-HQ/datasynth/internal/config"
	"github.com/Lumos-Labs-HQ/datasynth/internal/logging"
	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
	"github.com/Lumos-Labs-HQ/datasynth/internal/seeder"
)

type engine struct {
	cfg    *config.Config
	def    *schema.Definition
	schema *seeder.Schema
	logger *zap.Logger
}

// loadEngine reads config and the record definition and registers every
// record type. The schema is not prepared yet.
func loadEngine() (*engine, error) {
	logger := logging.New(viper.GetBool("verbose"))

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	def, err := schema.LoadFile(cfg.Definition)
	if err != nil {
		return nil, err
	}
	if len(def.Records) == 0 {
		return nil, fmt.Errorf("%s declares no record types", cfg.Definition)
	}

	opts, err := cfg.SeederOptions(def, logger)
	if err != nil {
		return nil, err
	}
	s, err := seeder.FromDefinition(def, opts)
	if err != nil {
		return nil, err
	}

	return &engine{cfg: cfg, def: def, schema: s, logger: logger}, nil
}

func (e *engine) close() {
	_ = e.logger.Sync()
}
