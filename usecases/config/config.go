//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

// Package config holds the engine's tunables. The orchestrator loads and
// validates one Config and passes it down; nothing here reads files or the
// environment on its own.
package config

import (
	"runtime"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// DefaultBatchSize balances round-trip overhead against transaction lock
// duration on the graph database.
const DefaultBatchSize = 1000

// DefaultMaxFlattenDepth bounds schema flattening recursion.
const DefaultMaxFlattenDepth = 10

// Config are the engine tunables.
type Config struct {
	// Workers bounds the conversion worker pool.
	Workers int `json:"workers" yaml:"workers"`
	// BatchSize is the number of statements per executor transaction.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
	// MaxFlattenDepth guards against self-referential schema cycles.
	MaxFlattenDepth int `json:"max_flatten_depth" yaml:"max_flatten_depth"`
}

// DefaultConfig returns a config with every field at its default.
func DefaultConfig() Config {
	return Config{
		Workers:         runtime.GOMAXPROCS(0),
		BatchSize:       DefaultBatchSize,
		MaxFlattenDepth: DefaultMaxFlattenDepth,
	}
}

// FromYAML parses a config document, filling unset fields with defaults.
func FromYAML(content []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every tunable is usable.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.BatchSize < 1 {
		return errors.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.MaxFlattenDepth < 1 {
		return errors.Errorf("max_flatten_depth must be positive, got %d", c.MaxFlattenDepth)
	}
	return nil
}
