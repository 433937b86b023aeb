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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.Validate())
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, DefaultMaxFlattenDepth, cfg.MaxFlattenDepth)
	assert.True(t, cfg.Workers >= 1)
}

func TestFromYAML(t *testing.T) {
	t.Run("overrides", func(t *testing.T) {
		cfg, err := FromYAML([]byte("workers: 4\nbatch_size: 50\n"))
		require.Nil(t, err)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, 50, cfg.BatchSize)
		assert.Equal(t, DefaultMaxFlattenDepth, cfg.MaxFlattenDepth,
			"unset fields keep their defaults")
	})

	t.Run("empty document keeps defaults", func(t *testing.T) {
		cfg, err := FromYAML(nil)
		require.Nil(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := FromYAML([]byte("workers: [not a number"))
		assert.NotNil(t, err)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		_, err := FromYAML([]byte("batch_size: 0"))
		assert.NotNil(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no workers", Config{Workers: 0, BatchSize: 1, MaxFlattenDepth: 1}},
		{"negative batch size", Config{Workers: 1, BatchSize: -1, MaxFlattenDepth: 1}},
		{"no flatten depth", Config{Workers: 1, BatchSize: 1, MaxFlattenDepth: 0}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.NotNil(t, test.cfg.Validate())
		})
	}
}
