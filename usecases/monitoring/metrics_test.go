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

package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ConversionDuration.WithLabelValues("xml").Observe(0.01)
	m.NodesProduced.WithLabelValues("xml").Add(2)
	m.ConversionWarnings.WithLabelValues("DanglingReference").Inc()
	m.DocumentsFailed.Inc()

	families, err := reg.Gather()
	require.Nil(t, err)
	assert.NotEmpty(t, families)
}

func TestNoopMetricsAreUsable(t *testing.T) {
	m := NoopMetrics()
	require.NotNil(t, m)

	// collectors work, they just never surface anywhere
	m.EdgesProduced.WithLabelValues("json").Add(1)
	m.StatementBatches.Inc()
}
