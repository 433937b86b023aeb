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

import "github.com/prometheus/client_golang/prometheus"

// Metrics carries the engine's prometheus collectors. The orchestrator
// decides where (or whether) they get exposed.
type Metrics struct {
	ConversionDuration *prometheus.HistogramVec
	NodesProduced      *prometheus.CounterVec
	EdgesProduced      *prometheus.CounterVec
	ConversionWarnings *prometheus.CounterVec
	DocumentsFailed    prometheus.Counter
	StatementBatches   prometheus.Counter
}

// NewMetrics registers all engine collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConversionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cmfgraph_conversion_duration_seconds",
			Help:    "Time to convert one document into write statements",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"format"}),
		NodesProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmfgraph_nodes_produced_total",
			Help: "Graph nodes produced by conversions",
		}, []string{"format"}),
		EdgesProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmfgraph_edges_produced_total",
			Help: "Graph edges produced by conversions",
		}, []string{"format"}),
		ConversionWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmfgraph_conversion_warnings_total",
			Help: "Non-fatal conversion warnings by kind",
		}, []string{"kind"}),
		DocumentsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cmfgraph_documents_failed_total",
			Help: "Documents that could not be converted at all",
		}),
		StatementBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cmfgraph_statement_batches_total",
			Help: "Statement batches handed to the executor",
		}),
	}

	reg.MustRegister(m.ConversionDuration, m.NodesProduced, m.EdgesProduced,
		m.ConversionWarnings, m.DocumentsFailed, m.StatementBatches)

	return m
}

// NoopMetrics returns collectors that are never exposed anywhere. Mainly
// used in tests and by callers that disable monitoring.
func NoopMetrics() *Metrics {
	return NewMetrics(noop)
}
