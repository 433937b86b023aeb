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

// Package ingest orchestrates batches of document conversions: documents are
// independent, so they convert in parallel on a bounded pool, and the
// resulting statements are executed in bounded transactions through an
// executor the orchestrator supplies.
package ingest

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/cmfgraph/cypher"
	enterrors "github.com/weaviate/cmfgraph/entities/errors"
	"github.com/weaviate/cmfgraph/entities/graph"
	entmapping "github.com/weaviate/cmfgraph/entities/mapping"
	"github.com/weaviate/cmfgraph/usecases/config"
	"github.com/weaviate/cmfgraph/usecases/convert"
	"github.com/weaviate/cmfgraph/usecases/monitoring"
)

// Format selects the document front-end.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// Document is one instance document queued for ingestion.
type Document struct {
	Label   string
	Format  Format
	Content []byte
}

// BatchExecutor runs one transaction's worth of statements against the graph
// database. Implemented by the orchestrator; the engine never holds a
// connection itself.
type BatchExecutor interface {
	ExecuteBatch(ctx context.Context, statements []*cypher.Statement) error
}

// DocumentReport is the per-document outcome inside a batch.
type DocumentReport struct {
	Label     string
	NodeCount int
	EdgeCount int
	Warnings  []graph.Warning
	Err       error
}

// BatchReport summarizes one ingestion batch.
type BatchReport struct {
	BatchID   string
	Documents []DocumentReport
	NodeCount int
	EdgeCount int
}

// Manager converts and executes document batches at a use-case level, i.e.
// agnostic of the storage the executor writes to.
type Manager struct {
	converter *convert.Converter
	executor  BatchExecutor
	config    config.Config
	logger    logrus.FieldLogger
	metrics   *monitoring.Metrics
}

// NewManager creates a new manager bound to one compiled spec.
func NewManager(spec *entmapping.Spec, executor BatchExecutor, cfg config.Config,
	logger logrus.FieldLogger, metrics *monitoring.Metrics,
) *Manager {
	if metrics == nil {
		metrics = monitoring.NoopMetrics()
	}
	return &Manager{
		converter: convert.NewConverter(spec, logger),
		executor:  executor,
		config:    cfg,
		logger:    logger,
		metrics:   metrics,
	}
}

// IngestBatch converts every document concurrently, then executes the
// statements of the successful ones. A document that fails to parse is
// reported and skipped; its siblings proceed. An empty batchID gets a fresh
// one minted.
func (m *Manager) IngestBatch(ctx context.Context, batchID string,
	docs []Document,
) (*BatchReport, error) {
	if batchID == "" {
		batchID = uuid.New().String()
	}

	report := &BatchReport{
		BatchID:   batchID,
		Documents: make([]DocumentReport, len(docs)),
	}

	eg := enterrors.NewErrorGroupWrapper(m.logger)
	eg.SetLimit(m.config.Workers)

	results := make([]*convert.Result, len(docs))
	for i, doc := range docs {
		i, doc := i, doc
		eg.Go(func() error {
			res, err := m.convertOne(doc, batchID)
			report.Documents[i] = DocumentReport{Label: doc.Label, Err: err}
			if err != nil {
				m.metrics.DocumentsFailed.Inc()
				m.logger.WithFields(logrus.Fields{
					"action":   "ingest_batch",
					"document": doc.Label,
				}).WithError(err).Error("document conversion failed")
				return nil // sibling documents proceed
			}
			results[i] = res
			report.Documents[i].NodeCount = res.NodeCount
			report.Documents[i].EdgeCount = res.EdgeCount
			report.Documents[i].Warnings = res.Warnings
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for i, res := range results {
		if res == nil {
			continue
		}
		if err := m.execute(ctx, res.Statements); err != nil {
			report.Documents[i].Err = err
			continue
		}
		report.NodeCount += res.NodeCount
		report.EdgeCount += res.EdgeCount
	}

	return report, nil
}

func (m *Manager) convertOne(doc Document, batchID string) (*convert.Result, error) {
	begin := time.Now()

	var (
		res *convert.Result
		err error
	)
	switch doc.Format {
	case FormatJSON:
		res, err = m.converter.ConvertJSON(doc.Content, doc.Label, batchID)
	default:
		res, err = m.converter.ConvertXML(doc.Content, doc.Label, batchID)
	}
	if err != nil {
		return nil, err
	}

	format := string(doc.Format)
	m.metrics.ConversionDuration.WithLabelValues(format).
		Observe(time.Since(begin).Seconds())
	m.metrics.NodesProduced.WithLabelValues(format).Add(float64(res.NodeCount))
	m.metrics.EdgesProduced.WithLabelValues(format).Add(float64(res.EdgeCount))
	for _, w := range res.Warnings {
		m.metrics.ConversionWarnings.WithLabelValues(string(w.Kind)).Inc()
	}

	return res, nil
}

// execute hands the statements to the executor in bounded transactions,
// retrying transient failures with exponential backoff. Node statements
// precede edge statements within the emitted order, and chunking preserves
// that order.
func (m *Manager) execute(ctx context.Context, statements []*cypher.Statement) error {
	for offset := 0; offset < len(statements); offset += m.config.BatchSize {
		end := offset + m.config.BatchSize
		if end > len(statements) {
			end = len(statements)
		}
		chunk := statements[offset:end]

		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = 50 * time.Millisecond
		eb.MaxElapsedTime = 30 * time.Second

		err := backoff.Retry(func() error {
			return m.executor.ExecuteBatch(ctx, chunk)
		}, backoff.WithContext(eb, ctx))
		if err != nil {
			return err
		}
		m.metrics.StatementBatches.Inc()
	}
	return nil
}
