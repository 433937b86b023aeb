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

// Package convert turns instance documents into graph write statements using
// a compiled mapping spec. The two format front-ends only differ in parsing;
// everything after the parse is shared, which is what guarantees format
// parity.
package convert

import (
	"github.com/sirupsen/logrus"

	"github.com/weaviate/cmfgraph/cypher"
	"github.com/weaviate/cmfgraph/entities/graph"
	entmapping "github.com/weaviate/cmfgraph/entities/mapping"
)

// Result is one successful document conversion. The statement list is always
// complete; a failed document returns an error and no statements.
type Result struct {
	Statements []*cypher.Statement
	NodeCount  int
	EdgeCount  int
	Warnings   []graph.Warning
}

// Converter applies one compiled spec to instance documents. It holds no
// mutable state and is safe for concurrent use; each conversion owns its own
// graph model.
type Converter struct {
	spec   *entmapping.Spec
	logger logrus.FieldLogger
}

// NewConverter creates a converter bound to a compiled spec.
func NewConverter(spec *entmapping.Spec, logger logrus.FieldLogger) *Converter {
	return &Converter{spec: spec, logger: logger}
}

// ConvertXML converts one XML instance document.
func (c *Converter) ConvertXML(content []byte, docLabel, batchID string) (*Result, error) {
	root, err := parseXML(content)
	if err != nil {
		return nil, ErrParse{Document: docLabel, Err: err}
	}
	return c.convert(root, docLabel, batchID), nil
}

// ConvertJSON converts one JSON instance document.
func (c *Converter) ConvertJSON(content []byte, docLabel, batchID string) (*Result, error) {
	root, err := parseJSON(content)
	if err != nil {
		return nil, ErrParse{Document: docLabel, Err: err}
	}
	return c.convert(root, docLabel, batchID), nil
}

func (c *Converter) convert(root *element, docLabel, batchID string) *Result {
	model := graph.NewModel(batchID)
	newTraversal(c.spec, model, c.logger).run(root)

	nodes, edges := model.Counts()
	c.logger.WithFields(logrus.Fields{
		"action":   "convert_document",
		"document": docLabel,
		"nodes":    nodes,
		"edges":    edges,
		"warnings": len(model.Warnings()),
	}).Debug("document converted")

	return &Result{
		Statements: Emit(model, docLabel),
		NodeCount:  nodes,
		EdgeCount:  edges,
		Warnings:   model.Warnings(),
	}
}
