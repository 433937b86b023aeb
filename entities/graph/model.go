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

// Package graph holds the in-memory property graph one conversion builds up.
// A Model is exclusively owned by a single conversion and is never shared.
package graph

import "fmt"

// NodeID is a batch-scoped node identifier.
type NodeID string

func (n NodeID) String() string {
	return string(n)
}

// Kind distinguishes the edge categories the converters produce.
type Kind string

const (
	KindContainment Kind = "containment"
	KindReference   Kind = "reference"
	KindAssociation Kind = "association"
	KindRepresents  Kind = "represents"
)

// Node is one graph vertex. Props holds declared scalar values,
// Augmentations holds instance content absent from the compiled schema.
type Node struct {
	ID            NodeID
	Label         string
	QName         string
	Props         map[string]interface{}
	Augmentations map[string]interface{}
}

// Edge is one graph relationship. TargetLabel (and, for role edges,
// SourceLabel) may stay empty until the deferred resolution pass; the ids
// must always be set.
type Edge struct {
	Kind        Kind
	SourceID    NodeID
	SourceLabel string
	TargetID    NodeID
	TargetLabel string
	RelType     string
	Props       map[string]interface{}
}

// WarningKind classifies the non-fatal conversion faults.
type WarningKind string

const (
	WarningDanglingReference WarningKind = "DanglingReference"
	WarningUnresolvedMapping WarningKind = "UnresolvedMappingRef"
	WarningDuplicateID       WarningKind = "DuplicateIdentifier"
	WarningUnmappedElement   WarningKind = "UnmappedElement"
)

// Warning records one recoverable fault with its document location.
type Warning struct {
	Kind   WarningKind
	QName  string
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at %s: %s", w.Kind, w.QName, w.Detail)
}

type edgeKey struct {
	source  NodeID
	target  NodeID
	relType string
}

// Model accumulates nodes and edges during one document traversal.
type Model struct {
	batchID  string
	nodes    map[NodeID]*Node
	order    []NodeID
	edges    []*Edge
	seen     map[edgeKey]bool
	warnings []Warning
}

func NewModel(batchID string) *Model {
	return &Model{
		batchID: batchID,
		nodes:   map[NodeID]*Node{},
		seen:    map[edgeKey]bool{},
	}
}

// BatchID returns the ingestion batch this model is scoped to.
func (m *Model) BatchID() string {
	return m.batchID
}

// AddNode inserts a node. A duplicate id merges into the first occurrence:
// existing keys win, new keys are added, and a DuplicateIdentifier warning is
// recorded. The node actually stored is returned.
func (m *Model) AddNode(n *Node) *Node {
	if existing, ok := m.nodes[n.ID]; ok {
		mergeFirstWins(existing.Props, n.Props)
		mergeFirstWins(existing.Augmentations, n.Augmentations)
		m.AddWarning(Warning{
			Kind:   WarningDuplicateID,
			QName:  n.QName,
			Detail: fmt.Sprintf("identifier %s occurs more than once, keeping first occurrence's values", n.ID),
		})
		return existing
	}

	if n.Props == nil {
		n.Props = map[string]interface{}{}
	}
	if n.Augmentations == nil {
		n.Augmentations = map[string]interface{}{}
	}
	m.nodes[n.ID] = n
	m.order = append(m.order, n.ID)
	return n
}

func mergeFirstWins(dst, src map[string]interface{}) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// AddEdge inserts an edge, deduplicated by (source, target, relationship
// type).
func (m *Model) AddEdge(e *Edge) {
	key := edgeKey{source: e.SourceID, target: e.TargetID, relType: e.RelType}
	if m.seen[key] {
		return
	}
	m.seen[key] = true
	m.edges = append(m.edges, e)
}

// Node looks a node up by id.
func (m *Model) Node(id NodeID) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (m *Model) Nodes() []*Node {
	out := make([]*Node, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (m *Model) Edges() []*Edge {
	return m.edges
}

func (m *Model) AddWarning(w Warning) {
	m.warnings = append(m.warnings, w)
}

func (m *Model) Warnings() []Warning {
	return m.warnings
}

// Counts returns the node and edge totals.
func (m *Model) Counts() (nodes int, edges int) {
	return len(m.nodes), len(m.edges)
}

// ResolveDeferredLabels is the final pass over the completed node table: any
// edge endpoint with an empty label is matched by id. Edges whose target was
// never seen keep an empty label and are later matched by id alone.
func (m *Model) ResolveDeferredLabels() {
	for _, e := range m.edges {
		if e.SourceLabel == "" {
			if n, ok := m.nodes[e.SourceID]; ok {
				e.SourceLabel = n.Label
			}
		}
		if e.TargetLabel == "" {
			if n, ok := m.nodes[e.TargetID]; ok {
				e.TargetLabel = n.Label
			}
		}
	}
}
