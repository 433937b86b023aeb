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

package convert

import (
	"github.com/weaviate/cmfgraph/cypher"
	"github.com/weaviate/cmfgraph/entities/graph"
)

// Property keys reserved by the emitter. Augmentations live under the aug_
// prefix so they can never collide with declared scalar keys.
const (
	propID           = "_id"
	propQName        = "_qname"
	propDoc          = "_doc"
	propBatch        = "_batch"
	propAugmented    = "_hasAugmentation"
	augmentationKeys = "aug_"
)

// Emit serializes a completed graph model into ordered write statements: one
// idempotent upsert per node id, then one per (endpoints, type) triple.
// Properties are set only on first creation, so replays and duplicate merges
// can never overwrite earlier writes.
func Emit(m *graph.Model, docLabel string) []*cypher.Statement {
	nodes := m.Nodes()
	edges := m.Edges()
	out := make([]*cypher.Statement, 0, len(nodes)+len(edges))

	for _, n := range nodes {
		props := map[string]interface{}{
			propQName: n.QName,
			propDoc:   docLabel,
			propBatch: m.BatchID(),
		}
		for k, v := range n.Props {
			props[k] = v
		}
		if len(n.Augmentations) > 0 {
			props[propAugmented] = true
			for k, v := range n.Augmentations {
				props[augmentationKeys+k] = v
			}
		}
		out = append(out, cypher.MergeNode(n.Label, n.ID.String()).OnCreateSet(props))
	}

	for _, e := range edges {
		stmt := cypher.MatchNodes(e.SourceLabel, e.SourceID.String(),
			e.TargetLabel, e.TargetID.String()).
			MergeRelationship(e.RelType)
		if len(e.Props) > 0 {
			stmt = stmt.OnCreateSetRel(e.Props)
		}
		out = append(out, stmt)
	}

	return out
}
