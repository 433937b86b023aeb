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
	"github.com/weaviate/cmfgraph/entities/cmf"
	"github.com/weaviate/cmfgraph/entities/mapping"
)

// element is the format-neutral parse result both front-ends produce. All
// graph-building decisions run on this tree, which is what guarantees the
// two formats convert to structurally identical graphs.
type element struct {
	qname    string
	id       string   // explicit identifier (structures:id / @id with content)
	ref      string   // document-local pointer (structures:ref / bare @id)
	uri      string   // URI-style entity pointer (structures:uri)
	nilled   bool     // explicit "reference, not content" marker
	metadata []string // metadata reference ids
	text     string
	attrs    map[string]string // non-structural attributes
	children []*element
}

func (e *element) local() string {
	return cmf.QName(e.qname).Local()
}

// isPointer reports whether the element is purely a reference to content
// defined elsewhere: it carries a ref id plus the explicit nil marker and no
// content of its own.
func (e *element) isPointer() bool {
	return e.ref != "" && e.nilled
}

// outcome is the closed set of things an element can become. One pure
// function produces it so the traversal stays auditable.
type outcome int

const (
	// outcomeAssociation matches a declared association element.
	outcomeAssociation outcome = iota
	// outcomeReference is a pure pointer, never a node.
	outcomeReference
	// outcomeNode becomes a graph node.
	outcomeNode
	// outcomeValue is scalar or extension content consumed by its nearest
	// node ancestor.
	outcomeValue
)

// decide runs the per-element decision sequence. Side-effect free.
func decide(e *element, spec *mapping.Spec) outcome {
	if _, ok := spec.AssociationFor(e.qname); ok {
		return outcomeAssociation
	}
	if e.isPointer() {
		return outcomeReference
	}
	if e.id != "" || e.uri != "" || len(e.metadata) > 0 {
		return outcomeNode
	}
	if _, ok := spec.ObjectFor(e.qname); ok {
		return outcomeNode
	}
	return outcomeValue
}
