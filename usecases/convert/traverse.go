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
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spaolacci/murmur3"

	"github.com/weaviate/cmfgraph/entities/graph"
	entmapping "github.com/weaviate/cmfgraph/entities/mapping"
	"github.com/weaviate/cmfgraph/usecases/mapping"
)

// RepresentsRelType is the relationship type of role-to-entity edges.
const RepresentsRelType = "REPRESENTS"

// pendingEdge is an edge whose endpoints still reference document-local ids.
// All pointer-carrying edges are queued and resolved after the full
// traversal, so forward references work without order-dependent patching.
type pendingEdge struct {
	kind      graph.Kind
	relType   string
	sourceID  graph.NodeID
	sourceRef string
	targetID  graph.NodeID
	targetRef string
	// droppable edges are dropped with a DanglingReference warning when the
	// referenced id never gets defined; represents edges are kept and later
	// matched by id alone.
	droppable bool
	qname     string
}

type traversal struct {
	spec    *entmapping.Spec
	model   *graph.Model
	batchID string
	docIDs  map[string]graph.NodeID
	pending []pendingEdge
	logger  logrus.FieldLogger
}

func newTraversal(spec *entmapping.Spec, model *graph.Model, logger logrus.FieldLogger) *traversal {
	return &traversal{
		spec:    spec,
		model:   model,
		batchID: model.BatchID(),
		docIDs:  map[string]graph.NodeID{},
		logger:  logger,
	}
}

// run drives the two-pass conversion: build all nodes while queueing
// pointer-carrying edges, then resolve the queue against the completed id
// table and fill in deferred labels.
func (t *traversal) run(root *element) {
	for i, child := range root.children {
		t.walk(child, "", strconv.Itoa(i))
	}
	t.resolvePending()
	t.model.ResolveDeferredLabels()
}

// walk applies the per-element decision sequence and returns the node id the
// element produced, if any.
func (t *traversal) walk(el *element, parentID graph.NodeID, path string) graph.NodeID {
	switch decide(el, t.spec) {
	case outcomeAssociation:
		return t.walkAssociation(el, parentID, path)

	case outcomeReference:
		// a pure pointer never becomes a node; it only ties its ancestor to
		// the referenced id structurally
		if parentID != "" {
			t.pending = append(t.pending, pendingEdge{
				kind:      graph.KindContainment,
				relType:   mapping.RelationshipType(el.local()),
				sourceID:  parentID,
				targetRef: el.ref,
				droppable: true,
				qname:     el.qname,
			})
		}
		return ""

	case outcomeNode:
		return t.walkNode(el, parentID, path)

	default:
		return t.walkValue(el, parentID, path)
	}
}

// walkValue handles scalar and extension content. Declared value elements
// are consumed by scalar extraction on their node ancestor; undeclared ones
// are preserved as augmentations.
func (t *traversal) walkValue(el *element, parentID graph.NodeID, path string) graph.NodeID {
	if !t.spec.IsDeclared(el.qname) && parentID != "" && !containsDeclaredContent(el, t.spec) {
		if parent, ok := t.model.Node(parentID); ok {
			t.collectAugmentation(el, parent, el.local())
		}
		t.model.AddWarning(graph.Warning{
			Kind:   graph.WarningUnmappedElement,
			QName:  el.qname,
			Detail: "element not declared in schema, preserved as augmentation",
		})
		return ""
	}

	// declared scalar content is picked up by path extraction; undeclared
	// wrappers may still hide declared entities below them, so descend
	for i, c := range el.children {
		t.walk(c, parentID, path+"-"+strconv.Itoa(i))
	}
	return ""
}

// containsDeclaredContent reports whether any descendant is declared content
// or carries structural markers. Subtrees without any become augmentations
// on the nearest node ancestor.
func containsDeclaredContent(el *element, spec *entmapping.Spec) bool {
	for _, c := range el.children {
		if spec.IsDeclared(c.qname) || c.id != "" || c.ref != "" ||
			c.uri != "" || len(c.metadata) > 0 {
			return true
		}
		if containsDeclaredContent(c, spec) {
			return true
		}
	}
	return false
}

// walkNode creates a node for the element, then recurses and wires up
// containment and declared reference edges.
func (t *traversal) walkNode(el *element, parentID graph.NodeID, path string) graph.NodeID {
	obj, mapped := t.spec.ObjectFor(el.qname)

	label := mapping.Label(el.qname)
	if mapped {
		label = obj.Label
	} else {
		kind := graph.WarningUnmappedElement
		if t.spec.IsDeclared(el.qname) {
			kind = graph.WarningUnresolvedMapping
		}
		t.model.AddWarning(graph.Warning{
			Kind:   kind,
			QName:  el.qname,
			Detail: "no object mapping compiled for this element, using local name as label",
		})
	}

	nodeID := t.resolveNodeID(el, parentID, path)

	node := &graph.Node{
		ID:            nodeID,
		Label:         label,
		QName:         el.qname,
		Props:         map[string]interface{}{},
		Augmentations: map[string]interface{}{},
	}
	if mapped {
		t.extractScalars(el, obj, node)
	}
	for k, v := range el.attrs {
		node.Augmentations[k] = v
	}
	node = t.model.AddNode(node)

	if parentID != "" {
		t.model.AddEdge(&graph.Edge{
			Kind:     graph.KindContainment,
			SourceID: parentID,
			TargetID: nodeID,
			RelType:  mapping.RelationshipType(el.local()),
		})
	}

	produced := make([]graph.NodeID, len(el.children))
	for i, c := range el.children {
		produced[i] = t.walk(c, nodeID, path+"-"+strconv.Itoa(i))
	}

	for _, ref := range t.spec.ReferencesFrom(el.qname) {
		for i, c := range el.children {
			if c.qname != ref.FieldQName {
				continue
			}
			switch {
			case c.ref != "":
				t.pending = append(t.pending, pendingEdge{
					kind:      graph.KindReference,
					relType:   ref.RelType,
					sourceID:  nodeID,
					targetRef: c.ref,
					droppable: true,
					qname:     el.qname,
				})
			case produced[i] != "":
				t.model.AddEdge(&graph.Edge{
					Kind:     graph.KindReference,
					SourceID: nodeID,
					TargetID: produced[i],
					RelType:  ref.RelType,
				})
			}
		}
	}

	return nodeID
}

// walkAssociation matches declared endpoint roles among the immediate
// children and emits one edge between the first two resolved endpoints. An
// extra association node exists only when the element carries an explicit
// identifier or metadata references; otherwise the association degenerates
// to an edge.
func (t *traversal) walkAssociation(el *element, parentID graph.NodeID, path string) graph.NodeID {
	assoc, _ := t.spec.AssociationFor(el.qname)

	var assocNodeID graph.NodeID
	if el.id != "" || len(el.metadata) > 0 {
		assocNodeID = t.resolveNodeID(el, parentID, path)
		node := &graph.Node{
			ID:            assocNodeID,
			Label:         assoc.Label,
			QName:         el.qname,
			Props:         map[string]interface{}{},
			Augmentations: map[string]interface{}{},
		}
		for k, v := range el.attrs {
			node.Augmentations[k] = v
		}
		t.model.AddNode(node)

		if parentID != "" {
			t.model.AddEdge(&graph.Edge{
				Kind:     graph.KindContainment,
				SourceID: parentID,
				TargetID: assocNodeID,
				RelType:  mapping.RelationshipType(el.local()),
			})
		}
	}

	// inline endpoint definitions still need their nodes; pointers don't
	recurseParent := parentID
	if assocNodeID != "" {
		recurseParent = assocNodeID
	}
	produced := make([]graph.NodeID, len(el.children))
	for i, c := range el.children {
		if c.isPointer() {
			continue
		}
		produced[i] = t.walk(c, recurseParent, path+"-"+strconv.Itoa(i))
	}

	type endpoint struct {
		raw      string
		resolved graph.NodeID
		role     string
	}
	var resolved []endpoint
	for _, ep := range assoc.Endpoints {
		for i, c := range el.children {
			if c.qname != ep.RoleQName {
				continue
			}
			switch {
			case c.ref != "":
				resolved = append(resolved, endpoint{raw: c.ref, role: ep.RoleQName})
			case produced[i] != "":
				resolved = append(resolved, endpoint{resolved: produced[i], role: ep.RoleQName})
			default:
				continue
			}
			break
		}
	}

	if len(resolved) >= 2 {
		t.pending = append(t.pending, pendingEdge{
			kind:      graph.KindAssociation,
			relType:   assoc.RelType,
			sourceID:  resolved[0].resolved,
			sourceRef: resolved[0].raw,
			targetID:  resolved[1].resolved,
			targetRef: resolved[1].raw,
			droppable: true,
			qname:     el.qname,
		})
	} else {
		t.model.AddWarning(graph.Warning{
			Kind:   graph.WarningDanglingReference,
			QName:  el.qname,
			Detail: fmt.Sprintf("association resolved %d of %d endpoints", len(resolved), len(assoc.Endpoints)),
		})
	}

	if assocNodeID != "" {
		for _, ep := range resolved {
			t.pending = append(t.pending, pendingEdge{
				kind:      graph.KindAssociation,
				relType:   mapping.RelationshipType(ep.role),
				sourceID:  assocNodeID,
				sourceRef: "",
				targetID:  ep.resolved,
				targetRef: ep.raw,
				droppable: true,
				qname:     el.qname,
			})
		}
	}

	return assocNodeID
}

// resolveNodeID implements the id resolution order: explicit identifier,
// URI-style role pointer, deterministic synthetic id.
func (t *traversal) resolveNodeID(el *element, parentID graph.NodeID, path string) graph.NodeID {
	switch {
	case el.id != "":
		id := t.scoped(el.id)
		if _, ok := t.docIDs[el.id]; !ok {
			t.docIDs[el.id] = id
		}
		return id

	case el.uri != "":
		// the element is a role: mint a synthetic id of its own and defer
		// the represents edge; the referenced entity's type is unknown here
		id := t.scoped("role-" + t.syntheticSuffix(parentID, el.qname, path))
		t.pending = append(t.pending, pendingEdge{
			kind:      graph.KindRepresents,
			relType:   RepresentsRelType,
			sourceID:  id,
			targetRef: refFromURI(el.uri),
			droppable: false,
			qname:     el.qname,
		})
		return id

	default:
		return t.scoped(t.syntheticSuffix(parentID, el.qname, path))
	}
}

// scoped prefixes a document-local id with the batch identity, which is what
// keeps node ids unique per ingestion batch.
func (t *traversal) scoped(local string) graph.NodeID {
	return graph.NodeID(t.batchID + ":" + local)
}

// syntheticSuffix derives a reproducible id from the structural position, so
// re-running conversion on identical input yields identical ids.
func (t *traversal) syntheticSuffix(parentID graph.NodeID, qname, path string) string {
	h := murmur3.New64()
	h.Write([]byte(parentID))
	h.Write([]byte{0})
	h.Write([]byte(qname))
	h.Write([]byte{0})
	h.Write([]byte(path))
	return fmt.Sprintf("n%016x", h.Sum64())
}

func (t *traversal) extractScalars(el *element, obj *entmapping.Object, node *graph.Node) {
	for _, sp := range obj.ScalarProps {
		if v, ok := lookupPath(el, sp.Segments); ok {
			node.Props[sp.Key] = v
		}
	}
}

func lookupPath(el *element, segments []string) (string, bool) {
	cur := el
	for _, seg := range segments {
		var next *element
		for _, c := range cur.children {
			if c.qname == seg {
				next = c
				break
			}
		}
		if next == nil {
			return "", false
		}
		cur = next
	}
	if cur.text == "" {
		return "", false
	}
	return cur.text, true
}

// collectAugmentation preserves an undeclared subtree on the nearest node
// ancestor, one entry per leaf, keyed by the collapsed path.
func (t *traversal) collectAugmentation(el *element, node *graph.Node, key string) {
	if el.text != "" && len(el.children) == 0 {
		if _, ok := node.Augmentations[key]; !ok {
			node.Augmentations[key] = el.text
		}
	}
	for k, v := range el.attrs {
		attrKey := key + "_" + k
		if _, ok := node.Augmentations[attrKey]; !ok {
			node.Augmentations[attrKey] = v
		}
	}
	for _, c := range el.children {
		t.collectAugmentation(c, node, key+"_"+c.local())
	}
}

// resolvePending is the deferred pass: document-local refs are matched
// against the completed id table; unresolvable droppable edges are dropped
// with a warning, represents edges are kept and matched by id alone.
func (t *traversal) resolvePending() {
	for _, p := range t.pending {
		source := p.sourceID
		if p.sourceRef != "" {
			id, ok := t.docIDs[p.sourceRef]
			if !ok {
				t.warnDangling(p.qname, p.sourceRef)
				continue
			}
			source = id
		}

		target := p.targetID
		if p.targetRef != "" {
			if id, ok := t.docIDs[p.targetRef]; ok {
				target = id
			} else if p.droppable {
				t.warnDangling(p.qname, p.targetRef)
				continue
			} else {
				target = t.scoped(p.targetRef)
			}
		}

		t.model.AddEdge(&graph.Edge{
			Kind:     p.kind,
			RelType:  p.relType,
			SourceID: source,
			TargetID: target,
		})
	}
	t.pending = nil
}

func (t *traversal) warnDangling(qname, ref string) {
	t.model.AddWarning(graph.Warning{
		Kind:   graph.WarningDanglingReference,
		QName:  qname,
		Detail: fmt.Sprintf("identifier %q is never defined in this document, edge dropped", ref),
	})
	t.logger.WithFields(logrus.Fields{
		"action": "convert_document",
		"qname":  qname,
		"ref":    ref,
	}).Warn("dangling reference")
}

// refFromURI extracts the document-local id from a URI pointer. Fragment
// pointers reference ids in the same document; absolute URIs are hashed into
// a stable id so two roles denoting the same entity share a target.
func refFromURI(uri string) string {
	if strings.HasPrefix(uri, "#") {
		return uri[1:]
	}
	return fmt.Sprintf("uri-%016x", murmur3.Sum64([]byte(uri)))
}
