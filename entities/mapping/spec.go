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

// Package mapping contains the compiled transformation specification. A Spec
// is produced once per schema version, is read-only afterwards and is safe to
// share across any number of concurrent conversions.
package mapping

// Direction marks an association endpoint's position.
type Direction string

const (
	DirectionSource Direction = "source"
	DirectionTarget Direction = "target"
)

// ScalarPath is one flattened scalar extraction rule: Segments is the chain
// of child qnames to follow from the owning element, Key is the collapsed
// flat identifier the value is stored under, LeafQName is the data property
// at the end of the chain.
type ScalarPath struct {
	Segments  []string `json:"segments" msgpack:"segments"`
	Key       string   `json:"key" msgpack:"key"`
	LeafQName string   `json:"leafQName" msgpack:"leafQName"`
}

// Object describes how a declared element becomes a graph node.
type Object struct {
	QName       string       `json:"qname" msgpack:"qname"`
	Label       string       `json:"label" msgpack:"label"`
	ScalarProps []ScalarPath `json:"scalarProps" msgpack:"scalarProps"`
}

// Endpoint is one ordered association participant.
type Endpoint struct {
	RoleQName   string    `json:"roleQName" msgpack:"roleQName"`
	TargetLabel string    `json:"targetLabel" msgpack:"targetLabel"`
	Direction   Direction `json:"direction" msgpack:"direction"`
}

// Association describes an n-ary relationship class. The first endpoint is
// the edge source, all remaining endpoints are targets.
type Association struct {
	QName     string     `json:"qname" msgpack:"qname"`
	Label     string     `json:"label" msgpack:"label"`
	RelType   string     `json:"relType" msgpack:"relType"`
	Endpoints []Endpoint `json:"endpoints" msgpack:"endpoints"`
}

// Reference describes an object-valued child property of a non-association
// class, i.e. a declared semantic relationship independent of nesting.
type Reference struct {
	OwnerQName  string `json:"ownerQName" msgpack:"ownerQName"`
	FieldQName  string `json:"fieldQName" msgpack:"fieldQName"`
	TargetLabel string `json:"targetLabel" msgpack:"targetLabel"`
	RelType     string `json:"relType" msgpack:"relType"`
}

// Spec is the compiled artifact the converters run on.
type Spec struct {
	SchemaID     string            `json:"schemaID" msgpack:"schemaID"`
	Namespaces   map[string]string `json:"namespaces" msgpack:"namespaces"`
	Objects      []Object          `json:"objects" msgpack:"objects"`
	Associations []Association     `json:"associations" msgpack:"associations"`
	References   []Reference       `json:"references" msgpack:"references"`
	ElementIndex map[string]bool   `json:"elementIndex" msgpack:"elementIndex"`

	objectsByQName      map[string]*Object
	associationsByQName map[string]*Association
	referencesByOwner   map[string][]Reference
}

// Reindex builds the lookup tables. Must be called once after compilation or
// decoding, before the spec is shared; lookups themselves never mutate.
func (s *Spec) Reindex() {
	s.objectsByQName = make(map[string]*Object, len(s.Objects))
	for i := range s.Objects {
		s.objectsByQName[s.Objects[i].QName] = &s.Objects[i]
	}
	s.associationsByQName = make(map[string]*Association, len(s.Associations))
	for i := range s.Associations {
		s.associationsByQName[s.Associations[i].QName] = &s.Associations[i]
	}
	s.referencesByOwner = make(map[string][]Reference, len(s.References))
	for _, r := range s.References {
		s.referencesByOwner[r.OwnerQName] = append(s.referencesByOwner[r.OwnerQName], r)
	}
}

// ObjectFor returns the object mapping for an element qname.
func (s *Spec) ObjectFor(qname string) (*Object, bool) {
	if s.objectsByQName != nil {
		o, ok := s.objectsByQName[qname]
		return o, ok
	}
	for i := range s.Objects {
		if s.Objects[i].QName == qname {
			return &s.Objects[i], true
		}
	}
	return nil, false
}

// AssociationFor returns the association mapping for an element qname.
func (s *Spec) AssociationFor(qname string) (*Association, bool) {
	if s.associationsByQName != nil {
		a, ok := s.associationsByQName[qname]
		return a, ok
	}
	for i := range s.Associations {
		if s.Associations[i].QName == qname {
			return &s.Associations[i], true
		}
	}
	return nil, false
}

// ReferencesFrom returns every declared reference owned by an element qname.
func (s *Spec) ReferencesFrom(qname string) []Reference {
	if s.referencesByOwner != nil {
		return s.referencesByOwner[qname]
	}
	var out []Reference
	for _, r := range s.References {
		if r.OwnerQName == qname {
			out = append(out, r)
		}
	}
	return out
}

// IsDeclared reports whether a qname is part of the compiled schema. Content
// outside the index is treated as augmentation by the converters.
func (s *Spec) IsDeclared(qname string) bool {
	return s.ElementIndex[qname]
}
