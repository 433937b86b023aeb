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

package cmf

import "strings"

// Newtype to denote that this string is a component id inside one CMF model
// (the value of a structures:id attribute).
type ID string

func (i ID) String() string {
	return string(i)
}

// QName is a prefixed qualified name, e.g. "nc:PersonType".
type QName string

func (q QName) String() string {
	return string(q)
}

// Local returns the part after the prefix, or the whole name if unprefixed.
func (q QName) Local() string {
	if i := strings.IndexByte(string(q), ':'); i >= 0 {
		return string(q)[i+1:]
	}
	return string(q)
}

// Prefix returns the namespace prefix, or "" if unprefixed.
func (q QName) Prefix() string {
	if i := strings.IndexByte(string(q), ':'); i >= 0 {
		return string(q)[:i]
	}
	return ""
}

// Classification labels a datatype by the shape of its declared children.
type Classification string

const (
	// ClassificationSimple is a restricted base type with no child properties.
	ClassificationSimple Classification = "SIMPLE"
	// ClassificationWrapper declares exactly one child property and is
	// transparently unwrapped during flattening.
	ClassificationWrapper Classification = "WRAPPER"
	// ClassificationComplex declares two or more child properties.
	ClassificationComplex Classification = "COMPLEX"
)

// AssociationTypeName is the local name of the base class that marks a class
// (and every class derived from it) as an association.
const AssociationTypeName = "AssociationType"

// Model is the parsed CMF schema representation. It only lives for the
// duration of one compile and is discarded once a mapping spec exists.
type Model struct {
	Namespaces map[string]string // prefix -> uri

	Classes    map[ID]*Class
	Properties map[ID]*Property
	Datatypes  map[ID]*Datatype

	// Element declarations (object- and data-valued) in document order, so
	// compilation output is deterministic.
	PropertyOrder []ID
	ClassOrder    []ID
}

// Class is a complex type declaration, possibly derived from another class.
type Class struct {
	ID         ID
	QName      QName
	Namespace  string
	SubClassOf ID // empty when the class has no declared parent
	Properties []PropertyUse
}

// PropertyUse is one ordered child property declaration on a class.
type PropertyUse struct {
	Property  ID
	MinOccurs string
	MaxOccurs string
}

// Property is an element declaration. Exactly one of ClassRef and
// DatatypeRef is set: object-valued properties point at a class,
// data-valued properties at a datatype.
type Property struct {
	ID          ID
	QName       QName
	ClassRef    ID
	DatatypeRef ID
}

// IsObjectValued reports whether the property targets a class.
func (p *Property) IsObjectValued() bool {
	return p.ClassRef != ""
}

// Datatype is a value type declaration. Child properties determine its
// classification.
type Datatype struct {
	ID       ID
	QName    QName
	Children []ID
}

// IsAssociation walks the SubClassOf chain and reports whether it reaches
// the association base type.
func (m *Model) IsAssociation(classID ID) bool {
	seen := map[ID]bool{}
	for id := classID; id != "" && !seen[id]; {
		seen[id] = true
		class, ok := m.Classes[id]
		if !ok {
			return false
		}
		if class.QName.Local() == AssociationTypeName {
			return true
		}
		id = class.SubClassOf
	}
	return false
}

// ClassFor resolves the class an element declaration points at, if any.
func (m *Model) ClassFor(p *Property) (*Class, bool) {
	if p == nil || p.ClassRef == "" {
		return nil, false
	}
	c, ok := m.Classes[p.ClassRef]
	return c, ok
}
