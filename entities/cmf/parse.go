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

import (
	"encoding/xml"
	"strings"

	"github.com/pkg/errors"
)

// The attribute matching below is intentionally tolerant about namespaces:
// structures:id and structures:ref are matched by local name, which is how
// every CMF emitter we have seen in the wild qualifies them.

type xmlRef struct {
	Ref string `xml:"ref,attr"`
}

type xmlNamespace struct {
	ID     string `xml:"id,attr"`
	Prefix string `xml:"NamespacePrefixText"`
	URI    string `xml:"NamespaceURI"`
}

type xmlPropertyUse struct {
	ObjectProperty *xmlRef `xml:"ObjectProperty"`
	DataProperty   *xmlRef `xml:"DataProperty"`
	Property       *xmlRef `xml:"Property"`
	MinOccurs      string  `xml:"MinOccursQuantity"`
	MaxOccurs      string  `xml:"MaxOccursQuantity"`
}

func (u xmlPropertyUse) ref() string {
	switch {
	case u.ObjectProperty != nil:
		return u.ObjectProperty.Ref
	case u.DataProperty != nil:
		return u.DataProperty.Ref
	case u.Property != nil:
		return u.Property.Ref
	default:
		return ""
	}
}

type xmlClass struct {
	ID         string           `xml:"id,attr"`
	Name       string           `xml:"Name"`
	Namespace  *xmlRef          `xml:"Namespace"`
	SubClassOf *xmlRef          `xml:"SubClassOf"`
	Uses       []xmlPropertyUse `xml:"ChildPropertyAssociation"`
}

type xmlProperty struct {
	ID       string  `xml:"id,attr"`
	Name     string  `xml:"Name"`
	Class    *xmlRef `xml:"Class"`
	Datatype *xmlRef `xml:"Datatype"`
}

type xmlDatatype struct {
	ID   string           `xml:"id,attr"`
	Name string           `xml:"Name"`
	Uses []xmlPropertyUse `xml:"ChildPropertyAssociation"`
}

type xmlModel struct {
	XMLName    xml.Name       `xml:"Model"`
	Namespaces []xmlNamespace `xml:"Namespace"`
	Classes    []xmlClass     `xml:"Class"`
	ObjectProp []xmlProperty  `xml:"ObjectProperty"`
	DataProp   []xmlProperty  `xml:"DataProperty"`
	Datatypes  []xmlDatatype  `xml:"Datatype"`
}

// Parse reads a CMF schema document into a Model. The caller decides whether
// a failure is fatal; the compiler wraps any error returned here as an
// invalid-CMF compile error.
func Parse(content []byte) (*Model, error) {
	if len(content) == 0 {
		return nil, errors.New("empty CMF document")
	}

	var raw xmlModel
	if err := xml.Unmarshal(content, &raw); err != nil {
		return nil, errors.Wrap(err, "unmarshal CMF document")
	}

	if len(raw.Classes) == 0 && len(raw.Datatypes) == 0 {
		return nil, errors.New("CMF document declares no classes or datatypes")
	}

	m := &Model{
		Namespaces: map[string]string{},
		Classes:    map[ID]*Class{},
		Properties: map[ID]*Property{},
		Datatypes:  map[ID]*Datatype{},
	}

	prefixByID := map[string]string{}
	for _, ns := range raw.Namespaces {
		m.Namespaces[ns.Prefix] = ns.URI
		prefixByID[ns.ID] = ns.Prefix
	}

	// CMF component ids follow the "<nsID>.<Name>" pattern; the prefix half
	// doubles as the qname prefix when a Namespace ref is absent.
	qnameOf := func(id, name string) QName {
		if i := strings.IndexByte(id, '.'); i > 0 {
			if p, ok := prefixByID[id[:i]]; ok {
				return QName(p + ":" + name)
			}
			return QName(id[:i] + ":" + name)
		}
		return QName(name)
	}

	for _, c := range raw.Classes {
		if c.ID == "" || c.Name == "" {
			return nil, errors.Errorf("class %q missing id or Name", c.ID)
		}
		class := &Class{
			ID:    ID(c.ID),
			QName: qnameOf(c.ID, c.Name),
		}
		if c.Namespace != nil {
			class.Namespace = m.Namespaces[prefixByID[c.Namespace.Ref]]
		}
		if c.SubClassOf != nil {
			class.SubClassOf = ID(c.SubClassOf.Ref)
		}
		for _, u := range c.Uses {
			ref := u.ref()
			if ref == "" {
				return nil, errors.Errorf("class %s declares a child property without a ref", c.ID)
			}
			class.Properties = append(class.Properties, PropertyUse{
				Property:  ID(ref),
				MinOccurs: u.MinOccurs,
				MaxOccurs: u.MaxOccurs,
			})
		}
		m.Classes[class.ID] = class
		m.ClassOrder = append(m.ClassOrder, class.ID)
	}

	addProp := func(p xmlProperty, object bool) error {
		if p.ID == "" || p.Name == "" {
			return errors.Errorf("property %q missing id or Name", p.ID)
		}
		prop := &Property{
			ID:    ID(p.ID),
			QName: qnameOf(p.ID, p.Name),
		}
		if p.Class != nil {
			prop.ClassRef = ID(p.Class.Ref)
		}
		if p.Datatype != nil {
			prop.DatatypeRef = ID(p.Datatype.Ref)
		}
		if object && prop.ClassRef == "" {
			return errors.Errorf("object property %s has no Class ref", p.ID)
		}
		if !object && prop.DatatypeRef == "" {
			return errors.Errorf("data property %s has no Datatype ref", p.ID)
		}
		m.Properties[prop.ID] = prop
		m.PropertyOrder = append(m.PropertyOrder, prop.ID)
		return nil
	}

	for _, p := range raw.ObjectProp {
		if err := addProp(p, true); err != nil {
			return nil, err
		}
	}
	for _, p := range raw.DataProp {
		if err := addProp(p, false); err != nil {
			return nil, err
		}
	}

	for _, d := range raw.Datatypes {
		if d.ID == "" {
			return nil, errors.New("datatype missing id")
		}
		dt := &Datatype{
			ID:    ID(d.ID),
			QName: qnameOf(d.ID, d.Name),
		}
		for _, u := range d.Uses {
			if ref := u.ref(); ref != "" {
				dt.Children = append(dt.Children, ID(ref))
			}
		}
		m.Datatypes[dt.ID] = dt
	}

	return m, nil
}
