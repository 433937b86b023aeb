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
	"strings"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// parseJSON reads a JSON instance document into the neutral element tree.
// Member names are prefixed qnames; "@id" carries the identifier, an object
// whose only member is "@id" is a pure pointer (the JSON equivalent of
// structures:ref plus xsi:nil).
func parseJSON(content []byte) (*element, error) {
	root := &element{attrs: map[string]string{}}
	if err := parseJSONObject(content, root); err != nil {
		return nil, errors.Wrap(err, "malformed JSON")
	}
	if len(root.children) == 0 {
		return nil, errors.New("document has no content members")
	}
	return root, nil
}

func parseJSONObject(data []byte, el *element) error {
	members := 0

	err := jsonparser.ObjectEach(data, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		members++
		name := string(key)

		switch name {
		case "@context":
			members-- // namespace bindings, not content
			return nil

		case "@id":
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return errors.Wrap(err, "@id")
			}
			el.id = s
			return nil

		case "structures:uri":
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return errors.Wrap(err, "structures:uri")
			}
			el.uri = s
			return nil

		case "structures:metadata", "structures:relationshipMetadata":
			return appendMetadataRefs(el, value, dt)

		case "rdf:value", "@value":
			s, err := scalarText(value, dt)
			if err != nil {
				return err
			}
			el.text = s
			return nil
		}

		switch dt {
		case jsonparser.Object:
			child := &element{qname: name, attrs: map[string]string{}}
			if err := parseJSONObject(value, child); err != nil {
				return err
			}
			el.children = append(el.children, child)

		case jsonparser.Array:
			var inner error
			if _, err := jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, _ error) {
				if inner != nil {
					return
				}
				if itemType == jsonparser.Object {
					child := &element{qname: name, attrs: map[string]string{}}
					if err := parseJSONObject(item, child); err != nil {
						inner = err
						return
					}
					el.children = append(el.children, child)
					return
				}
				s, err := scalarText(item, itemType)
				if err != nil {
					inner = err
					return
				}
				el.children = append(el.children, &element{
					qname: name, text: s, attrs: map[string]string{},
				})
			}); err != nil {
				return err
			}
			return inner

		case jsonparser.Null:
			// an explicitly nil member carries no content

		default:
			s, err := scalarText(value, dt)
			if err != nil {
				return err
			}
			el.children = append(el.children, &element{
				qname: name, text: s, attrs: map[string]string{},
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	// an object with "@id" as its only member points at content defined
	// elsewhere; it mirrors structures:ref + xsi:nil exactly
	if el.id != "" && members == 1 {
		el.ref = el.id
		el.id = ""
		el.nilled = true
	}
	return nil
}

func appendMetadataRefs(el *element, value []byte, dt jsonparser.ValueType) error {
	switch dt {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return errors.Wrap(err, "metadata ref")
		}
		el.metadata = append(el.metadata, strings.Fields(s)...)
		return nil

	case jsonparser.Array:
		var inner error
		if _, err := jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, _ error) {
			if inner != nil || itemType != jsonparser.String {
				return
			}
			s, err := jsonparser.ParseString(item)
			if err != nil {
				inner = err
				return
			}
			el.metadata = append(el.metadata, s)
		}); err != nil {
			return err
		}
		return inner

	default:
		return errors.New("metadata refs must be a string or array of strings")
	}
}

func scalarText(value []byte, dt jsonparser.ValueType) (string, error) {
	if dt == jsonparser.String {
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return "", errors.Wrap(err, "string value")
		}
		return s, nil
	}
	return string(value), nil
}
