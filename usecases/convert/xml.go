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
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// parseXML reads an instance document into the neutral element tree.
// Structural markers (structures:id/ref/uri/metadata, xsi:nil) are matched
// by attribute local name; namespace prefixes are tracked from xmlns
// declarations so qnames come out in prefixed form.
func parseXML(content []byte) (*element, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	root := &element{attrs: map[string]string{}}
	stack := []*element{root}
	prefixes := map[string]string{} // namespace uri -> prefix

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "malformed XML")
		}

		switch tk := tok.(type) {
		case xml.StartElement:
			el := &element{attrs: map[string]string{}}
			for _, a := range tk.Attr {
				switch {
				case a.Name.Space == "xmlns":
					prefixes[a.Value] = a.Name.Local
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					prefixes[a.Value] = ""
				case a.Name.Local == "id":
					el.id = a.Value
				case a.Name.Local == "ref":
					el.ref = a.Value
				case a.Name.Local == "uri":
					el.uri = a.Value
				case a.Name.Local == "metadata" || a.Name.Local == "relationshipMetadata":
					el.metadata = append(el.metadata, strings.Fields(a.Value)...)
				case a.Name.Local == "nil":
					el.nilled = a.Value == "true" || a.Value == "1"
				default:
					el.attrs[a.Name.Local] = a.Value
				}
			}
			el.qname = prefixedName(prefixes, tk.Name)

			parent := stack[len(stack)-1]
			parent.children = append(parent.children, el)
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if s := strings.TrimSpace(string(tk)); s != "" {
				stack[len(stack)-1].text += s
			}
		}
	}

	if len(root.children) == 0 {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

func prefixedName(prefixes map[string]string, name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	if prefix, ok := prefixes[name.Space]; ok && prefix != "" {
		return prefix + ":" + name.Local
	}
	return name.Local
}
