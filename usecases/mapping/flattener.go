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

package mapping

import (
	"strings"

	"github.com/weaviate/cmfgraph/entities/cmf"
	"github.com/weaviate/cmfgraph/entities/mapping"
)

// DefaultMaxDepth bounds the flattening recursion. Real schemas stay far
// below this; the bound exists so a self-referential datatype fails loudly
// instead of spinning.
const DefaultMaxDepth = 10

type flattener struct {
	model    *cmf.Model
	maxDepth int
}

// flatten expands one data property declaration into its flat scalar paths.
// SIMPLE emits one leaf, WRAPPER transparently unwraps into its single
// child, COMPLEX fans out into every child.
func (f *flattener) flatten(prop *cmf.Property, prefix []string, depth int) ([]mapping.ScalarPath, error) {
	if prop.IsObjectValued() {
		// object-valued children become references, never scalar paths
		return nil, nil
	}

	if depth > f.maxDepth {
		return nil, ErrMappingDepthExceeded{
			QName: prop.QName.String(),
			Path:  strings.Join(prefix, "/"),
			Depth: f.maxDepth,
		}
	}

	classification, dt, err := ClassifyRef(f.model, prop.QName, prop.DatatypeRef)
	if err != nil {
		return nil, err
	}

	path := append(append([]string{}, prefix...), prop.QName.String())

	switch classification {
	case cmf.ClassificationSimple:
		return []mapping.ScalarPath{{
			Segments:  path,
			Key:       FlatKey(path),
			LeafQName: prop.QName.String(),
		}}, nil

	case cmf.ClassificationWrapper:
		child, ok := f.model.Properties[dt.Children[0]]
		if !ok {
			return nil, ErrUnknownDatatypeRef{QName: prop.QName.String(), Ref: dt.Children[0].String()}
		}
		return f.flatten(child, path, depth+1)

	default: // COMPLEX
		var out []mapping.ScalarPath
		for _, childID := range dt.Children {
			child, ok := f.model.Properties[childID]
			if !ok {
				return nil, ErrUnknownDatatypeRef{QName: prop.QName.String(), Ref: childID.String()}
			}
			entries, err := f.flatten(child, path, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return out, nil
	}
}
