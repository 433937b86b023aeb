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

import "github.com/weaviate/cmfgraph/entities/cmf"

// Classify labels a declared datatype by its child property count. Pure and
// side-effect free: 0 children is a restricted base type (SIMPLE), exactly
// one child is a transparent WRAPPER, two or more is COMPLEX.
func Classify(dt *cmf.Datatype) cmf.Classification {
	switch len(dt.Children) {
	case 0:
		return cmf.ClassificationSimple
	case 1:
		return cmf.ClassificationWrapper
	default:
		return cmf.ClassificationComplex
	}
}

// ClassifyRef resolves the datatype behind a ref and classifies it. A ref
// absent from the datatype index is reported, not a crash.
func ClassifyRef(model *cmf.Model, owner cmf.QName, ref cmf.ID) (cmf.Classification, *cmf.Datatype, error) {
	dt, ok := model.Datatypes[ref]
	if !ok {
		return "", nil, ErrUnknownDatatypeRef{QName: owner.String(), Ref: ref.String()}
	}
	return Classify(dt), dt, nil
}
