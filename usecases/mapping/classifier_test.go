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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/cmfgraph/entities/cmf"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		children int
		expected cmf.Classification
	}{
		{"no children is a restricted base type", 0, cmf.ClassificationSimple},
		{"one child unwraps transparently", 1, cmf.ClassificationWrapper},
		{"two children", 2, cmf.ClassificationComplex},
		{"many children", 5, cmf.ClassificationComplex},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dt := &cmf.Datatype{ID: "x.T", QName: "x:T"}
			for i := 0; i < tc.children; i++ {
				dt.Children = append(dt.Children, cmf.ID("x.child"))
			}
			assert.Equal(t, tc.expected, Classify(dt))
		})
	}
}

func TestClassifyRefUnknownDatatype(t *testing.T) {
	model := &cmf.Model{Datatypes: map[cmf.ID]*cmf.Datatype{}}

	_, _, err := ClassifyRef(model, "nc:PersonName", "xs.missing")
	require.NotNil(t, err)

	var unknownErr ErrUnknownDatatypeRef
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "nc:PersonName", unknownErr.QName)
	assert.Equal(t, "xs.missing", unknownErr.Ref)
}
