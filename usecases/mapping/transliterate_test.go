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
)

func TestRelationshipType(t *testing.T) {
	tests := []struct {
		qname    string
		expected string
	}{
		{"j:PersonDrivesVehicle", "PERSON_DRIVES_VEHICLE"},
		{"nc:VehicleOwner", "VEHICLE_OWNER"},
		{"nc:Person", "PERSON"},
		{"PersonName", "PERSON_NAME"},
		{"nc:VehicleID", "VEHICLE_ID"},
		{"nc:lowercase", "LOWERCASE"},
	}
	for _, test := range tests {
		t.Run(test.qname, func(t *testing.T) {
			assert.Equal(t, test.expected, RelationshipType(test.qname))
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Person", Label("nc:Person"))
	assert.Equal(t, "Person", Label("Person"))
}

func TestFlatKey(t *testing.T) {
	assert.Equal(t, "PersonName_PersonGivenName",
		FlatKey([]string{"nc:PersonName", "nc:PersonGivenName"}))
	assert.Equal(t, "VehicleID", FlatKey([]string{"nc:VehicleID"}))
	assert.Equal(t, "", FlatKey(nil))
}
