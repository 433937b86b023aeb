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

	"github.com/fatih/camelcase"

	"github.com/weaviate/cmfgraph/entities/cmf"
)

// RelationshipType transliterates an element qname into an upper-snake-case
// relationship type: "j:PersonDrivesVehicle" becomes
// "PERSON_DRIVES_VEHICLE".
func RelationshipType(qname string) string {
	local := cmf.QName(qname).Local()
	words := camelcase.Split(local)

	parts := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || w == "_" || w == "-" {
			continue
		}
		parts = append(parts, strings.ToUpper(w))
	}
	if len(parts) == 0 {
		return strings.ToUpper(local)
	}
	return strings.Join(parts, "_")
}

// Label derives a node label from an element qname. Labels are plain local
// names; the prefixed qname stays available as a node property.
func Label(qname string) string {
	return cmf.QName(qname).Local()
}

// FlatKey collapses a scalar path into a single flat identifier by
// substituting the separators. Distinct paths must yield distinct keys; the
// compiler rejects collisions.
func FlatKey(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, cmf.QName(s).Local())
	}
	return strings.Join(parts, "_")
}
