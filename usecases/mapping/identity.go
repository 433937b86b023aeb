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
	"fmt"

	"github.com/spaolacci/murmur3"
)

// SchemaIdentity derives the identity key a compiled spec is stored under.
// Content-hashed, so the same schema text always maps to the same identity.
func SchemaIdentity(cmfContent []byte) string {
	return fmt.Sprintf("%016x", murmur3.Sum64(cmfContent))
}
