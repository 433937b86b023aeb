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

import "context"

// CMFConverter is the external tool that turns a raw schema definition into
// CMF text. It is invoked synchronously by the orchestrator; the engine only
// consumes its output. Implementations live outside this repository.
type CMFConverter interface {
	// ToCMF converts a raw schema to CMF text, or returns the tool's error
	// output as an error.
	ToCMF(ctx context.Context, rawSchema []byte) ([]byte, error)
}
