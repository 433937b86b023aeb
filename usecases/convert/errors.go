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

import "fmt"

// ErrParse means a document could not be parsed at all. Fatal to that
// document only; other documents in a batch proceed.
type ErrParse struct {
	Document string
	Err      error
}

func (e ErrParse) Error() string {
	return fmt.Sprintf("parse document %q: %v", e.Document, e.Err)
}

func (e ErrParse) Unwrap() error {
	return e.Err
}
