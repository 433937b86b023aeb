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

import "fmt"

// ErrInvalidCMF means the schema representation itself is unusable. Fatal to
// the compile.
type ErrInvalidCMF struct {
	Detail string
	Err    error
}

func (e ErrInvalidCMF) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid CMF: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("invalid CMF: %s", e.Detail)
}

func (e ErrInvalidCMF) Unwrap() error {
	return e.Err
}

// NewErrInvalidCMF wraps a cause with a description of what was malformed.
func NewErrInvalidCMF(err error, format string, args ...interface{}) ErrInvalidCMF {
	return ErrInvalidCMF{Detail: fmt.Sprintf(format, args...), Err: err}
}

// ErrUnknownDatatypeRef means a property points at a datatype id the model
// never declares.
type ErrUnknownDatatypeRef struct {
	QName string
	Ref   string
}

func (e ErrUnknownDatatypeRef) Error() string {
	return fmt.Sprintf("property %s references unknown datatype %q", e.QName, e.Ref)
}

// ErrMappingConflict means two distinct property paths collapse to the same
// flat key. Never silently merged.
type ErrMappingConflict struct {
	QName string
	Key   string
	PathA string
	PathB string
}

func (e ErrMappingConflict) Error() string {
	return fmt.Sprintf("object %s: paths %q and %q both collapse to key %q",
		e.QName, e.PathA, e.PathB, e.Key)
}

// ErrMappingDepthExceeded guards against self-referential schema cycles
// during flattening.
type ErrMappingDepthExceeded struct {
	QName string
	Path  string
	Depth int
}

func (e ErrMappingDepthExceeded) Error() string {
	return fmt.Sprintf("flattening %s exceeded depth %d at %s (schema cycle?)",
		e.QName, e.Depth, e.Path)
}
