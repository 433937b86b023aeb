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

package cypher

import "strings"

// EscapeString escapes a value so it can be interpolated into a statement
// without breaking out of its surrounding quotes.
func EscapeString(str string) string {
	s := strings.Replace(str, `\`, `\\`, -1)
	s = strings.Replace(s, `"`, `\"`, -1)
	return s
}

// EscapeIdentifier strips everything that is not legal in a label,
// relationship type or property key. Identifiers come out of qname
// transliteration, so in practice this only guards against malformed input.
func EscapeIdentifier(str string) string {
	var b strings.Builder
	for _, r := range str {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
