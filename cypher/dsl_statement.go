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

// Package cypher builds idempotent upsert statements as plain strings. It is
// a write-only DSL: the engine emits statements, an external executor runs
// them.
package cypher

import (
	"fmt"
	"sort"
	"strings"
)

// A Statement represents one (partial) write statement built with the DSL.
type Statement struct {
	statement string
}

// Return the string representation of this Statement.
func (s *Statement) String() string {
	return s.statement
}

// RawStatement wraps an already rendered statement string.
func RawStatement(statement string) *Statement {
	return &Statement{statement: statement}
}

// MergeNode starts an idempotent node upsert, matched by id so re-running it
// can never create a second copy.
func MergeNode(label string, id string) *Statement {
	return &Statement{statement: fmt.Sprintf(`MERGE (n:%s {_id: "%s"})`,
		EscapeIdentifier(label), EscapeString(id))}
}

// OnCreateSet appends properties that are only written when the MERGE
// created the node, never on a later match. Keys are rendered in sorted
// order so output is reproducible.
func (s *Statement) OnCreateSet(props map[string]interface{}) *Statement {
	if len(props) == 0 {
		return s
	}
	return extendStatement(s, " ON CREATE SET n += %s", renderMap(props))
}

// MatchNodes starts an edge upsert by matching both endpoints by id. Either
// label may be empty, in which case the endpoint is matched by id alone.
func MatchNodes(sourceLabel, sourceID, targetLabel, targetID string) *Statement {
	return &Statement{statement: fmt.Sprintf("MATCH (a%s {_id: \"%s\"}) MATCH (b%s {_id: \"%s\"})",
		labelClause(sourceLabel), EscapeString(sourceID),
		labelClause(targetLabel), EscapeString(targetID))}
}

// MergeRelationship appends the idempotent relationship upsert between the
// two matched endpoints.
func (s *Statement) MergeRelationship(relType string) *Statement {
	return extendStatement(s, " MERGE (a)-[r:%s]->(b)", EscapeIdentifier(relType))
}

// OnCreateSetRel appends relationship properties set only on first creation.
func (s *Statement) OnCreateSetRel(props map[string]interface{}) *Statement {
	if len(props) == 0 {
		return s
	}
	return extendStatement(s, " ON CREATE SET r += %s", renderMap(props))
}

func labelClause(label string) string {
	if label == "" {
		return ""
	}
	return ":" + EscapeIdentifier(label)
}

func renderMap(props map[string]interface{}) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", EscapeIdentifier(k), renderValue(props[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func renderValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf(`"%s"`, EscapeString(val))
	case bool:
		return fmt.Sprintf("%v", val)
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float64:
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf(`"%s"`, EscapeString(fmt.Sprintf("%v", val)))
	}
}

func extendStatement(s *Statement, format string, vals ...interface{}) *Statement {
	r := Statement{statement: s.statement + fmt.Sprintf(format, vals...)}
	return &r
}
