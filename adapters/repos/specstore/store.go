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

// Package specstore persists compiled mapping specs as versioned blobs keyed
// by schema identity. The in-memory implementation here is what the test
// suite and single-process deployments use; durable backends implement the
// same Repo interface outside this repository.
package specstore

import (
	"context"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/weaviate/cmfgraph/entities/mapping"
)

// ErrNotFound is returned when no spec exists for a schema identity or
// revision.
var ErrNotFound = errors.New("mapping spec not found")

// Version identifies one stored revision of a compiled spec.
type Version struct {
	SchemaID  string          `json:"schemaID"`
	Revision  int             `json:"revision"`
	CreatedAt strfmt.DateTime `json:"createdAt"`
}

// Repo is the persistence contract for compiled specs.
type Repo interface {
	// Put stores a new revision for the spec's schema identity.
	Put(ctx context.Context, spec *mapping.Spec) (Version, error)
	// Latest returns the newest revision for a schema identity.
	Latest(ctx context.Context, schemaID string) (*mapping.Spec, Version, error)
	// Get returns one exact revision.
	Get(ctx context.Context, schemaID string, revision int) (*mapping.Spec, Version, error)
}

type revision struct {
	version Version
	blob    []byte
}

// InMemory is a Repo backed by process memory. Reads vastly outnumber
// writes, hence the RWMutex.
type InMemory struct {
	sync.RWMutex
	revisions map[string][]revision
	logger    logrus.FieldLogger
}

// NewInMemory creates an empty in-memory spec store.
func NewInMemory(logger logrus.FieldLogger) *InMemory {
	return &InMemory{
		revisions: map[string][]revision{},
		logger:    logger,
	}
}

// Put encodes and stores the spec under its schema identity, assigning the
// next revision number.
func (s *InMemory) Put(_ context.Context, spec *mapping.Spec) (Version, error) {
	if spec == nil || spec.SchemaID == "" {
		return Version{}, errors.New("spec has no schema identity")
	}

	blob, err := msgpack.Marshal(spec)
	if err != nil {
		return Version{}, errors.Wrap(err, "encode mapping spec")
	}

	s.Lock()
	defer s.Unlock()

	version := Version{
		SchemaID:  spec.SchemaID,
		Revision:  len(s.revisions[spec.SchemaID]) + 1,
		CreatedAt: strfmt.DateTime(time.Now().UTC()),
	}
	s.revisions[spec.SchemaID] = append(s.revisions[spec.SchemaID], revision{
		version: version,
		blob:    blob,
	})

	s.logger.WithFields(logrus.Fields{
		"action":   "store_mapping_spec",
		"schemaID": version.SchemaID,
		"revision": version.Revision,
	}).Debug("stored mapping spec revision")

	return version, nil
}

// Latest decodes the newest revision for a schema identity.
func (s *InMemory) Latest(_ context.Context, schemaID string) (*mapping.Spec, Version, error) {
	s.RLock()
	defer s.RUnlock()

	revs := s.revisions[schemaID]
	if len(revs) == 0 {
		return nil, Version{}, ErrNotFound
	}
	return decode(revs[len(revs)-1])
}

// Get decodes one exact revision.
func (s *InMemory) Get(_ context.Context, schemaID string, rev int) (*mapping.Spec, Version, error) {
	s.RLock()
	defer s.RUnlock()

	revs := s.revisions[schemaID]
	if rev < 1 || rev > len(revs) {
		return nil, Version{}, ErrNotFound
	}
	return decode(revs[rev-1])
}

func decode(r revision) (*mapping.Spec, Version, error) {
	var spec mapping.Spec
	if err := msgpack.Unmarshal(r.blob, &spec); err != nil {
		return nil, Version{}, errors.Wrap(err, "decode mapping spec")
	}
	spec.Reindex()
	return &spec, r.version, nil
}
