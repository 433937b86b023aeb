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

// Package mapping compiles a parsed CMF model into the declarative
// transformation spec the converters run on. Compilation happens once per
// schema version; conversions happen once per document.
package mapping

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/cmfgraph/entities/cmf"
	"github.com/weaviate/cmfgraph/entities/mapping"
)

// Compiler derives a mapping.Spec from a CMF model.
type Compiler struct {
	logger   logrus.FieldLogger
	maxDepth int
}

// CompilerOption mutates compiler defaults.
type CompilerOption func(*Compiler)

// WithMaxDepth overrides the flattening recursion bound.
func WithMaxDepth(depth int) CompilerOption {
	return func(c *Compiler) {
		c.maxDepth = depth
	}
}

// NewCompiler creates a new compiler.
func NewCompiler(logger logrus.FieldLogger, opts ...CompilerOption) *Compiler {
	c := &Compiler{logger: logger, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileRaw runs a non-CMF schema through the external conversion tool
// first, then compiles the resulting CMF text.
func (c *Compiler) CompileRaw(ctx context.Context, rawSchema []byte, tool CMFConverter) (*mapping.Spec, error) {
	content, err := tool.ToCMF(ctx, rawSchema)
	if err != nil {
		return nil, NewErrInvalidCMF(err, "convert raw schema to CMF")
	}
	return c.CompileBytes(content)
}

// CompileBytes parses raw CMF text and compiles it. The schema identity hash
// of the input is recorded on the spec.
func (c *Compiler) CompileBytes(content []byte) (*mapping.Spec, error) {
	model, err := cmf.Parse(content)
	if err != nil {
		return nil, NewErrInvalidCMF(err, "parse schema representation")
	}
	spec, err := c.Compile(model)
	if err != nil {
		return nil, err
	}
	spec.SchemaID = SchemaIdentity(content)
	return spec, nil
}

// Compile walks every element declaration and derives objects, associations,
// references and the element index. Independent faults are aggregated so one
// compile reports everything that is wrong with a schema.
func (c *Compiler) Compile(model *cmf.Model) (*mapping.Spec, error) {
	if model == nil || len(model.Properties) == 0 {
		return nil, NewErrInvalidCMF(nil, "model declares no properties")
	}

	spec := &mapping.Spec{
		Namespaces:   model.Namespaces,
		ElementIndex: make(map[string]bool, len(model.Properties)),
	}
	f := &flattener{model: model, maxDepth: c.maxDepth}

	var combined *multierror.Error

	for _, propID := range model.PropertyOrder {
		prop := model.Properties[propID]
		spec.ElementIndex[prop.QName.String()] = true

		class, ok := model.ClassFor(prop)
		if !ok {
			continue // data property, carried by the element index only
		}

		if model.IsAssociation(class.ID) {
			assoc, err := c.compileAssociation(model, prop, class)
			if err != nil {
				combined = multierror.Append(combined, err)
				continue
			}
			spec.Associations = append(spec.Associations, *assoc)
			continue
		}

		obj, refs, err := c.compileObject(model, f, prop, class)
		if err != nil {
			combined = multierror.Append(combined, err)
			continue
		}
		spec.Objects = append(spec.Objects, *obj)
		spec.References = append(spec.References, refs...)
	}

	if err := combined.ErrorOrNil(); err != nil {
		return nil, err
	}

	spec.Reindex()

	c.logger.WithFields(logrus.Fields{
		"action":       "compile_mapping",
		"objects":      len(spec.Objects),
		"associations": len(spec.Associations),
		"references":   len(spec.References),
	}).Debug("compiled mapping specification")

	return spec, nil
}

// compileObject flattens the class's data properties into scalar paths and
// turns its object-valued properties into declared references.
func (c *Compiler) compileObject(model *cmf.Model, f *flattener,
	elem *cmf.Property, class *cmf.Class,
) (*mapping.Object, []mapping.Reference, error) {
	obj := &mapping.Object{
		QName: elem.QName.String(),
		Label: Label(elem.QName.String()),
	}

	keys := map[string]string{} // flat key -> path, collision detection
	var refs []mapping.Reference

	for _, use := range class.Properties {
		child, ok := model.Properties[use.Property]
		if !ok {
			return nil, nil, NewErrInvalidCMF(nil, "class %s references unknown property %s",
				class.ID, use.Property)
		}

		if child.IsObjectValued() {
			target, ok := model.ClassFor(child)
			if !ok {
				return nil, nil, NewErrInvalidCMF(nil, "property %s references unknown class %s",
					child.ID, child.ClassRef)
			}
			if model.IsAssociation(target.ID) {
				continue // association elements carry their own mapping
			}
			refs = append(refs, mapping.Reference{
				OwnerQName:  elem.QName.String(),
				FieldQName:  child.QName.String(),
				TargetLabel: Label(child.QName.String()),
				RelType:     RelationshipType(child.QName.String()),
			})
			continue
		}

		entries, err := f.flatten(child, nil, 0)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range entries {
			if prev, dup := keys[e.Key]; dup {
				return nil, nil, ErrMappingConflict{
					QName: obj.QName,
					Key:   e.Key,
					PathA: prev,
					PathB: pathString(e.Segments),
				}
			}
			keys[e.Key] = pathString(e.Segments)
			obj.ScalarProps = append(obj.ScalarProps, e)
		}
	}

	return obj, refs, nil
}

// compileAssociation takes the class's object-valued child properties in
// declaration order as endpoints; the first is the edge source, the rest are
// targets.
func (c *Compiler) compileAssociation(model *cmf.Model,
	elem *cmf.Property, class *cmf.Class,
) (*mapping.Association, error) {
	assoc := &mapping.Association{
		QName:   elem.QName.String(),
		Label:   Label(elem.QName.String()),
		RelType: RelationshipType(elem.QName.String()),
	}

	for _, use := range class.Properties {
		child, ok := model.Properties[use.Property]
		if !ok {
			return nil, NewErrInvalidCMF(nil, "association %s references unknown property %s",
				class.ID, use.Property)
		}
		if !child.IsObjectValued() {
			continue // associations may carry scalar payload, endpoints are object-valued
		}
		direction := mapping.DirectionTarget
		if len(assoc.Endpoints) == 0 {
			direction = mapping.DirectionSource
		}
		assoc.Endpoints = append(assoc.Endpoints, mapping.Endpoint{
			RoleQName:   child.QName.String(),
			TargetLabel: Label(child.QName.String()),
			Direction:   direction,
		})
	}

	if len(assoc.Endpoints) < 2 {
		return nil, NewErrInvalidCMF(nil, "association %s declares %d endpoints, need at least 2",
			assoc.QName, len(assoc.Endpoints))
	}

	return assoc, nil
}

func pathString(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}
