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

package cmf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCMF = `<Model xmlns="https://docs.oasis-open.org/niemopen/ns/model/6.0/"
  xmlns:structures="https://docs.oasis-open.org/niemopen/ns/model/structures/6.0/">
  <Namespace structures:id="nc">
    <NamespacePrefixText>nc</NamespacePrefixText>
    <NamespaceURI>http://example.com/niem-core/</NamespaceURI>
  </Namespace>
  <Class structures:id="nc.PersonType">
    <Name>PersonType</Name>
    <Namespace structures:ref="nc"/>
    <ChildPropertyAssociation>
      <DataProperty structures:ref="nc.PersonName"/>
      <MinOccursQuantity>1</MinOccursQuantity>
      <MaxOccursQuantity>1</MaxOccursQuantity>
    </ChildPropertyAssociation>
  </Class>
  <Class structures:id="nc.AssociationType">
    <Name>AssociationType</Name>
    <Namespace structures:ref="nc"/>
  </Class>
  <Class structures:id="nc.DrivesType">
    <Name>DrivesType</Name>
    <Namespace structures:ref="nc"/>
    <SubClassOf structures:ref="nc.AssociationType"/>
  </Class>
  <ObjectProperty structures:id="nc.Person">
    <Name>Person</Name>
    <Class structures:ref="nc.PersonType"/>
  </ObjectProperty>
  <DataProperty structures:id="nc.PersonName">
    <Name>PersonName</Name>
    <Datatype structures:ref="xs.string"/>
  </DataProperty>
  <Datatype structures:id="xs.string">
    <Name>string</Name>
  </Datatype>
</Model>`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sampleCMF))
	require.Nil(t, err)

	require.Len(t, m.Classes, 3)
	require.Len(t, m.Properties, 2)
	require.Len(t, m.Datatypes, 1)

	person := m.Classes["nc.PersonType"]
	require.NotNil(t, person)
	assert.Equal(t, QName("nc:PersonType"), person.QName)
	require.Len(t, person.Properties, 1)
	assert.Equal(t, ID("nc.PersonName"), person.Properties[0].Property)
	assert.Equal(t, "1", person.Properties[0].MinOccurs)

	elem := m.Properties["nc.Person"]
	require.NotNil(t, elem)
	assert.True(t, elem.IsObjectValued())
	assert.Equal(t, ID("nc.PersonType"), elem.ClassRef)

	name := m.Properties["nc.PersonName"]
	require.NotNil(t, name)
	assert.False(t, name.IsObjectValued())
}

func TestIsAssociation(t *testing.T) {
	m, err := Parse([]byte(sampleCMF))
	require.Nil(t, err)

	assert.True(t, m.IsAssociation("nc.DrivesType"))
	assert.True(t, m.IsAssociation("nc.AssociationType"))
	assert.False(t, m.IsAssociation("nc.PersonType"))
	assert.False(t, m.IsAssociation("nc.NoSuchType"))
}

func TestParseErrors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Parse(nil)
		assert.NotNil(t, err)
	})

	t.Run("malformed xml", func(t *testing.T) {
		_, err := Parse([]byte("<Model><Class></Model>"))
		assert.NotNil(t, err)
	})

	t.Run("no declarations", func(t *testing.T) {
		_, err := Parse([]byte("<Model></Model>"))
		assert.NotNil(t, err)
	})

	t.Run("class without name", func(t *testing.T) {
		_, err := Parse([]byte(`<Model><Class structures:id="x.T"></Class></Model>`))
		assert.NotNil(t, err)
	})
}

func TestQName(t *testing.T) {
	assert.Equal(t, "PersonType", QName("nc:PersonType").Local())
	assert.Equal(t, "nc", QName("nc:PersonType").Prefix())
	assert.Equal(t, "Person", QName("Person").Local())
	assert.Equal(t, "", QName("Person").Prefix())
}
