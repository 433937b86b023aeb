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

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/cmfgraph/entities/graph"
	entmapping "github.com/weaviate/cmfgraph/entities/mapping"
	"github.com/weaviate/cmfgraph/usecases/mapping"
)

// testCMF is a cut-down crash-driver schema shared by every conversion test:
// Person and Vehicle objects, a declared VehicleOwner reference and a
// PersonDrivesVehicle association.
const testCMF = `<Model xmlns="https://docs.oasis-open.org/niemopen/ns/model/6.0/"
  xmlns:structures="https://docs.oasis-open.org/niemopen/ns/model/structures/6.0/">
  <Namespace structures:id="nc">
    <NamespacePrefixText>nc</NamespacePrefixText>
    <NamespaceURI>http://example.com/niem-core/</NamespaceURI>
  </Namespace>
  <Namespace structures:id="j">
    <NamespacePrefixText>j</NamespacePrefixText>
    <NamespaceURI>http://example.com/justice/</NamespaceURI>
  </Namespace>
  <Class structures:id="nc.PersonType">
    <Name>PersonType</Name>
    <Namespace structures:ref="nc"/>
    <ChildPropertyAssociation>
      <DataProperty structures:ref="nc.PersonName"/>
    </ChildPropertyAssociation>
  </Class>
  <Class structures:id="nc.VehicleType">
    <Name>VehicleType</Name>
    <Namespace structures:ref="nc"/>
    <ChildPropertyAssociation>
      <DataProperty structures:ref="nc.VehicleID"/>
    </ChildPropertyAssociation>
    <ChildPropertyAssociation>
      <ObjectProperty structures:ref="nc.VehicleOwner"/>
    </ChildPropertyAssociation>
  </Class>
  <Class structures:id="nc.AssociationType">
    <Name>AssociationType</Name>
    <Namespace structures:ref="nc"/>
  </Class>
  <Class structures:id="j.DrivesType">
    <Name>DrivesType</Name>
    <Namespace structures:ref="j"/>
    <SubClassOf structures:ref="nc.AssociationType"/>
    <ChildPropertyAssociation>
      <ObjectProperty structures:ref="j.Driver"/>
    </ChildPropertyAssociation>
    <ChildPropertyAssociation>
      <ObjectProperty structures:ref="j.DrivenVehicle"/>
    </ChildPropertyAssociation>
  </Class>
  <ObjectProperty structures:id="nc.Person">
    <Name>Person</Name>
    <Class structures:ref="nc.PersonType"/>
  </ObjectProperty>
  <ObjectProperty structures:id="nc.Vehicle">
    <Name>Vehicle</Name>
    <Class structures:ref="nc.VehicleType"/>
  </ObjectProperty>
  <ObjectProperty structures:id="nc.VehicleOwner">
    <Name>VehicleOwner</Name>
    <Class structures:ref="nc.PersonType"/>
  </ObjectProperty>
  <ObjectProperty structures:id="j.Driver">
    <Name>Driver</Name>
    <Class structures:ref="nc.PersonType"/>
  </ObjectProperty>
  <ObjectProperty structures:id="j.DrivenVehicle">
    <Name>DrivenVehicle</Name>
    <Class structures:ref="nc.VehicleType"/>
  </ObjectProperty>
  <ObjectProperty structures:id="j.PersonDrivesVehicle">
    <Name>PersonDrivesVehicle</Name>
    <Class structures:ref="j.DrivesType"/>
  </ObjectProperty>
  <DataProperty structures:id="nc.PersonName">
    <Name>PersonName</Name>
    <Datatype structures:ref="nc.PersonNameType"/>
  </DataProperty>
  <DataProperty structures:id="nc.PersonGivenName">
    <Name>PersonGivenName</Name>
    <Datatype structures:ref="xs.string"/>
  </DataProperty>
  <DataProperty structures:id="nc.PersonSurName">
    <Name>PersonSurName</Name>
    <Datatype structures:ref="xs.string"/>
  </DataProperty>
  <DataProperty structures:id="nc.VehicleID">
    <Name>VehicleID</Name>
    <Datatype structures:ref="xs.string"/>
  </DataProperty>
  <Datatype structures:id="nc.PersonNameType">
    <Name>PersonNameType</Name>
    <ChildPropertyAssociation>
      <DataProperty structures:ref="nc.PersonGivenName"/>
    </ChildPropertyAssociation>
    <ChildPropertyAssociation>
      <DataProperty structures:ref="nc.PersonSurName"/>
    </ChildPropertyAssociation>
  </Datatype>
  <Datatype structures:id="xs.string">
    <Name>string</Name>
  </Datatype>
</Model>`

const xmlHeader = `xmlns:exch="http://example.com/exchange/"
  xmlns:nc="http://example.com/niem-core/"
  xmlns:j="http://example.com/justice/"
  xmlns:local="http://example.com/local/"
  xmlns:structures="https://docs.oasis-open.org/niemopen/ns/model/structures/6.0/"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`

const crimeReportXML = `<exch:CrimeReport ` + xmlHeader + `>
  <nc:Person structures:id="P1">
    <nc:PersonName>
      <nc:PersonGivenName>Ann</nc:PersonGivenName>
      <nc:PersonSurName>Smith</nc:PersonSurName>
    </nc:PersonName>
  </nc:Person>
  <nc:Vehicle structures:id="V1">
    <nc:VehicleID>VIN123</nc:VehicleID>
  </nc:Vehicle>
  <j:PersonDrivesVehicle>
    <j:Driver structures:ref="P1" xsi:nil="true"/>
    <j:DrivenVehicle structures:ref="V1" xsi:nil="true"/>
  </j:PersonDrivesVehicle>
</exch:CrimeReport>`

const crimeReportJSON = `{
  "@context": {
    "nc": "http://example.com/niem-core/",
    "j": "http://example.com/justice/"
  },
  "exch:CrimeReport": {
    "nc:Person": {
      "@id": "P1",
      "nc:PersonName": {
        "nc:PersonGivenName": "Ann",
        "nc:PersonSurName": "Smith"
      }
    },
    "nc:Vehicle": {
      "@id": "V1",
      "nc:VehicleID": "VIN123"
    },
    "j:PersonDrivesVehicle": {
      "j:Driver": {"@id": "P1"},
      "j:DrivenVehicle": {"@id": "V1"}
    }
  }
}`

func testSpec(t *testing.T) *entmapping.Spec {
	t.Helper()
	logger, _ := test.NewNullLogger()
	spec, err := mapping.NewCompiler(logger).CompileBytes([]byte(testCMF))
	require.Nil(t, err)
	return spec
}

func testConverter(t *testing.T) *Converter {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewConverter(testSpec(t), logger)
}

// traverseXML runs the traversal directly so tests can inspect the graph
// model instead of parsing statement strings.
func traverseXML(t *testing.T, doc, batchID string) *graph.Model {
	t.Helper()
	root, err := parseXML([]byte(doc))
	require.Nil(t, err)
	logger, _ := test.NewNullLogger()
	model := graph.NewModel(batchID)
	newTraversal(testSpec(t), model, logger).run(root)
	return model
}

func TestConvertCrimeReportXML(t *testing.T) {
	model := traverseXML(t, crimeReportXML, "b1")

	nodes := model.Nodes()
	require.Len(t, nodes, 2)
	assert.Empty(t, model.Warnings())

	person := nodes[0]
	assert.Equal(t, graph.NodeID("b1:P1"), person.ID)
	assert.Equal(t, "Person", person.Label)
	assert.Equal(t, "nc:Person", person.QName)
	assert.Equal(t, "Ann", person.Props["PersonName_PersonGivenName"])
	assert.Equal(t, "Smith", person.Props["PersonName_PersonSurName"])

	vehicle := nodes[1]
	assert.Equal(t, graph.NodeID("b1:V1"), vehicle.ID)
	assert.Equal(t, "Vehicle", vehicle.Label)
	assert.Equal(t, "VIN123", vehicle.Props["VehicleID"])

	edges := model.Edges()
	require.Len(t, edges, 1)
	edge := edges[0]
	assert.Equal(t, graph.KindAssociation, edge.Kind)
	assert.Equal(t, "PERSON_DRIVES_VEHICLE", edge.RelType)
	assert.Equal(t, graph.NodeID("b1:P1"), edge.SourceID)
	assert.Equal(t, "Person", edge.SourceLabel)
	assert.Equal(t, graph.NodeID("b1:V1"), edge.TargetID)
	assert.Equal(t, "Vehicle", edge.TargetLabel)
}

func TestFormatParity(t *testing.T) {
	conv := testConverter(t)

	fromXML, err := conv.ConvertXML([]byte(crimeReportXML), "report-1", "b1")
	require.Nil(t, err)
	fromJSON, err := conv.ConvertJSON([]byte(crimeReportJSON), "report-1", "b1")
	require.Nil(t, err)

	assert.Equal(t, fromXML.NodeCount, fromJSON.NodeCount)
	assert.Equal(t, fromXML.EdgeCount, fromJSON.EdgeCount)

	// same entities, same ids, same order: the rendered statements are
	// byte-identical across formats
	require.Equal(t, len(fromXML.Statements), len(fromJSON.Statements))
	for i := range fromXML.Statements {
		assert.Equal(t, fromXML.Statements[i].String(), fromJSON.Statements[i].String())
	}
}

func TestConvertDeterministic(t *testing.T) {
	conv := testConverter(t)

	first, err := conv.ConvertXML([]byte(crimeReportXML), "report-1", "b1")
	require.Nil(t, err)
	second, err := conv.ConvertXML([]byte(crimeReportXML), "report-1", "b1")
	require.Nil(t, err)

	require.Equal(t, len(first.Statements), len(second.Statements))
	for i := range first.Statements {
		assert.Equal(t, first.Statements[i].String(), second.Statements[i].String())
	}
}

func TestEmitNodesBeforeEdges(t *testing.T) {
	conv := testConverter(t)

	result, err := conv.ConvertXML([]byte(crimeReportXML), "report-1", "b1")
	require.Nil(t, err)
	require.Len(t, result.Statements, 3)

	assert.True(t, strings.HasPrefix(result.Statements[0].String(), "MERGE (n:Person"))
	assert.True(t, strings.HasPrefix(result.Statements[1].String(), "MERGE (n:Vehicle"))
	assert.True(t, strings.HasPrefix(result.Statements[2].String(), "MATCH (a:Person"))
	assert.Contains(t, result.Statements[2].String(), "MERGE (a)-[r:PERSON_DRIVES_VEHICLE]->(b)")

	// provenance travels on every node
	assert.Contains(t, result.Statements[0].String(), `_doc: "report-1"`)
	assert.Contains(t, result.Statements[0].String(), `_batch: "b1"`)
	assert.Contains(t, result.Statements[0].String(), `_qname: "nc:Person"`)
}

func TestAssociationStaysMinimal(t *testing.T) {
	// no identifier, no metadata: the association degenerates to one edge
	model := traverseXML(t, crimeReportXML, "b1")
	nodes, edges := model.Counts()
	assert.Equal(t, 2, nodes)
	assert.Equal(t, 1, edges)
}

func TestAssociationWithIdentifierGetsNode(t *testing.T) {
	doc := `<exch:CrimeReport ` + xmlHeader + `>
  <nc:Person structures:id="P1"/>
  <nc:Vehicle structures:id="V1"/>
  <j:PersonDrivesVehicle structures:id="A1">
    <j:Driver structures:ref="P1" xsi:nil="true"/>
    <j:DrivenVehicle structures:ref="V1" xsi:nil="true"/>
  </j:PersonDrivesVehicle>
</exch:CrimeReport>`

	model := traverseXML(t, doc, "b1")

	nodes := model.Nodes()
	require.Len(t, nodes, 3)
	assoc := nodes[2]
	assert.Equal(t, graph.NodeID("b1:A1"), assoc.ID)
	assert.Equal(t, "PersonDrivesVehicle", assoc.Label)

	relTypes := map[string]int{}
	for _, e := range model.Edges() {
		relTypes[e.RelType]++
	}
	assert.Equal(t, map[string]int{
		"PERSON_DRIVES_VEHICLE": 1,
		"DRIVER":                1,
		"DRIVEN_VEHICLE":        1,
	}, relTypes)
}

func TestInlineReferenceDedupedAgainstContainment(t *testing.T) {
	doc := `<exch:CrimeReport ` + xmlHeader + `>
  <nc:Vehicle structures:id="V1">
    <nc:VehicleID>VIN123</nc:VehicleID>
    <nc:VehicleOwner structures:id="P9">
      <nc:PersonName>
        <nc:PersonGivenName>Bea</nc:PersonGivenName>
      </nc:PersonName>
    </nc:VehicleOwner>
  </nc:Vehicle>
</exch:CrimeReport>`

	model := traverseXML(t, doc, "b1")

	nodes, edges := model.Counts()
	assert.Equal(t, 2, nodes)
	// containment and the declared reference coincide on the same
	// (source, target, type) triple and collapse into one edge
	require.Equal(t, 1, edges)
	assert.Equal(t, "VEHICLE_OWNER", model.Edges()[0].RelType)

	owner, ok := model.Node("b1:P9")
	require.True(t, ok)
	assert.Equal(t, "VehicleOwner", owner.Label)
	assert.Equal(t, "Bea", owner.Props["PersonName_PersonGivenName"])
}

func TestDeclaredReferenceByRef(t *testing.T) {
	doc := `<exch:CrimeReport ` + xmlHeader + `>
  <nc:Person structures:id="P1"/>
  <nc:Vehicle structures:id="V1">
    <nc:VehicleOwner structures:ref="P1" xsi:nil="true"/>
  </nc:Vehicle>
</exch:CrimeReport>`

	model := traverseXML(t, doc, "b1")

	nodes, edges := model.Counts()
	assert.Equal(t, 2, nodes)
	require.Equal(t, 1, edges)
	edge := model.Edges()[0]
	assert.Equal(t, "VEHICLE_OWNER", edge.RelType)
	assert.Equal(t, graph.NodeID("b1:V1"), edge.SourceID)
	assert.Equal(t, graph.NodeID("b1:P1"), edge.TargetID)
}

func TestRoleURIRepresents(t *testing.T) {
	t.Run("target defined in document", func(t *testing.T) {
		doc := `<exch:CrimeReport ` + xmlHeader + `>
  <nc:Person structures:id="P1">
    <nc:PersonName>
      <nc:PersonGivenName>Ann</nc:PersonGivenName>
    </nc:PersonName>
  </nc:Person>
  <j:Driver structures:uri="#P1"/>
</exch:CrimeReport>`

		model := traverseXML(t, doc, "b1")

		nodes, edges := model.Counts()
		assert.Equal(t, 2, nodes)
		require.Equal(t, 1, edges)
		edge := model.Edges()[0]
		assert.Equal(t, graph.KindRepresents, edge.Kind)
		assert.Equal(t, RepresentsRelType, edge.RelType)
		assert.Equal(t, "Driver", edge.SourceLabel)
		assert.Equal(t, graph.NodeID("b1:P1"), edge.TargetID)
		assert.Equal(t, "Person", edge.TargetLabel)
	})

	t.Run("target never defined keeps edge without label", func(t *testing.T) {
		doc := `<exch:CrimeReport ` + xmlHeader + `>
  <j:Driver structures:uri="#X9"/>
</exch:CrimeReport>`

		model := traverseXML(t, doc, "b1")

		require.Len(t, model.Edges(), 1)
		edge := model.Edges()[0]
		assert.Equal(t, graph.KindRepresents, edge.Kind)
		assert.Equal(t, graph.NodeID("b1:X9"), edge.TargetID)
		assert.Equal(t, "", edge.TargetLabel, "type of the represented entity is unknown")

		conv := testConverter(t)
		result, err := conv.ConvertXML([]byte(doc), "report-1", "b1")
		require.Nil(t, err)
		last := result.Statements[len(result.Statements)-1].String()
		assert.Contains(t, last, `MATCH (b {_id: "b1:X9"})`)
	})
}

func TestDanglingAssociationEndpointDropsEdge(t *testing.T) {
	doc := `<exch:CrimeReport ` + xmlHeader + `>
  <nc:Person structures:id="P1"/>
  <j:PersonDrivesVehicle>
    <j:Driver structures:ref="P1" xsi:nil="true"/>
    <j:DrivenVehicle structures:ref="GHOST" xsi:nil="true"/>
  </j:PersonDrivesVehicle>
</exch:CrimeReport>`

	model := traverseXML(t, doc, "b1")

	nodes, edges := model.Counts()
	assert.Equal(t, 1, nodes)
	assert.Equal(t, 0, edges, "an edge to an undefined identifier is dropped, not emitted")

	require.Len(t, model.Warnings(), 1)
	warning := model.Warnings()[0]
	assert.Equal(t, graph.WarningDanglingReference, warning.Kind)
	assert.Contains(t, warning.Detail, "GHOST")
}

func TestDuplicateIdentifierFirstWins(t *testing.T) {
	doc := `<exch:CrimeReport ` + xmlHeader + `>
  <nc:Person structures:id="P1">
    <nc:PersonName>
      <nc:PersonGivenName>Ann</nc:PersonGivenName>
    </nc:PersonName>
  </nc:Person>
  <nc:Person structures:id="P1">
    <nc:PersonName>
      <nc:PersonGivenName>Other</nc:PersonGivenName>
      <nc:PersonSurName>Smith</nc:PersonSurName>
    </nc:PersonName>
  </nc:Person>
</exch:CrimeReport>`

	model := traverseXML(t, doc, "b1")

	nodes := model.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "Ann", nodes[0].Props["PersonName_PersonGivenName"],
		"conflicting keys keep the first occurrence's value")
	assert.Equal(t, "Smith", nodes[0].Props["PersonName_PersonSurName"],
		"keys absent from the first occurrence merge in")

	require.Len(t, model.Warnings(), 1)
	assert.Equal(t, graph.WarningDuplicateID, model.Warnings()[0].Kind)
}

func TestUndeclaredContentBecomesAugmentation(t *testing.T) {
	doc := `<exch:CrimeReport ` + xmlHeader + `>
  <nc:Person structures:id="P1">
    <local:Hobby rank="1">chess</local:Hobby>
  </nc:Person>
</exch:CrimeReport>`

	model := traverseXML(t, doc, "b1")

	person, ok := model.Node("b1:P1")
	require.True(t, ok)
	assert.Equal(t, "chess", person.Augmentations["Hobby"])
	assert.Equal(t, "1", person.Augmentations["Hobby_rank"])

	require.Len(t, model.Warnings(), 1)
	assert.Equal(t, graph.WarningUnmappedElement, model.Warnings()[0].Kind)

	conv := testConverter(t)
	result, err := conv.ConvertXML([]byte(doc), "report-1", "b1")
	require.Nil(t, err)
	stmt := result.Statements[0].String()
	assert.Contains(t, stmt, `aug_Hobby: "chess"`)
	assert.Contains(t, stmt, "_hasAugmentation: true")
}

func TestSyntheticIDsAreReproducible(t *testing.T) {
	doc := `<exch:CrimeReport ` + xmlHeader + `>
  <nc:Person>
    <nc:PersonName>
      <nc:PersonGivenName>Ann</nc:PersonGivenName>
    </nc:PersonName>
  </nc:Person>
</exch:CrimeReport>`

	first := traverseXML(t, doc, "b1")
	second := traverseXML(t, doc, "b1")

	require.Len(t, first.Nodes(), 1)
	require.Len(t, second.Nodes(), 1)
	assert.Equal(t, first.Nodes()[0].ID, second.Nodes()[0].ID)
	assert.True(t, strings.HasPrefix(first.Nodes()[0].ID.String(), "b1:n"))

	other := traverseXML(t, doc, "b2")
	assert.NotEqual(t, first.Nodes()[0].ID, other.Nodes()[0].ID,
		"ids are scoped to the ingestion batch")
}

func TestConvertParseErrors(t *testing.T) {
	conv := testConverter(t)

	_, err := conv.ConvertXML([]byte("<exch:CrimeReport><broken"), "bad-xml", "b1")
	require.NotNil(t, err)
	var parseErr ErrParse
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "bad-xml", parseErr.Document)

	_, err = conv.ConvertJSON([]byte(`{"nc:Person": `), "bad-json", "b1")
	require.NotNil(t, err)
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "bad-json", parseErr.Document)

	_, err = conv.ConvertXML([]byte("   "), "empty", "b1")
	assert.NotNil(t, err)
}
