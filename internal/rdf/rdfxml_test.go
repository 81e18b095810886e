// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/semagraph/pkg/types"
)

const sampleDump = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF
	xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#"
	xmlns:swivt="http://semantic-mediawiki.org/swivt/1.0#"
	xmlns:property="http://example.org/wiki/Special:URIResolver/Property-3A">
	<swivt:Subject rdf:about="http://example.org/wiki/Special:URIResolver/Alpha">
		<rdfs:label>Alpha</rdfs:label>
		<swivt:wikiPageModificationDate rdf:datatype="http://www.w3.org/2001/XMLSchema#dateTime">2026-01-02T03:04:05Z</swivt:wikiPageModificationDate>
		<property:Has_status rdf:resource="http://example.org/wiki/Special:URIResolver/Active"/>
	</swivt:Subject>
	<rdf:Description rdf:about="http://example.org/wiki/Special:URIResolver/Beta">
		<rdfs:label xml:lang="en">Beta</rdfs:label>
	</rdf:Description>
</rdf:RDF>`

func TestParseRDFXML(t *testing.T) {
	triples, err := ParseRDFXML(strings.NewReader(sampleDump))
	require.NoError(t, err)
	require.Len(t, triples, 5)

	alpha := types.NewIRI("http://example.org/wiki/Special:URIResolver/Alpha")

	// The typed node element asserts rdf:type first.
	assert.Equal(t, types.Triple{
		Subject:   alpha,
		Predicate: types.NewIRI(types.RDFType),
		Object:    types.NewIRI(types.SwivtNamespace + "Subject"),
	}, triples[0])

	assert.Equal(t, types.Triple{
		Subject:   alpha,
		Predicate: types.NewIRI(types.RDFSLabel),
		Object:    types.NewLiteral("Alpha"),
	}, triples[1])

	assert.Equal(t, types.Triple{
		Subject:   alpha,
		Predicate: types.NewIRI(types.SwivtModificationDate),
		Object: types.Term{
			Kind:     types.Literal,
			Value:    "2026-01-02T03:04:05Z",
			Datatype: "http://www.w3.org/2001/XMLSchema#dateTime",
		},
	}, triples[2])

	assert.Equal(t, types.Triple{
		Subject:   alpha,
		Predicate: types.NewIRI("http://example.org/wiki/Special:URIResolver/Property-3AHas_status"),
		Object:    types.NewIRI("http://example.org/wiki/Special:URIResolver/Active"),
	}, triples[3])

	// rdf:Description emits no type triple; the label keeps its language tag.
	assert.Equal(t, types.Triple{
		Subject:   types.NewIRI("http://example.org/wiki/Special:URIResolver/Beta"),
		Predicate: types.NewIRI(types.RDFSLabel),
		Object:    types.Term{Kind: types.Literal, Value: "Beta", Lang: "en"},
	}, triples[4])
}

func TestParseRDFXMLNestedNode(t *testing.T) {
	doc := `<rdf:RDF
		xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
		xmlns:ex="http://example.org/ns#">
		<rdf:Description rdf:about="http://example.org/a">
			<ex:knows>
				<rdf:Description rdf:about="http://example.org/b">
					<ex:name>B</ex:name>
				</rdf:Description>
			</ex:knows>
		</rdf:Description>
	</rdf:RDF>`

	triples, err := ParseRDFXML(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, triples, 2)

	// The nested node's own properties come out before the linking triple.
	assert.Equal(t, types.Triple{
		Subject:   types.NewIRI("http://example.org/b"),
		Predicate: types.NewIRI("http://example.org/ns#name"),
		Object:    types.NewLiteral("B"),
	}, triples[0])
	assert.Equal(t, types.Triple{
		Subject:   types.NewIRI("http://example.org/a"),
		Predicate: types.NewIRI("http://example.org/ns#knows"),
		Object:    types.NewIRI("http://example.org/b"),
	}, triples[1])
}

func TestParseRDFXMLBlankNodes(t *testing.T) {
	doc := `<rdf:RDF
		xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
		xmlns:ex="http://example.org/ns#">
		<rdf:Description rdf:nodeID="n1">
			<ex:ref rdf:nodeID="n2"/>
		</rdf:Description>
		<ex:Thing>
			<ex:name>anonymous</ex:name>
		</ex:Thing>
	</rdf:RDF>`

	triples, err := ParseRDFXML(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, triples, 3)

	assert.Equal(t, types.NewBlank("n1"), triples[0].Subject)
	assert.Equal(t, types.NewBlank("n2"), triples[0].Object)

	// The element without rdf:about or rdf:nodeID gets a generated label.
	assert.Equal(t, types.NewBlank("b1"), triples[1].Subject)
	assert.Equal(t, types.NewIRI(types.RDFType), triples[1].Predicate)
	assert.Equal(t, types.NewLiteral("anonymous"), triples[2].Object)
}

func TestParseRDFXMLMalformed(t *testing.T) {
	_, err := ParseRDFXML(strings.NewReader("<rdf:RDF><unclosed>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing rdf/xml")
}
