// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/semagraph/pkg/types"
)

func TestParseBasicSelect(t *testing.T) {
	q, err := Parse(`SELECT ?s ?label WHERE { ?s <` + types.RDFSLabel + `> ?label . }`)
	require.NoError(t, err)

	assert.Equal(t, []string{"s", "label"}, q.vars)
	require.Len(t, q.where, 1)
	assert.Equal(t, node{kind: nodeVar, value: "s"}, q.where[0].S)
	assert.Equal(t, node{kind: nodeIRI, value: types.RDFSLabel}, q.where[0].P)
	assert.Equal(t, node{kind: nodeVar, value: "label"}, q.where[0].O)
	assert.Equal(t, -1, q.limit)
	assert.Equal(t, 0, q.offset)
}

func TestParsePrefixes(t *testing.T) {
	q, err := Parse(`
		PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
		PREFIX wiki: <http://example.org/wiki/>
		SELECT ?s WHERE { ?s rdfs:label "Alpha" }`)
	require.NoError(t, err)

	assert.Equal(t, "http://www.w3.org/2000/01/rdf-schema#", q.prefixes["rdfs"])
	require.Len(t, q.where, 1)
	assert.Equal(t, node{kind: nodeIRI, value: types.RDFSLabel}, q.where[0].P)
	assert.Equal(t, node{kind: nodeLiteral, value: "Alpha"}, q.where[0].O)
}

func TestParseShorthandA(t *testing.T) {
	q, err := Parse(`SELECT * WHERE { ?s a <http://example.org/Thing> }`)
	require.NoError(t, err)

	require.Len(t, q.where, 1)
	assert.Equal(t, node{kind: nodeIRI, value: types.RDFType}, q.where[0].P)
	assert.Empty(t, q.vars)
}

func TestParseLanguageTaggedLiteral(t *testing.T) {
	q, err := Parse(`SELECT ?s WHERE { ?s <http://example.org/p> "hoi"@nl }`)
	require.NoError(t, err)

	require.Len(t, q.where, 1)
	assert.Equal(t, node{kind: nodeLiteral, value: "hoi", lang: "nl"}, q.where[0].O)
}

func TestParseOptionalAndFilter(t *testing.T) {
	q, err := Parse(`
		SELECT ?s ?date WHERE {
			?s <http://example.org/p> ?o .
			OPTIONAL { ?s <http://example.org/date> ?date . }
			FILTER CONTAINS(?o, "graph")
			FILTER REGEX(?s, "^http://")
		}
		LIMIT 10 OFFSET 5`)
	require.NoError(t, err)

	require.Len(t, q.where, 1)
	require.Len(t, q.optional, 1)
	assert.Len(t, q.optional[0], 1)

	require.Len(t, q.filters, 2)
	assert.Equal(t, Filter{kind: filterContains, vari: "o", arg: "graph"}, q.filters[0])
	assert.Equal(t, Filter{kind: filterRegex, vari: "s", arg: "^http://"}, q.filters[1])

	assert.Equal(t, 10, q.limit)
	assert.Equal(t, 5, q.offset)
}

func TestParseComments(t *testing.T) {
	q, err := Parse(`
		# find everything
		SELECT * WHERE {
			?s ?p ?o . # every triple
		}`)
	require.NoError(t, err)
	assert.Len(t, q.where, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"missing select", `ASK { ?s ?p ?o }`, "expected"},
		{"unknown prefix", `SELECT ?s WHERE { ?s foaf:name "x" }`, "unknown prefix"},
		{"unterminated string", `SELECT ?s WHERE { ?s ?p "open }`, "unterminated string"},
		{"unterminated iri", `SELECT ?s WHERE { ?s <http://x ?o }`, "unterminated IRI"},
		{"unterminated group", `SELECT ?s WHERE { ?s ?p ?o`, "unterminated group"},
		{"bad filter", `SELECT ?s WHERE { ?s ?p ?o . FILTER STRSTARTS(?o, "x") }`, "unsupported filter function"},
		{"nested optional", `SELECT ?s WHERE { OPTIONAL { OPTIONAL { ?s ?p ?o } } }`, "nested OPTIONAL"},
		{"bad limit", `SELECT ?s WHERE { ?s ?p ?o } LIMIT many`, "expected non-negative number"},
		{"trailing junk", `SELECT ?s WHERE { ?s ?p ?o } ORDER BY ?s`, "unexpected token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}
