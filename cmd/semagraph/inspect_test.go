// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/semagraph/internal/graph"
	"github.com/pdiddy/semagraph/pkg/types"
)

func TestWriteSubjectReport(t *testing.T) {
	base := "http://example.org/wiki/Special:URIResolver/"
	g := graph.New(graph.Cleaner{BaseIRI: base})
	subj := types.NewIRI(base + "Odin")

	g.AddAll([]types.Triple{
		{Subject: subj, Predicate: types.NewIRI(types.RDFType), Object: types.NewIRI(types.SwivtNamespace + "Subject")},
		{Subject: subj, Predicate: types.NewIRI(types.RDFSLabel), Object: types.NewLiteral("Odin Project")},
		{Subject: subj, Predicate: types.NewIRI(base + "Property-3Aparticipant"), Object: types.NewIRI(base + "CBS")},
		{Subject: subj, Predicate: types.NewIRI(base + "Property-3AHas_status"), Object: types.NewIRI(base + "Active")},
	})

	var buf bytes.Buffer
	writeSubjectReport(&buf, g, subj)
	out := buf.String()

	assert.Contains(t, out, "=== Subject Information ("+base+"Odin) ===")
	assert.Contains(t, out, "did: did:kb:")
	assert.Contains(t, out, "Basic Information:")
	assert.Contains(t, out, "Name: Odin Project")
	assert.Contains(t, out, "Type: "+types.SwivtNamespace+"Subject")
	assert.Contains(t, out, "Description: Not specified")
	assert.Contains(t, out, "Dates:")
	assert.Contains(t, out, "Last Modified: Not specified")
	assert.Contains(t, out, "Participants:")
	assert.Contains(t, out, "- /CBS")
	assert.Contains(t, out, "Other Properties:")
	assert.Contains(t, out, "Geographic Scope: Not specified")
	assert.Contains(t, out, "=== All Properties (Cleaned) ===")
	assert.Contains(t, out, "Has_status: "+base+"Active")
}

func TestWriteSubjectReportNoParticipants(t *testing.T) {
	base := "http://example.org/wiki/Special:URIResolver/"
	g := graph.New(graph.Cleaner{BaseIRI: base})
	subj := types.NewIRI(base + "Bare")
	g.Add(types.Triple{Subject: subj, Predicate: types.NewIRI(types.RDFSLabel), Object: types.NewLiteral("Bare Page")})

	var buf bytes.Buffer
	writeSubjectReport(&buf, g, subj)

	assert.Contains(t, buf.String(), "No participants specified")
}
