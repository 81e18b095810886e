// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/semagraph/internal/answer"
	"github.com/pdiddy/semagraph/pkg/types"
)

const testBase = "http://example.org/wiki/Special:URIResolver/"

const testDump = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF
	xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#"
	xmlns:swivt="http://semantic-mediawiki.org/swivt/1.0#"
	xmlns:property="http://example.org/wiki/Special:URIResolver/Property-3A">
	<swivt:Subject rdf:about="http://example.org/wiki/Special:URIResolver/Alpha">
		<rdfs:label>Alpha Page</rdfs:label>
		<swivt:wikiPageModificationDate>2026-06-15T12:00:00Z</swivt:wikiPageModificationDate>
		<property:Has_status rdf:resource="http://example.org/wiki/Special:URIResolver/Active"/>
	</swivt:Subject>
	<swivt:Subject rdf:about="http://example.org/wiki/Special:URIResolver/Beta">
		<rdfs:label>Beta Page</rdfs:label>
	</swivt:Subject>
</rdf:RDF>`

// scriptedLLM replays canned replies for the ask endpoint.
type scriptedLLM struct {
	replies []string
}

func (s *scriptedLLM) Chat(_ context.Context, _ string) (string, error) {
	if len(s.replies) == 0 {
		return "", fmt.Errorf("script exhausted")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

// testServer builds a server over a temp data directory holding test.rdf.
func testServer(t *testing.T, llm answer.LLM) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.rdf"), []byte(testDump), 0o644))

	cfg := types.AgentConfig{
		Graph: types.GraphConfig{DataDir: dir, BaseIRI: testBase},
		Answer: types.AnswerConfig{
			DBFile: filepath.Join(dir, "answers.db"),
		},
		Feed: types.FeedConfig{
			Title:       "Updates",
			SiteLink:    "http://example.org/wiki/",
			Description: "test feed",
		},
	}
	return New(cfg, llm), dir
}

func do(t *testing.T, s *Server, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func loadTestDump(t *testing.T, s *Server) {
	t.Helper()
	w := do(t, s, http.MethodPost, "/load?file_path=test.rdf", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestRootEndpoint(t *testing.T) {
	s, _ := testServer(t, nil)

	w := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "RDF Graph Query API", body["name"])
	assert.Equal(t, "1.0.0", body["version"])
	assert.Equal(t, "API for querying RDF data from Semantic MediaWiki", body["description"])
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t, nil)
	w := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEndpointsBeforeLoadReturn404(t *testing.T) {
	s, _ := testServer(t, nil)

	for _, target := range []string{
		"/stats", "/subjects", "/subject/Alpha", "/subject/Alpha/did",
		"/search?q=x", "/properties", "/property/Has_status",
		"/unique_subjects", "/unique_objects", "/feed",
	} {
		w := do(t, s, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, w.Code, target)

		var body map[string]string
		decode(t, w, &body)
		assert.Equal(t, "No graph loaded. Use /load endpoint first.", body["detail"], target)
	}
}

func TestLoadAndStats(t *testing.T) {
	s, _ := testServer(t, nil)

	w := do(t, s, http.MethodPost, "/load?file_path=test.rdf", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats types.GraphStats
	decode(t, w, &stats)
	assert.Equal(t, 6, stats.Triples)
	assert.Equal(t, 2, stats.Subjects)

	w = do(t, s, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var again types.GraphStats
	decode(t, w, &again)
	assert.Equal(t, stats, again)
}

func TestLoadWritesSnapshot(t *testing.T) {
	s, dir := testServer(t, nil)
	loadTestDump(t, s)

	data, err := os.ReadFile(filepath.Join(dir, "dynamic_graph.ttl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "wiki:Alpha")
}

func TestLoadErrors(t *testing.T) {
	s, _ := testServer(t, nil)

	w := do(t, s, http.MethodPost, "/load", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/load?file_path=missing.rdf", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Contains(t, body["detail"], "not found")
}

func TestSubjects(t *testing.T) {
	s, _ := testServer(t, nil)
	loadTestDump(t, s)

	w := do(t, s, http.MethodGet, "/subjects", "")
	require.Equal(t, http.StatusOK, w.Code)

	var subjects []types.SubjectSummary
	decode(t, w, &subjects)
	require.Len(t, subjects, 2)
	assert.Equal(t, "Alpha Page", subjects[0].Label)

	w = do(t, s, http.MethodGet, "/subjects?limit=1&offset=1", "")
	decode(t, w, &subjects)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Beta Page", subjects[0].Label)
}

func TestSubjectDetail(t *testing.T) {
	s, _ := testServer(t, nil)
	loadTestDump(t, s)

	// By trailing IRI segment.
	w := do(t, s, http.MethodGet, "/subject/Alpha", "")
	require.Equal(t, http.StatusOK, w.Code)

	var detail types.SubjectDetail
	decode(t, w, &detail)
	assert.Equal(t, testBase+"Alpha", detail.Subject)
	assert.Equal(t, "Alpha Page", detail.Properties["rdf-schema#label"])

	// By exact label.
	w = do(t, s, http.MethodGet, "/subject/"+url.PathEscape("Beta Page"), "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &detail)
	assert.Equal(t, testBase+"Beta", detail.Subject)

	w = do(t, s, http.MethodGet, "/subject/Nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "Subject 'Nope' not found", body["detail"])
}

func TestSubjectDID(t *testing.T) {
	s, _ := testServer(t, nil)
	loadTestDump(t, s)

	w := do(t, s, http.MethodGet, "/subject/Alpha/did", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, testBase+"Alpha", body["subject"])
	assert.True(t, strings.HasPrefix(body["did"], "did:kb:"))
}

func TestSearch(t *testing.T) {
	s, _ := testServer(t, nil)
	loadTestDump(t, s)

	w := do(t, s, http.MethodGet, "/search?q=beta", "")
	require.Equal(t, http.StatusOK, w.Code)

	var hits []types.SubjectSummary
	decode(t, w, &hits)
	require.Len(t, hits, 1)
	assert.Equal(t, "Beta Page", hits[0].Label)

	// No matches yields an empty array, not null.
	w = do(t, s, http.MethodGet, "/search?q=zzz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())

	w = do(t, s, http.MethodGet, "/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSparql(t *testing.T) {
	s, _ := testServer(t, nil)
	loadTestDump(t, s)

	query := `SELECT ?label WHERE { ?s <` + types.RDFSLabel + `> ?label } LIMIT 10`
	body, _ := json.Marshal(map[string]string{"query": query})

	w := do(t, s, http.MethodPost, "/sparql", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rows []map[string]string
	decode(t, w, &rows)
	assert.Len(t, rows, 2)
}

func TestSparqlErrors(t *testing.T) {
	s, _ := testServer(t, nil)
	loadTestDump(t, s)

	w := do(t, s, http.MethodPost, "/sparql", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/sparql", `{"query": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/sparql", `{"query": "DELETE WHERE { ?s ?p ?o }"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Contains(t, body["detail"], "SPARQL query error")
}

func TestAsk(t *testing.T) {
	llm := &scriptedLLM{replies: []string{
		"```sql\nSELECT object FROM rdf_data WHERE object LIKE '%Page'\n```",
		"There are two pages.",
	}}
	s, _ := testServer(t, llm)
	loadTestDump(t, s)

	body, _ := json.Marshal(map[string]string{"question": "How many pages are there?"})
	w := do(t, s, http.MethodPost, "/ask", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	decode(t, w, &resp)
	assert.Equal(t, "How many pages are there?", resp["question"])
	assert.Equal(t, "There are two pages.", resp["answer"])
}

func TestAskErrors(t *testing.T) {
	s, _ := testServer(t, &scriptedLLM{})

	// Before a load the ask endpoint reports the missing graph.
	body, _ := json.Marshal(map[string]string{"question": "anything"})
	w := do(t, s, http.MethodPost, "/ask", string(body))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPost, "/ask", `{"question": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Without a model the endpoint is unavailable.
	noModel, _ := testServer(t, nil)
	loadTestDump(t, noModel)
	w = do(t, noModel, http.MethodPost, "/ask", string(body))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProperties(t *testing.T) {
	s, _ := testServer(t, nil)
	loadTestDump(t, s)

	w := do(t, s, http.MethodGet, "/properties", "")
	require.Equal(t, http.StatusOK, w.Code)

	var names []string
	decode(t, w, &names)
	assert.Contains(t, names, "Has_status")
	assert.Contains(t, names, "rdf-schema#label")
}

func TestPropertyValues(t *testing.T) {
	s, _ := testServer(t, nil)
	loadTestDump(t, s)

	w := do(t, s, http.MethodGet, "/property/Has_status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var values []types.PropertyValue
	decode(t, w, &values)
	require.Len(t, values, 1)
	assert.Equal(t, "Alpha Page", values[0].SubjectLabel)
	assert.Equal(t, "/Active", values[0].Value)

	w = do(t, s, http.MethodGet, "/property/Nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "Property 'Nope' not found", body["detail"])
}

func TestUniqueSubjectsAndObjects(t *testing.T) {
	s, _ := testServer(t, nil)
	loadTestDump(t, s)

	w := do(t, s, http.MethodGet, "/unique_subjects", "")
	require.Equal(t, http.StatusOK, w.Code)

	var subjects []string
	decode(t, w, &subjects)
	assert.Equal(t, []string{testBase + "Alpha", testBase + "Beta"}, subjects)

	w = do(t, s, http.MethodGet, "/unique_objects", "")
	require.Equal(t, http.StatusOK, w.Code)

	var objects []string
	decode(t, w, &objects)
	assert.Contains(t, objects, "Alpha Page")
	assert.Contains(t, objects, "/Active")
}

func TestFeedEndpoint(t *testing.T) {
	s, _ := testServer(t, nil)
	loadTestDump(t, s)

	w := do(t, s, http.MethodGet, "/feed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, w.Body.String(), "<title>Alpha Page</title>")
}

func TestLoadStartupDump(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.rdf"), []byte(testDump), 0o644))

	cfg := types.AgentConfig{
		Graph: types.GraphConfig{DataDir: dir, BaseIRI: testBase, DumpFile: "test.rdf"},
	}
	s := New(cfg, nil)

	var buf bytes.Buffer
	require.NoError(t, s.LoadStartupDump(&buf))
	assert.Contains(t, buf.String(), "6 triples")

	w := do(t, s, http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoadStartupDumpMissing(t *testing.T) {
	cfg := types.AgentConfig{
		Graph: types.GraphConfig{DataDir: t.TempDir(), DumpFile: "missing.rdf"},
	}
	s := New(cfg, nil)

	var buf bytes.Buffer
	err := s.LoadStartupDump(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading startup dump")
}

func TestLoadStartupDumpUnset(t *testing.T) {
	s, _ := testServer(t, nil)
	var buf bytes.Buffer
	require.NoError(t, s.LoadStartupDump(&buf))
	assert.Nil(t, s.currentGraph())
}
