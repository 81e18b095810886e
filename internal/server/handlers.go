// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pdiddy/semagraph/internal/did"
	"github.com/pdiddy/semagraph/internal/feed"
	"github.com/pdiddy/semagraph/internal/graph"
	"github.com/pdiddy/semagraph/internal/sparql"
	"github.com/pdiddy/semagraph/pkg/types"
)

// errNoGraph is returned by every graph-reading endpoint before a load.
var errNoGraph = errors.New("No graph loaded. Use /load endpoint first.")

// respondJSON writes a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes the error envelope the API uses everywhere.
func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"name":        "RDF Graph Query API",
		"version":     Version,
		"description": "API for querying RDF data from Semantic MediaWiki",
		"endpoints": map[string]string{
			"/load":            "Load RDF data from a file",
			"/stats":           "Get statistics about the loaded graph",
			"/subjects":        "List subjects with labels",
			"/subject/{id}":    "Get details about a specific subject",
			"/search":          "Search for subjects by label",
			"/sparql":          "Execute a SPARQL query on the graph",
			"/ask":             "Answer a natural-language question about the graph",
			"/properties":      "List all property names",
			"/property/{name}": "Get subjects and values for a property",
			"/unique_subjects": "Get a list of all unique subjects in the graph.",
			"/unique_objects":  "Get a list of all unique objects in the graph.",
			"/feed":            "RSS feed of recently modified subjects",
		},
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	filePath := r.URL.Query().Get("file_path")
	if filePath == "" {
		respondError(w, http.StatusBadRequest, "query parameter 'file_path' is required")
		return
	}

	g, err := graph.Load(s.cfg.Graph, filePath, os.Stderr)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.setGraph(g)

	// Snapshot failure must not fail the load.
	if err := graph.Snapshot(g, s.cfg.Graph); err != nil {
		fmt.Fprintf(os.Stderr, "warning: snapshot failed: %v\n", err)
	}

	respondJSON(w, http.StatusOK, g.Stats())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}
	respondJSON(w, http.StatusOK, g.Stats())
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}

	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)
	respondJSON(w, http.StatusOK, g.SubjectSummaries(limit, offset))
}

// subjectID extracts and decodes the {id} path variable. Encoded slashes
// let callers pass full IRIs.
func subjectID(r *http.Request) string {
	raw := mux.Vars(r)["id"]
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func (s *Server) handleSubject(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}

	id := subjectID(r)
	subject, ok := g.LookupSubject(id)
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Subject '%s' not found", id))
		return
	}

	respondJSON(w, http.StatusOK, g.Detail(subject))
}

func (s *Server) handleSubjectDID(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}

	id := subjectID(r)
	subject, ok := g.LookupSubject(id)
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Subject '%s' not found", id))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"subject": subject.Value,
		"did":     did.Mint(subject.Value),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	limit := queryInt(r, "limit", 100)
	results := g.SearchByLabel(q, limit)
	if results == nil {
		results = []types.SubjectSummary{}
	}
	respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleSparql(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}

	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Query == "" {
		respondError(w, http.StatusBadRequest, "Query parameter 'query' is required.")
		return
	}

	rows, err := sparql.QueryGraph(body.Query, g)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("SPARQL query error: %v", err))
		return
	}
	if rows == nil {
		rows = []sparql.Row{}
	}
	respondJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Question string `json:"question"`
		Request  string `json:"request"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Question == "" {
		respondError(w, http.StatusBadRequest, "Field 'question' is required.")
		return
	}

	machine, err := s.answerMachine(r.Context())
	if err != nil {
		if errors.Is(err, errNoGraph) {
			respondError(w, http.StatusNotFound, errNoGraph.Error())
			return
		}
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	answerText, err := machine.Answer(r.Context(), body.Question, body.Request)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"question": body.Question,
		"answer":   answerText,
	})
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}
	respondJSON(w, http.StatusOK, g.PropertyNames())
}

func (s *Server) handlePropertyValues(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}

	name := mux.Vars(r)["name"]
	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	values, ok := g.PropertyValues(name, limit, offset)
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Property '%s' not found", name))
		return
	}
	respondJSON(w, http.StatusOK, values)
}

func (s *Server) handleUniqueSubjects(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}

	subjects := g.Subjects()
	out := make([]string, 0, len(subjects))
	for _, subj := range subjects {
		out = append(out, subj.Value)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleUniqueObjects(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}
	respondJSON(w, http.StatusOK, g.UniqueObjects())
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	g := s.currentGraph()
	if g == nil {
		respondError(w, http.StatusNotFound, errNoGraph.Error())
		return
	}

	doc := feed.Build(g, s.cfg.Feed)
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if err := feed.Write(w, doc); err != nil {
		fmt.Fprintf(os.Stderr, "warning: feed write failed: %v\n", err)
	}
}
