// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the knowledge graph over an HTTP JSON API.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/pdiddy/semagraph/internal/answer"
	"github.com/pdiddy/semagraph/internal/graph"
	"github.com/pdiddy/semagraph/pkg/types"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Server holds the loaded graph and serves the query API. The graph pointer
// is swapped atomically on load; handlers take a read lock to fetch it.
type Server struct {
	cfg types.AgentConfig
	llm answer.LLM

	router *mux.Router
	srv    *http.Server

	mu         sync.RWMutex
	graph      *graph.Graph
	store      *answer.Store
	storeDirty bool
}

// New builds a server. llm may be nil; the ask endpoint then reports that
// no model is configured.
func New(cfg types.AgentConfig, llm answer.LLM) *Server {
	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == 0 {
		port = 8000
	}
	readTimeout := cfg.Server.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := cfg.Server.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 15 * time.Second
	}

	router := mux.NewRouter().UseEncodedPath()
	s := &Server{
		cfg:    cfg,
		llm:    llm,
		router: router,
		srv: &http.Server{
			Handler:      handlers.LoggingHandler(os.Stdout, router),
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.HandleFunc("/load", s.handleLoad).Methods(http.MethodPost)
	s.router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	s.router.HandleFunc("/subjects", s.handleSubjects).Methods(http.MethodGet)
	s.router.HandleFunc("/subject/{id}", s.handleSubject).Methods(http.MethodGet)
	s.router.HandleFunc("/subject/{id}/did", s.handleSubjectDID).Methods(http.MethodGet)
	s.router.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	s.router.HandleFunc("/sparql", s.handleSparql).Methods(http.MethodPost)
	s.router.HandleFunc("/ask", s.handleAsk).Methods(http.MethodPost)
	s.router.HandleFunc("/properties", s.handleProperties).Methods(http.MethodGet)
	s.router.HandleFunc("/property/{name}", s.handlePropertyValues).Methods(http.MethodGet)
	s.router.HandleFunc("/unique_subjects", s.handleUniqueSubjects).Methods(http.MethodGet)
	s.router.HandleFunc("/unique_objects", s.handleUniqueObjects).Methods(http.MethodGet)
	s.router.HandleFunc("/feed", s.handleFeed).Methods(http.MethodGet)
}

// Handler returns the routing handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// LoadStartupDump loads cfg.Graph.DumpFile when one is configured. The dump
// file name is passed through unvalidated; a bad name surfaces as a load
// error.
func (s *Server) LoadStartupDump(w io.Writer) error {
	if s.cfg.Graph.DumpFile == "" {
		return nil
	}
	g, err := graph.Load(s.cfg.Graph, s.cfg.Graph.DumpFile, w)
	if err != nil {
		return fmt.Errorf("loading startup dump: %w", err)
	}
	s.setGraph(g)
	if err := graph.Snapshot(g, s.cfg.Graph); err != nil {
		fmt.Fprintf(w, "warning: snapshot failed: %v\n", err)
	}
	return nil
}

// setGraph swaps in a freshly loaded graph and marks the answer store stale.
func (s *Server) setGraph(g *graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = g
	s.storeDirty = true
}

// currentGraph returns the loaded graph, or nil before the first load.
func (s *Server) currentGraph() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// answerMachine lazily opens the SQLite store and refills it after a load.
func (s *Server) answerMachine(ctx context.Context) (*answer.Machine, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("no answer model configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.graph == nil {
		return nil, errNoGraph
	}

	if s.store == nil {
		dbFile := s.cfg.Answer.DBFile
		if dbFile == "" {
			dbFile = "tempodata.db"
		}
		store, err := answer.NewStore(dbFile)
		if err != nil {
			return nil, err
		}
		s.store = store
	}

	if s.storeDirty {
		if err := s.store.Populate(ctx, s.graph.All()); err != nil {
			return nil, err
		}
		s.storeDirty = false
	}

	return &answer.Machine{
		LLM:        s.llm,
		Store:      s.store,
		MaxRetries: s.cfg.Answer.MaxRetries,
	}, nil
}
