// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/semagraph/internal/rdf"
	"github.com/pdiddy/semagraph/pkg/types"
)

// DynamicGraphFile is the Turtle snapshot written after every load.
const DynamicGraphFile = "dynamic_graph.ttl"

// ResolvePath resolves a dump path: bare filenames (no path separator) are
// joined onto the data directory. When no data directory is configured the
// filename is used as-is and a warning is written.
func ResolvePath(cfg types.GraphConfig, path string, w io.Writer) string {
	if strings.ContainsRune(path, '/') {
		return path
	}
	if cfg.DataDir == "" {
		fmt.Fprintln(w, "warning: no data directory configured, using bare filename")
		return path
	}
	return filepath.Join(cfg.DataDir, path)
}

// Load parses an RDF/XML dump into a fresh graph. Bare filenames resolve
// against cfg.DataDir.
func Load(cfg types.GraphConfig, path string, w io.Writer) (*Graph, error) {
	resolved := ResolvePath(cfg, path, w)

	f, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %q not found", resolved)
		}
		return nil, fmt.Errorf("opening dump %s: %w", resolved, err)
	}
	defer f.Close()

	triples, err := rdf.ParseRDFXML(f)
	if err != nil {
		return nil, err
	}

	g := New(Cleaner{BaseIRI: cfg.BaseIRI})
	g.AddAll(triples)

	fmt.Fprintf(w, "parsed %s (%d triples)\n", resolved, g.Len())
	return g, nil
}

// Snapshot serializes the graph to DataDir/dynamic_graph.ttl. Callers treat
// a failure here as a warning, not a load failure.
func Snapshot(g *Graph, cfg types.GraphConfig) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("no data directory configured")
	}

	path := filepath.Join(cfg.DataDir, DynamicGraphFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := rdf.WriteTurtle(f, g.All(), rdf.DefaultPrefixes(cfg.BaseIRI)); err != nil {
		return err
	}
	return f.Close()
}
