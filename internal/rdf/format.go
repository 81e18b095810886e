// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rdf

import (
	"fmt"
	"io"

	"github.com/pdiddy/semagraph/pkg/types"
)

// Format identifies a serialization format.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format name, accepting common aliases.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "turtle", "ttl", "":
		return FormatTurtle, nil
	case "ntriples", "nt", "n-triples":
		return FormatNTriples, nil
	case "jsonld", "json-ld":
		return FormatJSONLD, nil
	}
	return "", fmt.Errorf("unsupported format %q: use turtle, ntriples, or jsonld", name)
}

// Extension returns the conventional file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatNTriples:
		return ".nt"
	case FormatJSONLD:
		return ".jsonld"
	default:
		return ".ttl"
	}
}

// Write serializes triples in the given format.
func Write(w io.Writer, triples []types.Triple, f Format, prefixes Prefixes) error {
	switch f {
	case FormatTurtle:
		return WriteTurtle(w, triples, prefixes)
	case FormatNTriples:
		return WriteNTriples(w, triples)
	case FormatJSONLD:
		return WriteJSONLD(w, triples)
	}
	return fmt.Errorf("unsupported format %q", f)
}
