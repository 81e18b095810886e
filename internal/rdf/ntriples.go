// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rdf

import (
	"fmt"
	"io"

	"github.com/pdiddy/semagraph/pkg/types"
)

// WriteNTriples serializes triples as N-Triples, one statement per line.
func WriteNTriples(w io.Writer, triples []types.Triple) error {
	for _, t := range triples {
		_, err := fmt.Fprintf(w, "%s %s %s .\n",
			formatTerm(t.Subject), formatTerm(t.Predicate), formatTerm(t.Object))
		if err != nil {
			return fmt.Errorf("writing n-triples: %w", err)
		}
	}
	return nil
}

// formatTerm renders a term in N-Triples syntax.
func formatTerm(t types.Term) string {
	switch t.Kind {
	case types.Blank:
		return "_:" + t.Value
	case types.Literal:
		// %q escaping is valid N-Triples string escaping.
		s := fmt.Sprintf("%q", t.Value)
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return "<" + t.Value + ">"
	}
}
