// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rdf

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/semagraph/pkg/types"
)

// WriteJSONLD serializes triples as expanded JSON-LD: one object per subject
// with @id, @type, and value objects per predicate.
func WriteJSONLD(w io.Writer, triples []types.Triple) error {
	var order []types.Term
	grouped := map[types.Term][]types.Triple{}
	for _, t := range triples {
		if _, ok := grouped[t.Subject]; !ok {
			order = append(order, t.Subject)
		}
		grouped[t.Subject] = append(grouped[t.Subject], t)
	}

	docs := make([]map[string]any, 0, len(order))
	for _, subject := range order {
		node := map[string]any{"@id": nodeID(subject)}

		for _, t := range grouped[subject] {
			if t.Predicate.Value == types.RDFType && t.Object.IsIRI() {
				node["@type"] = appendValue(node["@type"], t.Object.Value)
				continue
			}
			node[t.Predicate.Value] = appendValue(node[t.Predicate.Value], objectValue(t.Object))
		}

		docs = append(docs, node)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("writing json-ld: %w", err)
	}
	return nil
}

// nodeID renders a subject as a JSON-LD @id value.
func nodeID(t types.Term) string {
	if t.Kind == types.Blank {
		return "_:" + t.Value
	}
	return t.Value
}

// objectValue renders an object term as a JSON-LD value object.
func objectValue(t types.Term) any {
	switch t.Kind {
	case types.IRI, types.Blank:
		return map[string]any{"@id": nodeID(t)}
	default:
		v := map[string]any{"@value": t.Value}
		if t.Lang != "" {
			v["@language"] = t.Lang
		}
		if t.Datatype != "" {
			v["@type"] = t.Datatype
		}
		return v
	}
}

// appendValue accumulates predicate values as a JSON array.
func appendValue(existing any, value any) []any {
	if existing == nil {
		return []any{value}
	}
	return append(existing.([]any), value)
}
