// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"strings"

	"github.com/pdiddy/semagraph/pkg/types"
)

// Cleaner rewrites the mangled IRIs found in Semantic MediaWiki exports into
// readable names. The wiki percent-encodes page titles into IRI segments
// ("Property-3A" is "Property:", "-23aux" is "#aux") and prefixes everything
// with the site's base IRI.
type Cleaner struct {
	// BaseIRI is the wiki base; occurrences are rewritten to "/".
	BaseIRI string
}

// PropertyName reduces a predicate IRI to a short property name: the last
// path segment with the "Property-3A" prefix and "-23aux" suffix removed.
func (c Cleaner) PropertyName(iri string) string {
	name := iri
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, "Property-3A", "")
	name = strings.ReplaceAll(name, "-23aux", "")
	if c.BaseIRI != "" {
		name = strings.ReplaceAll(name, c.BaseIRI, "/")
	}
	return name
}

// IRI strips a file:// scheme and collapses repeated path segments, keeping
// the first occurrence of each. Wiki exports frequently duplicate segments
// when pages link to themselves.
func (c Cleaner) IRI(uri string) string {
	uri = strings.ReplaceAll(uri, "file://", "")

	parts := strings.Split(uri, "/")
	cleaned := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		if seen[part] {
			continue
		}
		cleaned = append(cleaned, part)
		seen[part] = true
	}

	return strings.Join(cleaned, "/")
}

// Object renders a term as a display value: literals verbatim, IRIs under
// the base IRI as absolute paths, and all other IRIs cleaned.
func (c Cleaner) Object(t types.Term) string {
	if !t.IsIRI() {
		return t.Value
	}
	if c.BaseIRI != "" && strings.Contains(t.Value, c.BaseIRI) {
		return strings.ReplaceAll(t.Value, c.BaseIRI, "/")
	}
	return c.IRI(t.Value)
}
