// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rdf

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/semagraph/pkg/types"
)

// Prefixes maps prefix labels to namespace IRIs for Turtle compaction.
type Prefixes map[string]string

// DefaultPrefixes returns the namespace bindings the agent registers for
// Semantic MediaWiki data: swivt, rdf, rdfs, plus wiki and property rooted
// at the configured base IRI.
func DefaultPrefixes(baseIRI string) Prefixes {
	p := Prefixes{
		"rdf":   rdfNS,
		"rdfs":  "http://www.w3.org/2000/01/rdf-schema#",
		"swivt": types.SwivtNamespace,
	}
	if baseIRI != "" {
		p["wiki"] = baseIRI
		p["property"] = baseIRI + "Property-3A"
	}
	return p
}

// WriteTurtle serializes triples as Turtle: a prefix block followed by
// subject groups with ";"-separated predicate-object lines. Subjects keep
// first-seen order so repeated serializations of one load are identical.
func WriteTurtle(w io.Writer, triples []types.Triple, prefixes Prefixes) error {
	labels := make([]string, 0, len(prefixes))
	for label := range prefixes {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		if _, err := fmt.Fprintf(w, "@prefix %s: <%s> .\n", label, prefixes[label]); err != nil {
			return fmt.Errorf("writing turtle: %w", err)
		}
	}

	var order []types.Term
	grouped := map[types.Term][]types.Triple{}
	for _, t := range triples {
		if _, ok := grouped[t.Subject]; !ok {
			order = append(order, t.Subject)
		}
		grouped[t.Subject] = append(grouped[t.Subject], t)
	}

	for _, subject := range order {
		group := grouped[subject]

		if _, err := fmt.Fprintf(w, "\n%s ", compactTerm(subject, prefixes)); err != nil {
			return fmt.Errorf("writing turtle: %w", err)
		}

		for i, t := range group {
			sep := " ;\n\t"
			if i == len(group)-1 {
				sep = " .\n"
			}
			_, err := fmt.Fprintf(w, "%s %s%s",
				compactTerm(t.Predicate, prefixes), compactTerm(t.Object, prefixes), sep)
			if err != nil {
				return fmt.Errorf("writing turtle: %w", err)
			}
		}
	}
	return nil
}

// compactTerm renders a term in Turtle syntax, shortening IRIs against the
// prefix table when the remainder is a plain local name.
func compactTerm(t types.Term, prefixes Prefixes) string {
	if !t.IsIRI() {
		return formatTerm(t)
	}
	if t.Value == types.RDFType {
		return "a"
	}

	best := ""
	bestNS := ""
	for label, ns := range prefixes {
		if !strings.HasPrefix(t.Value, ns) || len(ns) <= len(bestNS) {
			continue
		}
		local := t.Value[len(ns):]
		if local == "" || strings.ContainsAny(local, "/#:") {
			continue
		}
		best = label + ":" + local
		bestNS = ns
	}
	if best != "" {
		return best
	}
	return "<" + t.Value + ">"
}
