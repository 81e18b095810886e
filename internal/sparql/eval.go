// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sparql

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/semagraph/internal/graph"
	"github.com/pdiddy/semagraph/pkg/types"
)

const rdfTypeIRI = types.RDFType

// binding maps variable names to the terms they are bound to.
type binding map[string]types.Term

func (b binding) clone() binding {
	nb := make(binding, len(b)+1)
	for k, v := range b {
		nb[k] = v
	}
	return nb
}

// Row is one result row: variable name to rendered value.
type Row map[string]string

// Eval runs a parsed query against the graph and returns the result rows.
// Rows carry the selected variables; unbound OPTIONAL variables are omitted.
func Eval(q *Query, g *graph.Graph) ([]Row, error) {
	bindings := []binding{{}}

	for _, pat := range q.where {
		bindings = matchPattern(g, pat, bindings)
		if len(bindings) == 0 {
			break
		}
	}

	// OPTIONAL groups are left joins: bindings without a match survive.
	for _, group := range q.optional {
		var joined []binding
		for _, b := range bindings {
			extended := []binding{b}
			for _, pat := range group {
				extended = matchPattern(g, pat, extended)
				if len(extended) == 0 {
					break
				}
			}
			if len(extended) == 0 {
				joined = append(joined, b)
			} else {
				joined = append(joined, extended...)
			}
		}
		bindings = joined
	}

	for _, f := range q.filters {
		filtered, err := applyFilter(f, bindings)
		if err != nil {
			return nil, err
		}
		bindings = filtered
	}

	if q.offset > 0 {
		if q.offset > len(bindings) {
			bindings = nil
		} else {
			bindings = bindings[q.offset:]
		}
	}
	if q.limit >= 0 && q.limit < len(bindings) {
		bindings = bindings[:q.limit]
	}

	return project(q, bindings), nil
}

// matchPattern extends every binding with the graph matches of one pattern.
func matchPattern(g *graph.Graph, pat Pattern, bindings []binding) []binding {
	var out []binding

	for _, b := range bindings {
		s := resolve(pat.S, b)
		p := resolve(pat.P, b)

		for _, t := range g.Triples(s, p, nil) {
			nb, ok := unify(pat, t, b)
			if ok {
				out = append(out, nb)
			}
		}
	}
	return out
}

// resolve turns a pattern component into a concrete term when it is ground
// or already bound, nil when it remains a wildcard. Only subject and
// predicate positions use index lookups; objects are unified per-triple so
// literal matching can ignore language tags.
func resolve(n node, b binding) *types.Term {
	switch n.kind {
	case nodeIRI:
		t := types.NewIRI(n.value)
		return &t
	case nodeVar:
		if t, ok := b[n.value]; ok {
			return &t
		}
	}
	return nil
}

// unify checks one triple against a pattern under a binding and returns the
// extended binding.
func unify(pat Pattern, t types.Triple, b binding) (binding, bool) {
	nb := b
	cloned := false

	bind := func(n node, term types.Term) bool {
		switch n.kind {
		case nodeIRI:
			return term.IsIRI() && term.Value == n.value
		case nodeLiteral:
			if !term.IsLiteral() || term.Value != n.value {
				return false
			}
			// An explicit language tag must match; a bare literal
			// pattern matches any tag.
			return n.lang == "" || n.lang == term.Lang
		default: // variable
			if bound, ok := nb[n.value]; ok {
				return bound == term
			}
			// Copy-on-write so sibling matches do not share state.
			if !cloned {
				nb = b.clone()
				cloned = true
			}
			nb[n.value] = term
			return true
		}
	}

	if !bind(pat.S, t.Subject) {
		return nil, false
	}
	if !bind(pat.P, t.Predicate) {
		return nil, false
	}
	if !bind(pat.O, t.Object) {
		return nil, false
	}
	return nb, true
}

// applyFilter keeps bindings whose variable value passes the filter.
// Bindings where the variable is unbound are dropped, matching SPARQL's
// error-is-false semantics.
func applyFilter(f Filter, bindings []binding) ([]binding, error) {
	var re *regexp.Regexp
	if f.kind == filterRegex {
		var err error
		re, err = regexp.Compile(f.arg)
		if err != nil {
			return nil, fmt.Errorf("invalid REGEX pattern %q: %w", f.arg, err)
		}
	}

	var out []binding
	for _, b := range bindings {
		t, ok := b[f.vari]
		if !ok {
			continue
		}

		switch f.kind {
		case filterContains:
			if strings.Contains(t.Value, f.arg) {
				out = append(out, b)
			}
		case filterRegex:
			if re.MatchString(t.Value) {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

// project renders bindings as result rows with the selected variables.
func project(q *Query, bindings []binding) []Row {
	rows := make([]Row, 0, len(bindings))

	for _, b := range bindings {
		vars := q.vars
		if len(vars) == 0 { // SELECT *
			vars = make([]string, 0, len(b))
			for v := range b {
				vars = append(vars, v)
			}
			sort.Strings(vars)
		}

		row := Row{}
		for _, v := range vars {
			if t, ok := b[v]; ok {
				row[v] = t.Value
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// QueryGraph parses and evaluates a query string against the graph.
func QueryGraph(input string, g *graph.Graph) ([]Row, error) {
	q, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return Eval(q, g)
}
