// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph holds the in-memory knowledge graph: an indexed triple store
// with the lookup, search, and property surfaces the API serves.
package graph

import (
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/semagraph/pkg/types"
)

// Graph is an append-only triple store indexed by subject and predicate.
// Writes happen during a load; reads may run concurrently afterwards.
type Graph struct {
	mu      sync.RWMutex
	cleaner Cleaner

	triples     []types.Triple
	bySubject   map[string][]int
	byPredicate map[string][]int
	labels      map[string]string
}

// New returns an empty graph configured with the given cleaner.
func New(cleaner Cleaner) *Graph {
	return &Graph{
		cleaner:     cleaner,
		bySubject:   map[string][]int{},
		byPredicate: map[string][]int{},
		labels:      map[string]string{},
	}
}

// Cleaner returns the graph's IRI cleaner.
func (g *Graph) Cleaner() Cleaner { return g.cleaner }

// termKey makes map keys for subject terms; blank nodes and IRIs must not
// collide even when their values match.
func termKey(t types.Term) string {
	if t.Kind == types.Blank {
		return "_:" + t.Value
	}
	return t.Value
}

// Add appends one triple and updates the indexes.
func (g *Graph) Add(t types.Triple) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := len(g.triples)
	g.triples = append(g.triples, t)

	sk := termKey(t.Subject)
	g.bySubject[sk] = append(g.bySubject[sk], idx)
	g.byPredicate[t.Predicate.Value] = append(g.byPredicate[t.Predicate.Value], idx)

	if t.Predicate.Value == types.RDFSLabel && t.Object.IsLiteral() {
		if _, ok := g.labels[sk]; !ok {
			g.labels[sk] = t.Object.Value
		}
	}
}

// AddAll appends a batch of triples.
func (g *Graph) AddAll(ts []types.Triple) {
	for _, t := range ts {
		g.Add(t)
	}
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.triples)
}

// All returns a copy of every triple in insertion order.
func (g *Graph) All() []types.Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]types.Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Triples returns triples matching the pattern. Nil components are wildcards.
func (g *Graph) Triples(s, p, o *types.Term) []types.Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()

	// Narrow the scan with the subject or predicate index when bound.
	var candidates []int
	switch {
	case s != nil:
		candidates = g.bySubject[termKey(*s)]
	case p != nil:
		candidates = g.byPredicate[p.Value]
	default:
		candidates = nil
	}

	match := func(t types.Triple) bool {
		if s != nil && t.Subject != *s {
			return false
		}
		if p != nil && t.Predicate != *p {
			return false
		}
		if o != nil && t.Object != *o {
			return false
		}
		return true
	}

	var out []types.Triple
	if candidates != nil {
		for _, i := range candidates {
			if match(g.triples[i]) {
				out = append(out, g.triples[i])
			}
		}
		return out
	}
	for _, t := range g.triples {
		if match(t) {
			out = append(out, t)
		}
	}
	return out
}

// PredicateObjects returns every (predicate, object) pair for a subject.
func (g *Graph) PredicateObjects(subject types.Term) []types.Triple {
	return g.Triples(&subject, nil, nil)
}

// SubjectObjects returns every (subject, object) pair for a predicate.
func (g *Graph) SubjectObjects(predicate types.Term) []types.Triple {
	return g.Triples(nil, &predicate, nil)
}

// ObjectsFor returns the objects of all (subject, predicate, ?) triples.
func (g *Graph) ObjectsFor(subject, predicate types.Term) []types.Term {
	ts := g.Triples(&subject, &predicate, nil)
	out := make([]types.Term, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Object)
	}
	return out
}

// Subjects returns the unique subject terms, sorted by value.
func (g *Graph) Subjects() []types.Term {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]types.Term, len(g.bySubject))
	for _, t := range g.triples {
		seen[termKey(t.Subject)] = t.Subject
	}
	out := make([]types.Term, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// Predicates returns the unique predicate IRIs, sorted.
func (g *Graph) Predicates() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, 0, len(g.byPredicate))
	for p := range g.byPredicate {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// UniqueObjects returns the cleaned display values of all objects, sorted
// and deduplicated.
func (g *Graph) UniqueObjects() []string {
	g.mu.RLock()
	triples := g.triples
	cleaner := g.cleaner
	g.mu.RUnlock()

	seen := map[string]bool{}
	for _, t := range triples {
		seen[cleaner.Object(t.Object)] = true
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Stats counts triples and unique subjects, predicates, and objects.
func (g *Graph) Stats() types.GraphStats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	subjects := map[string]bool{}
	predicates := map[string]bool{}
	objects := map[types.Term]bool{}
	for _, t := range g.triples {
		subjects[termKey(t.Subject)] = true
		predicates[t.Predicate.Value] = true
		objects[t.Object] = true
	}

	return types.GraphStats{
		Triples:    len(g.triples),
		Subjects:   len(subjects),
		Predicates: len(predicates),
		Objects:    len(objects),
	}
}

// LabelOf returns the first rdfs:label of a subject.
func (g *Graph) LabelOf(subject types.Term) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	label, ok := g.labels[termKey(subject)]
	return label, ok
}

// displayLabel falls back to the last IRI path segment when a subject has
// no rdfs:label.
func (g *Graph) displayLabel(subject types.Term) string {
	if label, ok := g.LabelOf(subject); ok {
		return label
	}
	v := subject.Value
	if idx := strings.LastIndex(v, "/"); idx >= 0 {
		return v[idx+1:]
	}
	return v
}

// SubjectSummaries lists subjects with display labels, paginated.
func (g *Graph) SubjectSummaries(limit, offset int) []types.SubjectSummary {
	subjects := g.Subjects()

	if offset < 0 {
		offset = 0
	}
	if offset > len(subjects) {
		offset = len(subjects)
	}
	end := len(subjects)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]types.SubjectSummary, 0, end-offset)
	for _, s := range subjects[offset:end] {
		out = append(out, types.SubjectSummary{
			URI:   s.Value,
			Label: g.displayLabel(s),
		})
	}
	return out
}

// LookupSubject resolves a subject identifier: a full http(s) IRI is used
// directly, otherwise the first subject whose rdfs:label matches exactly,
// otherwise the first subject whose IRI ends in the identifier segment.
func (g *Graph) LookupSubject(id string) (types.Term, bool) {
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return types.NewIRI(id), true
	}

	label := types.NewIRI(types.RDFSLabel)
	want := types.NewLiteral(id)
	for _, t := range g.Triples(nil, &label, &want) {
		return t.Subject, true
	}

	for _, s := range g.Subjects() {
		v := s.Value
		if idx := strings.LastIndex(v, "/"); idx >= 0 {
			v = v[idx+1:]
		}
		if v == id {
			return s, true
		}
	}

	return types.Term{}, false
}

// SearchByLabel returns subjects whose rdfs:label contains the query,
// case-insensitively, up to limit results.
func (g *Graph) SearchByLabel(query string, limit int) []types.SubjectSummary {
	label := types.NewIRI(types.RDFSLabel)
	lower := strings.ToLower(query)

	var out []types.SubjectSummary
	for _, t := range g.Triples(nil, &label, nil) {
		if !t.Object.IsLiteral() {
			continue
		}
		if !strings.Contains(strings.ToLower(t.Object.Value), lower) {
			continue
		}
		out = append(out, types.SubjectSummary{
			URI:   t.Subject.Value,
			Label: t.Object.Value,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// PropertyNames returns the cleaned names of every predicate, sorted and
// deduplicated.
func (g *Graph) PropertyNames() []string {
	seen := map[string]bool{}
	for _, p := range g.Predicates() {
		seen[g.cleaner.PropertyName(p)] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// PropertyValues returns subject-value rows for every predicate whose
// cleaned name equals name, paginated. The second return value is false
// when no predicate matches.
func (g *Graph) PropertyValues(name string, limit, offset int) ([]types.PropertyValue, bool) {
	var pairs []types.Triple
	matched := false
	for _, p := range g.Predicates() {
		if g.cleaner.PropertyName(p) != name {
			continue
		}
		matched = true
		pairs = append(pairs, g.SubjectObjects(types.NewIRI(p))...)
	}
	if !matched {
		return nil, false
	}

	if offset < 0 {
		offset = 0
	}
	if offset > len(pairs) {
		offset = len(pairs)
	}
	end := len(pairs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]types.PropertyValue, 0, end-offset)
	for _, t := range pairs[offset:end] {
		out = append(out, types.PropertyValue{
			SubjectURI:   t.Subject.Value,
			SubjectLabel: g.displayLabel(t.Subject),
			Value:        g.cleaner.Object(t.Object),
		})
	}
	return out, true
}

// Detail collects a subject's properties under cleaned names. Values are
// strings until a second distinct value arrives, then they become lists.
// Duplicate values are dropped.
func (g *Graph) Detail(subject types.Term) types.SubjectDetail {
	props := map[string]any{}

	for _, t := range g.PredicateObjects(subject) {
		name := g.cleaner.PropertyName(t.Predicate.Value)

		var value string
		if t.Object.IsIRI() {
			value = g.cleaner.IRI(t.Object.Value)
		} else {
			value = t.Object.Value
		}

		existing, ok := props[name]
		if !ok {
			props[name] = value
			continue
		}

		switch prev := existing.(type) {
		case []string:
			dup := false
			for _, v := range prev {
				if v == value {
					dup = true
					break
				}
			}
			if !dup {
				props[name] = append(prev, value)
			}
		case string:
			if prev != value {
				props[name] = []string{prev, value}
			}
		}
	}

	return types.SubjectDetail{
		Subject:    subject.Value,
		Properties: props,
	}
}

// Report gathers the named wiki properties of a subject for the sectioned
// analysis view. Properties are matched by cleaned name so the wiki's
// "Property-3A" mangling does not leak into callers.
func (g *Graph) Report(subject types.Term) types.SubjectReport {
	report := types.SubjectReport{Subject: subject.Value}

	buckets := map[string]*[]string{
		"22-rdf-syntax-ns#type":        &report.Types,
		"rdf-schema#label":             &report.Names,
		"1.0#wikiPageCreationDate":     &report.CreationDates,
		"1.0#wikiPageModificationDate": &report.ModificationDates,
		"description":                  &report.Descriptions,
		"endDate":                      &report.EndDates,
		"participant":                  &report.Participants,
		"geographicScope":              &report.GeographicScopes,
		"hasRepository":                &report.Repositories,
		"partnerInstitution":           &report.PartnerInstitutions,
		"Last_editor_is":               &report.LastEditors,
	}

	for _, t := range g.PredicateObjects(subject) {
		bucket, ok := buckets[g.cleaner.PropertyName(t.Predicate.Value)]
		if !ok {
			continue
		}
		value := g.cleaner.Object(t.Object)
		dup := false
		for _, v := range *bucket {
			if v == value {
				dup = true
				break
			}
		}
		if !dup {
			*bucket = append(*bucket, value)
		}
	}

	return report
}
