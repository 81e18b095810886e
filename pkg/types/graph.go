// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GraphStats summarizes a loaded graph: total triples and the unique
// subject, predicate, and object counts.
type GraphStats struct {
	Triples    int `json:"triples" yaml:"triples"`
	Subjects   int `json:"subjects" yaml:"subjects"`
	Predicates int `json:"predicates" yaml:"predicates"`
	Objects    int `json:"objects" yaml:"objects"`
}

// SubjectSummary is one row of a subject listing. Label falls back to the
// last path segment of the IRI when the subject carries no rdfs:label.
type SubjectSummary struct {
	URI   string `json:"uri" yaml:"uri"`
	Label string `json:"label" yaml:"label"`
}

// PropertyValue is one subject-value pair for a named property.
type PropertyValue struct {
	SubjectURI   string `json:"subject_uri" yaml:"subject_uri"`
	SubjectLabel string `json:"subject_label" yaml:"subject_label"`
	Value        string `json:"value" yaml:"value"`
}

// SubjectDetail holds a subject IRI and its cleaned property map. A property
// value is a string for single-valued properties and a []string once a second
// distinct value appears.
type SubjectDetail struct {
	Subject    string         `json:"subject" yaml:"subject"`
	Properties map[string]any `json:"properties" yaml:"properties"`
}

// SubjectReport is the sectioned analysis of one subject: the named wiki
// properties grouped the way the analysis tool prints them. Empty slices
// mean the property is absent.
type SubjectReport struct {
	Subject             string   `json:"subject" yaml:"subject"`
	Names               []string `json:"names,omitempty" yaml:"names,omitempty"`
	Types               []string `json:"types,omitempty" yaml:"types,omitempty"`
	Descriptions        []string `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
	CreationDates       []string `json:"creation_dates,omitempty" yaml:"creation_dates,omitempty"`
	ModificationDates   []string `json:"modification_dates,omitempty" yaml:"modification_dates,omitempty"`
	EndDates            []string `json:"end_dates,omitempty" yaml:"end_dates,omitempty"`
	Participants        []string `json:"participants,omitempty" yaml:"participants,omitempty"`
	GeographicScopes    []string `json:"geographic_scopes,omitempty" yaml:"geographic_scopes,omitempty"`
	Repositories        []string `json:"repositories,omitempty" yaml:"repositories,omitempty"`
	PartnerInstitutions []string `json:"partner_institutions,omitempty" yaml:"partner_institutions,omitempty"`
	LastEditors         []string `json:"last_editors,omitempty" yaml:"last_editors,omitempty"`
}
