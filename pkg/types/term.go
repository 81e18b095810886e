// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared across the agent's stages.
package types

// TermKind distinguishes the three kinds of RDF terms.
type TermKind int

const (
	// IRI is a resource identifier such as <http://kb/ODISSEI>.
	IRI TermKind = iota

	// Literal is a string value, optionally carrying a language tag or
	// a datatype IRI.
	Literal

	// Blank is an anonymous node identified only within one document.
	Blank
)

// String returns the kind name for diagnostics.
func (k TermKind) String() string {
	switch k {
	case IRI:
		return "iri"
	case Literal:
		return "literal"
	case Blank:
		return "blank"
	}
	return "unknown"
}

// Term is a single RDF term: the subject, predicate, or object of a triple.
type Term struct {
	// Kind selects which of the remaining fields are meaningful.
	Kind TermKind `json:"kind" yaml:"kind"`

	// Value is the IRI, the literal's lexical form, or the blank node label.
	Value string `json:"value" yaml:"value"`

	// Lang is the language tag for language-tagged literals (e.g. "en").
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`

	// Datatype is the datatype IRI for typed literals.
	Datatype string `json:"datatype,omitempty" yaml:"datatype,omitempty"`
}

// NewIRI returns an IRI term.
func NewIRI(value string) Term { return Term{Kind: IRI, Value: value} }

// NewLiteral returns a plain literal term.
func NewLiteral(value string) Term { return Term{Kind: Literal, Value: value} }

// NewBlank returns a blank node term with the given label.
func NewBlank(label string) Term { return Term{Kind: Blank, Value: label} }

// IsIRI reports whether the term is an IRI.
func (t Term) IsIRI() bool { return t.Kind == IRI }

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool { return t.Kind == Literal }

// Triple is one subject-predicate-object statement.
type Triple struct {
	Subject   Term `json:"subject" yaml:"subject"`
	Predicate Term `json:"predicate" yaml:"predicate"`
	Object    Term `json:"object" yaml:"object"`
}

// Well-known vocabulary IRIs used throughout the agent. The swivt namespace
// is the Semantic MediaWiki export vocabulary.
const (
	RDFType               = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFSLabel             = "http://www.w3.org/2000/01/rdf-schema#label"
	SwivtNamespace        = "http://semantic-mediawiki.org/swivt/1.0#"
	SwivtCreationDate     = SwivtNamespace + "wikiPageCreationDate"
	SwivtModificationDate = SwivtNamespace + "wikiPageModificationDate"
)
