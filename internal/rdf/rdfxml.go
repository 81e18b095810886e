// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rdf reads and writes the wire formats the agent exchanges:
// RDF/XML on the way in, Turtle, N-Triples, and JSON-LD on the way out.
// The parser covers the profile Semantic MediaWiki dumps actually use,
// not the whole RDF/XML grammar.
package rdf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/semagraph/pkg/types"
)

const (
	rdfNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xmlNS = "http://www.w3.org/XML/1998/namespace"
)

// ParseRDFXML decodes an RDF/XML document into triples. Node elements may
// be rdf:Description or typed nodes (which emit an rdf:type triple), subjects
// come from rdf:about or rdf:nodeID, and property elements carry either an
// rdf:resource reference, a nested node, or literal text with optional
// xml:lang and rdf:datatype.
func ParseRDFXML(r io.Reader) ([]types.Triple, error) {
	p := &xmlParser{decoder: xml.NewDecoder(r)}

	if err := p.run(); err != nil {
		return nil, fmt.Errorf("parsing rdf/xml: %w", err)
	}
	return p.triples, nil
}

type xmlParser struct {
	decoder *xml.Decoder
	triples []types.Triple
	blankN  int
}

func (p *xmlParser) run() error {
	for {
		tok, err := p.decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if start.Name.Space == rdfNS && start.Name.Local == "RDF" {
			if err := p.parseNodeList(); err != nil {
				return err
			}
			continue
		}

		// A document whose root is a single node element.
		if _, err := p.parseNode(start); err != nil {
			return err
		}
	}
}

// parseNodeList consumes the children of rdf:RDF until its end element.
func (p *xmlParser) parseNodeList() error {
	for {
		tok, err := p.decoder.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if _, err := p.parseNode(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// parseNode consumes one node element and returns its subject term.
func (p *xmlParser) parseNode(start xml.StartElement) (types.Term, error) {
	subject := p.subjectOf(start)

	// A typed node element asserts rdf:type.
	if start.Name.Space != rdfNS || start.Name.Local != "Description" {
		p.emit(subject, types.NewIRI(types.RDFType), types.NewIRI(start.Name.Space+start.Name.Local))
	}

	for {
		tok, err := p.decoder.Token()
		if err != nil {
			return types.Term{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.parseProperty(subject, t); err != nil {
				return types.Term{}, err
			}
		case xml.EndElement:
			return subject, nil
		}
	}
}

// parseProperty consumes one property element of the given subject.
func (p *xmlParser) parseProperty(subject types.Term, start xml.StartElement) error {
	predicate := types.NewIRI(start.Name.Space + start.Name.Local)

	var lang, datatype string
	for _, attr := range start.Attr {
		switch {
		case attr.Name.Space == rdfNS && attr.Name.Local == "resource":
			p.emit(subject, predicate, types.NewIRI(attr.Value))
			return p.decoder.Skip()
		case attr.Name.Space == rdfNS && attr.Name.Local == "nodeID":
			p.emit(subject, predicate, types.NewBlank(attr.Value))
			return p.decoder.Skip()
		case attr.Name.Space == rdfNS && attr.Name.Local == "datatype":
			datatype = attr.Value
		case attr.Name.Local == "lang" && (attr.Name.Space == "xml" || attr.Name.Space == xmlNS):
			lang = attr.Value
		}
	}

	var text strings.Builder
	for {
		tok, err := p.decoder.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			// A nested node element: the property points at its subject.
			object, err := p.parseNode(t)
			if err != nil {
				return err
			}
			p.emit(subject, predicate, object)
			return p.decoder.Skip()
		case xml.EndElement:
			object := types.Term{
				Kind:     types.Literal,
				Value:    text.String(),
				Lang:     lang,
				Datatype: datatype,
			}
			p.emit(subject, predicate, object)
			return nil
		}
	}
}

// subjectOf derives the subject term from a node element's attributes.
// Without rdf:about or rdf:nodeID a fresh blank node is generated.
func (p *xmlParser) subjectOf(start xml.StartElement) types.Term {
	for _, attr := range start.Attr {
		if attr.Name.Space != rdfNS {
			continue
		}
		switch attr.Name.Local {
		case "about":
			return types.NewIRI(attr.Value)
		case "nodeID":
			return types.NewBlank(attr.Value)
		}
	}
	p.blankN++
	return types.NewBlank(fmt.Sprintf("b%d", p.blankN))
}

func (p *xmlParser) emit(s, pred, o types.Term) {
	p.triples = append(p.triples, types.Triple{Subject: s, Predicate: pred, Object: o})
}
