// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sparql evaluates a SPARQL SELECT subset against the in-memory
// graph: PREFIX declarations, triple patterns, OPTIONAL groups, FILTER
// CONTAINS/REGEX, and LIMIT/OFFSET. That is the slice of the language the
// agent's query surface accepts.
package sparql

import (
	"fmt"
	"strings"
	"unicode"
)

// nodeKind distinguishes pattern components.
type nodeKind int

const (
	nodeVar nodeKind = iota
	nodeIRI
	nodeLiteral
)

// node is one component of a triple pattern.
type node struct {
	kind  nodeKind
	value string
	lang  string
}

// Pattern is a single triple pattern from a WHERE clause.
type Pattern struct {
	S, P, O node
}

// filterKind distinguishes FILTER functions.
type filterKind int

const (
	filterContains filterKind = iota
	filterRegex
)

// Filter constrains a bound variable.
type Filter struct {
	kind filterKind
	vari string
	arg  string
}

// Query is a parsed SELECT query.
type Query struct {
	prefixes map[string]string
	vars     []string // empty means SELECT *
	where    []Pattern
	optional [][]Pattern
	filters  []Filter
	limit    int
	offset   int
}

// ParseError reports a syntax error with the offending token position.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sparql parse error at token %d: %s", e.Pos, e.Message)
}

// Parse parses a SELECT query in the supported subset.
func Parse(input string) (*Query, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, q: &Query{prefixes: map[string]string{}, limit: -1}}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.q, nil
}

// --- lexer ---

type token struct {
	text    string
	literal bool // quoted string
	pos     int
}

func lex(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)

	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case r == '#': // comment to end of line
			for i < len(runes) && runes[i] != '\n' {
				i++
			}

		case r == '"':
			var sb strings.Builder
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				if runes[j] == '\\' && j+1 < len(runes) {
					j++
				}
				sb.WriteRune(runes[j])
				j++
			}
			if j >= len(runes) {
				return nil, &ParseError{Pos: len(tokens), Message: "unterminated string literal"}
			}
			tokens = append(tokens, token{text: sb.String(), literal: true, pos: len(tokens)})
			i = j + 1
			// Optional language tag.
			if i < len(runes) && runes[i] == '@' {
				j = i + 1
				for j < len(runes) && (unicode.IsLetter(runes[j]) || runes[j] == '-') {
					j++
				}
				tokens = append(tokens, token{text: string(runes[i:j]), pos: len(tokens)})
				i = j
			}

		case r == '<':
			j := i + 1
			for j < len(runes) && runes[j] != '>' {
				j++
			}
			if j >= len(runes) {
				return nil, &ParseError{Pos: len(tokens), Message: "unterminated IRI"}
			}
			tokens = append(tokens, token{text: string(runes[i : j+1]), pos: len(tokens)})
			i = j + 1

		case strings.ContainsRune("{}().,", r):
			tokens = append(tokens, token{text: string(r), pos: len(tokens)})
			i++

		default:
			j := i
			for j < len(runes) && !unicode.IsSpace(runes[j]) && !strings.ContainsRune("{}(),\"<", runes[j]) {
				// A dot ends a token only when it terminates a pattern,
				// not inside a prefixed name or number.
				if runes[j] == '.' && (j+1 >= len(runes) || unicode.IsSpace(runes[j+1]) || runes[j+1] == '}') {
					break
				}
				j++
			}
			if j == i {
				return nil, &ParseError{Pos: len(tokens), Message: fmt.Sprintf("unexpected character %q", r)}
			}
			tokens = append(tokens, token{text: string(runes[i:j]), pos: len(tokens)})
			i = j
		}
	}

	return tokens, nil
}

// --- parser ---

type parser struct {
	tokens []token
	i      int
	q      *Query
}

func (p *parser) peek() (token, bool) {
	if p.i >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.i], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.i++
	}
	return t, ok
}

func (p *parser) errf(format string, args ...any) error {
	return &ParseError{Pos: p.i, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(text string) error {
	t, ok := p.next()
	if !ok {
		return p.errf("expected %q, found end of query", text)
	}
	if t.literal || !strings.EqualFold(t.text, text) {
		return p.errf("expected %q, found %q", text, t.text)
	}
	return nil
}

func (p *parser) parse() error {
	// PREFIX declarations.
	for {
		t, ok := p.peek()
		if !ok {
			return p.errf("expected SELECT")
		}
		if t.literal || !strings.EqualFold(t.text, "PREFIX") {
			break
		}
		p.i++
		if err := p.parsePrefix(); err != nil {
			return err
		}
	}

	if err := p.expect("SELECT"); err != nil {
		return err
	}
	if err := p.parseSelectVars(); err != nil {
		return err
	}
	if err := p.expect("WHERE"); err != nil {
		return err
	}
	if err := p.parseGroup(&p.q.where, true); err != nil {
		return err
	}
	return p.parseModifiers()
}

func (p *parser) parsePrefix() error {
	label, ok := p.next()
	if !ok || !strings.HasSuffix(label.text, ":") {
		return p.errf("expected prefix label ending in ':'")
	}
	iri, ok := p.next()
	if !ok || !strings.HasPrefix(iri.text, "<") {
		return p.errf("expected IRI after prefix label %q", label.text)
	}
	p.q.prefixes[strings.TrimSuffix(label.text, ":")] = strings.Trim(iri.text, "<>")
	return nil
}

func (p *parser) parseSelectVars() error {
	for {
		t, ok := p.peek()
		if !ok {
			return p.errf("expected WHERE")
		}
		switch {
		case t.text == "*" && !t.literal:
			p.i++
		case strings.HasPrefix(t.text, "?") && !t.literal:
			p.q.vars = append(p.q.vars, strings.TrimPrefix(t.text, "?"))
			p.i++
		default:
			if len(p.q.vars) == 0 && t.text != "*" && !strings.EqualFold(t.text, "WHERE") {
				return p.errf("expected variables or '*' after SELECT, found %q", t.text)
			}
			return nil
		}
	}
}

// parseGroup parses a braced group of patterns. Only the top-level group
// may contain OPTIONAL and FILTER clauses.
func (p *parser) parseGroup(out *[]Pattern, topLevel bool) error {
	if err := p.expect("{"); err != nil {
		return err
	}

	for {
		t, ok := p.peek()
		if !ok {
			return p.errf("unterminated group: expected '}'")
		}

		switch {
		case t.text == "}" && !t.literal:
			p.i++
			return nil

		case t.text == "." && !t.literal:
			p.i++

		case !t.literal && strings.EqualFold(t.text, "OPTIONAL"):
			if !topLevel {
				return p.errf("nested OPTIONAL is not supported")
			}
			p.i++
			var group []Pattern
			if err := p.parseGroup(&group, false); err != nil {
				return err
			}
			p.q.optional = append(p.q.optional, group)

		case !t.literal && strings.EqualFold(t.text, "FILTER"):
			if !topLevel {
				return p.errf("FILTER inside OPTIONAL is not supported")
			}
			p.i++
			if err := p.parseFilter(); err != nil {
				return err
			}

		default:
			pat, err := p.parsePattern()
			if err != nil {
				return err
			}
			*out = append(*out, pat)
		}
	}
}

func (p *parser) parsePattern() (Pattern, error) {
	s, err := p.parseNode()
	if err != nil {
		return Pattern{}, err
	}
	pr, err := p.parseNode()
	if err != nil {
		return Pattern{}, err
	}
	o, err := p.parseNode()
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{S: s, P: pr, O: o}, nil
}

func (p *parser) parseNode() (node, error) {
	t, ok := p.next()
	if !ok {
		return node{}, p.errf("expected pattern term, found end of query")
	}

	if t.literal {
		n := node{kind: nodeLiteral, value: t.text}
		// Consume an attached language tag.
		if nt, ok := p.peek(); ok && !nt.literal && strings.HasPrefix(nt.text, "@") {
			n.lang = strings.TrimPrefix(nt.text, "@")
			p.i++
		}
		return n, nil
	}

	switch {
	case strings.HasPrefix(t.text, "?"):
		return node{kind: nodeVar, value: strings.TrimPrefix(t.text, "?")}, nil

	case strings.HasPrefix(t.text, "<"):
		return node{kind: nodeIRI, value: strings.Trim(t.text, "<>")}, nil

	case t.text == "a":
		return node{kind: nodeIRI, value: rdfTypeIRI}, nil

	case strings.Contains(t.text, ":"):
		parts := strings.SplitN(t.text, ":", 2)
		ns, ok := p.q.prefixes[parts[0]]
		if !ok {
			return node{}, p.errf("unknown prefix %q", parts[0])
		}
		return node{kind: nodeIRI, value: ns + parts[1]}, nil
	}

	return node{}, p.errf("cannot parse pattern term %q", t.text)
}

func (p *parser) parseFilter() error {
	fn, ok := p.next()
	if !ok {
		return p.errf("expected filter function")
	}

	var kind filterKind
	switch strings.ToUpper(fn.text) {
	case "CONTAINS":
		kind = filterContains
	case "REGEX":
		kind = filterRegex
	default:
		return p.errf("unsupported filter function %q: use CONTAINS or REGEX", fn.text)
	}

	if err := p.expect("("); err != nil {
		return err
	}
	v, ok := p.next()
	if !ok || !strings.HasPrefix(v.text, "?") || v.literal {
		return p.errf("expected variable as first filter argument")
	}
	if err := p.expect(","); err != nil {
		return err
	}
	arg, ok := p.next()
	if !ok || !arg.literal {
		return p.errf("expected string literal as second filter argument")
	}
	if err := p.expect(")"); err != nil {
		return err
	}

	p.q.filters = append(p.q.filters, Filter{
		kind: kind,
		vari: strings.TrimPrefix(v.text, "?"),
		arg:  arg.text,
	})
	return nil
}

func (p *parser) parseModifiers() error {
	for {
		t, ok := p.next()
		if !ok {
			return nil
		}
		if t.literal {
			return p.errf("unexpected string %q after WHERE clause", t.text)
		}

		switch strings.ToUpper(t.text) {
		case "LIMIT":
			n, err := p.parseInt()
			if err != nil {
				return err
			}
			p.q.limit = n
		case "OFFSET":
			n, err := p.parseInt()
			if err != nil {
				return err
			}
			p.q.offset = n
		default:
			return p.errf("unexpected token %q after WHERE clause", t.text)
		}
	}
}

func (p *parser) parseInt() (int, error) {
	t, ok := p.next()
	if !ok {
		return 0, p.errf("expected number")
	}
	var n int
	if _, err := fmt.Sscanf(t.text, "%d", &n); err != nil || n < 0 {
		return 0, p.errf("expected non-negative number, found %q", t.text)
	}
	return n, nil
}
