package ontoenv

import (
	"fmt"
	"strings"
)

// ********************
// * Term encoding    *
// ********************

// Term is an IRI or literal, carried around as its raw NTriple-syntax
// string rather than a parsed struct: the environment core passes terms
// through untouched far more often than it inspects them, so this avoids
// allocating a richer representation for the common path.
type Term string

// NewResourceTerm wraps uri as a resource Term (angle-bracket NTriple form).
func NewResourceTerm(uri string) Term {
	return Term(fmt.Sprintf("<%s>", uri))
}

// NewLiteralTerm builds a literal Term, appending a language tag or
// datatype IRI when given; an empty language and datatype produce a plain
// literal.
func NewLiteralTerm(literal, language, datatype string) Term {
	t := fmt.Sprintf("\"%s\"", literal)
	if language != "" {
		t += fmt.Sprintf("@%s", language)
	}
	if datatype != "" {
		t += fmt.Sprintf("^^<%s>", datatype)
	}
	return Term(t)
}

// String returns the term's raw NTriple-syntax form.
func (t Term) String() string {
	return string(t)
}

// IsResource reports whether t is bracket-delimited, i.e. an IRI.
func (t Term) IsResource() bool {
	s := string(t)
	return len(s) > 2 && string(s[0]) == "<" && string(s[len(s)-1]) == ">"
}

// IsLiteral reports whether t is quote-delimited, with or without a
// trailing language tag or datatype suffix.
func (t Term) IsLiteral() bool {
	s := string(t)
	return len(s) > 2 && string(s[0]) == "\"" && (string(s[len(s)-1]) == "\"" || strings.Contains(s, "\"@") || strings.Contains(s, "\"^^"))
}

// Value strips the NTriple delimiters, returning the bare IRI or literal
// lexical form.
func (t Term) Value() string {
	s := string(t)
	if len(s) > 2 {
		if string(s[0]) == "<" && string(s[len(s)-1]) == ">" {
			return s[1 : len(s)-1]
		} else if string(s[0]) == "\"" && string(s[len(s)-1]) == "\"" {
			return s[1 : len(s)-1]
		} else if string(s[0]) == "\"" && strings.Contains(s, "\"@") {
			atPos := strings.LastIndex(s, "@")
			return s[1 : atPos-1]
		} else if string(s[0]) == "\"" && strings.Contains(s, "\"^^") {
			atPos := strings.LastIndex(s, "^^")
			return s[1 : atPos-1]
		} else {
			return ""
		}
	}
	return ""
}

// Language returns t's language tag, or "" if t isn't a literal or carries none.
func (t Term) Language() string {
	s := string(t)
	if len(s) > 2 && string(s[0]) == "\"" && strings.Contains(s, "\"@") {
		atPos := strings.LastIndex(s, "@")
		return s[atPos+1:]
	}
	return ""
}

// Datatype returns t's datatype IRI, or "" if t isn't a literal or carries none.
func (t Term) Datatype() string {
	s := string(t)
	if len(s) > 2 && string(s[0]) == "\"" && strings.Contains(s, "\"^^") {
		atPos := strings.LastIndex(s, "^^")
		return Term(s[atPos+2:]).Value()
	}
	return ""
}

// **********************
// * Triples            *
// **********************

// Triple is one subject-predicate-object statement extracted from an
// ingested ontology document, before it is placed into a named graph.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple builds a Triple after checking subj and pred are resources and
// obj is a resource or literal; construct a Triple literal directly when
// the terms are already known-valid.
func NewTriple(subj, pred, obj Term) (*Triple, error) {
	if !subj.IsResource() {
		return nil, fmt.Errorf("Subject '%s' is not a resource", subj)
	}
	if !pred.IsResource() {
		return nil, fmt.Errorf("Predicate '%s' is not a resource", pred)
	}
	if !obj.IsResource() && !obj.IsLiteral() {
		return nil, fmt.Errorf("Object '%s' is not a resource or literal", obj)
	}
	// All fine, return triple
	trp := Triple{
		Subject:   subj,
		Predicate: pred,
		Object:    obj,
	}
	return &trp, nil
}
