package ontoenv

import (
	"strings"
	"testing"
)

func sampleTriples() []Triple {
	return []Triple{
		{
			Subject:   NewResourceTerm("https://example.com/a"),
			Predicate: NewResourceTerm("https://example.com/rel"),
			Object:    NewResourceTerm("https://example.com/b"),
		},
		{
			Subject:   NewResourceTerm("https://example.com/a"),
			Predicate: NewResourceTerm("https://example.com/label"),
			Object:    NewLiteralTerm("hello", "en", ""),
		},
	}
}

func TestSerializeTriplesNTriples(t *testing.T) {
	var buf strings.Builder
	if err := SerializeTriples(sampleTriples(), FormatNTriples, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<https://example.com/a> <https://example.com/rel> <https://example.com/b> .") {
		t.Fatalf("missing expected resource triple line, got:\n%s", out)
	}
	if !strings.Contains(out, "\"hello\"@en") {
		t.Fatalf("missing expected language-tagged literal, got:\n%s", out)
	}
}

func TestSerializeTriplesTurtle(t *testing.T) {
	var buf strings.Builder
	if err := SerializeTriples(sampleTriples(), FormatTurtle, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "example.com") {
		t.Fatalf("expected turtle output to mention the subject namespace, got:\n%s", buf.String())
	}
}

func TestSerializeDatasetWritesGraphComponent(t *testing.T) {
	g := NewResourceTerm("https://example.com/g")
	ds := Dataset{
		{
			Subject:   NewResourceTerm("https://example.com/a"),
			Predicate: NewResourceTerm("https://example.com/rel"),
			Object:    NewResourceTerm("https://example.com/b"),
			Graph:     g,
		},
	}
	var buf strings.Builder
	if err := SerializeDataset(ds, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "<https://example.com/g>") {
		t.Fatalf("expected graph term in n-quads output, got:\n%s", buf.String())
	}
}

func TestToRDF2GoTermDispatchesByKind(t *testing.T) {
	res := toRDF2GoTerm(NewResourceTerm("https://example.com/a"))
	if res.String() != "<https://example.com/a>" {
		t.Fatalf("unexpected resource term: %v", res)
	}
	lit := toRDF2GoTerm(NewLiteralTerm("v", "", ""))
	if !strings.Contains(lit.String(), "v") {
		t.Fatalf("unexpected literal term: %v", lit)
	}
}
