package ontoenv

import "testing"

func TestTermValueAndKind(t *testing.T) {
	res := NewResourceTerm("https://example.com/a")
	if !res.IsResource() || res.IsLiteral() {
		t.Fatalf("expected resource term, got %q", res)
	}
	if res.Value() != "https://example.com/a" {
		t.Fatalf("unexpected value: %q", res.Value())
	}

	lit := NewLiteralTerm("hello", "", "")
	if !lit.IsLiteral() || lit.IsResource() {
		t.Fatalf("expected literal term, got %q", lit)
	}
	if lit.Value() != "hello" {
		t.Fatalf("unexpected value: %q", lit.Value())
	}

	tagged := NewLiteralTerm("hallo", "de", "")
	if tagged.Language() != "de" {
		t.Fatalf("expected language de, got %q", tagged.Language())
	}
	if tagged.Value() != "hallo" {
		t.Fatalf("unexpected value: %q", tagged.Value())
	}

	typed := NewLiteralTerm("42", "", "http://www.w3.org/2001/XMLSchema#integer")
	if typed.Datatype() != "http://www.w3.org/2001/XMLSchema#integer" {
		t.Fatalf("unexpected datatype: %q", typed.Datatype())
	}
	if typed.Value() != "42" {
		t.Fatalf("unexpected value: %q", typed.Value())
	}
}

func TestNewTripleRejectsBadTerms(t *testing.T) {
	good := NewResourceTerm("https://example.com/s")
	pred := NewResourceTerm("https://example.com/p")
	obj := NewLiteralTerm("v", "", "")

	if _, err := NewTriple(good, pred, obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewTriple(Term("\"not-a-resource\""), pred, obj); err == nil {
		t.Fatal("expected error for non-resource subject")
	}
	if _, err := NewTriple(good, pred, Term("bareword")); err == nil {
		t.Fatal("expected error for object that is neither resource nor literal")
	}
}
