package ontoenv

import "testing"

func TestParseLocationRecognizesURLs(t *testing.T) {
	loc, err := ParseLocation("https://example.com/ont.ttl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loc.IsURL() || loc.IsFile() {
		t.Fatalf("expected URL location, got %+v", loc)
	}
	if loc.String() != "https://example.com/ont.ttl" {
		t.Fatalf("unexpected canonical form: %q", loc.String())
	}
}

func TestParseLocationRecognizesFiles(t *testing.T) {
	loc, err := ParseLocation("/tmp/ont.ttl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loc.IsFile() || loc.IsURL() {
		t.Fatalf("expected file location, got %+v", loc)
	}
	if loc.String() != "file:///tmp/ont.ttl" {
		t.Fatalf("unexpected canonical form: %q", loc.String())
	}
}

func TestParseLocationStripsFileScheme(t *testing.T) {
	loc, err := ParseLocation("file:///tmp/ont.ttl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Path != "/tmp/ont.ttl" {
		t.Fatalf("unexpected path: %q", loc.Path)
	}
}

func TestGraphIdentifierDistinguishesByLocation(t *testing.T) {
	a := GraphIdentifier{Name: "foo", Location: NewMemoryLocation("a")}
	b := GraphIdentifier{Name: "foo", Location: NewMemoryLocation("b")}
	if a == b {
		t.Fatal("expected distinct identifiers for distinct locations")
	}
	if a.GraphName() != "foo" {
		t.Fatalf("unexpected graph name: %q", a.GraphName())
	}
}
