package ontoenv

import "testing"

func TestDoctorFindsDuplicateAndUnresolvedImport(t *testing.T) {
	e := newTestEnv(t)
	mem := e.Store.(*MemoryGraphIO)

	a, err := mem.AddFromBytes(NewMemoryLocation("a"), ntriplesFixture("https://example.com/ont"), FormatNTriples, OverwriteAllow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Index.Put(a)
	b, err := mem.AddFromBytes(NewMemoryLocation("b"), ntriplesFixture("https://example.com/ont"), FormatNTriples, OverwriteAllow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Index.Put(b)

	withImport := append(ntriplesFixture("https://example.com/importer"),
		[]byte("<https://example.com/importer> <"+OWLImports+"> <https://example.com/missing> .\n")...)
	imp, err := mem.AddFromBytes(NewMemoryLocation("c"), withImport, FormatNTriples, OverwriteAllow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Index.Put(imp)

	findings, err := e.Doctor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawDuplicate, sawUnresolved bool
	for _, f := range findings {
		switch f.Check {
		case "Duplicate Ontology":
			sawDuplicate = true
		case "Unresolved Import":
			sawUnresolved = true
		}
	}
	if !sawDuplicate {
		t.Fatal("expected a Duplicate Ontology finding")
	}
	if !sawUnresolved {
		t.Fatal("expected an Unresolved Import finding")
	}
}

func TestDoctorFindsMissingSource(t *testing.T) {
	e := newTestEnv(t)
	loc, err := NewFileLocation(t.TempDir() + "/gone.ttl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := GraphIdentifier{Name: "https://example.com/gone", Location: loc}
	e.Index.Put(&Ontology{ID: id, Name: "https://example.com/gone"})

	findings, err := e.Doctor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, f := range findings {
		if f.Check == "Missing Source" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a Missing Source finding")
	}
}

func TestDoctorCleanEnvironmentHasNoFindings(t *testing.T) {
	e := newTestEnv(t)
	mem := e.Store.(*MemoryGraphIO)
	ont, err := mem.AddFromBytes(NewMemoryLocation("a"), ntriplesFixture("https://example.com/ont"), FormatNTriples, OverwriteAllow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Index.Put(ont)

	findings, err := e.Doctor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}
