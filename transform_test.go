package ontoenv

import "testing"

func TestRewriteSHPrefixesCollapsesOntoRoot(t *testing.T) {
	root := NewResourceTerm("https://example.com/root")
	child := NewResourceTerm("https://example.com/child")
	ds := Dataset{
		{Subject: child, Predicate: NewResourceTerm(SHPrefixes), Object: NewResourceTerm("https://example.com/child#ns"), Graph: child},
		{Subject: NewResourceTerm("https://example.com/child#ns"), Predicate: NewResourceTerm(SHDeclare), Object: NewResourceTerm("https://example.com/child#decl"), Graph: child},
	}
	out := RewriteSHPrefixes(ds, root)
	if out[0].Subject != child || out[0].Object != root {
		t.Fatalf("expected sh:prefixes subject unchanged and object rewritten to root, got %+v", out[0])
	}
	if out[1].Subject != root {
		t.Fatalf("expected sh:declare subject rewritten to root, got %+v", out[1])
	}
}

func TestRewriteSHPrefixesDeduplicatesByPrefixAndNamespace(t *testing.T) {
	root := NewResourceTerm("https://example.com/root")
	childA := NewResourceTerm("https://example.com/childA")
	childB := NewResourceTerm("https://example.com/childB")
	declA := NewResourceTerm("https://example.com/childA#decl-rdfs")
	declB := NewResourceTerm("https://example.com/childB#decl-rdfs")

	ds := Dataset{
		{Subject: childA, Predicate: NewResourceTerm(SHDeclare), Object: declA, Graph: childA},
		{Subject: declA, Predicate: NewResourceTerm(SHPrefix), Object: NewLiteralTerm("rdfs", "", ""), Graph: childA},
		{Subject: declA, Predicate: NewResourceTerm(SHNamespace), Object: NewLiteralTerm("http://www.w3.org/2000/01/rdf-schema#", "", ""), Graph: childA},
		{Subject: childB, Predicate: NewResourceTerm(SHDeclare), Object: declB, Graph: childB},
		{Subject: declB, Predicate: NewResourceTerm(SHPrefix), Object: NewLiteralTerm("rdfs", "", ""), Graph: childB},
		{Subject: declB, Predicate: NewResourceTerm(SHNamespace), Object: NewLiteralTerm("http://www.w3.org/2000/01/rdf-schema#", "", ""), Graph: childB},
	}

	out := RewriteSHPrefixes(ds, root)

	declareCount := 0
	for _, q := range out {
		if q.Predicate.String() == NewResourceTerm(SHDeclare).String() {
			declareCount++
			if q.Object != declA {
				t.Fatalf("expected only the first declaration node to survive, got %+v", q)
			}
		}
	}
	if declareCount != 1 {
		t.Fatalf("expected exactly one surviving sh:declare for the shared rdfs prefix, got %d", declareCount)
	}
	for _, q := range out {
		if q.Subject == declB {
			t.Fatalf("expected declB's own prefix/namespace triples to be dropped, got %+v", q)
		}
	}
}

func TestRemoveOWLImportsDropsOnlyImportStatements(t *testing.T) {
	root := NewResourceTerm("https://example.com/root")
	dep := NewResourceTerm("https://example.com/dep")
	other := NewResourceTerm("https://example.com/other")
	ds := Dataset{
		{Subject: root, Predicate: NewResourceTerm(OWLImports), Object: dep, Graph: root},
		{Subject: root, Predicate: other, Object: dep, Graph: root},
	}
	out := RemoveOWLImports(ds)
	if len(out) != 1 || out[0].Predicate != other {
		t.Fatalf("expected only the non-imports statement to survive, got %+v", out)
	}
}

func TestRemoveOntologyDeclarationsKeepsOnlyRoot(t *testing.T) {
	root := NewResourceTerm("https://example.com/root")
	dep := NewResourceTerm("https://example.com/dep")
	typePred := NewResourceTerm(RDFType)
	ontologyObj := NewResourceTerm(OWLOntology)
	ds := Dataset{
		{Subject: root, Predicate: typePred, Object: ontologyObj, Graph: root},
		{Subject: dep, Predicate: typePred, Object: ontologyObj, Graph: dep},
	}
	out := RemoveOntologyDeclarations(ds, root)
	if len(out) != 1 || out[0].Subject != root {
		t.Fatalf("expected only root's ontology declaration to survive, got %+v", out)
	}
}

func TestImportGraphComposesAllThreeSteps(t *testing.T) {
	root := NewResourceTerm("https://example.com/root")
	dep := NewResourceTerm("https://example.com/dep")
	typePred := NewResourceTerm(RDFType)
	ontologyObj := NewResourceTerm(OWLOntology)
	ds := Dataset{
		{Subject: root, Predicate: typePred, Object: ontologyObj, Graph: root},
		{Subject: dep, Predicate: typePred, Object: ontologyObj, Graph: dep},
		{Subject: root, Predicate: NewResourceTerm(OWLImports), Object: dep, Graph: root},
		{Subject: dep, Predicate: NewResourceTerm(SHPrefixes), Object: NewResourceTerm("https://example.com/dep#ns"), Graph: dep},
	}
	out := ImportGraph(ds, root)
	for _, q := range out {
		if q.Predicate.String() == NewResourceTerm(OWLImports).String() {
			t.Fatalf("owl:imports statement should have been removed, got %+v", q)
		}
		if q.Predicate.String() == typePred.String() && q.Object.String() == ontologyObj.String() && q.Subject != root {
			t.Fatalf("non-root ontology declaration should have been removed, got %+v", q)
		}
		if q.Predicate.String() == NewResourceTerm(SHPrefixes).String() && q.Object != root {
			t.Fatalf("sh:prefixes should point at root, got %+v", q)
		}
	}
}
