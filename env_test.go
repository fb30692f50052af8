package ontoenv

import "testing"

func newTestEnv(t *testing.T) *OntoEnv {
	t.Helper()
	e, _, err := Init(InitOptions{Root: t.TempDir(), Temporary: true, NoSearch: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func TestInitTemporaryEnvironment(t *testing.T) {
	e := newTestEnv(t)
	if e.Config == nil || !e.Config.Temporary {
		t.Fatal("expected a temporary config")
	}
	if e.Index.Len() != 0 {
		t.Fatalf("expected an empty index, got %d", e.Index.Len())
	}
}

func TestOntoEnvGetUnionGraphPromotesRootToFront(t *testing.T) {
	e := newTestEnv(t)
	mem := e.Store.(*MemoryGraphIO)
	dep, err := mem.AddFromBytes(NewMemoryLocation("dep"), ntriplesFixture("https://example.com/dep"), FormatNTriples, OverwriteAllow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Index.Put(dep)

	rootData := append(ntriplesFixture("https://example.com/root"),
		[]byte("<https://example.com/root> <"+OWLImports+"> <https://example.com/dep> .\n")...)
	root, err := mem.AddFromBytes(NewMemoryLocation("root"), rootData, FormatNTriples, OverwriteAllow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Index.Put(root)

	dg, err := BuildDepGraph(e.Index, e.Policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.DepGraph = dg

	ds, ids, err := e.GetUnionGraph("https://example.com/root", -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0].Name != "https://example.com/root" {
		t.Fatalf("expected root promoted to position 0, got %+v", ids)
	}
	if len(ds) == 0 {
		t.Fatal("expected a non-empty union dataset")
	}
}

func TestOntoEnvImportGraphOpStripsImportsAndBridges(t *testing.T) {
	e := newTestEnv(t)
	mem := e.Store.(*MemoryGraphIO)
	dep, err := mem.AddFromBytes(NewMemoryLocation("dep"), ntriplesFixture("https://example.com/dep"), FormatNTriples, OverwriteAllow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Index.Put(dep)
	rootData := append(ntriplesFixture("https://example.com/root"),
		[]byte("<https://example.com/root> <"+OWLImports+"> <https://example.com/dep> .\n")...)
	root, err := mem.AddFromBytes(NewMemoryLocation("root"), rootData, FormatNTriples, OverwriteAllow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Index.Put(root)
	dg, err := BuildDepGraph(e.Index, e.Policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.DepGraph = dg

	out, err := e.ImportGraphOp("https://example.com/root", -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	importsPred := NewResourceTerm(OWLImports).String()
	bridgeFound := false
	for _, trp := range out {
		if trp.Predicate.String() == importsPred {
			if trp.Subject.String() != NewResourceTerm("https://example.com/root").String() {
				t.Fatalf("expected the only surviving owl:imports statement to originate from root, got %+v", trp)
			}
			bridgeFound = true
		}
	}
	if !bridgeFound {
		t.Fatal("expected a bridging (root, owl:imports, dep) statement")
	}
}

func TestOntoEnvStatusReportsMissingSource(t *testing.T) {
	e := newTestEnv(t)
	loc, err := NewFileLocation(t.TempDir() + "/does-not-exist.ttl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Index.Put(&Ontology{ID: GraphIdentifier{Name: "https://example.com/missing", Location: loc}, Name: "https://example.com/missing"})

	status, err := e.Status()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.MissingSourceCount != 1 {
		t.Fatalf("expected 1 missing source, got %d", status.MissingSourceCount)
	}
}
