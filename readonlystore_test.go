package ontoenv

import "testing"

func TestReadOnlyGraphIORejectsMutation(t *testing.T) {
	inner := NewMemoryGraphIO(NewConfig("/env", nil, nil, nil, false, false, false, false, ""), false)
	ro := NewReadOnlyGraphIO(inner)

	if _, err := ro.Add(NewMemoryLocation("a"), OverwriteAllow); !IsKind(err, KindReadOnly) {
		t.Fatalf("expected KindReadOnly from Add, got %v", err)
	}
	if _, err := ro.AddFromBytes(NewMemoryLocation("a"), ntriplesFixture("https://example.com/a"), FormatNTriples, OverwriteAllow); !IsKind(err, KindReadOnly) {
		t.Fatalf("expected KindReadOnly from AddFromBytes, got %v", err)
	}
	if err := ro.Remove(idFor("a", "a")); !IsKind(err, KindReadOnly) {
		t.Fatalf("expected KindReadOnly from Remove, got %v", err)
	}
}

func TestReadOnlyGraphIODelegatesReads(t *testing.T) {
	inner := NewMemoryGraphIO(NewConfig("/env", nil, nil, nil, false, false, false, false, ""), false)
	ont, err := inner.AddFromBytes(NewMemoryLocation("a"), ntriplesFixture("https://example.com/a"), FormatNTriples, OverwriteAllow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ro := NewReadOnlyGraphIO(inner)

	triples, err := ro.GetGraph(ont.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(triples) != 2 {
		t.Fatalf("expected 2 triples, got %d", len(triples))
	}

	stats, err := ro.Size()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.NumGraphs != 1 {
		t.Fatalf("expected 1 graph, got %d", stats.NumGraphs)
	}
}
