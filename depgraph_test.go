package ontoenv

import (
	"reflect"
	"sort"
	"testing"
)

// buildTestDepGraph wires C -> B -> A, D -> A, so A has two importers and
// C's closure is [C, B, A].
func buildTestDepGraph(t *testing.T) *DepGraph {
	t.Helper()
	idx := NewIndex()
	idx.Put(&Ontology{ID: idFor("a", "a"), Name: "a"})
	idx.Put(&Ontology{ID: idFor("b", "b"), Name: "b", Imports: []string{"a"}})
	idx.Put(&Ontology{ID: idFor("c", "c"), Name: "c", Imports: []string{"b"}})
	idx.Put(&Ontology{ID: idFor("d", "d"), Name: "d", Imports: []string{"a"}})
	dg, err := BuildDepGraph(idx, DefaultPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return dg
}

// buildMultiSiblingDepGraph wires root -> {b, c, d}, so the BFS frontier at
// depth 1 must be sorted for the closure order to be reproducible.
func buildMultiSiblingDepGraph(t *testing.T) *DepGraph {
	t.Helper()
	idx := NewIndex()
	idx.Put(&Ontology{ID: idFor("root", "root"), Name: "root", Imports: []string{"d", "b", "c"}})
	idx.Put(&Ontology{ID: idFor("b", "b"), Name: "b"})
	idx.Put(&Ontology{ID: idFor("c", "c"), Name: "c"})
	idx.Put(&Ontology{ID: idFor("d", "d"), Name: "d"})
	dg, err := BuildDepGraph(idx, DefaultPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return dg
}

func TestDepGraphClosureSortsSiblingsByName(t *testing.T) {
	dg := buildMultiSiblingDepGraph(t)
	for i := 0; i < 5; i++ {
		order, err := dg.Closure("root", -1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(order, []string{"root", "b", "c", "d"}) {
			t.Fatalf("expected siblings sorted by name regardless of import order, got %v", order)
		}
	}
}

func TestDepGraphExplainImportSortsPredecessorsByName(t *testing.T) {
	idx := NewIndex()
	idx.Put(&Ontology{ID: idFor("target", "target"), Name: "target"})
	idx.Put(&Ontology{ID: idFor("b", "b"), Name: "b", Imports: []string{"target"}})
	idx.Put(&Ontology{ID: idFor("c", "c"), Name: "c", Imports: []string{"target"}})
	dg, err := BuildDepGraph(idx, DefaultPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		paths, err := dg.ExplainImport("target")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(paths) != 2 || paths[0][0] != "b" || paths[1][0] != "c" {
			t.Fatalf("expected paths sorted by origin name, got %v", paths)
		}
	}
}

func TestDepGraphClosure(t *testing.T) {
	dg := buildTestDepGraph(t)
	order, err := dg.Closure("c", -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"c", "b", "a"}) {
		t.Fatalf("unexpected closure order: %v", order)
	}
}

func TestDepGraphClosureDepthBound(t *testing.T) {
	dg := buildTestDepGraph(t)
	order, err := dg.Closure("c", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"c", "b"}) {
		t.Fatalf("expected depth-1 closure to stop at b, got %v", order)
	}
}

func TestDepGraphImporters(t *testing.T) {
	dg := buildTestDepGraph(t)
	importers, err := dg.Importers("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sort.Strings(importers)
	if !reflect.DeepEqual(importers, []string{"b", "d"}) {
		t.Fatalf("expected b and d as importers of a, got %v", importers)
	}
}

func TestDepGraphExplainImport(t *testing.T) {
	dg := buildTestDepGraph(t)
	paths, err := dg.ExplainImport("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := map[string]bool{}
	for _, p := range paths {
		found[p[0]] = true
	}
	if !found["b"] || !found["c"] || !found["d"] {
		t.Fatalf("expected paths starting from b, c and d, got %v", paths)
	}
}

func TestDepGraphSubgraphRestrictsToRootClosures(t *testing.T) {
	dg := buildTestDepGraph(t)
	sub, err := dg.Subgraph([]string{"d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sub.Closure("d", -1); err != nil {
		t.Fatalf("expected d to remain in the subgraph: %v", err)
	}
	if _, ok := sub.nodeByName["c"]; ok {
		t.Fatal("expected c to be excluded from the d-rooted subgraph")
	}
	if _, ok := sub.nodeByName["b"]; ok {
		t.Fatal("expected b to be excluded from the d-rooted subgraph")
	}
	if _, ok := sub.nodeByName["a"]; !ok {
		t.Fatal("expected a to survive as d's dependency")
	}
}

func TestDepGraphSubgraphEmptyRootsReturnsSelf(t *testing.T) {
	dg := buildTestDepGraph(t)
	sub, err := dg.Subgraph(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub != dg {
		t.Fatal("expected an empty roots list to return dg unchanged")
	}
}

func TestDepGraphToDOT(t *testing.T) {
	dg := buildTestDepGraph(t)
	dot, err := dg.ToDOT()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dot == "" {
		t.Fatal("expected non-empty DOT output")
	}
}
