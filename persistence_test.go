package ontoenv

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoadEnvironmentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx := NewIndex()
	now := time.Now().UTC().Truncate(time.Millisecond)
	idx.Put(&Ontology{
		ID:                idFor("https://example.com/ont", "/tmp/ont.ttl"),
		Name:              "https://example.com/ont",
		Imports:           []string{"https://example.com/dep"},
		VersionProperties: map[string]string{OWLVersionInfo: "1.0"},
		NamespaceMap:      map[string]string{"ex": "https://example.com/"},
		ContentHash:       "abc123",
		LastUpdated:       &now,
	})

	if err := SaveEnvironment(dir, idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, err := LoadEnvironment(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", loaded.Len())
	}
	all := loaded.All()
	if all[0].Name != "https://example.com/ont" || all[0].ContentHash != "abc123" {
		t.Fatalf("unexpected round-tripped record: %+v", all[0])
	}
	if !all[0].LastUpdated.Equal(now) {
		t.Fatalf("expected LastUpdated %v, got %v", now, all[0].LastUpdated)
	}
}

func TestLoadEnvironmentMissingFileReturnsEmptyIndex(t *testing.T) {
	idx, err := LoadEnvironment(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Len() != 0 {
		t.Fatalf("expected an empty index, got %d records", idx.Len())
	}
}

func TestSaveDepGraphWritesAdjacency(t *testing.T) {
	dir := t.TempDir()
	idx := NewIndex()
	idx.Put(&Ontology{ID: idFor("a", "a"), Name: "a"})
	idx.Put(&Ontology{ID: idFor("b", "b"), Name: "b", Imports: []string{"a"}})
	dg, err := BuildDepGraph(idx, DefaultPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := SaveDepGraph(dir, dg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, depGraphFileName)); err != nil {
		t.Fatalf("expected dependency_graph.json to exist: %v", err)
	}
}

func TestFindOntoenvRootWalksUpward(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := NewConfig(root, nil, nil, nil, false, false, false, false, "")
	if err := SaveConfig(filepath.Join(root, ontoenvDirName), cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := FindOntoenvRoot(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != root {
		t.Fatalf("expected %q, got %q", root, found)
	}
}

func TestFindOntoenvRootNotFound(t *testing.T) {
	if _, err := FindOntoenvRoot(t.TempDir()); !IsKind(err, KindNotInEnvironment) {
		t.Fatalf("expected KindNotInEnvironment, got %v", err)
	}
}
