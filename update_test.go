package ontoenv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUpdateDiscoversAndIngestsNewFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "ont.nt")
	if err := os.WriteFile(path, ntriplesFixture("https://example.com/ont"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e, _, err := Init(InitOptions{Root: root, Includes: []string{"*.nt"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer e.Close()

	result, err := e.Update(UpdateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Ingested) != 1 || result.Ingested[0] != "https://example.com/ont" {
		t.Fatalf("expected one ingested ontology, got %+v", result)
	}
	if e.Index.Len() != 1 {
		t.Fatalf("expected 1 indexed record, got %d", e.Index.Len())
	}
}

func TestUpdatePrunesMissingFileRecords(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "ont.nt")
	if err := os.WriteFile(path, ntriplesFixture("https://example.com/ont"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e, _, err := Init(InitOptions{Root: root, Includes: []string{"*.nt"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer e.Close()

	if _, err := e.Update(UpdateOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := e.Update(UpdateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Removed) != 1 || result.Removed[0] != "https://example.com/ont" {
		t.Fatalf("expected one removed ontology, got %+v", result)
	}
	if e.Index.Len() != 0 {
		t.Fatalf("expected 0 indexed records after removal, got %d", e.Index.Len())
	}
}

func TestUpdateAllForcesReingest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "ont.nt")
	if err := os.WriteFile(path, ntriplesFixture("https://example.com/ont"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e, _, err := Init(InitOptions{Root: root, Includes: []string{"*.nt"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer e.Close()

	if _, err := e.Update(UpdateOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := e.Update(UpdateOptions{All: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Ingested) != 1 {
		t.Fatalf("expected --all to force a re-ingest, got %+v", result)
	}
}
