package ontoenv

import (
	"testing"
	"time"
)

func idFor(name, loc string) GraphIdentifier {
	return GraphIdentifier{Name: name, Location: NewMemoryLocation(loc)}
}

func TestDefaultPolicyPicksFirstCandidate(t *testing.T) {
	a := &Ontology{ID: idFor("foo", "a")}
	b := &Ontology{ID: idFor("foo", "b")}
	if got, err := (DefaultPolicy{}).Resolve([]*Ontology{a}); err != nil || got != a {
		t.Fatalf("single candidate should resolve cleanly to itself, got %v, %v", got, err)
	}
	got, err := (DefaultPolicy{}).Resolve([]*Ontology{a, b})
	if err != nil {
		t.Fatalf("ambiguous resolution should never error, got %v", err)
	}
	if got != a {
		t.Fatalf("expected the first candidate in iteration order to win, got %v", got)
	}
}

func TestLatestPolicyPrefersMostRecent(t *testing.T) {
	older := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &Ontology{ID: idFor("foo", "a"), LastUpdated: &older}
	b := &Ontology{ID: idFor("foo", "b"), LastUpdated: &newer}
	got, err := (LatestPolicy{}).Resolve([]*Ontology{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != b {
		t.Fatalf("expected the newer candidate to win")
	}
}

func TestVersionPolicyComparesVectorsPositionally(t *testing.T) {
	a := &Ontology{ID: idFor("foo", "a"), VersionProperties: map[string]string{OWLVersionInfo: "1.0.0"}}
	b := &Ontology{ID: idFor("foo", "b"), VersionProperties: map[string]string{OWLVersionInfo: "2.0.0"}}
	got, err := (VersionPolicy{}).Resolve([]*Ontology{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != b {
		t.Fatalf("expected the higher version vector to win")
	}
}

func TestPolicyFromNameRejectsUnknownNames(t *testing.T) {
	latest, err := PolicyFromName("latest")
	if err != nil || latest.PolicyName() != "latest" {
		t.Fatalf("expected latest policy, got %v, %v", latest, err)
	}
	version, err := PolicyFromName("version")
	if err != nil || version.PolicyName() != "version" {
		t.Fatalf("expected version policy, got %v, %v", version, err)
	}
	def, err := PolicyFromName("")
	if err != nil || def.PolicyName() != "default" {
		t.Fatalf("expected empty name to resolve to default policy, got %v, %v", def, err)
	}
	if _, err := PolicyFromName("bogus"); !IsKind(err, KindUnresolved) {
		t.Fatalf("expected unrecognized names to be a construction error, got %v", err)
	}
}
