package ontoenv

import "sort"

// ResolutionPolicy picks a single record when an import name resolves to
// more than one Ontology sharing that name, which happens whenever a graph
// has been ingested from both a local file and a published URL, or across
// successive versions of the same ontology.
type ResolutionPolicy interface {
	// Resolve picks one candidate from candidates, all of which share a name.
	// candidates is never empty; len == 1 is handled by callers before this
	// is invoked, but implementations may assume it regardless.
	Resolve(candidates []*Ontology) (*Ontology, error)
	// PolicyName is the --policy flag value this policy answers to.
	PolicyName() string
}

// DefaultPolicy picks the first candidate in iteration order, i.e. whichever
// GetByName happens to list first. Picking one of several same-named
// candidates this way is expected, not an error condition.
type DefaultPolicy struct{}

func (DefaultPolicy) PolicyName() string { return "default" }

func (DefaultPolicy) Resolve(candidates []*Ontology) (*Ontology, error) {
	return candidates[0], nil
}

// LatestPolicy prefers the candidate with the most recent LastUpdated
// timestamp; on a tie, or when no candidate has a timestamp, the earliest
// candidate in the given order wins.
type LatestPolicy struct{}

func (LatestPolicy) PolicyName() string { return "latest" }

func (LatestPolicy) Resolve(candidates []*Ontology) (*Ontology, error) {
	if len(candidates) == 0 {
		return nil, newErr(KindUnresolved, "no candidates to resolve", nil)
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.LastUpdated == nil {
			continue
		}
		if best.LastUpdated == nil || c.LastUpdated.After(*best.LastUpdated) {
			best = c
		}
	}
	return best, nil
}

// VersionPolicy prefers the candidate whose version vector — built from
// OntologyVersionIRIs, in order — compares greatest lexicographically.
// Candidates lacking any version properties sort last.
type VersionPolicy struct{}

func (VersionPolicy) PolicyName() string { return "version" }

func (VersionPolicy) Resolve(candidates []*Ontology) (*Ontology, error) {
	if len(candidates) == 0 {
		return nil, newErr(KindUnresolved, "no candidates to resolve", nil)
	}
	ranked := append([]*Ontology(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return compareVersionVector(ranked[i]) > compareVersionVector(ranked[j])
	})
	return ranked[0], nil
}

// compareVersionVector renders an ontology's version properties, in
// OntologyVersionIRIs order, as a single comparable string. Missing
// properties contribute an empty segment so the comparison stays
// positional across candidates with partially-populated vectors.
func compareVersionVector(o *Ontology) string {
	var out []byte
	for _, iri := range OntologyVersionIRIs {
		out = append(out, '\x1f')
		out = append(out, []byte(o.VersionProperties[iri])...)
	}
	return string(out)
}

// PolicyFromName maps a --policy flag value to a ResolutionPolicy, defaulting
// to DefaultPolicy only for the empty string; any other unrecognized name is
// a construction error.
func PolicyFromName(name string) (ResolutionPolicy, error) {
	switch name {
	case "", "default":
		return DefaultPolicy{}, nil
	case "latest":
		return LatestPolicy{}, nil
	case "version":
		return VersionPolicy{}, nil
	default:
		return nil, newErr(KindUnresolved, "unknown resolution policy: "+name, nil)
	}
}
