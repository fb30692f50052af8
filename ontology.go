package ontoenv

import (
	"regexp"
	"time"
)

// Ontology is the metadata record kept for each ingested graph: its
// identity, declared imports, extracted version properties, namespace
// map, content hash, and freshness timestamp.
type Ontology struct {
	ID                GraphIdentifier
	Name              string
	Imports           []string
	VersionProperties map[string]string
	NamespaceMap      map[string]string
	ContentHash       string
	LastUpdated       *time.Time
}

// WithLastUpdated returns a copy of o stamped with the given time.
func (o Ontology) WithLastUpdated(t time.Time) Ontology {
	o.LastUpdated = &t
	return o
}

// extractionOptions controls how ExtractOntology resolves ambiguity.
type extractionOptions struct {
	RequireOntologyNames bool
	Strict               bool
	IncludeOntologies    []string
	ExcludeOntologies    []string
}

// admits reports whether name passes opts' include/exclude ontology-name
// regexes, the same precedence Config.IsOntologyIncluded applies: excluded
// first, then included, with no includes configured meaning everything not
// excluded qualifies.
func (opts extractionOptions) admits(name string) bool {
	for _, pat := range opts.ExcludeOntologies {
		if re, err := regexp.Compile(pat); err == nil && re.MatchString(name) {
			return false
		}
	}
	if len(opts.IncludeOntologies) == 0 {
		return true
	}
	for _, pat := range opts.IncludeOntologies {
		if re, err := regexp.Compile(pat); err == nil && re.MatchString(name) {
			return true
		}
	}
	return false
}

// ExtractOntology builds an Ontology record from a parsed triple set and
// the Location it came from, following the name/imports/version/namespace
// extraction algorithm:
//
//  1. subjects of rdf:type owl:Ontology name the ontology. If exactly one
//     exists, pick it. If several exist and the ontology-name-regex filters
//     admit exactly one, pick that; otherwise fail when names are required
//     or strict, else pick the first in iteration order with a warning.
//  2. failing any declaration, any subject of sh:declare;
//  3. failing that, synthesize the name from the location's IRI, unless
//     names are required, in which case this is an error.
func ExtractOntology(triples []Triple, loc Location, opts extractionOptions) (*Ontology, error) {
	decls := subjectsForPredicateObject(triples, RDFType, NewResourceTerm(OWLOntology).String())
	if len(decls) == 0 {
		decls = subjectsForPredicate(triples, SHDeclare)
	}

	var name string
	switch {
	case len(decls) == 1:
		name = Term(decls[0]).Value()
	case len(decls) > 1:
		var admitted []string
		for _, d := range decls {
			if opts.admits(Term(d).Value()) {
				admitted = append(admitted, d)
			}
		}
		switch {
		case len(admitted) == 1:
			name = Term(admitted[0]).Value()
		case opts.RequireOntologyNames || opts.Strict:
			return nil, newErr(KindUnresolved, "multiple ontology declarations found in "+loc.String()+" and name filters do not admit exactly one", nil)
		default:
			Log().Warnf("multiple ontology declarations found in %s, using the first in iteration order", loc)
			name = Term(decls[0]).Value()
		}
	case opts.RequireOntologyNames:
		return nil, newErr(KindUnresolved, "no ontology declaration found in "+loc.String(), nil)
	default:
		Log().Warnf("no ontology declaration found in %s, using location IRI as name", loc)
		name = loc.ToIRI()
	}

	namespaceMap := map[string]string{}
	for _, declObj := range objectsForSubjectPredicate(triples, NewResourceTerm(name).String(), SHDeclare) {
		prefix, hasPrefix := firstLiteralObject(triples, declObj, SHPrefix)
		namespace, hasNamespace := firstLiteralObject(triples, declObj, SHNamespace)
		if hasPrefix && hasNamespace {
			namespaceMap[prefix] = namespace
		}
	}

	var imports []string
	for _, obj := range objectsForSubjectPredicate(triples, NewResourceTerm(name).String(), OWLImports) {
		t := Term(obj)
		if !t.IsResource() {
			return nil, newErr(KindParseError, "owl:imports object is not an IRI: "+obj, nil)
		}
		imports = append(imports, t.Value())
	}

	versionProperties := extractVersionProperties(triples, name)
	for _, metaObj := range objectsForSubjectPredicate(triples, NewResourceTerm(name).String(), VAEMHasGraphMetadata) {
		if !Term(metaObj).IsResource() {
			continue
		}
		for k, v := range extractVersionProperties(triples, Term(metaObj).Value()) {
			versionProperties[k] = v
		}
	}

	return &Ontology{
		ID:                GraphIdentifier{Name: name, Location: loc},
		Name:              name,
		Imports:           imports,
		VersionProperties: versionProperties,
		NamespaceMap:      namespaceMap,
	}, nil
}

func extractVersionProperties(triples []Triple, subject string) map[string]string {
	props := map[string]string{}
	for _, iri := range OntologyVersionIRIs {
		if v, ok := firstObjectValue(triples, NewResourceTerm(subject).String(), iri); ok {
			props[iri] = v
		}
	}
	return props
}

// The following helpers walk a flat triple slice by pattern; they back
// ExtractOntology and intentionally avoid depending on any particular
// backend's indexing scheme so extraction works the same whether the
// triples came from the in-memory store or a freshly fetched document.

func subjectsForPredicateObject(triples []Triple, pred, obj string) []string {
	var out []string
	for _, t := range triples {
		if t.Predicate.String() == NewResourceTerm(pred).String() && t.Object.String() == obj {
			out = append(out, t.Subject.String())
		}
	}
	return out
}

func subjectsForPredicate(triples []Triple, pred string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range triples {
		if t.Predicate.String() == NewResourceTerm(pred).String() && !seen[t.Subject.String()] {
			seen[t.Subject.String()] = true
			out = append(out, t.Subject.String())
		}
	}
	return out
}

func objectsForSubjectPredicate(triples []Triple, subj, pred string) []string {
	var out []string
	for _, t := range triples {
		if t.Subject.String() == subj && t.Predicate.String() == NewResourceTerm(pred).String() {
			out = append(out, t.Object.String())
		}
	}
	return out
}

func firstLiteralObject(triples []Triple, subj, pred string) (string, bool) {
	for _, t := range triples {
		if t.Subject.String() == subj && t.Predicate.String() == NewResourceTerm(pred).String() && t.Object.IsLiteral() {
			return t.Object.Value(), true
		}
	}
	return "", false
}

func firstObjectValue(triples []Triple, subj, pred string) (string, bool) {
	for _, t := range triples {
		if t.Subject.String() == subj && t.Predicate.String() == NewResourceTerm(pred).String() {
			return t.Object.Value(), true
		}
	}
	return "", false
}
