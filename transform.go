package ontoenv

// RewriteSHPrefixes moves every sh:prefixes statement in ds to point at
// root, and every sh:declare statement onto root directly, collapsing the
// per-ontology SHACL prefix declarations a union graph would otherwise
// carry once per import onto the single root ontology. A deep import
// chain tends to redeclare the same prefix (rdfs, skos, ...) from every
// member, so declarations are also deduplicated by their (sh:prefix,
// sh:namespace) pair: only the first declaration node seen for a given
// pair survives, along with its own sh:prefix/sh:namespace triples.
func RewriteSHPrefixes(ds Dataset, root Term) Dataset {
	shPrefixesPred := NewResourceTerm(SHPrefixes).String()
	shDeclarePred := NewResourceTerm(SHDeclare).String()
	shPrefixPred := NewResourceTerm(SHPrefix).String()
	shNamespacePred := NewResourceTerm(SHNamespace).String()

	type declBinding struct {
		prefix, namespace string
	}
	bindings := map[string]*declBinding{}
	for _, q := range ds {
		node := q.Subject.String()
		switch q.Predicate.String() {
		case shPrefixPred:
			b := bindings[node]
			if b == nil {
				b = &declBinding{}
				bindings[node] = b
			}
			b.prefix = q.Object.Value()
		case shNamespacePred:
			b := bindings[node]
			if b == nil {
				b = &declBinding{}
				bindings[node] = b
			}
			b.namespace = q.Object.Value()
		}
	}

	keep := map[string]bool{}
	seen := map[string]bool{}
	for _, q := range ds {
		if q.Predicate.String() != shDeclarePred {
			continue
		}
		node := q.Object.String()
		if _, decided := keep[node]; decided {
			continue
		}
		b := bindings[node]
		var key string
		if b != nil {
			key = b.prefix + "\x1f" + b.namespace
		} else {
			key = node
		}
		if seen[key] {
			keep[node] = false
			continue
		}
		seen[key] = true
		keep[node] = true
	}

	out := make(Dataset, 0, len(ds))
	emittedDeclare := map[string]bool{}
	for _, q := range ds {
		switch q.Predicate.String() {
		case shPrefixesPred:
			out = append(out, Quad{Subject: q.Subject, Predicate: q.Predicate, Object: root, Graph: q.Graph})
		case shDeclarePred:
			node := q.Object.String()
			if !keep[node] || emittedDeclare[node] {
				continue
			}
			emittedDeclare[node] = true
			out = append(out, Quad{Subject: root, Predicate: q.Predicate, Object: q.Object, Graph: q.Graph})
		case shPrefixPred, shNamespacePred:
			if !keep[q.Subject.String()] {
				continue
			}
			out = append(out, q)
		default:
			out = append(out, q)
		}
	}
	return out
}

// RemoveOWLImports drops every owl:imports statement from ds, useful after
// the union graph has already been assembled so downstream consumers do not
// attempt to fetch the same dependencies again.
func RemoveOWLImports(ds Dataset) Dataset {
	out := make(Dataset, 0, len(ds))
	importsPred := NewResourceTerm(OWLImports).String()
	for _, q := range ds {
		if q.Predicate.String() == importsPred {
			continue
		}
		out = append(out, q)
	}
	return out
}

// RemoveOntologyDeclarations drops every rdf:type owl:Ontology statement
// whose subject is not root, collapsing the union graph to a single
// ontology declaration.
func RemoveOntologyDeclarations(ds Dataset, root Term) Dataset {
	out := make(Dataset, 0, len(ds))
	typePred := NewResourceTerm(RDFType).String()
	ontologyObj := NewResourceTerm(OWLOntology).String()
	for _, q := range ds {
		if q.Predicate.String() == typePred && q.Object.String() == ontologyObj && q.Subject.String() != root.String() {
			continue
		}
		out = append(out, q)
	}
	return out
}

// ImportGraph composes the conventional "import closure as one ontology"
// view: rewrite sh:prefixes onto root, strip owl:imports, and collapse all
// non-root owl:Ontology declarations.
func ImportGraph(ds Dataset, root Term) Dataset {
	ds = RewriteSHPrefixes(ds, root)
	ds = RemoveOWLImports(ds)
	ds = RemoveOntologyDeclarations(ds, root)
	return ds
}
