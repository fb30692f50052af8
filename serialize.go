package ontoenv

import (
	"bytes"
	"fmt"
	"io"

	"github.com/deiu/rdf2go"
)

// toRDF2GoTerm converts one of our NTriple-encoded Terms into the
// corresponding rdf2go.Term, mirroring the teacher's toTerm dispatch on
// resource vs. language-tagged vs. datatyped vs. plain literal.
func toRDF2GoTerm(t Term) rdf2go.Term {
	switch {
	case t.IsResource():
		return rdf2go.NewResource(t.Value())
	case t.Language() != "":
		return rdf2go.NewLiteralWithLanguage(t.Value(), t.Language())
	case t.Datatype() != "":
		return rdf2go.NewLiteralWithDatatype(t.Value(), rdf2go.NewResource(t.Datatype()))
	default:
		return rdf2go.NewLiteral(t.Value())
	}
}

// SerializeTriples writes triples to w in the requested format. Turtle,
// RDF/XML and JSON-LD are rendered through rdf2go's own serializer by
// loading triples into a scratch graph; N-Triples and N-Quads are written
// directly since rdf2go does not serialize them.
func SerializeTriples(triples []Triple, format Format, w io.Writer) error {
	switch format {
	case FormatNTriples:
		return writeNTriples(triples, w)
	case FormatNQuads:
		return writeNQuads(triples, "", w)
	default:
		g := rdf2go.NewGraph("")
		for _, t := range triples {
			g.AddTriple(toRDF2GoTerm(t.Subject), toRDF2GoTerm(t.Predicate), toRDF2GoTerm(t.Object))
		}
		mime := format.mimeType()
		if format != FormatRDFXML && format != FormatJSONLD {
			mime = FormatTurtle.mimeType()
		}
		var buf bytes.Buffer
		if err := g.Serialize(&buf, mime); err != nil {
			return newErr(KindParseError, fmt.Sprintf("serializing as %s", format), err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
}

// SerializeDataset writes a named-graph dataset out as N-Quads, the only
// one of the supported formats that can carry the graph component; callers
// wanting Turtle/RDF-XML/JSON-LD output flatten to triples first (as
// ImportGraphOp does) since those formats have no named-graph notion here.
func SerializeDataset(ds Dataset, w io.Writer) error {
	triples := make([]Triple, 0, len(ds))
	graphs := make([]string, 0, len(ds))
	for _, q := range ds {
		triples = append(triples, Triple{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object})
		graphs = append(graphs, q.Graph.String())
	}
	return writeNQuadsWithGraphs(triples, graphs, w)
}

// writeNTriples writes one "<s> <p> o ." line per triple, the inverse of
// parseNTriples.
func writeNTriples(triples []Triple, w io.Writer) error {
	for _, t := range triples {
		if _, err := fmt.Fprintf(w, "%s %s %s .\n", t.Subject, t.Predicate, t.Object); err != nil {
			return err
		}
	}
	return nil
}

// writeNQuads writes triples as N-Quads, tagging every line with the same
// graph term (or omitting the graph field when graph is empty).
func writeNQuads(triples []Triple, graph string, w io.Writer) error {
	graphs := make([]string, len(triples))
	for i := range triples {
		graphs[i] = graph
	}
	return writeNQuadsWithGraphs(triples, graphs, w)
}

func writeNQuadsWithGraphs(triples []Triple, graphs []string, w io.Writer) error {
	for i, t := range triples {
		if i < len(graphs) && graphs[i] != "" {
			if _, err := fmt.Fprintf(w, "%s %s %s %s .\n", t.Subject, t.Predicate, t.Object, graphs[i]); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s %s %s .\n", t.Subject, t.Predicate, t.Object); err != nil {
			return err
		}
	}
	return nil
}
