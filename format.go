package ontoenv

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deiu/rdf2go"
)

// Format names an RDF serialization the fetch layer and filesystem reader
// can resolve to and the parser layer knows how to read.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatRDFXML   Format = "rdfxml"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatTriG     Format = "trig"
	FormatJSONLD   Format = "jsonld"
)

// mimeType returns the rdf2go/net-http MIME type for a Format, used both
// for parsing via rdf2go and for building Accept headers.
func (f Format) mimeType() string {
	switch f {
	case FormatTurtle:
		return "text/turtle"
	case FormatRDFXML:
		return "application/rdf+xml"
	case FormatNTriples:
		return "application/n-triples"
	case FormatNQuads:
		return "application/n-quads"
	case FormatTriG:
		return "application/trig"
	case FormatJSONLD:
		return "application/ld+json"
	default:
		return "text/turtle"
	}
}

// formatFromExtension dispatches on a file extension, defaulting to Turtle
// for missing or unrecognized extensions.
func formatFromExtension(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "ttl", "n3":
		return FormatTurtle
	case "xml", "rdf", "owl":
		return FormatRDFXML
	case "nt":
		return FormatNTriples
	case "jsonld", "json":
		return FormatJSONLD
	case "nq":
		return FormatNQuads
	case "trig":
		return FormatTriG
	default:
		return FormatTurtle
	}
}

// detectFormatFromContentType maps a Content-Type header (ignoring any
// parameters after ';') to a Format, returning ok=false when unrecognized.
func detectFormatFromContentType(ct string) (Format, bool) {
	ct = strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
	switch ct {
	case "text/turtle", "application/x-turtle":
		return FormatTurtle, true
	case "application/rdf+xml":
		return FormatRDFXML, true
	case "application/n-triples", "application/ntriples":
		return FormatNTriples, true
	case "application/n-quads":
		return FormatNQuads, true
	case "application/trig":
		return FormatTriG, true
	case "application/ld+json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// detectFormatFromURL inspects a URL's trailing path extension.
func detectFormatFromURL(url string) (Format, bool) {
	trimmed := strings.SplitN(url, "#", 2)[0]
	trimmed = strings.SplitN(trimmed, "?", 2)[0]
	ext := strings.ToLower(filepath.Ext(trimmed))
	switch ext {
	case ".ttl":
		return FormatTurtle, true
	case ".rdf", ".owl", ".xml":
		return FormatRDFXML, true
	case ".nt":
		return FormatNTriples, true
	case ".jsonld", ".json":
		return FormatJSONLD, true
	case ".nq":
		return FormatNQuads, true
	case ".trig":
		return FormatTriG, true
	default:
		return "", false
	}
}

// sniffFormat inspects a byte prefix for characteristic markers.
func sniffFormat(data []byte) (Format, bool) {
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	sample := string(data[:n])
	trimmed := strings.TrimLeft(sample, " \t\r\n")

	switch {
	case strings.HasPrefix(trimmed, "{") && strings.Contains(sample, `"@context"`):
		return FormatJSONLD, true
	case strings.HasPrefix(trimmed, "<") && (strings.Contains(sample, "<rdf:RDF") || strings.Contains(sample, "xmlns:rdf")):
		return FormatRDFXML, true
	case strings.Contains(sample, "@prefix") || strings.Contains(sample, "@base") || strings.Contains(sample, "PREFIX "):
		return FormatTurtle, true
	case strings.Contains(sample, "GRAPH") && strings.Contains(sample, "{"):
		return FormatTriG, true
	case strings.HasPrefix(trimmed, "_:"):
		return FormatNTriples, true
	default:
		return "", false
	}
}

// tryParseCandidates attempts each format in the fixed trial order used
// when neither content-type nor extension nor sniffing resolved a format,
// returning the first one that parses without error.
func tryParseCandidates(data []byte) (Format, bool) {
	for _, f := range []Format{FormatTurtle, FormatRDFXML, FormatNTriples, FormatNQuads, FormatTriG, FormatJSONLD} {
		if _, err := parseTriples(data, f); err == nil {
			return f, true
		}
	}
	return "", false
}

// parseTriples parses data in the given format into a flat triple slice.
// Turtle and JSON-LD go through rdf2go; N-Triples, N-Quads, and TriG use
// small line-oriented readers since rdf2go does not support them; RDF/XML
// is attempted through rdf2go's generic reader and reported as a parse
// failure when it cannot cope.
func parseTriples(data []byte, format Format) ([]Triple, error) {
	switch format {
	case FormatNTriples:
		return parseNTriples(data)
	case FormatNQuads:
		return parseNQuads(data)
	case FormatTriG:
		return parseNQuads(data) // TriG without named-graph blocks degrades to NQuads-shaped lines
	default:
		g := rdf2go.NewGraph("")
		if err := g.Parse(bytes.NewReader(data), format.mimeType()); err != nil {
			return nil, newErr(KindParseError, fmt.Sprintf("parsing as %s", format), err)
		}
		var out []Triple
		for t := range g.IterTriples() {
			out = append(out, Triple{
				Subject:   Term(t.Subject.String()),
				Predicate: Term(t.Predicate.String()),
				Object:    Term(t.Object.String()),
			})
		}
		return out, nil
	}
}

// parseNTriples reads one triple per line in the canonical <s> <p> o . form.
func parseNTriples(data []byte) ([]Triple, error) {
	var out []Triple
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		trp, err := parseNTripleLine(line)
		if err != nil {
			return nil, newErr(KindParseError, "parsing N-Triples line", err)
		}
		out = append(out, *trp)
	}
	return out, scanner.Err()
}

// parseNQuads reads N-Quads lines, discarding the graph component (the
// fourth term) since the core assigns graphs by ontology name, not by the
// source document's own quad partitioning.
func parseNQuads(data []byte) ([]Triple, error) {
	var out []Triple
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		trp, err := parseNTripleLine(line)
		if err != nil {
			return nil, newErr(KindParseError, "parsing N-Quads line", err)
		}
		out = append(out, *trp)
	}
	return out, scanner.Err()
}

// parseNTripleLine splits a terminated N-Triples/N-Quads line into its
// leading subject/predicate/object terms, ignoring any trailing graph term
// and the final '.'.
func parseNTripleLine(line string) (*Triple, error) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ".")
	fields := splitTerms(line)
	if len(fields) < 3 {
		return nil, fmt.Errorf("expected at least 3 terms, got %d", len(fields))
	}
	return &Triple{
		Subject:   Term(fields[0]),
		Predicate: Term(fields[1]),
		Object:    Term(fields[2]),
	}, nil
}

// splitTerms splits a line into its whitespace-delimited terms while
// keeping quoted literals (which may contain spaces) and bracketed IRIs
// intact as single fields.
func splitTerms(line string) []string {
	var fields []string
	var cur strings.Builder
	inLiteral := false
	inIRI := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '<' && !inLiteral:
			inIRI = true
			cur.WriteByte(c)
		case c == '>' && inIRI:
			inIRI = false
			cur.WriteByte(c)
		case c == '"' && !inIRI:
			inLiteral = !inLiteral
			cur.WriteByte(c)
		case c == ' ' && !inLiteral && !inIRI:
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}
