package ontoenv

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// ErrTripleAlreadyExists is returned by AddTriple/AddTriples when the triple
// is already present in the target graph.
var ErrTripleAlreadyExists = errors.New("triple already exists")

// ErrTripleDoesNotExist is returned by DeleteTriple/DeleteTriples when the
// triple is absent from the target graph.
var ErrTripleDoesNotExist = errors.New("triple does not exist")

// BlazegraphStore is a single named graph within a Blazegraph namespace,
// reached over SPARQL 1.1 HTTP. It backs the External GraphIO variant, one
// instance per ontology, for catalogs too large to hold in bbolt or memory.
type BlazegraphStore struct {
	uri       string
	namespace string
	endpoint  *BlazegraphEndpoint
}

// GetURI returns the named graph URI.
func (store *BlazegraphStore) GetURI() string {
	return store.uri
}

// GetFirstMatch retrieves the first triple matching the pattern. Empty
// strings in subj/pred/obj are wildcards.
func (store *BlazegraphStore) GetFirstMatch(subj, pred, obj string) (*Triple, error) {
	matches, err := store.GetAllMatches(subj, pred, obj)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// GetAllMatches retrieves every triple matching the pattern. Empty strings
// in subj/pred/obj are wildcards.
func (store *BlazegraphStore) GetAllMatches(subj, pred, obj string) ([]Triple, error) {
	s, p, o := "?s", "?p", "?o"
	if subj != "" {
		s = Term(subj).String()
	}
	if pred != "" {
		p = Term(pred).String()
	}
	if obj != "" {
		o = Term(obj).String()
	}
	sparqlReq := fmt.Sprintf(`SELECT ?s ?p ?o WHERE { GRAPH <%s> { %s %s %s. } }`, store.uri, s, p, o)

	resSet, code, err := store.endpoint.DoSparqlJSONQuery(store.namespace, sparqlReq)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("unexpected status from SPARQL query (HTTP %d): %s", code, sparqlReq)
	}
	resTrps := []Triple{}
	for _, trpBinding := range resSet.Results.Bindings {
		sTerm := Term(subj)
		if subj == "" {
			sTerm = binding2Term(trpBinding["s"])
		}
		pTerm := Term(pred)
		if pred == "" {
			pTerm = binding2Term(trpBinding["p"])
		}
		oTerm := Term(obj)
		if obj == "" {
			oTerm = binding2Term(trpBinding["o"])
		}
		resTrps = append(resTrps, Triple{Subject: sTerm, Predicate: pTerm, Object: oTerm})
	}
	return resTrps, nil
}

// DeleteAllMatches removes every triple matching the pattern. Empty strings
// in subj/pred/obj are wildcards.
func (store *BlazegraphStore) DeleteAllMatches(subj, pred, obj string) error {
	s, p, o := "?s", "?p", "?o"
	if subj != "" {
		s = Term(subj).String()
	}
	if pred != "" {
		p = Term(pred).String()
	}
	if obj != "" {
		o = Term(obj).String()
	}
	sparqlReq := fmt.Sprintf(`DELETE WHERE { GRAPH <%s> { %s %s %s . } }`, store.uri, s, p, o)
	code, err := store.endpoint.DoSparqlUpdate(store.namespace, sparqlReq)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return nil
	}
	if code != http.StatusOK {
		return fmt.Errorf("failed to delete triples from graph %q on namespace %q (HTTP %d)", store.uri, store.namespace, code)
	}
	return nil
}

// GetAllTriples returns every triple in the store; equivalent to
// GetAllMatches("", "", "").
func (store *BlazegraphStore) GetAllTriples() ([]Triple, error) {
	return store.GetAllMatches("", "", "")
}

// AddTriple adds trp to the store, or ErrTripleAlreadyExists if present.
func (store *BlazegraphStore) AddTriple(trp Triple) error {
	foundTrp, err := store.tripleExists(trp)
	if err != nil {
		return err
	}
	if foundTrp {
		return ErrTripleAlreadyExists
	}
	return store.AddTripleUnchecked(trp)
}

// AddTriples adds every triple in trps, rolling back what it added so far if
// any one already exists.
func (store *BlazegraphStore) AddTriples(trps []Triple) error {
	addedTrps := []Triple{}
	var err error
	for _, trp := range trps {
		if err = store.AddTriple(trp); err != nil {
			break
		}
		addedTrps = append(addedTrps, trp)
	}
	if err != nil {
		_ = store.DeleteTriplesUnchecked(addedTrps)
		return err
	}
	return nil
}

// AddTripleUnchecked adds trp without checking for prior existence.
func (store *BlazegraphStore) AddTripleUnchecked(trp Triple) error {
	ttlData := fmt.Sprintf("%s %s %s .", trp.Subject.String(), trp.Predicate.String(), trp.Object.String())
	sparqlReq := fmt.Sprintf("INSERT DATA { GRAPH <%s> { %s } }", store.uri, ttlData)
	code, err := store.endpoint.DoSparqlUpdate(store.namespace, sparqlReq)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return fmt.Errorf("namespace %q does not exist (HTTP %d)", store.namespace, http.StatusNotFound)
	}
	if code != http.StatusOK {
		return fmt.Errorf("failed to insert triple into graph %q on namespace %q (HTTP %d)", store.uri, store.namespace, code)
	}
	return nil
}

// AddTriplesUnchecked adds every triple in trps without checking for prior
// existence, in a single SPARQL update.
func (store *BlazegraphStore) AddTriplesUnchecked(trps []Triple) error {
	var ttl strings.Builder
	for _, trp := range trps {
		ttl.WriteString(fmt.Sprintf("%s %s %s .", trp.Subject.String(), trp.Predicate.String(), trp.Object.String()))
	}
	sparqlReq := fmt.Sprintf("INSERT DATA { GRAPH <%s> { %s } }", store.uri, ttl.String())
	code, err := store.endpoint.DoSparqlUpdate(store.namespace, sparqlReq)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return fmt.Errorf("namespace %q does not exist (HTTP %d)", store.namespace, http.StatusNotFound)
	}
	if code != http.StatusOK {
		return fmt.Errorf("failed to insert triples into graph %q on namespace %q (HTTP %d)", store.uri, store.namespace, code)
	}
	return nil
}

// DeleteTriple removes trp from the store, or ErrTripleDoesNotExist if absent.
func (store *BlazegraphStore) DeleteTriple(trp Triple) error {
	foundTrp, err := store.tripleExists(trp)
	if err != nil {
		return err
	}
	if !foundTrp {
		return ErrTripleDoesNotExist
	}
	return store.DeleteTripleUnchecked(trp)
}

// DeleteTriples removes every triple in trps, rolling back what it deleted
// so far if any one is absent.
func (store *BlazegraphStore) DeleteTriples(trps []Triple) error {
	deletedTrps := []Triple{}
	var err error
	for _, trp := range trps {
		if err = store.DeleteTriple(trp); err != nil {
			break
		}
		deletedTrps = append(deletedTrps, trp)
	}
	if err != nil {
		_ = store.AddTriplesUnchecked(deletedTrps)
		return err
	}
	return nil
}

// DeleteTripleUnchecked removes trp without checking for prior existence.
func (store *BlazegraphStore) DeleteTripleUnchecked(trp Triple) error {
	ttlData := fmt.Sprintf("%s %s %s .", trp.Subject.String(), trp.Predicate.String(), trp.Object.String())
	sparqlReq := fmt.Sprintf("DELETE DATA { GRAPH <%s> { %s } }", store.uri, ttlData)
	code, err := store.endpoint.DoSparqlUpdate(store.namespace, sparqlReq)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return nil
	}
	if code != http.StatusOK {
		return fmt.Errorf("failed to delete triple from graph %q on namespace %q (HTTP %d)", store.uri, store.namespace, code)
	}
	return nil
}

// DeleteTriplesUnchecked removes every triple in trps without checking for
// prior existence, in a single SPARQL update.
func (store *BlazegraphStore) DeleteTriplesUnchecked(trps []Triple) error {
	var ttl strings.Builder
	for _, trp := range trps {
		ttl.WriteString(fmt.Sprintf("%s %s %s .", trp.Subject.String(), trp.Predicate.String(), trp.Object.String()))
	}
	sparqlReq := fmt.Sprintf("DELETE DATA { GRAPH <%s> { %s } }", store.uri, ttl.String())
	code, err := store.endpoint.DoSparqlUpdate(store.namespace, sparqlReq)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return nil
	}
	if code != http.StatusOK {
		return fmt.Errorf("failed to delete triples from graph %q on namespace %q (HTTP %d)", store.uri, store.namespace, code)
	}
	return nil
}

// Drop deletes the named graph and renders this store unusable.
func (store *BlazegraphStore) Drop() error {
	if store.endpoint == nil {
		return errors.New("store was already dropped")
	}
	sparqlReq := fmt.Sprintf("ASK WHERE { GRAPH <%s> { ?s ?p ?o } }", store.uri)
	resSet, code, err := store.endpoint.DoSparqlJSONQuery(store.namespace, sparqlReq)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound || (code == http.StatusOK && !resSet.Boolean) {
		return fmt.Errorf("graph %q does not exist on %q", store.uri, store.namespace)
	}
	if code != http.StatusOK {
		return fmt.Errorf("failed to query for existence of %q on namespace %q (HTTP %d)", store.uri, store.namespace, code)
	}

	sparqlReq = fmt.Sprintf("DROP GRAPH <%s>", store.uri)
	code, err = store.endpoint.DoSparqlUpdate(store.namespace, sparqlReq)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return fmt.Errorf("namespace %q does not exist (HTTP %d)", store.namespace, code)
	}
	if code != http.StatusOK {
		return fmt.Errorf("failed to delete graph %q on %q (HTTP %d)", store.uri, store.namespace, code)
	}
	store.uri = ""
	store.namespace = ""
	store.endpoint = nil
	return nil
}

// SerializeToTurtle writes the whole store to w in Turtle; pretty applies a
// prefix block derived from the graph's own owl:imports.
func (store *BlazegraphStore) SerializeToTurtle(w io.Writer, pretty bool) error {
	sparqlReq := fmt.Sprintf("CONSTRUCT { ?s ?p ?o } FROM <%s> WHERE { ?s ?p ?o . }", store.uri)
	ttlBytes, code, err := store.endpoint.DoSparqlTurtleQuery(store.namespace, sparqlReq)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return fmt.Errorf("namespace %q does not exist (HTTP %d)", store.namespace, http.StatusNotFound)
	}
	if code != http.StatusOK {
		return fmt.Errorf("failed to query for graph %q (HTTP %d)", store.uri, code)
	}

	if !pretty {
		_, err := w.Write(ttlBytes)
		return err
	}

	prefixMap := map[string]string{
		"":     store.uri + "#",
		"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
		"owl":  "http://www.w3.org/2002/07/owl#",
		"xsd":  "http://www.w3.org/2001/XMLSchema#",
	}
	trps, err := store.GetAllMatches(NewResourceTerm(store.uri).String(), NewResourceTerm(OWLImports).String(), "")
	if err != nil {
		return err
	}
	for _, trp := range trps {
		importURI := trp.Object.Value()
		abbr := importURI[strings.LastIndex(importURI, "/")+1:]
		prefixMap[abbr] = importURI + "#"
	}

	ttlContent := string(ttlBytes)
	ttlPrefixes := ""
	for abbr, prefix := range prefixMap {
		ttlPrefixes = fmt.Sprintf("%s@prefix %s: <%s> .\n", ttlPrefixes, abbr, prefix)
		re := regexp.MustCompile(fmt.Sprintf(`\<%s(.+?)\>`, regexp.QuoteMeta(prefix)))
		ttlContent = re.ReplaceAllString(ttlContent, fmt.Sprintf(`%s:$1`, abbr))
	}
	ttlContent = strings.ReplaceAll(ttlContent, " .", " .\n\n")
	ttlContent = fmt.Sprintf("%s@base <%s> .\n\n%s", ttlPrefixes, store.uri, ttlContent)

	_, err = io.WriteString(w, ttlContent)
	return err
}

// Size returns the total number of triples in the store.
func (store *BlazegraphStore) Size() (int, error) {
	sparqlReq := fmt.Sprintf("SELECT (COUNT(*) as ?n) FROM <%s> WHERE { ?s ?p ?o } ", store.uri)
	resSet, code, err := store.endpoint.DoSparqlJSONQuery(store.namespace, sparqlReq)
	if err != nil {
		return 0, err
	}
	if code == http.StatusNotFound {
		return 0, fmt.Errorf("namespace %q does not exist (HTTP %d)", store.namespace, http.StatusNotFound)
	}
	if code != http.StatusOK {
		return 0, fmt.Errorf("failed to execute SELECT query on namespace %q (HTTP %d)", store.namespace, code)
	}
	return strconv.Atoi(resSet.Results.Bindings[0]["n"].Value)
}

func (store *BlazegraphStore) tripleExists(trp Triple) (bool, error) {
	sparqlReq := fmt.Sprintf("ASK WHERE { GRAPH <%s> { %s %s %s } }", store.uri, trp.Subject.String(), trp.Predicate.String(), trp.Object.String())
	resSet, code, err := store.endpoint.DoSparqlJSONQuery(store.namespace, sparqlReq)
	if err != nil {
		return false, err
	}
	if code == http.StatusNotFound {
		return false, nil
	}
	if code != http.StatusOK {
		return false, fmt.Errorf("failed to execute ASK query on namespace %q (HTTP %d)", store.namespace, code)
	}
	return resSet.Boolean, nil
}

func binding2Term(binding sparqlBinding) Term {
	switch binding.Type {
	case "uri":
		return NewResourceTerm(binding.Value)
	case "literal", "typed-literal":
		return NewLiteralTerm(binding.Value, binding.Lang, binding.DataType)
	default:
		return NewLiteralTerm(binding.Value, "", "")
	}
}
