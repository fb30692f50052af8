package ontoenv

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// BlazegraphEndpoint is the SPARQL 1.1 HTTP endpoint of a Blazegraph
// database, backing the External GraphIO variant for deployments too large
// to hold in bbolt or memory.
type BlazegraphEndpoint struct {
	host   string
	client *http.Client
}

// NewBlazegraphEndpoint builds an endpoint handle over hostAddr, e.g.
// "http://localhost:9999".
func NewBlazegraphEndpoint(hostAddr string) *BlazegraphEndpoint {
	return &BlazegraphEndpoint{
		host:   strings.TrimSuffix(hostAddr, "/"),
		client: http.DefaultClient,
	}
}

// NewBlazegraphStore associates a named graph URI within namespace with this
// endpoint. Neither the namespace nor the graph's existence is checked here.
func (ep *BlazegraphEndpoint) NewBlazegraphStore(uri, namespace string) *BlazegraphStore {
	return &BlazegraphStore{
		uri:       uri,
		namespace: namespace,
		endpoint:  ep,
	}
}

// IsOnline reports whether the Blazegraph instance answers its status page.
func (ep *BlazegraphEndpoint) IsOnline() (bool, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/bigdata/status", ep.host), nil)
	if err != nil {
		return false, err
	}
	code, _, err := ep.doHTTP(req)
	if err != nil {
		return false, err
	}
	return code == http.StatusOK, nil
}

// GetNamespaces retrieves the list of namespaces in the database.
func (ep *BlazegraphEndpoint) GetNamespaces() ([]string, error) {
	path := fmt.Sprintf("%s/bigdata/namespace?describe-each-named-graph=false", ep.host)
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	code, data, err := ep.doHTTP(req)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("failed to query namespaces from database (HTTP %d)", code)
	}
	re := regexp.MustCompile("/bigdata/namespace/(.+)/sparql")
	matches := re.FindAllStringSubmatch(string(data), -1)
	namespaces := make([]string, 0, len(matches))
	for _, m := range matches {
		namespaces = append(namespaces, m[1])
	}
	return namespaces, nil
}

// CreateNamespace creates a new quads-mode namespace with the given id. The
// id must not contain special characters or '.'.
func (ep *BlazegraphEndpoint) CreateNamespace(id string) error {
	payload := fmt.Sprintf(`
	com.bigdata.rdf.store.AbstractTripleStore.vocabularyClass=com.bigdata.rdf.vocab.core.BigdataCoreVocabulary_v20160317
	com.bigdata.rdf.store.AbstractTripleStore.textIndex=false
	com.bigdata.rdf.store.AbstractTripleStore.axiomsClass=com.bigdata.rdf.axioms.NoAxioms
	com.bigdata.rdf.sail.isolatableIndices=false
	com.bigdata.rdf.store.AbstractTripleStore.justify=false
	com.bigdata.rdf.sail.truthMaintenance=false
	com.bigdata.namespace.%s.spo.com.bigdata.btree.BTree.branchingFactor=1024
	com.bigdata.rdf.sail.namespace=%s
	com.bigdata.rdf.store.AbstractTripleStore.quads=true
	com.bigdata.namespace.%s.lex.com.bigdata.btree.BTree.branchingFactor=400
	com.bigdata.rdf.store.AbstractTripleStore.geoSpatial=false
	com.bigdata.rdf.store.AbstractTripleStore.statementIdentifiers=false`, id, id, id)

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/bigdata/namespace", ep.host), strings.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")

	code, _, err := ep.doHTTP(req)
	if err != nil {
		return err
	}
	if code != http.StatusCreated {
		return fmt.Errorf("failed to create blazegraph namespace %q (HTTP %d)", id, code)
	}
	return nil
}

// DropNamespace removes the namespace with the given id. Dropping an absent
// namespace is not an error; use NamespaceExists to check first.
func (ep *BlazegraphEndpoint) DropNamespace(id string) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/bigdata/namespace/%s", ep.host, url.PathEscape(id)), nil)
	if err != nil {
		return err
	}
	code, _, err := ep.doHTTP(req)
	if err != nil {
		return err
	}
	if code != http.StatusOK && code != http.StatusNotFound {
		return fmt.Errorf("failed to delete blazegraph namespace %q (HTTP %d)", id, code)
	}
	return nil
}

// NamespaceExists reports whether a namespace with the given id exists.
func (ep *BlazegraphEndpoint) NamespaceExists(id string) (bool, error) {
	namespaces, err := ep.GetNamespaces()
	if err != nil {
		return false, err
	}
	for _, s := range namespaces {
		if s == id {
			return true, nil
		}
	}
	return false, nil
}

// InsertTurtleData inserts Turtle-serialized data into uri's named graph.
func (ep *BlazegraphEndpoint) InsertTurtleData(namespace, uri string, ttlData io.Reader) error {
	var buf strings.Builder
	if _, err := io.Copy(&buf, ttlData); err != nil {
		return err
	}
	sparqlReq := fmt.Sprintf("INSERT DATA { GRAPH <%s> { %s } }", uri, buf.String())
	code, err := ep.DoSparqlUpdate(namespace, sparqlReq)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return fmt.Errorf("namespace %q does not exist (HTTP %d)", namespace, http.StatusNotFound)
	}
	if code != http.StatusOK {
		return fmt.Errorf("failed to insert turtle data into %q on namespace %q (HTTP %d)", uri, namespace, code)
	}
	return nil
}

// DoSparqlTurtleQuery queries the database, requesting Turtle output.
func (ep *BlazegraphEndpoint) DoSparqlTurtleQuery(namespace, sparqlQuery string) ([]byte, int, error) {
	encQuery := "query=" + url.QueryEscape(sparqlQuery)
	path := fmt.Sprintf("%s/bigdata/namespace/%s/sparql", ep.host, url.PathEscape(namespace))
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(encQuery))
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/x-turtle")

	code, data, err := ep.doHTTP(req)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return data, code, nil
}

// DoSparqlJSONQuery queries the database, requesting SPARQL JSON results.
func (ep *BlazegraphEndpoint) DoSparqlJSONQuery(namespace, sparqlQuery string) (sparqlJSONResultSet, int, error) {
	var resSet sparqlJSONResultSet
	encQuery := "query=" + url.QueryEscape(sparqlQuery)
	path := fmt.Sprintf("%s/bigdata/namespace/%s/sparql", ep.host, url.PathEscape(namespace))
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(encQuery))
	if err != nil {
		return resSet, http.StatusInternalServerError, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	code, data, err := ep.doHTTP(req)
	if err != nil {
		return resSet, http.StatusInternalServerError, err
	}
	if code != http.StatusOK {
		return resSet, code, nil
	}
	err = json.Unmarshal(data, &resSet)
	return resSet, code, err
}

// DoSparqlUpdate performs a SPARQL 1.1 update against the database.
func (ep *BlazegraphEndpoint) DoSparqlUpdate(namespace, sparqlUpdate string) (int, error) {
	encUpdate := "update=" + url.QueryEscape(sparqlUpdate)
	path := fmt.Sprintf("%s/bigdata/namespace/%s/sparql", ep.host, url.PathEscape(namespace))
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(encUpdate))
	if err != nil {
		return http.StatusInternalServerError, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	code, _, err := ep.doHTTP(req)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	return code, nil
}

// doHTTP executes req and returns its status code and body. A status of -1
// signals a transport-level failure rather than an HTTP response.
func (ep *BlazegraphEndpoint) doHTTP(req *http.Request) (int, []byte, error) {
	res, err := ep.client.Do(req)
	if err != nil {
		return -1, nil, err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, data, nil
}

// sparqlBinding is one variable binding within a SPARQL JSON result row.
type sparqlBinding struct {
	Type     string `json:"type,omitempty"` // "uri", "literal", "typed-literal", or "bnode"
	Value    string `json:"value,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
	DataType string `json:"datatype,omitempty"`
}

// sparqlJSONResultSet is the SPARQL 1.1 Query Results JSON Format envelope.
type sparqlJSONResultSet struct {
	Head struct {
		Link []string `json:"link,omitempty"`
		Vars []string `json:"vars,omitempty"`
	} `json:"head,omitempty"`
	Results struct {
		Bindings []map[string]sparqlBinding `json:"bindings,omitempty"`
	} `json:"results,omitempty"`
	Boolean bool `json:"boolean,omitempty"`
}
