package ontoenv

import (
	"time"
)

// externalNamespace is the single Blazegraph namespace ontoenv provisions
// for the External GraphIO variant; one named graph lives inside it per
// ontology, keyed by ontology name.
const externalNamespace = "ontoenv"

// ExternalGraphIO is a GraphIO backend proxying to a remote Blazegraph
// instance over SPARQL 1.1 HTTP, for catalogs too large to hold in bbolt or
// memory. Grounded on the teacher's BlazegraphStore/BlazegraphEndpoint,
// generalized from a single named graph per process to one per ontology.
type ExternalGraphIO struct {
	offline   bool
	cfg       *Config
	endpoint  *BlazegraphEndpoint
	namespace string
	stores    map[GraphIdentifier]*BlazegraphStore
}

// OpenExternalGraphIO connects to hostAddr (e.g. "http://localhost:9999")
// and provisions its namespace if absent.
func OpenExternalGraphIO(hostAddr string, cfg *Config, offline bool) (*ExternalGraphIO, error) {
	ep := NewBlazegraphEndpoint(hostAddr)
	exists, err := ep.NamespaceExists(externalNamespace)
	if err != nil {
		return nil, newErr(KindFetchFailed, "contacting external graph store at "+hostAddr, err)
	}
	if !exists {
		if err := ep.CreateNamespace(externalNamespace); err != nil {
			return nil, newErr(KindFetchFailed, "provisioning external graph store namespace", err)
		}
	}
	return &ExternalGraphIO{
		offline:   offline,
		cfg:       cfg,
		endpoint:  ep,
		namespace: externalNamespace,
		stores:    make(map[GraphIdentifier]*BlazegraphStore),
	}, nil
}

func (s *ExternalGraphIO) storeFor(id GraphIdentifier) *BlazegraphStore {
	if st, ok := s.stores[id]; ok {
		return st
	}
	st := s.endpoint.NewBlazegraphStore(id.GraphName(), s.namespace)
	s.stores[id] = st
	return st
}

func (s *ExternalGraphIO) IsOffline() bool { return s.offline }

func (s *ExternalGraphIO) StoreLocation() string { return s.endpoint.host }

func (s *ExternalGraphIO) Size() (StoreStats, error) {
	stats := StoreStats{NumGraphs: len(s.stores)}
	for _, st := range s.stores {
		n, err := st.Size()
		if err != nil {
			return stats, err
		}
		stats.NumTriples += n
	}
	return stats, nil
}

func (s *ExternalGraphIO) GetGraph(id GraphIdentifier) ([]Triple, error) {
	st, ok := s.stores[id]
	if !ok {
		return nil, newErr(KindCorrupt, "graph not found: "+id.String(), nil)
	}
	return st.GetAllTriples()
}

func (s *ExternalGraphIO) findByName(name string) (GraphIdentifier, bool) {
	for id := range s.stores {
		if id.Name == name {
			return id, true
		}
	}
	return GraphIdentifier{}, false
}

func (s *ExternalGraphIO) Add(loc Location, overwrite Overwrite) (*Ontology, error) {
	data, format, err := readLocation(loc, s.offline)
	if err != nil {
		return nil, err
	}
	return s.AddFromBytes(loc, data, format, overwrite)
}

func (s *ExternalGraphIO) AddFromBytes(loc Location, data []byte, format Format, overwrite Overwrite) (*Ontology, error) {
	triples, err := parseTriples(data, format)
	if err != nil {
		return nil, err
	}
	ont, err := ExtractOntology(triples, loc, extractionOptionsFor(s.cfg))
	if err != nil {
		return nil, err
	}
	ont.ContentHash = contentHash(data)

	if existing, ok := s.findByName(ont.Name); ok {
		if overwrite == OverwritePreserve {
			return ont, nil
		}
		delete(s.stores, existing)
	}

	st := s.storeFor(ont.ID)
	if err := st.AddTriplesUnchecked(triples); err != nil {
		return nil, newErr(KindFetchFailed, "writing to external graph store", err)
	}
	return ont, nil
}

func (s *ExternalGraphIO) Remove(id GraphIdentifier) error {
	st, ok := s.stores[id]
	if !ok {
		return nil
	}
	if err := st.DeleteAllMatches("", "", ""); err != nil {
		return newErr(KindFetchFailed, "removing graph from external graph store", err)
	}
	delete(s.stores, id)
	return nil
}

func (s *ExternalGraphIO) UnionGraph(ids []GraphIdentifier) (Dataset, error) {
	var ds Dataset
	for _, id := range ids {
		st, ok := s.stores[id]
		if !ok {
			return nil, newErr(KindCorrupt, "graph not found in union: "+id.String(), nil)
		}
		trps, err := st.GetAllTriples()
		if err != nil {
			return nil, newErr(KindFetchFailed, "reading from external graph store", err)
		}
		g := Term(NewResourceTerm(id.Name))
		for _, t := range trps {
			ds = append(ds, Quad{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object, Graph: g})
		}
	}
	return ds, nil
}

// Flush is a no-op: every SPARQL update Blazegraph accepts is already
// committed.
func (s *ExternalGraphIO) Flush() error { return nil }

func (s *ExternalGraphIO) SourceLastModified(id GraphIdentifier) (time.Time, error) {
	return sourceLastModified(id, FetchOptions{Offline: s.offline})
}
