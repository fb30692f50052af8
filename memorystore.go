package ontoenv

import (
	"time"
)

// MemoryGraphIO is an in-memory GraphIO backend: a map of named graphs
// keyed by GraphIdentifier, with no locking and no durability. Suitable for
// --temporary environments and for tests. Grounded on the teacher's
// MemoryStore, generalized from one graph per store instance to many.
type MemoryGraphIO struct {
	offline bool
	cfg     *Config
	graphs  map[GraphIdentifier][]Triple
}

// NewMemoryGraphIO creates an empty in-memory store.
func NewMemoryGraphIO(cfg *Config, offline bool) *MemoryGraphIO {
	return &MemoryGraphIO{
		offline: offline,
		cfg:     cfg,
		graphs:  make(map[GraphIdentifier][]Triple),
	}
}

func (s *MemoryGraphIO) IsOffline() bool { return s.offline }

func (s *MemoryGraphIO) StoreLocation() string { return "" }

func (s *MemoryGraphIO) Size() (StoreStats, error) {
	stats := StoreStats{NumGraphs: len(s.graphs)}
	for _, trps := range s.graphs {
		stats.NumTriples += len(trps)
	}
	return stats, nil
}

func (s *MemoryGraphIO) GetGraph(id GraphIdentifier) ([]Triple, error) {
	trps, ok := s.graphs[id]
	if !ok {
		return nil, newErr(KindCorrupt, "graph not found: "+id.String(), nil)
	}
	return trps, nil
}

func (s *MemoryGraphIO) findByName(name string) (GraphIdentifier, bool) {
	for id := range s.graphs {
		if id.Name == name {
			return id, true
		}
	}
	return GraphIdentifier{}, false
}

func (s *MemoryGraphIO) Add(loc Location, overwrite Overwrite) (*Ontology, error) {
	data, format, err := readLocation(loc, s.offline)
	if err != nil {
		return nil, err
	}
	return s.AddFromBytes(loc, data, format, overwrite)
}

func (s *MemoryGraphIO) AddFromBytes(loc Location, data []byte, format Format, overwrite Overwrite) (*Ontology, error) {
	triples, err := parseTriples(data, format)
	if err != nil {
		return nil, err
	}
	ont, err := ExtractOntology(triples, loc, extractionOptionsFor(s.cfg))
	if err != nil {
		return nil, err
	}
	ont.ContentHash = contentHash(data)
	if overwrite == OverwriteAllow {
		if existing, ok := s.findByName(ont.Name); ok {
			delete(s.graphs, existing)
		}
	} else if _, ok := s.findByName(ont.Name); ok {
		return ont, nil
	}
	s.graphs[ont.ID] = triples
	return ont, nil
}

func (s *MemoryGraphIO) Remove(id GraphIdentifier) error {
	delete(s.graphs, id)
	return nil
}

func (s *MemoryGraphIO) UnionGraph(ids []GraphIdentifier) (Dataset, error) {
	var ds Dataset
	for _, id := range ids {
		trps, ok := s.graphs[id]
		if !ok {
			return nil, newErr(KindCorrupt, "graph not found in union: "+id.String(), nil)
		}
		g := Term(NewResourceTerm(id.Name))
		for _, t := range trps {
			ds = append(ds, Quad{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object, Graph: g})
		}
	}
	return ds, nil
}

func (s *MemoryGraphIO) Flush() error { return nil }

func (s *MemoryGraphIO) SourceLastModified(id GraphIdentifier) (time.Time, error) {
	return sourceLastModified(id, FetchOptions{Offline: s.offline})
}
