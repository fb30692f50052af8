package ontoenv

import "sort"

// Index is the in-memory environment index: every ingested Ontology record,
// keyed by its compound GraphIdentifier, plus a secondary name->identifiers
// map used to resolve owl:imports targets and detect name collisions.
type Index struct {
	byID       map[GraphIdentifier]*Ontology
	byName     map[string][]GraphIdentifier
	byLocation map[string]GraphIdentifier // Location.String() -> id, for dedup on re-add
}

// NewIndex builds an empty Index.
func NewIndex() *Index {
	return &Index{
		byID:       make(map[GraphIdentifier]*Ontology),
		byName:     make(map[string][]GraphIdentifier),
		byLocation: make(map[string]GraphIdentifier),
	}
}

// Put inserts or replaces the record for o.ID, maintaining both indexes.
func (idx *Index) Put(o *Ontology) {
	if _, exists := idx.byID[o.ID]; !exists {
		idx.byName[o.Name] = append(idx.byName[o.Name], o.ID)
	}
	idx.byID[o.ID] = o
	idx.byLocation[o.ID.Location.String()] = o.ID
}

// Remove deletes id's record from both indexes.
func (idx *Index) Remove(id GraphIdentifier) {
	o, ok := idx.byID[id]
	if !ok {
		return
	}
	delete(idx.byID, id)
	delete(idx.byLocation, id.Location.String())
	names := idx.byName[o.Name]
	for i, n := range names {
		if n == id {
			idx.byName[o.Name] = append(names[:i], names[i+1:]...)
			break
		}
	}
	if len(idx.byName[o.Name]) == 0 {
		delete(idx.byName, o.Name)
	}
}

// GetByID returns the record for an exact identifier.
func (idx *Index) GetByID(id GraphIdentifier) (*Ontology, bool) {
	o, ok := idx.byID[id]
	return o, ok
}

// GetByLocation returns the identifier (if any) already occupying loc,
// used by the update engine to decide whether an Add is a re-ingest.
func (idx *Index) GetByLocation(loc Location) (GraphIdentifier, bool) {
	id, ok := idx.byLocation[loc.String()]
	return id, ok
}

// GetByName returns every record sharing name, in a stable order (by
// location string) so callers get deterministic candidate lists to hand a
// ResolutionPolicy.
func (idx *Index) GetByName(name string) []*Ontology {
	ids := idx.byName[name]
	out := make([]*Ontology, 0, len(ids))
	for _, id := range ids {
		out = append(out, idx.byID[id])
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Location.String() < out[j].ID.Location.String()
	})
	return out
}

// All returns every record in the index, in a stable order (by name then
// location), for listing and persistence.
func (idx *Index) All() []*Ontology {
	out := make([]*Ontology, 0, len(idx.byID))
	for _, o := range idx.byID {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.Location.String() < out[j].ID.Location.String()
	})
	return out
}

// Len reports the number of ontology records held.
func (idx *Index) Len() int {
	return len(idx.byID)
}

// Resolve picks a single record for name using policy, collapsing the
// trivial one-candidate and zero-candidate cases before delegating.
func (idx *Index) Resolve(name string, policy ResolutionPolicy) (*Ontology, error) {
	candidates := idx.GetByName(name)
	if len(candidates) == 0 {
		return nil, newErr(KindUnresolved, "no ontology named "+name+" in environment", nil)
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return policy.Resolve(candidates)
}
