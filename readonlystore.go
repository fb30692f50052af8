package ontoenv

import "time"

// ReadOnlyGraphIO wraps another GraphIO, delegating every read operation and
// rejecting every mutation with KindReadOnly. Used when LoadReadOnly opens
// an environment, or wherever a caller must guarantee it cannot perturb a
// shared store.
type ReadOnlyGraphIO struct {
	inner GraphIO
}

// NewReadOnlyGraphIO wraps inner in a read-only facade.
func NewReadOnlyGraphIO(inner GraphIO) *ReadOnlyGraphIO {
	return &ReadOnlyGraphIO{inner: inner}
}

func (s *ReadOnlyGraphIO) IsOffline() bool { return s.inner.IsOffline() }

func (s *ReadOnlyGraphIO) StoreLocation() string { return s.inner.StoreLocation() }

func (s *ReadOnlyGraphIO) Size() (StoreStats, error) { return s.inner.Size() }

func (s *ReadOnlyGraphIO) GetGraph(id GraphIdentifier) ([]Triple, error) {
	return s.inner.GetGraph(id)
}

func (s *ReadOnlyGraphIO) Add(loc Location, overwrite Overwrite) (*Ontology, error) {
	return nil, newErr(KindReadOnly, "cannot add to a read-only store: "+loc.String(), nil)
}

func (s *ReadOnlyGraphIO) AddFromBytes(loc Location, data []byte, format Format, overwrite Overwrite) (*Ontology, error) {
	return nil, newErr(KindReadOnly, "cannot add to a read-only store: "+loc.String(), nil)
}

func (s *ReadOnlyGraphIO) Remove(id GraphIdentifier) error {
	return newErr(KindReadOnly, "cannot remove from a read-only store: "+id.String(), nil)
}

func (s *ReadOnlyGraphIO) UnionGraph(ids []GraphIdentifier) (Dataset, error) {
	return s.inner.UnionGraph(ids)
}

// Flush is a no-op: a read-only handle never buffers writes.
func (s *ReadOnlyGraphIO) Flush() error { return nil }

func (s *ReadOnlyGraphIO) SourceLastModified(id GraphIdentifier) (time.Time, error) {
	return s.inner.SourceLastModified(id)
}
