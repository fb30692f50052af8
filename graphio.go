package ontoenv

import "time"

// Quad is a Triple placed into a named graph, the unit the transformation
// pipeline and union-graph assembly operate over.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// Dataset is an unordered collection of quads spanning multiple named
// graphs, as produced by GraphIO.UnionGraph and consumed by the
// transformation pipeline.
type Dataset []Quad

// StoreStats summarizes the size of a GraphIO backend, backing `status`.
type StoreStats struct {
	NumGraphs  int
	NumTriples int
}

// Overwrite controls whether GraphIO.Add replaces an existing named graph.
type Overwrite bool

const (
	// OverwriteAllow replaces any existing ontology with the incoming data.
	OverwriteAllow Overwrite = true
	// OverwritePreserve leaves an existing named graph untouched.
	OverwritePreserve Overwrite = false
)

// GraphIO is the capability interface the core consumes for quad storage.
// Three variants exist: persistent (bbolt-backed, single-writer), in-memory
// (no locking, volatile), and read-only (rejects all mutation). A fourth,
// External, proxies to a remote quad store over HTTP.
type GraphIO interface {
	// IsOffline reports whether this backend is forbidden from network I/O.
	IsOffline() bool
	// Size reports the backend's graph and triple counts.
	Size() (StoreStats, error)
	// StoreLocation returns the on-disk path backing this store ("" for the
	// in-memory backend, the remote host address for External).
	StoreLocation() string

	// GetGraph returns the triples stored under id's named graph.
	GetGraph(id GraphIdentifier) ([]Triple, error)
	// Add parses the bytes at location, extracts its Ontology record, and
	// stores its triples under a named graph keyed by the extracted name.
	// Overwrite controls whether an existing named graph is replaced.
	Add(loc Location, overwrite Overwrite) (*Ontology, error)
	// AddFromBytes extracts and stores triples already retrieved by the
	// caller (e.g. the fetch layer), given a format hint.
	AddFromBytes(loc Location, data []byte, format Format, overwrite Overwrite) (*Ontology, error)
	// Remove deletes id's named graph from the store.
	Remove(id GraphIdentifier) error
	// UnionGraph composes a Dataset from every id's named graph, in order.
	UnionGraph(ids []GraphIdentifier) (Dataset, error)
	// Flush persists any buffered writes to durable storage.
	Flush() error

	// SourceLastModified reports the freshness of id's backing source: the
	// filesystem mtime for File locations, the HTTP Last-Modified header
	// for URL locations (or now, conservatively, if absent).
	SourceLastModified(id GraphIdentifier) (time.Time, error)
}

// extractionOptionsFor builds extraction options from a Config.
func extractionOptionsFor(cfg *Config) extractionOptions {
	return extractionOptions{
		RequireOntologyNames: cfg.RequireOntologyNames,
		Strict:               cfg.Strict,
		IncludeOntologies:    cfg.IncludeOntologies,
		ExcludeOntologies:    cfg.ExcludeOntologies,
	}
}
