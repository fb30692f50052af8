package ontoenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocationKind tags the three storage forms a Location can take.
type LocationKind int

const (
	// LocationFile is a path on the local filesystem.
	LocationFile LocationKind = iota
	// LocationURL is an HTTP(S) resource.
	LocationURL
	// LocationMemory is an opaque in-process tag with no backing source.
	LocationMemory
)

// Location identifies where an ontology's bytes came from. It is one half
// of a GraphIdentifier's compound key; two ontologies with the same name
// but different locations are distinct records.
type Location struct {
	Kind LocationKind
	Path string // absolute filesystem path, Kind == LocationFile
	URL  string // verbatim URL, Kind == LocationURL
	Tag  string // opaque identifier, Kind == LocationMemory
}

// NewFileLocation builds a Location from an absolute or relative path,
// resolving relative paths against the process working directory.
func NewFileLocation(path string) (Location, error) {
	path = strings.TrimPrefix(path, "file://")
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return Location{}, err
		}
		path = filepath.Join(wd, path)
	}
	return Location{Kind: LocationFile, Path: filepath.Clean(path)}, nil
}

// NewURLLocation builds a Location for a remote resource.
func NewURLLocation(url string) Location {
	return Location{Kind: LocationURL, URL: url}
}

// NewMemoryLocation builds a Location carrying an opaque identifier with no
// backing source; tag is typically a shortuuid generated by the caller.
func NewMemoryLocation(tag string) Location {
	return Location{Kind: LocationMemory, Tag: tag}
}

// ParseLocation recognizes URLs by an http(s):// prefix (optionally
// bracketed in angle brackets); otherwise strips a leading file:// and
// resolves the remainder as an absolute filesystem path.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	bare := strings.TrimPrefix(strings.TrimSuffix(s, ">"), "<")
	if strings.HasPrefix(bare, "http://") || strings.HasPrefix(bare, "https://") {
		return NewURLLocation(bare), nil
	}
	return NewFileLocation(bare)
}

// String renders the canonical form: file paths as file://, URLs verbatim,
// in-memory tags as an ontoenv://memory/ pseudo-scheme.
func (l Location) String() string {
	switch l.Kind {
	case LocationFile:
		return "file://" + l.Path
	case LocationURL:
		return l.URL
	case LocationMemory:
		return "ontoenv://memory/" + l.Tag
	default:
		return ""
	}
}

// ToIRI produces the NamedNode-equivalent IRI string for this location,
// equal to its canonical String() form.
func (l Location) ToIRI() string {
	return l.String()
}

// IsFile reports whether this location denotes a filesystem path.
func (l Location) IsFile() bool {
	return l.Kind == LocationFile
}

// IsURL reports whether this location denotes a remote HTTP(S) resource.
func (l Location) IsURL() bool {
	return l.Kind == LocationURL
}

// Equal reports structural equality, used by the environment's secondary index.
func (l Location) Equal(other Location) bool {
	return l == other
}

// GraphIdentifier is the compound key (name, location) that uniquely
// identifies an ontology record. Two records sharing a name but loaded
// from different locations are distinct.
type GraphIdentifier struct {
	Name     string
	Location Location
}

func (id GraphIdentifier) String() string {
	return fmt.Sprintf("%s @ %s", id.Name, id.Location)
}

// GraphName is the named-graph IRI this identifier's triples are stored
// under in a quad store; it is simply the ontology name.
func (id GraphIdentifier) GraphName() string {
	return id.Name
}
