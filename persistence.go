package ontoenv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// ontoenvDirName is the subdirectory name anchoring a persistent environment.
const ontoenvDirName = ".ontoenv"

// rfc3339Milli is the timestamp layout used for last_updated fields in
// environment.json; millisecond precision is plenty for staleness checks
// and keeps the manifest diff-friendly across re-saves.
const rfc3339Milli = "2006-01-02T15:04:05.000Z07:00"

func parseRFC3339Milli(s string) (time.Time, error) {
	return time.Parse(rfc3339Milli, s)
}

const (
	configFileName    = "ontoenv.json"
	manifestFileName  = "environment.json"
	depGraphFileName  = "dependency_graph.json"
)

// manifestRecord is the on-disk shape of a single Ontology record: the
// compound identifier flattened alongside its metadata, since Location
// itself isn't a bare JSON-friendly value.
type manifestRecord struct {
	Name              string            `json:"name"`
	LocationKind      LocationKind      `json:"location_kind"`
	LocationPath      string            `json:"location_path,omitempty"`
	LocationURL       string            `json:"location_url,omitempty"`
	LocationTag       string            `json:"location_tag,omitempty"`
	Imports           []string          `json:"imports"`
	VersionProperties map[string]string `json:"version_properties"`
	NamespaceMap      map[string]string `json:"namespace_map"`
	ContentHash       string            `json:"content_hash"`
	LastUpdated       *string           `json:"last_updated,omitempty"`
}

func toManifestRecord(o *Ontology) manifestRecord {
	r := manifestRecord{
		Name:              o.Name,
		LocationKind:      o.ID.Location.Kind,
		LocationPath:      o.ID.Location.Path,
		LocationURL:       o.ID.Location.URL,
		LocationTag:       o.ID.Location.Tag,
		Imports:           o.Imports,
		VersionProperties: o.VersionProperties,
		NamespaceMap:      o.NamespaceMap,
		ContentHash:       o.ContentHash,
	}
	if o.LastUpdated != nil {
		s := o.LastUpdated.Format(rfc3339Milli)
		r.LastUpdated = &s
	}
	return r
}

func fromManifestRecord(r manifestRecord) (*Ontology, error) {
	loc := Location{Kind: r.LocationKind, Path: r.LocationPath, URL: r.LocationURL, Tag: r.LocationTag}
	o := &Ontology{
		ID:                GraphIdentifier{Name: r.Name, Location: loc},
		Name:              r.Name,
		Imports:           r.Imports,
		VersionProperties: r.VersionProperties,
		NamespaceMap:      r.NamespaceMap,
		ContentHash:       r.ContentHash,
	}
	if r.LastUpdated != nil {
		t, err := parseRFC3339Milli(*r.LastUpdated)
		if err != nil {
			return nil, newErr(KindCorrupt, "parsing last_updated for "+r.Name, err)
		}
		o.LastUpdated = &t
	}
	return o, nil
}

// SaveEnvironment writes every record in idx to environment.json, atomically.
func SaveEnvironment(dir string, idx *Index) error {
	records := make([]manifestRecord, 0, idx.Len())
	for _, o := range idx.All() {
		records = append(records, toManifestRecord(o))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(filepath.Join(dir, manifestFileName), data)
}

// LoadEnvironment reads environment.json back into a fresh Index.
func LoadEnvironment(dir string) (*Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return NewIndex(), nil
		}
		return nil, err
	}
	var records []manifestRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, newErr(KindCorrupt, "parsing environment.json", err)
	}
	idx := NewIndex()
	for _, r := range records {
		o, err := fromManifestRecord(r)
		if err != nil {
			return nil, err
		}
		idx.Put(o)
	}
	return idx, nil
}

// SaveDepGraph writes the dependency graph's adjacency structure to
// dependency_graph.json, atomically.
func SaveDepGraph(dir string, dg *DepGraph) error {
	adjacency := make(map[string][]string)
	for name, n := range dg.nodeByName {
		var out []string
		to := dg.g.From(n.ID())
		for to.Next() {
			out = append(out, to.Node().(depNode).name)
		}
		adjacency[name] = out
	}
	data, err := json.MarshalIndent(adjacency, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(filepath.Join(dir, depGraphFileName), data)
}

// SaveConfig writes cfg to ontoenv.json, atomically.
func SaveConfig(dir string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(filepath.Join(dir, configFileName), data)
}

// atomicWriteFile writes data to a temp file in the same directory as path
// and renames it into place, so a crash mid-write never leaves a truncated
// manifest behind.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// FindOntoenvRoot walks start and its ancestors looking for a .ontoenv/
// directory carrying ontoenv.json; the first match wins. ONTOENV_DIR, if
// set, short-circuits the walk: when it names a .ontoenv directory
// directly, its parent is returned, otherwise it is used as the starting
// point for the same upward walk.
func FindOntoenvRoot(start string) (string, error) {
	if envDir := os.Getenv("ONTOENV_DIR"); envDir != "" {
		if filepath.Base(envDir) == ontoenvDirName {
			return filepath.Dir(envDir), nil
		}
		start = envDir
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ontoenvDirName, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", newErr(KindNotInEnvironment, "no .ontoenv found above "+start, nil)
		}
		dir = parent
	}
}
