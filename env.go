package ontoenv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// nowFunc is indirected so tests can stub the clock if ever needed; the
// core never calls time.Now() directly.
var nowFunc = time.Now

// OntoEnv is the public handle onto a loaded or freshly initialized
// environment: its configuration, the in-memory catalog, the dependency
// graph built from that catalog, and the quad store backing it.
type OntoEnv struct {
	Config    *Config
	Index     *Index
	DepGraph  *DepGraph
	Store     GraphIO
	Policy    ResolutionPolicy
	RootDir   string
}

// InitOptions configures Init.
type InitOptions struct {
	Root                 string
	Locations            []string
	Includes             []string
	Excludes             []string
	RequireOntologyNames bool
	Strict               bool
	Offline              bool
	Temporary            bool
	NoSearch             bool
	Policy               string
	Overwrite            bool
}

// Init creates (or reuses) an environment under opts.Root. It reports
// HowCreated so the `init` command can explain what it did.
func Init(opts InitOptions) (*OntoEnv, HowCreated, error) {
	cfg := NewConfig(opts.Root, opts.Locations, opts.Includes, opts.Excludes,
		opts.RequireOntologyNames, opts.Strict, opts.Offline, opts.NoSearch, opts.Policy)
	cfg.Temporary = opts.Temporary

	if opts.Temporary {
		e, err := newEnv(cfg, opts.Root)
		return e, HowCreatedNew, err
	}

	ontoenvDir := filepath.Join(opts.Root, ontoenvDirName)
	existingConfigPath := filepath.Join(ontoenvDir, configFileName)
	_, statErr := os.Stat(existingConfigPath)
	exists := statErr == nil

	if exists {
		existing, err := LoadConfigFromFile(existingConfigPath)
		if err != nil {
			return nil, HowCreatedNew, err
		}
		if existing.Equal(cfg) && !opts.Overwrite {
			e, err := Load(opts.Root)
			return e, HowCreatedSameConfig, err
		}
		if err := os.RemoveAll(ontoenvDir); err != nil {
			return nil, HowCreatedNew, err
		}
		e, err := newEnv(cfg, opts.Root)
		if opts.Overwrite {
			return e, HowCreatedRecreatedFlag, err
		}
		return e, HowCreatedRecreatedDifferentConfig, err
	}

	e, err := newEnv(cfg, opts.Root)
	return e, HowCreatedNew, err
}

func newEnv(cfg *Config, root string) (*OntoEnv, error) {
	policy, err := PolicyFromName(cfg.ResolutionPolicy)
	if err != nil {
		return nil, err
	}
	e := &OntoEnv{
		Config:  cfg,
		Index:   NewIndex(),
		Policy:  policy,
		RootDir: root,
	}
	switch {
	case cfg.ExternalGraphStore != "":
		store, err := OpenExternalGraphIO(cfg.ExternalGraphStore, cfg, cfg.Offline)
		if err != nil {
			return nil, err
		}
		e.Store = store
	case cfg.Temporary:
		e.Store = NewMemoryGraphIO(cfg, cfg.Offline)
	default:
		if err := os.MkdirAll(filepath.Join(root, ontoenvDirName), 0o755); err != nil {
			return nil, err
		}
		store, err := OpenPersistentGraphIO(filepath.Join(root, ontoenvDirName), cfg, cfg.Offline, false)
		if err != nil {
			return nil, err
		}
		e.Store = store
	}
	dg, err := BuildDepGraph(e.Index, e.Policy)
	if err != nil {
		return nil, err
	}
	e.DepGraph = dg
	return e, nil
}

// Load discovers and opens an existing environment at or above start,
// acquiring the persistent backend's exclusive write lock. Commands that
// mutate the environment (update, add) use this.
func Load(start string) (*OntoEnv, error) {
	return load(start, false)
}

// LoadReadOnly discovers and opens an existing environment without
// acquiring the persistent backend's write lock. The persistent backend
// takes a shared lock instead, so any number of read-only opens coexist;
// while another process holds the store open for writing, the open waits
// out the backend's timeout and fails with LockBusy. Wrapped in a
// ReadOnlyGraphIO so a caller can never accidentally mutate it. Commands
// that only inspect the environment (get, closure, status, why, dep-graph,
// list) use this.
func LoadReadOnly(start string) (*OntoEnv, error) {
	return load(start, true)
}

func load(start string, readOnly bool) (*OntoEnv, error) {
	root, err := FindOntoenvRoot(start)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(root, ontoenvDirName)
	cfg, err := LoadConfigFromFile(filepath.Join(dir, configFileName))
	if err != nil {
		return nil, err
	}
	idx, err := LoadEnvironment(dir)
	if err != nil {
		return nil, err
	}
	policy, err := PolicyFromName(cfg.ResolutionPolicy)
	if err != nil {
		return nil, err
	}
	dg, err := BuildDepGraph(idx, policy)
	if err != nil {
		return nil, err
	}
	var store GraphIO
	switch {
	case cfg.ExternalGraphStore != "":
		store, err = OpenExternalGraphIO(cfg.ExternalGraphStore, cfg, cfg.Offline)
	case cfg.Temporary:
		store = NewMemoryGraphIO(cfg, cfg.Offline)
	default:
		store, err = OpenPersistentGraphIO(dir, cfg, cfg.Offline, readOnly)
	}
	if err != nil {
		return nil, err
	}
	if readOnly {
		store = NewReadOnlyGraphIO(store)
	}
	return &OntoEnv{Config: cfg, Index: idx, DepGraph: dg, Store: store, Policy: policy, RootDir: root}, nil
}

// Add ingests a single location. When followImports is true (the default
// for the `add` command absent --no-imports), its declared imports are
// resolved and ingested too, in the manner of the update engine's step 5.
func (e *OntoEnv) Add(loc Location, followImports bool) (*Ontology, error) {
	ont, err := e.Store.Add(loc, OverwriteAllow)
	if err != nil {
		return nil, err
	}
	stamped := ont.WithLastUpdated(nowFunc())
	e.Index.Put(&stamped)

	if followImports {
		result := &UpdateResult{Ingested: []string{ont.Name}}
		if err := e.followImports(result); err != nil {
			return &stamped, err
		}
	}

	dg, err := BuildDepGraph(e.Index, e.Policy)
	if err != nil {
		return &stamped, err
	}
	e.DepGraph = dg
	return &stamped, nil
}

// GetClosure resolves rootName through the active policy and returns its
// dependency closure out to depth (see DepGraph.Closure for the depth
// semantics).
func (e *OntoEnv) GetClosure(rootName string, depth int) ([]string, error) {
	root, err := e.Index.Resolve(rootName, e.Policy)
	if err != nil {
		return nil, err
	}
	return e.DepGraph.Closure(root.Name, depth)
}

// idsForNames resolves each name in the closure to a GraphIdentifier via
// the active policy, preserving order.
func (e *OntoEnv) idsForNames(names []string) ([]GraphIdentifier, error) {
	ids := make([]GraphIdentifier, 0, len(names))
	for _, n := range names {
		o, err := e.Index.Resolve(n, e.Policy)
		if err != nil {
			return nil, err
		}
		ids = append(ids, o.ID)
	}
	return ids, nil
}

// GetUnionGraph composes the raw (untransformed) union dataset over a
// closure, promoting rootName to position 0 regardless of the order
// Closure happened to return (per §4.8's root-selection rule).
func (e *OntoEnv) GetUnionGraph(rootName string, depth int) (Dataset, []GraphIdentifier, error) {
	names, err := e.GetClosure(rootName, depth)
	if err != nil {
		return nil, nil, err
	}
	names = promoteToFront(names, rootName)
	ids, err := e.idsForNames(names)
	if err != nil {
		return nil, nil, err
	}
	ds, err := e.Store.UnionGraph(ids)
	return ds, ids, err
}

func promoteToFront(names []string, root string) []string {
	out := make([]string, 0, len(names))
	out = append(out, root)
	for _, n := range names {
		if n != root {
			out = append(out, n)
		}
	}
	return out
}

// ImportGraphOp composes the full `import_graph` convenience operation:
// closure, union with root promoted to position 0, sh:prefixes rewrite,
// owl:imports removal, and ontology-declaration pruning, flattened to a
// plain triple set merged into the default graph plus one rewritten
// (root, owl:imports, dep) statement per non-root closure member.
func (e *OntoEnv) ImportGraphOp(rootName string, depth int) ([]Triple, error) {
	ds, ids, err := e.GetUnionGraph(rootName, depth)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, newErr(KindUnresolved, "no ontology named "+rootName, nil)
	}
	root := NewResourceTerm(rootName)
	transformed := ImportGraph(ds, Term(root))

	out := make([]Triple, 0, len(transformed))
	for _, q := range transformed {
		out = append(out, Triple{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object})
	}
	importsPred := Term(NewResourceTerm(OWLImports))
	for _, id := range ids[1:] {
		out = append(out, Triple{Subject: Term(root), Predicate: importsPred, Object: Term(NewResourceTerm(id.Name))})
	}
	return out, nil
}

// Resolve picks one record for name through the active policy.
func (e *OntoEnv) Resolve(name string) (*Ontology, error) {
	return e.Index.Resolve(name, e.Policy)
}

// GetImporters returns every ontology that directly imports name.
func (e *OntoEnv) GetImporters(name string) ([]string, error) {
	return e.DepGraph.Importers(name)
}

// ExplainImport returns one shortest import path from every ontology that
// transitively imports name down to name.
func (e *OntoEnv) ExplainImport(name string) ([][]string, error) {
	return e.DepGraph.ExplainImport(name)
}

// Status summarizes the environment for the `status` command.
type Status struct {
	NumGraphs   int
	NumTriples  int
	StoreSize   string
	MissingSourceCount int
	Names       []string
}

// Status reports the current state without mutating anything.
func (e *OntoEnv) Status() (*Status, error) {
	stats, err := e.Store.Size()
	if err != nil {
		return nil, err
	}
	s := &Status{NumGraphs: stats.NumGraphs, NumTriples: stats.NumTriples}
	if info, err := os.Stat(e.Store.StoreLocation()); err == nil {
		s.StoreSize = fmt.Sprintf("%d bytes", info.Size())
	}
	for _, o := range e.Index.All() {
		s.Names = append(s.Names, o.Name)
		if o.ID.Location.IsFile() {
			if _, err := os.Stat(o.ID.Location.Path); os.IsNotExist(err) {
				s.MissingSourceCount++
			}
		}
	}
	return s, nil
}

// Dump renders a tree listing of every ontology and its declared imports,
// for the `list`/debugging surface.
func (e *OntoEnv) Dump() string {
	out := ""
	for _, o := range e.Index.All() {
		out += fmt.Sprintf("%s (%s)\n", o.Name, o.ID.Location)
		for _, imp := range o.Imports {
			out += fmt.Sprintf("  imports %s\n", imp)
		}
	}
	return out
}

// Save persists the manifest, dependency graph, and configuration without
// running the full update engine.
func (e *OntoEnv) Save() error {
	if e.Config.Temporary {
		return nil
	}
	return e.persist()
}

// Close flushes and releases the backing store.
func (e *OntoEnv) Close() error {
	if err := e.Store.Flush(); err != nil {
		return err
	}
	store := e.Store
	if ro, ok := store.(*ReadOnlyGraphIO); ok {
		store = ro.inner
	}
	if p, ok := store.(*PersistentGraphIO); ok {
		return p.Close()
	}
	return nil
}
