package ontoenv

import (
	"os"
	"path/filepath"
)

// UpdateOptions configures one run of the update engine.
type UpdateOptions struct {
	// All forces every known file record to be treated as stale and
	// re-ingested, bypassing the content-hash check of RefreshUseCache.
	All bool
	Refresh RefreshStrategy
}

// UpdateResult reports what a run of the update engine did, printed by the
// `update` command.
type UpdateResult struct {
	Removed  []string
	Ingested []string
	Warnings []string
}

func (e *OntoEnv) warnOrFail(err error) error {
	if e.Config.Strict {
		return err
	}
	ae, ok := err.(*Error)
	if !ok || !ae.Kind.Suppressible() {
		return err
	}
	Log().Warnf("%v", err)
	return nil
}

// Update runs the seven-step update engine: prune missing file records,
// discover new candidates under the configured search roots, compute
// staleness, re-ingest stale or new locations, follow their declared
// imports, rebuild the dependency graph, and persist.
func (e *OntoEnv) Update(opts UpdateOptions) (*UpdateResult, error) {
	result := &UpdateResult{}

	if err := e.pruneMissing(result); err != nil {
		return nil, err
	}

	discovered, err := e.discover()
	if err != nil {
		return nil, err
	}

	stale, err := e.computeStaleness(discovered, opts.All)
	if err != nil {
		return nil, err
	}

	refresh := opts.Refresh
	if opts.All {
		refresh = RefreshForce
	}
	for _, loc := range stale {
		if err := e.reingest(loc, refresh, result); err != nil {
			return nil, err
		}
	}

	if err := e.followImports(result); err != nil {
		return nil, err
	}

	dg, err := BuildDepGraph(e.Index, e.Policy)
	if err != nil {
		return nil, err
	}
	e.DepGraph = dg

	if !e.Config.Temporary {
		if err := e.persist(); err != nil {
			return nil, err
		}
	}
	if err := e.Store.Flush(); err != nil {
		return nil, err
	}
	return result, nil
}

// pruneMissing removes every record backed by a file location that no
// longer exists. Network-backed records are never pruned this way: an
// unreachable URL is a fetch failure on re-ingest, not an absence.
func (e *OntoEnv) pruneMissing(result *UpdateResult) error {
	for _, o := range e.Index.All() {
		if !o.ID.Location.IsFile() {
			continue
		}
		if _, err := os.Stat(o.ID.Location.Path); os.IsNotExist(err) {
			if err := e.Store.Remove(o.ID); err != nil {
				return err
			}
			e.Index.Remove(o.ID)
			result.Removed = append(result.Removed, o.Name)
		}
	}
	return nil
}

// discover walks the configured search roots, applying the path-level
// include/exclude globs, and returns every qualifying file location.
func (e *OntoEnv) discover() ([]Location, error) {
	var out []Location
	for _, root := range e.Config.Locations {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if os.IsPermission(err) {
					return e.warnOrFail(newErr(KindPermission, "permission denied walking "+path, err))
				}
				return err
			}
			if info.IsDir() {
				return nil
			}
			if !e.Config.IsIncluded(path) {
				return nil
			}
			loc, err := NewFileLocation(path)
			if err != nil {
				return err
			}
			out = append(out, loc)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// computeStaleness compares each known file record's source modification
// time to its last_updated timestamp, and unions in every discovered
// location absent from the index.
func (e *OntoEnv) computeStaleness(discovered []Location, all bool) ([]Location, error) {
	var stale []Location
	seen := map[string]bool{}

	for _, o := range e.Index.All() {
		if !o.ID.Location.IsFile() {
			continue
		}
		seen[o.ID.Location.String()] = true
		if all {
			stale = append(stale, o.ID.Location)
			continue
		}
		mtime, err := e.Store.SourceLastModified(o.ID)
		if err != nil {
			continue
		}
		if o.LastUpdated == nil || mtime.After(*o.LastUpdated) {
			stale = append(stale, o.ID.Location)
		}
	}

	for _, loc := range discovered {
		if seen[loc.String()] {
			continue
		}
		if _, ok := e.Index.GetByLocation(loc); ok {
			continue
		}
		stale = append(stale, loc)
	}
	return stale, nil
}

// reingest adds or re-adds a single location, honoring RefreshUseCache by
// skipping re-parse when the content hash is unchanged.
func (e *OntoEnv) reingest(loc Location, refresh RefreshStrategy, result *UpdateResult) error {
	if existingID, ok := e.Index.GetByLocation(loc); ok && !refresh.IsForce() {
		data, _, err := readLocation(loc, e.Config.Offline)
		if err == nil {
			hash := contentHash(data)
			if existing, ok := e.Index.GetByID(existingID); ok && existing.ContentHash == hash {
				return nil
			}
		}
	}

	ont, err := e.Store.Add(loc, OverwriteAllow)
	if err != nil {
		return e.warnOrFail(err)
	}
	if !e.Config.IsOntologyIncluded(ont.Name) {
		return nil
	}
	now := nowFunc()
	stamped := ont.WithLastUpdated(now)
	e.Index.Put(&stamped)
	result.Ingested = append(result.Ingested, ont.Name)
	return nil
}

// followImports enqueues the declared imports of every just-ingested
// record; any import name absent from the index is attempted as a URL
// location, subject to offline policy. Unresolved imports are tracked as
// warnings, never as a fatal error, in non-strict mode.
func (e *OntoEnv) followImports(result *UpdateResult) error {
	queue := append([]string(nil), result.Ingested...)
	seen := map[string]bool{}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		o, ok := e.Index.GetByID(mustIDFor(e.Index, name))
		if !ok {
			continue
		}
		for _, importName := range o.Imports {
			if len(e.Index.GetByName(importName)) > 0 {
				continue
			}
			if e.Config.Offline {
				result.Warnings = append(result.Warnings, "missing import (offline): "+importName)
				continue
			}
			loc := NewURLLocation(importName)
			ont, err := e.Store.Add(loc, OverwriteAllow)
			if err != nil {
				result.Warnings = append(result.Warnings, "missing import: "+importName)
				if !e.Config.Strict {
					continue
				}
				return err
			}
			stamped := ont.WithLastUpdated(nowFunc())
			e.Index.Put(&stamped)
			result.Ingested = append(result.Ingested, ont.Name)
			queue = append(queue, ont.Name)
		}
	}
	return nil
}

// mustIDFor returns the identifier of the first record named name; used
// internally by followImports where the name is already known-good.
func mustIDFor(idx *Index, name string) GraphIdentifier {
	candidates := idx.GetByName(name)
	if len(candidates) == 0 {
		return GraphIdentifier{}
	}
	return candidates[0].ID
}

// persist writes the manifest, dependency graph, and configuration.
func (e *OntoEnv) persist() error {
	dir := filepath.Join(e.RootDir, ontoenvDirName)
	if err := SaveEnvironment(dir, e.Index); err != nil {
		return err
	}
	if err := SaveDepGraph(dir, e.DepGraph); err != nil {
		return err
	}
	return SaveConfig(dir, e.Config)
}
