package ontoenv

import (
	"encoding/json"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var graphsBucket = []byte("graphs")

// PersistentGraphIO is an on-disk quad store backed by bbolt. Opening for
// write acquires bbolt's own exclusive file lock on store.db; a second
// writer's Open blocks for Timeout and then fails with LockBusy, giving
// the single-writer/multi-reader discipline §5 requires without any
// hand-rolled locking.
type PersistentGraphIO struct {
	db       *bolt.DB
	path     string
	offline  bool
	readOnly bool
	cfg      *Config
}

// OpenPersistentGraphIO opens (creating if absent) the bbolt store under
// dir/store.db. readOnly callers share access; write callers contend for
// the exclusive lock and receive LockBusy if another writer already holds it.
func OpenPersistentGraphIO(dir string, cfg *Config, offline, readOnly bool) (*PersistentGraphIO, error) {
	path := filepath.Join(dir, "store.db")
	db, err := bolt.Open(path, 0o644, &bolt.Options{
		Timeout:  2 * time.Second,
		ReadOnly: readOnly,
	})
	if err != nil {
		if err == bolt.ErrTimeout {
			return nil, newErr(KindLockBusy, "store locked by another writer: "+path, err)
		}
		return nil, err
	}
	if !readOnly {
		if err := db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(graphsBucket)
			return err
		}); err != nil {
			return nil, err
		}
	}
	return &PersistentGraphIO{db: db, path: path, offline: offline, readOnly: readOnly, cfg: cfg}, nil
}

func (s *PersistentGraphIO) IsOffline() bool { return s.offline }

func (s *PersistentGraphIO) StoreLocation() string { return s.path }

func (s *PersistentGraphIO) Size() (StoreStats, error) {
	stats := StoreStats{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(graphsBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var trps []Triple
			if err := json.Unmarshal(v, &trps); err != nil {
				return err
			}
			stats.NumGraphs++
			stats.NumTriples += len(trps)
			return nil
		})
	})
	return stats, err
}

func (s *PersistentGraphIO) GetGraph(id GraphIdentifier) ([]Triple, error) {
	var trps []Triple
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(graphsBucket)
		if b == nil {
			return newErr(KindCorrupt, "graphs bucket missing", nil)
		}
		v := b.Get([]byte(id.Name))
		if v == nil {
			return newErr(KindCorrupt, "graph not found: "+id.String(), nil)
		}
		return json.Unmarshal(v, &trps)
	})
	return trps, err
}

func (s *PersistentGraphIO) Add(loc Location, overwrite Overwrite) (*Ontology, error) {
	data, format, err := readLocation(loc, s.offline)
	if err != nil {
		return nil, err
	}
	return s.AddFromBytes(loc, data, format, overwrite)
}

func (s *PersistentGraphIO) AddFromBytes(loc Location, data []byte, format Format, overwrite Overwrite) (*Ontology, error) {
	if s.readOnly {
		return nil, newErr(KindReadOnly, "cannot add to a read-only store", nil)
	}
	triples, err := parseTriples(data, format)
	if err != nil {
		return nil, err
	}
	ont, err := ExtractOntology(triples, loc, extractionOptionsFor(s.cfg))
	if err != nil {
		return nil, err
	}
	ont.ContentHash = contentHash(data)

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(graphsBucket)
		existing := b.Get([]byte(ont.Name))
		if existing != nil && overwrite != OverwriteAllow {
			return nil
		}
		encoded, err := json.Marshal(triples)
		if err != nil {
			return err
		}
		return b.Put([]byte(ont.Name), encoded)
	})
	if err != nil {
		return nil, err
	}
	return ont, nil
}

func (s *PersistentGraphIO) Remove(id GraphIdentifier) error {
	if s.readOnly {
		return newErr(KindReadOnly, "cannot remove from a read-only store", nil)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(graphsBucket)
		return b.Delete([]byte(id.Name))
	})
}

func (s *PersistentGraphIO) UnionGraph(ids []GraphIdentifier) (Dataset, error) {
	var ds Dataset
	for _, id := range ids {
		trps, err := s.GetGraph(id)
		if err != nil {
			return nil, err
		}
		g := Term(NewResourceTerm(id.Name))
		for _, t := range trps {
			ds = append(ds, Quad{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object, Graph: g})
		}
	}
	return ds, nil
}

func (s *PersistentGraphIO) Flush() error {
	return s.db.Sync()
}

func (s *PersistentGraphIO) Close() error {
	return s.db.Close()
}

func (s *PersistentGraphIO) SourceLastModified(id GraphIdentifier) (time.Time, error) {
	return sourceLastModified(id, FetchOptions{Offline: s.offline})
}
