package ontoenv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Config is the persisted configuration of an environment: where to search,
// which files and ontology names qualify, and the policy knobs that govern
// ingestion and resolution. Serialized to ontoenv.json under .ontoenv/.
type Config struct {
	Root                 string   `json:"root"`
	Locations            []string `json:"locations"`
	Includes             []string `json:"includes"`
	Excludes             []string `json:"excludes"`
	IncludeOntologies    []string `json:"include_ontologies"`
	ExcludeOntologies    []string `json:"exclude_ontologies"`
	RequireOntologyNames bool     `json:"require_ontology_names"`
	Strict               bool     `json:"strict"`
	Offline              bool     `json:"offline"`
	ResolutionPolicy     string   `json:"resolution_policy"`
	Temporary            bool     `json:"temporary"`
	UseCachedOntologies  bool     `json:"use_cached_ontologies"`
	RemoteCacheTTLSecs   int      `json:"remote_cache_ttl_secs"`
	ExternalGraphStore   string   `json:"external_graph_store"`
}

// defaultIncludes mirrors the conservative default file-extension glob set.
var defaultIncludes = []string{"*.ttl", "*.xml", "*.n3"}

// NewConfig builds a Config, defaulting locations to [root] unless noSearch
// suppresses that default, and includes to defaultIncludes when the caller
// supplies none.
func NewConfig(root string, locations, includes, excludes []string, requireOntologyNames, strict, offline, noSearch bool, policy string) *Config {
	if locations == nil {
		if noSearch {
			locations = []string{}
		} else {
			locations = []string{root}
		}
	}
	if len(includes) == 0 {
		includes = append([]string(nil), defaultIncludes...)
	}
	if policy == "" {
		policy = DefaultPolicy{}.PolicyName()
	}
	return &Config{
		Root:                 root,
		Locations:            locations,
		Includes:             includes,
		Excludes:             excludes,
		RequireOntologyNames: requireOntologyNames,
		Strict:               strict,
		Offline:              offline,
		ResolutionPolicy:     policy,
		UseCachedOntologies:  true,
		RemoteCacheTTLSecs:   3600,
	}
}

// IsIncluded reports whether a discovered path qualifies: excluded first,
// then included; with no includes configured, everything not excluded
// qualifies.
func (c *Config) IsIncluded(path string) bool {
	base := filepath.Base(path)
	for _, pat := range c.Excludes {
		if ok, _ := doublestar.Match(pat, base); ok {
			return false
		}
		if ok, _ := doublestar.Match(pat, path); ok {
			return false
		}
	}
	if len(c.Includes) == 0 {
		return true
	}
	for _, pat := range c.Includes {
		if ok, _ := doublestar.Match(pat, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, path); ok {
			return true
		}
	}
	return false
}

// IsOntologyIncluded intersects include_ontologies/exclude_ontologies
// regexes against a discovered ontology's name, applied after extraction
// since the name is only known once the file has been parsed.
func (c *Config) IsOntologyIncluded(name string) bool {
	for _, pat := range c.ExcludeOntologies {
		if re, err := regexp.Compile(pat); err == nil && re.MatchString(name) {
			return false
		}
	}
	if len(c.IncludeOntologies) == 0 {
		return true
	}
	for _, pat := range c.IncludeOntologies {
		if re, err := regexp.Compile(pat); err == nil && re.MatchString(name) {
			return true
		}
	}
	return false
}

// CacheTTL returns RemoteCacheTTLSecs as a time.Duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.RemoteCacheTTLSecs) * time.Second
}

// SaveToFile writes the config as indented JSON.
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadConfigFromFile reads and validates a persisted Config, defaulting
// locations to [root] if the file predates that field being populated.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, newErr(KindCorrupt, "parsing ontoenv.json", err)
	}
	if len(c.Locations) == 0 {
		c.Locations = []string{c.Root}
	}
	return &c, nil
}

// Equal reports whether two configs are equivalent for the purposes of
// deciding HowCreatedSameConfig vs HowCreatedRecreatedDifferentConfig.
func (c *Config) Equal(other *Config) bool {
	if other == nil {
		return false
	}
	if c.Root != other.Root || c.RequireOntologyNames != other.RequireOntologyNames ||
		c.Strict != other.Strict || c.Offline != other.Offline ||
		c.ResolutionPolicy != other.ResolutionPolicy {
		return false
	}
	return stringSlicesEqual(c.Locations, other.Locations) &&
		stringSlicesEqual(c.Includes, other.Includes) &&
		stringSlicesEqual(c.Excludes, other.Excludes) &&
		stringSlicesEqual(c.IncludeOntologies, other.IncludeOntologies) &&
		stringSlicesEqual(c.ExcludeOntologies, other.ExcludeOntologies)
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
