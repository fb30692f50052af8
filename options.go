package ontoenv

// RefreshStrategy tells the update engine whether to trust a cached copy
// of a URL-backed ontology or always refetch it.
type RefreshStrategy bool

const (
	// RefreshForce always refetches, ignoring any cached content hash.
	RefreshForce RefreshStrategy = true
	// RefreshUseCache reuses cached data when the source is not stale.
	RefreshUseCache RefreshStrategy = false
)

func (r RefreshStrategy) IsForce() bool { return bool(r) }

// CacheMode records whether the update engine is permitted to skip
// re-fetching a URL location whose content hash it already has on file.
type CacheMode bool

const (
	CacheEnabled  CacheMode = true
	CacheDisabled CacheMode = false
)

func (c CacheMode) IsEnabled() bool { return bool(c) }

// HowCreated reports why Init returned the environment it did, surfaced in
// the `init` CLI output.
type HowCreated int

const (
	// HowCreatedNew means no .ontoenv/ existed; a fresh environment was made.
	HowCreatedNew HowCreated = iota
	// HowCreatedSameConfig means an existing environment matched the requested config and was reused.
	HowCreatedSameConfig
	// HowCreatedRecreatedDifferentConfig means the existing environment's config differed and was replaced.
	HowCreatedRecreatedDifferentConfig
	// HowCreatedRecreatedFlag means the caller passed --overwrite, so the
	// existing environment was replaced regardless of whether its config
	// had changed.
	HowCreatedRecreatedFlag
)

func (h HowCreated) String() string {
	switch h {
	case HowCreatedNew:
		return "new environment"
	case HowCreatedSameConfig:
		return "same config, reusing existing environment"
	case HowCreatedRecreatedDifferentConfig:
		return "recreated environment due to different config"
	case HowCreatedRecreatedFlag:
		return "recreated environment due to recreate flag"
	default:
		return "unknown"
	}
}
