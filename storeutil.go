package ontoenv

import (
	"encoding/hex"
	"os"
	"time"

	"lukechampine.com/blake3"
)

// readLocation retrieves the raw bytes and format hint for a location,
// dispatching to the filesystem reader or the HTTP fetch layer.
func readLocation(loc Location, offline bool) ([]byte, Format, error) {
	switch loc.Kind {
	case LocationFile:
		return ReadFileLocation(loc.Path)
	case LocationURL:
		result, err := FetchRDF(loc.URL, FetchOptions{Offline: offline, Timeout: DefaultFetchOptions().Timeout, AcceptOrder: DefaultFetchOptions().AcceptOrder, ExtensionCandidates: DefaultFetchOptions().ExtensionCandidates})
		if err != nil {
			return nil, "", err
		}
		return result.Bytes, result.Format, nil
	default:
		return nil, "", newErr(KindCorrupt, "in-memory location has no bytes to read: "+loc.String(), nil)
	}
}

// contentHash computes a BLAKE3 digest over the serialized source bytes,
// used to gate re-parsing under RefreshStrategy::UseCache.
func contentHash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// sourceLastModified reports the freshness of a location: filesystem mtime
// for files, the HTTP Last-Modified header for URLs (or now if absent,
// per the conservative "always stale" default).
func sourceLastModified(id GraphIdentifier, opts FetchOptions) (time.Time, error) {
	switch id.Location.Kind {
	case LocationFile:
		info, err := os.Stat(id.Location.Path)
		if err != nil {
			return time.Time{}, err
		}
		return info.ModTime(), nil
	case LocationURL:
		t, err := HeadLastModified(id.Location.URL, opts)
		if err != nil {
			return time.Time{}, err
		}
		if t == nil {
			return nowFunc(), nil
		}
		return *t, nil
	default:
		return nowFunc(), nil
	}
}
