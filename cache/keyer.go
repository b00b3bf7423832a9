package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Keyer derives deterministic cache keys from the full identity of a
// read-only call: method, resource path, and material parameters.
//
// Contract:
// - Determinism: identical inputs produce identical keys regardless of
//   map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives the cache key for a read-only call.
	Key(method, path string, params map[string]string) string

	// ResourcePrefix returns the key prefix shared by every read
	// entry addressing the given resource path. Writers invalidate
	// through it.
	ResourcePrefix(path string) string
}

// DefaultKeyer derives SHA-256 parameter-hashed keys.
//
// Format: gh:<METHOD>:<path>#<hash> where hash is the first 16 hex
// characters of SHA-256 over the sorted query parameters. The path is
// embedded verbatim so prefix invalidation by resource identity works.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key derives a deterministic cache key.
func (k *DefaultKeyer) Key(method, path string, params map[string]string) string {
	return fmt.Sprintf("gh:%s:%s#%s", strings.ToUpper(method), path, hashParams(params))
}

// ResourcePrefix returns the invalidation prefix for a resource path.
func (k *DefaultKeyer) ResourcePrefix(path string) string {
	return "gh:GET:" + path
}

// hashParams hashes parameters in sorted key order for determinism.
func hashParams(params map[string]string) string {
	if len(params) == 0 {
		return "0000000000000000"
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, key := range keys {
		h.Write([]byte(key))
		h.Write([]byte{'='})
		h.Write([]byte(params[key]))
		h.Write([]byte{'&'})
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
