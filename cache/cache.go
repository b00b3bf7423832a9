package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilStore   = errors.New("cache: store is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Freshness classifies a lookup result.
type Freshness int

const (
	// Miss means no usable entry exists.
	Miss Freshness = iota
	// Fresh means the entry is within its TTL and may be served directly.
	Fresh
	// StaleWithValidator means the TTL has elapsed but the entry
	// retains an ETag for a conditional re-fetch.
	StaleWithValidator
)

// String returns the string representation of the freshness.
func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case StaleWithValidator:
		return "stale"
	default:
		return "miss"
	}
}

// Entry is one cached response. The store owns entries exclusively;
// callers must not mutate a returned entry.
type Entry struct {
	Key      string
	Value    []byte
	StoredAt time.Time
	TTL      time.Duration
	ETag     string
}

// FreshAt reports whether the entry is within its TTL at the given time.
func (e Entry) FreshAt(now time.Time) bool {
	return now.Before(e.StoredAt.Add(e.TTL))
}

// Validatable reports whether a stale entry can drive a conditional
// re-fetch.
func (e Entry) Validatable() bool {
	return e.ETag != ""
}

// Store is the entry storage interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Reads and writes for the same key must be linearizable.
// - Get never errors; a miss is reported through Freshness.
type Store interface {
	// Get retrieves an entry and its freshness classification.
	Get(ctx context.Context, key string) (Entry, Freshness)

	// Set stores a value with the given TTL and optional ETag.
	// TTL<=0 means no caching.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, etag string)

	// Touch refreshes StoredAt on an existing entry, restoring its
	// freshness after a server-confirmed revalidation. Reports whether
	// the entry still existed.
	Touch(ctx context.Context, key string) bool

	// Delete removes an entry. Idempotent.
	Delete(ctx context.Context, key string)

	// DeletePrefix removes every entry whose key has the given prefix
	// and returns the number removed.
	DeletePrefix(ctx context.Context, prefix string) int

	// Clear removes all entries.
	Clear(ctx context.Context)

	// Len returns the current entry count.
	Len() int
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
