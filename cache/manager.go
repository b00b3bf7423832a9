package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchResult is what a FetchFunc produces on a successful dispatch.
type FetchResult struct {
	// Value is the response body.
	Value []byte

	// ETag is the response validator, if the server sent one.
	ETag string

	// TTL is the freshness lifetime for the new entry. Zero selects
	// the manager's default.
	TTL time.Duration

	// NotModified reports a 304 to a conditional request: the cached
	// value is still current.
	NotModified bool
}

// FetchFunc dispatches a read call. A non-empty validator must be sent
// as an If-None-Match conditional.
type FetchFunc func(ctx context.Context, validator string) (*FetchResult, error)

// Result is what the manager hands back to the caller.
type Result struct {
	Value []byte

	// CacheHit reports whether the value came from the cache, either
	// directly or through a server-confirmed revalidation.
	CacheHit bool
}

// Manager is the read-through front of the cache. Concurrent misses on
// the same key are coalesced so N simultaneous callers for an
// identical read produce one transport call.
type Manager struct {
	store      Store
	defaultTTL time.Duration
	group      singleflight.Group
}

// ManagerConfig configures the cache manager.
type ManagerConfig struct {
	// Store holds the entries. Required.
	Store Store

	// DefaultTTL applies when a fetch result carries no TTL.
	// Default: 5 minutes
	DefaultTTL time.Duration
}

// NewManager creates a new cache manager.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Store == nil {
		return nil, ErrNilStore
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 5 * time.Minute
	}
	return &Manager{store: config.Store, defaultTTL: config.DefaultTTL}, nil
}

// GetOrFetch serves a fresh entry directly, revalidates a stale entry
// with its validator, and otherwise fetches and stores. Failed fetches
// are never cached.
func (m *Manager) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (Result, error) {
	if err := ValidateKey(key); err != nil {
		return Result{}, err
	}

	if entry, freshness := m.store.Get(ctx, key); freshness == Fresh {
		return Result{Value: entry.Value, CacheHit: true}, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		// Another flight may have filled the entry while this caller
		// queued behind the singleflight lock.
		entry, freshness := m.store.Get(ctx, key)
		if freshness == Fresh {
			return Result{Value: entry.Value, CacheHit: true}, nil
		}

		validator := ""
		if freshness == StaleWithValidator {
			validator = entry.ETag
		}

		fetched, err := fetch(ctx, validator)
		if err != nil {
			return Result{}, err
		}

		if fetched.NotModified && freshness == StaleWithValidator {
			m.store.Touch(ctx, key)
			return Result{Value: entry.Value, CacheHit: true}, nil
		}

		ttl := fetched.TTL
		if ttl <= 0 {
			ttl = m.defaultTTL
		}
		m.store.Set(ctx, key, fetched.Value, ttl, fetched.ETag)
		return Result{Value: fetched.Value}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// Put stores a value directly, bypassing the read path.
func (m *Manager) Put(ctx context.Context, key string, value []byte, ttl time.Duration, etag string) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.store.Set(ctx, key, value, ttl, etag)
}

// Invalidate removes one entry.
func (m *Manager) Invalidate(ctx context.Context, key string) {
	m.store.Delete(ctx, key)
}

// InvalidateResource removes every read entry addressing the resource
// prefix. Writers call this for each path their mutation touches.
func (m *Manager) InvalidateResource(ctx context.Context, prefix string) int {
	return m.store.DeletePrefix(ctx, prefix)
}

// Clear removes all entries.
func (m *Manager) Clear(ctx context.Context) {
	m.store.Clear(ctx)
}
