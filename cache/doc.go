// Package cache provides a bounded response cache for read-only GitHub
// API calls.
//
// Entries carry a TTL and an optional ETag validator. A fresh entry is
// served without dispatching; a stale entry with a validator drives a
// conditional re-fetch; everything else is a miss. The in-memory store
// is LRU-bounded, and the read-through manager coalesces concurrent
// misses for the same key into one transport call.
package cache
