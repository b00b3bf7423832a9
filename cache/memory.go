package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory LRU-bounded store.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	maxEntries int
	now        func() time.Time
}

// NewMemoryStore creates an in-memory store bounded to maxEntries.
// maxEntries <= 0 selects the default of 1000.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MemoryStore{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves an entry and classifies its freshness. A hit promotes
// the entry in LRU order. An expired entry without a validator is
// removed lazily and reported as a miss.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, Freshness) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return Entry{}, Miss
	}

	entry := elem.Value.(*Entry)
	if entry.FreshAt(s.now()) {
		s.order.MoveToFront(elem)
		return *entry, Fresh
	}

	if entry.Validatable() {
		s.order.MoveToFront(elem)
		return *entry, StaleWithValidator
	}

	// Expired with no validator: unusable.
	s.removeLocked(elem)
	return Entry{}, Miss
}

// Set stores a value. TTL<=0 means no caching. At capacity the
// least-recently-used entry is evicted.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration, etag string) {
	if ttl <= 0 {
		return
	}
	if err := ValidateKey(key); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		entry := elem.Value.(*Entry)
		entry.Value = value
		entry.StoredAt = s.now()
		entry.TTL = ttl
		entry.ETag = etag
		s.order.MoveToFront(elem)
		return
	}

	for s.order.Len() >= s.maxEntries {
		oldest := s.order.Back()
		if oldest == nil {
			break
		}
		s.removeLocked(oldest)
	}

	entry := &Entry{Key: key, Value: value, StoredAt: s.now(), TTL: ttl, ETag: etag}
	s.entries[key] = s.order.PushFront(entry)
}

// Touch refreshes StoredAt on an existing entry.
func (s *MemoryStore) Touch(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return false
	}
	elem.Value.(*Entry).StoredAt = s.now()
	s.order.MoveToFront(elem)
	return true
}

// Delete removes an entry. Idempotent.
func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		s.removeLocked(elem)
	}
}

// DeletePrefix removes every entry whose key has the given prefix.
func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, elem := range s.entries {
		if strings.HasPrefix(key, prefix) {
			s.removeLocked(elem)
			removed++
		}
	}
	return removed
}

// Clear removes all entries.
func (s *MemoryStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*list.Element)
	s.order.Init()
}

// Len returns the current entry count.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *MemoryStore) removeLocked(elem *list.Element) {
	entry := elem.Value.(*Entry)
	s.order.Remove(elem)
	delete(s.entries, entry.Key)
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
