package resilience

import "sync"

// BreakerSet tracks one circuit breaker per target identity, created
// lazily with a shared configuration. Targets never share state, so a
// failing host does not trip calls to a healthy one.
type BreakerSet struct {
	config BreakerConfig

	mu       sync.RWMutex
	breakers map[string]*Breaker
}

// NewBreakerSet creates an empty breaker set.
func NewBreakerSet(config BreakerConfig) *BreakerSet {
	return &BreakerSet{
		config:   config,
		breakers: make(map[string]*Breaker),
	}
}

// For returns the breaker for the target, creating it on first use.
func (s *BreakerSet) For(target string) *Breaker {
	s.mu.RLock()
	b, ok := s.breakers[target]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.breakers[target]; ok {
		return b
	}
	b = NewBreaker(target, s.config)
	s.breakers[target] = b
	return b
}

// States returns a snapshot of every tracked target's state.
func (s *BreakerSet) States() map[string]State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]State, len(s.breakers))
	for target, b := range s.breakers {
		out[target] = b.State()
	}
	return out
}
