package idempotency

import (
	"context"
	"sync"
	"time"

	gateway "github.com/vaultpay/gateway"
	"go.uber.org/zap"
)

// InMemoryStore provides an in-memory implementation of Store.
//
// This implementation is suitable for single-instance deployments where
// cache state doesn't need to be shared across processes. For distributed
// deployments (load-balanced clusters, etc.), implement Store with a shared
// backend like Redis.
type InMemoryStore struct {
	mu       sync.Mutex
	results  map[string]*gateway.OneClickResult
	expiry   map[string]time.Time
	inFlight map[string]chan struct{}
	ttl      time.Duration
}

// NewInMemoryStore creates a new in-memory store with the specified TTL.
//
// The TTL determines how long completed one-click results are cached,
// bounding the deduplication window for retried charges.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		results:  make(map[string]*gateway.OneClickResult),
		expiry:   make(map[string]time.Time),
		inFlight: make(map[string]chan struct{}),
		ttl:      ttl,
	}
}

// CheckAndMark atomically checks the cache and marks the key as in-flight
// if needed.
func (s *InMemoryStore) CheckAndMark(key string) (Status, *gateway.OneClickResult, chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check for cached result first
	if expiry, exists := s.expiry[key]; exists {
		if time.Now().Before(expiry) {
			if result, ok := s.results[key]; ok {
				return StatusCached, result, nil
			}
		}
		// Expired - clean it up
		delete(s.results, key)
		delete(s.expiry, key)
	}

	// Check if in-flight
	if done, exists := s.inFlight[key]; exists {
		return StatusInFlight, nil, done
	}

	// Mark as in-flight
	done := make(chan struct{})
	s.inFlight[key] = done
	return StatusNotFound, nil, done
}

// WaitForResult waits for an in-flight request to complete, respecting
// context cancellation.
func (s *InMemoryStore) WaitForResult(ctx context.Context, key string, done chan struct{}) (*gateway.OneClickResult, error) {
	select {
	case <-done:
		// In-flight request completed, check for cached result
		return s.get(key), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// get retrieves a cached result if it exists and hasn't expired.
func (s *InMemoryStore) get(key string) *gateway.OneClickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, exists := s.expiry[key]
	if !exists {
		return nil
	}

	if time.Now().After(expiry) {
		delete(s.results, key)
		delete(s.expiry, key)
		return nil
	}

	return s.results[key]
}

// Complete caches the result, removes the in-flight marker, and signals
// any waiting goroutines. Cached entries are never mutated afterwards.
func (s *InMemoryStore) Complete(key string, result *gateway.OneClickResult, done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[key] = result
	s.expiry[key] = time.Now().Add(s.ttl)

	delete(s.inFlight, key)
	close(done)
}

// Fail removes the in-flight marker without caching a result, allowing the
// charge to be retried under the same key.
func (s *InMemoryStore) Fail(key string, done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, key)
	close(done)
}

// Sweep removes entries whose deadline elapsed before now.
func (s *InMemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, expiry := range s.expiry {
		if now.After(expiry) {
			delete(s.results, key)
			delete(s.expiry, key)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs periodic sweeps on a background goroutine until ctx is
// cancelled. The sweeper never touches in-flight markers, so it is safe to
// run alongside request handling.
func (s *InMemoryStore) StartSweeper(ctx context.Context, interval time.Duration, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if evicted := s.Sweep(time.Now()); evicted > 0 {
					log.Debug("swept expired idempotency records",
						zap.Int("evicted", evicted))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Ensure InMemoryStore implements Store
var _ Store = (*InMemoryStore)(nil)
