package auth

import (
	"context"
	"sync"
	"time"
)

const (
	// attemptWindow is the sliding lockout window per identifier.
	attemptWindow = 15 * time.Minute
	// maxAttempts failed logins within the window lock the identifier out.
	maxAttempts = 5
)

// AttemptStore tracks failed-login attempts per identifier. It is injected
// into the session service so the in-memory implementation can be swapped
// for a shared cache in multi-instance deployments.
type AttemptStore interface {
	// Touch records a login attempt for key and reports whether the key is
	// currently locked out.
	Touch(ctx context.Context, key string) (bool, error)
	// Clear drops the attempt record for key, typically after a successful
	// login so a legitimate late success does not inherit a stale count.
	Clear(ctx context.Context, key string) error
}

type attempt struct {
	count int
	last  time.Time
}

// MemoryAttemptStore is the process-local AttemptStore. All updates for a
// key happen under one mutex, so concurrent logins for the same email cannot
// lose increments. A background sweep evicts idle records to bound key
// cardinality.
type MemoryAttemptStore struct {
	mu       sync.Mutex
	attempts map[string]*attempt
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryAttemptStore constructs the store and starts its eviction sweep.
func NewMemoryAttemptStore() *MemoryAttemptStore {
	s := &MemoryAttemptStore{
		attempts: make(map[string]*attempt),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Touch implements AttemptStore. A fresh or expired record resets to a
// single attempt and allows; at maxAttempts the key is reported locked
// without incrementing further.
func (s *MemoryAttemptStore) Touch(_ context.Context, key string) (bool, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.attempts[key]
	if !ok || now.Sub(rec.last) > attemptWindow {
		s.attempts[key] = &attempt{count: 1, last: now}
		return false, nil
	}
	if rec.count >= maxAttempts {
		return true, nil
	}
	rec.count++
	rec.last = now
	return false, nil
}

// Clear implements AttemptStore.
func (s *MemoryAttemptStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, key)
	return nil
}

// Close stops the eviction sweep.
func (s *MemoryAttemptStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryAttemptStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := s.now()
			s.mu.Lock()
			for key, rec := range s.attempts {
				if now.Sub(rec.last) > attemptWindow {
					delete(s.attempts, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
