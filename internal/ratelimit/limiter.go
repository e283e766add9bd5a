// Package ratelimit implements fixed-window request counting keyed by
// client identity. Counters are the only mutable state shared between
// concurrent requests; every increment-and-check is a single atomic
// operation against the backing store.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Policy is one independent rate-limit configuration. Policies never
// share counters: the same client key under two policies counts twice.
type Policy struct {
	Name   string
	Window time.Duration
	Max    int
}

// Result reports the outcome of one Allow call.
type Result struct {
	Permitted bool
	Remaining int
	ResetAt   time.Time
}

// Store is the counter backend. Incr atomically increments the counter
// for key, starting a fresh window when none is active, and returns the
// post-increment count plus the moment the window resets. Decr refunds
// one unit, used to exempt successful auth requests from the budget.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
	Decr(ctx context.Context, key string) error
}

type Limiter struct {
	store  Store
	policy Policy
}

func New(store Store, policy Policy) *Limiter {
	return &Limiter{store: store, policy: policy}
}

func (l *Limiter) Policy() Policy {
	return l.policy
}

// Allow consumes one unit of budget for key and reports whether the
// request is within the window's ceiling.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.store.Incr(ctx, l.policy.Name+":"+key, l.policy.Window)
	if err != nil {
		return Result{}, err
	}
	remaining := l.policy.Max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Permitted: count <= int64(l.policy.Max),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Refund returns one unit to key's budget. Called for auth requests
// that succeed, so rapid legitimate logins are not penalized.
func (l *Limiter) Refund(ctx context.Context, key string) error {
	return l.store.Decr(ctx, l.policy.Name+":"+key)
}

// MemoryStore keeps counters in process memory. The clock is injectable
// so tests can expire windows deterministically.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Test hook.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &memoryEntry{resetAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt, nil
}

func (s *MemoryStore) Decr(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && e.count > 0 && s.now().Before(e.resetAt) {
		e.count--
	}
	return nil
}

// Sweep drops expired windows. Called opportunistically by the owner;
// counters self-reset on access either way, this only bounds memory.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, key)
		}
	}
}
