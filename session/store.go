// Package session owns the challenge store's lifecycle (issued, used,
// expired, evicted), the HMAC token/receipt wire format, raw submission
// validation, and orchestration of target reconstruction, analysis, and
// scoring into a verdict. It is the server-side mirror of everything
// spec.md §4.6 calls the Session Service.
package session

import (
	"sync"
	"time"

	"github.com/glyphwatch/clnp/apierr"
	"github.com/glyphwatch/clnp/challenge"
)

// evictUsedAfter and evictExpiredGrace are the sweeper grace periods from
// spec.md §3: a used challenge stays queryable for 10 minutes, an unused
// one is evicted 60s past its own expiry.
const (
	evictUsedAfter    = 10 * time.Minute
	evictExpiredGrace = 60 * time.Second
)

// Store is the shared, in-process challenge table. It is adapted directly
// from the teacher's session.SessionManager: a map guarded by a single
// mutex, since the table is small and a per-entry lock would add
// complexity without a measurable win (spec.md §5, §9).
//
// Concurrency: every read or write touching a single Challenge's Used/
// UsedAt/ExpiresAt fields happens inside one lock acquisition in Consume,
// so two concurrent verifies for the same id can never both succeed, and
// the sweeper's deletes never race a verifier that has already looked the
// record up.
type Store struct {
	mu         sync.Mutex
	challenges map[string]*challenge.Challenge
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{challenges: make(map[string]*challenge.Challenge)}
}

// Put inserts a freshly created challenge. Insertion is the "created→issued"
// transition of spec.md §4.7's state machine; it is atomic with respect to
// Consume and Sweep by virtue of sharing the same lock.
func (s *Store) Put(c *challenge.Challenge) {
	s.mu.Lock()
	s.challenges[c.ID] = c
	s.mu.Unlock()
}

// Get returns a copy-free read of the challenge with the given id, for
// read-only admin/debug paths that must not participate in the consume
// critical section. The returned pointer must not be mutated by callers.
func (s *Store) Get(id string) (*challenge.Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	return c, ok
}

// Count returns the number of challenges currently tracked (issued,
// pending eviction, or used-but-not-yet-evicted).
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}

// Consume performs the single atomic critical section spec.md §4.6/§5
// requires: challenge exists → mode matches → not used → not expired →
// caller-supplied shape validation, in that order, with the used flag
// flipped only on a fully successful pass (or on lazy expiry, which also
// consumes per spec.md §4.7's state machine). shapeCheck runs inside the
// lock since it is a pure, non-blocking check over the already-decoded
// request body; it must not touch the store.
func (s *Store) Consume(id string, mode challenge.Mode, now time.Time, shapeCheck func() *apierr.Error) (*challenge.Challenge, *apierr.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.challenges[id]
	if !ok {
		return nil, apierr.New(apierr.CodeChallengeNotFound, "challenge not found")
	}
	if c.Mode != mode {
		return nil, apierr.New(apierr.CodeWrongChallengeMode, "challenge mode does not match endpoint")
	}
	if c.Used {
		return nil, apierr.New(apierr.CodeChallengeAlreadyUsed, "challenge already used")
	}
	if c.IsExpired(now) {
		c.Used = true
		c.UsedAt = now
		return nil, apierr.New(apierr.CodeChallengeExpired, "challenge expired")
	}
	if shapeCheck != nil {
		if err := shapeCheck(); err != nil {
			return nil, err
		}
	}

	c.Used = true
	c.UsedAt = now
	return c, nil
}

// Sweep evicts challenges past their grace period: used challenges older
// than evictUsedAfter past UsedAt, and unused challenges past
// evictExpiredGrace beyond ExpiresAt. It returns the number evicted.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, c := range s.challenges {
		if c.Used {
			if now.Sub(c.UsedAt) > evictUsedAfter {
				delete(s.challenges, id)
				evicted++
			}
			continue
		}
		if now.After(c.ExpiresAt.Add(evictExpiredGrace)) {
			delete(s.challenges, id)
			evicted++
		}
	}
	return evicted
}
