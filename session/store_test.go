package session_test

import (
	"testing"
	"time"

	"github.com/glyphwatch/clnp/apierr"
	"github.com/glyphwatch/clnp/challenge"
	"github.com/glyphwatch/clnp/session"
)

func newChallenge(id string, mode challenge.Mode, ttl time.Duration) *challenge.Challenge {
	return &challenge.Challenge{
		ID:        id,
		Mode:      mode,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestStoreConsumeHappyPath(t *testing.T) {
	s := session.NewStore()
	c := newChallenge("a", challenge.ModeStandalone, time.Minute)
	s.Put(c)

	got, err := s.Consume("a", challenge.ModeStandalone, time.Now(), nil)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if got.ID != "a" {
		t.Errorf("got id %q, want a", got.ID)
	}
}

func TestStoreConsumeRejectsReplay(t *testing.T) {
	s := session.NewStore()
	s.Put(newChallenge("a", challenge.ModeStandalone, time.Minute))

	if _, err := s.Consume("a", challenge.ModeStandalone, time.Now(), nil); err != nil {
		t.Fatalf("first Consume: %v", err)
	}
	_, err := s.Consume("a", challenge.ModeStandalone, time.Now(), nil)
	if err == nil || err.Code != apierr.CodeChallengeAlreadyUsed {
		t.Errorf("second Consume = %v, want CodeChallengeAlreadyUsed", err)
	}
}

func TestStoreConsumeRejectsWrongMode(t *testing.T) {
	s := session.NewStore()
	s.Put(newChallenge("a", challenge.ModeStandalone, time.Minute))

	_, err := s.Consume("a", challenge.ModeEmbed, time.Now(), nil)
	if err == nil || err.Code != apierr.CodeWrongChallengeMode {
		t.Errorf("Consume(wrong mode) = %v, want CodeWrongChallengeMode", err)
	}
}

func TestStoreConsumeRejectsUnknownID(t *testing.T) {
	s := session.NewStore()
	_, err := s.Consume("missing", challenge.ModeStandalone, time.Now(), nil)
	if err == nil || err.Code != apierr.CodeChallengeNotFound {
		t.Errorf("Consume(unknown) = %v, want CodeChallengeNotFound", err)
	}
}

func TestStoreConsumeExpiredMarksUsed(t *testing.T) {
	s := session.NewStore()
	s.Put(newChallenge("a", challenge.ModeStandalone, -time.Second))

	_, err := s.Consume("a", challenge.ModeStandalone, time.Now(), nil)
	if err == nil || err.Code != apierr.CodeChallengeExpired {
		t.Fatalf("Consume(expired) = %v, want CodeChallengeExpired", err)
	}

	// A second attempt must now see it as used, not expired, since lazy
	// expiry also consumes.
	_, err2 := s.Consume("a", challenge.ModeStandalone, time.Now(), nil)
	if err2 == nil || err2.Code != apierr.CodeChallengeAlreadyUsed {
		t.Errorf("second Consume after lazy expiry = %v, want CodeChallengeAlreadyUsed", err2)
	}
}

func TestStoreConsumeRunsShapeCheckBeforeMarkingUsed(t *testing.T) {
	s := session.NewStore()
	s.Put(newChallenge("a", challenge.ModeStandalone, time.Minute))

	shapeErr := apierr.New(apierr.CodeMissingCanvas, "canvas missing")
	_, err := s.Consume("a", challenge.ModeStandalone, time.Now(), func() *apierr.Error { return shapeErr })
	if err != shapeErr {
		t.Fatalf("Consume = %v, want shapeErr", err)
	}

	// Challenge must still be usable: a failing shape check must not have
	// consumed it.
	if _, err := s.Consume("a", challenge.ModeStandalone, time.Now(), nil); err != nil {
		t.Errorf("Consume after failed shape check = %v, want success", err)
	}
}

func TestStoreSweepEvictsPastGrace(t *testing.T) {
	s := session.NewStore()
	s.Put(newChallenge("unused", challenge.ModeStandalone, -2*time.Minute))

	evicted := s.Sweep(time.Now())
	if evicted != 1 {
		t.Fatalf("Sweep evicted %d, want 1", evicted)
	}
	if s.Count() != 0 {
		t.Errorf("Count = %d, want 0 after sweep", s.Count())
	}
}
