package session

import (
	"testing"
	"time"

	"github.com/glyphwatch/clnp/apierr"
	"github.com/glyphwatch/clnp/challenge"
)

func TestIssueAndParseTokenRoundTrip(t *testing.T) {
	secret := []byte("secret")
	c := &challenge.Challenge{ID: "abc123", Mode: challenge.ModeStandalone}

	token := IssueToken(secret, c)
	id, err := parseToken(secret, token)
	if err != nil {
		t.Fatalf("parseToken: %v", err)
	}
	if id != c.ID {
		t.Errorf("parseToken id = %q, want %q", id, c.ID)
	}
}

func TestParseTokenRejectsTamperedToken(t *testing.T) {
	secret := []byte("secret")
	c := &challenge.Challenge{ID: "abc123", Mode: challenge.ModeStandalone}
	token := IssueToken(secret, c)

	_, err := parseToken(secret, token+"x")
	if err == nil || err.Code != apierr.CodeInvalidToken {
		t.Errorf("parseToken(tampered) = %v, want CodeInvalidToken", err)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	c := &challenge.Challenge{ID: "abc123", Mode: challenge.ModeStandalone}
	token := IssueToken([]byte("secret-a"), c)

	_, err := parseToken([]byte("secret-b"), token)
	if err == nil || err.Code != apierr.CodeInvalidToken {
		t.Errorf("parseToken(wrong secret) = %v, want CodeInvalidToken", err)
	}
}

func TestIssueReceiptIsVerifiable(t *testing.T) {
	secret := []byte("secret")
	payload := ReceiptPayload{
		ChallengeID: "abc123",
		Mode:        "standalone",
		Verified:    true,
		Score:       0.82,
		Verdict:     "BIOLOGICAL CONTROLLER DETECTED",
		VerifiedAt:  time.Now().UTC().Truncate(time.Second),
	}
	receipt := IssueReceipt(secret, payload)
	if receipt == "" {
		t.Fatal("expected non-empty receipt")
	}
}
