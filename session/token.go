package session

import (
	"encoding/json"
	"time"

	"github.com/glyphwatch/clnp/apierr"
	"github.com/glyphwatch/clnp/challenge"
	"github.com/glyphwatch/clnp/sigtoken"
)

// tokenPayload is the JSON body signed into a challenge token.
type tokenPayload struct {
	ChallengeID string `json:"challengeId"`
	Mode        string `json:"mode"`
}

// IssueToken signs a token binding c's id and mode, keyed by secret.
func IssueToken(secret []byte, c *challenge.Challenge) string {
	data, _ := json.Marshal(tokenPayload{ChallengeID: c.ID, Mode: string(c.Mode)})
	return sigtoken.Sign(secret, data)
}

// parseToken verifies token's signature and decodes its payload, mapping
// any failure to the single wire code spec.md §7 assigns malformed or
// tampered tokens.
func parseToken(secret []byte, token string) (string, *apierr.Error) {
	data, err := sigtoken.Verify(secret, token)
	if err != nil {
		return "", apierr.New(apierr.CodeInvalidToken, "invalid or tampered token")
	}
	var p tokenPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChallengeID == "" {
		return "", apierr.New(apierr.CodeInvalidToken, "malformed token payload")
	}
	return p.ChallengeID, nil
}

// ReceiptPayload is the signed verdict receipt returned from a successful
// verify, per spec.md §4.6.
type ReceiptPayload struct {
	ChallengeID string    `json:"challengeId"`
	Mode        string    `json:"mode,omitempty"`
	Verified    bool      `json:"verified"`
	Score       float64   `json:"score"`
	Verdict     string    `json:"verdict"`
	VerifiedAt  time.Time `json:"verifiedAt"`
}

// IssueReceipt signs p, keyed by secret.
func IssueReceipt(secret []byte, p ReceiptPayload) string {
	data, _ := json.Marshal(p)
	return sigtoken.Sign(secret, data)
}
