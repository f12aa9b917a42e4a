// Package sigtoken implements the HMAC-signed, URL-safe wire format shared
// by challenge tokens and verdict receipts: <base64url(payload)>.
// <base64url(HMAC-SHA256(payload-b64))>. Token encoding is kept orthogonal
// to business logic, as a pure (sign, verify) function pair over byte
// slices, per spec.md §9 — the caller decides what the payload means.
package sigtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalid is returned by Verify for a malformed token or one whose
// signature does not match, never distinguishing the two to a caller (both
// map to the same 401 invalid_token wire error per spec.md §7).
var ErrInvalid = errors.New("sigtoken: invalid token")

var enc = base64.RawURLEncoding

// Sign encodes payload as base64url and appends a dot-separated base64url
// HMAC-SHA256 over the encoded payload (not the raw payload), keyed by key.
// Signing the encoded form, not the raw bytes, means Verify never needs to
// re-encode payload to check the signature.
func Sign(key, payload []byte) string {
	payloadB64 := enc.EncodeToString(payload)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(payloadB64))
	sigB64 := enc.EncodeToString(mac.Sum(nil))
	return payloadB64 + "." + sigB64
}

// Verify checks token's signature against key in constant time and, on
// success, returns the decoded payload. Any malformed token or signature
// mismatch returns ErrInvalid.
func Verify(key []byte, token string) ([]byte, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ErrInvalid
	}
	payloadB64, sigB64 := parts[0], parts[1]

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(payloadB64))
	wantSig := mac.Sum(nil)

	gotSig, err := enc.DecodeString(sigB64)
	if err != nil {
		return nil, ErrInvalid
	}
	if subtle.ConstantTimeCompare(wantSig, gotSig) != 1 {
		return nil, ErrInvalid
	}

	payload, err := enc.DecodeString(payloadB64)
	if err != nil {
		return nil, ErrInvalid
	}
	return payload, nil
}
