package core

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// SignValue produces a tamper-evident token for an arbitrary payload string.
//
// The payload is base64url-encoded without padding, then an HMAC-SHA256
// signature is computed over the encoded form (not the raw bytes, so that
// signer and verifier always agree on exactly what was transmitted). The
// result is "<payload_b64url>.<signature_b64url>".
//
// The codec knows nothing about sessions or JSON; callers own the payload
// semantics.
func SignValue(payload, secret string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	sig := hmacSHA256(secret, encoded)
	return encoded + "." + base64.RawURLEncoding.EncodeToString(sig)
}

// VerifyValue checks a token produced by SignValue and returns the original
// payload. It reports ok=false for any malformed or tampered token without
// distinguishing the reason, so a caller cannot be used as a signature
// oracle.
func VerifyValue(token, secret string) (payload string, ok bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}

	// Strict decoding rejects non-canonical trailing bits, so no two
	// distinct tokens can carry the same decoded signature.
	expected := hmacSHA256(secret, parts[0])
	actual, err := base64.RawURLEncoding.Strict().DecodeString(parts[1])
	if err != nil {
		return "", false
	}

	if !constantTimeEqual(expected, actual) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.Strict().DecodeString(parts[0])
	if err != nil {
		return "", false
	}

	return string(decoded), true
}

func hmacSHA256(secret, message string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

// constantTimeEqual compares two signatures without leaking the position of
// the first mismatch: after the length check it always touches every byte,
// accumulating differences with XOR before concluding.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
