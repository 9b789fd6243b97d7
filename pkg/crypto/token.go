package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

const (
	// ResetTokenLength is the entropy of password reset tokens in bytes.
	ResetTokenLength = 32 // 256 bits
)

// ResetToken generates a cryptographically secure, URL-safe password reset
// token.
func ResetToken() (string, error) {
	b := make([]byte, ResetTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// VerificationCode generates a 6-digit email verification code in the range
// 100000-999999, from crypto/rand rather than a seeded PRNG.
func VerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
