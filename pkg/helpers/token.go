package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// Email token helpers

// NewOpaqueToken returns 32 random bytes, hex encoded, suitable for emailed links.
func NewOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken returns the SHA-256 hex digest stored in place of a raw token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
