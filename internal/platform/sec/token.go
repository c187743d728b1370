// Copyright (c) 2026 ContactFlow. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random hex token of the
// given byte length (the resulting string is twice as long).
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 digest of a token as a hex string.
//
// Refresh tokens are stored hashed so a database leak does not yield
// usable session credentials.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
