package codes

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrInvalidLength = errors.New("invalid code length")
)

const (
	// InvitationTokenByteLength is the number of random bytes for invitation
	// tokens (produces 64 hex chars).
	InvitationTokenByteLength = 32

	// SessionTokenByteLength is the number of random bytes for opaque
	// session tokens (produces 64 hex chars).
	SessionTokenByteLength = 32
)

// GenerateInvitationToken creates a secure token for invitation URLs.
// Returns a 64-character hex string.
func GenerateInvitationToken() (string, error) {
	return GenerateSecureToken(InvitationTokenByteLength)
}

// GenerateSessionToken creates an opaque bearer token for Redis-backed sessions.
// Returns a 64-character hex string.
func GenerateSessionToken() (string, error) {
	return GenerateSecureToken(SessionTokenByteLength)
}

// GenerateSecureToken creates a cryptographically secure hex token.
// byteLength specifies the number of random bytes (output will be 2x this length in hex).
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength < 1 {
		return "", ErrInvalidLength
	}

	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(b), nil
}

// GenerateURLSafeToken creates a URL-safe base64-encoded token.
// byteLength specifies the number of random bytes.
func GenerateURLSafeToken(byteLength int) (string, error) {
	if byteLength < 1 {
		return "", ErrInvalidLength
	}

	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
