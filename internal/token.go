package internal

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

const sessionIDSize = 16

// NewSessionID returns a new opaque session id: 128 bits from crypto/rand,
// base64url without padding.
func NewSessionID() (string, error) {
	var raw [sessionIDSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// NewResetToken returns a new single-use password reset token.
func NewResetToken() string {
	return uuid.NewString()
}
