package auth

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"

	"warden/internal/domain/service"
)

// sessionIDBytes is the entropy per identifier: 32 bytes = 256 bits.
const sessionIDBytes = 32

// randomIDGenerator draws session identifiers from crypto/rand.
type randomIDGenerator struct{}

// NewSessionIDGenerator is the constructor for randomIDGenerator.
func NewSessionIDGenerator() service.SessionIDGenerator {
	return &randomIDGenerator{}
}

// Generate returns a fresh 256-bit identifier in URL-safe base64.
// An RNG failure is surfaced to the caller; it must abort the login.
func (g *randomIDGenerator) Generate() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate session id")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
