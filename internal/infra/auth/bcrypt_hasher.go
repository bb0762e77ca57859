// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"warden/config"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/service"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
// bcrypt generates the salt itself and embeds version, cost, salt, and digest
// in the returned token, so a stored hash is self-describing.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher. The work factor comes
// from config; zero or out-of-range values fall back to bcrypt's defaults.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil {
		cost = cfg.Auth.BcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash token from a plaintext secret.
// A fresh random salt is drawn per call, so hashing the same secret twice
// yields different tokens. An empty secret is a caller error.
func (h *bcryptHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", domainerrors.ErrValidationFailed.WrapMessage("secret must not be empty")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext secret with a stored hash token.
// bcrypt re-derives the digest with the salt and cost parsed from the token
// and compares in constant time. A malformed token reports false the same
// way a mismatch does, so nothing leaks about the cause.
func (h *bcryptHasher) Check(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))

	return err == nil
}

// Cost extracts the work factor embedded in a stored hash token.
func (h *bcryptHasher) Cost(hash string) (int, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0, domainerrors.ErrMalformedCredential.WrapMessage(err.Error())
	}

	return cost, nil
}
