// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for credential hashing and verification.
// This abstracts the underlying hashing algorithm (bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted, self-describing hash token from a plaintext
	// secret. Two calls with the same secret produce different tokens; both
	// verify. An empty secret is rejected.
	Hash(secret string) (string, error)

	// Check compares a plaintext secret with a stored hash token in constant
	// time. It returns false for a mismatch and for any malformed token,
	// never distinguishing the two.
	Check(secret, hash string) bool

	// Cost extracts the work factor from a stored hash token. Malformed
	// tokens yield ErrMalformedCredential. Used to rehash credentials when
	// the configured cost has been raised.
	Cost(hash string) (int, error)
}
