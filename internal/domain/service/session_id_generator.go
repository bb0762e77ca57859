package service

// SessionIDGenerator produces opaque, unguessable session identifiers.
type SessionIDGenerator interface {
	// Generate returns a fresh identifier. Failures of the underlying
	// randomness source are fatal to the calling operation and surfaced
	// directly.
	Generate() (string, error)
}
