package entity

import (
	"time"

	"github.com/google/uuid"
)

// Credential stores the one-way hash protecting a user's password.
// The hash is a self-describing bcrypt token: algorithm version, cost factor,
// salt, and digest are all embedded in the single string. It is written once
// at registration and only ever replaced wholesale (rehash on login when the
// configured cost factor has been raised).
type Credential struct {
	ID           uuid.UUID // The unique ID for this credential record.
	UserID       uuid.UUID // Links the credential to the User it protects.
	PasswordHash string    // The bcrypt token. Never log this field.
	CreatedAt    time.Time // Timestamp of when the credential was registered.
	UpdatedAt    time.Time // Timestamp of the last hash replacement.
}
