package repository

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrCredentialNotFound is returned when no credential exists for a user.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository defines persistence operations for password credentials.
type CredentialRepository interface {
	// Create persists the credential produced at registration.
	Create(ctx context.Context, credential *entity.Credential) error

	// FindByUserID retrieves the credential protecting a user's account.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error)

	// ReplaceHash swaps the stored hash token for a freshly derived one,
	// e.g. when the configured cost factor has been raised.
	ReplaceHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}
