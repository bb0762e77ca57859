// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrUserNotFound is returned when a user lookup matches no record.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create persists a new user and fills in generated fields (ID, timestamps).
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a user by their login email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// List returns all users, ordered by creation time. Used by the PII
	// audit dump; not exposed over HTTP.
	List(ctx context.Context) ([]*entity.User, error)
}
