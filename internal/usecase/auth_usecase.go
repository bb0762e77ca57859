// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginInput defines the data required to open a session.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the established session alongside the account it
// authenticates. The delivery layer turns the session id into a cookie.
type LoginOutput struct {
	User    *entity.User
	Session *entity.SessionRecord
}

// ResolveOutput returns the session and account a request's cookie maps to.
type ResolveOutput struct {
	User    *entity.User
	Session *entity.SessionRecord
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates an account and its password credential atomically.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies a credential and opens a fresh session.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Logout ends the session with the given id. Ending a session that no
	// longer exists is not an error.
	Logout(ctx context.Context, sessionID string) error

	// LogoutAll ends every session held by a user.
	LogoutAll(ctx context.Context, userID uuid.UUID) error

	// Resolve maps a session id back to its record and account. Expired or
	// unknown sessions fail with a credential-shaped error.
	Resolve(ctx context.Context, sessionID string) (*ResolveOutput, error)
}
