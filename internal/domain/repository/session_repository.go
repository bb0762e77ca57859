package repository

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when a session lookup matches no live record.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines the contract for the live session store.
// Records are keyed by session id; the store enforces expiry server-side.
type SessionRepository interface {
	// Create persists a new session record with a TTL derived from its expiry.
	Create(ctx context.Context, record *entity.SessionRecord) error

	// FindByID retrieves a live session by its opaque identifier.
	FindByID(ctx context.Context, sessionID string) (*entity.SessionRecord, error)

	// Delete removes a session by its identifier, ending it.
	Delete(ctx context.Context, sessionID string) error

	// DeleteByUserID removes all of a user's sessions ("logout everywhere").
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// CountByUserID returns the number of live sessions held by a user.
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
}
