package entity

import (
	"strings"
	"time"

	domainerrors "warden/internal/domain/errors"

	"github.com/google/uuid"
)

// SessionRecord associates an opaque session identifier with the user it
// authenticates. It is immutable after construction: middleware resolves the
// record on each request instead of re-verifying credentials, so a record
// missing either identifier must never exist.
type SessionRecord struct {
	sessionID string
	userID    uuid.UUID
	createdAt time.Time
	expiresAt time.Time
}

// NewSessionRecord builds a SessionRecord, enforcing its construction
// invariant: both identifiers are required. A blank session id or a nil user
// id yields ErrInvalidSession.
func NewSessionRecord(sessionID string, userID uuid.UUID, createdAt, expiresAt time.Time) (*SessionRecord, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, domainerrors.ErrInvalidSession.WrapMessage("session id must not be empty")
	}
	if userID == uuid.Nil {
		return nil, domainerrors.ErrInvalidSession.WrapMessage("user id must not be empty")
	}
	if !expiresAt.IsZero() && !createdAt.IsZero() && expiresAt.Before(createdAt) {
		return nil, domainerrors.ErrInvalidSession.WrapMessage("session cannot expire before it is created")
	}

	return &SessionRecord{
		sessionID: sessionID,
		userID:    userID,
		createdAt: createdAt,
		expiresAt: expiresAt,
	}, nil
}

// SessionID returns the opaque session identifier.
func (s *SessionRecord) SessionID() string {
	return s.sessionID
}

// UserID returns the identifier of the authenticated user.
func (s *SessionRecord) UserID() uuid.UUID {
	return s.userID
}

// CreatedAt returns when the session was established.
func (s *SessionRecord) CreatedAt() time.Time {
	return s.createdAt
}

// ExpiresAt returns the absolute expiry time. A zero value means the store's
// own TTL policy governs expiry.
func (s *SessionRecord) ExpiresAt() time.Time {
	return s.expiresAt
}

// Expired reports whether the record has passed its expiry at the given time.
func (s *SessionRecord) Expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && s.expiresAt.Before(now)
}
