package redis

import (
	"context"
	"encoding/json"
	"time"

	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix   = "session:"
	userIndexKeyPrefix = "session:user:"
)

// sessionDoc is the persisted shape of a session record.
type sessionDoc struct {
	SessionID string    `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// sessionRepository implements the domain's SessionRepository interface on Redis.
// Each record lives under session:<id> with a TTL equal to its remaining
// lifetime; a per-user set session:user:<uuid> indexes a user's session ids
// for bulk revocation and counting. Index members whose record has already
// expired are pruned on read.
type sessionRepository struct {
	client *redis.Client
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(client *redis.Client) repository.SessionRepository {
	return &sessionRepository{client: client}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func userIndexKey(userID uuid.UUID) string {
	return userIndexKeyPrefix + userID.String()
}

// Create persists a new session record with a TTL derived from its expiry.
func (repo *sessionRepository) Create(ctx context.Context, record *entity.SessionRecord) error {
	ttl := time.Until(record.ExpiresAt())
	if ttl <= 0 {
		return domainerrors.ErrInvalidSession.WrapMessage("session must expire in the future")
	}

	doc := sessionDoc{
		SessionID: record.SessionID(),
		UserID:    record.UserID(),
		CreatedAt: record.CreatedAt(),
		ExpiresAt: record.ExpiresAt(),
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal session record")
	}

	indexKey := userIndexKey(record.UserID())

	pipe := repo.client.TxPipeline()
	pipe.Set(ctx, sessionKey(record.SessionID()), data, ttl)
	pipe.SAdd(ctx, indexKey, record.SessionID())
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to store session record")
	}

	// Keep the index alive at least as long as its longest-lived member.
	current, err := repo.client.TTL(ctx, indexKey).Result()
	if err == nil && current < ttl {
		_ = repo.client.Expire(ctx, indexKey, ttl).Err()
	}

	return nil
}

// FindByID retrieves a live session by its opaque identifier.
func (repo *sessionRepository) FindByID(ctx context.Context, sessionID string) (*entity.SessionRecord, error) {
	data, err := repo.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session record")
	}

	var doc sessionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session record")
	}

	// Reconstruction runs the same invariants as creation; a corrupt
	// document surfaces as ErrInvalidSession rather than a half-built record.
	record, err := entity.NewSessionRecord(doc.SessionID, doc.UserID, doc.CreatedAt, doc.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Delete removes a session by its identifier, ending it.
func (repo *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	record, err := repo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}

	pipe := repo.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userIndexKey(record.UserID()), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to delete session record")
	}

	return nil
}

// DeleteByUserID removes all of a user's sessions.
func (repo *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	indexKey := userIndexKey(userID)

	sessionIDs, err := repo.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return errors.Wrap(err, "failed to list user sessions")
	}

	keys := make([]string, 0, len(sessionIDs)+1)
	for _, sessionID := range sessionIDs {
		keys = append(keys, sessionKey(sessionID))
	}
	keys = append(keys, indexKey)

	if err := repo.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "failed to delete user sessions")
	}

	return nil
}

// CountByUserID returns the number of live sessions held by a user.
// Expired members still present in the index are pruned as a side effect.
func (repo *sessionRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	indexKey := userIndexKey(userID)

	sessionIDs, err := repo.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return 0, errors.Wrap(err, "failed to list user sessions")
	}

	live := 0
	for _, sessionID := range sessionIDs {
		exists, err := repo.client.Exists(ctx, sessionKey(sessionID)).Result()
		if err != nil {
			return 0, errors.Wrap(err, "failed to check session existence")
		}

		if exists == 0 {
			_ = repo.client.SRem(ctx, indexKey, sessionID).Err()

			continue
		}
		live++
	}

	return live, nil
}
