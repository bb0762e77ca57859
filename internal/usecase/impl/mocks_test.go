package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"warden/config"
	"warden/internal/domain/entity"
	"warden/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Hand-maintained testify mocks for the domain interfaces the auth service
// depends on.

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.User), args.Error(1)
}

type mockCredentialRepository struct {
	mock.Mock
}

func (m *mockCredentialRepository) Create(ctx context.Context, credential *entity.Credential) error {
	return m.Called(ctx, credential).Error(0)
}

func (m *mockCredentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Credential), args.Error(1)
}

func (m *mockCredentialRepository) ReplaceHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, record *entity.SessionRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockSessionRepository) FindByID(ctx context.Context, sessionID string) (*entity.SessionRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.SessionRecord), args.Error(1)
}

func (m *mockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockSessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockSessionRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)

	return args.Int(0), args.Error(1)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(secret string) (string, error) {
	args := m.Called(secret)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(secret, hash string) bool {
	return m.Called(secret, hash).Bool(0)
}

func (m *mockPasswordHasher) Cost(hash string) (int, error) {
	args := m.Called(hash)

	return args.Int(0), args.Error(1)
}

type mockSessionIDGenerator struct {
	mock.Mock
}

func (m *mockSessionIDGenerator) Generate() (string, error) {
	args := m.Called()

	return args.String(0), args.Error(1)
}

// stubTxManager runs the unit of work against a fixed repository factory,
// standing in for a real database transaction.
type stubTxManager struct {
	factory repository.RepositoryFactory
}

func (s *stubTxManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(s.factory)
}

type stubRepoFactory struct {
	userRepo       repository.UserRepository
	credentialRepo repository.CredentialRepository
}

func (s *stubRepoFactory) UserRepo() repository.UserRepository {
	return s.userRepo
}

func (s *stubRepoFactory) CredentialRepo() repository.CredentialRepository {
	return s.credentialRepo
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxActiveSessions int) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        12,
			SessionTTL:        time.Hour,
			MaxActiveSessions: maxActiveSessions,
			CookieName:        "warden_session",
		},
	}
}
