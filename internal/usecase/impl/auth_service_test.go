package impl

import (
	"context"
	"testing"
	"time"

	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service        usecase.AuthUsecase
	userRepo       *mockUserRepository
	credentialRepo *mockCredentialRepository
	sessionRepo    *mockSessionRepository
	hasher         *mockPasswordHasher
	idGenerator    *mockSessionIDGenerator
}

func createTestAuthService(maxActiveSessions int) authServiceFixtures {
	userRepo := new(mockUserRepository)
	credentialRepo := new(mockCredentialRepository)
	sessionRepo := new(mockSessionRepository)
	hasher := new(mockPasswordHasher)
	idGenerator := new(mockSessionIDGenerator)

	txManager := &stubTxManager{factory: &stubRepoFactory{
		userRepo:       userRepo,
		credentialRepo: credentialRepo,
	}}

	service := NewAuthService(AuthServiceParams{
		TxManager:      txManager,
		UserRepo:       userRepo,
		CredentialRepo: credentialRepo,
		SessionRepo:    sessionRepo,
		Hasher:         hasher,
		IDGenerator:    idGenerator,
		Config:         newTestConfig(maxActiveSessions),
		Logger:         newDiscardLogger(),
	})

	return authServiceFixtures{
		service:        service,
		userRepo:       userRepo,
		credentialRepo: credentialRepo,
		sessionRepo:    sessionRepo,
		hasher:         hasher,
		idGenerator:    idGenerator,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fixtures.hasher.On("Hash", input.Password).Return("$2b$12$hashedvalue", nil)
	fixtures.userRepo.On("FindByEmail", ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	fixtures.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			user.ID = uuid.New()
		}).
		Return(nil)
	fixtures.credentialRepo.On("Create", ctx, mock.AnythingOfType("*entity.Credential")).Return(nil)

	output, err := fixtures.service.Register(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, input.Email, output.User.Email)
	assert.NotEqual(t, uuid.Nil, output.User.ID)

	fixtures.credentialRepo.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(c *entity.Credential) bool {
		return c.PasswordHash == "$2b$12$hashedvalue" && c.UserID == output.User.ID
	}))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	input := &usecase.RegisterInput{
		Email:    "taken@example.com",
		Password: "Password123!",
	}

	fixtures.hasher.On("Hash", input.Password).Return("$2b$12$hashedvalue", nil)
	fixtures.userRepo.On("FindByEmail", ctx, input.Email).Return(&entity.User{ID: uuid.New(), Email: input.Email}, nil)

	output, err := fixtures.service.Register(ctx, input)
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))

	fixtures.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	input := &usecase.RegisterInput{
		Email:    "test@example.com",
		Password: "",
	}

	fixtures.hasher.On("Hash", "").Return("", domainerrors.ErrValidationFailed.WrapMessage("secret must not be empty"))

	output, err := fixtures.service.Register(ctx, input)
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAuthService_Login_Success(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "test@example.com"}
	credential := &entity.Credential{ID: uuid.New(), UserID: userID, PasswordHash: "$2b$12$stored"}

	fixtures.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fixtures.credentialRepo.On("FindByUserID", ctx, userID).Return(credential, nil)
	fixtures.hasher.On("Check", "Password123!", credential.PasswordHash).Return(true)
	fixtures.hasher.On("Cost", credential.PasswordHash).Return(12, nil)
	fixtures.idGenerator.On("Generate").Return("opaque-session-id", nil)
	fixtures.sessionRepo.On("Create", ctx, mock.AnythingOfType("*entity.SessionRecord")).Return(nil)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "Password123!"})
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, userID, output.User.ID)
	assert.Equal(t, "opaque-session-id", output.Session.SessionID())
	assert.Equal(t, userID, output.Session.UserID())
	assert.WithinDuration(t, time.Now().Add(time.Hour), output.Session.ExpiresAt(), 5*time.Second)

	// Stored cost matches the configured cost, so no rehash happens.
	fixtures.credentialRepo.AssertNotCalled(t, "ReplaceHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	fixtures.userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{Email: "nobody@example.com", Password: "x"})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "test@example.com"}
	credential := &entity.Credential{ID: uuid.New(), UserID: userID, PasswordHash: "$2b$12$stored"}

	fixtures.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fixtures.credentialRepo.On("FindByUserID", ctx, userID).Return(credential, nil)
	fixtures.hasher.On("Check", "wrong", credential.PasswordHash).Return(false)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "wrong"})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	fixtures.idGenerator.AssertNotCalled(t, "Generate")
}

func TestAuthService_Login_SessionLimitExceeded(t *testing.T) {
	fixtures := createTestAuthService(2)
	ctx := context.Background()

	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "test@example.com"}
	credential := &entity.Credential{ID: uuid.New(), UserID: userID, PasswordHash: "$2b$12$stored"}

	fixtures.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fixtures.credentialRepo.On("FindByUserID", ctx, userID).Return(credential, nil)
	fixtures.hasher.On("Check", "Password123!", credential.PasswordHash).Return(true)
	fixtures.sessionRepo.On("CountByUserID", ctx, userID).Return(2, nil)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "Password123!"})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionLimitExceeded))
}

func TestAuthService_Login_RehashesWeakerCredential(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "test@example.com"}
	credential := &entity.Credential{ID: uuid.New(), UserID: userID, PasswordHash: "$2b$10$oldhash"}

	fixtures.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fixtures.credentialRepo.On("FindByUserID", ctx, userID).Return(credential, nil)
	fixtures.hasher.On("Check", "Password123!", credential.PasswordHash).Return(true)
	fixtures.hasher.On("Cost", credential.PasswordHash).Return(10, nil)
	fixtures.hasher.On("Hash", "Password123!").Return("$2b$12$newhash", nil)
	fixtures.credentialRepo.On("ReplaceHash", ctx, credential.ID, "$2b$12$newhash").Return(nil)
	fixtures.idGenerator.On("Generate").Return("opaque-session-id", nil)
	fixtures.sessionRepo.On("Create", ctx, mock.AnythingOfType("*entity.SessionRecord")).Return(nil)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "Password123!"})
	require.NoError(t, err)
	require.NotNil(t, output)

	fixtures.credentialRepo.AssertCalled(t, "ReplaceHash", ctx, credential.ID, "$2b$12$newhash")
}

func TestAuthService_Login_RehashFailureDoesNotFailLogin(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "test@example.com"}
	credential := &entity.Credential{ID: uuid.New(), UserID: userID, PasswordHash: "$2b$10$oldhash"}

	fixtures.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fixtures.credentialRepo.On("FindByUserID", ctx, userID).Return(credential, nil)
	fixtures.hasher.On("Check", "Password123!", credential.PasswordHash).Return(true)
	fixtures.hasher.On("Cost", credential.PasswordHash).Return(10, nil)
	fixtures.hasher.On("Hash", "Password123!").Return("$2b$12$newhash", nil)
	fixtures.credentialRepo.On("ReplaceHash", ctx, credential.ID, "$2b$12$newhash").Return(errors.New("db down"))
	fixtures.idGenerator.On("Generate").Return("opaque-session-id", nil)
	fixtures.sessionRepo.On("Create", ctx, mock.AnythingOfType("*entity.SessionRecord")).Return(nil)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "Password123!"})
	require.NoError(t, err)
	require.NotNil(t, output)
}

func TestAuthService_Logout_Success(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	fixtures.sessionRepo.On("Delete", ctx, "session-id").Return(nil)

	require.NoError(t, fixtures.service.Logout(ctx, "session-id"))
}

func TestAuthService_Logout_AlreadyGone(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	fixtures.sessionRepo.On("Delete", ctx, "session-id").Return(repository.ErrSessionNotFound)

	require.NoError(t, fixtures.service.Logout(ctx, "session-id"))
}

func TestAuthService_LogoutAll(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	userID := uuid.New()
	fixtures.sessionRepo.On("DeleteByUserID", ctx, userID).Return(nil)

	require.NoError(t, fixtures.service.LogoutAll(ctx, userID))
}

func TestAuthService_Resolve_Success(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	userID := uuid.New()
	now := time.Now()
	record, err := entity.NewSessionRecord("session-id", userID, now, now.Add(time.Hour))
	require.NoError(t, err)

	user := &entity.User{ID: userID, Email: "test@example.com"}

	fixtures.sessionRepo.On("FindByID", ctx, "session-id").Return(record, nil)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)

	output, err := fixtures.service.Resolve(ctx, "session-id")
	require.NoError(t, err)
	assert.Equal(t, userID, output.User.ID)
	assert.Equal(t, "session-id", output.Session.SessionID())
}

func TestAuthService_Resolve_NotFound(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	fixtures.sessionRepo.On("FindByID", ctx, "missing").Return(nil, repository.ErrSessionNotFound)

	output, err := fixtures.service.Resolve(ctx, "missing")
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionNotFound))
}

func TestAuthService_Resolve_Expired(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	userID := uuid.New()
	past := time.Now().Add(-2 * time.Hour)
	record, err := entity.NewSessionRecord("session-id", userID, past, past.Add(time.Hour))
	require.NoError(t, err)

	fixtures.sessionRepo.On("FindByID", ctx, "session-id").Return(record, nil)
	fixtures.sessionRepo.On("Delete", ctx, "session-id").Return(nil)

	output, err := fixtures.service.Resolve(ctx, "session-id")
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionExpired))

	fixtures.sessionRepo.AssertCalled(t, "Delete", ctx, "session-id")
	fixtures.userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthService_Resolve_DeletedAccount(t *testing.T) {
	fixtures := createTestAuthService(0)
	ctx := context.Background()

	userID := uuid.New()
	now := time.Now()
	record, err := entity.NewSessionRecord("session-id", userID, now, now.Add(time.Hour))
	require.NoError(t, err)

	fixtures.sessionRepo.On("FindByID", ctx, "session-id").Return(record, nil)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	output, err := fixtures.service.Resolve(ctx, "session-id")
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionNotFound))
}
