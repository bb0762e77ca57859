// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"warden/config"
	deliverycontext "warden/internal/delivery/context"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/domain/service"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	credentialRepo    repository.CredentialRepository
	sessionRepo       repository.SessionRepository
	hasher            service.PasswordHasher
	idGenerator       service.SessionIDGenerator
	sessionTTL        time.Duration
	maxActiveSessions int
	targetCost        int
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	CredentialRepo repository.CredentialRepository
	SessionRepo    repository.SessionRepository
	Hasher         service.PasswordHasher
	IDGenerator    service.SessionIDGenerator
	Config         *config.Config
	Logger         *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	sessionTTL := time.Duration(0)
	maxActiveSessions := 0
	targetCost := 0
	if params.Config != nil && params.Config.Auth != nil {
		sessionTTL = params.Config.Auth.SessionTTL
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
		targetCost = params.Config.Auth.BcryptCost
	}

	return &authService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		credentialRepo:    params.CredentialRepo,
		sessionRepo:       params.SessionRepo,
		hasher:            params.Hasher,
		idGenerator:       params.IDGenerator,
		sessionTTL:        sessionTTL,
		maxActiveSessions: maxActiveSessions,
		targetCost:        targetCost,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account and its password credential atomically.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	// Hash outside the transaction; bcrypt is CPU-bound and needs no locks.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		credentialRepo := repoFactory.CredentialRepo()

		if _, findErr := userRepo.FindByEmail(ctx, input.Email); findErr == nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
		} else if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check for existing account")
		}

		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during registration")
		}

		newCredential := &entity.Credential{
			UserID:       newUser.ID,
			PasswordHash: hashedPassword,
		}

		if createErr := credentialRepo.Create(ctx, newCredential); createErr != nil {
			return errors.Wrap(createErr, "failed to create credential during registration")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login verifies a credential and opens a fresh session.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, unknown email", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	credential, err := srv.credentialRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			srv.log(ctx).Warn("Login failed, account has no credential", slog.Any("userID", user.ID))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find credential")
	}

	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if srv.maxActiveSessions > 0 {
		active, countErr := srv.sessionRepo.CountByUserID(ctx, user.ID)
		if countErr != nil {
			return nil, errors.Wrap(countErr, "failed to count active sessions")
		}
		if active >= srv.maxActiveSessions {
			srv.log(ctx).Warn("Login rejected, session limit reached", slog.Any("userID", user.ID), slog.Int("active", active))

			return nil, errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
		}
	}

	srv.maybeRehash(ctx, credential, input.Password)

	record, err := srv.openSession(ctx, user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to open session", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{User: user, Session: record}, nil
}

// maybeRehash upgrades the stored hash when the configured cost has been
// raised since the credential was created. Best effort: a failure here must
// not fail the login, the old hash still verifies.
func (srv *authService) maybeRehash(ctx context.Context, credential *entity.Credential, password string) {
	if srv.targetCost <= 0 {
		return
	}

	storedCost, err := srv.hasher.Cost(credential.PasswordHash)
	if err != nil || storedCost >= srv.targetCost {
		return
	}

	newHash, err := srv.hasher.Hash(password)
	if err != nil {
		srv.log(ctx).Warn("Failed to rehash credential", slog.Any("userID", credential.UserID), slog.Any("error", err))

		return
	}

	if err := srv.credentialRepo.ReplaceHash(ctx, credential.ID, newHash); err != nil {
		srv.log(ctx).Warn("Failed to store rehashed credential", slog.Any("userID", credential.UserID), slog.Any("error", err))

		return
	}

	srv.log(ctx).Info("Credential rehashed at higher cost", slog.Any("userID", credential.UserID), slog.Int("from", storedCost), slog.Int("to", srv.targetCost))
}

func (srv *authService) openSession(ctx context.Context, userID uuid.UUID) (*entity.SessionRecord, error) {
	sessionID, err := srv.idGenerator.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session id")
	}

	now := time.Now()
	record, err := entity.NewSessionRecord(sessionID, userID, now, now.Add(srv.sessionTTL))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build session record")
	}

	if err := srv.sessionRepo.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to store session record")
	}

	return record, nil
}

// Logout ends the session with the given id. Already-gone sessions are fine:
// the caller's goal (no such session) is met either way.
func (srv *authService) Logout(ctx context.Context, sessionID string) error {
	srv.log(ctx).Info("Attempting to log out")

	if err := srv.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}

		srv.log(ctx).Error("Failed to delete session", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete session")
	}

	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// LogoutAll ends every session held by a user.
func (srv *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Info("Attempting to log out everywhere", slog.Any("userID", userID))

	if err := srv.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to delete user sessions", slog.Any("error", err), slog.Any("userID", userID))

		return errors.Wrap(err, "failed to delete user sessions")
	}

	srv.log(ctx).Info("Successfully logged out everywhere", slog.Any("userID", userID))

	return nil
}

// Resolve maps a session id back to its record and account.
func (srv *authService) Resolve(ctx context.Context, sessionID string) (*usecase.ResolveOutput, error) {
	record, err := srv.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, errors.Wrap(domainerrors.ErrSessionNotFound, "session not found")
		}

		return nil, errors.Wrap(err, "failed to load session record")
	}

	if record.Expired(time.Now()) {
		// The store's TTL should have evicted it; drop the stragglers.
		if delErr := srv.sessionRepo.Delete(ctx, sessionID); delErr != nil && !errors.Is(delErr, repository.ErrSessionNotFound) {
			srv.log(ctx).Warn("Failed to evict expired session", slog.Any("error", delErr))
		}

		return nil, errors.Wrap(domainerrors.ErrSessionExpired, "session expired")
	}

	user, err := srv.userRepo.FindByID(ctx, record.UserID())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Session references a deleted account", slog.Any("userID", record.UserID()))

			return nil, errors.Wrap(domainerrors.ErrSessionNotFound, "session account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load session user")
	}

	return &usecase.ResolveOutput{User: user, Session: record}, nil
}
