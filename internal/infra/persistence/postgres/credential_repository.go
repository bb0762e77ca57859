package postgres

import (
	"context"

	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// credentialRepository implements the domain's CredentialRepository interface.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

// Create persists the credential produced at registration.
func (repo *credentialRepository) Create(ctx context.Context, credential *entity.Credential) error {
	credM := fromCredentialDomain(credential)

	if err := repo.db.WithContext(ctx).Create(credM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("credential already registered for this account")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required credential information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create credential")
	}

	credential.ID = credM.ID
	credential.CreatedAt = credM.CreatedAt
	credential.UpdatedAt = credM.UpdatedAt

	return nil
}

// FindByUserID retrieves the credential protecting a user's account.
func (repo *credentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error) {
	var credM model.CredentialModel
	if err := repo.db.WithContext(ctx).First(&credM, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toCredentialDomain(&credM), nil
}

// ReplaceHash swaps the stored hash token for a freshly derived one.
func (repo *credentialRepository) ReplaceHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CredentialModel{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to replace credential hash")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCredentialNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toCredentialDomain(data *model.CredentialModel) *entity.Credential {
	if data == nil {
		return nil
	}

	return &entity.Credential{
		ID:           data.ID,
		UserID:       data.UserID,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromCredentialDomain(data *entity.Credential) *model.CredentialModel {
	if data == nil {
		return nil
	}

	return &model.CredentialModel{
		ID:           data.ID,
		UserID:       data.UserID,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
