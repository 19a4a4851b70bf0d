package store

import (
	"context"
	"errors"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicate is returned by Create when a unique column already holds the value.
var ErrDuplicate = gorm.ErrDuplicatedKey

// Lookups return a nil row and a nil error when nothing matches.
type UserRepo interface {
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) (*models.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var user models.User
	err := transaction.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	return found(&user, err)
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var user models.User
	err := transaction.WithContext(ctx).Where("id = ?", id).Take(&user).Error
	return found(&user, err)
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) (*models.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func found[T any](row *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
