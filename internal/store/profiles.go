package store

import (
	"context"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profile *models.BusinessProfile) (*models.BusinessProfile, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.BusinessProfile, error)
	GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.BusinessProfile, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (pr *profileRepo) Create(ctx context.Context, tx *gorm.DB, profile *models.BusinessProfile) (*models.BusinessProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (pr *profileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.BusinessProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var profile models.BusinessProfile
	err := transaction.WithContext(ctx).Where("id = ?", id).Take(&profile).Error
	return found(&profile, err)
}

func (pr *profileRepo) GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.BusinessProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var profile models.BusinessProfile
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Take(&profile).Error
	return found(&profile, err)
}

func (pr *profileRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&models.BusinessProfile{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
