package store

import (
	"context"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stack *models.AiStack) (*models.AiStack, error)
	// GetByProfileID returns the most recently created stack for the profile.
	GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) (*models.AiStack, error)
	CountByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) (int64, error)
}

type stackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStackRepo(db *gorm.DB, baseLog *logger.Logger) StackRepo {
	return &stackRepo{db: db, log: baseLog.With("repo", "StackRepo")}
}

func (sr *stackRepo) Create(ctx context.Context, tx *gorm.DB, stack *models.AiStack) (*models.AiStack, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(stack).Error; err != nil {
		return nil, err
	}
	return stack, nil
}

func (sr *stackRepo) GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) (*models.AiStack, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var stack models.AiStack
	err := transaction.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Take(&stack).Error
	return found(&stack, err)
}

func (sr *stackRepo) CountByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&models.AiStack{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
