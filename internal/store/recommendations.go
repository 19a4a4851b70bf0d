package store

import (
	"context"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecommendationRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, recs []*models.AiRecommendation) ([]*models.AiRecommendation, error)
	// ListByProfileID orders by priority, then insertion time.
	ListByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*models.AiRecommendation, error)
}

type recommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	return &recommendationRepo{db: db, log: baseLog.With("repo", "RecommendationRepo")}
}

func (rr *recommendationRepo) CreateBatch(ctx context.Context, tx *gorm.DB, recs []*models.AiRecommendation) ([]*models.AiRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(recs) == 0 {
		return []*models.AiRecommendation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (rr *recommendationRepo) ListByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*models.AiRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*models.AiRecommendation
	if err := transaction.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("priority ASC").
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
