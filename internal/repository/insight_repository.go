package repository

import (
	"context"
	"fmt"

	"famcoach/internal/middleware"
	"famcoach/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InsightRepository interface {
	Create(ctx context.Context, tx *gorm.DB, insight *model.Insight) error
	// FindRecent returns up to limit insights, newest first. The most
	// recent categories feed the selector's rotation rule.
	FindRecent(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.Insight, error)
	FindByID(ctx context.Context, db *gorm.DB, userID, insightID uuid.UUID) (*model.Insight, error)
}

type gormInsightRepository struct{}

func NewGormInsightRepository() InsightRepository {
	return &gormInsightRepository{}
}

func (r *gormInsightRepository) Create(ctx context.Context, tx *gorm.DB, insight *model.Insight) error {
	logger := middleware.GetLogger(ctx)
	if err := tx.WithContext(ctx).Create(insight).Error; err != nil {
		logger.Error("Error creating insight in DB",
			"error", err,
			"user_id", insight.UserID.String(),
			"category", string(insight.Category),
		)
		return fmt.Errorf("gormInsightRepository.Create: %w", err)
	}
	return nil
}

func (r *gormInsightRepository) FindRecent(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.Insight, error) {
	logger := middleware.GetLogger(ctx)
	var insights []*model.Insight
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&insights)
	if result.Error != nil {
		logger.Error("Error finding recent insights in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormInsightRepository.FindRecent: %w", result.Error)
	}
	return insights, nil
}

func (r *gormInsightRepository) FindByID(ctx context.Context, db *gorm.DB, userID, insightID uuid.UUID) (*model.Insight, error) {
	logger := middleware.GetLogger(ctx)
	var insight model.Insight
	result := db.WithContext(ctx).
		Where("user_id = ? AND insight_id = ?", userID, insightID).
		First(&insight)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding insight by ID in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"insight_id", insightID.String(),
		)
		return nil, fmt.Errorf("gormInsightRepository.FindByID: %w", result.Error)
	}
	return &insight, nil
}
