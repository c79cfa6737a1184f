package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"famcoach/internal/middleware"
	"famcoach/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoginCodeRepository interface {
	Create(ctx context.Context, db *gorm.DB, code *model.LoginCode) error
	// FindLatestActive returns the newest unconsumed, unexpired code for
	// the user, or model.ErrNotFound.
	FindLatestActive(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.LoginCode, error)
	Consume(ctx context.Context, db *gorm.DB, codeID uuid.UUID) error
}

type gormLoginCodeRepository struct{}

func NewGormLoginCodeRepository() LoginCodeRepository {
	return &gormLoginCodeRepository{}
}

func (r *gormLoginCodeRepository) Create(ctx context.Context, db *gorm.DB, code *model.LoginCode) error {
	logger := middleware.GetLogger(ctx)
	if err := db.WithContext(ctx).Create(code).Error; err != nil {
		logger.Error("Error creating login code in DB", "error", err, "user_id", code.UserID.String())
		return fmt.Errorf("gormLoginCodeRepository.Create: %w", err)
	}
	return nil
}

func (r *gormLoginCodeRepository) FindLatestActive(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.LoginCode, error) {
	logger := middleware.GetLogger(ctx)
	var code model.LoginCode
	result := db.WithContext(ctx).
		Where("user_id = ? AND consumed = ? AND expires_at > ?", userID, false, time.Now()).
		Order("created_at DESC").
		First(&code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding login code in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormLoginCodeRepository.FindLatestActive: %w", result.Error)
	}
	return &code, nil
}

func (r *gormLoginCodeRepository) Consume(ctx context.Context, db *gorm.DB, codeID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Model(&model.LoginCode{}).
		Where("code_id = ? AND consumed = ?", codeID, false).
		Update("consumed", true)
	if result.Error != nil {
		logger.Error("Error consuming login code in DB", "error", result.Error, "code_id", codeID.String())
		return fmt.Errorf("gormLoginCodeRepository.Consume: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
