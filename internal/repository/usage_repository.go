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

type UsageRepository interface {
	// ConsumeQuota atomically spends one unit of the daily generation
	// allowance. It returns model.ErrQuotaExceeded once limit calls have
	// been made today; the counter rolls over to 1 on the first call of a
	// new day.
	ConsumeQuota(ctx context.Context, db *gorm.DB, userID uuid.UUID, today time.Time, limit int) (*model.AIUsage, error)
	Find(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.AIUsage, error)
}

type gormUsageRepository struct{}

func NewGormUsageRepository() UsageRepository {
	return &gormUsageRepository{}
}

// Each step below is a single guarded statement, so two concurrent
// requests cannot both pass the quota check on the last remaining unit.
func (r *gormUsageRepository) ConsumeQuota(ctx context.Context, db *gorm.DB, userID uuid.UUID, today time.Time, limit int) (*model.AIUsage, error) {
	logger := middleware.GetLogger(ctx)

	// Same-day increment while under the ceiling.
	result := db.WithContext(ctx).Model(&model.AIUsage{}).
		Where("user_id = ? AND last_used_on = ? AND daily_count < ?", userID, today, limit).
		Updates(map[string]interface{}{
			"daily_count":    gorm.Expr("daily_count + 1"),
			"lifetime_count": gorm.Expr("lifetime_count + 1"),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		logger.Error("Error incrementing usage counter", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormUsageRepository.ConsumeQuota: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return r.Find(ctx, db, userID)
	}

	// Date rollover: stored date differs from today, reset to 1.
	result = db.WithContext(ctx).Model(&model.AIUsage{}).
		Where("user_id = ? AND last_used_on <> ?", userID, today).
		Updates(map[string]interface{}{
			"daily_count":    1,
			"lifetime_count": gorm.Expr("lifetime_count + 1"),
			"last_used_on":   today,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		logger.Error("Error rolling over usage counter", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormUsageRepository.ConsumeQuota: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return r.Find(ctx, db, userID)
	}

	// No row yet for this user: create the first unit.
	usage := &model.AIUsage{
		UserID:        userID,
		LifetimeCount: 1,
		DailyCount:    1,
		LastUsedOn:    today,
	}
	createResult := db.WithContext(ctx).Create(usage)
	if createResult.Error == nil {
		return usage, nil
	}

	// A row exists, today's date matches, and the ceiling is reached.
	existing, err := r.Find(ctx, db, userID)
	if err != nil {
		logger.Error("Error reading usage counter after failed create", "error", createResult.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormUsageRepository.ConsumeQuota: %w", createResult.Error)
	}
	return existing, model.ErrQuotaExceeded
}

func (r *gormUsageRepository) Find(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.AIUsage, error) {
	logger := middleware.GetLogger(ctx)
	var usage model.AIUsage
	result := db.WithContext(ctx).Where("user_id = ?", userID).First(&usage)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding usage counter in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormUsageRepository.Find: %w", result.Error)
	}
	return &usage, nil
}
