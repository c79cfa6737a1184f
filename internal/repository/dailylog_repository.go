package repository

import (
	"context"
	"fmt"
	"time"

	"famcoach/internal/middleware"
	"famcoach/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyLogRepository interface {
	// Upsert writes the day's log, keyed on (user, date).
	Upsert(ctx context.Context, tx *gorm.DB, entry *model.DailyLog) error
	// FindRecent returns up to limit logs for the user, newest first.
	FindRecent(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.DailyLog, error)
	FindByDate(ctx context.Context, db *gorm.DB, userID uuid.UUID, date time.Time) (*model.DailyLog, error)
}

type gormDailyLogRepository struct{}

func NewGormDailyLogRepository() DailyLogRepository {
	return &gormDailyLogRepository{}
}

func (r *gormDailyLogRepository) Upsert(ctx context.Context, tx *gorm.DB, entry *model.DailyLog) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "log_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sleep_hours", "exercise_min", "quality_time", "mood", "notes", "updated_at",
		}),
	}).Create(entry)
	if result.Error != nil {
		logger.Error("Error upserting daily log in DB",
			"error", result.Error,
			"user_id", entry.UserID.String(),
			"log_date", entry.LogDate.Format("2006-01-02"),
		)
		return fmt.Errorf("gormDailyLogRepository.Upsert: %w", result.Error)
	}
	return nil
}

func (r *gormDailyLogRepository) FindRecent(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.DailyLog, error) {
	logger := middleware.GetLogger(ctx)
	var logs []*model.DailyLog
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("log_date DESC").
		Limit(limit).
		Find(&logs)
	if result.Error != nil {
		logger.Error("Error finding recent daily logs in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormDailyLogRepository.FindRecent: %w", result.Error)
	}
	return logs, nil
}

func (r *gormDailyLogRepository) FindByDate(ctx context.Context, db *gorm.DB, userID uuid.UUID, date time.Time) (*model.DailyLog, error) {
	logger := middleware.GetLogger(ctx)
	var entry model.DailyLog
	result := db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, date).
		First(&entry)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding daily log by date in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormDailyLogRepository.FindByDate: %w", result.Error)
	}
	return &entry, nil
}
