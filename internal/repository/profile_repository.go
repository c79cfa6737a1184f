package repository

import (
	"context"
	"errors"
	"fmt"

	"famcoach/internal/middleware"
	"famcoach/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Profile, error)
	// Upsert writes the profile draft keyed on user identity. The stored
	// completed_stages never decreases: an autosave racing a stage submit
	// cannot roll progress back.
	Upsert(ctx context.Context, tx *gorm.DB, profile *model.Profile) error
}

type gormProfileRepository struct{}

func NewGormProfileRepository() ProfileRepository {
	return &gormProfileRepository{}
}

func (r *gormProfileRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Profile, error) {
	logger := middleware.GetLogger(ctx)
	var profile model.Profile
	result := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding profile in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormProfileRepository.FindByUser: %w", result.Error)
	}
	return &profile, nil
}

func (r *gormProfileRepository) Upsert(ctx context.Context, tx *gorm.DB, profile *model.Profile) error {
	logger := middleware.GetLogger(ctx)

	var existing model.Profile
	result := tx.WithContext(ctx).Where("user_id = ?", profile.UserID).First(&existing)
	switch {
	case result.Error == nil:
		profile.ProfileID = existing.ProfileID
		profile.CreatedAt = existing.CreatedAt
		if existing.CompletedStages > profile.CompletedStages {
			profile.CompletedStages = existing.CompletedStages
		}
		if existing.MidpointShown {
			profile.MidpointShown = true
		}
		if existing.IsComplete {
			profile.IsComplete = true
		}
		if err := tx.WithContext(ctx).Save(profile).Error; err != nil {
			logger.Error("Error updating profile in DB",
				"error", err,
				"user_id", profile.UserID.String(),
			)
			return fmt.Errorf("gormProfileRepository.Upsert: %w", err)
		}
		return nil
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		if profile.ProfileID == uuid.Nil {
			profile.ProfileID = uuid.New()
		}
		if err := tx.WithContext(ctx).Create(profile).Error; err != nil {
			logger.Error("Error creating profile in DB",
				"error", err,
				"user_id", profile.UserID.String(),
			)
			return fmt.Errorf("gormProfileRepository.Upsert: %w", err)
		}
		return nil
	default:
		logger.Error("Error reading profile for upsert",
			"error", result.Error,
			"user_id", profile.UserID.String(),
		)
		return fmt.Errorf("gormProfileRepository.Upsert: %w", result.Error)
	}
}
