package service

import (
	"context"
	"errors"
	"time"

	"famcoach/internal/coach"
	"famcoach/internal/middleware"
	"famcoach/internal/model"
	"famcoach/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService interface {
	// SubmitStage merges a validated stage payload into the profile and
	// advances the wizard. Leaving the health stage for the first time
	// suspends the transition behind the midpoint prompt.
	SubmitStage(ctx context.Context, userID uuid.UUID, index int, payload model.StagePayload) (*model.StageSubmitResponse, error)
	// ResolveMidpoint records the user's choice at the midpoint prompt.
	// Both choices mark the prompt as shown; it never reappears.
	ResolveMidpoint(ctx context.Context, userID uuid.UUID, cont bool) (*model.StageSubmitResponse, error)
	// Autosave merges a partial draft without validation or stage
	// advancement.
	Autosave(ctx context.Context, userID uuid.UUID, draft *model.ProfileDraft) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

type profileService struct {
	db          *gorm.DB
	profileRepo repository.ProfileRepository
}

func NewProfileService(db *gorm.DB, profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{
		db:          db,
		profileRepo: profileRepo,
	}
}

func (s *profileService) SubmitStage(ctx context.Context, userID uuid.UUID, index int, payload model.StagePayload) (*model.StageSubmitResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String(), "stage", index)

	var resp *model.StageSubmitResponse
	err := withRetry(ctx, "profile.SubmitStage", func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			profile, err := s.loadOrBlank(ctx, tx, userID)
			if err != nil {
				return err
			}

			if !coach.CanSubmit(index, profile.CompletedStages) {
				logger.Warn("Out-of-order stage submission rejected", "completed_stages", profile.CompletedStages)
				return model.NewAppError("STAGE_OUT_OF_ORDER", "Please complete the earlier steps first.", "", model.ErrInvalidInput)
			}

			payload.Apply(profile)
			if index > profile.CompletedStages {
				profile.CompletedStages = index
			}
			if index >= model.StagePreferences {
				profile.IsComplete = true
			}
			profile.LastSaved = time.Now()

			if err := s.profileRepo.Upsert(ctx, tx, profile); err != nil {
				return err
			}

			next, midpoint := coach.NextStage(index, profile.MidpointShown)
			resp = &model.StageSubmitResponse{
				CompletedStages: profile.CompletedStages,
				NextStage:       next,
				MidpointPrompt:  midpoint,
				IsComplete:      profile.IsComplete,
			}
			return nil
		})
	})
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "We could not save your answers. Please try again.", "", err)
	}

	logger.Info("Stage submitted", "completed_stages", resp.CompletedStages, "midpoint_prompt", resp.MidpointPrompt)
	return resp, nil
}

func (s *profileService) ResolveMidpoint(ctx context.Context, userID uuid.UUID, cont bool) (*model.StageSubmitResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String())

	var resp *model.StageSubmitResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.profileRepo.FindByUser(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("PROFILE_NOT_FOUND", "Profile not found. Please start the intake first.", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
		}

		profile.MidpointShown = true
		profile.LastSaved = time.Now()
		if err := s.profileRepo.Upsert(ctx, tx, profile); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
		}

		next := profile.CompletedStages
		if cont {
			next, _ = coach.NextStage(coach.MidpointStage, true)
		}
		resp = &model.StageSubmitResponse{
			CompletedStages: profile.CompletedStages,
			NextStage:       next,
			IsComplete:      profile.IsComplete,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Midpoint resolved", "continue", cont)
	return resp, nil
}

func (s *profileService) Autosave(ctx context.Context, userID uuid.UUID, draft *model.ProfileDraft) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.loadOrBlank(ctx, tx, userID)
		if err != nil {
			return err
		}
		draft.Apply(profile)
		profile.LastSaved = time.Now()
		return s.profileRepo.Upsert(ctx, tx, profile)
	})
	if err != nil {
		// Autosave is best-effort: the next tick or the explicit submit
		// carries the same data.
		logger.Warn("Autosave failed", "error", err)
		return model.NewAppError("AUTOSAVE_FAILED", "Draft could not be saved.", "", err)
	}
	return nil
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("PROFILE_NOT_FOUND", "Profile not found. Please start the intake first.", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}
	return profile, nil
}

// loadOrBlank returns the stored profile, or a fresh one for first-time
// writers.
func (s *profileService) loadOrBlank(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUser(ctx, tx, userID)
	if err == nil {
		return profile, nil
	}
	if errors.Is(err, model.ErrNotFound) {
		return &model.Profile{
			ProfileID: uuid.New(),
			UserID:    userID,
		}, nil
	}
	return nil, err
}
