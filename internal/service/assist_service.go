package service

import (
	"context"
	"errors"
	"time"

	"famcoach/internal/coach"
	"famcoach/internal/config"
	"famcoach/internal/llm"
	"famcoach/internal/middleware"
	"famcoach/internal/model"
	"famcoach/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generation parameters for field suggestions.
const (
	assistMaxTokens   = 150
	assistTemperature = 0.7
)

type AssistService interface {
	// SuggestField produces a suggestion for one intake form field. The
	// daily quota is spent before the external call: once the ceiling is
	// reached the model is never invoked.
	SuggestField(ctx context.Context, userID uuid.UUID, req *model.AssistRequest) (*model.AssistResponse, error)
	GetUsage(ctx context.Context, userID uuid.UUID) (*model.UsageResponse, error)
}

type assistService struct {
	db          *gorm.DB
	profileRepo repository.ProfileRepository
	usageRepo   repository.UsageRepository
	client      llm.Client
	cfg         *config.Config
}

func NewAssistService(db *gorm.DB, profileRepo repository.ProfileRepository, usageRepo repository.UsageRepository, client llm.Client, cfg *config.Config) AssistService {
	return &assistService{
		db:          db,
		profileRepo: profileRepo,
		usageRepo:   usageRepo,
		client:      client,
		cfg:         cfg,
	}
}

func (s *assistService) SuggestField(ctx context.Context, userID uuid.UUID, req *model.AssistRequest) (*model.AssistResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String(), "field", req.Field)

	// Profile context is optional here: assist is used during intake,
	// before a profile may exist.
	profile, err := s.profileRepo.FindByUser(ctx, s.db, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}

	usage, err := s.usageRepo.ConsumeQuota(ctx, s.db, userID, today(), s.cfg.App.AssistDailyLimit)
	if err != nil {
		if errors.Is(err, model.ErrQuotaExceeded) {
			logger.Warn("Assist quota exhausted")
			return nil, model.NewAppError("QUOTA_EXCEEDED", "You have used all your AI assists for today. Come back tomorrow.", "", model.ErrQuotaExceeded)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}

	prompt := coach.BuildAssistPrompt(profile, req.Field, req.Context)
	suggestion, modelUsed, err := generateWithFallback(ctx, s.client, s.cfg, prompt, assistMaxTokens, assistTemperature)
	if err != nil {
		logger.Error("Assist generation failed on all models", "error", err)
		return nil, model.NewAppError("GENERATION_FAILED", "We could not generate a suggestion right now. Please try again later.", "", model.ErrGenerationFailed)
	}

	logger.Info("Assist suggestion generated", "model", modelUsed, "daily_count", usage.DailyCount)
	return &model.AssistResponse{
		Suggestion: suggestion,
		Remaining:  s.cfg.App.AssistDailyLimit - usage.DailyCount,
	}, nil
}

func (s *assistService) GetUsage(ctx context.Context, userID uuid.UUID) (*model.UsageResponse, error) {
	usage, err := s.usageRepo.Find(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return &model.UsageResponse{
				DailyLimit: s.cfg.App.AssistDailyLimit,
				Remaining:  s.cfg.App.AssistDailyLimit,
			}, nil
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}

	daily := usage.DailyCount
	if !sameDay(usage.LastUsedOn, today()) {
		daily = 0
	}
	return &model.UsageResponse{
		DailyCount:    daily,
		DailyLimit:    s.cfg.App.AssistDailyLimit,
		Remaining:     s.cfg.App.AssistDailyLimit - daily,
		LifetimeCount: usage.LifetimeCount,
	}, nil
}

// today truncates now to a UTC calendar date, matching the date column
// the quota row keys on.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
