package service

import (
	"context"
	"errors"

	"famcoach/internal/coach"
	"famcoach/internal/config"
	"famcoach/internal/llm"
	"famcoach/internal/middleware"
	"famcoach/internal/model"
	"famcoach/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generation parameters for daily insights.
const (
	insightMaxTokens   = 400
	insightTemperature = 0.7
)

type InsightService interface {
	// GenerateInsight runs the focus selector over the profile, recent
	// logs and previous insight categories, calls the model chain, and
	// persists the result.
	GenerateInsight(ctx context.Context, userID uuid.UUID) (*model.Insight, error)
	ListInsights(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Insight, error)
}

type insightService struct {
	db          *gorm.DB
	profileRepo repository.ProfileRepository
	logRepo     repository.DailyLogRepository
	insightRepo repository.InsightRepository
	client      llm.Client
	cfg         *config.Config
}

func NewInsightService(db *gorm.DB, profileRepo repository.ProfileRepository, logRepo repository.DailyLogRepository, insightRepo repository.InsightRepository, client llm.Client, cfg *config.Config) InsightService {
	return &insightService{
		db:          db,
		profileRepo: profileRepo,
		logRepo:     logRepo,
		insightRepo: insightRepo,
		client:      client,
		cfg:         cfg,
	}
}

func (s *insightService) GenerateInsight(ctx context.Context, userID uuid.UUID) (*model.Insight, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String())

	profile, err := s.profileRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("PROFILE_NOT_FOUND", "Complete your intake before requesting insights.", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}

	logs, err := s.logRepo.FindRecent(ctx, s.db, userID, s.cfg.App.TrendWindowDays)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}

	previous, err := s.insightRepo.FindRecent(ctx, s.db, userID, s.cfg.App.InsightHistory)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}

	recent := make([]model.InsightCategory, 0, len(previous))
	logValues := make([]model.DailyLog, 0, len(logs))
	for _, p := range previous {
		recent = append(recent, p.Category)
	}
	for _, l := range logs {
		logValues = append(logValues, *l)
	}

	sel := coach.SelectFocus(profile, logValues, recent)
	prompt := coach.BuildInsightPrompt(profile, sel)

	body, modelUsed, err := generateWithFallback(ctx, s.client, s.cfg, prompt, insightMaxTokens, insightTemperature)
	if err != nil {
		logger.Error("All generation models failed", "error", err)
		return nil, model.NewAppError("GENERATION_FAILED", "We could not generate an insight right now. Please try again later.", "", model.ErrGenerationFailed)
	}

	insight := &model.Insight{
		InsightID:  uuid.New(),
		UserID:     userID,
		Body:       body,
		Category:   sel.Category,
		FocusArea:  sel.FocusArea,
		TrendNotes: sel.TrendNotes,
		DataPoints: sel.DataPoints,
		ModelUsed:  modelUsed,
	}
	err = withRetry(ctx, "insight.Create", func() error {
		return s.insightRepo.Create(ctx, s.db, insight)
	})
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "The insight was generated but could not be saved.", "", err)
	}

	logger.Info("Insight generated", "category", sel.Category, "model", modelUsed, "data_points", sel.DataPoints)
	return insight, nil
}

func (s *insightService) ListInsights(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Insight, error) {
	insights, err := s.insightRepo.FindRecent(ctx, s.db, userID, limit)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}
	return insights, nil
}
