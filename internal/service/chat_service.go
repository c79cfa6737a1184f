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

// Generation parameters for chat replies, and how many prior exchanges
// are replayed into the prompt.
const (
	chatMaxTokens     = 300
	chatTemperature   = 0.8
	chatHistoryWindow = 6
)

type ChatService interface {
	// SendMessage generates a coach reply, optionally anchored to one of
	// the user's insights, and persists the exchange.
	SendMessage(ctx context.Context, userID uuid.UUID, req *model.ChatRequest) (*model.ChatMessage, error)
	ListMessages(ctx context.Context, userID uuid.UUID, limit int) ([]*model.ChatMessage, error)
}

type chatService struct {
	db          *gorm.DB
	profileRepo repository.ProfileRepository
	insightRepo repository.InsightRepository
	chatRepo    repository.ChatRepository
	client      llm.Client
	cfg         *config.Config
}

func NewChatService(db *gorm.DB, profileRepo repository.ProfileRepository, insightRepo repository.InsightRepository, chatRepo repository.ChatRepository, client llm.Client, cfg *config.Config) ChatService {
	return &chatService{
		db:          db,
		profileRepo: profileRepo,
		insightRepo: insightRepo,
		chatRepo:    chatRepo,
		client:      client,
		cfg:         cfg,
	}
}

func (s *chatService) SendMessage(ctx context.Context, userID uuid.UUID, req *model.ChatRequest) (*model.ChatMessage, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String())

	profile, err := s.profileRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("PROFILE_NOT_FOUND", "Complete your intake before chatting with your coach.", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}

	var insight *model.Insight
	if req.InsightID != nil {
		insight, err = s.insightRepo.FindByID(ctx, s.db, userID, *req.InsightID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, model.NewAppError("INSIGHT_NOT_FOUND", "That insight could not be found.", "insight_id", model.ErrNotFound)
			}
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
		}
	}

	history, err := s.chatRepo.FindRecent(ctx, s.db, userID, chatHistoryWindow)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}
	historyValues := make([]model.ChatMessage, 0, len(history))
	for _, m := range history {
		historyValues = append(historyValues, *m)
	}

	prompt := coach.BuildChatPrompt(profile, insight, historyValues, req.Message)
	reply, modelUsed, err := generateWithFallback(ctx, s.client, s.cfg, prompt, chatMaxTokens, chatTemperature)
	if err != nil {
		logger.Error("Chat generation failed on all models", "error", err)
		return nil, model.NewAppError("GENERATION_FAILED", "Your coach is unavailable right now. Please try again later.", "", model.ErrGenerationFailed)
	}

	message := &model.ChatMessage{
		MessageID: uuid.New(),
		UserID:    userID,
		InsightID: req.InsightID,
		UserText:  req.Message,
		Reply:     reply,
		ModelUsed: modelUsed,
	}
	err = withRetry(ctx, "chat.Create", func() error {
		return s.chatRepo.Create(ctx, s.db, message)
	})
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "The reply was generated but could not be saved.", "", err)
	}

	logger.Info("Chat reply generated", "model", modelUsed)
	return message, nil
}

func (s *chatService) ListMessages(ctx context.Context, userID uuid.UUID, limit int) ([]*model.ChatMessage, error) {
	messages, err := s.chatRepo.FindRecent(ctx, s.db, userID, limit)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}
	return messages, nil
}
