package repository

import (
	"context"
	"fmt"

	"famcoach/internal/middleware"
	"famcoach/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(ctx context.Context, tx *gorm.DB, message *model.ChatMessage) error
	// FindRecent returns up to limit pairs, newest first.
	FindRecent(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.ChatMessage, error)
}

type gormChatRepository struct{}

func NewGormChatRepository() ChatRepository {
	return &gormChatRepository{}
}

func (r *gormChatRepository) Create(ctx context.Context, tx *gorm.DB, message *model.ChatMessage) error {
	logger := middleware.GetLogger(ctx)
	if err := tx.WithContext(ctx).Create(message).Error; err != nil {
		logger.Error("Error creating chat message in DB",
			"error", err,
			"user_id", message.UserID.String(),
		)
		return fmt.Errorf("gormChatRepository.Create: %w", err)
	}
	return nil
}

func (r *gormChatRepository) FindRecent(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.ChatMessage, error) {
	logger := middleware.GetLogger(ctx)
	var messages []*model.ChatMessage
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages)
	if result.Error != nil {
		logger.Error("Error finding chat history in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormChatRepository.FindRecent: %w", result.Error)
	}
	return messages, nil
}
