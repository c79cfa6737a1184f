package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one user message / assistant reply pair, optionally
// anchored to an insight. Immutable once created.
type ChatMessage struct {
	MessageID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"message_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	InsightID *uuid.UUID `gorm:"type:uuid;index" json:"insight_id,omitempty"`
	UserText  string     `gorm:"not null" json:"user_text"`
	Reply     string     `gorm:"not null" json:"reply"`
	ModelUsed string     `json:"model_used"`
	CreatedAt time.Time  `json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ChatRequest asks the assistant about an insight (or the profile in
// general when no insight is referenced).
type ChatRequest struct {
	Message   string     `json:"message" validate:"required,max=2000"`
	InsightID *uuid.UUID `json:"insight_id,omitempty"`
}

// AssistRequest asks for a suggestion for one intake form field.
type AssistRequest struct {
	Field   string `json:"field" validate:"required,max=100"`
	Context string `json:"context" validate:"max=2000"`
}

// AssistResponse carries the suggestion plus the quota remainder.
type AssistResponse struct {
	Suggestion string `json:"suggestion"`
	Remaining  int    `json:"remaining"`
}
