package model

import (
	"time"

	"github.com/google/uuid"
)

// LoginCode is a single-use email one-time code. Only the bcrypt hash of
// the code is stored.
type LoginCode struct {
	CodeID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CodeHash  string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Consumed  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (LoginCode) TableName() string {
	return "login_codes"
}

// RequestCodeRequest starts the one-time-code flow.
type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=100"`
}

// VerifyCodeRequest exchanges a code for a session token.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// SessionResponse is returned on successful verification.
type SessionResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}
