package model

import (
	"time"

	"github.com/google/uuid"
)

// AIUsage tracks generation-assist consumption, one row per user.
// DailyCount resets whenever LastUsedOn is not today; the check and the
// increment happen in a single guarded UPDATE so concurrent requests
// cannot overspend the allowance.
type AIUsage struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	LifetimeCount int       `gorm:"not null;default:0" json:"lifetime_count"`
	DailyCount    int       `gorm:"not null;default:0" json:"daily_count"`
	LastUsedOn    time.Time `gorm:"type:date" json:"last_used_on"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (AIUsage) TableName() string {
	return "ai_usage"
}

// UsageResponse reports current consumption against the daily ceiling.
type UsageResponse struct {
	DailyCount    int `json:"daily_count"`
	DailyLimit    int `json:"daily_limit"`
	Remaining     int `json:"remaining"`
	LifetimeCount int `json:"lifetime_count"`
}
