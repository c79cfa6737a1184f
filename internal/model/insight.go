package model

import (
	"time"

	"github.com/google/uuid"
)

// InsightCategory is the fixed enumeration of coaching topics.
type InsightCategory string

const (
	CategoryRelationship    InsightCategory = "relationship"
	CategoryParenting       InsightCategory = "parenting"
	CategoryWellness        InsightCategory = "wellness"
	CategoryMindset         InsightCategory = "mindset"
	CategoryGoalAchievement InsightCategory = "goal-achievement"
	CategoryWorkLifeBalance InsightCategory = "work-life-balance"
	CategoryDailyHabit      InsightCategory = "daily-habit"
	CategoryGeneralGrowth   InsightCategory = "general-growth"
)

// ValidCategory reports whether c is in the fixed enumeration.
func ValidCategory(c InsightCategory) bool {
	switch c {
	case CategoryRelationship, CategoryParenting, CategoryWellness,
		CategoryMindset, CategoryGoalAchievement, CategoryWorkLifeBalance,
		CategoryDailyHabit, CategoryGeneralGrowth:
		return true
	}
	return false
}

// Insight is one generated coaching tip. Immutable once created.
type Insight struct {
	InsightID  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"insight_id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Body       string          `gorm:"not null" json:"body"`
	Category   InsightCategory `gorm:"type:varchar(32);not null" json:"category"`
	FocusArea  string          `gorm:"not null" json:"focus_area"`
	TrendNotes string          `json:"trend_notes"`
	DataPoints int             `json:"data_points"`
	ModelUsed  string          `json:"model_used"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (Insight) TableName() string {
	return "insights"
}
