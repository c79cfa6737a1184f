package model

import (
	"time"

	"github.com/google/uuid"
)

// DailyLog is one activity record per user per calendar day, upserted on
// the (user_id, log_date) pair.
type DailyLog struct {
	LogID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"log_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_user_date" json:"-"`
	LogDate     time.Time `gorm:"type:date;not null;uniqueIndex:uidx_user_date" json:"log_date"`
	SleepHours  float64   `json:"sleep_hours"`
	ExerciseMin int       `json:"exercise_minutes"`
	QualityTime bool      `json:"quality_time"`
	Mood        int       `json:"mood"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DailyLog) TableName() string {
	return "daily_logs"
}

// UpsertDailyLogRequest writes (or overwrites) a day's log.
type UpsertDailyLogRequest struct {
	SleepHours  *float64 `json:"sleep_hours" validate:"required,min=0,max=24"`
	ExerciseMin *int     `json:"exercise_minutes" validate:"required,min=0,max=1440"`
	QualityTime *bool    `json:"quality_time" validate:"required"`
	Mood        *int     `json:"mood" validate:"required,min=1,max=10"`
	Notes       string   `json:"notes" validate:"max=2000"`
}
