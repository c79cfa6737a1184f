package service

import (
	"context"
	"time"

	"famcoach/internal/middleware"
	"famcoach/internal/model"
	"famcoach/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LogService interface {
	// UpsertLog writes (or overwrites) the user's log for date. The
	// second write for the same day replaces the first.
	UpsertLog(ctx context.Context, userID uuid.UUID, date time.Time, req *model.UpsertDailyLogRequest) (*model.DailyLog, error)
	ListLogs(ctx context.Context, userID uuid.UUID, limit int) ([]*model.DailyLog, error)
}

type logService struct {
	db      *gorm.DB
	logRepo repository.DailyLogRepository
}

func NewLogService(db *gorm.DB, logRepo repository.DailyLogRepository) LogService {
	return &logService{
		db:      db,
		logRepo: logRepo,
	}
}

func (s *logService) UpsertLog(ctx context.Context, userID uuid.UUID, date time.Time, req *model.UpsertDailyLogRequest) (*model.DailyLog, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String(), "log_date", date.Format("2006-01-02"))

	entry := &model.DailyLog{
		LogID:       uuid.New(),
		UserID:      userID,
		LogDate:     date,
		SleepHours:  *req.SleepHours,
		ExerciseMin: *req.ExerciseMin,
		QualityTime: *req.QualityTime,
		Mood:        *req.Mood,
		Notes:       req.Notes,
	}

	err := withRetry(ctx, "log.Upsert", func() error {
		return s.logRepo.Upsert(ctx, s.db, entry)
	})
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "We could not save your log. Please try again.", "", err)
	}

	stored, err := s.logRepo.FindByDate(ctx, s.db, userID, date)
	if err != nil {
		logger.Error("Failed to read back upserted log", "error", err)
		return entry, nil
	}

	logger.Info("Daily log saved")
	return stored, nil
}

func (s *logService) ListLogs(ctx context.Context, userID uuid.UUID, limit int) ([]*model.DailyLog, error) {
	logs, err := s.logRepo.FindRecent(ctx, s.db, userID, limit)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}
	return logs, nil
}
