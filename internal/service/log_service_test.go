package service

import (
	"context"
	"testing"
	"time"

	"famcoach/internal/model"
	"famcoach/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_logService_UpsertOverwritesSameDay(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewLogService(db, repository.NewGormDailyLogRepository())
	userID := uuid.New()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	first, err := svc.UpsertLog(ctx, userID, day, &model.UpsertDailyLogRequest{
		SleepHours:  ptrFloat(6.5),
		ExerciseMin: ptrInt(0),
		QualityTime: ptrBool(false),
		Mood:        ptrInt(4),
		Notes:       "rough night",
	})
	require.NoError(t, err)
	assert.Equal(t, 6.5, first.SleepHours)

	second, err := svc.UpsertLog(ctx, userID, day, &model.UpsertDailyLogRequest{
		SleepHours:  ptrFloat(7.5),
		ExerciseMin: ptrInt(30),
		QualityTime: ptrBool(true),
		Mood:        ptrInt(7),
	})
	require.NoError(t, err)
	assert.Equal(t, 7.5, second.SleepHours)
	assert.Equal(t, 30, second.ExerciseMin)

	// One row per day.
	logs, err := svc.ListLogs(ctx, userID, 14)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 7.5, logs[0].SleepHours)
	assert.Equal(t, 7, logs[0].Mood)
}

func Test_logService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewLogService(db, repository.NewGormDailyLogRepository())
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		_, err := svc.UpsertLog(ctx, userID, day, &model.UpsertDailyLogRequest{
			SleepHours:  ptrFloat(7),
			ExerciseMin: ptrInt(i * 10),
			QualityTime: ptrBool(true),
			Mood:        ptrInt(6),
		})
		require.NoError(t, err)
	}

	logs, err := svc.ListLogs(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, 40, logs[0].ExerciseMin, "newest first")
	assert.True(t, logs[0].LogDate.After(logs[1].LogDate))
}
