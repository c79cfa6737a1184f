package service

import (
	"context"
	"errors"
	"testing"

	"famcoach/internal/model"
	"famcoach/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProfile(t *testing.T, db *gorm.DB, userID uuid.UUID, mutate func(*model.Profile)) {
	t.Helper()
	profile := &model.Profile{
		ProfileID:       uuid.New(),
		UserID:          userID,
		Name:            "Alex",
		CompletedStages: 9,
		IsComplete:      true,
	}
	if mutate != nil {
		mutate(profile)
	}
	require.NoError(t, db.Create(profile).Error)
}

func Test_insightService_GenerateAndPersist(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cfg := testConfig()
	userID := uuid.New()
	seedProfile(t, db, userID, func(p *model.Profile) {
		p.SpouseRating = ptrInt(3)
		p.ChildrenRating = ptrInt(8)
		p.HealthRating = ptrInt(8)
		p.StressLevel = ptrInt(4)
	})

	llmFake := &fakeLLM{responses: map[string]string{"model-a": "Plan a short walk together tonight."}}
	svc := NewInsightService(db, repository.NewGormProfileRepository(), repository.NewGormDailyLogRepository(), repository.NewGormInsightRepository(), llmFake, cfg)

	insight, err := svc.GenerateInsight(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryRelationship, insight.Category)
	assert.Equal(t, "Plan a short walk together tonight.", insight.Body)
	assert.Equal(t, "model-a", insight.ModelUsed)
	assert.Equal(t, 0, insight.DataPoints)

	stored, err := svc.ListInsights(ctx, userID, 5)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, insight.InsightID, stored[0].InsightID)
}

func Test_insightService_FallbackChain(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cfg := testConfig()
	userID := uuid.New()
	seedProfile(t, db, userID, nil)

	// Primary and first alternate fail; the second alternate answers.
	llmFake := &fakeLLM{responses: map[string]string{"model-c": "Take five quiet minutes for yourself."}}
	svc := NewInsightService(db, repository.NewGormProfileRepository(), repository.NewGormDailyLogRepository(), repository.NewGormInsightRepository(), llmFake, cfg)

	insight, err := svc.GenerateInsight(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "model-c", insight.ModelUsed)
	assert.Equal(t, 3, llmFake.callCount())
}

func Test_insightService_AllModelsFail(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cfg := testConfig()
	userID := uuid.New()
	seedProfile(t, db, userID, nil)

	llmFake := &fakeLLM{failAll: true}
	svc := NewInsightService(db, repository.NewGormProfileRepository(), repository.NewGormDailyLogRepository(), repository.NewGormInsightRepository(), llmFake, cfg)

	_, err := svc.GenerateInsight(ctx, userID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrGenerationFailed))
	assert.Equal(t, 3, llmFake.callCount())

	// Nothing persisted on failure.
	insights, err := svc.ListInsights(ctx, userID, 5)
	require.NoError(t, err)
	assert.Empty(t, insights)
}

func Test_insightService_RequiresProfile(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cfg := testConfig()

	llmFake := &fakeLLM{responses: map[string]string{"model-a": "text"}}
	svc := NewInsightService(db, repository.NewGormProfileRepository(), repository.NewGormDailyLogRepository(), repository.NewGormInsightRepository(), llmFake, cfg)

	_, err := svc.GenerateInsight(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.Equal(t, 0, llmFake.callCount(), "no generation without a profile")
}

func Test_insightService_RotationAcrossCalls(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cfg := testConfig()
	userID := uuid.New()
	// Two comparable deficits: partner 4 (priority 6) and health 5
	// (priority 5).
	seedProfile(t, db, userID, func(p *model.Profile) {
		p.SpouseRating = ptrInt(4)
		p.HealthRating = ptrInt(5)
	})

	llmFake := &fakeLLM{responses: map[string]string{"model-a": "insight text"}}
	svc := NewInsightService(db, repository.NewGormProfileRepository(), repository.NewGormDailyLogRepository(), repository.NewGormInsightRepository(), llmFake, cfg)

	first, err := svc.GenerateInsight(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryRelationship, first.Category)

	// Relationship is now recent; wellness is comparable and fresh.
	second, err := svc.GenerateInsight(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryWellness, second.Category)
}
