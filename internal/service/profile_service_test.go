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
)

func ptrInt(v int) *int { return &v }

func ptrBool(v bool) *bool { return &v }

func ptrStr(v string) *string { return &v }

func ptrFloat(v float64) *float64 { return &v }

// stagePayloads returns a valid submission for every stage index.
func stagePayloads() map[int]model.StagePayload {
	return map[int]model.StagePayload{
		0: &model.ConsentStageRequest{Consent: ptrBool(true)},
		1: &model.BasicInfoStageRequest{Name: "Alex", Age: ptrInt(34), Role: "parent"},
		2: &model.PartnerStageRequest{SpouseRating: ptrInt(6)},
		3: &model.ChildrenStageRequest{ChildrenRating: ptrInt(8)},
		4: &model.HealthStageRequest{HealthRating: ptrInt(5)},
		5: &model.StressStageRequest{StressLevel: ptrInt(7)},
		6: &model.RoutineStageRequest{Routine: "morning walk, shared dinner"},
		7: &model.EventsStageRequest{UpcomingEvents: []string{"school play"}},
		8: &model.VisionStageRequest{LongTermGoal: "more patience", FamilyValues: "honesty"},
		9: &model.PreferencesStageRequest{NotifyChannel: "email", DataDeletionAck: ptrBool(true)},
	}
}

func newProfileService(t *testing.T) (ProfileService, uuid.UUID) {
	db := setupTestDB(t)
	return NewProfileService(db, repository.NewGormProfileRepository()), uuid.New()
}

func Test_profileService_FullWizardWalk(t *testing.T) {
	ctx := context.Background()
	svc, userID := newProfileService(t)
	payloads := stagePayloads()

	for index := 0; index <= 9; index++ {
		resp, err := svc.SubmitStage(ctx, userID, index, payloads[index])
		require.NoError(t, err, "stage %d", index)
		assert.Equal(t, index, resp.CompletedStages, "stage %d", index)

		if index == 4 {
			assert.True(t, resp.MidpointPrompt)
			assert.Equal(t, 4, resp.NextStage, "transition suspended at the midpoint")
			mid, err := svc.ResolveMidpoint(ctx, userID, true)
			require.NoError(t, err)
			assert.Equal(t, 5, mid.NextStage)
		} else {
			assert.False(t, resp.MidpointPrompt)
		}

		if index < 9 {
			assert.False(t, resp.IsComplete, "stage %d", index)
		}
	}

	profile, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 9, profile.CompletedStages)
	assert.True(t, profile.IsComplete)
	assert.True(t, profile.MidpointShown)
}

func Test_profileService_MidpointShownOnlyOnce(t *testing.T) {
	ctx := context.Background()
	svc, userID := newProfileService(t)
	payloads := stagePayloads()

	for index := 0; index <= 4; index++ {
		_, err := svc.SubmitStage(ctx, userID, index, payloads[index])
		require.NoError(t, err)
	}
	_, err := svc.ResolveMidpoint(ctx, userID, true)
	require.NoError(t, err)

	// The user navigates back and resubmits stage 4: no second prompt.
	resp, err := svc.SubmitStage(ctx, userID, 4, payloads[4])
	require.NoError(t, err)
	assert.False(t, resp.MidpointPrompt)
	assert.Equal(t, 5, resp.NextStage)
	assert.Equal(t, 4, resp.CompletedStages, "resubmission does not lower progress")
}

func Test_profileService_MidpointFinishLater(t *testing.T) {
	ctx := context.Background()
	svc, userID := newProfileService(t)
	payloads := stagePayloads()

	for index := 0; index <= 4; index++ {
		_, err := svc.SubmitStage(ctx, userID, index, payloads[index])
		require.NoError(t, err)
	}

	resp, err := svc.ResolveMidpoint(ctx, userID, false)
	require.NoError(t, err)
	assert.False(t, resp.IsComplete)
	assert.Equal(t, 4, resp.CompletedStages, "progress is kept")

	profile, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.True(t, profile.MidpointShown)
}

func Test_profileService_OutOfOrderRejected(t *testing.T) {
	ctx := context.Background()
	svc, userID := newProfileService(t)
	payloads := stagePayloads()

	_, err := svc.SubmitStage(ctx, userID, 0, payloads[0])
	require.NoError(t, err)

	_, err = svc.SubmitStage(ctx, userID, 5, payloads[5])
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	// Progress untouched.
	profile, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.CompletedStages)
}

func Test_profileService_CompletedStagesNeverDecreases(t *testing.T) {
	ctx := context.Background()
	svc, userID := newProfileService(t)
	payloads := stagePayloads()

	for index := 0; index <= 6; index++ {
		_, err := svc.SubmitStage(ctx, userID, index, payloads[index])
		require.NoError(t, err)
		if index == 4 {
			_, err = svc.ResolveMidpoint(ctx, userID, true)
			require.NoError(t, err)
		}
	}

	// A late autosave for an earlier stage must not roll progress back.
	err := svc.Autosave(ctx, userID, &model.ProfileDraft{Name: ptrStr("Alexandra")})
	require.NoError(t, err)

	resp, err := svc.SubmitStage(ctx, userID, 2, payloads[2])
	require.NoError(t, err)
	assert.Equal(t, 6, resp.CompletedStages)

	profile, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 6, profile.CompletedStages)
	assert.Equal(t, "Alexandra", profile.Name)
}

func Test_profileService_DraftRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, userID := newProfileService(t)

	draft := &model.ProfileDraft{
		Name:           ptrStr("Sam"),
		Age:            ptrInt(41),
		Role:           ptrStr("parent"),
		SpouseRating:   ptrInt(4),
		StressLevel:    ptrInt(8),
		Routine:        ptrStr("evening run"),
		UpcomingEvents: []string{"birthday", "recital"},
		NotifyChannel:  ptrStr("app"),
	}
	require.NoError(t, svc.Autosave(ctx, userID, draft))

	profile, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", profile.Name)
	assert.Equal(t, 41, *profile.Age)
	assert.Equal(t, "parent", profile.Role)
	assert.Equal(t, 4, *profile.SpouseRating)
	assert.Equal(t, 8, *profile.StressLevel)
	assert.Equal(t, "evening run", profile.Routine)
	assert.Equal(t, model.StringList{"birthday", "recital"}, profile.UpcomingEvents)
	assert.Equal(t, "app", profile.NotifyChannel)
	assert.Equal(t, 0, profile.CompletedStages, "autosave never advances the wizard")
}

func Test_profileService_GetProfileNotFound(t *testing.T) {
	ctx := context.Background()
	svc, userID := newProfileService(t)

	_, err := svc.GetProfile(ctx, userID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}
