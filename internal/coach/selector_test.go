package coach

import (
	"testing"

	"famcoach/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		profile       *model.Profile
		wantTop       model.InsightCategory
		wantTopPrio   int
		wantLen       int
	}{
		{
			name: "all ratings good yields only the catch-all",
			profile: &model.Profile{
				SpouseRating:   intPtr(8),
				ChildrenRating: intPtr(9),
				HealthRating:   intPtr(7),
				StressLevel:    intPtr(4),
			},
			wantTop:     model.CategoryGeneralGrowth,
			wantTopPrio: 3,
			wantLen:     1,
		},
		{
			name: "low partner rating outranks the catch-all",
			profile: &model.Profile{
				SpouseRating:   intPtr(3),
				ChildrenRating: intPtr(8),
				HealthRating:   intPtr(8),
				StressLevel:    intPtr(4),
			},
			wantTop:     model.CategoryRelationship,
			wantTopPrio: 7,
			wantLen:     2,
		},
		{
			name: "high stress scores its own level",
			profile: &model.Profile{
				StressLevel: intPtr(9),
			},
			wantTop:     model.CategoryMindset,
			wantTopPrio: 9,
			wantLen:     2,
		},
		{
			name:        "missing ratings contribute nothing",
			profile:     &model.Profile{},
			wantTop:     model.CategoryGeneralGrowth,
			wantTopPrio: 3,
			wantLen:     1,
		},
		{
			name:        "nil profile still yields the catch-all",
			profile:     nil,
			wantTop:     model.CategoryGeneralGrowth,
			wantTopPrio: 3,
			wantLen:     1,
		},
		{
			name: "equal priorities break ties by category name",
			profile: &model.Profile{
				// Both rate 4, so both score 6: parenting sorts before
				// wellness alphabetically.
				ChildrenRating: intPtr(4),
				HealthRating:   intPtr(4),
			},
			wantTop:     model.CategoryParenting,
			wantTopPrio: 6,
			wantLen:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.profile)
			require.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantTop, got[0].Category)
			assert.Equal(t, tt.wantTopPrio, got[0].Priority)
			// The catch-all is always present and last or better.
			found := false
			for _, c := range got {
				if c.Category == model.CategoryGeneralGrowth {
					found = true
				}
			}
			assert.True(t, found, "catch-all candidate missing")
		})
	}
}

func TestClassify_ZeroRatingIsHighestPriority(t *testing.T) {
	got := Classify(&model.Profile{SpouseRating: intPtr(0)})
	require.NotEmpty(t, got)
	assert.Equal(t, model.CategoryRelationship, got[0].Category)
	assert.Equal(t, 10, got[0].Priority)
}

func TestPick_Rotation(t *testing.T) {
	relationship := Candidate{Category: model.CategoryRelationship, Priority: 7}
	wellness := Candidate{Category: model.CategoryWellness, Priority: 6}
	general := Candidate{Category: model.CategoryGeneralGrowth, Priority: 3}

	tests := []struct {
		name       string
		candidates []Candidate
		recent     []model.InsightCategory
		want       model.InsightCategory
	}{
		{
			name:       "fresh top candidate wins",
			candidates: []Candidate{relationship, wellness, general},
			recent:     nil,
			want:       model.CategoryRelationship,
		},
		{
			name:       "recently used top deflects to comparable fresh alternative",
			candidates: []Candidate{relationship, wellness, general},
			recent:     []model.InsightCategory{model.CategoryRelationship},
			want:       model.CategoryWellness,
		},
		{
			name:       "no comparable alternative keeps the top despite recency",
			candidates: []Candidate{relationship, general},
			recent:     []model.InsightCategory{model.CategoryRelationship},
			want:       model.CategoryRelationship,
		},
		{
			name:       "all recent falls back to least recently used",
			candidates: []Candidate{relationship, wellness, general},
			recent: []model.InsightCategory{
				model.CategoryWellness,
				model.CategoryGeneralGrowth,
				model.CategoryRelationship,
			},
			want: model.CategoryRelationship,
		},
		{
			name:       "only the last three of history count",
			candidates: []Candidate{relationship, wellness, general},
			recent: []model.InsightCategory{
				model.CategoryWellness,
				model.CategoryGeneralGrowth,
				model.CategoryMindset,
				model.CategoryRelationship,
			},
			want: model.CategoryRelationship,
		},
		{
			name:       "empty candidate list degrades to the catch-all",
			candidates: nil,
			recent:     nil,
			want:       model.CategoryGeneralGrowth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pick(tt.candidates, tt.recent)
			assert.Equal(t, tt.want, got.Category)
		})
	}
}

func TestSelectFocus_EndToEnd(t *testing.T) {
	profile := &model.Profile{
		SpouseRating:   intPtr(3),
		ChildrenRating: intPtr(8),
		HealthRating:   intPtr(8),
		StressLevel:    intPtr(4),
	}
	logs := []model.DailyLog{
		{SleepHours: 7, Mood: 6, ExerciseMin: 20},
		{SleepHours: 7, Mood: 6, ExerciseMin: 20},
		{SleepHours: 7, Mood: 6, ExerciseMin: 20},
	}

	// First call: relationship is the only deficit.
	sel := SelectFocus(profile, logs, nil)
	assert.Equal(t, model.CategoryRelationship, sel.Category)
	assert.Equal(t, 7, sel.Priority)
	assert.Equal(t, 3, sel.DataPoints)
	assert.Contains(t, sel.TrendNotes, "avg sleep 7.0h")

	// Second call with relationship now recent: the only alternative is
	// the catch-all at priority 3, outside the comparable band, so the
	// selector stays on relationship.
	sel = SelectFocus(profile, logs, []model.InsightCategory{model.CategoryRelationship})
	assert.Equal(t, model.CategoryRelationship, sel.Category)
}

func TestSelectFocus_NeverEmpty(t *testing.T) {
	sel := SelectFocus(nil, nil, nil)
	assert.Equal(t, model.CategoryGeneralGrowth, sel.Category)
	assert.NotEmpty(t, sel.FocusArea)
}
