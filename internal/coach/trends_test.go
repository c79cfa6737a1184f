package coach

import (
	"testing"

	"famcoach/internal/model"

	"github.com/stretchr/testify/assert"
)

func logsWithSleep(hours ...float64) []model.DailyLog {
	logs := make([]model.DailyLog, len(hours))
	for i, h := range hours {
		logs[i] = model.DailyLog{SleepHours: h, Mood: 5, ExerciseMin: 30}
	}
	return logs
}

func TestComputeTrends_SleepConsistency(t *testing.T) {
	tests := []struct {
		name  string
		sleep []float64
		want  string
	}{
		{
			name:  "identical readings are very consistent",
			sleep: []float64{7, 7, 7, 7},
			want:  LabelVeryConsistent,
		},
		{
			name:  "wild swings are inconsistent",
			sleep: []float64{7, 2, 8, 1},
			want:  LabelInconsistent,
		},
		{
			name:  "moderate drift is consistent",
			sleep: []float64{7, 8, 6.5, 7.5},
			want:  LabelConsistent,
		},
		{
			name:  "two readings are insufficient",
			sleep: []float64{7, 7},
			want:  LabelInsufficientData,
		},
		{
			name:  "no readings are insufficient",
			sleep: nil,
			want:  LabelInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trends := ComputeTrends(logsWithSleep(tt.sleep...))
			assert.Equal(t, tt.want, trends.SleepConsistency)
		})
	}
}

func TestComputeTrends_Means(t *testing.T) {
	logs := []model.DailyLog{
		{SleepHours: 6, Mood: 4, ExerciseMin: 0},
		{SleepHours: 8, Mood: 6, ExerciseMin: 60},
		{SleepHours: 7, Mood: 5, ExerciseMin: 30},
	}

	trends := ComputeTrends(logs)

	assert.Equal(t, 3, trends.DataPoints)
	assert.InDelta(t, 7.0, trends.AvgSleepHours, 0.001)
	assert.InDelta(t, 5.0, trends.AvgMood, 0.001)
	assert.InDelta(t, 30.0, trends.AvgExerciseMin, 0.001)
}

func TestComputeTrends_MoodVariability(t *testing.T) {
	tests := []struct {
		name  string
		moods []int
		want  string
	}{
		{name: "flat mood is very stable", moods: []int{6, 6, 6, 6}, want: LabelVeryStable},
		{name: "moderate swings are stable", moods: []int{4, 6, 8, 6}, want: LabelStable},
		{name: "small drift is very stable", moods: []int{5, 6, 7, 6}, want: LabelVeryStable},
		{name: "large swings are variable", moods: []int{2, 9, 3, 8}, want: LabelVariable},
		{name: "two points insufficient", moods: []int{5, 9}, want: LabelInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := make([]model.DailyLog, len(tt.moods))
			for i, m := range tt.moods {
				logs[i] = model.DailyLog{SleepHours: 7, Mood: m}
			}
			trends := ComputeTrends(logs)
			assert.Equal(t, tt.want, trends.MoodVariability)
		})
	}
}

func TestTrends_Summary(t *testing.T) {
	assert.Equal(t, "no recent activity data", ComputeTrends(nil).Summary())

	trends := ComputeTrends([]model.DailyLog{
		{SleepHours: 7, Mood: 6, ExerciseMin: 20},
		{SleepHours: 7, Mood: 6, ExerciseMin: 20},
		{SleepHours: 7, Mood: 6, ExerciseMin: 20},
	})
	summary := trends.Summary()
	assert.Contains(t, summary, "avg sleep 7.0h")
	assert.Contains(t, summary, LabelVeryConsistent)
	assert.Contains(t, summary, LabelVeryStable)
}
