// Package coach holds the pure decision logic behind the intake wizard
// and insight generation: stage descriptors, trend summaries, and the
// focus selector. Nothing here touches the database or the network.
package coach

import (
	"fmt"
	"math"

	"famcoach/internal/model"
)

// Consistency labels derived from the mean absolute delta between
// consecutive readings of one metric.
const (
	LabelVeryConsistent   = "very consistent"
	LabelConsistent       = "consistent"
	LabelInconsistent     = "inconsistent"
	LabelInsufficientData = "insufficient data"
)

// Mood variability labels derived from the standard deviation.
const (
	LabelVeryStable = "very stable"
	LabelStable     = "stable"
	LabelVariable   = "variable"
)

// Trends summarizes a window of daily logs for the selector and the
// generation prompt.
type Trends struct {
	DataPoints int

	AvgSleepHours  float64
	AvgMood        float64
	AvgExerciseMin float64

	SleepConsistency    string
	ExerciseConsistency string
	MoodVariability     string
}

// ComputeTrends reduces recent daily logs to means and qualitative
// labels. Order of the input does not matter for the means; consistency
// labels compare consecutive readings, so logs are expected in date
// order (either direction works, absolute deltas are symmetric).
func ComputeTrends(logs []model.DailyLog) Trends {
	t := Trends{DataPoints: len(logs)}
	if len(logs) == 0 {
		t.SleepConsistency = LabelInsufficientData
		t.ExerciseConsistency = LabelInsufficientData
		t.MoodVariability = LabelInsufficientData
		return t
	}

	sleep := make([]float64, len(logs))
	mood := make([]float64, len(logs))
	exercise := make([]float64, len(logs))
	for i, l := range logs {
		sleep[i] = l.SleepHours
		mood[i] = float64(l.Mood)
		exercise[i] = float64(l.ExerciseMin)
	}

	t.AvgSleepHours = mean(sleep)
	t.AvgMood = mean(mood)
	t.AvgExerciseMin = mean(exercise)

	t.SleepConsistency = consistencyLabel(sleep)
	t.ExerciseConsistency = consistencyLabel(exercise)
	t.MoodVariability = variabilityLabel(mood)
	return t
}

// Summary renders the trends as a short sentence for the prompt.
func (t Trends) Summary() string {
	if t.DataPoints == 0 {
		return "no recent activity data"
	}
	return fmt.Sprintf(
		"over the last %d days: avg sleep %.1fh (%s), avg mood %.1f/10 (%s), avg exercise %.0f min/day (%s)",
		t.DataPoints, t.AvgSleepHours, t.SleepConsistency,
		t.AvgMood, t.MoodVariability,
		t.AvgExerciseMin, t.ExerciseConsistency,
	)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// consistencyLabel averages the absolute difference between consecutive
// readings. Fewer than 3 readings is too little to call either way.
func consistencyLabel(xs []float64) string {
	if len(xs) < 3 {
		return LabelInsufficientData
	}
	var sum float64
	for i := 1; i < len(xs); i++ {
		sum += math.Abs(xs[i] - xs[i-1])
	}
	meanDelta := sum / float64(len(xs)-1)
	switch {
	case meanDelta < 1:
		return LabelVeryConsistent
	case meanDelta < 2:
		return LabelConsistent
	default:
		return LabelInconsistent
	}
}

func variabilityLabel(xs []float64) string {
	if len(xs) < 3 {
		return LabelInsufficientData
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	sd := math.Sqrt(sum / float64(len(xs)))
	switch {
	case sd < 1:
		return LabelVeryStable
	case sd < 2:
		return LabelStable
	default:
		return LabelVariable
	}
}
