package coach

import (
	"famcoach/internal/model"
)

// StageDescriptor declares one intake stage: its index, a short name
// used in logs, and a factory for the typed submission payload the
// handler decodes the request body into.
type StageDescriptor struct {
	Index int
	Name  string
	New   func() model.StagePayload
}

// Stages is the intake wizard in order. Stage 10 is terminal and has no
// descriptor: nothing is submitted to it.
var Stages = []StageDescriptor{
	{Index: 0, Name: "consent", New: func() model.StagePayload { return &model.ConsentStageRequest{} }},
	{Index: 1, Name: "basic_info", New: func() model.StagePayload { return &model.BasicInfoStageRequest{} }},
	{Index: 2, Name: "partner", New: func() model.StagePayload { return &model.PartnerStageRequest{} }},
	{Index: 3, Name: "children", New: func() model.StagePayload { return &model.ChildrenStageRequest{} }},
	{Index: 4, Name: "health", New: func() model.StagePayload { return &model.HealthStageRequest{} }},
	{Index: 5, Name: "stress", New: func() model.StagePayload { return &model.StressStageRequest{} }},
	{Index: 6, Name: "routine", New: func() model.StagePayload { return &model.RoutineStageRequest{} }},
	{Index: 7, Name: "events", New: func() model.StagePayload { return &model.EventsStageRequest{} }},
	{Index: 8, Name: "vision", New: func() model.StagePayload { return &model.VisionStageRequest{} }},
	{Index: 9, Name: "preferences", New: func() model.StagePayload { return &model.PreferencesStageRequest{} }},
}

// StageByIndex returns the descriptor for index, or nil when index is
// outside the submittable range.
func StageByIndex(index int) *StageDescriptor {
	if index < 0 || index >= len(Stages) {
		return nil
	}
	return &Stages[index]
}

// MidpointStage is the stage whose completion triggers the one-time
// midpoint prompt.
const MidpointStage = 4

// NextStage computes the stage the client should show after a
// successful submission of index. Leaving the midpoint stage with the
// prompt not yet shown suspends the transition: the client stays put
// until the prompt is resolved.
func NextStage(index int, midpointShown bool) (next int, midpointPrompt bool) {
	if index == MidpointStage && !midpointShown {
		return index, true
	}
	if index >= model.StagePreferences {
		return model.StageComplete, false
	}
	return index + 1, false
}

// CanSubmit enforces the out-of-order guard: a user may resubmit any
// completed stage or move one past their furthest progress, never skip
// ahead.
func CanSubmit(index, completedStages int) bool {
	return index <= completedStages+1
}
