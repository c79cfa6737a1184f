package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification channel preference values.
const (
	NotifyChannelEmail = "email"
	NotifyChannelApp   = "app"
	NotifyChannelNone  = "none"
)

// Intake stage bounds. Stage 0 is the consent form, 1-8 collect data,
// 9 is preferences/review, 10 is terminal.
const (
	StageConsent     = 0
	StagePreferences = 9
	StageComplete    = 10
)

// StringList is a JSON-serialized string slice column.
type StringList []string

// IntList is a JSON-serialized int slice column.
type IntList []int

// Profile is the accumulated intake record, one row per user. Writes are
// upserts keyed on UserID; CompletedStages only ever rises.
type Profile struct {
	ProfileID uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	ConsentGiven bool `json:"consent_given"`

	Name          string  `json:"name"`
	Age           *int    `json:"age"`
	Role          string  `json:"role"`
	PartnerName   string  `json:"partner_name"`
	ChildrenCount *int    `json:"children_count"`
	ChildrenAges  IntList `gorm:"serializer:json" json:"children_ages"`

	// Domain ratings, 0-10. Pointers so an unanswered rating stays
	// distinguishable from zero.
	SpouseRating   *int `json:"spouse_rating"`
	ChildrenRating *int `json:"children_rating"`
	HealthRating   *int `json:"health_rating"`
	StressLevel    *int `json:"stress_level"`

	SpouseReason   string `json:"spouse_reason"`
	SpouseGoal     string `json:"spouse_goal"`
	ChildrenReason string `json:"children_reason"`
	ChildrenGoal   string `json:"children_goal"`
	HealthReason   string `json:"health_reason"`
	HealthGoal     string `json:"health_goal"`
	StressReason   string `json:"stress_reason"`
	MindsetGoal    string `json:"mindset_goal"`

	Routine      string `json:"routine"`
	LongTermGoal string `json:"long_term_goal"`
	FamilyValues string `json:"family_values"`

	UpcomingEvents       StringList `gorm:"serializer:json" json:"upcoming_events"`
	MindfulnessPractices StringList `gorm:"serializer:json" json:"mindfulness_practices"`
	Wearables            StringList `gorm:"serializer:json" json:"wearables"`

	NotifyChannel   string `json:"notify_channel"`
	QuietHoursStart string `json:"quiet_hours_start"`
	QuietHoursEnd   string `json:"quiet_hours_end"`
	DataDeletionAck bool   `json:"data_deletion_ack"`

	CompletedStages int       `gorm:"not null;default:0" json:"completed_stages"`
	MidpointShown   bool      `gorm:"not null;default:false" json:"midpoint_shown"`
	IsComplete      bool      `gorm:"not null;default:false" json:"is_complete"`
	LastSaved       time.Time `json:"last_saved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// StagePayload is a validated stage submission that knows how to merge
// itself into the profile draft.
type StagePayload interface {
	Apply(p *Profile)
}

// --- Per-stage request DTOs ---

// Stage 0: consent/welcome.
type ConsentStageRequest struct {
	Consent *bool `json:"consent" validate:"required,eq=true"`
}

func (r *ConsentStageRequest) Apply(p *Profile) {
	p.ConsentGiven = *r.Consent
}

// Stage 1: basic info.
type BasicInfoStageRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Age           *int   `json:"age" validate:"required,min=16,max=120"`
	Role          string `json:"role" validate:"required,max=50"`
	PartnerName   string `json:"partner_name" validate:"max=100"`
	ChildrenCount *int   `json:"children_count" validate:"omitempty,min=0,max=20"`
	ChildrenAges  []int  `json:"children_ages" validate:"omitempty,max=20,dive,min=0,max=40"`
}

func (r *BasicInfoStageRequest) Apply(p *Profile) {
	p.Name = r.Name
	p.Age = r.Age
	p.Role = r.Role
	p.PartnerName = r.PartnerName
	p.ChildrenCount = r.ChildrenCount
	if r.ChildrenAges != nil {
		p.ChildrenAges = IntList(r.ChildrenAges)
	}
}

// Stage 2: relationship with partner.
type PartnerStageRequest struct {
	SpouseRating *int   `json:"spouse_rating" validate:"required,min=0,max=10"`
	SpouseReason string `json:"spouse_reason" validate:"max=2000"`
	SpouseGoal   string `json:"spouse_goal" validate:"max=2000"`
}

func (r *PartnerStageRequest) Apply(p *Profile) {
	p.SpouseRating = r.SpouseRating
	p.SpouseReason = r.SpouseReason
	p.SpouseGoal = r.SpouseGoal
}

// Stage 3: relationship with children.
type ChildrenStageRequest struct {
	ChildrenRating *int   `json:"children_rating" validate:"required,min=0,max=10"`
	ChildrenReason string `json:"children_reason" validate:"max=2000"`
	ChildrenGoal   string `json:"children_goal" validate:"max=2000"`
}

func (r *ChildrenStageRequest) Apply(p *Profile) {
	p.ChildrenRating = r.ChildrenRating
	p.ChildrenReason = r.ChildrenReason
	p.ChildrenGoal = r.ChildrenGoal
}

// Stage 4: health.
type HealthStageRequest struct {
	HealthRating *int   `json:"health_rating" validate:"required,min=0,max=10"`
	HealthReason string `json:"health_reason" validate:"max=2000"`
	HealthGoal   string `json:"health_goal" validate:"max=2000"`
}

func (r *HealthStageRequest) Apply(p *Profile) {
	p.HealthRating = r.HealthRating
	p.HealthReason = r.HealthReason
	p.HealthGoal = r.HealthGoal
}

// Stage 5: stress and mindset.
type StressStageRequest struct {
	StressLevel  *int   `json:"stress_level" validate:"required,min=0,max=10"`
	StressReason string `json:"stress_reason" validate:"max=2000"`
	MindsetGoal  string `json:"mindset_goal" validate:"max=2000"`
}

func (r *StressStageRequest) Apply(p *Profile) {
	p.StressLevel = r.StressLevel
	p.StressReason = r.StressReason
	p.MindsetGoal = r.MindsetGoal
}

// Stage 6: daily routine and practices.
type RoutineStageRequest struct {
	Routine              string   `json:"routine" validate:"required,max=4000"`
	MindfulnessPractices []string `json:"mindfulness_practices" validate:"omitempty,max=20,dive,max=100"`
	Wearables            []string `json:"wearables" validate:"omitempty,max=20,dive,max=100"`
}

func (r *RoutineStageRequest) Apply(p *Profile) {
	p.Routine = r.Routine
	if r.MindfulnessPractices != nil {
		p.MindfulnessPractices = StringList(r.MindfulnessPractices)
	}
	if r.Wearables != nil {
		p.Wearables = StringList(r.Wearables)
	}
}

// Stage 7: upcoming family events.
type EventsStageRequest struct {
	UpcomingEvents []string `json:"upcoming_events" validate:"omitempty,max=30,dive,max=200"`
}

func (r *EventsStageRequest) Apply(p *Profile) {
	if r.UpcomingEvents != nil {
		p.UpcomingEvents = StringList(r.UpcomingEvents)
	}
}

// Stage 8: long-term vision and values.
type VisionStageRequest struct {
	LongTermGoal string `json:"long_term_goal" validate:"required,max=4000"`
	FamilyValues string `json:"family_values" validate:"required,max=4000"`
}

func (r *VisionStageRequest) Apply(p *Profile) {
	p.LongTermGoal = r.LongTermGoal
	p.FamilyValues = r.FamilyValues
}

// Stage 9: preferences and review.
type PreferencesStageRequest struct {
	NotifyChannel   string `json:"notify_channel" validate:"required,oneof=email app none"`
	QuietHoursStart string `json:"quiet_hours_start" validate:"omitempty,datetime=15:04"`
	QuietHoursEnd   string `json:"quiet_hours_end" validate:"omitempty,datetime=15:04"`
	DataDeletionAck *bool  `json:"data_deletion_ack" validate:"required"`
}

func (r *PreferencesStageRequest) Apply(p *Profile) {
	p.NotifyChannel = r.NotifyChannel
	p.QuietHoursStart = r.QuietHoursStart
	p.QuietHoursEnd = r.QuietHoursEnd
	p.DataDeletionAck = *r.DataDeletionAck
}

// MidpointRequest resolves the one-time midpoint prompt after stage 4.
type MidpointRequest struct {
	Continue *bool `json:"continue" validate:"required"`
}

// StageSubmitResponse reports the controller's position after a submission.
type StageSubmitResponse struct {
	CompletedStages int  `json:"completed_stages"`
	NextStage       int  `json:"next_stage"`
	MidpointPrompt  bool `json:"midpoint_prompt"`
	IsComplete      bool `json:"is_complete"`
}

// ProfileDraft is the autosave payload: every field optional, merged
// without the per-stage validation gate.
type ProfileDraft struct {
	Name          *string `json:"name,omitempty"`
	Age           *int    `json:"age,omitempty"`
	Role          *string `json:"role,omitempty"`
	PartnerName   *string `json:"partner_name,omitempty"`
	ChildrenCount *int    `json:"children_count,omitempty"`
	ChildrenAges  []int   `json:"children_ages,omitempty"`

	SpouseRating   *int `json:"spouse_rating,omitempty"`
	ChildrenRating *int `json:"children_rating,omitempty"`
	HealthRating   *int `json:"health_rating,omitempty"`
	StressLevel    *int `json:"stress_level,omitempty"`

	SpouseReason   *string `json:"spouse_reason,omitempty"`
	SpouseGoal     *string `json:"spouse_goal,omitempty"`
	ChildrenReason *string `json:"children_reason,omitempty"`
	ChildrenGoal   *string `json:"children_goal,omitempty"`
	HealthReason   *string `json:"health_reason,omitempty"`
	HealthGoal     *string `json:"health_goal,omitempty"`
	StressReason   *string `json:"stress_reason,omitempty"`
	MindsetGoal    *string `json:"mindset_goal,omitempty"`

	Routine      *string `json:"routine,omitempty"`
	LongTermGoal *string `json:"long_term_goal,omitempty"`
	FamilyValues *string `json:"family_values,omitempty"`

	UpcomingEvents       []string `json:"upcoming_events,omitempty"`
	MindfulnessPractices []string `json:"mindfulness_practices,omitempty"`
	Wearables            []string `json:"wearables,omitempty"`

	NotifyChannel   *string `json:"notify_channel,omitempty"`
	QuietHoursStart *string `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *string `json:"quiet_hours_end,omitempty"`
}

// Apply merges only the fields present in the draft.
func (d *ProfileDraft) Apply(p *Profile) {
	if d.Name != nil {
		p.Name = *d.Name
	}
	if d.Age != nil {
		p.Age = d.Age
	}
	if d.Role != nil {
		p.Role = *d.Role
	}
	if d.PartnerName != nil {
		p.PartnerName = *d.PartnerName
	}
	if d.ChildrenCount != nil {
		p.ChildrenCount = d.ChildrenCount
	}
	if d.ChildrenAges != nil {
		p.ChildrenAges = IntList(d.ChildrenAges)
	}
	if d.SpouseRating != nil {
		p.SpouseRating = d.SpouseRating
	}
	if d.ChildrenRating != nil {
		p.ChildrenRating = d.ChildrenRating
	}
	if d.HealthRating != nil {
		p.HealthRating = d.HealthRating
	}
	if d.StressLevel != nil {
		p.StressLevel = d.StressLevel
	}
	if d.SpouseReason != nil {
		p.SpouseReason = *d.SpouseReason
	}
	if d.SpouseGoal != nil {
		p.SpouseGoal = *d.SpouseGoal
	}
	if d.ChildrenReason != nil {
		p.ChildrenReason = *d.ChildrenReason
	}
	if d.ChildrenGoal != nil {
		p.ChildrenGoal = *d.ChildrenGoal
	}
	if d.HealthReason != nil {
		p.HealthReason = *d.HealthReason
	}
	if d.HealthGoal != nil {
		p.HealthGoal = *d.HealthGoal
	}
	if d.StressReason != nil {
		p.StressReason = *d.StressReason
	}
	if d.MindsetGoal != nil {
		p.MindsetGoal = *d.MindsetGoal
	}
	if d.Routine != nil {
		p.Routine = *d.Routine
	}
	if d.LongTermGoal != nil {
		p.LongTermGoal = *d.LongTermGoal
	}
	if d.FamilyValues != nil {
		p.FamilyValues = *d.FamilyValues
	}
	if d.UpcomingEvents != nil {
		p.UpcomingEvents = StringList(d.UpcomingEvents)
	}
	if d.MindfulnessPractices != nil {
		p.MindfulnessPractices = StringList(d.MindfulnessPractices)
	}
	if d.Wearables != nil {
		p.Wearables = StringList(d.Wearables)
	}
	if d.NotifyChannel != nil {
		p.NotifyChannel = *d.NotifyChannel
	}
	if d.QuietHoursStart != nil {
		p.QuietHoursStart = *d.QuietHoursStart
	}
	if d.QuietHoursEnd != nil {
		p.QuietHoursEnd = *d.QuietHoursEnd
	}
}
