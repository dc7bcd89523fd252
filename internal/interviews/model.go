package interviews

import "time"

const (
	StatusScheduled   = "scheduled"
	StatusConfirmed   = "confirmed"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusRescheduled = "rescheduled"
	StatusNoShow      = "no_show"
)

const (
	TypePhone      = "phone"
	TypeVideo      = "video"
	TypeInPerson   = "in-person"
	TypeTechnical  = "technical"
	TypeBehavioral = "behavioral"
	TypePanel      = "panel"
)

const (
	RecommendationStrongHire   = "strong_hire"
	RecommendationHire         = "hire"
	RecommendationMaybe        = "maybe"
	RecommendationNoHire       = "no_hire"
	RecommendationStrongNoHire = "strong_no_hire"
)

const (
	DefaultDurationMinutes = 60
	MinDurationMinutes     = 15
	MaxDurationMinutes     = 480
)

const ReminderDayBefore = "day_before"

type Feedback struct {
	OverallRating       int       `json:"overallRating"`
	TechnicalSkills     *int      `json:"technicalSkills,omitempty"`
	CommunicationSkills *int      `json:"communicationSkills,omitempty"`
	ProblemSolving      *int      `json:"problemSolving,omitempty"`
	CulturalFit         *int      `json:"culturalFit,omitempty"`
	Strengths           []string  `json:"strengths"`
	Weaknesses          []string  `json:"weaknesses"`
	Recommendation      string    `json:"recommendation"`
	AdditionalNotes     string    `json:"additionalNotes,omitempty"`
	SubmittedAt         time.Time `json:"submittedAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type RescheduleEntry struct {
	OldScheduledAt time.Time `json:"oldScheduledAt"`
	NewScheduledAt time.Time `json:"newScheduledAt"`
	RescheduledBy  string    `json:"rescheduledBy"`
	Reason         string    `json:"reason"`
	RescheduledAt  time.Time `json:"rescheduledAt"`
}

type Reminder struct {
	Kind   string    `json:"kind"`
	SentAt time.Time `json:"sentAt"`
}

type Interview struct {
	ID            string
	CompanyID     string
	ApplicationID string
	InterviewerID string
	ScheduledBy   string

	CandidateName   string
	CandidateEmail  string
	JobTitle        string
	InterviewerName string

	ScheduledAt     time.Time
	DurationMinutes int
	Type            string
	Round           int
	Location        string
	MeetingLink     string
	Notes           string

	Status             string
	CancellationReason string
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	Feedback             *Feedback
	RescheduleHistory    []RescheduleEntry
	Reminders            []Reminder
	PreparationMaterials []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndsAt is ScheduledAt plus the duration.
func (iv Interview) EndsAt() time.Time {
	return iv.ScheduledAt.Add(time.Duration(iv.DurationMinutes) * time.Minute)
}

func (iv Interview) HasFeedback() bool {
	return iv.Feedback != nil && !iv.Feedback.SubmittedAt.IsZero()
}

// HasReminder reports whether a reminder of kind was already recorded.
func (iv Interview) HasReminder(kind string) bool {
	for _, r := range iv.Reminders {
		if r.Kind == kind {
			return true
		}
	}
	return false
}

// Overlaps reports whether [start, end) intersects the interview's slot.
func (iv Interview) Overlaps(start, end time.Time) bool {
	return iv.ScheduledAt.Before(end) && iv.EndsAt().After(start)
}

func clone(iv Interview) Interview {
	out := iv
	if iv.Feedback != nil {
		fb := *iv.Feedback
		fb.Strengths = append([]string(nil), iv.Feedback.Strengths...)
		fb.Weaknesses = append([]string(nil), iv.Feedback.Weaknesses...)
		out.Feedback = &fb
	}
	out.RescheduleHistory = append([]RescheduleEntry(nil), iv.RescheduleHistory...)
	out.Reminders = append([]Reminder(nil), iv.Reminders...)
	out.PreparationMaterials = append([]string(nil), iv.PreparationMaterials...)
	return out
}
