package interviews

import (
	"strings"
	"time"

	"hirewise-backend/internal/shared/util"
)

type ScheduleInput struct {
	ApplicationID        string   `json:"applicationId"`
	InterviewerID        string   `json:"interviewerId"`
	ScheduledDate        string   `json:"scheduledDate"`
	ScheduledTime        string   `json:"scheduledTime"`
	Duration             *int     `json:"duration"`
	Type                 string   `json:"type"`
	Round                *int     `json:"round"`
	Location             string   `json:"location"`
	MeetingLink          string   `json:"meetingLink"`
	Notes                string   `json:"notes"`
	PreparationMaterials []string `json:"preparationMaterials"`
}

type RescheduleInput struct {
	ScheduledDate    string `json:"scheduledDate"`
	ScheduledTime    string `json:"scheduledTime"`
	Duration         *int   `json:"duration"`
	RescheduleReason string `json:"rescheduleReason"`
}

type StatusInput struct {
	Status             string `json:"status"`
	CancellationReason string `json:"cancellationReason"`
}

type FeedbackInput struct {
	OverallRating       *int     `json:"overallRating"`
	TechnicalSkills     *int     `json:"technicalSkills"`
	CommunicationSkills *int     `json:"communicationSkills"`
	ProblemSolving      *int     `json:"problemSolving"`
	CulturalFit         *int     `json:"culturalFit"`
	Recommendation      string   `json:"recommendation"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	AdditionalNotes     string   `json:"additionalNotes"`
}

const (
	maxListItems   = 20
	maxNotesLength = 5000
)

func validType(t string) bool {
	switch t {
	case TypePhone, TypeVideo, TypeInPerson, TypeTechnical, TypeBehavioral, TypePanel:
		return true
	}
	return false
}

func validRecommendation(r string) bool {
	switch r {
	case RecommendationStrongHire, RecommendationHire, RecommendationMaybe, RecommendationNoHire, RecommendationStrongNoHire:
		return true
	}
	return false
}

// parseSlot combines date and time in loc, recording field errors on v.
func parseSlot(v *ValidationError, date, clock string, loc *time.Location) time.Time {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		v.add("scheduledDate", "is required")
	} else if _, err := time.Parse(util.DateLayout, date); err != nil {
		v.add("scheduledDate", "must be YYYY-MM-DD")
		date = ""
	}
	if clock == "" {
		v.add("scheduledTime", "is required")
	} else if _, err := time.Parse(util.TimeLayout, clock); err != nil {
		v.add("scheduledTime", "must be HH:mm")
		clock = ""
	}
	if date == "" || clock == "" {
		return time.Time{}
	}
	at, err := util.CombineDateTime(date, clock, loc)
	if err != nil {
		v.add("scheduledTime", err.Error())
		return time.Time{}
	}
	return at
}

func validateDuration(v *ValidationError, duration *int, fallback int) int {
	if duration == nil {
		return fallback
	}
	if *duration < MinDurationMinutes || *duration > MaxDurationMinutes {
		v.add("duration", "must be between 15 and 480 minutes")
	}
	return *duration
}

func validateSchedule(input ScheduleInput, loc *time.Location) (time.Time, int, int, error) {
	v := &ValidationError{}
	if strings.TrimSpace(input.ApplicationID) == "" {
		v.add("applicationId", "is required")
	}
	if strings.TrimSpace(input.InterviewerID) == "" {
		v.add("interviewerId", "is required")
	}
	at := parseSlot(v, input.ScheduledDate, input.ScheduledTime, loc)
	duration := validateDuration(v, input.Duration, DefaultDurationMinutes)
	if !validType(input.Type) {
		v.add("type", "must be one of phone, video, in-person, technical, behavioral, panel")
	}
	round := 1
	if input.Round != nil {
		round = *input.Round
		if round < 1 {
			v.add("round", "must be at least 1")
		}
	}
	if len(input.Notes) > maxNotesLength {
		v.add("notes", "is too long")
	}
	if len(input.PreparationMaterials) > maxListItems {
		v.add("preparationMaterials", "has too many items")
	}
	return at, duration, round, v.orNil()
}

func validateReschedule(input RescheduleInput, current int, loc *time.Location) (time.Time, int, error) {
	v := &ValidationError{}
	at := parseSlot(v, input.ScheduledDate, input.ScheduledTime, loc)
	duration := validateDuration(v, input.Duration, current)
	if len(input.RescheduleReason) > maxNotesLength {
		v.add("rescheduleReason", "is too long")
	}
	return at, duration, v.orNil()
}

func validateStatus(input StatusInput) (string, error) {
	v := &ValidationError{}
	status, ok := ParseStatus(input.Status)
	if !ok {
		v.add("status", "is not a known interview status")
	}
	if ok && status == StatusCancelled && strings.TrimSpace(input.CancellationReason) == "" {
		v.add("cancellationReason", "is required when cancelling")
	}
	return status, v.orNil()
}

func validateRating(v *ValidationError, field string, rating *int, required bool) {
	if rating == nil {
		if required {
			v.add(field, "is required")
		}
		return
	}
	if *rating < 1 || *rating > 5 {
		v.add(field, "must be between 1 and 5")
	}
}

func validateFeedback(input FeedbackInput) (Feedback, error) {
	v := &ValidationError{}
	validateRating(v, "overallRating", input.OverallRating, true)
	validateRating(v, "technicalSkills", input.TechnicalSkills, false)
	validateRating(v, "communicationSkills", input.CommunicationSkills, false)
	validateRating(v, "problemSolving", input.ProblemSolving, false)
	validateRating(v, "culturalFit", input.CulturalFit, false)
	recommendation := strings.TrimSpace(input.Recommendation)
	if recommendation == "" {
		v.add("recommendation", "is required")
	} else if !validRecommendation(recommendation) {
		v.add("recommendation", "must be one of strong_hire, hire, maybe, no_hire, strong_no_hire")
	}
	strengths := cleanList(input.Strengths)
	weaknesses := cleanList(input.Weaknesses)
	if len(strengths) > maxListItems {
		v.add("strengths", "has too many items")
	}
	if len(weaknesses) > maxListItems {
		v.add("weaknesses", "has too many items")
	}
	if len(input.AdditionalNotes) > maxNotesLength {
		v.add("additionalNotes", "is too long")
	}
	if err := v.orNil(); err != nil {
		return Feedback{}, err
	}
	return Feedback{
		OverallRating:       *input.OverallRating,
		TechnicalSkills:     input.TechnicalSkills,
		CommunicationSkills: input.CommunicationSkills,
		ProblemSolving:      input.ProblemSolving,
		CulturalFit:         input.CulturalFit,
		Strengths:           strengths,
		Weaknesses:          weaknesses,
		Recommendation:      recommendation,
		AdditionalNotes:     strings.TrimSpace(input.AdditionalNotes),
	}, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
