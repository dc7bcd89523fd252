package interviews

import (
	"errors"

	"hirewise-backend/internal/shared/server/respond"
)

var (
	ErrNotFound          = errors.New("interview not found")
	ErrSlotConflict      = errors.New("interviewer already has an interview at that time")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrFeedbackTooEarly  = errors.New("feedback cannot be submitted before the interview starts")
	ErrEditWindowExpired = errors.New("feedback edit window has expired")
	ErrPastSchedule      = errors.New("interview must be scheduled in the future")
	ErrNotReschedulable  = errors.New("interview can no longer be rescheduled")
)

// ValidationError lists every invalid input field of a request.
type ValidationError struct {
	Fields []respond.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Field + " " + e.Fields[0].Message
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, respond.FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInterviewerNotFound = errors.New("interviewer not found")
)
