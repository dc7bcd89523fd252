package queue

import "encoding/json"

// Event kinds published for interviews.
const (
	KindInterviewScheduled     = "interview.scheduled"
	KindInterviewRescheduled   = "interview.rescheduled"
	KindInterviewStatusChanged = "interview.status_changed"
	KindFeedbackSubmitted      = "interview.feedback_submitted"
	KindInterviewReminder      = "interview.reminder"
)

const MessageVersion = 1

// Message is the payload sent to downstream queue consumers.
type Message struct {
	Kind        string `json:"kind"`
	InterviewID string `json:"interviewId"`
	CompanyID   string `json:"companyId"`
	RequestID   string `json:"requestId,omitempty"`
	EnqueuedAt  string `json:"enqueuedAt"`
	Version     int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
