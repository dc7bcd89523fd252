package queue

import (
	"context"
	"time"

	"hirewise-backend/internal/shared/metrics"
	"hirewise-backend/internal/shared/server/middleware"
	"hirewise-backend/internal/shared/telemetry"
)

// Publisher emits interview events. Failures are logged and never returned,
// so a queue outage cannot fail the request that caused the event.
type Publisher struct {
	Client Client
	Now    func() time.Time
}

func NewPublisher(client Client) *Publisher {
	if client == nil {
		client = NopClient{}
	}
	return &Publisher{Client: client, Now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, kind, companyID, interviewID string) {
	if p == nil || p.Client == nil {
		return
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	msg := Message{
		Kind:        kind,
		InterviewID: interviewID,
		CompanyID:   companyID,
		RequestID:   middleware.RequestIDFrom(ctx),
		EnqueuedAt:  now().UTC().Format(time.RFC3339),
		Version:     MessageVersion,
	}
	if err := p.Client.Send(ctx, msg); err != nil {
		metrics.IncEventPublished(kind, false)
		telemetry.Error("event.publish_failed", map[string]any{
			"kind":         kind,
			"interview_id": interviewID,
			"company_id":   companyID,
			"request_id":   msg.RequestID,
			"error":        err,
		})
		return
	}
	metrics.IncEventPublished(kind, true)
}
