package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"hirewise-backend/internal/queue"
	"hirewise-backend/internal/shared/metrics"
	"hirewise-backend/internal/shared/server/middleware"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrInvalidEvent indicates a decoded message that no consumer can act on.
type ErrInvalidEvent struct {
	Meta      MessageMeta
	Kind      string
	RequestID string
	Reason    string
}

func (e ErrInvalidEvent) Error() string { return "invalid event: " + e.Reason }

// ErrProcess indicates handling failed after successful parsing.
type ErrProcess struct {
	Kind        string
	InterviewID string
	RequestID   string
	Err         error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process " + e.Kind
	}
	return "process " + e.Kind + ": " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

var knownKinds = map[string]struct{}{
	queue.KindInterviewScheduled:     {},
	queue.KindInterviewRescheduled:   {},
	queue.KindInterviewStatusChanged: {},
	queue.KindFeedbackSubmitted:      {},
	queue.KindInterviewReminder:      {},
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if _, ok := knownKinds[msg.Kind]; !ok {
		return msg, meta, ErrInvalidEvent{Meta: meta, Kind: msg.Kind, RequestID: msg.RequestID, Reason: "unknown kind"}
	}
	if strings.TrimSpace(msg.InterviewID) == "" || strings.TrimSpace(msg.CompanyID) == "" {
		return msg, meta, ErrInvalidEvent{Meta: meta, Kind: msg.Kind, RequestID: msg.RequestID, Reason: "missing interview or company id"}
	}
	return msg, meta, nil
}

// Permanent reports whether redelivering the message cannot help.
func Permanent(err error) bool {
	var empty ErrEmptyBody
	var decode ErrDecode
	var invalid ErrInvalidEvent
	return errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &invalid)
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// Handler acts on a single decoded interview event.
type Handler interface {
	HandleEvent(ctx context.Context, msg queue.Message) error
}

// HandleMessage parses, validates, and dispatches a message payload.
func HandleMessage(ctx context.Context, h Handler, body string) error {
	if h == nil {
		return errors.New("event handler not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			metrics.IncEventConsumed("invalid")
			return err
		}
	}

	ctx = middleware.WithRequestID(ctx, msg.RequestID)
	if err := h.HandleEvent(ctx, msg); err != nil {
		metrics.IncEventConsumed("failed")
		return ErrProcess{Kind: msg.Kind, InterviewID: msg.InterviewID, RequestID: msg.RequestID, Err: err}
	}
	metrics.IncEventConsumed("ok")
	return nil
}
