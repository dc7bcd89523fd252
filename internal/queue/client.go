package queue

import (
	"context"
	"sync"
)

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// NopClient drops every message. Used when no queue is configured.
type NopClient struct{}

func (NopClient) Send(ctx context.Context, msg Message) error { return nil }

// MemoryClient keeps sent messages in order.
type MemoryClient struct {
	mu       sync.Mutex
	messages []Message
}

func (c *MemoryClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

// Messages returns a copy of everything sent so far.
func (c *MemoryClient) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

var (
	_ Client = NopClient{}
	_ Client = (*MemoryClient)(nil)
)
