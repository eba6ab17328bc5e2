package messaging

import (
	"context"
	"time"
)

// Noop drops every message.
type Noop struct{}

// NewNoop returns a publisher that accepts and discards messages.
func NewNoop() *Noop {
	return &Noop{}
}

// Publish discards msg.
func (*Noop) Publish(ctx context.Context, destination string, _ OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

// Close does nothing.
func (*Noop) Close() error {
	return nil
}
