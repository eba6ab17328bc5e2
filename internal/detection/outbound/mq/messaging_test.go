package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/stepguard/internal/detection/usecase"
	"github.com/shandysiswandi/stepguard/internal/pkg/instrument"
	"github.com/shandysiswandi/stepguard/internal/pkg/messaging"
	"github.com/shandysiswandi/stepguard/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	destination string
	msg         messaging.OutgoingMessage
	err         error
}

func (c *capturePublisher) Publish(_ context.Context, destination string, msg messaging.OutgoingMessage) (messaging.PublishResult, error) {
	c.destination = destination
	c.msg = msg
	return messaging.PublishResult{Topic: destination}, c.err
}

func (c *capturePublisher) Close() error { return nil }

func TestPublishDetectionVerdict(t *testing.T) {
	pub := &capturePublisher{}
	m := NewMessaging(pub, instrument.NewNoop(), "")
	decidedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")
	err := m.PublishDetectionVerdict(ctx, usecase.DetectionVerdictEvent{
		EventID:      "evt-1",
		RequestID:    "req-1",
		ChainID:      1,
		ProtocolName: "uniswap",
		Blocked:      true,
		Message:      "invalid code",
		DecidedAt:    decidedAt,
	})
	require.NoError(t, err)

	assert.Equal(t, event.DetectionVerdictDestination, pub.destination)
	assert.Equal(t, []byte("req-1"), pub.msg.Key)
	assert.Equal(t, []messaging.Header{{Key: "cID", Value: []byte("cid-1")}}, pub.msg.Headers)

	var got event.DetectionVerdictMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, "evt-1", got.EventID)
	assert.Equal(t, "req-1", got.RequestID)
	assert.True(t, got.Blocked)
	assert.False(t, got.Errored)
	assert.Equal(t, "invalid code", got.Message)
	assert.True(t, decidedAt.Equal(got.DecidedAt))
}

func TestPublishDetectionVerdict_CustomDestinationAndError(t *testing.T) {
	boom := errors.New("broker down")
	pub := &capturePublisher{err: boom}
	m := NewMessaging(pub, instrument.NewNoop(), "audit.verdicts")

	err := m.PublishDetectionVerdict(context.Background(), usecase.DetectionVerdictEvent{RequestID: "r"})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "audit.verdicts", pub.destination)
}
