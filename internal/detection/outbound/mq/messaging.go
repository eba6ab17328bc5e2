package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/stepguard/internal/detection/usecase"
	"github.com/shandysiswandi/stepguard/internal/pkg/instrument"
	"github.com/shandysiswandi/stepguard/internal/pkg/messaging"
	"github.com/shandysiswandi/stepguard/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client      messaging.Publisher
	ins         instrument.Instrumentation
	destination string
}

// NewMessaging publishes to destination, or to event.DetectionVerdictDestination when empty.
func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation, destination string) *Messaging {
	if destination == "" {
		destination = event.DetectionVerdictDestination
	}
	return &Messaging{client: client, ins: ins, destination: destination}
}

func (m *Messaging) PublishDetectionVerdict(ctx context.Context, msg usecase.DetectionVerdictEvent) error {
	ctx, span := m.ins.Tracer("detection.outbound.mq").Start(ctx, "PublishDetectionVerdict")
	defer span.End()

	body, err := json.Marshal(event.DetectionVerdictMessage{
		EventID:      msg.EventID,
		RequestID:    msg.RequestID,
		ChainID:      msg.ChainID,
		ProtocolName: msg.ProtocolName,
		Blocked:      msg.Blocked,
		Errored:      msg.Errored,
		Message:      msg.Message,
		DecidedAt:    msg.DecidedAt.UTC(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, m.destination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(msg.RequestID),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
