package usecase

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shandysiswandi/stepguard/internal/detection/entity"
	"github.com/shandysiswandi/stepguard/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DetectInput mirrors the detector request. The json tags name fields in
// validation errors.
type DetectInput struct {
	RequestID       string     `json:"id"`
	DetectorName    string     `json:"detectorName"`
	ChainID         int64      `json:"chainId"`
	Hash            string     `json:"hash"`
	ProtocolName    string     `json:"protocolName"`
	ProtocolAddress string     `json:"protocolAddress" validate:"required,evm_address"`
	Trace           TraceInput `json:"trace"`
	TwoFactorCode   string     `json:"twoFactorCode"`
	UserSecret      string     `json:"userSecret"`
}

type TraceInput struct {
	From  string      `json:"from" validate:"required,evm_address"`
	To    string      `json:"to" validate:"omitempty,evm_address"`
	Value string      `json:"value" validate:"omitempty,uint256"`
	Logs  []LogInput  `json:"logs" validate:"dive"`
	Calls []CallInput `json:"calls" validate:"dive"`
}

type LogInput struct {
	Address string `json:"address" validate:"required,evm_address"`
}

type CallInput struct {
	From    string `json:"from" validate:"required,evm_address"`
	To      string `json:"to" validate:"omitempty,evm_address"`
	Input   string `json:"input"`
	Output  string `json:"output"`
	GasUsed string `json:"gasUsed"`
	Value   string `json:"value" validate:"omitempty,uint256"`
}

type DetectOutput struct {
	RequestID       string
	ChainID         int64
	ProtocolName    string
	ProtocolAddress string
	Verdict         entity.Verdict
}

func (s *Usecase) Detect(ctx context.Context, in DetectInput) (*DetectOutput, error) {
	ctx, span := s.startSpan(ctx, "Detect")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	value := new(big.Int)
	if in.Trace.Value != "" {
		v, ok := math.ParseBig256(in.Trace.Value)
		if !ok {
			return nil, goerror.NewInvalidInput(nil, "trace.value", "value must be an unsigned 256-bit integer")
		}
		value = v
	}

	calls := make([]entity.Call, 0, len(in.Trace.Calls))
	for _, c := range in.Trace.Calls {
		calls = append(calls, entity.Call(c))
	}

	var cred *entity.Credential
	if in.TwoFactorCode != "" || in.UserSecret != "" {
		cred = &entity.Credential{Code: in.TwoFactorCode, Secret: in.UserSecret}
	}

	now := s.clock.Now()
	verdict := s.orchestrator.Decide(entity.TransactionTrace{
		Value:        value,
		ProtocolName: in.ProtocolName,
		Calls:        calls,
	}, in.ProtocolName, cred, now)

	attrs := []attribute.KeyValue{
		attribute.String("detection.outcome", verdict.Outcome()),
		attribute.Bool("detection.requires_step_up", verdict.RequiresStepUp),
		attribute.Bool("detection.blocked", verdict.Blocked),
	}
	span.SetAttributes(attrs...)
	if s.verdictCounter != nil {
		s.verdictCounter.Add(ctx, 1, metric.WithAttributes(attrs[0]))
	}

	slog.InfoContext(ctx, "transaction classified",
		"request_id", in.RequestID,
		"chain_id", in.ChainID,
		"protocol_name", in.ProtocolName,
		"outcome", verdict.Outcome(),
	)

	if verdict.RequiresStepUp && s.cfg.GetBool("detection.audit.enabled") {
		s.publishVerdict(ctx, DetectionVerdictEvent{
			EventID:      s.uuid.Generate(),
			RequestID:    in.RequestID,
			ChainID:      in.ChainID,
			ProtocolName: in.ProtocolName,
			Blocked:      verdict.Blocked,
			Errored:      verdict.Errored,
			Message:      verdict.Message,
			DecidedAt:    now,
		})
	}

	return &DetectOutput{
		RequestID:       in.RequestID,
		ChainID:         in.ChainID,
		ProtocolName:    in.ProtocolName,
		ProtocolAddress: in.ProtocolAddress,
		Verdict:         verdict,
	}, nil
}

func (s *Usecase) publishVerdict(ctx context.Context, ev DetectionVerdictEvent) {
	scheduled := s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishDetectionVerdict(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish detection verdict", "request_id", ev.RequestID, "error", err)
		}
		return nil
	})
	if !scheduled {
		slog.WarnContext(ctx, "detection verdict not published", "request_id", ev.RequestID)
	}
}
