package usecase

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shandysiswandi/stepguard/internal/pkg/clock"
	"github.com/shandysiswandi/stepguard/internal/pkg/config"
	"github.com/shandysiswandi/stepguard/internal/pkg/goroutine"
	"github.com/shandysiswandi/stepguard/internal/pkg/instrument"
	"github.com/shandysiswandi/stepguard/internal/pkg/otp"
	"github.com/shandysiswandi/stepguard/internal/pkg/uid"
	"github.com/shandysiswandi/stepguard/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type DetectionVerdictEvent struct {
	EventID      string
	RequestID    string
	ChainID      int64
	ProtocolName string
	Blocked      bool
	Errored      bool
	Message      string
	DecidedAt    time.Time
}

type repoMessaging interface {
	PublishDetectionVerdict(ctx context.Context, msg DetectionVerdictEvent) error
}

type Usecase struct {
	repoMessaging  repoMessaging
	validator      validator.Validator
	cfg            config.Config
	uuid           uid.StringID
	totp           otp.OTP
	clock          clock.Clocker
	ins            instrument.Instrumentation
	goroutine      *goroutine.Manager
	orchestrator   *Orchestrator
	verdictCounter metric.Int64Counter
}

type Dependency struct {
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	UUID          uid.StringID
	Totp          otp.OTP
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	counter, err := dep.Instrument.Meter("detection.usecase").Int64Counter(
		"detection.verdicts",
		metric.WithDescription("Number of detection verdicts by outcome"),
	)
	if err != nil {
		slog.Error("failed to create detection verdict counter", "error", err)
	}

	return &Usecase{
		repoMessaging:  dep.RepoMessaging,
		validator:      dep.Validator,
		cfg:            dep.Config,
		uuid:           dep.UUID,
		totp:           dep.Totp,
		clock:          dep.Clock,
		ins:            dep.Instrument,
		goroutine:      dep.Goroutine,
		orchestrator:   NewOrchestrator(PolicyFromConfig(dep.Config), dep.Totp),
		verdictCounter: counter,
	}
}

// PolicyFromConfig reads detection.risk.threshold_wei and detection.risk.protocols.
// An unparsable threshold is logged and replaced by one ether.
func PolicyFromConfig(cfg config.Config) RiskPolicy {
	var threshold *big.Int
	if raw := cfg.GetString("detection.risk.threshold_wei"); raw != "" {
		v, ok := math.ParseBig256(raw)
		if !ok || v.Sign() < 0 {
			slog.Warn("invalid detection.risk.threshold_wei, using one ether", "value", raw)
		} else {
			threshold = v
		}
	}

	return NewRiskPolicy(threshold, cfg.GetArray("detection.risk.protocols"))
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("detection.usecase").Start(ctx, name)
}
