package usecase

import (
	"time"

	"github.com/shandysiswandi/stepguard/internal/detection/entity"
)

type verifier interface {
	Validate(code, secret string, at time.Time) bool
}

// Orchestrator combines the risk policy and the TOTP check into a verdict.
// It holds no mutable state and is safe for concurrent use.
type Orchestrator struct {
	policy RiskPolicy
	totp   verifier
}

// NewOrchestrator returns an Orchestrator using policy and totp.
func NewOrchestrator(policy RiskPolicy, totp verifier) *Orchestrator {
	return &Orchestrator{policy: policy, totp: totp}
}

// Decide classifies trace and, when step-up is required, checks cred at now.
// Every failure resolves to a verdict; Decide never returns an error.
func (o *Orchestrator) Decide(trace entity.TransactionTrace, protocolName string, cred *entity.Credential, now time.Time) entity.Verdict {
	if !o.policy.RequiresStepUp(trace, protocolName) {
		return entity.Verdict{Message: entity.MessageNotRequired}
	}

	if !cred.Complete() {
		return entity.Verdict{
			RequiresStepUp: true,
			Blocked:        true,
			Errored:        true,
			Message:        entity.MessageMissingCredentials,
		}
	}

	if !o.totp.Validate(cred.Code, cred.Secret, now) {
		return entity.Verdict{RequiresStepUp: true, Blocked: true, Message: entity.MessageInvalidCode}
	}

	return entity.Verdict{RequiresStepUp: true, Message: entity.MessageVerified}
}
