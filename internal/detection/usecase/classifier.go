package usecase

import (
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/samber/lo"
	"github.com/shandysiswandi/stepguard/internal/detection/entity"
)

// DefaultProtocols are the DeFi protocols that always require step-up.
var DefaultProtocols = []string{"uniswap", "aave", "compound", "curve", "sushi", "balancer"}

// RiskPolicy holds the thresholds used to classify a transaction.
type RiskPolicy struct {
	threshold *big.Int
	protocols map[string]struct{}
}

// DefaultThreshold returns one ether in wei.
func DefaultThreshold() *big.Int {
	return big.NewInt(params.Ether)
}

// NewRiskPolicy builds a policy. A nil or negative threshold falls back to one
// ether, and an empty protocol list falls back to DefaultProtocols.
func NewRiskPolicy(threshold *big.Int, protocols []string) RiskPolicy {
	if threshold == nil || threshold.Sign() < 0 {
		threshold = DefaultThreshold()
	}

	names := lo.Uniq(lo.FilterMap(protocols, func(p string, _ int) (string, bool) {
		p = strings.ToLower(strings.TrimSpace(p))
		return p, p != ""
	}))
	if len(names) == 0 {
		names = DefaultProtocols
	}

	return RiskPolicy{
		threshold: new(big.Int).Set(threshold),
		protocols: lo.SliceToMap(names, func(p string) (string, struct{}) {
			return p, struct{}{}
		}),
	}
}

// Threshold returns a copy of the value threshold in wei.
func (p RiskPolicy) Threshold() *big.Int {
	return new(big.Int).Set(p.threshold)
}

// Protocols returns the known protocol names in sorted order.
func (p RiskPolicy) Protocols() []string {
	keys := lo.Keys(p.protocols)
	slices.Sort(keys)
	return keys
}

// RequiresStepUp reports whether trace needs a second factor: its value is
// above the threshold, it targets a known protocol, or it makes internal calls.
func (p RiskPolicy) RequiresStepUp(trace entity.TransactionTrace, protocolName string) bool {
	if trace.Value != nil && trace.Value.Cmp(p.threshold) > 0 {
		return true
	}

	if _, ok := p.protocols[strings.ToLower(protocolName)]; ok {
		return true
	}

	return len(trace.Calls) > 0
}
