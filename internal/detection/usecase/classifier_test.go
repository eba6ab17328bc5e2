package usecase

import (
	"math/big"
	"testing"

	"github.com/shandysiswandi/stepguard/internal/detection/entity"
	"github.com/stretchr/testify/assert"
)

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wei literal " + s)
	}
	return v
}

func TestNewRiskPolicy_Defaults(t *testing.T) {
	p := NewRiskPolicy(nil, nil)

	assert.Equal(t, 0, p.Threshold().Cmp(wei("1000000000000000000")))
	assert.Equal(t, []string{"aave", "balancer", "compound", "curve", "sushi", "uniswap"}, p.Protocols())

	p = NewRiskPolicy(big.NewInt(-5), []string{"  ", ""})
	assert.Equal(t, 0, p.Threshold().Cmp(DefaultThreshold()))
	assert.Len(t, p.Protocols(), len(DefaultProtocols))
}

func TestNewRiskPolicy_NormalizesProtocols(t *testing.T) {
	p := NewRiskPolicy(big.NewInt(10), []string{" Lido ", "lido", "MAKER"})

	assert.Equal(t, []string{"lido", "maker"}, p.Protocols())
	assert.True(t, p.RequiresStepUp(entity.TransactionTrace{}, "LiDo"))
	assert.False(t, p.RequiresStepUp(entity.TransactionTrace{}, "uniswap"))
}

func TestNewRiskPolicy_ThresholdIsCopied(t *testing.T) {
	threshold := big.NewInt(100)
	p := NewRiskPolicy(threshold, nil)

	threshold.SetInt64(1)
	assert.False(t, p.RequiresStepUp(entity.TransactionTrace{Value: big.NewInt(50)}, ""))

	got := p.Threshold()
	got.SetInt64(0)
	assert.Equal(t, int64(100), p.Threshold().Int64())
}

func TestRiskPolicy_RequiresStepUp(t *testing.T) {
	p := NewRiskPolicy(nil, nil)

	tests := []struct {
		name     string
		trace    entity.TransactionTrace
		protocol string
		want     bool
	}{
		{name: "zero value, unknown protocol, no calls", trace: entity.TransactionTrace{Value: big.NewInt(0)}, protocol: "some protocol", want: false},
		{name: "nil value", trace: entity.TransactionTrace{}, protocol: "", want: false},
		{name: "exactly one ether", trace: entity.TransactionTrace{Value: wei("1000000000000000000")}, want: false},
		{name: "one wei above threshold", trace: entity.TransactionTrace{Value: wei("1000000000000000001")}, want: true},
		{name: "two ether", trace: entity.TransactionTrace{Value: wei("2000000000000000000")}, want: true},
		{name: "beyond uint64", trace: entity.TransactionTrace{Value: wei("340282366920938463463374607431768211456")}, want: true},
		{name: "known protocol", trace: entity.TransactionTrace{Value: big.NewInt(0)}, protocol: "uniswap", want: true},
		{name: "known protocol upper case", trace: entity.TransactionTrace{}, protocol: "AAVE", want: true},
		{name: "known protocol mixed case", trace: entity.TransactionTrace{}, protocol: "Balancer", want: true},
		{name: "partial protocol name", trace: entity.TransactionTrace{}, protocol: "uniswap-v3", want: false},
		{name: "has calls", trace: entity.TransactionTrace{Calls: []entity.Call{{}}}, want: true},
		{name: "empty calls slice", trace: entity.TransactionTrace{Calls: []entity.Call{}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.RequiresStepUp(tt.trace, tt.protocol))
			// classification is deterministic
			assert.Equal(t, tt.want, p.RequiresStepUp(tt.trace, tt.protocol))
		})
	}
}

func TestRiskPolicy_HighValueWinsRegardlessOfOtherRules(t *testing.T) {
	p := NewRiskPolicy(nil, nil)
	high := wei("1000000000000000001")

	for _, protocol := range []string{"", "unknown", "curve"} {
		for _, calls := range [][]entity.Call{nil, {{}}} {
			assert.True(t, p.RequiresStepUp(entity.TransactionTrace{Value: high, Calls: calls}, protocol))
		}
	}
}
