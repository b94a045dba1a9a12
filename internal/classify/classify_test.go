package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"twpulse/pkg/contracts/domain"
)

func pct(v float64) *float64 { return &v }

func TestTrend(t *testing.T) {
	tests := []struct {
		name          string
		change        float64
		changePercent *float64
		want          domain.Trend
	}{
		{"strong down", -50, pct(-5), domain.Trend{Direction: domain.TrendDown, Tier: 3}},
		{"moderate down", -20, pct(-2), domain.Trend{Direction: domain.TrendDown, Tier: 2}},
		{"mild down", -5, pct(-0.5), domain.Trend{Direction: domain.TrendDown, Tier: 1}},
		{"flat", 0, pct(0), domain.Trend{Direction: domain.TrendFlat, Tier: 1}},
		{"mild up", 5, pct(0.5), domain.Trend{Direction: domain.TrendUp, Tier: 1}},
		{"moderate up", 20, pct(2), domain.Trend{Direction: domain.TrendUp, Tier: 2}},
		{"strong up", 50, pct(5), domain.Trend{Direction: domain.TrendUp, Tier: 3}},
		{"tier2 boundary", 10, pct(1), domain.Trend{Direction: domain.TrendUp, Tier: 2}},
		{"tier3 boundary", 30, pct(3), domain.Trend{Direction: domain.TrendUp, Tier: 3}},
		{"tier2 boundary down", -10, pct(-1), domain.Trend{Direction: domain.TrendDown, Tier: 2}},
		{"tier3 boundary down", -30, pct(-3), domain.Trend{Direction: domain.TrendDown, Tier: 3}},
		{"no prior close", 2, nil, domain.Trend{Direction: domain.TrendUp, Tier: 1}},
		{"flat overrides percent", 0, pct(4), domain.Trend{Direction: domain.TrendFlat, Tier: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trend(tt.change, tt.changePercent))
		})
	}
}

func TestForeignFlowTag(t *testing.T) {
	tests := []struct {
		netLots int64
		want    domain.FlowTag
	}{
		{799, domain.FlowTagNone},
		{800, domain.FlowTagBuy},
		{2999, domain.FlowTagBuy},
		{3000, domain.FlowTagStrongBuy},
		{-799, domain.FlowTagNone},
		{-800, domain.FlowTagSell},
		{-2999, domain.FlowTagSell},
		{-3000, domain.FlowTagStrongSell},
		{0, domain.FlowTagNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ForeignFlowTag(tt.netLots), "netLots=%d", tt.netLots)
	}
}
