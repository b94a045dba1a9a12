// Package classify maps derived metrics onto the trend/strength tiers used
// for card coloring. Every function here is total, deterministic and free of
// side effects.
package classify

import (
	"math"

	"twpulse/pkg/contracts/domain"
)

// Trend tier thresholds, percent basis.
const (
	tier3Percent = 3.0
	tier2Percent = 1.0
)

// Foreign-flow display thresholds, board lots.
const (
	flowTagLots    = 800
	flowStrongLots = 3000
)

// Trend classifies a day's move. changePercent is nil when no prior close was
// resolvable; such a day is flat tier 1, same as a zero change.
func Trend(change float64, changePercent *float64) domain.Trend {
	direction := domain.TrendFlat
	switch {
	case change > 0:
		direction = domain.TrendUp
	case change < 0:
		direction = domain.TrendDown
	}
	if direction == domain.TrendFlat || changePercent == nil {
		return domain.Trend{Direction: direction, Tier: 1}
	}

	tier := 1
	switch pct := math.Abs(*changePercent); {
	case pct >= tier3Percent:
		tier = 3
	case pct >= tier2Percent:
		tier = 2
	}
	return domain.Trend{Direction: direction, Tier: tier}
}

// ForeignFlowTag classifies a net-lots figure. Flows inside (-800, 800) carry
// no tag at all; the strong tags start at 3000 lots either way.
func ForeignFlowTag(netLots int64) domain.FlowTag {
	switch {
	case netLots >= flowStrongLots:
		return domain.FlowTagStrongBuy
	case netLots >= flowTagLots:
		return domain.FlowTagBuy
	case netLots <= -flowStrongLots:
		return domain.FlowTagStrongSell
	case netLots <= -flowTagLots:
		return domain.FlowTagSell
	default:
		return domain.FlowTagNone
	}
}
