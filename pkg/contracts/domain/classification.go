package domain

// TrendDirection is the sign of the day's price move.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// Trend pairs the move direction with a magnitude tier (1..3, percent basis).
// A flat day is always tier 1.
type Trend struct {
	Direction TrendDirection `json:"direction"`
	Tier      int            `json:"tier"`
}

// FlowTag classifies a foreign net-lots figure for presentation. The empty
// tag means the flow is below the display threshold.
type FlowTag string

const (
	FlowTagNone       FlowTag = ""
	FlowTagBuy        FlowTag = "buy"
	FlowTagStrongBuy  FlowTag = "strong_buy"
	FlowTagSell       FlowTag = "sell"
	FlowTagStrongSell FlowTag = "strong_sell"
)
