package domain

import "time"

// StockEntry groups the per-ticker sections of the fixed-universe snapshot.
// Each section fails independently; a broken foreign-flow fetch still leaves
// the quote usable.
type StockEntry struct {
	Quote   Section[Quote]       `json:"quote"`
	Foreign Section[ForeignFlow] `json:"foreign"`
}

// Snapshot is the periodically regenerated fixed-universe feed document: one
// ingestion cycle's worth of quotes, foreign flows, futures positions and the
// two raw-text report tables, plus generation metadata.
type Snapshot struct {
	GeneratedAt      time.Time `json:"generated_at"`
	LatestTradingDay string    `json:"latest_trading_day"` // YYYY-MM-DD
	PrevTradingDay   string    `json:"prev_trading_day"`

	Stocks     map[TickerID]StockEntry              `json:"stocks"`
	BrokerFlow Section[BrokerFlowReport]            `json:"broker_flow"`
	Ranking    Section[RankingTable]                `json:"ranking"`
	Futures    map[TickerID]Section[FuturesPosition] `json:"futures"`
}
