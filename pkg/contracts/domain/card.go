package domain

import "time"

// CardOrigin records which half of the ticker universe a card came from.
type CardOrigin string

const (
	CardOriginFixed     CardOrigin = "fixed"
	CardOriginWatchlist CardOrigin = "watchlist"
)

// Card is the fully realized per-ticker view-model handed to the presentation
// boundary. Every sub-section either carries data or an explicit failure
// reason; a card is never dropped because one of its sources failed.
type Card struct {
	Ticker TickerID   `json:"ticker"`
	Name   string     `json:"name,omitempty"`
	Origin CardOrigin `json:"origin"`

	Quote   Section[Quote]           `json:"quote"`
	Foreign Section[ForeignFlow]     `json:"foreign"`
	Futures Section[FuturesPosition] `json:"futures,omitempty"`

	Trend   *Trend  `json:"trend,omitempty"` // nil when the quote section failed
	FlowTag FlowTag `json:"flow_tag,omitempty"`
}

// CardList is one committed pipeline result: the ordered card sequence plus
// the generation metadata of the snapshot it was built from.
type CardList struct {
	GeneratedAt      time.Time `json:"generated_at"`
	LatestTradingDay string    `json:"latest_trading_day"`
	PrevTradingDay   string    `json:"prev_trading_day"`
	Cards            []Card    `json:"cards"`
}
