package domain

// ForeignFlow is the foreign-institutional net flow for one ticker on one
// trading day. NetLots is in board lots (1000 shares), rounded to nearest
// when derived from a share count.
type ForeignFlow struct {
	Ticker     TickerID `json:"ticker" validate:"required"`
	BuyShares  int64    `json:"buy_shares,omitempty"`
	SellShares int64    `json:"sell_shares,omitempty"`
	NetShares  int64    `json:"net_shares"`
	NetLots    int64    `json:"net_lots"`
	AsOfDate   string   `json:"as_of_date"`
}
