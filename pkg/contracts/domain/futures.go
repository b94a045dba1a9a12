package domain

// PositionTier is the aggregated open interest held by one large-trader tier.
// Net is always Long - Short.
type PositionTier struct {
	Long  int64 `json:"long"`
	Short int64 `json:"short"`
	Net   int64 `json:"net"`
}

// NewPositionTier derives the net from the reported long/short legs.
func NewPositionTier(long, short int64) PositionTier {
	return PositionTier{Long: long, Short: short, Net: long - short}
}

// FuturesPosition holds the large-trader open-interest structure for one
// single-stock futures product. Only the all-contracts aggregate row is kept;
// per-maturity rows are discarded upstream of this model.
type FuturesPosition struct {
	Ticker       TickerID     `json:"ticker" validate:"required"`
	Product      string       `json:"product,omitempty"`
	Top5         PositionTier `json:"top5"`
	Top10        PositionTier `json:"top10"`
	OpenInterest int64        `json:"open_interest"`
	AsOfDate     string       `json:"as_of_date"`
}
