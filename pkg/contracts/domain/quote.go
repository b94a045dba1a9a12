package domain

// Quote is one ticker's end-of-day quote for the latest trading day.
// ChangePercent is nil when no prior close is resolvable, e.g. the first
// trading day inside the reporting window.
type Quote struct {
	Ticker        TickerID `json:"ticker" validate:"required"`
	Name          string   `json:"name,omitempty"`
	Close         float64  `json:"close"`
	Change        float64  `json:"change"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	AsOfDate      string   `json:"as_of_date"` // YYYY-MM-DD
}
