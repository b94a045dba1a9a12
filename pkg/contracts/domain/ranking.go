package domain

// RankingRow is one entry of the foreign buy/sell ranking dump.
type RankingRow struct {
	Rank    int     `json:"rank"`
	Name    string  `json:"name"`
	NetLots float64 `json:"net_lots"`
	Close   float64 `json:"close"`
	Change  float64 `json:"change"`
}

// RankingTable holds the dual buy-side/sell-side ranking sequences. The two
// sides share rank indices conceptually but are independent in length; either
// side may be shorter when the source truncates it.
type RankingTable struct {
	DateHint string       `json:"date,omitempty"` // MM/DD hint printed in the dump, when present
	Buy      []RankingRow `json:"buy"`
	Sell     []RankingRow `json:"sell"`
}
