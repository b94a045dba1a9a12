package config

import "twpulse/pkg/contracts/domain"

// Application constants for the TW Pulse service
const (
	AppName    = "TW Pulse"
	AppVersion = "1.0.0"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// File Paths (relative to working directory)
	DefaultDataDir = "data"
	DefaultLogsDir = "logs"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// FixedTickers is the canonical dashboard universe, in render order.
var FixedTickers = []domain.TickerID{"2330", "2317", "3231", "2382"}

// FuturesProducts maps each fixed ticker to its single-stock futures
// product name on the derivatives exchange. Tickers without a listed
// product are simply absent.
var FuturesProducts = map[domain.TickerID]string{
	"2330": "台積電期貨",
	"2317": "鴻海期貨",
	"3231": "緯創期貨",
	"2382": "廣達期貨",
}

// BrokerTargets are the foreign broker branches surfaced from the
// brokerage-flow ranking, matched by substring, in display order.
var BrokerTargets = []string{
	"摩根大通",
	"台灣摩根士丹利",
	"新加坡商瑞銀",
	"美林",
	"花旗環球",
	"美商高盛",
}

// RankingLimit caps how many rows per side of the buy/sell ranking are kept.
const RankingLimit = 50
