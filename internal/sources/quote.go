package sources

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"twpulse/internal/derive"
	"twpulse/internal/numeric"
	"twpulse/pkg/contracts/domain"
)

// stockDayResponse is the quote history feed payload: one month of daily
// rows, each row keyed by an ROC-era date string.
type stockDayResponse struct {
	Stat   string     `json:"stat"`
	Title  string     `json:"title"`
	Data   [][]string `json:"data"`
	Fields []string   `json:"fields"`
}

// Quote history row layout: date, volume, value, open, high, low, close,
// change, trades (a trailing remark column may or may not be present).
const (
	stockDayColClose  = 6
	stockDayColChange = 7
	stockDayMinCols   = 8
)

// QuoteAdapter fetches one ticker's quote for a given trading day from the
// quote history feed. The feed returns a whole month; the adapter resolves
// the requested day inside the (possibly unordered) row set.
type QuoteAdapter struct {
	getter  Getter
	baseURL string
	logger  *slog.Logger
}

// NewQuoteAdapter builds a quote adapter against the given feed endpoint.
func NewQuoteAdapter(getter Getter, baseURL string, logger *slog.Logger) *QuoteAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteAdapter{
		getter:  getter,
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "quote_adapter")),
	}
}

// Fetch returns the quote section for ticker on the trading day ymd
// (YYYYMMDD). Every failure mode is converted into a reason string.
func (a *QuoteAdapter) Fetch(ctx context.Context, ymd string, ticker domain.TickerID) domain.Section[domain.Quote] {
	url := fmt.Sprintf("%s?response=json&date=%s&stockNo=%s", a.baseURL, ymd, ticker)

	var resp stockDayResponse
	if err := a.getter.GetJSON(ctx, url, &resp); err != nil {
		a.logger.WarnContext(ctx, "quote fetch failed",
			slog.String("ticker", ticker.String()), slog.String("error", err.Error()))
		return domain.Fail[domain.Quote](fmt.Sprintf("quote feed unavailable: %v", err))
	}

	if strings.ToUpper(strings.TrimSpace(resp.Stat)) != "OK" {
		return domain.Fail[domain.Quote](fmt.Sprintf("quote feed stat=%s", resp.Stat))
	}
	if len(resp.Data) == 0 {
		return domain.Fail[domain.Quote]("quote feed returned no rows")
	}

	roc, err := ToROCDate(ymd)
	if err != nil {
		return domain.Fail[domain.Quote](err.Error())
	}

	row := resolveDayRow(resp.Data, roc)
	if len(row) < stockDayMinCols {
		return domain.Fail[domain.Quote]("quote row layout changed")
	}

	closePrice, okClose := numeric.Float(row[stockDayColClose])
	change, okChange := numeric.Float(row[stockDayColChange])
	if !okClose || !okChange {
		return domain.Fail[domain.Quote]("quote row has no parseable close/change")
	}

	return domain.Ok(domain.Quote{
		Ticker:        ticker,
		Name:          extractName(resp.Title, ticker),
		Close:         closePrice,
		Change:        change,
		ChangePercent: derive.ChangePercentFromChange(closePrice, change),
		AsOfDate:      FormatISO(ymd),
	})
}

// resolveDayRow finds the row keyed by the ROC date; when the requested day
// is absent (partially-out-of-range result set) the last row of the window
// is the best available stand-in.
func resolveDayRow(data [][]string, roc string) []string {
	for _, row := range data {
		if len(row) > 0 && strings.TrimSpace(row[0]) == roc {
			return row
		}
	}
	if len(data) > 0 {
		return data[len(data)-1]
	}
	return nil
}

// titleNamePattern captures the company name following the ticker code in
// the feed title, e.g. "114年12月 2330 台積電 各日成交資訊".
func extractName(title string, ticker domain.TickerID) string {
	pattern, err := regexp.Compile(regexp.QuoteMeta(ticker.String()) + `\s*(\S+)`)
	if err != nil {
		return ""
	}
	m := pattern.FindStringSubmatch(title)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
