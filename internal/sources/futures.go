package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"twpulse/internal/textparse"
	"twpulse/pkg/contracts/domain"
)

// allContractsMarker labels the aggregate row of the large-trader report;
// per-maturity rows above it are deliberately discarded.
const allContractsMarker = "所有契約"

// noDataMarker is what the report prints for products without positions.
const noDataMarker = "查無資料"

// futuresTokenBudget bounds how far past the marker line the parser scans
// for the aggregate row's numbers; dumps occasionally wrap the row.
const futuresTokenBudget = 15

// FuturesAdapter fetches the large-trader open-interest report for a
// single-stock futures product and extracts the all-contracts aggregate row.
type FuturesAdapter struct {
	getter   Getter
	baseURL  string
	products map[domain.TickerID]string
	logger   *slog.Logger
}

// NewFuturesAdapter builds a futures adapter. products maps tickers to their
// single-stock futures product names; tickers outside the map have no listed
// product and always fail with an explicit reason.
func NewFuturesAdapter(getter Getter, baseURL string, products map[domain.TickerID]string, logger *slog.Logger) *FuturesAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FuturesAdapter{
		getter:   getter,
		baseURL:  baseURL,
		products: products,
		logger:   logger.With(slog.String("component", "futures_adapter")),
	}
}

// Products returns the configured ticker -> product catalog.
func (a *FuturesAdapter) Products() map[domain.TickerID]string {
	return a.products
}

// Fetch returns the futures section for ticker on the trading day ymd.
func (a *FuturesAdapter) Fetch(ctx context.Context, ymd string, ticker domain.TickerID) domain.Section[domain.FuturesPosition] {
	product, ok := a.products[ticker]
	if !ok {
		return domain.Fail[domain.FuturesPosition](fmt.Sprintf("no futures product listed for %s", ticker))
	}

	reportURL := fmt.Sprintf("%s?queryDate=%s&contract=%s", a.baseURL, ymd, url.QueryEscape(product))
	text, err := a.getter.GetText(ctx, reportURL)
	if err != nil {
		a.logger.WarnContext(ctx, "futures fetch failed",
			slog.String("ticker", ticker.String()), slog.String("error", err.Error()))
		return domain.Fail[domain.FuturesPosition](fmt.Sprintf("futures report unavailable: %v", err))
	}

	pos, reason := parseFuturesReport(text, product)
	if reason != "" {
		return domain.Fail[domain.FuturesPosition](reason)
	}
	pos.Ticker = ticker
	pos.Product = product
	pos.AsOfDate = FormatISO(ymd)
	return domain.Ok(pos)
}

// parseFuturesReport locates the all-contracts row and pulls out the tier
// totals: top-5 long/short, top-10 long/short, then open interest. Percent
// shares interleaved in the row are skipped. An empty reason means success.
func parseFuturesReport(text, product string) (domain.FuturesPosition, string) {
	if strings.Contains(text, noDataMarker) {
		return domain.FuturesPosition{}, fmt.Sprintf("futures report has no data for %s", product)
	}

	lines := textparse.SplitLines(text)
	marker := -1
	for i, line := range lines {
		if strings.Contains(strings.ReplaceAll(line, " ", ""), allContractsMarker) {
			marker = i
			break
		}
	}
	if marker < 0 {
		return domain.FuturesPosition{}, fmt.Sprintf("futures report aggregate row not found for %s", product)
	}

	var nums []int64
	for i := marker; i < len(lines) && i < marker+futuresTokenBudget && len(nums) < 5; i++ {
		nums = append(nums, rowNumbers(lines[i], 5-len(nums))...)
	}
	if len(nums) < 5 {
		return domain.FuturesPosition{}, fmt.Sprintf("futures report row layout changed for %s", product)
	}

	return domain.FuturesPosition{
		Top5:         domain.NewPositionTier(nums[0], nums[1]),
		Top10:        domain.NewPositionTier(nums[2], nums[3]),
		OpenInterest: nums[4],
	}, ""
}

// rowNumbers extracts up to max plain integer tokens from one line. Tokens
// carrying a percent sign or parentheses are the tier's market-share columns
// and are not position counts.
func rowNumbers(line string, max int) []int64 {
	var nums []int64
	for _, tok := range strings.Fields(line) {
		if len(nums) >= max {
			break
		}
		if strings.ContainsAny(tok, "%()（）") {
			continue
		}
		tok = strings.ReplaceAll(tok, ",", "")
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			continue
		}
		nums = append(nums, v)
	}
	return nums
}
