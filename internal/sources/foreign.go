package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"twpulse/internal/derive"
	"twpulse/internal/numeric"
	"twpulse/pkg/contracts/domain"
)

// foreignFlowResponse is the institutional-investor daily table: a field
// list plus positional rows. Field labels drift between two known variants
// ("外陸資..." vs "外資..."), so columns are located by substring.
type foreignFlowResponse struct {
	Stat   string     `json:"stat"`
	Fields []string   `json:"fields"`
	Data   [][]string `json:"data"`
}

// ForeignFlowAdapter fetches the whole market's foreign net flow for one
// trading day in a single request. Fetching the full map is both sturdier
// than per-ticker requests and what makes watchlist tickers free to serve.
type ForeignFlowAdapter struct {
	getter  Getter
	baseURL string
	logger  *slog.Logger
}

// NewForeignFlowAdapter builds a foreign-flow adapter against the given feed
// endpoint.
func NewForeignFlowAdapter(getter Getter, baseURL string, logger *slog.Logger) *ForeignFlowAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForeignFlowAdapter{
		getter:  getter,
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "foreign_flow_adapter")),
	}
}

// FetchMap returns ticker -> foreign flow for the trading day ymd.
func (a *ForeignFlowAdapter) FetchMap(ctx context.Context, ymd string) domain.Section[map[domain.TickerID]domain.ForeignFlow] {
	type flowMap = map[domain.TickerID]domain.ForeignFlow

	url := fmt.Sprintf("%s?response=json&date=%s&selectType=ALL", a.baseURL, ymd)

	var resp foreignFlowResponse
	if err := a.getter.GetJSON(ctx, url, &resp); err != nil {
		a.logger.WarnContext(ctx, "foreign flow fetch failed", slog.String("error", err.Error()))
		return domain.Fail[flowMap](fmt.Sprintf("foreign flow feed unavailable: %v", err))
	}

	if strings.ToUpper(strings.TrimSpace(resp.Stat)) != "OK" {
		return domain.Fail[flowMap](fmt.Sprintf("foreign flow feed stat=%s", resp.Stat))
	}

	idxCode := findField(resp.Fields, "證券代號")
	idxBuy := findField(resp.Fields, "外陸資買進股數", "外資買進股數")
	idxSell := findField(resp.Fields, "外陸資賣出股數", "外資賣出股數")
	idxNet := findField(resp.Fields, "外陸資買賣超股數", "外資買賣超股數")

	if idxCode < 0 || idxBuy < 0 || idxSell < 0 {
		return domain.Fail[flowMap]("foreign flow feed layout changed: expected columns not found")
	}

	flows := make(flowMap, len(resp.Data))
	asOf := FormatISO(ymd)
	for _, row := range resp.Data {
		if idxCode >= len(row) {
			continue
		}
		code := strings.TrimSpace(row[idxCode])
		ticker, ok := domain.ParseTickerID(code)
		if !ok {
			continue
		}

		buy := cellInt(row, idxBuy)
		sell := cellInt(row, idxSell)
		var reported *int64
		if idxNet >= 0 && idxNet < len(row) {
			if v, ok := numeric.Int(row[idxNet]); ok {
				reported = &v
			}
		}
		net := derive.NetShares(buy, sell, reported)

		flows[ticker] = domain.ForeignFlow{
			Ticker:     ticker,
			BuyShares:  buy,
			SellShares: sell,
			NetShares:  net,
			NetLots:    derive.NetLotsFromShares(net),
			AsOfDate:   asOf,
		}
	}

	if len(flows) == 0 {
		return domain.Fail[flowMap]("foreign flow feed returned no rows")
	}
	return domain.Ok(flows)
}

// findField returns the index of the first field containing any of the
// patterns, or -1.
func findField(fields []string, patterns ...string) int {
	for _, p := range patterns {
		for i, f := range fields {
			if strings.Contains(f, p) {
				return i
			}
		}
	}
	return -1
}

func cellInt(row []string, idx int) int64 {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	return numeric.IntOr(row[idx], 0)
}
