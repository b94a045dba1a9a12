package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankingDump() string {
	return strings.Join([]string{
		"外資買賣超排行",
		"日期：12/30",
		"名次", "股票名稱", "買超張數", "收盤價", "漲跌",
		"名次", "股票名稱", "賣超張數", "收盤價", "漲跌",
		"1", "2330台積電", "4,200", "1,500.00", "+20.00",
		"1", "2317鴻海", "1,500", "200.00", "-1.00",
		"2", "2303聯電", "2,000", "52.50", "+0.50",
		"2", "3231緯創", "900", "110.00", "-2.00",
		"3", "2382廣達", "800", "300.00", "+5.00",
		"-", "-", "-", "-", "-",
	}, "\n")
}

func TestRankingParse(t *testing.T) {
	adapter := NewRankingAdapter(nil, "", nil)
	table, err := adapter.Parse(rankingDump())
	require.NoError(t, err)

	assert.Equal(t, "12/30", table.DateHint)

	require.Len(t, table.Buy, 3)
	require.Len(t, table.Sell, 2)

	assert.Equal(t, 1, table.Buy[0].Rank)
	assert.Equal(t, "2330台積電", table.Buy[0].Name)
	assert.InDelta(t, 4200.0, table.Buy[0].NetLots, 1e-9)
	assert.InDelta(t, 1500.0, table.Buy[0].Close, 1e-9)
	assert.InDelta(t, 20.0, table.Buy[0].Change, 1e-9)

	assert.Equal(t, "3231緯創", table.Sell[1].Name)
	assert.InDelta(t, -2.0, table.Sell[1].Change, 1e-9)
}

func TestRankingSidesAdmittedIndependently(t *testing.T) {
	// The sell side ends one rank before the buy side; empty sell cells must
	// not drop the buy sub-row of the same group.
	dump := strings.Join([]string{
		"名次", "股票名稱", "買超張數", "收盤價", "漲跌",
		"名次", "股票名稱", "賣超張數", "收盤價", "漲跌",
		"1", "2330台積電", "100", "1,500.00", "+20.00",
		"-", "-", "-", "-", "-",
	}, "\n")

	table, err := NewRankingAdapter(nil, "", nil).Parse(dump)
	require.NoError(t, err)
	assert.Len(t, table.Buy, 1)
	assert.Empty(t, table.Sell)
}

func TestRankingParseFailures(t *testing.T) {
	adapter := NewRankingAdapter(nil, "", nil)

	_, err := adapter.Parse("今日休市\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	header := strings.Join(rankingHeader, "\n")
	_, err = adapter.Parse(header + "\n維護公告\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}

func TestRankingFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rankingDump()))
	}))
	defer srv.Close()

	section := NewRankingAdapter(testFetcher(), srv.URL, nil).Fetch(context.Background())
	table, ok := section.Get()
	require.True(t, ok, "section failed: %s", section.Err)
	assert.Len(t, table.Buy, 3)
}
