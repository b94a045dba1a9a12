package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// tradingDayServer answers OK only for the given set of trading days.
func tradingDayServer(trading map[string]bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stat := "很抱歉，沒有符合條件的資料!"
		if trading[r.URL.Query().Get("date")] {
			stat = "OK"
		}
		json.NewEncoder(w).Encode(map[string]string{"stat": stat})
	}))
}

func fixedNow(ymd string) func() time.Time {
	t, _ := time.ParseInLocation(ymdLayout, ymd, taipei)
	return func() time.Time { return t }
}

func TestTradingDayResolve(t *testing.T) {
	// Sunday 2026-01-04; Friday 01-02 and Wednesday 12-31 traded, Thursday
	// 01-01 was a holiday.
	srv := tradingDayServer(map[string]bool{
		"20260102": true,
		"20251231": true,
		"20251230": true,
	})
	defer srv.Close()

	locator := NewTradingDayLocator(testFetcher(), srv.URL, 20, nil)
	locator.now = fixedNow("20260104")

	latest, prev := locator.Resolve(context.Background())
	assert.Equal(t, "20260102", latest)
	assert.Equal(t, "20251231", prev)
}

func TestTradingDayResolveFallsBackToCalendarDays(t *testing.T) {
	// Nothing answers OK; calendar days stand in so callers still get keys.
	srv := tradingDayServer(nil)
	defer srv.Close()

	locator := NewTradingDayLocator(testFetcher(), srv.URL, 3, nil)
	locator.now = fixedNow("20260104")

	latest, prev := locator.Resolve(context.Background())
	assert.Equal(t, "20260104", latest)
	assert.Equal(t, "20260103", prev)
}

func TestTradingDayProbeErrorCountsAsNonTrading(t *testing.T) {
	srv := tradingDayServer(map[string]bool{"20260102": true})
	locator := NewTradingDayLocator(testFetcher(), srv.URL, 5, nil)
	locator.now = fixedNow("20260104")

	// Kill the upstream mid-discovery: probes error, discovery still returns.
	srv.Close()
	latest, prev := locator.Resolve(context.Background())
	assert.Equal(t, "20260104", latest)
	assert.Equal(t, "20260103", prev)
}
