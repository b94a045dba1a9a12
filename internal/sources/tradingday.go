package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// taipei is the exchange's timezone; "today" is always evaluated there.
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

const ymdLayout = "20060102"

// TradingDayLocator discovers the latest and previous trading days by probing
// the exchange index endpoint backwards from today. Non-trading days answer
// with a non-OK stat; a probe error counts as non-trading rather than
// aborting discovery.
type TradingDayLocator struct {
	getter   Getter
	indexURL string
	lookback int
	now      func() time.Time
	logger   *slog.Logger
}

// NewTradingDayLocator builds a locator probing at most lookback calendar
// days into the past.
func NewTradingDayLocator(getter Getter, indexURL string, lookback int, logger *slog.Logger) *TradingDayLocator {
	if lookback <= 0 {
		lookback = 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TradingDayLocator{
		getter:   getter,
		indexURL: indexURL,
		lookback: lookback,
		now:      func() time.Time { return time.Now().In(taipei) },
		logger:   logger.With(slog.String("component", "trading_day")),
	}
}

// Resolve returns the latest and previous trading days as YYYYMMDD strings.
// When no trading day answers within the lookback window the calendar days
// themselves are the fallback, so a caller always gets usable keys.
func (l *TradingDayLocator) Resolve(ctx context.Context) (latest, prev string) {
	today := l.now()

	for i := 0; i < l.lookback; i++ {
		ymd := today.AddDate(0, 0, -i).Format(ymdLayout)
		if l.isTradingDay(ctx, ymd) {
			latest = ymd
			break
		}
	}
	if latest == "" {
		latest = today.Format(ymdLayout)
		l.logger.WarnContext(ctx, "no trading day found in lookback window, using today",
			slog.String("latest", latest))
	}

	latestDate, _ := time.ParseInLocation(ymdLayout, latest, taipei)
	for i := 1; i <= l.lookback; i++ {
		ymd := latestDate.AddDate(0, 0, -i).Format(ymdLayout)
		if l.isTradingDay(ctx, ymd) {
			prev = ymd
			break
		}
	}
	if prev == "" {
		prev = latestDate.AddDate(0, 0, -1).Format(ymdLayout)
	}

	l.logger.InfoContext(ctx, "trading days resolved",
		slog.String("latest", latest),
		slog.String("prev", prev))
	return latest, prev
}

func (l *TradingDayLocator) isTradingDay(ctx context.Context, ymd string) bool {
	var payload struct {
		Stat string `json:"stat"`
	}
	url := fmt.Sprintf("%s?response=json&type=ALLBUT0999&date=%s", l.indexURL, ymd)
	if err := l.getter.GetJSON(ctx, url, &payload); err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(payload.Stat), "ok")
}

// FormatISO converts a YYYYMMDD key to YYYY-MM-DD for presentation metadata.
func FormatISO(ymd string) string {
	t, err := time.ParseInLocation(ymdLayout, ymd, taipei)
	if err != nil {
		return ymd
	}
	return t.Format("2006-01-02")
}

// ToROCDate converts a YYYYMMDD key to the Republic-of-China-era form the
// quote history feed keys its rows by, e.g. "20251230" -> "114/12/30".
func ToROCDate(ymd string) (string, error) {
	t, err := time.ParseInLocation(ymdLayout, ymd, taipei)
	if err != nil {
		return "", fmt.Errorf("bad trading day key %q: %w", ymd, err)
	}
	return fmt.Sprintf("%d/%02d/%02d", t.Year()-1911, int(t.Month()), t.Day()), nil
}
