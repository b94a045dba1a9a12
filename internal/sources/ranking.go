package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"twpulse/internal/numeric"
	"twpulse/internal/textparse"
	"twpulse/pkg/contracts/domain"
)

// rankingHeader is the dual-table header: the buy-side and sell-side column
// labels printed back to back.
var rankingHeader = []string{
	"名次", "股票名稱", "買超張數", "收盤價", "漲跌",
	"名次", "股票名稱", "賣超張數", "收盤價", "漲跌",
}

const (
	rankingSideWidth = 5
	rankingMaxRows   = 50
)

// dateHintPattern captures the "日期：MM/DD" line the ranking dump carries.
var dateHintPattern = regexp.MustCompile(`日期[:：]\s*(\d{1,2}/\d{1,2})`)

// rankingPair is one parsed line group: the buy and sell sub-rows at the same
// rank index. Either side may be absent; the sides are admitted independently
// because the source truncates them independently.
type rankingPair struct {
	buy  *domain.RankingRow
	sell *domain.RankingRow
}

// RankingAdapter fetches and parses the dual buy/sell ranking dump.
type RankingAdapter struct {
	getter Getter
	url    string
	logger *slog.Logger
}

// NewRankingAdapter builds a ranking adapter against the given dump URL.
func NewRankingAdapter(getter Getter, url string, logger *slog.Logger) *RankingAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingAdapter{
		getter: getter,
		url:    url,
		logger: logger.With(slog.String("component", "ranking_adapter")),
	}
}

func rankingSpec() textparse.TableSpec[rankingPair] {
	return textparse.TableSpec[rankingPair]{
		Name:    "ranking",
		Header:  rankingHeader,
		MaxRows: rankingMaxRows,
		Stop: func(group []string) bool {
			// A group is still data while at least one side carries a
			// numeric rank.
			_, buyOK := numeric.Int(group[0])
			_, sellOK := numeric.Int(group[rankingSideWidth])
			return !buyOK && !sellOK
		},
		Row: func(group []string) (rankingPair, bool) {
			pair := rankingPair{
				buy:  parseRankingSide(group[:rankingSideWidth]),
				sell: parseRankingSide(group[rankingSideWidth:]),
			}
			return pair, pair.buy != nil || pair.sell != nil
		},
	}
}

// parseRankingSide converts one 5-cell side into a row, or nil when the side
// is blank or its rank does not parse.
func parseRankingSide(cells []string) *domain.RankingRow {
	rank, ok := numeric.Int(cells[0])
	if !ok {
		return nil
	}
	name := strings.TrimSpace(cells[1])
	if name == "" {
		return nil
	}
	return &domain.RankingRow{
		Rank:    int(rank),
		Name:    name,
		NetLots: numeric.FloatOr(cells[2], 0),
		Close:   numeric.FloatOr(cells[3], 0),
		Change:  numeric.FloatOr(cells[4], 0),
	}
}

// Fetch returns the ranking section.
func (a *RankingAdapter) Fetch(ctx context.Context) domain.Section[domain.RankingTable] {
	text, err := a.getter.GetText(ctx, a.url)
	if err != nil {
		a.logger.WarnContext(ctx, "ranking fetch failed", slog.String("error", err.Error()))
		return domain.Fail[domain.RankingTable](fmt.Sprintf("ranking source unavailable: %v", err))
	}

	table, err := a.Parse(text)
	if err != nil {
		return domain.Fail[domain.RankingTable](err.Error())
	}
	return domain.Ok(table)
}

// Parse extracts the dual ranking table out of an already fetched dump.
func (a *RankingAdapter) Parse(text string) (domain.RankingTable, error) {
	pairs, err := textparse.Parse(text, rankingSpec())
	if err != nil {
		switch {
		case errors.Is(err, textparse.ErrHeaderNotFound):
			return domain.RankingTable{}, errors.New("ranking table not found, layout may have changed")
		case errors.Is(err, textparse.ErrNoRows):
			return domain.RankingTable{}, errors.New("ranking table carried no rows")
		default:
			return domain.RankingTable{}, err
		}
	}

	table := domain.RankingTable{DateHint: extractDateHint(text)}
	for _, pair := range pairs {
		if pair.buy != nil {
			table.Buy = append(table.Buy, *pair.buy)
		}
		if pair.sell != nil {
			table.Sell = append(table.Sell, *pair.sell)
		}
	}
	return table, nil
}

func extractDateHint(text string) string {
	m := dateHintPattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
