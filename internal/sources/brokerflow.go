package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"twpulse/internal/numeric"
	"twpulse/internal/textparse"
	"twpulse/pkg/contracts/domain"
)

// brokerFlowHeader is the column-label sequence the broker-flow dump prints
// above its table.
var brokerFlowHeader = []string{"券商名稱", "買進金額", "賣出金額", "差額"}

// brokerFlowMaxRows caps how many rows one header occurrence may yield.
const brokerFlowMaxRows = 6

// BrokerFlowAdapter fetches and parses the brokerage-flow ranking dump, then
// selects the target foreign brokers in page order.
type BrokerFlowAdapter struct {
	getter  Getter
	url     string
	targets []string
	logger  *slog.Logger
}

// NewBrokerFlowAdapter builds a broker-flow adapter. targets are the broker
// name substrings to keep, in desired output order.
func NewBrokerFlowAdapter(getter Getter, url string, targets []string, logger *slog.Logger) *BrokerFlowAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrokerFlowAdapter{
		getter:  getter,
		url:     url,
		targets: targets,
		logger:  logger.With(slog.String("component", "broker_flow_adapter")),
	}
}

// brokerFlowSpec parameterizes the generic table engine for the broker-flow
// dump: 4-line groups, digit-prefixed names rejected (those are security
// rows captured by mistake, not brokers).
func brokerFlowSpec() textparse.TableSpec[domain.BrokerFlowRow] {
	return textparse.TableSpec[domain.BrokerFlowRow]{
		Name:    "broker flow",
		Header:  brokerFlowHeader,
		MaxRows: brokerFlowMaxRows,
		Stop: func(group []string) bool {
			for _, cell := range group[1:] {
				if _, ok := numeric.Int(cell); !ok {
					return true
				}
			}
			return false
		},
		Row: func(group []string) (domain.BrokerFlowRow, bool) {
			name := strings.TrimSpace(group[0])
			if name == "" || startsWithDigit(name) {
				return domain.BrokerFlowRow{}, false
			}
			return domain.BrokerFlowRow{
				BrokerName: name,
				BuyAmount:  numeric.IntOr(group[1], 0),
				SellAmount: numeric.IntOr(group[2], 0),
				Diff:       numeric.IntOr(group[3], 0),
			}, true
		},
	}
}

// Fetch returns the broker-flow section: the parsed table filtered down to
// the target brokers.
func (a *BrokerFlowAdapter) Fetch(ctx context.Context) domain.Section[domain.BrokerFlowReport] {
	text, err := a.getter.GetText(ctx, a.url)
	if err != nil {
		a.logger.WarnContext(ctx, "broker flow fetch failed", slog.String("error", err.Error()))
		return domain.Fail[domain.BrokerFlowReport](fmt.Sprintf("broker flow source unavailable: %v", err))
	}

	rows, err := a.Parse(text)
	if err != nil {
		return domain.Fail[domain.BrokerFlowReport](err.Error())
	}
	return domain.Ok(domain.BrokerFlowReport{Rows: rows})
}

// Parse extracts and filters the broker rows out of an already fetched dump.
func (a *BrokerFlowAdapter) Parse(text string) ([]domain.BrokerFlowRow, error) {
	rows, err := textparse.Parse(text, brokerFlowSpec())
	if err != nil {
		switch {
		case errors.Is(err, textparse.ErrHeaderNotFound):
			return nil, errors.New("broker flow table not found, layout may have changed")
		case errors.Is(err, textparse.ErrNoRows):
			return nil, errors.New("broker flow table carried no broker rows")
		default:
			return nil, err
		}
	}

	if len(a.targets) == 0 {
		return rows, nil
	}
	picked := pickBrokers(rows, a.targets)
	if len(picked) == 0 {
		return nil, errors.New("broker flow table found but none of the target brokers present")
	}
	return picked, nil
}

// pickBrokers keeps the first row matching each target substring, in target
// order; absent targets are simply skipped.
func pickBrokers(rows []domain.BrokerFlowRow, targets []string) []domain.BrokerFlowRow {
	picked := make([]domain.BrokerFlowRow, 0, len(targets))
	for _, target := range targets {
		for _, row := range rows {
			if strings.Contains(row.BrokerName, target) {
				picked = append(picked, row)
				break
			}
		}
	}
	return picked
}

func startsWithDigit(s string) bool {
	return s[0] >= '0' && s[0] <= '9'
}
