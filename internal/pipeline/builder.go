package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"twpulse/internal/sources"
	"twpulse/pkg/contracts/domain"
)

// SnapshotBuilder runs one full fixed-universe ingestion cycle. Sections are
// fetched independently; a dead source lands as a Failure reason in its slot
// of the snapshot and never aborts a sibling section.
type SnapshotBuilder struct {
	fixed   []domain.TickerID
	days    *sources.TradingDayLocator
	quotes  *sources.QuoteAdapter
	foreign *sources.ForeignFlowAdapter
	futures *sources.FuturesAdapter
	broker  *sources.BrokerFlowAdapter
	ranking *sources.RankingAdapter
	logger  *slog.Logger
}

// NewSnapshotBuilder wires a builder over the five source adapters.
func NewSnapshotBuilder(
	fixed []domain.TickerID,
	days *sources.TradingDayLocator,
	quotes *sources.QuoteAdapter,
	foreign *sources.ForeignFlowAdapter,
	futures *sources.FuturesAdapter,
	broker *sources.BrokerFlowAdapter,
	ranking *sources.RankingAdapter,
	logger *slog.Logger,
) *SnapshotBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotBuilder{
		fixed:   fixed,
		days:    days,
		quotes:  quotes,
		foreign: foreign,
		futures: futures,
		broker:  broker,
		ranking: ranking,
		logger:  logger.With(slog.String("component", "snapshot_builder")),
	}
}

// FixedUniverse returns the canonical fixed ticker order.
func (b *SnapshotBuilder) FixedUniverse() []domain.TickerID {
	return b.fixed
}

// Build produces a complete snapshot for the latest trading day. The
// returned document is always usable: every section either carries data or
// its failure reason.
func (b *SnapshotBuilder) Build(ctx context.Context) *domain.Snapshot {
	start := time.Now()
	latestYMD, prevYMD := b.days.Resolve(ctx)

	snap := &domain.Snapshot{
		GeneratedAt:      time.Now().UTC(),
		LatestTradingDay: sources.FormatISO(latestYMD),
		PrevTradingDay:   sources.FormatISO(prevYMD),
		Stocks:           make(map[domain.TickerID]domain.StockEntry, len(b.fixed)),
		Futures:          make(map[domain.TickerID]domain.Section[domain.FuturesPosition], len(b.fixed)),
	}

	var flows domain.Section[map[domain.TickerID]domain.ForeignFlow]
	quotes := make(map[domain.TickerID]domain.Section[domain.Quote], len(b.fixed))
	futures := make(map[domain.TickerID]domain.Section[domain.FuturesPosition], len(b.fixed))

	// Sections are independent: one errgroup member per source, per-ticker
	// fan-out inside. Adapter failures are data, so Wait never sees an error.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		flows = b.foreign.FetchMap(gctx, latestYMD)
		return nil
	})
	g.Go(func() error {
		snap.BrokerFlow = b.broker.Fetch(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Ranking = b.ranking.Fetch(gctx)
		return nil
	})

	var mu sync.Mutex
	for _, ticker := range b.fixed {
		g.Go(func() error {
			section := b.quotes.Fetch(gctx, latestYMD, ticker)
			mu.Lock()
			quotes[ticker] = section
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			section := b.futures.Fetch(gctx, latestYMD, ticker)
			mu.Lock()
			futures[ticker] = section
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	for _, ticker := range b.fixed {
		snap.Stocks[ticker] = domain.StockEntry{
			Quote:   quotes[ticker],
			Foreign: flowSection(flows, ticker),
		}
		snap.Futures[ticker] = futures[ticker]
	}

	b.logger.InfoContext(ctx, "snapshot built",
		slog.String("latest_trading_day", snap.LatestTradingDay),
		slog.Int("tickers", len(b.fixed)),
		slog.Bool("broker_flow_ok", snap.BrokerFlow.OK()),
		slog.Bool("ranking_ok", snap.Ranking.OK()),
		slog.Duration("elapsed", time.Since(start)))
	return snap
}

// flowSection narrows the whole-market flow map down to one ticker's
// section, propagating the map-level failure reason when the feed broke.
func flowSection(flows domain.Section[map[domain.TickerID]domain.ForeignFlow], ticker domain.TickerID) domain.Section[domain.ForeignFlow] {
	m, ok := flows.Get()
	if !ok {
		return domain.Fail[domain.ForeignFlow](flows.Err)
	}
	flow, found := m[ticker]
	if !found {
		return domain.Fail[domain.ForeignFlow]("no foreign flow row for " + ticker.String())
	}
	return domain.Ok(flow)
}
