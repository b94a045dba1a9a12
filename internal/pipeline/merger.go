package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"twpulse/internal/classify"
	"twpulse/internal/sources"
	"twpulse/pkg/contracts/domain"
)

// Merger combines the fixed universe (from the snapshot) with a client's
// extension set into one ordered card sequence: fixed entities first in
// canonical order, then extension entities in input order. Per-entity and
// per-section failures stay isolated.
type Merger struct {
	quotes  *sources.QuoteAdapter
	foreign *sources.ForeignFlowAdapter
	futures *sources.FuturesAdapter
	logger  *slog.Logger
}

// NewMerger wires a merger over the adapters used for extension tickers.
func NewMerger(quotes *sources.QuoteAdapter, foreign *sources.ForeignFlowAdapter, futures *sources.FuturesAdapter, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{
		quotes:  quotes,
		foreign: foreign,
		futures: futures,
		logger:  logger.With(slog.String("component", "merger")),
	}
}

// Merge realizes the full card list. fixed is the canonical fixed-universe
// order; extension is assumed already normalized (validated, deduplicated,
// bounded). The extension tickers run through the same adapter -> derive ->
// classify pipeline as the fixed ones.
func (m *Merger) Merge(ctx context.Context, snap *domain.Snapshot, fixed, extension []domain.TickerID) domain.CardList {
	list := domain.CardList{
		GeneratedAt:      snap.GeneratedAt,
		LatestTradingDay: snap.LatestTradingDay,
		PrevTradingDay:   snap.PrevTradingDay,
		Cards:            make([]domain.Card, 0, len(fixed)+len(extension)),
	}

	for _, ticker := range fixed {
		entry := snap.Stocks[ticker]
		list.Cards = append(list.Cards, buildCard(ticker, domain.CardOriginFixed, entry.Quote, entry.Foreign, snap.Futures[ticker]))
	}

	if len(extension) == 0 {
		return list
	}

	ymd := strings.ReplaceAll(snap.LatestTradingDay, "-", "")

	// One whole-market flow fetch serves every extension ticker.
	flows := m.foreign.FetchMap(ctx, ymd)

	for _, ticker := range extension {
		quote := m.quotes.Fetch(ctx, ymd, ticker)
		foreign := flowSection(flows, ticker)
		futures := m.futures.Fetch(ctx, ymd, ticker)
		list.Cards = append(list.Cards, buildCard(ticker, domain.CardOriginWatchlist, quote, foreign, futures))
	}
	return list
}

// buildCard derives the classification fields and assembles the view-model.
// A failed quote section leaves the trend nil; a failed foreign section
// leaves the flow tag empty.
func buildCard(
	ticker domain.TickerID,
	origin domain.CardOrigin,
	quote domain.Section[domain.Quote],
	foreign domain.Section[domain.ForeignFlow],
	futures domain.Section[domain.FuturesPosition],
) domain.Card {
	card := domain.Card{
		Ticker:  ticker,
		Origin:  origin,
		Quote:   quote,
		Foreign: foreign,
		Futures: futures,
	}

	if q, ok := quote.Get(); ok {
		card.Name = q.Name
		trend := classify.Trend(q.Change, q.ChangePercent)
		card.Trend = &trend
	}
	if f, ok := foreign.Get(); ok {
		card.FlowTag = classify.ForeignFlowTag(f.NetLots)
	}
	return card
}
