package services

import (
	"context"
	"fmt"
	"log/slog"

	"twpulse/internal/infrastructure"
	"twpulse/internal/pipeline"
	"twpulse/internal/watchlist"
	"twpulse/pkg/contracts/domain"
)

// CardService realizes per-client card lists: the fixed universe from the
// cached snapshot, extended with the client's persisted watchlist. Every
// realization runs under a sequencer generation so that results of
// superseded invocations never overwrite newer ones.
type CardService struct {
	snapshots *SnapshotService
	merger    *pipeline.Merger
	sequencer *pipeline.Sequencer
	store     *watchlist.Store
	fixed     []domain.TickerID
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewCardService wires a card service over the snapshot cache, the
// extension-ticker merger and the watchlist store.
func NewCardService(
	snapshots *SnapshotService,
	merger *pipeline.Merger,
	sequencer *pipeline.Sequencer,
	store *watchlist.Store,
	fixed []domain.TickerID,
	metrics *infrastructure.BusinessMetrics,
	logger *slog.Logger,
) *CardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardService{
		snapshots: snapshots,
		merger:    merger,
		sequencer: sequencer,
		store:     store,
		fixed:     fixed,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "card_service")),
	}
}

// Cards builds the card list for clientID. A watchlist store outage degrades
// to the fixed universe instead of failing the whole request. Generations are
// keyed per client; when a newer invocation for the same client supersedes
// this one mid-flight, that client's newer committed list is returned instead
// of the stale build. Other clients' requests never supersede this one.
func (s *CardService) Cards(ctx context.Context, clientID string) (*domain.CardList, error) {
	gen := s.sequencer.Begin(clientID)

	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	extension, err := s.store.Get(ctx, clientID)
	if err != nil {
		s.logger.WarnContext(ctx, "watchlist unavailable, serving fixed universe only",
			slog.String("client", clientID),
			slog.String("error", err.Error()))
		extension = nil
	}

	list := s.merger.Merge(ctx, snap, s.fixed, extension)

	if !s.sequencer.Commit(clientID, gen, &list) {
		infrastructure.RecordStaleGeneration(ctx, s.metrics, clientID)
		s.logger.InfoContext(ctx, "card list superseded",
			slog.String("client", clientID),
			slog.Uint64("generation", uint64(gen)))
		if current, ok := s.sequencer.Current(clientID); ok {
			return current, nil
		}
	}
	return &list, nil
}

// Watchlist returns clientID's persisted extension set.
func (s *CardService) Watchlist(ctx context.Context, clientID string) ([]domain.TickerID, error) {
	tickers, err := s.store.Get(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatchlistUnavailable, err)
	}
	return tickers, nil
}

// ApplyWatchlist normalizes raw ticker input and persists the accepted set
// for clientID. Invalid entries, duplicates and fixed-universe members are
// dropped silently; the accepted set is returned for the response body.
func (s *CardService) ApplyWatchlist(ctx context.Context, clientID string, raw []string) ([]domain.TickerID, error) {
	accepted := watchlist.Normalize(raw, s.fixed)

	if err := s.store.Put(ctx, clientID, accepted); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatchlistUnavailable, err)
	}

	s.logger.InfoContext(ctx, "watchlist applied",
		slog.String("client", clientID),
		slog.Int("submitted", len(raw)),
		slog.Int("accepted", len(accepted)))
	return accepted, nil
}

// ClearWatchlist removes clientID's extension set.
func (s *CardService) ClearWatchlist(ctx context.Context, clientID string) error {
	if err := s.store.Clear(ctx, clientID); err != nil {
		return fmt.Errorf("%w: %v", ErrWatchlistUnavailable, err)
	}
	return nil
}
