package http

import (
	"context"

	"twpulse/pkg/contracts/domain"
)

// CardServiceInterface is the card/watchlist surface the handlers depend on.
// Implemented by services.CardService.
type CardServiceInterface interface {
	Cards(ctx context.Context, clientID string) (*domain.CardList, error)
	Watchlist(ctx context.Context, clientID string) ([]domain.TickerID, error)
	ApplyWatchlist(ctx context.Context, clientID string, raw []string) ([]domain.TickerID, error)
	ClearWatchlist(ctx context.Context, clientID string) error
}

// SnapshotServiceInterface exposes the cached snapshot to the handlers.
// Implemented by services.SnapshotService.
type SnapshotServiceInterface interface {
	Current() (*domain.Snapshot, error)
	Refresh(ctx context.Context) *domain.Snapshot
}
