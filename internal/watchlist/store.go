package watchlist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	apperrors "twpulse/internal/errors"
	"twpulse/pkg/contracts/domain"
)

const keyPrefix = "twpulse:watchlist:"

// Store persists each client's extension set in Redis. The pipeline only
// reads it, once per invocation; writes happen exclusively on explicit user
// apply/clear actions, so there are no write/write races to manage.
type Store struct {
	client *redis.Client
	logger *slog.Logger
}

// NewStore wraps an already configured Redis client.
func NewStore(client *redis.Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		logger: logger.With(slog.String("component", "watchlist_store")),
	}
}

func key(clientID string) string {
	return keyPrefix + clientID
}

// Get returns the persisted extension set for clientID; a missing key is an
// empty set, not an error.
func (s *Store) Get(ctx context.Context, clientID string) ([]domain.TickerID, error) {
	val, err := s.client.Get(ctx, key(clientID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("watchlist get %s", clientID), err)
	}
	if val == "" {
		return nil, nil
	}

	parts := strings.Split(val, ",")
	tickers := make([]domain.TickerID, 0, len(parts))
	for _, p := range parts {
		if ticker, ok := domain.ParseTickerID(p); ok {
			tickers = append(tickers, ticker)
		}
	}
	return tickers, nil
}

// Put replaces clientID's extension set. Callers are expected to have
// normalized the set already; Put stores at most MaxEntries regardless.
func (s *Store) Put(ctx context.Context, clientID string, tickers []domain.TickerID) error {
	if len(tickers) > MaxEntries {
		tickers = tickers[:MaxEntries]
	}
	parts := make([]string, len(tickers))
	for i, t := range tickers {
		parts[i] = t.String()
	}

	if err := s.client.Set(ctx, key(clientID), strings.Join(parts, ","), 0).Err(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("watchlist put %s", clientID), err)
	}
	s.logger.InfoContext(ctx, "watchlist updated",
		slog.String("client", clientID),
		slog.Int("entries", len(tickers)))
	return nil
}

// Clear removes clientID's extension set.
func (s *Store) Clear(ctx context.Context, clientID string) error {
	if err := s.client.Del(ctx, key(clientID)).Err(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("watchlist clear %s", clientID), err)
	}
	s.logger.InfoContext(ctx, "watchlist cleared", slog.String("client", clientID))
	return nil
}
