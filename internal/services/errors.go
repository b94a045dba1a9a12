package services

import "errors"

// Service-level errors
var (
	// Snapshot errors
	ErrNoSnapshot = errors.New("no snapshot built yet")

	// Watchlist errors
	ErrWatchlistUnavailable = errors.New("watchlist store unavailable")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
