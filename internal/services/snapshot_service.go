package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"twpulse/internal/infrastructure"
	"twpulse/pkg/contracts/domain"
)

// SnapshotBuilder produces one complete fixed-universe snapshot per call.
// Satisfied by pipeline.SnapshotBuilder.
type SnapshotBuilder interface {
	Build(ctx context.Context) *domain.Snapshot
}

// SnapshotService owns the cached fixed-universe snapshot and its refresh
// cycle. One build runs at a time; readers always see the last complete
// snapshot, never a half-built one.
type SnapshotService struct {
	builder SnapshotBuilder
	period  time.Duration
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger

	mu      sync.RWMutex
	current *domain.Snapshot
}

// NewSnapshotService creates a snapshot service around the given builder.
// period is the automatic refresh interval used by Run.
func NewSnapshotService(builder SnapshotBuilder, period time.Duration, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *SnapshotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotService{
		builder: builder,
		period:  period,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "snapshot_service")),
	}
}

// Refresh runs one full build cycle and publishes the result.
func (s *SnapshotService) Refresh(ctx context.Context) *domain.Snapshot {
	start := time.Now()
	snap := s.builder.Build(ctx)

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	infrastructure.RecordSnapshotBuild(ctx, s.metrics, time.Since(start), countFailedSections(snap))
	return snap
}

// Current returns the most recent complete snapshot.
func (s *SnapshotService) Current() (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNoSnapshot
	}
	return s.current, nil
}

// Run refreshes immediately, then on every tick until the context ends.
func (s *SnapshotService) Run(ctx context.Context) {
	s.Refresh(ctx)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "snapshot refresh loop stopped")
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Save writes the current snapshot as indented JSON to path, creating parent
// directories as needed.
func (s *SnapshotService) Save(ctx context.Context, path string) error {
	snap, err := s.Current()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "snapshot saved",
		slog.String("path", path),
		slog.Int("bytes", len(data)))
	return nil
}

// countFailedSections tallies the failed sections of a snapshot for the
// build metric.
func countFailedSections(snap *domain.Snapshot) int {
	failed := 0
	for _, entry := range snap.Stocks {
		if !entry.Quote.OK() {
			failed++
		}
		if !entry.Foreign.OK() {
			failed++
		}
	}
	for _, section := range snap.Futures {
		if !section.OK() {
			failed++
		}
	}
	if !snap.BrokerFlow.OK() {
		failed++
	}
	if !snap.Ranking.OK() {
		failed++
	}
	return failed
}
