package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	snapshots *SnapshotService
	redis     *redis.Client
	stalePer  time.Duration
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. stalePeriod is how old the
// cached snapshot may be before readiness degrades; zero disables the check.
func NewHealthService(version, buildTime string, snapshots *SnapshotService, redisClient *redis.Client, stalePeriod time.Duration, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		snapshots: snapshots,
		redis:     redisClient,
		stalePer:  stalePeriod,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	snapshot := hs.checkSnapshotHealth()
	status.Services["snapshot"] = snapshot
	// A Redis outage only degrades watchlist extensions; the fixed universe
	// still serves, so only the snapshot check gates readiness.
	status.Services["watchlist"] = hs.checkWatchlistHealth(ctx)

	if snapshot.Status != "ready" {
		status.Status = "not_ready"
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

// checkSnapshotHealth verifies a snapshot exists and is not stale.
func (hs *HealthService) checkSnapshotHealth() ServiceHealth {
	snap, err := hs.snapshots.Current()
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "no snapshot built yet",
		}
	}

	age := time.Since(snap.GeneratedAt)
	if hs.stalePer > 0 && age > hs.stalePer {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("snapshot stale: generated %s ago", age.Round(time.Second)),
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("snapshot for %s", snap.LatestTradingDay),
	}
}

// checkWatchlistHealth pings the Redis backing store.
func (hs *HealthService) checkWatchlistHealth(ctx context.Context) ServiceHealth {
	if hs.redis == nil {
		return ServiceHealth{
			Status:  "ready",
			Message: "watchlist store disabled",
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := hs.redis.Ping(pingCtx).Err(); err != nil {
		hs.logger.WarnContext(ctx, "watchlist store ping failed",
			slog.String("error", err.Error()))
		return ServiceHealth{
			Status:  "degraded",
			Message: fmt.Sprintf("redis unreachable: %v", err),
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: "watchlist store reachable",
	}
}
