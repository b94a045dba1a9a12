package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	svc := NewHealthService("1.0.0", "", nil, nil, 0, testLogger())

	status := svc.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestLivenessCheck(t *testing.T) {
	svc := NewHealthService("1.0.0", "", nil, nil, 0, testLogger())

	status := svc.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Contains(t, status.Runtime, "go_version")
	assert.Contains(t, status.Runtime, "goroutines")
}

func TestReadinessCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	snapshots := NewSnapshotService(&fakeBuilder{snap: testSnapshot()}, time.Minute, nil, testLogger())
	svc := NewHealthService("1.0.0", "", snapshots, client, 0, testLogger())
	ctx := context.Background()

	// Before the first build the service is not ready.
	status := svc.ReadinessCheck(ctx)
	assert.Equal(t, "not_ready", status.Status)

	snapshots.Refresh(ctx)

	status = svc.ReadinessCheck(ctx)
	assert.Equal(t, "ready", status.Status)

	snapshot, ok := status.Services["snapshot"].(ServiceHealth)
	require.True(t, ok)
	assert.Equal(t, "ready", snapshot.Status)
	assert.Contains(t, snapshot.Message, "2025-12-30")

	// A Redis outage degrades the watchlist check but not overall readiness.
	mr.Close()
	status = svc.ReadinessCheck(ctx)
	assert.Equal(t, "ready", status.Status)

	wl, ok := status.Services["watchlist"].(ServiceHealth)
	require.True(t, ok)
	assert.Equal(t, "degraded", wl.Status)
}

func TestReadinessCheckStaleSnapshot(t *testing.T) {
	snapshots := NewSnapshotService(&fakeBuilder{snap: testSnapshot()}, time.Minute, nil, testLogger())
	snapshots.Refresh(context.Background())

	// Any non-zero age exceeds a 1ns staleness bound.
	svc := NewHealthService("1.0.0", "", snapshots, nil, time.Nanosecond, testLogger())

	status := svc.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)

	snapshot, ok := status.Services["snapshot"].(ServiceHealth)
	require.True(t, ok)
	assert.Contains(t, snapshot.Message, "stale")
}

func TestVersionInfo(t *testing.T) {
	svc := NewHealthService("1.2.3", "2026-01-15T00:00:00Z", nil, nil, 0, testLogger())

	info := svc.Version()
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "2026-01-15T00:00:00Z", info["build_time"])
	assert.Contains(t, info, "go_version")
	assert.Contains(t, info, "start_time")
}
