package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "twpulse/internal/errors"
	"twpulse/internal/services"
	"twpulse/pkg/contracts/domain"
)

// mockSnapshotService implements SnapshotServiceInterface.
type mockSnapshotService struct {
	snap     *domain.Snapshot
	refreshs int
}

func (m *mockSnapshotService) Current() (*domain.Snapshot, error) {
	if m.snap == nil {
		return nil, services.ErrNoSnapshot
	}
	return m.snap, nil
}

func (m *mockSnapshotService) Refresh(ctx context.Context) *domain.Snapshot {
	m.refreshs++
	if m.snap == nil {
		m.snap = &domain.Snapshot{GeneratedAt: time.Now(), LatestTradingDay: "2025-12-30"}
	}
	return m.snap
}

func setupSnapshotRouter(svc SnapshotServiceInterface) chi.Router {
	logger := testLogger()
	handler := NewSnapshotHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api/snapshot", handler.Routes())
	return r
}

func TestGetSnapshot(t *testing.T) {
	svc := &mockSnapshotService{snap: &domain.Snapshot{
		GeneratedAt:      time.Now(),
		LatestTradingDay: "2025-12-30",
		Stocks: map[domain.TickerID]domain.StockEntry{
			"2330": {Quote: domain.Ok(domain.Quote{Ticker: "2330", Close: 1100})},
		},
	}}
	router := setupSnapshotRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "2025-12-30", snap.LatestTradingDay)
	assert.Contains(t, snap.Stocks, domain.TickerID("2330"))
}

func TestGetSnapshotBeforeFirstBuild(t *testing.T) {
	router := setupSnapshotRouter(&mockSnapshotService{})

	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Snapshot Unavailable")
}

func TestRefreshSnapshot(t *testing.T) {
	svc := &mockSnapshotService{}
	router := setupSnapshotRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/snapshot/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.refreshs)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "2025-12-30", snap.LatestTradingDay)
}
