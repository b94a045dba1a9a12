package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twpulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// fakeBuilder returns a canned snapshot and counts calls.
type fakeBuilder struct {
	snap  *domain.Snapshot
	calls int
}

func (b *fakeBuilder) Build(ctx context.Context) *domain.Snapshot {
	b.calls++
	return b.snap
}

func testSnapshot() *domain.Snapshot {
	pct := 2.0
	return &domain.Snapshot{
		GeneratedAt:      time.Now(),
		LatestTradingDay: "2025-12-30",
		PrevTradingDay:   "2025-12-29",
		Stocks: map[domain.TickerID]domain.StockEntry{
			"2330": {
				Quote: domain.Ok(domain.Quote{
					Ticker:        "2330",
					Name:          "台積電",
					Close:         1100,
					Change:        22,
					ChangePercent: &pct,
					AsOfDate:      "2025-12-30",
				}),
				Foreign: domain.Ok(domain.ForeignFlow{
					Ticker:   "2330",
					NetLots:  4200,
					AsOfDate: "2025-12-30",
				}),
			},
			"2317": {
				Quote:   domain.Fail[domain.Quote]("quote fetch failed"),
				Foreign: domain.Fail[domain.ForeignFlow]("no foreign flow row for 2317"),
			},
		},
		BrokerFlow: domain.Fail[domain.BrokerFlowReport]("broker source unavailable"),
		Ranking:    domain.Fail[domain.RankingTable]("ranking source unavailable"),
		Futures: map[domain.TickerID]domain.Section[domain.FuturesPosition]{
			"2330": domain.Fail[domain.FuturesPosition]("futures source unavailable"),
		},
	}
}

func TestSnapshotServiceCurrentBeforeRefresh(t *testing.T) {
	svc := NewSnapshotService(&fakeBuilder{snap: testSnapshot()}, time.Minute, nil, testLogger())

	_, err := svc.Current()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotServiceRefreshPublishes(t *testing.T) {
	builder := &fakeBuilder{snap: testSnapshot()}
	svc := NewSnapshotService(builder, time.Minute, nil, testLogger())

	got := svc.Refresh(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, 1, builder.calls)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, "2025-12-30", current.LatestTradingDay)
	assert.True(t, current.Stocks["2330"].Quote.OK())
	assert.False(t, current.Stocks["2317"].Quote.OK())
}

func TestSnapshotServiceRunStopsOnCancel(t *testing.T) {
	builder := &fakeBuilder{snap: testSnapshot()}
	svc := NewSnapshotService(builder, 10*time.Millisecond, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	// Initial refresh plus at least one tick.
	assert.GreaterOrEqual(t, builder.calls, 2)
}

func TestSnapshotServiceSave(t *testing.T) {
	svc := NewSnapshotService(&fakeBuilder{snap: testSnapshot()}, time.Minute, nil, testLogger())
	path := filepath.Join(t.TempDir(), "out", "snapshot.json")

	err := svc.Save(context.Background(), path)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	svc.Refresh(context.Background())
	require.NoError(t, svc.Save(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "2025-12-30", snap.LatestTradingDay)
	assert.Contains(t, snap.Stocks, domain.TickerID("2330"))
}

func TestCountFailedSections(t *testing.T) {
	snap := testSnapshot()
	// 2317 quote + 2317 foreign + broker + ranking + one futures section.
	assert.Equal(t, 5, countFailedSections(snap))
}
