package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twpulse/pkg/contracts/domain"
)

func list(day string) *domain.CardList {
	return &domain.CardList{LatestTradingDay: day}
}

func TestSequencerLastCallerWins(t *testing.T) {
	s := NewSequencer()

	g1 := s.Begin("alpha")
	g2 := s.Begin("alpha") // a newer invocation starts before g1 commits

	// g1's fetch completes later, but its result must be discarded.
	assert.False(t, s.Commit("alpha", g1, list("g1")))
	assert.True(t, s.Commit("alpha", g2, list("g2")))

	got, ok := s.Current("alpha")
	require.True(t, ok)
	assert.Equal(t, "g2", got.LatestTradingDay)
}

func TestSequencerCommitOrderIndependent(t *testing.T) {
	s := NewSequencer()

	g1 := s.Begin("alpha")
	g2 := s.Begin("alpha")

	// Even when the stale invocation finishes first and the fresh one after,
	// only the fresh commit lands.
	assert.True(t, s.Commit("alpha", g2, list("fresh")))
	assert.False(t, s.Commit("alpha", g1, list("stale")))

	got, _ := s.Current("alpha")
	assert.Equal(t, "fresh", got.LatestTradingDay)
}

func TestSequencerClientsIndependent(t *testing.T) {
	s := NewSequencer()

	ga := s.Begin("alpha")
	gb := s.Begin("beta") // another client begins while alpha is in flight

	// beta's begin must not supersede alpha's generation.
	assert.False(t, s.Stale("alpha", ga))
	assert.True(t, s.Commit("beta", gb, list("beta-day")))
	assert.True(t, s.Commit("alpha", ga, list("alpha-day")))

	gotA, ok := s.Current("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha-day", gotA.LatestTradingDay)

	gotB, ok := s.Current("beta")
	require.True(t, ok)
	assert.Equal(t, "beta-day", gotB.LatestTradingDay)
}

func TestSequencerStale(t *testing.T) {
	s := NewSequencer()
	g1 := s.Begin("alpha")
	assert.False(t, s.Stale("alpha", g1))
	s.Begin("alpha")
	assert.True(t, s.Stale("alpha", g1))
}

func TestSequencerCurrentEmpty(t *testing.T) {
	_, ok := NewSequencer().Current("alpha")
	assert.False(t, ok)
}

func TestSequencerConcurrentBegin(t *testing.T) {
	s := NewSequencer()

	var wg sync.WaitGroup
	gens := make(chan Generation, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gens <- s.Begin("alpha")
		}()
	}
	wg.Wait()
	close(gens)

	seen := make(map[Generation]bool)
	for g := range gens {
		assert.False(t, seen[g], "generation issued twice")
		seen[g] = true
	}
	assert.Len(t, seen, 100)
}
