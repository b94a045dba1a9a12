package pipeline

import (
	"sync"

	"twpulse/pkg/contracts/domain"
)

// Generation is an invocation-scoped token issued at pipeline start and
// compared at every commit point. It is carried explicitly through the
// pipeline rather than hidden in a global counter.
type Generation uint64

// renderState tracks one client's in-flight and committed renders. Clients
// never contend on each other's generations.
type renderState struct {
	latest  Generation
	current *domain.CardList
}

// Sequencer enforces the last-caller-wins discipline per client: when a
// client's extension set changes while a prior invocation's fetch work is
// still in flight, only that client's most recently begun invocation may
// commit its result. Superseded work is discarded silently; in-flight
// fetches are not cancelled, only their results dropped. Invocations of
// different clients never supersede one another.
type Sequencer struct {
	mu      sync.Mutex
	clients map[string]*renderState
}

// NewSequencer returns an empty sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{clients: make(map[string]*renderState)}
}

func (s *Sequencer) state(client string) *renderState {
	st, ok := s.clients[client]
	if !ok {
		st = &renderState{}
		s.clients[client] = st
	}
	return st
}

// Begin issues client's next generation token. Every pipeline invocation
// calls this exactly once, before any fetch work starts.
func (s *Sequencer) Begin(client string) Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(client)
	st.latest++
	return st.latest
}

// Stale reports whether gen has been superseded by a newer invocation for
// the same client. Long pipelines may consult this between stages to skip
// pointless work.
func (s *Sequencer) Stale(client string, gen Generation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.state(client).latest
}

// Commit installs list as client's visible result iff gen is still that
// client's latest issued generation. The boolean reports whether the commit
// took effect; a superseded invocation's list is dropped without side
// effects.
func (s *Sequencer) Commit(client string, gen Generation, list *domain.CardList) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(client)
	if gen != st.latest {
		return false
	}
	st.current = list
	return true
}

// Current returns client's last committed result, if any.
func (s *Sequencer) Current(client string) (*domain.CardList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(client)
	if st.current == nil {
		return nil, false
	}
	return st.current, true
}
