// Package store provides SessionStore implementations.
package store

import (
	"sort"
	"sync"

	"github.com/noah-ing/consensys/core"
)

// InMemoryStore is a volatile SessionStore keeping all debate artifacts in
// process local maps. It is safe for concurrent access and best suited for
// tests or one-shot runs where history does not need to survive the process.
// Returned values are cloned to prevent external mutation of internal state.
type InMemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*core.Session
	reviews   map[string][]core.Review
	responses map[string][]core.Response
	votes     map[string][]core.Vote
	consensus map[string]*core.Consensus
	order     []string
}

var _ core.SessionStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions:  make(map[string]*core.Session),
		reviews:   make(map[string][]core.Review),
		responses: make(map[string][]core.Response),
		votes:     make(map[string][]core.Vote),
		consensus: make(map[string]*core.Consensus),
	}
}

// CreateSession stores a clone of the session record.
func (s *InMemoryStore) CreateSession(session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		s.order = append(s.order, session.ID)
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

// SaveReview appends a review in arrival order.
func (s *InMemoryStore) SaveReview(sessionID string, review core.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return core.ErrSessionNotFound
	}
	s.reviews[sessionID] = append(s.reviews[sessionID], review.Clone())
	return nil
}

// SaveResponse appends a rebuttal in arrival order.
func (s *InMemoryStore) SaveResponse(sessionID string, response core.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return core.ErrSessionNotFound
	}
	s.responses[sessionID] = append(s.responses[sessionID], response.Clone())
	return nil
}

// SaveVote appends a vote in arrival order.
func (s *InMemoryStore) SaveVote(sessionID string, vote core.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return core.ErrSessionNotFound
	}
	s.votes[sessionID] = append(s.votes[sessionID], vote)
	return nil
}

// SaveConsensus stores the terminal artifact and stamps the final decision
// onto the session record.
func (s *InMemoryStore) SaveConsensus(consensus core.Consensus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[consensus.SessionID]
	if !ok {
		return core.ErrSessionNotFound
	}
	c := consensus.Clone()
	s.consensus[consensus.SessionID] = &c
	decision := consensus.FinalDecision
	sess.FinalDecision = &decision
	return nil
}

// GetSession returns a clone of the session or core.ErrSessionNotFound.
func (s *InMemoryStore) GetSession(sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// GetReviews returns the session's reviews in the order they were saved.
func (s *InMemoryStore) GetReviews(sessionID string) ([]core.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return nil, core.ErrSessionNotFound
	}
	out := make([]core.Review, 0, len(s.reviews[sessionID]))
	for _, r := range s.reviews[sessionID] {
		out = append(out, r.Clone())
	}
	return out, nil
}

// GetResponses returns the session's rebuttals in the order they were saved.
func (s *InMemoryStore) GetResponses(sessionID string) ([]core.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return nil, core.ErrSessionNotFound
	}
	out := make([]core.Response, 0, len(s.responses[sessionID]))
	for _, r := range s.responses[sessionID] {
		out = append(out, r.Clone())
	}
	return out, nil
}

// GetVotes returns the session's votes in the order they were saved.
func (s *InMemoryStore) GetVotes(sessionID string) ([]core.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return nil, core.ErrSessionNotFound
	}
	return append([]core.Vote(nil), s.votes[sessionID]...), nil
}

// GetConsensus returns the terminal artifact, or core.ErrSessionNotFound if
// the session does not exist or has no consensus yet.
func (s *InMemoryStore) GetConsensus(sessionID string) (*core.Consensus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.consensus[sessionID]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	clone := c.Clone()
	return &clone, nil
}

// ListSessions returns up to limit sessions, most recently created first.
// A non-positive limit returns all sessions.
func (s *InMemoryStore) ListSessions(limit int) ([]core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.sessions[id].Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
