package core

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies one debate over one piece of code. ID, Code, Context
// and CreatedAt are immutable after creation; FinalDecision is nil until a
// consensus is recorded.
type Session struct {
	ID            string        `json:"id"`
	Code          string        `json:"code"`
	Context       string        `json:"context,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	FinalDecision *VoteDecision `json:"final_decision,omitempty"`
}

// NewSession creates a session with a generated id and a UTC creation time.
func NewSession(code, reviewContext string) *Session {
	return &Session{
		ID:        NewID(),
		Code:      code,
		Context:   reviewContext,
		CreatedAt: time.Now().UTC(),
	}
}

// NewID generates an opaque unique identifier for sessions.
func NewID() string { return uuid.NewString() }

// Clone returns a deep copy safe to hand to callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.FinalDecision != nil {
		d := *s.FinalDecision
		c.FinalDecision = &d
	}
	return &c
}

// SessionStore persists debate artifacts. The orchestrator owns all in-flight
// state in memory and calls the store once per artifact as each round settles;
// a store failure never invalidates already-computed in-memory results.
//
// The retrieval methods serve history listing and replay; they are not used
// during an in-flight debate.
type SessionStore interface {
	// CreateSession persists a new session record.
	CreateSession(session *Session) error
	SaveReview(sessionID string, review Review) error
	SaveResponse(sessionID string, response Response) error
	SaveVote(sessionID string, vote Vote) error
	// SaveConsensus persists the terminal artifact and records the final
	// decision on the session.
	SaveConsensus(consensus Consensus) error

	GetSession(sessionID string) (*Session, error)
	GetReviews(sessionID string) ([]Review, error)
	GetResponses(sessionID string) ([]Response, error)
	GetVotes(sessionID string) ([]Vote, error)
	GetConsensus(sessionID string) (*Consensus, error)
	// ListSessions returns up to limit sessions, most recent first.
	ListSessions(limit int) ([]Session, error)
}
