package testutil

import (
	"context"
	"fmt"

	"github.com/noah-ing/consensys/core"
)

// StubReviewer is a scripted core.Reviewer for orchestration tests. By
// default it produces a clean review, an AGREE response for every peer and an
// APPROVE vote; individual stages can be overridden or failed.
type StubReviewer struct {
	name string

	ReviewFn  func(ctx context.Context, code, reviewContext string) (*core.Review, error)
	RespondFn func(ctx context.Context, peer core.Review, code string) (*core.Response, error)
	VoteFn    func(ctx context.Context, code string, reviews []core.Review, responses []core.Response) (*core.Vote, error)

	ReviewErr  error
	RespondErr error
	VoteErr    error

	Decision core.VoteDecision
}

var _ core.Reviewer = (*StubReviewer)(nil)

// NewStubReviewer creates a stub that approves everything.
func NewStubReviewer(name string) *StubReviewer {
	return &StubReviewer{name: name, Decision: core.VoteApprove}
}

// Name implements core.Reviewer.
func (s *StubReviewer) Name() string { return s.name }

// Review implements core.Reviewer.
func (s *StubReviewer) Review(ctx context.Context, code, reviewContext string) (*core.Review, error) {
	if s.ReviewErr != nil {
		return nil, s.ReviewErr
	}
	if s.ReviewFn != nil {
		return s.ReviewFn(ctx, code, reviewContext)
	}
	r := NewReviewBuilder(s.name).
		Summary(fmt.Sprintf("%s reviewed the code", s.name)).
		Build()
	return &r, nil
}

// Respond implements core.Reviewer.
func (s *StubReviewer) Respond(ctx context.Context, peer core.Review, code string) (*core.Response, error) {
	if s.RespondErr != nil {
		return nil, s.RespondErr
	}
	if s.RespondFn != nil {
		return s.RespondFn(ctx, peer, code)
	}
	return &core.Response{
		AgentName:      s.name,
		RespondingTo:   peer.AgentName,
		AgreementLevel: core.AgreementAgree,
		Summary:        fmt.Sprintf("%s agrees with %s", s.name, peer.AgentName),
	}, nil
}

// Vote implements core.Reviewer.
func (s *StubReviewer) Vote(ctx context.Context, code string, reviews []core.Review, responses []core.Response) (*core.Vote, error) {
	if s.VoteErr != nil {
		return nil, s.VoteErr
	}
	if s.VoteFn != nil {
		return s.VoteFn(ctx, code, reviews, responses)
	}
	return &core.Vote{AgentName: s.name, Decision: s.Decision, Reasoning: "scripted"}, nil
}

// Panel builds a panel of approving stubs with the given names.
func Panel(names ...string) []core.Reviewer {
	panel := make([]core.Reviewer, len(names))
	for i, n := range names {
		panel[i] = NewStubReviewer(n)
	}
	return panel
}
