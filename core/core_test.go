package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReview() Review {
	return Review{
		AgentName:  "alpha",
		Severity:   SeverityMedium,
		Confidence: 0.8,
		Issues:     []Issue{{Description: "unchecked error", Severity: SeverityLow}},
	}
}

func TestReviewValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Review)
		wantErr string
	}{
		{"valid", func(*Review) {}, ""},
		{"missing agent name", func(r *Review) { r.AgentName = "" }, "missing agent name"},
		{"invalid severity", func(r *Review) { r.Severity = "SEVERE" }, "invalid severity"},
		{"confidence too high", func(r *Review) { r.Confidence = 1.5 }, "outside [0,1]"},
		{"confidence negative", func(r *Review) { r.Confidence = -0.1 }, "outside [0,1]"},
		{"issue without description", func(r *Review) { r.Issues[0].Description = "" }, "no description"},
		{"issue with bad severity", func(r *Review) { r.Issues[0].Severity = "WHATEVER" }, "invalid severity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReview()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestResponseValidate(t *testing.T) {
	valid := Response{AgentName: "alpha", RespondingTo: "beta", AgreementLevel: AgreementAgree}
	assert.NoError(t, valid.Validate())

	self := valid
	self.RespondingTo = "alpha"
	err := self.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "respond to itself")

	badLevel := valid
	badLevel.AgreementLevel = "MAYBE"
	assert.Error(t, badLevel.Validate())

	noTarget := valid
	noTarget.RespondingTo = ""
	assert.Error(t, noTarget.Validate())
}

func TestVoteValidate(t *testing.T) {
	valid := Vote{AgentName: "alpha", Decision: VoteAbstain}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Decision = "MAYBE"
	assert.Error(t, bad.Validate())

	anon := valid
	anon.AgentName = ""
	assert.Error(t, anon.Validate())
}

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Equal(t, -1, Severity("BOGUS").Rank())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "CREATED", StateCreated.String())
	assert.Equal(t, "REVIEWED", StateReviewed.String())
	assert.Equal(t, "RESPONDED", StateResponded.String())
	assert.Equal(t, "VOTED", StateVoted.String())
	assert.Equal(t, "CONSENSUS_BUILT", StateConsensusBuilt.String())
	assert.Equal(t, "UNKNOWN", State(99).String())
}

func TestNewSession(t *testing.T) {
	s := NewSession("code", "ctx")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "code", s.Code)
	assert.Equal(t, "ctx", s.Context)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Nil(t, s.FinalDecision)

	other := NewSession("code", "ctx")
	assert.NotEqual(t, s.ID, other.ID)
}

func TestSessionClone(t *testing.T) {
	d := VoteApprove
	s := NewSession("code", "")
	s.FinalDecision = &d

	c := s.Clone()
	require.NotSame(t, s, c)
	require.NotSame(t, s.FinalDecision, c.FinalDecision)
	assert.Equal(t, *s.FinalDecision, *c.FinalDecision)

	*c.FinalDecision = VoteReject
	assert.Equal(t, VoteApprove, *s.FinalDecision)
}

func TestReviewClone(t *testing.T) {
	r := validReview()
	c := r.Clone()
	c.Issues[0].Description = "mutated"
	assert.Equal(t, "unchecked error", r.Issues[0].Description)
}

func TestConsensusCount(t *testing.T) {
	var c Consensus
	assert.Equal(t, 0, c.Count(VoteApprove))

	c.VoteCounts = map[VoteDecision]int{VoteApprove: 2}
	assert.Equal(t, 2, c.Count(VoteApprove))
	assert.Equal(t, 0, c.Count(VoteReject))
}
