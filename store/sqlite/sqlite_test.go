package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-ing/consensys/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "consensys.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedSession(t *testing.T, st *Store, id string) *core.Session {
	t.Helper()
	sess := &core.Session{
		ID:        id,
		Code:      "func f() { return }",
		Context:   "test context",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, st.CreateSession(sess))
	return sess
}

func TestStore_SessionRoundTrip(t *testing.T) {
	st := openTestStore(t)
	sess := seedSession(t, st, "s1")

	got, err := st.GetSession("s1")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Code, got.Code)
	assert.Equal(t, sess.Context, got.Context)
	assert.True(t, sess.CreatedAt.Equal(got.CreatedAt))
	assert.Nil(t, got.FinalDecision)
}

func TestStore_SessionNotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetSession("missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestStore_ReviewRoundTrip(t *testing.T) {
	st := openTestStore(t)
	seedSession(t, st, "s1")

	review := core.Review{
		AgentName: "SecurityExpert",
		Issues: []core.Issue{
			{Description: "SQL injection", Severity: core.SeverityCritical, Line: 12},
			{Description: "Weak hash", Severity: core.SeverityMedium},
		},
		Suggestions: []string{"Use parameterized queries"},
		Severity:    core.SeverityCritical,
		Confidence:  0.95,
		Summary:     "Serious problems",
	}
	require.NoError(t, st.SaveReview("s1", review))

	reviews, err := st.GetReviews("s1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	got := reviews[0]
	assert.Equal(t, review.AgentName, got.AgentName)
	assert.Equal(t, review.Issues, got.Issues)
	assert.Equal(t, review.Suggestions, got.Suggestions)
	assert.Equal(t, review.Severity, got.Severity)
	assert.Equal(t, review.Confidence, got.Confidence)
	assert.Equal(t, "s1", got.SessionID)
}

func TestStore_ResponseAndVoteRoundTrip(t *testing.T) {
	st := openTestStore(t)
	seedSession(t, st, "s1")

	resp := core.Response{
		AgentName:      "PragmaticDev",
		RespondingTo:   "SecurityExpert",
		AgreementLevel: core.AgreementPartial,
		Points:         []string{"Issue is real", "Severity overstated"},
		Summary:        "Mostly agree",
	}
	require.NoError(t, st.SaveResponse("s1", resp))

	responses, err := st.GetResponses("s1")
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, resp.AgreementLevel, responses[0].AgreementLevel)
	assert.Equal(t, resp.Points, responses[0].Points)

	vote := core.Vote{AgentName: "PragmaticDev", Decision: core.VoteReject, Reasoning: "Fix the injection first"}
	require.NoError(t, st.SaveVote("s1", vote))

	votes, err := st.GetVotes("s1")
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, core.VoteReject, votes[0].Decision)
	assert.Equal(t, "s1", votes[0].SessionID)
}

func TestStore_ConsensusRoundTrip(t *testing.T) {
	st := openTestStore(t)
	seedSession(t, st, "s1")

	c := core.Consensus{
		SessionID:     "s1",
		FinalDecision: core.VoteReject,
		VoteCounts: map[core.VoteDecision]int{
			core.VoteApprove: 1, core.VoteReject: 2, core.VoteAbstain: 1,
		},
		KeyIssues:           []core.Issue{{Description: "SQL injection", Severity: core.SeverityCritical}},
		AcceptedSuggestions: []string{"Use parameterized queries"},
		Code:                "func f() { return }",
		Context:             "test context",
	}
	require.NoError(t, st.SaveConsensus(c))

	got, err := st.GetConsensus("s1")
	require.NoError(t, err)
	assert.Equal(t, c.FinalDecision, got.FinalDecision)
	assert.Equal(t, c.VoteCounts, got.VoteCounts)
	assert.Equal(t, c.KeyIssues, got.KeyIssues)
	assert.Equal(t, c.AcceptedSuggestions, got.AcceptedSuggestions)

	// Final decision is stamped onto the session row.
	sess, err := st.GetSession("s1")
	require.NoError(t, err)
	require.NotNil(t, sess.FinalDecision)
	assert.Equal(t, core.VoteReject, *sess.FinalDecision)
}

func TestStore_GetConsensusMissing(t *testing.T) {
	st := openTestStore(t)
	seedSession(t, st, "s1")

	_, err := st.GetConsensus("s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestStore_ListSessions(t *testing.T) {
	st := openTestStore(t)
	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"old", "newer", "newest"} {
		sess := &core.Session{
			ID:        id,
			Code:      "func f() {}",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, st.CreateSession(sess))
	}

	sessions, err := st.ListSessions(2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "newest", sessions[0].ID)
	assert.Equal(t, "newer", sessions[1].ID)

	all, err := st.ListSessions(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
