package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-ing/consensys/core"
	"github.com/noah-ing/consensys/internal/testutil"
)

func newSession(id string, createdAt time.Time) *core.Session {
	return &core.Session{ID: id, Code: "func f() {}", CreatedAt: createdAt}
}

func TestInMemoryStore_SessionRoundTrip(t *testing.T) {
	st := NewInMemoryStore()
	sess := newSession("s1", time.Now().UTC())

	require.NoError(t, st.CreateSession(sess))

	got, err := st.GetSession("s1")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Code, got.Code)

	// The store holds its own copy.
	got.Code = "mutated"
	again, err := st.GetSession("s1")
	require.NoError(t, err)
	assert.Equal(t, "func f() {}", again.Code)
}

func TestInMemoryStore_SessionNotFound(t *testing.T) {
	st := NewInMemoryStore()

	_, err := st.GetSession("missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	err = st.SaveReview("missing", testutil.NewReviewBuilder("alpha").Build())
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	err = st.SaveVote("missing", testutil.Vote("alpha", core.VoteApprove))
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestInMemoryStore_ArtifactsKeepSaveOrder(t *testing.T) {
	st := NewInMemoryStore()
	require.NoError(t, st.CreateSession(newSession("s1", time.Now().UTC())))

	require.NoError(t, st.SaveReview("s1", testutil.NewReviewBuilder("zulu").Build()))
	require.NoError(t, st.SaveReview("s1", testutil.NewReviewBuilder("alpha").Build()))

	reviews, err := st.GetReviews("s1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "zulu", reviews[0].AgentName)
	assert.Equal(t, "alpha", reviews[1].AgentName)
}

func TestInMemoryStore_SaveConsensusStampsDecision(t *testing.T) {
	st := NewInMemoryStore()
	require.NoError(t, st.CreateSession(newSession("s1", time.Now().UTC())))

	c := core.Consensus{
		SessionID:     "s1",
		FinalDecision: core.VoteApprove,
		VoteCounts:    map[core.VoteDecision]int{core.VoteApprove: 3, core.VoteReject: 0, core.VoteAbstain: 0},
		Code:          "func f() {}",
	}
	require.NoError(t, st.SaveConsensus(c))

	sess, err := st.GetSession("s1")
	require.NoError(t, err)
	require.NotNil(t, sess.FinalDecision)
	assert.Equal(t, core.VoteApprove, *sess.FinalDecision)

	got, err := st.GetConsensus("s1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count(core.VoteApprove))
}

func TestInMemoryStore_GetConsensusMissing(t *testing.T) {
	st := NewInMemoryStore()
	require.NoError(t, st.CreateSession(newSession("s1", time.Now().UTC())))

	_, err := st.GetConsensus("s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestInMemoryStore_ListSessions(t *testing.T) {
	st := NewInMemoryStore()
	base := time.Now().UTC()
	require.NoError(t, st.CreateSession(newSession("old", base.Add(-2*time.Hour))))
	require.NoError(t, st.CreateSession(newSession("newer", base.Add(-time.Hour))))
	require.NoError(t, st.CreateSession(newSession("newest", base)))

	sessions, err := st.ListSessions(2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "newest", sessions[0].ID)
	assert.Equal(t, "newer", sessions[1].ID)

	all, err := st.ListSessions(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
