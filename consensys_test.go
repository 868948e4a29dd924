package consensys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-ing/consensys/core"
	"github.com/noah-ing/consensys/internal/testutil"
)

func TestReview_FullDebate(t *testing.T) {
	c := New(testutil.Panel("alpha", "beta", "gamma"))

	result, warnings, err := c.Review(context.Background(), "func f() {}", "smoke test")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, core.VoteApprove, result.FinalDecision)
	assert.Equal(t, 3, result.Count(core.VoteApprove))

	// The default in-memory store recorded the whole debate.
	sessions, err := c.Store().ListSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	reviews, err := c.Store().GetReviews(sessions[0].ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)

	responses, err := c.Store().GetResponses(sessions[0].ID)
	require.NoError(t, err)
	assert.Len(t, responses, 6)
}

func TestReview_EmptyPanel(t *testing.T) {
	c := New(nil)

	_, _, err := c.Review(context.Background(), "func f() {}", "")
	assert.ErrorIs(t, err, core.ErrEmptyPanel)
}

func TestNewDebate_StepwiseControl(t *testing.T) {
	c := New(testutil.Panel("alpha", "beta"))
	orch := c.NewDebate()

	reviews, err := orch.StartReview(context.Background(), "func f() {}", "")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, core.StateReviewed, orch.State())

	_, err = orch.RunResponses(context.Background())
	require.NoError(t, err)
	_, err = orch.RunVoting(context.Background())
	require.NoError(t, err)

	result, err := orch.BuildConsensus()
	require.NoError(t, err)
	assert.Equal(t, core.StateConsensusBuilt, orch.State())
	assert.Equal(t, core.VoteApprove, result.FinalDecision)
}

func TestSeparateDebatesGetSeparateSessions(t *testing.T) {
	c := New(testutil.Panel("alpha", "beta"))

	first, _, err := c.Review(context.Background(), "func a() {}", "")
	require.NoError(t, err)
	second, _, err := c.Review(context.Background(), "func b() {}", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)

	sessions, err := c.Store().ListSessions(0)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
