package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-ing/consensys/core"
	"github.com/noah-ing/consensys/internal/testutil"
)

func testSession() *core.Session {
	return &core.Session{ID: "sess-1", Code: "func main() {}", Context: "demo"}
}

func TestBuild_NoVotes(t *testing.T) {
	_, err := Build(testSession(), nil, nil)

	var seqErr *core.SequenceError
	require.ErrorAs(t, err, &seqErr)
	assert.Equal(t, "consensus", seqErr.Stage)
}

func TestBuild_MajorityApproves(t *testing.T) {
	votes := []core.Vote{
		testutil.Vote("alpha", core.VoteApprove),
		testutil.Vote("beta", core.VoteApprove),
		testutil.Vote("gamma", core.VoteReject),
	}

	result, err := Build(testSession(), nil, votes)
	require.NoError(t, err)

	assert.Equal(t, core.VoteApprove, result.FinalDecision)
	assert.Equal(t, 2, result.Count(core.VoteApprove))
	assert.Equal(t, 1, result.Count(core.VoteReject))
	assert.Equal(t, 0, result.Count(core.VoteAbstain))
	assert.Equal(t, "sess-1", result.SessionID)
	assert.Equal(t, "func main() {}", result.Code)
}

func TestBuild_TieRejects(t *testing.T) {
	votes := []core.Vote{
		testutil.Vote("alpha", core.VoteApprove),
		testutil.Vote("beta", core.VoteApprove),
		testutil.Vote("gamma", core.VoteReject),
		testutil.Vote("delta", core.VoteReject),
	}

	result, err := Build(testSession(), nil, votes)
	require.NoError(t, err)

	assert.Equal(t, core.VoteReject, result.FinalDecision)
}

func TestBuild_AbstainExcludedFromComparison(t *testing.T) {
	votes := []core.Vote{
		testutil.Vote("alpha", core.VoteApprove),
		testutil.Vote("beta", core.VoteApprove),
		testutil.Vote("gamma", core.VoteAbstain),
	}

	result, err := Build(testSession(), nil, votes)
	require.NoError(t, err)

	assert.Equal(t, core.VoteApprove, result.FinalDecision)
	assert.Equal(t, 1, result.Count(core.VoteAbstain))
}

func TestBuild_AllAbstainRejects(t *testing.T) {
	votes := []core.Vote{
		testutil.Vote("alpha", core.VoteAbstain),
		testutil.Vote("beta", core.VoteAbstain),
	}

	result, err := Build(testSession(), nil, votes)
	require.NoError(t, err)

	// Zero approve against zero reject is a tie.
	assert.Equal(t, core.VoteReject, result.FinalDecision)
}

func TestPromoteIssues_ByMentionCount(t *testing.T) {
	reviews := []core.Review{
		testutil.NewReviewBuilder("alpha").Issue("Missing input validation", core.SeverityMedium).Build(),
		testutil.NewReviewBuilder("beta").Issue("  missing input VALIDATION ", core.SeverityLow).Build(),
		testutil.NewReviewBuilder("gamma").Issue("Unused variable", core.SeverityLow).Build(),
	}
	votes := []core.Vote{testutil.Vote("alpha", core.VoteApprove)}

	result, err := Build(testSession(), reviews, votes)
	require.NoError(t, err)

	require.Len(t, result.KeyIssues, 1)
	// First-seen original form survives, not the normalized key.
	assert.Equal(t, "Missing input validation", result.KeyIssues[0].Description)
	assert.Equal(t, core.SeverityMedium, result.KeyIssues[0].Severity)
}

func TestPromoteIssues_BySeverity(t *testing.T) {
	reviews := []core.Review{
		testutil.NewReviewBuilder("alpha").
			Issue("SQL injection in query builder", core.SeverityCritical).
			Issue("Inconsistent naming", core.SeverityLow).
			Build(),
		testutil.NewReviewBuilder("beta").
			Issue("Unbounded goroutine fan-out", core.SeverityHigh).
			Build(),
	}
	votes := []core.Vote{testutil.Vote("alpha", core.VoteReject)}

	result, err := Build(testSession(), reviews, votes)
	require.NoError(t, err)

	require.Len(t, result.KeyIssues, 2)
	assert.Equal(t, "SQL injection in query builder", result.KeyIssues[0].Description)
	assert.Equal(t, "Unbounded goroutine fan-out", result.KeyIssues[1].Description)
}

func TestPromoteIssues_RepeatsByOneReviewerCountOnce(t *testing.T) {
	reviews := []core.Review{
		testutil.NewReviewBuilder("alpha").
			Issue("Magic numbers everywhere", core.SeverityLow).
			Issue("magic numbers everywhere", core.SeverityLow).
			Build(),
	}
	votes := []core.Vote{testutil.Vote("alpha", core.VoteApprove)}

	result, err := Build(testSession(), reviews, votes)
	require.NoError(t, err)

	// One reviewer repeating itself is still a single mention.
	assert.Empty(t, result.KeyIssues)
}

func TestPromoteSuggestions_RepeatsByOneReviewerCountOnce(t *testing.T) {
	reviews := []core.Review{
		testutil.NewReviewBuilder("alpha").
			Suggestion("Extract a constant").
			Suggestion("extract a constant").
			Build(),
		testutil.NewReviewBuilder("beta").
			Suggestion("Rename helper").
			Build(),
	}
	votes := []core.Vote{testutil.Vote("alpha", core.VoteApprove)}

	result, err := Build(testSession(), reviews, votes)
	require.NoError(t, err)

	assert.Empty(t, result.AcceptedSuggestions)
}

func TestPromoteSuggestions_RequiresTwoMentions(t *testing.T) {
	reviews := []core.Review{
		testutil.NewReviewBuilder("alpha").
			Suggestion("Add unit tests").
			Suggestion("Rename helper").
			Build(),
		testutil.NewReviewBuilder("beta").
			Suggestion("add unit tests").
			Build(),
	}
	votes := []core.Vote{testutil.Vote("alpha", core.VoteApprove)}

	result, err := Build(testSession(), reviews, votes)
	require.NoError(t, err)

	require.Len(t, result.AcceptedSuggestions, 1)
	assert.Equal(t, "Add unit tests", result.AcceptedSuggestions[0])
}

func TestBuild_Deterministic(t *testing.T) {
	reviews := []core.Review{
		testutil.NewReviewBuilder("alpha").
			Issue("Race on shared map", core.SeverityHigh).
			Suggestion("Guard with a mutex").
			Build(),
		testutil.NewReviewBuilder("beta").
			Issue("Race on shared map", core.SeverityMedium).
			Suggestion("Guard with a mutex").
			Build(),
	}
	votes := []core.Vote{
		testutil.Vote("alpha", core.VoteApprove),
		testutil.Vote("beta", core.VoteReject),
	}

	first, err := Build(testSession(), reviews, votes)
	require.NoError(t, err)
	second, err := Build(testSession(), reviews, votes)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
