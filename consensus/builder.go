// Package consensus turns the final vote and review sets of a debate into
// one consensus artifact. The aggregation is a pure function: tallying,
// deterministic tie-breaking, and mention-count based promotion of issues
// and suggestions.
package consensus

import (
	"strings"

	"github.com/noah-ing/consensys/core"
)

// promotionThreshold is the minimum number of reviewers that must mention a
// normalized issue or suggestion for it to be promoted on count alone.
const promotionThreshold = 2

// Build aggregates votes and reviews into the terminal consensus record for
// the session. Responses are deliberately absent: they informed the voting
// round and carry no direct weight here.
//
// At least one vote is required; a debate that cannot produce a single vote
// fails with a sequence violation rather than yielding an empty consensus.
func Build(session *core.Session, reviews []core.Review, votes []core.Vote) (*core.Consensus, error) {
	if len(votes) == 0 {
		return nil, &core.SequenceError{Stage: "consensus", Reason: "no votes to aggregate"}
	}

	counts := tally(votes)

	return &core.Consensus{
		SessionID:           session.ID,
		FinalDecision:       Decide(counts),
		VoteCounts:          counts,
		KeyIssues:           promoteIssues(reviews),
		AcceptedSuggestions: promoteSuggestions(reviews),
		Code:                session.Code,
		Context:             session.Context,
	}, nil
}

// tally counts votes per decision. All three keys are always present.
func tally(votes []core.Vote) map[core.VoteDecision]int {
	counts := map[core.VoteDecision]int{
		core.VoteApprove: 0,
		core.VoteReject:  0,
		core.VoteAbstain: 0,
	}
	for _, v := range votes {
		counts[v.Decision]++
	}
	return counts
}

// Decide resolves the final decision from a tally. Abstentions appear in the
// displayed counts but never participate in the comparison. An exact
// approve/reject tie rejects: a panel that cannot agree does not approve.
func Decide(counts map[core.VoteDecision]int) core.VoteDecision {
	approve, reject := counts[core.VoteApprove], counts[core.VoteReject]
	if approve > reject {
		return core.VoteApprove
	}
	return core.VoteReject
}

// normalize folds case and trims surrounding whitespace so that textually
// identical mentions from different reviewers count as one. Nothing fuzzier:
// near-duplicate phrasings are intentionally kept distinct.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// promoteIssues selects the key issues across all reviews, scanning in panel
// order. An issue is promoted at its first occurrence when at least
// promotionThreshold reviewers mention it, or when its own severity is HIGH
// or CRITICAL. The first-seen original record is what survives.
func promoteIssues(reviews []core.Review) []core.Issue {
	mentions := make(map[string]int)
	for _, r := range reviews {
		inReview := make(map[string]bool, len(r.Issues))
		for _, issue := range r.Issues {
			key := normalize(issue.Description)
			if inReview[key] {
				continue
			}
			inReview[key] = true
			mentions[key]++
		}
	}

	var promoted []core.Issue
	seen := make(map[string]bool)
	for _, r := range reviews {
		for _, issue := range r.Issues {
			key := normalize(issue.Description)
			if seen[key] {
				continue
			}
			seen[key] = true
			if mentions[key] >= promotionThreshold ||
				issue.Severity == core.SeverityHigh || issue.Severity == core.SeverityCritical {
				promoted = append(promoted, issue)
			}
		}
	}
	return promoted
}

// promoteSuggestions selects suggestions mentioned by at least
// promotionThreshold reviewers. Severity has no bearing on suggestions.
func promoteSuggestions(reviews []core.Review) []string {
	mentions := make(map[string]int)
	for _, r := range reviews {
		inReview := make(map[string]bool, len(r.Suggestions))
		for _, s := range r.Suggestions {
			key := normalize(s)
			if inReview[key] {
				continue
			}
			inReview[key] = true
			mentions[key]++
		}
	}

	var promoted []string
	seen := make(map[string]bool)
	for _, r := range reviews {
		for _, s := range r.Suggestions {
			key := normalize(s)
			if seen[key] {
				continue
			}
			seen[key] = true
			if mentions[key] >= promotionThreshold {
				promoted = append(promoted, s)
			}
		}
	}
	return promoted
}
