package core

// Consensus is the terminal artifact of a debate. It is created exactly once
// per session after voting completes and is immutable thereafter. Code and
// Context are snapshots so the record can be replayed standalone.
type Consensus struct {
	SessionID           string               `json:"session_id"`
	FinalDecision       VoteDecision         `json:"final_decision"`
	VoteCounts          map[VoteDecision]int `json:"vote_counts"`
	KeyIssues           []Issue              `json:"key_issues"`
	AcceptedSuggestions []string             `json:"accepted_suggestions"`
	Code                string               `json:"code"`
	Context             string               `json:"context,omitempty"`
}

// Clone returns a deep copy safe to hand to callers.
func (c Consensus) Clone() Consensus {
	out := c
	if c.VoteCounts != nil {
		out.VoteCounts = make(map[VoteDecision]int, len(c.VoteCounts))
		for k, v := range c.VoteCounts {
			out.VoteCounts[k] = v
		}
	}
	out.KeyIssues = append([]Issue(nil), c.KeyIssues...)
	out.AcceptedSuggestions = append([]string(nil), c.AcceptedSuggestions...)
	return out
}

// Count returns the tally for a decision, defaulting to zero. VoteCounts
// always carries all three keys when built by the consensus package; Count
// keeps reads safe for records decoded from storage.
func (c *Consensus) Count(d VoteDecision) int {
	if c.VoteCounts == nil {
		return 0
	}
	return c.VoteCounts[d]
}
