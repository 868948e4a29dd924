package core

import "fmt"

// VoteDecision is a single reviewer's verdict, and also the type of the
// final consensus decision.
type VoteDecision string

const (
	VoteApprove VoteDecision = "APPROVE"
	VoteReject  VoteDecision = "REJECT"
	VoteAbstain VoteDecision = "ABSTAIN"
)

// Valid reports whether d is one of the defined decisions.
func (d VoteDecision) Valid() bool {
	switch d {
	case VoteApprove, VoteReject, VoteAbstain:
		return true
	}
	return false
}

// Vote is the Round 3 artifact: one reviewer's decision with reasoning.
// There is at most one vote per (session, agent) pair.
type Vote struct {
	AgentName string       `json:"agent_name"`
	Decision  VoteDecision `json:"decision"`
	Reasoning string       `json:"reasoning"`
	SessionID string       `json:"session_id"`
}

// Validate checks the structural invariants a capability must satisfy.
func (v *Vote) Validate() error {
	if v.AgentName == "" {
		return fmt.Errorf("vote: missing agent name")
	}
	if !v.Decision.Valid() {
		return fmt.Errorf("vote from %s: invalid decision %q", v.AgentName, v.Decision)
	}
	return nil
}
