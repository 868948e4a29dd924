package core

import "fmt"

// AgreementLevel expresses how far a responder agrees with a peer review.
type AgreementLevel string

const (
	AgreementAgree    AgreementLevel = "AGREE"
	AgreementPartial  AgreementLevel = "PARTIAL"
	AgreementDisagree AgreementLevel = "DISAGREE"
)

// Valid reports whether a is one of the defined agreement levels.
func (a AgreementLevel) Valid() bool {
	switch a {
	case AgreementAgree, AgreementPartial, AgreementDisagree:
		return true
	}
	return false
}

// Response is the Round 2 artifact: one reviewer's rebuttal to one peer
// review. A reviewer never responds to its own review, so a full round for a
// panel of size N yields up to N*(N-1) responses.
type Response struct {
	AgentName      string         `json:"agent_name"`
	RespondingTo   string         `json:"responding_to"`
	AgreementLevel AgreementLevel `json:"agreement_level"`
	Points         []string       `json:"points"`
	Summary        string         `json:"summary"`
	SessionID      string         `json:"session_id"`
}

// Clone returns a deep copy safe to hand to callers.
func (r Response) Clone() Response {
	c := r
	c.Points = append([]string(nil), r.Points...)
	return c
}

// Validate checks the structural invariants a capability must satisfy.
func (r *Response) Validate() error {
	if r.AgentName == "" {
		return fmt.Errorf("response: missing agent name")
	}
	if r.RespondingTo == "" {
		return fmt.Errorf("response from %s: missing responding_to", r.AgentName)
	}
	if r.RespondingTo == r.AgentName {
		return fmt.Errorf("response from %s: reviewer cannot respond to itself", r.AgentName)
	}
	if !r.AgreementLevel.Valid() {
		return fmt.Errorf("response from %s: invalid agreement level %q", r.AgentName, r.AgreementLevel)
	}
	return nil
}
