package core

import "fmt"

// Severity grades an issue or an overall review.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Valid reports whether s is one of the defined severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Rank orders severities from LOW (0) to CRITICAL (3). Unknown severities
// rank below LOW so they sort last in descending views.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 0
	default:
		return -1
	}
}

// Issue is a single finding inside a review. Line is zero when the issue is
// not tied to a specific line.
type Issue struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Line        int      `json:"line,omitempty"`
}

// Review is the Round 1 artifact produced by one reviewer for one session.
// There is at most one review per (session, agent) pair.
type Review struct {
	AgentName   string   `json:"agent_name"`
	Issues      []Issue  `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Severity    Severity `json:"severity"`
	Confidence  float64  `json:"confidence"`
	Summary     string   `json:"summary"`
	SessionID   string   `json:"session_id"`
}

// Clone returns a deep copy safe to hand to callers.
func (r Review) Clone() Review {
	c := r
	c.Issues = append([]Issue(nil), r.Issues...)
	c.Suggestions = append([]string(nil), r.Suggestions...)
	return c
}

// Validate checks the structural invariants a capability must satisfy.
// A failing review is treated as a capability failure, not a fatal error.
func (r *Review) Validate() error {
	if r.AgentName == "" {
		return fmt.Errorf("review: missing agent name")
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("review from %s: invalid severity %q", r.AgentName, r.Severity)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("review from %s: confidence %v outside [0,1]", r.AgentName, r.Confidence)
	}
	for i, issue := range r.Issues {
		if issue.Description == "" {
			return fmt.Errorf("review from %s: issue %d has no description", r.AgentName, i)
		}
		if !issue.Severity.Valid() {
			return fmt.Errorf("review from %s: issue %d has invalid severity %q", r.AgentName, i, issue.Severity)
		}
	}
	return nil
}
