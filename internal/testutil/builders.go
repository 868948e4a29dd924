package testutil

import (
	"github.com/noah-ing/consensys/core"
)

// ReviewBuilder helps construct reviews with fluent chaining for tests.
// Example:
//
//	r := NewReviewBuilder("security").Issue("sql injection", core.SeverityCritical).Build()
type ReviewBuilder struct {
	review core.Review
}

// NewReviewBuilder creates a builder for a review by the named agent with
// sane defaults (MEDIUM severity, confidence 0.8).
func NewReviewBuilder(agentName string) *ReviewBuilder {
	return &ReviewBuilder{review: core.Review{
		AgentName:  agentName,
		Severity:   core.SeverityMedium,
		Confidence: 0.8,
	}}
}

// Issue appends a finding with the given severity (chainable).
func (b *ReviewBuilder) Issue(description string, severity core.Severity) *ReviewBuilder {
	b.review.Issues = append(b.review.Issues, core.Issue{Description: description, Severity: severity})
	return b
}

// Suggestion appends a suggestion (chainable).
func (b *ReviewBuilder) Suggestion(s string) *ReviewBuilder {
	b.review.Suggestions = append(b.review.Suggestions, s)
	return b
}

// Severity sets the overall severity (chainable).
func (b *ReviewBuilder) Severity(s core.Severity) *ReviewBuilder {
	b.review.Severity = s
	return b
}

// Confidence sets the confidence score (chainable).
func (b *ReviewBuilder) Confidence(c float64) *ReviewBuilder {
	b.review.Confidence = c
	return b
}

// Summary sets the free-text summary (chainable).
func (b *ReviewBuilder) Summary(s string) *ReviewBuilder {
	b.review.Summary = s
	return b
}

// Build returns the assembled review.
func (b *ReviewBuilder) Build() core.Review {
	return b.review.Clone()
}

// Vote is a shorthand constructor for test votes.
func Vote(agentName string, decision core.VoteDecision) core.Vote {
	return core.Vote{AgentName: agentName, Decision: decision, Reasoning: "test vote"}
}
