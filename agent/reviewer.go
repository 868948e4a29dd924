// Package agent implements the model-backed reviewer capability. Each
// reviewer pairs one persona with one language model and translates between
// the debate's typed artifacts and the model's JSON completions.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-ing/consensys/core"
	"github.com/noah-ing/consensys/internal/util"
	"github.com/noah-ing/consensys/model"
)

// ModelReviewer implements core.Reviewer by prompting a language model and
// parsing its JSON output. Malformed output is returned as an error; the
// orchestrator treats it as a capability failure for that task.
type ModelReviewer struct {
	persona Persona
	model   model.Model
}

var _ core.Reviewer = (*ModelReviewer)(nil)

// NewModelReviewer pairs a persona with a model.
func NewModelReviewer(persona Persona, m model.Model) *ModelReviewer {
	return &ModelReviewer{persona: persona, model: m}
}

// NewPanel builds a reviewer panel from personas sharing one model.
func NewPanel(personas []Persona, m model.Model) []core.Reviewer {
	panel := make([]core.Reviewer, len(personas))
	for i, p := range personas {
		panel[i] = NewModelReviewer(p, m)
	}
	return panel
}

// Name implements core.Reviewer.
func (r *ModelReviewer) Name() string { return r.persona.Name }

// Persona returns the reviewer's configuration.
func (r *ModelReviewer) Persona() Persona { return r.persona }

const reviewFormat = `IMPORTANT: Respond ONLY with valid JSON in this exact format:
{
    "issues": [{"description": "...", "severity": "LOW|MEDIUM|HIGH|CRITICAL", "line": 1}],
    "suggestions": ["..."],
    "severity": "LOW|MEDIUM|HIGH|CRITICAL",
    "confidence": 0.0,
    "summary": "..."
}
Omit "line" when an issue is not tied to a specific line. An empty issues list means the code is clean.`

const respondFormat = `IMPORTANT: Respond ONLY with valid JSON in this exact format:
{
    "agreement_level": "AGREE|PARTIAL|DISAGREE",
    "points": ["..."],
    "summary": "..."
}`

const voteFormat = `IMPORTANT: Respond ONLY with valid JSON in this exact format:
{
    "decision": "APPROVE|REJECT|ABSTAIN",
    "reasoning": "..."
}`

// Review implements core.Reviewer.
func (r *ModelReviewer) Review(ctx context.Context, code, reviewContext string) (*core.Review, error) {
	var user strings.Builder
	fmt.Fprintf(&user, "Review this code from your perspective as %s:\n\n```\n%s\n```\n", r.persona.Role, code)
	if reviewContext != "" {
		fmt.Fprintf(&user, "\nContext: %s\n", reviewContext)
	}

	var payload struct {
		Issues      []core.Issue  `json:"issues"`
		Suggestions []string      `json:"suggestions"`
		Severity    core.Severity `json:"severity"`
		Confidence  float64       `json:"confidence"`
		Summary     string        `json:"summary"`
	}
	if err := r.complete(ctx, reviewFormat, user.String(), &payload); err != nil {
		return nil, err
	}

	return &core.Review{
		AgentName:   r.persona.Name,
		Issues:      payload.Issues,
		Suggestions: payload.Suggestions,
		Severity:    payload.Severity,
		Confidence:  payload.Confidence,
		Summary:     payload.Summary,
	}, nil
}

// Respond implements core.Reviewer.
func (r *ModelReviewer) Respond(ctx context.Context, peer core.Review, code string) (*core.Response, error) {
	var user strings.Builder
	fmt.Fprintf(&user, "%s reviewed this code:\n\n```\n%s\n```\n\nTheir review:\n%s\n",
		peer.AgentName, code, formatReview(peer))
	user.WriteString("\nFrom your own perspective, state where you agree and where you disagree with their assessment.\n")

	var payload struct {
		AgreementLevel core.AgreementLevel `json:"agreement_level"`
		Points         []string            `json:"points"`
		Summary        string              `json:"summary"`
	}
	if err := r.complete(ctx, respondFormat, user.String(), &payload); err != nil {
		return nil, err
	}

	return &core.Response{
		AgentName:      r.persona.Name,
		RespondingTo:   peer.AgentName,
		AgreementLevel: payload.AgreementLevel,
		Points:         payload.Points,
		Summary:        payload.Summary,
	}, nil
}

// Vote implements core.Reviewer.
func (r *ModelReviewer) Vote(ctx context.Context, code string, reviews []core.Review, responses []core.Response) (*core.Vote, error) {
	var user strings.Builder
	fmt.Fprintf(&user, "The panel has debated this code:\n\n```\n%s\n```\n\nAll reviews:\n", code)
	for _, review := range reviews {
		fmt.Fprintf(&user, "\n--- %s ---\n%s\n", review.AgentName, formatReview(review))
	}
	if len(responses) > 0 {
		user.WriteString("\nAll debate responses:\n")
		for _, resp := range responses {
			fmt.Fprintf(&user, "\n--- %s responding to %s (%s) ---\n", resp.AgentName, resp.RespondingTo, resp.AgreementLevel)
			for _, point := range resp.Points {
				fmt.Fprintf(&user, "- %s\n", point)
			}
		}
	}
	user.WriteString("\nCast your final vote on whether this code should be approved.\n")

	var payload struct {
		Decision  core.VoteDecision `json:"decision"`
		Reasoning string            `json:"reasoning"`
	}
	if err := r.complete(ctx, voteFormat, user.String(), &payload); err != nil {
		return nil, err
	}

	return &core.Vote{
		AgentName: r.persona.Name,
		Decision:  payload.Decision,
		Reasoning: payload.Reasoning,
	}, nil
}

// complete runs one model call and unmarshals its JSON payload into out.
func (r *ModelReviewer) complete(ctx context.Context, format, user string, out any) error {
	req := model.Request{
		System:   r.persona.SystemPrompt + "\n\n" + format,
		Messages: []model.Message{{Role: "user", Text: user}},
	}
	resp, err := r.model.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("model call: %w", err)
	}
	text, err := util.ExtractJSON(resp.Text)
	if err != nil {
		return fmt.Errorf("malformed model output: %w", err)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("malformed model output: %w", err)
	}
	return nil
}

// formatReview renders a review as prompt text for peers.
func formatReview(r core.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Severity: %s (confidence %.0f%%)\n", r.Severity, r.Confidence*100)
	if len(r.Issues) == 0 {
		b.WriteString("Issues: none\n")
	} else {
		b.WriteString("Issues:\n")
		for _, issue := range r.Issues {
			if issue.Line > 0 {
				fmt.Fprintf(&b, "- [%s] %s (line %d)\n", issue.Severity, issue.Description, issue.Line)
			} else {
				fmt.Fprintf(&b, "- [%s] %s\n", issue.Severity, issue.Description)
			}
		}
	}
	if len(r.Suggestions) > 0 {
		b.WriteString("Suggestions:\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	if r.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", r.Summary)
	}
	return b.String()
}
