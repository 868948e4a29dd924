package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/noah-ing/consensys/core"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	approveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	abstainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	agentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	codeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	ruleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
)

func decisionStyle(d core.VoteDecision) lipgloss.Style {
	switch d {
	case core.VoteApprove:
		return approveStyle
	case core.VoteReject:
		return rejectStyle
	default:
		return abstainStyle
	}
}

func severityStyle(s core.Severity) lipgloss.Style {
	switch s {
	case core.SeverityCritical, core.SeverityHigh:
		return rejectStyle
	case core.SeverityMedium:
		return abstainStyle
	default:
		return approveStyle
	}
}

func rule(title string) string {
	return "\n" + ruleStyle.Render("── "+title+" ──") + "\n"
}

func renderCode(code string) string {
	return codeStyle.Render(code)
}

func renderReview(r core.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", agentStyle.Render(r.AgentName))
	fmt.Fprintf(&b, "  Severity: %s  Confidence: %.0f%%\n",
		severityStyle(r.Severity).Render(string(r.Severity)), r.Confidence*100)
	if len(r.Issues) > 0 {
		fmt.Fprintf(&b, "  Issues (%d):\n", len(r.Issues))
		for _, issue := range r.Issues {
			fmt.Fprintf(&b, "    %s %s\n", severityStyle(issue.Severity).Render("•"), issue.Description)
		}
	}
	if len(r.Suggestions) > 0 {
		b.WriteString("  Suggestions:\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "    • %s\n", s)
		}
	}
	if r.Summary != "" {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render(r.Summary))
	}
	return b.String()
}

// renderReviewSummary tabulates the panel's reviews, most severe first.
func renderReviewSummary(reviews []core.Review) string {
	ranked := append([]core.Review(nil), reviews...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Severity.Rank() > ranked[j].Severity.Rank()
	})

	var b strings.Builder
	b.WriteString(headerStyle.Render("Review Summary") + "\n")
	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REVIEWER\tSEVERITY\tISSUES\tCONFIDENCE")
	for _, r := range ranked {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f%%\n",
			r.AgentName, severityStyle(r.Severity).Render(string(r.Severity)),
			len(r.Issues), r.Confidence*100)
	}
	w.Flush()
	return b.String()
}

func renderResponse(r core.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s  [%s]\n",
		agentStyle.Render(r.AgentName), r.RespondingTo, string(r.AgreementLevel))
	for _, p := range r.Points {
		fmt.Fprintf(&b, "    • %s\n", p)
	}
	if r.Summary != "" {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render(r.Summary))
	}
	return b.String()
}

func renderVote(v core.Vote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s votes %s\n",
		agentStyle.Render(v.AgentName), decisionStyle(v.Decision).Render(string(v.Decision)))
	if v.Reasoning != "" {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render(v.Reasoning))
	}
	return b.String()
}

func renderConsensus(c *core.Consensus) string {
	var b strings.Builder
	b.WriteString(rule("Final Consensus"))
	fmt.Fprintf(&b, "Decision: %s\n", decisionStyle(c.FinalDecision).Render(string(c.FinalDecision)))
	fmt.Fprintf(&b, "Votes: %s %d  %s %d  %s %d\n",
		approveStyle.Render("APPROVE"), c.Count(core.VoteApprove),
		rejectStyle.Render("REJECT"), c.Count(core.VoteReject),
		abstainStyle.Render("ABSTAIN"), c.Count(core.VoteAbstain))
	if len(c.KeyIssues) > 0 {
		fmt.Fprintf(&b, "Key Issues (%d):\n", len(c.KeyIssues))
		for _, issue := range c.KeyIssues {
			fmt.Fprintf(&b, "  %s %s\n", severityStyle(issue.Severity).Render("•"), issue.Description)
		}
	}
	if len(c.AcceptedSuggestions) > 0 {
		fmt.Fprintf(&b, "Agreed Suggestions (%d):\n", len(c.AcceptedSuggestions))
		for _, s := range c.AcceptedSuggestions {
			fmt.Fprintf(&b, "  • %s\n", s)
		}
	}
	return b.String()
}
