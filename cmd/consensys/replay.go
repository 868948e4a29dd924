package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-ing/consensys/core"
)

var replayCmd = &cobra.Command{
	Use:   "replay <session-id>",
	Short: "Replay a past debate session",
	Long: `Shows the complete debate history: code, reviews, responses, votes, and
final consensus. The session id may be a unique prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sessionID, err := resolveSessionID(st.ListSessions, args[0])
		if err != nil {
			return err
		}

		session, err := st.GetSession(sessionID)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		status := "In Progress"
		if session.FinalDecision != nil {
			status = string(*session.FinalDecision)
		}
		fmt.Println()
		fmt.Println(headerStyle.Render("Debate Replay"))
		fmt.Println("Session: " + session.ID)
		fmt.Println("Date:    " + session.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Println("Status:  " + status)
		fmt.Println()
		fmt.Println(renderCode(session.Code))
		if session.Context != "" {
			fmt.Println(dimStyle.Render("Context: " + session.Context))
		}

		reviews, err := st.GetReviews(sessionID)
		if err != nil {
			return fmt.Errorf("load reviews: %w", err)
		}
		if len(reviews) > 0 {
			fmt.Println(rule("Round 1: Initial Reviews"))
			for _, r := range reviews {
				fmt.Println(renderReview(r))
			}
			fmt.Println(renderReviewSummary(reviews))
		}

		responses, err := st.GetResponses(sessionID)
		if err != nil {
			return fmt.Errorf("load responses: %w", err)
		}
		if len(responses) > 0 {
			fmt.Println(rule("Round 2: Debate Responses"))
			for _, r := range responses {
				fmt.Println(renderResponse(r))
			}
		}

		votes, err := st.GetVotes(sessionID)
		if err != nil {
			return fmt.Errorf("load votes: %w", err)
		}
		if len(votes) > 0 {
			fmt.Println(rule("Round 3: Final Voting"))
			for _, v := range votes {
				fmt.Println(renderVote(v))
			}
		}

		result, err := st.GetConsensus(sessionID)
		if err != nil && !errors.Is(err, core.ErrSessionNotFound) {
			return fmt.Errorf("load consensus: %w", err)
		}
		if result != nil {
			fmt.Println(renderConsensus(result))
		}
		return nil
	},
}

// resolveSessionID expands a session id prefix to a full id, failing on no
// match or an ambiguous one.
func resolveSessionID(list func(limit int) ([]core.Session, error), prefix string) (string, error) {
	sessions, err := list(0)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}
	var matching []string
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, prefix) {
			matching = append(matching, s.ID)
		}
	}
	switch len(matching) {
	case 0:
		return "", fmt.Errorf("session not found: %s (run 'consensys history' to see available sessions)", prefix)
	case 1:
		return matching[0], nil
	default:
		shown := matching
		if len(shown) > 5 {
			shown = shown[:5]
		}
		return "", fmt.Errorf("multiple sessions match %q:\n  %s\nprovide a more specific session id",
			prefix, strings.Join(shown, "\n  "))
	}
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
