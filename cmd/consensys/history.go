package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past review sessions",
	Long: `Lists recent review sessions with their IDs, dates, and final decisions.
Use 'consensys replay <session-id>' to view a past debate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.ListSessions(historyLimit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No review sessions found.")
			fmt.Println("Run 'consensys review <file>' to start a review.")
			return nil
		}

		fmt.Println()
		fmt.Println(headerStyle.Render(fmt.Sprintf("Recent Review Sessions (last %d)", historyLimit)))
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tDATE\tDECISION\tCODE")
		for _, s := range sessions {
			decision := "In Progress"
			if s.FinalDecision != nil {
				decision = decisionStyle(*s.FinalDecision).Render(string(*s.FinalDecision))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				shortID(s.ID), s.CreatedAt.Local().Format("2006-01-02 15:04"), decision, codePreview(s.Code))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(dimStyle.Render("Use 'consensys replay <session-id>' to view a session"))
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}

// codePreview flattens code to one line, truncating on rune boundaries.
func codePreview(code string) string {
	preview := strings.ReplaceAll(code, "\n", " ")
	runes := []rune(preview)
	if len(runes) > 40 {
		return string(runes[:37]) + "..."
	}
	return preview
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of sessions to show")
	rootCmd.AddCommand(historyCmd)
}
