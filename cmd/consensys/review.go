package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	reviewCode    string
	reviewContext string
)

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Run a full debate review on code",
	Long: `Run a full debate review on code.

Review a file:
    consensys review path/to/file.go

Review inline code:
    consensys review --code 'func foo() {}'

Add context:
    consensys review file.go --context 'This is a critical auth function'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var code string
		ctx := reviewContext
		switch {
		case len(args) == 1:
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			code = string(data)
			if ctx == "" {
				ctx = "File: " + filepath.Base(args[0])
			}
		case reviewCode != "":
			code = reviewCode
		default:
			return fmt.Errorf("provide either a file path or --code")
		}

		engine, st, err := newEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Println()
		fmt.Println(headerStyle.Render("Code Under Review"))
		fmt.Println(renderCode(code))
		if ctx != "" {
			fmt.Println(dimStyle.Render("Context: " + ctx))
		}

		orch := engine.NewDebate()
		reviews, err := orch.StartReview(cmd.Context(), code, ctx)
		if err != nil {
			return fmt.Errorf("review failed: %w", err)
		}
		fmt.Println()
		fmt.Println(renderReviewSummary(reviews))

		if _, err := orch.RunResponses(cmd.Context()); err != nil {
			return fmt.Errorf("review failed: %w", err)
		}
		if _, err := orch.RunVoting(cmd.Context()); err != nil {
			return fmt.Errorf("review failed: %w", err)
		}
		result, err := orch.BuildConsensus()
		if err != nil {
			return fmt.Errorf("review failed: %w", err)
		}

		for _, w := range orch.Warnings() {
			fmt.Println(abstainStyle.Render("warning: ") + w.Error())
		}
		fmt.Println(renderConsensus(result))
		fmt.Println(idStyle.Render("Session ID: " + result.SessionID))
		fmt.Println(dimStyle.Render("Replay with: consensys replay " + result.SessionID))
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewCode, "code", "c", "", "Review an inline code snippet instead of a file")
	reviewCmd.Flags().StringVarP(&reviewContext, "context", "x", "", "Additional context about the code")
	rootCmd.AddCommand(reviewCmd)
}
