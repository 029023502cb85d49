package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/output"
	"github.com/vijay-prabhu/jobmatch/internal/tracker"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize scored jobs",
	Long: `Show the average match, the number of strong matches and how the scored
jobs spread across match bands.

A strong match scores at least [matching] strong_match_percent (70 by default).`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	scores, err := db.MatchScores(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}
	summary := tracker.Summarize(scores, cfg.Matching.StrongMatchPercent)

	if err := output.Output(outputFmt, summary); err != nil {
		return err
	}

	if outputFmt == output.FormatTable {
		last, err := db.LastScoredAt(ctx)
		if err != nil {
			return fmt.Errorf("failed to load last score time: %w", err)
		}
		if last != nil {
			fmt.Printf("\nLast scored %s\n", tracker.Age(*last))
		}
	}
	return nil
}

// printSummary prints the one-line summary after a scoring run
func printSummary(ctx context.Context, db *database.DB, strongPercent int) error {
	scores, err := db.MatchScores(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}
	fmt.Println(tracker.Summarize(scores, strongPercent))
	return nil
}
